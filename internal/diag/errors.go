package diag

import (
	"errors"
	"fmt"
)

// Coded is implemented by errors that carry a diagnostic code.
type Coded interface {
	error
	DiagCode() Code
}

// ConfigError reports an invalid value supplied by the register map or the
// project configuration. Subject names the offending element, e.g.
// "block_0.register_1.bit_field_0".
type ConfigError struct {
	Code    Code
	Subject string
	Message string
}

// Configf builds a ConfigError with a formatted message.
func Configf(code Code, subject, format string, args ...any) *ConfigError {
	return &ConfigError{Code: code, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	if e.Subject == "" {
		return e.Message
	}
	return e.Subject + ": " + e.Message
}

func (e *ConfigError) DiagCode() Code { return e.Code }

// ShapeError reports an array selection whose arity differs from the
// identifier's declared dimension count.
type ShapeError struct {
	Identifier string
	Want       int
	Got        int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %d array indices given for %d dimensions", e.Identifier, e.Got, e.Want)
}

func (e *ShapeError) DiagCode() Code { return ShpArityMismatch }

// UnknownSubIdentifierError reports a hierarchical reference to a name that
// was not declared on the parent identifier.
type UnknownSubIdentifierError struct {
	Identifier string
	Name       string
}

func (e *UnknownSubIdentifierError) Error() string {
	return fmt.Sprintf("%s: undeclared sub identifier %q", e.Identifier, e.Name)
}

func (e *UnknownSubIdentifierError) DiagCode() Code { return ShpUnknownSubIdentifier }

// IOError wraps a file system failure with the path involved.
type IOError struct {
	Code Code
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) DiagCode() Code { return e.Code }

// CodeOf returns the code of the first coded error in err's chain.
func CodeOf(err error) Code {
	var coded Coded
	if errors.As(err, &coded) {
		return coded.DiagCode()
	}
	return UnknownCode
}
