package diag

import (
	"errors"
	"strings"
)

type Diagnostic struct {
	Severity Severity
	Code     Code
	Subject  string
	Message  string
	Notes    []string
}

// FromError converts an error into an error-severity diagnostic. Subject is
// taken from a ConfigError when present, otherwise from fallback.
func FromError(err error, fallback string) Diagnostic {
	d := Diagnostic{
		Severity: SevError,
		Code:     CodeOf(err),
		Subject:  fallback,
		Message:  err.Error(),
	}
	var cfg *ConfigError
	if errors.As(err, &cfg) {
		d.Subject = cfg.Subject
		d.Message = cfg.Message
	}
	return d
}

func (d Diagnostic) WithNote(msg string) Diagnostic {
	d.Notes = append(d.Notes, msg)
	return d
}

// String renders "severity CODE subject: message".
func (d Diagnostic) String() string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(d.Severity.String()))
	sb.WriteByte(' ')
	sb.WriteString(d.Code.ID())
	sb.WriteByte(' ')
	if d.Subject != "" {
		sb.WriteString(d.Subject)
		sb.WriteString(": ")
	}
	sb.WriteString(d.Message)
	return sb.String()
}
