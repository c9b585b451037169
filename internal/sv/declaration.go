package sv

import (
	"strings"

	"svreg/internal/expr"
	"svreg/internal/ident"
)

// Declarer is implemented by every declaration record.
type Declarer interface {
	Declaration() string
}

// Lines renders a list of declarations.
func Lines[T Declarer](ds ...T) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Declaration()
	}
	return out
}

// Direction of a port or function argument.
type Direction uint8

const (
	DirNone Direction = iota
	DirInput
	DirOutput
	DirInout
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	}
	return ""
}

// Variable declares a signal or class member.
type Variable struct {
	Name        string
	DataType    string
	Width       expr.Value
	ArraySize   []expr.Value
	ArrayFormat ident.Format
	Random      bool
}

func (v Variable) Declaration() string {
	return join(qualifier(v.Random), typeClause(v.DataType, v.Width, v.ArraySize, v.ArrayFormat), v.Name+unpackedDims(v.ArraySize, v.ArrayFormat))
}

// Identifier returns a reference to the declared signal.
func (v Variable) Identifier(opts ...ident.Option) *ident.Identifier {
	return ident.New(v.Name, append(attributeOptions(v.Width, v.ArraySize, v.ArrayFormat), opts...)...)
}

// Parameter declares a module, class or local parameter.
type Parameter struct {
	ParameterType string // "parameter", "localparam" or empty
	DataType      string
	Width         expr.Value
	Name          string
	Default       expr.Value
}

func (p Parameter) Declaration() string {
	head := join(p.ParameterType, typeClause(p.DataType, p.Width, nil, ident.Unpacked), p.Name)
	if p.Default.IsAbsent() {
		return head
	}
	return head + " = " + p.Default.String()
}

// Identifier returns a reference to the parameter.
func (p Parameter) Identifier() *ident.Identifier {
	return ident.New(p.Name, ident.WithWidth(p.Width))
}

// Port declares a module port or, with DirNone, a function argument. When
// InterfaceType is set the port is an interface port.
type Port struct {
	Direction     Direction
	DataType      string
	Width         expr.Value
	Name          string
	ArraySize     []expr.Value
	ArrayFormat   ident.Format
	InterfaceType string
	Modport       string
}

// Argument is a function argument; DirNone omits the direction keyword.
type Argument = Port

func (p Port) Declaration() string {
	if p.InterfaceType != "" {
		t := p.InterfaceType
		if p.Modport != "" {
			t += "." + p.Modport
		}
		return t + " " + p.Name + unpackedDims(p.ArraySize, ident.Unpacked)
	}
	return join(p.Direction.String(), typeClause(p.DataType, p.Width, p.ArraySize, p.ArrayFormat), p.Name+unpackedDims(p.ArraySize, p.ArrayFormat))
}

// Identifier returns a reference to the port.
func (p Port) Identifier(opts ...ident.Option) *ident.Identifier {
	return ident.New(p.Name, append(attributeOptions(p.Width, p.ArraySize, p.ArrayFormat), opts...)...)
}

// InterfaceInstance declares an interface instance such as
// "rggen_bit_field_if #(32) bit_field_if()".
type InterfaceInstance struct {
	InterfaceType   string
	Name            string
	ParameterValues []expr.Value
	ArraySize       []expr.Value
	PortConnections []string
}

func (i InterfaceInstance) Declaration() string {
	var sb strings.Builder
	sb.WriteString(i.InterfaceType)
	if len(i.ParameterValues) > 0 {
		vals := make([]string, len(i.ParameterValues))
		for n, v := range i.ParameterValues {
			vals[n] = v.String()
		}
		sb.WriteString(" #(")
		sb.WriteString(strings.Join(vals, ", "))
		sb.WriteString(")")
	}
	sb.WriteString(" ")
	sb.WriteString(i.Name)
	sb.WriteString(unpackedDims(i.ArraySize, ident.Unpacked))
	sb.WriteString("(")
	sb.WriteString(strings.Join(i.PortConnections, ", "))
	sb.WriteString(")")
	return sb.String()
}

// Identifier returns a reference to the instance.
func (i InterfaceInstance) Identifier(opts ...ident.Option) *ident.Identifier {
	return ident.New(i.Name, append([]ident.Option{ident.WithArraySize(i.ArraySize...)}, opts...)...)
}

// Range renders the "[msb:0]" clause of a width. Numeric widths of one bit or
// less have no clause.
func Range(width expr.Value) string {
	if width.IsAbsent() {
		return ""
	}
	if n, ok := width.Int(); ok && n <= 1 {
		return ""
	}
	return "[" + msb(width) + ":0]"
}

func msb(width expr.Value) string {
	if n, ok := width.Int(); ok {
		return expr.Int(n - 1).String()
	}
	return expr.Group(width) + "-1"
}

func typeClause(dataType string, width expr.Value, dims []expr.Value, format ident.Format) string {
	if len(dims) > 0 && format == ident.Serialized {
		width = expr.Product(append([]expr.Value{width.Or(expr.Int(1))}, dims...)...)
	}
	parts := []string{dataType}
	if len(dims) > 0 && format == ident.Packed {
		var sb strings.Builder
		for _, d := range dims {
			sb.WriteString("[" + msb(d) + ":0]")
		}
		sb.WriteString(Range(width))
		parts = append(parts, sb.String())
	} else {
		parts = append(parts, Range(width))
	}
	return join(parts...)
}

func unpackedDims(dims []expr.Value, format ident.Format) string {
	if format != ident.Unpacked {
		return ""
	}
	var sb strings.Builder
	for _, d := range dims {
		sb.WriteString("[" + d.String() + "]")
	}
	return sb.String()
}

func qualifier(random bool) string {
	if random {
		return "rand"
	}
	return ""
}

func attributeOptions(width expr.Value, dims []expr.Value, format ident.Format) []ident.Option {
	return []ident.Option{
		ident.WithWidth(width),
		ident.WithArraySize(dims...),
		ident.WithArrayFormat(format),
	}
}

// join concatenates the non-empty parts with single spaces.
func join(parts ...string) string {
	var sb strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p)
	}
	return sb.String()
}
