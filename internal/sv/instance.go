package sv

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"svreg/internal/code"
	"svreg/internal/expr"
)

// Connection binds a parameter or port name to an expression.
type Connection struct {
	Name  string
	Value string
}

// Connect is a shorthand for building a Connection from any stringer.
func Connect(name string, value interface{ String() string }) Connection {
	return Connection{Name: name, Value: value.String()}
}

// ConnectValue binds name to an expression value.
func ConnectValue(name string, v expr.Value) Connection {
	return Connection{Name: name, Value: v.String()}
}

// Instance renders a module instantiation with named connections. Each
// ".NAME" column is padded to the even width just past the longest entry of
// its list, so parameter and port lists align independently.
type Instance struct {
	ModuleType string
	Name       string
	Parameters []Connection
	Ports      []Connection
}

// Render writes the instance into w.
func (i Instance) Render(w *code.Writer) {
	w.Write(i.ModuleType)
	if len(i.Parameters) > 0 {
		w.Write(" ")
		headerList(w, "#(", ")", alignConnections(i.Parameters))
	}
	w.Write(" ", i.Name, " ")
	if !headerList(w, "(", ")", alignConnections(i.Ports)) {
		w.Write("()")
	}
	w.Line(";")
}

func (i Instance) String() string {
	w := code.NewWriter(code.Options{})
	i.Render(w)
	return w.String()
}

func alignConnections(conns []Connection) []string {
	if len(conns) == 0 {
		return nil
	}
	column := 0
	for _, c := range conns {
		column = max(column, runewidth.StringWidth(c.Name)+1)
	}
	column++
	column += column % 2

	out := make([]string, len(conns))
	for n, c := range conns {
		var sb strings.Builder
		sb.WriteString(".")
		sb.WriteString(c.Name)
		sb.WriteString(strings.Repeat(" ", column-runewidth.StringWidth(c.Name)-1))
		sb.WriteString("(")
		sb.WriteString(c.Value)
		sb.WriteString(")")
		out[n] = sb.String()
	}
	return out
}
