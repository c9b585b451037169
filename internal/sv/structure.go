// Package sv renders SystemVerilog declarative constructs.
//
// Every block shape (class, function, package, module, generate scope) is a
// specialisation of one header/pre-body/body/footer skeleton. The builders are
// pure formatters: they do not validate domain rules, callers hand in
// already-checked declarations.
package sv

import (
	"svreg/internal/code"
)

// Body writes the caller-supplied part of a block.
type Body func(w *code.Writer)

// Text returns a Body that writes s as-is, one statement per line.
func Text(s string) Body {
	return func(w *code.Writer) {
		if s == "" {
			return
		}
		w.WriteString(s)
		w.EnsureNewline()
	}
}

// structure is the skeleton shared by every block renderer.
type structure interface {
	header(w *code.Writer)
	preBody(w *code.Writer)
	footer() string
}

func render(w *code.Writer, s structure, body Body) {
	s.header(w)
	w.EnsureNewline()
	w.Indent(func() {
		s.preBody(w)
		if body != nil {
			body(w)
			w.EnsureNewline()
		}
	})
	w.Line(s.footer())
}

func renderString(s structure, body Body) string {
	w := code.NewWriter(code.Options{})
	render(w, s, body)
	return w.String()
}

// headerList writes open, one declaration per indented line separated by
// commas, and close. With no declarations nothing is written and false is
// returned.
func headerList(w *code.Writer, open, close string, decls []string) bool {
	if len(decls) == 0 {
		return false
	}
	w.Line(open)
	w.Indent(func() {
		for i, d := range decls {
			w.Write(d)
			if i < len(decls)-1 {
				w.Write(",")
			}
			w.Newline()
		}
	})
	w.Write(close)
	return true
}

// bodyDeclarations writes one declaration statement per line.
func bodyDeclarations(w *code.Writer, decls []string) {
	for _, d := range decls {
		w.Line(d, ";")
	}
}
