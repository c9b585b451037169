package sv

import (
	"svreg/internal/code"
	"svreg/internal/expr"
)

// Loop is one generate-for level of a LocalScope.
type Loop struct {
	Var  string
	Size expr.Value
}

// LocalScope renders a named generate block. A top scope is wrapped in
// generate/endgenerate. Every loop opens a nested "for ... begin : g" block;
// variables and body go inside the innermost one.
type LocalScope struct {
	Name      string
	TopScope  bool
	Loops     []Loop
	Variables []string
	Body      Body
}

// Render writes the scope into w.
func (s LocalScope) Render(w *code.Writer) {
	if s.TopScope {
		w.Write("generate ")
	}
	w.Line("if (1) begin : ", s.Name)
	w.Indent(func() {
		for _, l := range s.Loops {
			w.Line("genvar ", l.Var, ";")
		}
		s.loops(w, s.Loops)
	})
	if s.TopScope {
		w.Line("end endgenerate")
	} else {
		w.Line("end")
	}
}

func (s LocalScope) loops(w *code.Writer, loops []Loop) {
	if len(loops) == 0 {
		bodyDeclarations(w, s.Variables)
		if s.Body != nil {
			s.Body(w)
			w.EnsureNewline()
		}
		return
	}
	l := loops[0]
	w.Line("for (", l.Var, " = 0;", l.Var, " < ", l.Size.String(), ";++", l.Var, ") begin : g")
	w.Indent(func() { s.loops(w, loops[1:]) })
	w.Line("end")
}

func (s LocalScope) String() string {
	w := code.NewWriter(code.Options{})
	s.Render(w)
	return w.String()
}
