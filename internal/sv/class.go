package sv

import "svreg/internal/code"

// ClassDefinition renders
//
//	class NAME[ #(PARAMS)][ extends BASE];
//	  VARIABLES;
//	  BODY
//	endclass
type ClassDefinition struct {
	Name       string
	Base       string
	Parameters []string
	Variables  []string
	Body       Body
}

func (c ClassDefinition) header(w *code.Writer) {
	w.Write("class ", c.Name)
	headerList(w, " #(", ")", c.Parameters)
	if c.Base != "" {
		w.Write(" extends ", c.Base)
	}
	w.Write(";")
}

func (c ClassDefinition) preBody(w *code.Writer) {
	bodyDeclarations(w, c.Variables)
}

func (ClassDefinition) footer() string { return "endclass" }

// Render writes the class into w.
func (c ClassDefinition) Render(w *code.Writer) { render(w, c, c.Body) }

func (c ClassDefinition) String() string { return renderString(c, c.Body) }
