package sv

import "svreg/internal/code"

// ModuleDefinition renders
//
//	module NAME
//	  import PKG::*;
//	#(
//	  PARAMETERS
//	)(
//	  PORTS
//	);
//	  VARIABLES;
//	  BODY
//	endmodule
type ModuleDefinition struct {
	Name       string
	Imports    []string
	Parameters []string
	Ports      []string
	Variables  []string
	Body       Body
}

func (m ModuleDefinition) header(w *code.Writer) {
	w.Write("module ", m.Name)
	if imports := uniqueImports(m.Imports); len(imports) > 0 {
		w.Newline()
		w.Indent(func() {
			for _, pkg := range imports {
				w.Line("import ", pkg, "::*;")
			}
		})
	} else {
		w.Write(" ")
	}
	headerList(w, "#(", ")", m.Parameters)
	if !headerList(w, "(", ")", m.Ports) {
		w.Write("()")
	}
	w.Write(";")
}

func (m ModuleDefinition) preBody(w *code.Writer) {
	bodyDeclarations(w, m.Variables)
}

func (ModuleDefinition) footer() string { return "endmodule" }

// Render writes the module into w.
func (m ModuleDefinition) Render(w *code.Writer) { render(w, m, m.Body) }

func (m ModuleDefinition) String() string { return renderString(m, m.Body) }
