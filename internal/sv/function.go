package sv

import (
	"svreg/internal/code"
	"svreg/internal/expr"
)

// ReturnType of a function. The zero value means no return type is written.
type ReturnType struct {
	DataType string
	Width    expr.Value
}

func (r ReturnType) String() string {
	return join(r.DataType, Range(r.Width))
}

// FunctionDefinition renders
//
//	function [RET ]NAME(
//	  ARGS
//	);
//	  BODY
//	endfunction
//
// and collapses the argument list to "NAME();" when there are no arguments.
type FunctionDefinition struct {
	Name       string
	ReturnType ReturnType
	Arguments  []Argument
	Body       Body
}

func (f FunctionDefinition) header(w *code.Writer) {
	w.Write("function ")
	if ret := f.ReturnType.String(); ret != "" {
		w.Write(ret, " ")
	}
	w.Write(f.Name)
	if !headerList(w, "(", ")", Lines(f.Arguments...)) {
		w.Write("()")
	}
	w.Write(";")
}

func (FunctionDefinition) preBody(*code.Writer) {}

func (FunctionDefinition) footer() string { return "endfunction" }

// Render writes the function into w.
func (f FunctionDefinition) Render(w *code.Writer) { render(w, f, f.Body) }

func (f FunctionDefinition) String() string { return renderString(f, f.Body) }
