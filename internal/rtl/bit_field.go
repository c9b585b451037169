package rtl

import (
	"svreg/internal/code"
	"svreg/internal/component"
	"svreg/internal/expr"
	"svreg/internal/ident"
	"svreg/internal/regmap"
	"svreg/internal/sv"
)

// bitFieldTop opens the generate scope of a bit field, declares its
// sub-interface and slices it out of the register's bit field interface.
type bitFieldTop struct {
	component.Base
	field *regmap.BitField

	register     *registerTop
	loopVars     []*ident.Identifier
	initialValue *ident.Identifier
	subIf        *ident.Identifier
}

func newBitFieldTop(n *component.Node) component.Feature {
	return &bitFieldTop{
		Base:  component.NewBase(IDBitFieldTop, n),
		field: n.Model.(*regmap.BitField),
	}
}

func (f *bitFieldTop) Build() error {
	reg, err := lookup[*registerTop](f.Node().Ancestor(component.LayerRegister), IDRegisterTop)
	if err != nil {
		return err
	}
	f.register = reg
	f.loopVars = append([]*ident.Identifier(nil), reg.LoopVariables()...)
	if f.field.Sequential() {
		f.loopVars = append(f.loopVars, ident.New(loopVariable(len(f.loopVars))))
	}

	if f.field.Type != regmap.TypeRO {
		f.initialValue = f.Parameter(component.DomainBitField, sv.Parameter{
			ParameterType: "localparam",
			DataType:      "bit",
			Width:         expr.Int(f.field.Width),
			Name:          "INITIAL_VALUE",
			Default:       expr.Text(sv.Hex(f.field.InitialValue, f.field.Width)),
		})
	}
	f.subIf = f.Interface(component.DomainBitField, sv.InterfaceInstance{
		InterfaceType:   "rggen_bit_field_if",
		Name:            "bit_field_sub_if",
		ParameterValues: []expr.Value{expr.Int(f.field.Width)},
	})

	f.AddCode(component.CodeRegister, f.scope)
	f.AddCode(component.CodeBitField, f.connect)
	return nil
}

// sequenceVar is the loop variable of a sequential field.
func (f *bitFieldTop) sequenceVar() expr.Value {
	if !f.field.Sequential() {
		return expr.Value{}
	}
	return expr.Name(f.loopVars[len(f.loopVars)-1].String())
}

// lsb is the lsb of the current sequence iteration.
func (f *bitFieldTop) lsb(field *regmap.BitField) expr.Value {
	if !field.Sequential() {
		return expr.Int(field.LSB)
	}
	return expr.Sum(expr.Int(field.LSB), expr.Product(expr.Int(field.Step), f.sequenceVar()))
}

func (f *bitFieldTop) loops() []sv.Loop {
	if !f.field.Sequential() {
		return nil
	}
	v := f.loopVars[len(f.loopVars)-1]
	return []sv.Loop{{Var: v.String(), Size: expr.Int(f.field.SequenceSize)}}
}

func (f *bitFieldTop) scope(w *code.Writer) {
	n := f.Node()
	decls := append(
		sv.Lines(n.Declarations(component.DomainBitField, component.KindParameter)...),
		sv.Lines(n.Declarations(component.DomainBitField, component.KindVariable)...)...,
	)
	sv.LocalScope{
		Name:      "g_" + f.field.Name,
		Loops:     f.loops(),
		Variables: decls,
		Body: func(w *code.Writer) {
			n.GenerateCode(w, component.CodeBitField, component.TopDown)
		},
	}.Render(w)
}

func (f *bitFieldTop) connect(w *code.Writer) {
	w.Line(sv.Macro("rggen_connect_bit_field_if", f.register.bitFieldIf, f.subIf, f.lsb(f.field), f.field.Width))
}

// fieldPort declares a module port carrying one value per field instance
// and returns it selected for the current loop iteration.
func (f *bitFieldTop) fieldPort(dir sv.Direction, name string, width int) *ident.Identifier {
	cfg := f.field.Register.Block.Config
	id := f.Port(component.DomainRegisterBlock, sv.Port{
		Direction:   dir,
		DataType:    "logic",
		Width:       expr.Int(width),
		Name:        name,
		ArraySize:   expr.Ints(f.field.ArraySize()...),
		ArrayFormat: cfg.ArrayPortFormat,
	})
	return id.Index(ident.Loop(f.loopVars))
}

// ReferenceValue is the register interface slice holding the referenced
// field's value; nil without a reference.
func (f *bitFieldTop) ReferenceValue() *ident.Identifier {
	ref := f.field.Reference()
	if ref == nil {
		return nil
	}
	index := expr.Int(ref.Register.BaseIndex())
	if ref.Register.Array() {
		index = expr.Sum(index, f.register.LocalIndex())
	}
	return f.register.block.RegisterIf(index).MustSub("value").Part(f.lsb(ref), expr.Int(ref.Width))
}
