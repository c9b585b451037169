package rtl

import (
	"svreg/internal/code"
	"svreg/internal/component"
	"svreg/internal/expr"
	"svreg/internal/regmap"
	"svreg/internal/sv"
)

// fieldType describes the bit field module of one access type.
type fieldType struct {
	name   string
	module string
	// stateful types are clocked and take INITIAL_VALUE.
	stateful bool
	// control names the extra input ("enable", "lock"); the reference field
	// drives it when one is configured.
	control string
	// input types read their value from a port instead of driving one.
	input bool
}

var fieldTypes = []fieldType{
	{name: regmap.TypeRW, module: "rggen_bit_field_rw", stateful: true},
	{name: regmap.TypeRO, module: "rggen_bit_field_ro", input: true},
	{name: regmap.TypeRWE, module: "rggen_bit_field_rwe", stateful: true, control: "enable"},
	{name: regmap.TypeRWL, module: "rggen_bit_field_rwl", stateful: true, control: "lock"},
}

func (t fieldType) factory() component.Factory {
	return func(n *component.Node) component.Feature {
		field := n.Model.(*regmap.BitField)
		if field.Type != t.name {
			return nil
		}
		return &typedField{
			Base:  component.NewBase(component.FeatureID(component.LayerBitField, "type."+t.name), n),
			kind:  t,
			field: field,
		}
	}
}

// typedField instantiates the bit field module and declares the ports it
// needs.
type typedField struct {
	component.Base
	kind  fieldType
	field *regmap.BitField

	top   *bitFieldTop
	ports []sv.Connection
}

func (f *typedField) Build() error {
	top, err := lookup[*bitFieldTop](f.Node(), IDBitFieldTop)
	if err != nil {
		return err
	}
	f.top = top
	name := f.field.FullName()
	block := top.register.block

	if f.kind.stateful {
		f.ports = append(f.ports,
			sv.Connect("i_clk", block.clock),
			sv.Connect("i_rst_n", block.reset),
		)
	}
	f.ports = append(f.ports, sv.Connect("bit_field_if", top.subIf))

	switch {
	case f.kind.control != "":
		port := "i_" + f.kind.control
		if ref := top.ReferenceValue(); ref != nil {
			f.ports = append(f.ports, sv.Connect(port, ref))
		} else {
			f.ports = append(f.ports, sv.Connect(port, top.fieldPort(sv.DirInput, "i_"+name+"_"+f.kind.control, 1)))
		}
	case f.kind.input:
		if ref := top.ReferenceValue(); ref != nil {
			f.ports = append(f.ports, sv.Connect("i_value", ref))
		} else {
			f.ports = append(f.ports, sv.Connect("i_value", top.fieldPort(sv.DirInput, "i_"+name, f.field.Width)))
		}
	}
	if !f.kind.input {
		f.ports = append(f.ports, sv.Connect("o_value", top.fieldPort(sv.DirOutput, "o_"+name, f.field.Width)))
	}

	f.AddCode(component.CodeBitField, f.instance)
	return nil
}

func (f *typedField) instance(w *code.Writer) {
	params := []sv.Connection{sv.ConnectValue("WIDTH", expr.Int(f.field.Width))}
	if f.kind.stateful {
		params = append(params, sv.Connect("INITIAL_VALUE", f.top.initialValue))
	}
	sv.Instance{
		ModuleType: f.kind.module,
		Name:       "u_bit_field",
		Parameters: params,
		Ports:      f.ports,
	}.Render(w)
}
