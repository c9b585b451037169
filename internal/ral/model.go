package ral

import (
	"strconv"
	"strings"

	"svreg/internal/code"
	"svreg/internal/component"
	"svreg/internal/expr"
	"svreg/internal/regmap"
	"svreg/internal/sv"
)

// blockModel renders the block model class.
type blockModel struct {
	component.Base
	block *regmap.RegisterBlock
}

func newBlockModel(n *component.Node) component.Feature {
	return &blockModel{
		Base:  component.NewBase(component.FeatureID(component.LayerRegisterBlock, "sv_ral_top"), n),
		block: n.Model.(*regmap.RegisterBlock),
	}
}

func (f *blockModel) Build() error {
	f.ImportPackage(component.DomainPackage, "uvm_pkg")
	f.ImportPackage(component.DomainPackage, "rggen_ral_pkg")
	f.AddCode(component.CodeRALPackage, f.class)
	return nil
}

func (f *blockModel) className() string { return f.block.Name + "_block_model" }

func (f *blockModel) class(w *code.Writer) {
	n := f.Node()
	sv.ClassDefinition{
		Name:      f.className(),
		Base:      "rggen_ral_block",
		Variables: sv.Lines(n.Declarations(domainBlock, component.KindVariable)...),
		Body: func(w *code.Writer) {
			constructor(w, f.block.Config.ByteWidth())
			sv.FunctionDefinition{
				Name:       "build",
				ReturnType: sv.ReturnType{DataType: "void"},
				Body: func(w *code.Writer) {
					n.GenerateCode(w, component.CodeRegister, component.TopDown)
				},
			}.Render(w)
		},
	}.Render(w)
}

func constructor(w *code.Writer, args ...int) {
	call := "super.new(name"
	for _, a := range args {
		call += ", " + strconv.Itoa(a)
	}
	sv.FunctionDefinition{
		Name:      "new",
		Arguments: []sv.Argument{{DataType: "string", Name: "name"}},
		Body:      sv.Text(call + ", 0);"),
	}.Render(w)
}

// registerModel renders a register model class, declares its instance in
// the block model and creates it in the block's build function.
type registerModel struct {
	component.Base
	register *regmap.Register
}

func newRegisterModel(n *component.Node) component.Feature {
	return &registerModel{
		Base:     component.NewBase(component.FeatureID(component.LayerRegister, "sv_ral_top"), n),
		register: n.Model.(*regmap.Register),
	}
}

func (f *registerModel) Build() error {
	f.Variable(domainBlock, sv.Variable{
		Name:      f.register.Name,
		DataType:  f.className(),
		ArraySize: expr.Ints(f.register.Size...),
		Random:    true,
	})
	f.AddCode(component.CodeRALPackage, f.class)
	f.AddCode(component.CodeRegister, f.create)
	return nil
}

func (f *registerModel) className() string { return f.register.Name + "_reg_model" }

func (f *registerModel) access() string {
	readable, writable := false, false
	for _, bf := range f.register.BitFields {
		readable = true
		writable = writable || bf.Type != regmap.TypeRO
	}
	switch {
	case readable && writable:
		return "RW"
	case writable:
		return "WO"
	}
	return "RO"
}

func (f *registerModel) class(w *code.Writer) {
	n := f.Node()
	sv.ClassDefinition{
		Name:      f.className(),
		Base:      "rggen_ral_reg",
		Variables: sv.Lines(n.Declarations(domainRegister, component.KindVariable)...),
		Body: func(w *code.Writer) {
			constructor(w, f.register.Width())
			sv.FunctionDefinition{
				Name:       "build",
				ReturnType: sv.ReturnType{DataType: "void"},
				Body: func(w *code.Writer) {
					n.GenerateCode(w, component.CodeBitField, component.TopDown)
				},
			}.Render(w)
		},
	}.Render(w)
}

// create emits one create_reg call per register instance.
func (f *registerModel) create(w *code.Writer) {
	aw := f.register.Block.LocalAddressWidth()
	for i, idx := range indices(f.register.Size) {
		name := f.register.Name + brackets(idx)
		address := f.register.OffsetAddress + i*f.register.ByteWidth()
		w.Line(sv.Macro("rggen_ral_create_reg",
			name,
			sv.ArrayLiteral(anyInts(idx)...),
			sv.Hex(address, aw),
			sv.Quote(f.access()),
			sv.Quote(f.hdlPath(idx)),
		))
	}
}

func (f *registerModel) hdlPath(idx []int) string {
	var sb strings.Builder
	sb.WriteString("g_" + f.register.Name)
	for _, i := range idx {
		sb.WriteString(".g[" + strconv.Itoa(i) + "]")
	}
	sb.WriteString(".u_register")
	return sb.String()
}

// fieldModel declares a field in its register model and creates it in the
// register's build function.
type fieldModel struct {
	component.Base
	field *regmap.BitField
}

func newFieldModel(n *component.Node) component.Feature {
	return &fieldModel{
		Base:  component.NewBase(component.FeatureID(component.LayerBitField, "sv_ral_top"), n),
		field: n.Model.(*regmap.BitField),
	}
}

func (f *fieldModel) Build() error {
	var size []expr.Value
	if f.field.Sequential() {
		size = expr.Ints(f.field.SequenceSize)
	}
	f.Variable(domainRegister, sv.Variable{
		Name:      f.field.Name,
		DataType:  ModelName(f.field),
		ArraySize: size,
		Random:    true,
	})
	f.AddCode(component.CodeBitField, f.create)
	return nil
}

// ModelName is the UVM class a field is modelled with. Fields whose
// behaviour depends on another field carry that field's register and name
// as parameters.
func ModelName(f *regmap.BitField) string {
	switch f.Type {
	case regmap.TypeRWE, regmap.TypeRWL:
		regName, fieldName := "", ""
		if ref := f.Reference(); ref != nil {
			regName, fieldName = ref.Register.Name, ref.Name
		}
		return "rggen_ral_" + f.Type + "_field #(" + sv.Quote(regName) + ", " + sv.Quote(fieldName) + ")"
	}
	return "rggen_ral_field"
}

func access(f *regmap.BitField) string {
	if f.Type == regmap.TypeRO {
		return "RO"
	}
	return "RW"
}

func (f *fieldModel) create(w *code.Writer) {
	volatile, hasReset := 0, 1
	if f.field.Type == regmap.TypeRO {
		volatile, hasReset = 1, 0
	}
	for i := range f.field.SequenceCount() {
		name, index := f.field.Name, -1
		if f.field.Sequential() {
			name, index = name+"["+strconv.Itoa(i)+"]", i
		}
		w.Line(sv.Macro("rggen_ral_create_field",
			name,
			f.field.LSBAt(i),
			f.field.Width,
			sv.Quote(access(f.field)),
			volatile,
			sv.Hex(f.field.InitialValue, f.field.Width),
			hasReset,
			index,
			sv.Quote(""),
		))
	}
}

// indices enumerates every index tuple of dims in row-major order; a plain
// register has the single empty tuple.
func indices(dims []int) [][]int {
	out := [][]int{nil}
	for _, d := range dims {
		next := make([][]int, 0, len(out)*d)
		for _, prefix := range out {
			for i := range d {
				next = append(next, append(append([]int(nil), prefix...), i))
			}
		}
		out = next
	}
	return out
}

func brackets(idx []int) string {
	var sb strings.Builder
	for _, i := range idx {
		sb.WriteString("[" + strconv.Itoa(i) + "]")
	}
	return sb.String()
}

func anyInts(ns []int) []any {
	out := make([]any, len(ns))
	for i, n := range ns {
		out[i] = n
	}
	return out
}
