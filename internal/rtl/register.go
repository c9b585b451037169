package rtl

import (
	"svreg/internal/code"
	"svreg/internal/component"
	"svreg/internal/expr"
	"svreg/internal/ident"
	"svreg/internal/regmap"
	"svreg/internal/sv"
)

// loopVariable names the generate loop variable of nesting level n: i, j,
// k and so on.
func loopVariable(n int) string {
	return string(rune('i' + n))
}

// registerTop places a register in the module: its slot in the register
// interface array and the generate scope its logic lives in.
type registerTop struct {
	component.Base
	register *regmap.Register

	block      *blockTop
	baseIndex  int
	loopVars   []*ident.Identifier
	bitFieldIf *ident.Identifier
}

func newRegisterTop(n *component.Node) component.Feature {
	return &registerTop{
		Base:     component.NewBase(IDRegisterTop, n),
		register: n.Model.(*regmap.Register),
	}
}

func (f *registerTop) Build() error {
	block, err := lookup[*blockTop](f.Node().Ancestor(component.LayerRegisterBlock), IDBlockTop)
	if err != nil {
		return err
	}
	f.block = block
	f.baseIndex = f.register.BaseIndex()
	for i := range f.register.Size {
		f.loopVars = append(f.loopVars, ident.New(loopVariable(i)))
	}
	if len(f.register.BitFields) > 0 {
		f.bitFieldIf = f.Interface(component.DomainRegister, sv.InterfaceInstance{
			InterfaceType:   "rggen_bit_field_if",
			Name:            "bit_field_if",
			ParameterValues: []expr.Value{expr.Int(f.register.Width())},
		})
	}
	f.AddCode(component.CodeRegisterBlock, f.scope)
	return nil
}

// LoopVariables returns one identifier per array dimension; nil for a plain
// register.
func (f *registerTop) LoopVariables() []*ident.Identifier {
	return f.loopVars
}

// LocalIndex is the offset of the current loop iteration within the
// register's own group, e.g. "2*i+j" for a [4][2] register. Absent for a
// plain register.
func (f *registerTop) LocalIndex() expr.Value {
	if !f.register.Array() {
		return expr.Value{}
	}
	vars := make([]expr.Value, len(f.loopVars))
	for i, v := range f.loopVars {
		vars[i] = expr.Name(v.String())
	}
	return expr.Linear(expr.Strides(expr.Ints(f.register.Size...)), vars)
}

// Index is the register's slot in the register interface array. For an
// arrayed register the local index, or offset when given, is added to the
// base index.
func (f *registerTop) Index(offset expr.Value) expr.Value {
	if !f.register.Array() {
		return expr.Int(f.baseIndex)
	}
	return expr.Sum(expr.Int(f.baseIndex), offset.Or(f.LocalIndex()))
}

func (f *registerTop) loops() []sv.Loop {
	loops := make([]sv.Loop, len(f.loopVars))
	for i, v := range f.loopVars {
		loops[i] = sv.Loop{Var: v.String(), Size: expr.Int(f.register.Size[i])}
	}
	return loops
}

func (f *registerTop) scope(w *code.Writer) {
	n := f.Node()
	sv.LocalScope{
		Name:      "g_" + f.register.Name,
		TopScope:  true,
		Loops:     f.loops(),
		Variables: sv.Lines(n.Declarations(component.DomainRegister, component.KindVariable)...),
		Body: func(w *code.Writer) {
			n.GenerateCode(w, component.CodeRegister, component.TopDown)
		},
	}.Render(w)
}

// defaultRegister instantiates the generic register that decodes the
// register's address and gathers its bit fields.
type defaultRegister struct {
	component.Base
	register *regmap.Register
	top      *registerTop
}

func newDefaultRegister(n *component.Node) component.Feature {
	return &defaultRegister{
		Base:     component.NewBase(component.FeatureID(component.LayerRegister, "type.default"), n),
		register: n.Model.(*regmap.Register),
	}
}

func (f *defaultRegister) Build() error {
	top, err := lookup[*registerTop](f.Node(), IDRegisterTop)
	if err != nil {
		return err
	}
	f.top = top
	f.AddCode(component.CodeRegister, f.instance)
	return nil
}

func (f *defaultRegister) readable() bool { return len(f.register.BitFields) > 0 }

func (f *defaultRegister) writable() bool {
	for _, bf := range f.register.BitFields {
		if bf.Type != regmap.TypeRO {
			return true
		}
	}
	return false
}

// offsetAddress is the address of the current loop iteration.
func (f *defaultRegister) offsetAddress() string {
	aw := f.register.Block.Config.AddressWidth
	base := expr.Text(sv.Hex(f.register.OffsetAddress, aw))
	if !f.register.Array() {
		return base.String()
	}
	return expr.Sum(base, expr.Product(expr.Int(f.register.ByteWidth()), f.top.LocalIndex())).String()
}

func (f *defaultRegister) instance(w *code.Writer) {
	cfg := f.register.Block.Config
	bitFieldIf := "bit_field_if"
	if f.top.bitFieldIf == nil {
		bitFieldIf = ""
	}
	sv.Instance{
		ModuleType: "rggen_default_register",
		Name:       "u_register",
		Parameters: []sv.Connection{
			{Name: "READABLE", Value: boolBit(f.readable())},
			{Name: "WRITABLE", Value: boolBit(f.writable())},
			sv.ConnectValue("ADDRESS_WIDTH", expr.Int(cfg.AddressWidth)),
			{Name: "OFFSET_ADDRESS", Value: f.offsetAddress()},
			sv.ConnectValue("BUS_WIDTH", expr.Int(cfg.BusWidth)),
			sv.ConnectValue("DATA_WIDTH", expr.Int(f.register.Width())),
		},
		Ports: []sv.Connection{
			sv.Connect("i_clk", f.top.block.clock),
			sv.Connect("i_rst_n", f.top.block.reset),
			sv.Connect("register_if", f.top.block.RegisterIf(f.top.Index(expr.Value{}))),
			{Name: "bit_field_if", Value: bitFieldIf},
		},
	}.Render(w)
}

func boolBit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
