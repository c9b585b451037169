package rtl

import (
	"fmt"

	"svreg/internal/code"
	"svreg/internal/component"
	"svreg/internal/regmap"
	"svreg/internal/sv"
)

// Feature ids.
var (
	IDBlockTop    = component.FeatureID(component.LayerRegisterBlock, "sv_rtl_top")
	IDRegisterTop = component.FeatureID(component.LayerRegister, "sv_rtl_top")
	IDBitFieldTop = component.FeatureID(component.LayerBitField, "sv_rtl_top")
)

// NewRegistry returns every RTL feature in attachment order.
func NewRegistry() *component.Registry {
	r := component.NewRegistry()
	r.MustRegister(component.LayerRegisterBlock, "sv_rtl_top", newBlockTop)
	for _, p := range protocols {
		r.MustRegister(component.LayerRegisterBlock, "protocol."+string(p.protocol), p.factory())
	}
	r.MustRegister(component.LayerRegister, "sv_rtl_top", newRegisterTop)
	r.MustRegister(component.LayerRegister, "type.default", newDefaultRegister)
	r.MustRegister(component.LayerBitField, "sv_rtl_top", newBitFieldTop)
	for _, t := range fieldTypes {
		r.MustRegister(component.LayerBitField, "type."+t.name, t.factory())
	}
	return r
}

// Render writes the module of a built register block tree.
func Render(w *code.Writer, root *component.Node) {
	block := root.Model.(*regmap.RegisterBlock)
	m := sv.ModuleDefinition{
		Name:       block.Name,
		Imports:    root.PackageImports(component.DomainRegisterBlock),
		Parameters: sv.Lines(root.Declarations(component.DomainRegisterBlock, component.KindParameter)...),
		Ports:      sv.Lines(root.Declarations(component.DomainRegisterBlock, component.KindPort)...),
		Variables:  sv.Lines(root.Declarations(component.DomainRegisterBlock, component.KindVariable)...),
		Body: func(w *code.Writer) {
			root.GenerateCode(w, component.CodeRegisterBlock, component.TopDown)
		},
	}
	m.Render(w)
}

// Generate builds the tree of block with every enabled RTL feature and
// renders its module.
func Generate(block *regmap.RegisterBlock, enabled component.EnabledSet) (string, error) {
	root, err := block.Tree(NewRegistry(), enabled)
	if err != nil {
		return "", fmt.Errorf("rtl %s: %w", block.Name, err)
	}
	w := code.NewWriter(code.Options{})
	Render(w, root)
	return w.String(), nil
}

// lookup finds a feature of type T on n.
func lookup[T component.Feature](n *component.Node, id string) (T, error) {
	var zero T
	if n == nil {
		return zero, fmt.Errorf("feature %s: no such node", id)
	}
	f, ok := n.Feature(id)
	if !ok {
		return zero, fmt.Errorf("feature %s is required but not enabled", id)
	}
	t, ok := f.(T)
	if !ok {
		return zero, fmt.Errorf("feature %s has unexpected type %T", id, f)
	}
	return t, nil
}
