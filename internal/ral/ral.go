// Package ral generates the UVM register abstraction layer package of a
// register block: one model class per register and one for the block.
package ral

import (
	"fmt"

	"svreg/internal/code"
	"svreg/internal/component"
	"svreg/internal/regmap"
	"svreg/internal/sv"
)

const (
	domainBlock    = component.DomainRegisterBlock
	domainRegister = component.DomainRegister
)

// NewRegistry returns every RAL feature in attachment order.
func NewRegistry() *component.Registry {
	r := component.NewRegistry()
	r.MustRegister(component.LayerRegisterBlock, "sv_ral_top", newBlockModel)
	r.MustRegister(component.LayerRegister, "sv_ral_top", newRegisterModel)
	r.MustRegister(component.LayerBitField, "sv_ral_top", newFieldModel)
	return r
}

// PackageName is the name of the RAL package of block.
func PackageName(block *regmap.RegisterBlock) string {
	return block.Name + "_ral_pkg"
}

// Render writes the RAL package of a built tree. Register models come
// first, the block model last.
func Render(w *code.Writer, root *component.Node) {
	block := root.Model.(*regmap.RegisterBlock)
	sv.PackageDefinition{
		Name:     PackageName(block),
		Imports:  root.PackageImports(component.DomainPackage),
		Includes: []string{"uvm_macros.svh", "rggen_ral_macros.svh"},
		Body: func(w *code.Writer) {
			root.GenerateCode(w, component.CodeRALPackage, component.BottomUp)
		},
	}.Render(w)
}

// Generate builds the RAL tree of block and renders its package.
func Generate(block *regmap.RegisterBlock, enabled component.EnabledSet) (string, error) {
	root, err := block.Tree(NewRegistry(), enabled)
	if err != nil {
		return "", fmt.Errorf("ral %s: %w", block.Name, err)
	}
	w := code.NewWriter(code.Options{})
	Render(w, root)
	return w.String(), nil
}
