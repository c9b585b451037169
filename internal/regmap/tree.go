package regmap

import (
	"svreg/internal/component"
)

// Tree builds the component tree of b: one node per register block,
// register and bit field, each carrying the enabled features of r. Features
// are built once the whole tree exists.
func (b *RegisterBlock) Tree(r *component.Registry, enabled component.EnabledSet) (*component.Node, error) {
	root := component.NewNode(component.LayerRegisterBlock, b, nil)
	r.Attach(root, enabled)
	for _, reg := range b.Registers {
		rn := component.NewNode(component.LayerRegister, reg, root)
		r.Attach(rn, enabled)
		for _, f := range reg.BitFields {
			r.Attach(component.NewNode(component.LayerBitField, f, rn), enabled)
		}
	}
	if err := root.Build(); err != nil {
		return nil, err
	}
	return root, nil
}
