package component

import (
	"fmt"

	"svreg/internal/code"
	"svreg/internal/sv"
)

// Node is one level of the component tree. Model is the register map
// object the node stands for.
type Node struct {
	Layer    Layer
	Model    any
	parent   *Node
	children []*Node
	features []Feature
	byID     map[string]Feature
}

// NewNode creates a node and, when parent is not nil, appends it to the
// parent's children.
func NewNode(layer Layer, model any, parent *Node) *Node {
	n := &Node{Layer: layer, Model: model, byID: map[string]Feature{}}
	if parent != nil {
		parent.AddChild(n)
	}
	return n
}

// AddChild appends child and makes n its parent. Adding a child of n again
// is a no-op; a node can't move to another parent.
func (n *Node) AddChild(child *Node) {
	switch child.parent {
	case nil:
	case n:
		return
	default:
		panic(fmt.Sprintf("component: %s node already has a parent", child.Layer))
	}
	child.parent = n
	n.children = append(n.children, child)
}

// AddFeature appends f.
func (n *Node) AddFeature(f Feature) {
	n.features = append(n.features, f)
	n.byID[f.ID()] = f
}

// Children returns the child nodes in insertion order.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) Features() []Feature {
	return n.features
}

// Feature looks up an attached feature by id.
func (n *Node) Feature(id string) (Feature, bool) {
	f, ok := n.byID[id]
	return f, ok
}

// Ancestor walks up to the nearest node at layer.
func (n *Node) Ancestor(layer Layer) *Node {
	for p := n.parent; p != nil; p = p.parent {
		if p.Layer == layer {
			return p
		}
	}
	return nil
}

// Build runs Build on every feature, depth-first with own features first.
// The first error stops the walk.
func (n *Node) Build() error {
	for _, f := range n.features {
		if err := f.Build(); err != nil {
			return fmt.Errorf("%s: %w", f.ID(), err)
		}
	}
	for _, c := range n.children {
		if err := c.Build(); err != nil {
			return err
		}
	}
	return nil
}

// Declarations collects declarations of domain and kind from the subtree.
// Duplicates are kept.
func (n *Node) Declarations(domain Domain, kind Kind) []sv.Declarer {
	var out []sv.Declarer
	n.walk(func(f Feature) {
		out = append(out, f.Declarations(domain, kind)...)
	})
	return out
}

// PackageImports collects package import requests of domain from the
// subtree. Duplicates are kept; renderers collapse them.
func (n *Node) PackageImports(domain Domain) []string {
	var out []string
	n.walk(func(f Feature) {
		out = append(out, f.PackageImports(domain)...)
	})
	return out
}

// GenerateCode writes the code fragments of kind from the subtree.
func (n *Node) GenerateCode(w *code.Writer, kind CodeKind, mode Mode) {
	if mode == TopDown {
		n.generateOwn(w, kind)
	}
	for _, c := range n.children {
		c.GenerateCode(w, kind, mode)
	}
	if mode == BottomUp {
		n.generateOwn(w, kind)
	}
}

func (n *Node) generateOwn(w *code.Writer, kind CodeKind) {
	for _, f := range n.features {
		f.GenerateCode(w, kind)
	}
}

func (n *Node) walk(fn func(Feature)) {
	for _, f := range n.features {
		fn(f)
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}
