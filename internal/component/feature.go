package component

import (
	"svreg/internal/code"
	"svreg/internal/ident"
	"svreg/internal/sv"
)

// Feature is one unit of generated content attached to a node.
type Feature interface {
	// ID is the registry identifier, "<layer>.<name>".
	ID() string
	// Build declares everything the feature contributes. It runs once,
	// after the whole tree exists.
	Build() error
	Declarations(domain Domain, kind Kind) []sv.Declarer
	PackageImports(domain Domain) []string
	GenerateCode(w *code.Writer, kind CodeKind)
}

type declKey struct {
	domain Domain
	kind   Kind
}

// Base implements the bookkeeping half of Feature. Concrete features embed
// it and add Build.
type Base struct {
	id      string
	node    *Node
	decls   map[declKey][]sv.Declarer
	imports map[Domain][]string
	code    map[CodeKind][]sv.Body
}

// NewBase binds a feature to its node.
func NewBase(id string, node *Node) Base {
	return Base{
		id:      id,
		node:    node,
		decls:   map[declKey][]sv.Declarer{},
		imports: map[Domain][]string{},
		code:    map[CodeKind][]sv.Body{},
	}
}

func (b *Base) ID() string { return b.id }

// Node returns the node the feature is attached to.
func (b *Base) Node() *Node { return b.node }

func (b *Base) declare(domain Domain, kind Kind, d sv.Declarer) {
	key := declKey{domain, kind}
	b.decls[key] = append(b.decls[key], d)
}

// Variable declares a variable and returns a reference to it.
func (b *Base) Variable(domain Domain, v sv.Variable) *ident.Identifier {
	b.declare(domain, KindVariable, v)
	return v.Identifier()
}

// Interface declares an interface instance as a variable.
func (b *Base) Interface(domain Domain, i sv.InterfaceInstance, opts ...ident.Option) *ident.Identifier {
	b.declare(domain, KindVariable, i)
	return i.Identifier(opts...)
}

// Parameter declares a parameter and returns a reference to it.
func (b *Base) Parameter(domain Domain, p sv.Parameter) *ident.Identifier {
	b.declare(domain, KindParameter, p)
	return p.Identifier()
}

// Port declares a port and returns a reference to it.
func (b *Base) Port(domain Domain, p sv.Port, opts ...ident.Option) *ident.Identifier {
	b.declare(domain, KindPort, p)
	return p.Identifier(opts...)
}

// ImportPackage requests "import pkg::*;" in domain.
func (b *Base) ImportPackage(domain Domain, pkg string) {
	b.imports[domain] = append(b.imports[domain], pkg)
}

// AddCode registers a code fragment for kind. Fragments run in the order
// they were added.
func (b *Base) AddCode(kind CodeKind, body sv.Body) {
	b.code[kind] = append(b.code[kind], body)
}

func (b *Base) Declarations(domain Domain, kind Kind) []sv.Declarer {
	return b.decls[declKey{domain, kind}]
}

func (b *Base) PackageImports(domain Domain) []string {
	return b.imports[domain]
}

func (b *Base) GenerateCode(w *code.Writer, kind CodeKind) {
	for _, body := range b.code[kind] {
		body(w)
		w.EnsureNewline()
	}
}
