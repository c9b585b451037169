// Package ident builds signal references.
//
// An Identifier is immutable: every selection returns a new value that shares
// the base name and array metadata of its parent and carries a longer
// selector chain. Rendering happens in String, which is where the array
// format matters: packed and unpacked arrays are addressed one bracket per
// dimension, serialized arrays are linearized into a single bit range.
package ident

import (
	"strings"

	"svreg/internal/diag"
	"svreg/internal/expr"
)

// Resolver produces the identifier for a declared sub-identifier.
type Resolver func(parent *Identifier, name string) *Identifier

type attributes struct {
	width     expr.Value
	arraySize []expr.Value
	format    Format
	subs      map[string]Resolver
}

type Identifier struct {
	name  string
	chain []Selector
	attrs *attributes
}

// Option configures an identifier at creation time.
type Option func(*attributes)

// WithWidth sets the element bit width.
func WithWidth(w expr.Value) Option {
	return func(a *attributes) { a.width = w }
}

// WithArraySize sets the dimension sizes, outermost first.
func WithArraySize(sizes ...expr.Value) Option {
	return func(a *attributes) { a.arraySize = append([]expr.Value(nil), sizes...) }
}

// WithArrayFormat sets the storage convention.
func WithArrayFormat(f Format) Option {
	return func(a *attributes) { a.format = f }
}

// WithSubIdentifiers declares hierarchical children rendered as
// "<parent>.<name>".
func WithSubIdentifiers(names ...string) Option {
	return func(a *attributes) {
		for _, n := range names {
			a.subs[n] = DefaultResolver
		}
	}
}

// WithResolver declares a child resolved by r.
func WithResolver(name string, r Resolver) Option {
	return func(a *attributes) { a.subs[name] = r }
}

// DefaultResolver renders "<parent>.<name>".
func DefaultResolver(parent *Identifier, name string) *Identifier {
	return New(parent.String() + "." + name)
}

// New creates an identifier with an empty selector chain.
func New(name string, opts ...Option) *Identifier {
	a := &attributes{subs: map[string]Resolver{}}
	for _, opt := range opts {
		opt(a)
	}
	return &Identifier{name: name, attrs: a}
}

// Name returns the base name without selectors.
func (id *Identifier) Name() string { return id.name }

// Width returns the element width; absent means one bit.
func (id *Identifier) Width() expr.Value { return id.attrs.width }

// ArraySize returns a copy of the dimension sizes.
func (id *Identifier) ArraySize() []expr.Value {
	return append([]expr.Value(nil), id.attrs.arraySize...)
}

// Format returns the array storage convention.
func (id *Identifier) Format() Format { return id.attrs.format }

// Index applies sel. A nil selector returns id itself. An array selection
// whose arity differs from the declared dimensions panics with a
// *diag.ShapeError; use Select to receive it as an error instead.
func (id *Identifier) Index(sel Selector) *Identifier {
	next, err := id.Select(sel)
	if err != nil {
		panic(err)
	}
	return next
}

// Select is Index with the shape check reported as an error.
func (id *Identifier) Select(sel Selector) (*Identifier, error) {
	if sel == nil {
		return id, nil
	}
	if a, ok := sel.(arraySelect); ok && len(a.indices) != len(id.attrs.arraySize) {
		return nil, &diag.ShapeError{Identifier: id.String(), Want: len(id.attrs.arraySize), Got: len(a.indices)}
	}
	chain := make([]Selector, len(id.chain), len(id.chain)+1)
	copy(chain, id.chain)
	return &Identifier{name: id.name, chain: append(chain, sel), attrs: id.attrs}, nil
}

// Bit is shorthand for Index(Bit(i)).
func (id *Identifier) Bit(i expr.Value) *Identifier { return id.Index(Bit(i)) }

// Part is shorthand for Index(Part(lsb, width)).
func (id *Identifier) Part(lsb, width expr.Value) *Identifier { return id.Index(Part(lsb, width)) }

// At is shorthand for Index(Array(indices...)).
func (id *Identifier) At(indices ...expr.Value) *Identifier { return id.Index(Array(indices...)) }

// Sub resolves a declared hierarchical child.
func (id *Identifier) Sub(name string) (*Identifier, error) {
	r, ok := id.attrs.subs[name]
	if !ok {
		return nil, &diag.UnknownSubIdentifierError{Identifier: id.String(), Name: name}
	}
	return r(id, name), nil
}

// MustSub is Sub for names known to be declared; it panics otherwise.
func (id *Identifier) MustSub(name string) *Identifier {
	sub, err := id.Sub(name)
	if err != nil {
		panic(err)
	}
	return sub
}

func (id *Identifier) String() string {
	var sb strings.Builder
	sb.WriteString(id.name)
	for i := 0; i < len(id.chain); i++ {
		switch s := id.chain[i].(type) {
		case bitSelect:
			writeBracket(&sb, s.index.String())
		case partSelect:
			writePart(&sb, s.lsb, s.width)
		case arraySelect:
			if id.attrs.format != Serialized || len(id.attrs.arraySize) == 0 {
				for _, idx := range s.indices {
					writeBracket(&sb, idx.String())
				}
				continue
			}
			lsb := id.serializedLSB(s.indices)
			width := id.attrs.width.Or(expr.Int(1))
			if i+1 < len(id.chain) {
				switch next := id.chain[i+1].(type) {
				case partSelect:
					i++
					writePart(&sb, expr.Sum(lsb, next.lsb), next.width)
					continue
				case bitSelect:
					i++
					writeBracket(&sb, expr.Sum(lsb, next.index).String())
					continue
				}
			}
			writePart(&sb, lsb, width)
		}
	}
	return sb.String()
}

// serializedLSB returns width*Σ(stride*index) for a flattened array.
func (id *Identifier) serializedLSB(indices []expr.Value) expr.Value {
	offset := expr.Linear(expr.Strides(id.attrs.arraySize), indices)
	return expr.Product(id.attrs.width.Or(expr.Int(1)), offset)
}

func writeBracket(sb *strings.Builder, s string) {
	sb.WriteByte('[')
	sb.WriteString(s)
	sb.WriteByte(']')
}

func writePart(sb *strings.Builder, lsb, width expr.Value) {
	writeBracket(sb, lsb.String()+"+:"+width.String())
}
