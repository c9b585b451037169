package ident

import "svreg/internal/expr"

// Selector is one element of an identifier's selector chain.
type Selector interface {
	selector()
}

type bitSelect struct {
	index expr.Value
}

type partSelect struct {
	lsb   expr.Value
	width expr.Value
}

type arraySelect struct {
	indices []expr.Value
}

func (bitSelect) selector()   {}
func (partSelect) selector()  {}
func (arraySelect) selector() {}

// Bit selects a single bit: name[i].
func Bit(i expr.Value) Selector {
	if i.IsAbsent() {
		return nil
	}
	return bitSelect{index: i}
}

// Part selects width bits starting at lsb: name[lsb+:width].
func Part(lsb, width expr.Value) Selector {
	return partSelect{lsb: lsb, width: width}
}

// Array selects one element per dimension, outermost first. An empty index
// list is the absent selector.
func Array(indices ...expr.Value) Selector {
	if len(indices) == 0 {
		return nil
	}
	return arraySelect{indices: append([]expr.Value(nil), indices...)}
}

// Loop converts loop variable identifiers into array indices.
func Loop(vars []*Identifier) Selector {
	if len(vars) == 0 {
		return nil
	}
	indices := make([]expr.Value, len(vars))
	for i, v := range vars {
		indices[i] = expr.Name(v.String())
	}
	return arraySelect{indices: indices}
}
