// Package expr models the operands of addressing arithmetic.
//
// A Value is either an integer or a free-form SystemVerilog expression text.
// Combining values follows one pinned rule: when every operand is an integer
// the result is folded into a single integer, otherwise the operands are
// rendered and joined with the operator. No partial folding is attempted, so
// the emitted text is a pure function of the operand list.
package expr

import (
	"strconv"
	"strings"
)

type kind uint8

const (
	kindAbsent kind = iota
	kindInt
	kindText
)

// Value is an integer or an expression text. The zero Value is absent.
type Value struct {
	kind kind
	n    int
	text string
}

// Int returns an integer value.
func Int(n int) Value {
	return Value{kind: kindInt, n: n}
}

// Text returns an expression value. Empty text yields the absent value.
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: kindText, text: s}
}

// Name is Text for symbolic names such as parameters or loop variables.
func Name(s string) Value {
	return Text(s)
}

// Ints converts a list of integers.
func Ints(ns ...int) []Value {
	out := make([]Value, len(ns))
	for i, n := range ns {
		out[i] = Int(n)
	}
	return out
}

// Names converts a list of symbolic names.
func Names(ss ...string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = Text(s)
	}
	return out
}

// IsAbsent reports whether v carries no value.
func (v Value) IsAbsent() bool {
	return v.kind == kindAbsent
}

// IsInt reports whether v is an integer.
func (v Value) IsInt() bool {
	return v.kind == kindInt
}

// Int returns the integer held by v.
func (v Value) Int() (int, bool) {
	if v.kind != kindInt {
		return 0, false
	}
	return v.n, true
}

// Or returns v, or def when v is absent.
func (v Value) Or(def Value) Value {
	if v.IsAbsent() {
		return def
	}
	return v
}

func (v Value) String() string {
	switch v.kind {
	case kindInt:
		return strconv.Itoa(v.n)
	case kindText:
		return v.text
	}
	return ""
}

// Equal compares kind and content.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.n == o.n && v.text == o.text
}

// AllInt reports whether every value is an integer.
func AllInt(vs ...Value) bool {
	for _, v := range vs {
		if !v.IsInt() {
			return false
		}
	}
	return true
}

// Sum adds the operands. Absent operands are skipped; an empty sum is 0.
func Sum(vs ...Value) Value {
	ops := present(vs)
	if len(ops) == 0 {
		return Int(0)
	}
	if len(ops) == 1 {
		return ops[0]
	}
	if AllInt(ops...) {
		total := 0
		for _, v := range ops {
			total += v.n
		}
		return Int(total)
	}
	parts := make([]string, len(ops))
	for i, v := range ops {
		parts[i] = v.String()
	}
	return Text(strings.Join(parts, "+"))
}

// Product multiplies the operands. Absent operands are skipped; an empty
// product is 1. Compound text operands are parenthesized.
func Product(vs ...Value) Value {
	ops := present(vs)
	if len(ops) == 0 {
		return Int(1)
	}
	if len(ops) == 1 {
		return ops[0]
	}
	if AllInt(ops...) {
		total := 1
		for _, v := range ops {
			total *= v.n
		}
		return Int(total)
	}
	parts := make([]string, len(ops))
	for i, v := range ops {
		parts[i] = Group(v)
	}
	return Text(strings.Join(parts, "*"))
}

// Group renders v, wrapping it in parentheses when it is an additive
// expression.
func Group(v Value) string {
	s := v.String()
	if v.kind == kindText && isAdditive(s) {
		return "(" + s + ")"
	}
	return s
}

// Strides returns the row-major coefficient of every dimension: the product
// of all sizes to its right. The innermost coefficient is absent.
func Strides(sizes []Value) []Value {
	out := make([]Value, len(sizes))
	for d := 0; d < len(sizes)-1; d++ {
		out[d] = Product(sizes[d+1:]...)
	}
	return out
}

// Linear returns Σ coef*index. Terms with an absent coefficient contribute the
// bare index.
func Linear(coefs, indices []Value) Value {
	terms := make([]Value, len(indices))
	for d, idx := range indices {
		if d < len(coefs) && !coefs[d].IsAbsent() {
			terms[d] = Product(coefs[d], idx)
		} else {
			terms[d] = idx
		}
	}
	return Sum(terms...)
}

func present(vs []Value) []Value {
	out := vs[:0:0]
	for _, v := range vs {
		if !v.IsAbsent() {
			out = append(out, v)
		}
	}
	return out
}

// isAdditive reports whether s has a '+' or '-' outside any bracket pair.
func isAdditive(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '+', '-':
			if depth == 0 && i > 0 {
				return true
			}
		}
	}
	return false
}
