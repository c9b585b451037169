package sv

import (
	"strconv"
	"strings"
)

// Assign renders a continuous assignment.
func Assign(lhs, rhs any) string {
	return "assign " + text(lhs) + " = " + text(rhs) + ";"
}

// Concat renders "{a, b, ...}".
func Concat(exprs ...any) string {
	return "{" + joinExprs(exprs) + "}"
}

// ArrayLiteral renders "'{a, b, ...}"; no elements gives "'{}".
func ArrayLiteral(exprs ...any) string {
	return "'{" + joinExprs(exprs) + "}"
}

// Quote renders a string literal.
func Quote(s string) string {
	return `"` + s + `"`
}

// Macro renders a macro call; without arguments the parentheses are dropped.
func Macro(name string, args ...any) string {
	if len(args) == 0 {
		return "`" + name
	}
	return "`" + name + "(" + joinExprs(args) + ")"
}

// Bin renders a binary literal. A width narrower than the value is widened
// to its bit length; no width gives an unsized literal.
func Bin(value int, width ...int) string {
	return sized(value, width, 2, 1, "b")
}

// Dec renders a decimal literal.
func Dec(value int, width ...int) string {
	return sized(value, width, 10, 0, "d")
}

// Hex renders a hexadecimal literal, zero padded to the digit count of its
// width.
func Hex(value int, width ...int) string {
	return sized(value, width, 16, 4, "h")
}

// sized formats a non-negative value. bitsPerDigit drives zero padding and
// is zero for bases without a digit/bit correspondence.
func sized(value int, width []int, base, bitsPerDigit int, tag string) string {
	digits := strconv.FormatInt(int64(value), base)
	if len(width) == 0 {
		return "'" + tag + digits
	}
	w := max(width[0], bitLength(value))
	if bitsPerDigit > 0 {
		n := (w + bitsPerDigit - 1) / bitsPerDigit
		if pad := n - len(digits); pad > 0 {
			digits = strings.Repeat("0", pad) + digits
		}
	}
	return strconv.Itoa(w) + "'" + tag + digits
}

func bitLength(value int) int {
	return max(len(strconv.FormatInt(int64(value), 2)), 1)
}

func text(x any) string {
	switch v := x.(type) {
	case string:
		return v
	case interface{ String() string }:
		return v.String()
	case int:
		return strconv.Itoa(v)
	}
	panic("sv: unsupported expression operand")
}

func joinExprs(exprs []any) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = text(e)
	}
	return strings.Join(parts, ", ")
}
