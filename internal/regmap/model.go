// Package regmap is the validated register map: the configuration, register
// blocks, registers and bit fields the generators consume.
package regmap

import (
	"strings"
)

// Bit field types.
const (
	TypeRW  = "rw"
	TypeRO  = "ro"
	TypeRWE = "rwe"
	TypeRWL = "rwl"
)

// FieldTypes lists the supported bit field types.
var FieldTypes = []string{TypeRW, TypeRO, TypeRWE, TypeRWL}

// RegisterBlock is one addressable block; it becomes one RTL module and one
// RAL package.
type RegisterBlock struct {
	Name      string
	ByteSize  int
	Registers []*Register
	Config    Configuration
}

// Register returns the register named name.
func (b *RegisterBlock) Register(name string) (*Register, bool) {
	for _, r := range b.Registers {
		if r.Name == name {
			return r, true
		}
	}
	return nil, false
}

// TotalCount is the number of register interface slots of the block.
func (b *RegisterBlock) TotalCount() int {
	n := 0
	for _, r := range b.Registers {
		n += r.Count()
	}
	return n
}

// LocalAddressWidth is the number of address bits spanning ByteSize.
func (b *RegisterBlock) LocalAddressWidth() int {
	w := 0
	for (1 << w) < b.ByteSize {
		w++
	}
	return w
}

type Register struct {
	Name          string
	OffsetAddress int
	// Size holds the array dimensions; empty for a plain register.
	Size      []int
	BitFields []*BitField
	Block     *RegisterBlock
	// Position is the index within Block.Registers.
	Position int
}

// Array reports whether the register is arrayed.
func (r *Register) Array() bool { return len(r.Size) > 0 }

// Count is the number of register instances, the product of Size.
func (r *Register) Count() int {
	n := 1
	for _, s := range r.Size {
		n *= s
	}
	return n
}

// Width is the register data width: the bus width, or the smallest multiple
// of it that holds every bit field.
func (r *Register) Width() int {
	bus := r.Block.Config.BusWidth
	msb := 0
	for _, f := range r.BitFields {
		msb = max(msb, f.MSB(f.SequenceCount()-1))
	}
	return ((msb / bus) + 1) * bus
}

// ByteWidth is Width in bytes.
func (r *Register) ByteWidth() int { return r.Width() / 8 }

// BaseIndex is the number of register slots taken by the registers before r.
func (r *Register) BaseIndex() int {
	n := 0
	for _, prev := range r.Block.Registers[:r.Position] {
		n += prev.Count()
	}
	return n
}

// BitField returns the field named name.
func (r *Register) BitField(name string) (*BitField, bool) {
	for _, f := range r.BitFields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Path is "<block>.<register>".
func (r *Register) Path() string { return r.Block.Name + "." + r.Name }

type BitField struct {
	// Name defaults to the register name when the register has one field.
	Name         string
	LSB          int
	Width        int
	SequenceSize int
	Step         int
	Type         string
	InitialValue int
	HasInitial   bool
	// ReferenceName is "register" or "register.bit_field".
	ReferenceName string
	Register      *Register
	Position      int

	reference *BitField
}

// Sequential reports whether the field repeats within its register.
func (f *BitField) Sequential() bool { return f.SequenceSize > 0 }

// SequenceCount is the number of repetitions, 1 for a plain field.
func (f *BitField) SequenceCount() int { return max(f.SequenceSize, 1) }

// LSBAt is the lsb of repetition i.
func (f *BitField) LSBAt(i int) int { return f.LSB + f.Step*i }

// MSB is the msb of repetition i.
func (f *BitField) MSB(i int) int { return f.LSBAt(i) + f.Width - 1 }

// FullName joins the register and field names.
func (f *BitField) FullName() string {
	return f.Register.Name + "_" + f.Name
}

// Path is "<block>.<register>.<field>".
func (f *BitField) Path() string { return f.Register.Path() + "." + f.Name }

// HasReference reports whether a reference field is configured.
func (f *BitField) HasReference() bool { return f.ReferenceName != "" }

// Reference returns the resolved reference field; nil before validation or
// when none is configured.
func (f *BitField) Reference() *BitField { return f.reference }

// ArraySize is the dimensions a per-field signal carries: the register's
// dimensions followed by the sequence size.
func (f *BitField) ArraySize() []int {
	dims := append([]int(nil), f.Register.Size...)
	if f.Sequential() {
		dims = append(dims, f.SequenceSize)
	}
	return dims
}

func splitReference(ref string) (register, field string) {
	register, field, _ = strings.Cut(ref, ".")
	return register, field
}
