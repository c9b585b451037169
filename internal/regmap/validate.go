package regmap

import (
	"errors"
	"slices"

	"svreg/internal/diag"
)

// Finalize links every register and field to its parent, fills defaults,
// resolves references and validates the block. All problems found are
// returned joined.
func (b *RegisterBlock) Finalize() error {
	var errs []error
	add := func(err error) { errs = append(errs, err) }

	if err := b.Config.Validate(); err != nil {
		add(err)
	}
	if b.Name == "" {
		add(diag.Configf(diag.CfgMissingValue, "register_block", "register block name is missing"))
	}
	if b.ByteSize <= 0 {
		add(diag.Configf(diag.CfgInvalidSize, b.Name, "byte size must be positive: %d", b.ByteSize))
	}

	seen := map[string]bool{}
	for i, r := range b.Registers {
		r.Block = b
		r.Position = i
		if seen[r.Name] {
			add(diag.Configf(diag.CfgDuplicateName, b.Name, "duplicated register name: %s", r.Name))
		}
		seen[r.Name] = true
		errs = append(errs, r.finalize()...)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, r := range b.Registers {
		for _, f := range r.BitFields {
			if err := f.resolve(); err != nil {
				add(err)
			}
		}
	}
	errs = append(errs, b.checkAddresses()...)
	return errors.Join(errs...)
}

func (r *Register) finalize() []error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, diag.Configf(diag.CfgMissingValue, r.Block.Name, "register name is missing"))
	}
	for _, s := range r.Size {
		if s <= 0 {
			errs = append(errs, diag.Configf(diag.CfgInvalidSize, r.Path(), "register size must be positive: %v", r.Size))
			break
		}
	}
	if bw := r.Block.Config.ByteWidth(); r.OffsetAddress < 0 || (bw > 0 && r.OffsetAddress%bw != 0) {
		errs = append(errs, diag.Configf(diag.CfgAddressOutOfRange, r.Path(), "offset address is not aligned to the bus width: 0x%x", r.OffsetAddress))
	}

	if len(r.BitFields) == 1 && r.BitFields[0].Name == "" {
		r.BitFields[0].Name = r.Name
	}
	names := map[string]bool{}
	for i, f := range r.BitFields {
		f.Register = r
		f.Position = i
		if f.Width == 0 {
			f.Width = 1
		}
		if f.Step == 0 {
			f.Step = f.Width
		}
		if f.Name == "" {
			errs = append(errs, diag.Configf(diag.CfgMissingValue, r.Path(), "bit field name is missing"))
			continue
		}
		if names[f.Name] {
			errs = append(errs, diag.Configf(diag.CfgDuplicateName, r.Path(), "duplicated bit field name: %s", f.Name))
		}
		names[f.Name] = true
		errs = append(errs, f.check()...)
	}
	if len(errs) == 0 {
		errs = append(errs, r.checkOverlap()...)
	}
	return errs
}

func (f *BitField) check() []error {
	var errs []error
	if f.LSB < 0 || f.Width < 0 || f.SequenceSize < 0 || f.Step < f.Width {
		errs = append(errs, diag.Configf(diag.CfgInvalidSize, f.Path(), "invalid bit assignment: lsb %d width %d sequence %d step %d", f.LSB, f.Width, f.SequenceSize, f.Step))
	}
	if !slices.Contains(FieldTypes, f.Type) {
		errs = append(errs, diag.Configf(diag.CfgUnknownFieldType, f.Path(), "unknown bit field type: %q", f.Type))
		return errs
	}
	if f.Type != TypeRO {
		if !f.HasInitial {
			errs = append(errs, diag.Configf(diag.CfgMissingValue, f.Path(), "no initial value is given"))
		} else if f.InitialValue < 0 || (f.Width < 63 && f.InitialValue >= 1<<f.Width) {
			errs = append(errs, diag.Configf(diag.CfgInvalidSize, f.Path(), "initial value does not fit in %d bit: %d", f.Width, f.InitialValue))
		}
	}
	if f.HasReference() && f.Type != TypeRWE && f.Type != TypeRWL && f.Type != TypeRO {
		errs = append(errs, diag.Configf(diag.CfgInvalidReference, f.Path(), "%s bit field does not take a reference", f.Type))
	}
	return errs
}

func (r *Register) checkOverlap() []error {
	var used []struct{ lsb, msb int }
	for _, f := range r.BitFields {
		for i := range f.SequenceCount() {
			lsb, msb := f.LSBAt(i), f.MSB(i)
			for _, u := range used {
				if lsb <= u.msb && u.lsb <= msb {
					return []error{diag.Configf(diag.CfgOverlappingField, f.Path(), "overlaps with another bit field at [%d:%d]", msb, lsb)}
				}
			}
			used = append(used, struct{ lsb, msb int }{lsb, msb})
		}
	}
	return nil
}

// resolve links the reference of f. A reference without a field name is
// only valid when the register has exactly one field.
func (f *BitField) resolve() error {
	if !f.HasReference() {
		return nil
	}
	regName, fieldName := splitReference(f.ReferenceName)
	reg, ok := f.Register.Block.Register(regName)
	if !ok {
		return diag.Configf(diag.CfgDanglingReference, f.Path(), "no such register: %s", f.ReferenceName)
	}
	if reg.Array() && !slices.Equal(reg.Size, f.Register.Size) {
		return diag.Configf(diag.CfgInvalidReference, f.Path(), "array size of %s does not match: %v", reg.Name, reg.Size)
	}
	var ref *BitField
	if fieldName == "" {
		if len(reg.BitFields) != 1 {
			return diag.Configf(diag.CfgInvalidReference, f.Path(), "register %s has %d bit fields, name one of them", reg.Name, len(reg.BitFields))
		}
		ref = reg.BitFields[0]
	} else if ref, ok = reg.BitField(fieldName); !ok {
		return diag.Configf(diag.CfgDanglingReference, f.Path(), "no such bit field: %s", f.ReferenceName)
	}
	if ref == f {
		return diag.Configf(diag.CfgInvalidReference, f.Path(), "bit field refers to itself")
	}
	if ref.Sequential() && ref.SequenceSize != f.SequenceSize {
		return diag.Configf(diag.CfgInvalidReference, f.Path(), "sequence size of %s does not match: %d", ref.Path(), ref.SequenceSize)
	}
	f.reference = ref
	return nil
}

func (b *RegisterBlock) checkAddresses() []error {
	var errs []error
	type span struct {
		name       string
		start, end int
	}
	var spans []span
	for _, r := range b.Registers {
		end := r.OffsetAddress + r.Count()*r.ByteWidth()
		if end > b.ByteSize {
			errs = append(errs, diag.Configf(diag.CfgAddressOutOfRange, r.Path(), "address range 0x%x-0x%x exceeds byte size %d", r.OffsetAddress, end-1, b.ByteSize))
		}
		for _, s := range spans {
			if r.OffsetAddress < s.end && s.start < end {
				errs = append(errs, diag.Configf(diag.CfgAddressOutOfRange, r.Path(), "address range overlaps with %s", s.name))
			}
		}
		spans = append(spans, span{r.Name, r.OffsetAddress, end})
	}
	return errs
}
