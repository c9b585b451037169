package regmap

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"svreg/internal/diag"
)

type fileDoc struct {
	RegisterBlocks []blockDoc `toml:"register_block"`
}

type blockDoc struct {
	Name      string        `toml:"name"`
	ByteSize  int64         `toml:"byte_size"`
	Registers []registerDoc `toml:"register"`
}

type registerDoc struct {
	Name          string        `toml:"name"`
	OffsetAddress int64         `toml:"offset_address"`
	Size          []int64       `toml:"size"`
	BitFields     []bitFieldDoc `toml:"bit_field"`
}

type bitFieldDoc struct {
	Name         string `toml:"name"`
	LSB          int64  `toml:"lsb"`
	Width        int64  `toml:"width"`
	SequenceSize int64  `toml:"sequence_size"`
	Step         int64  `toml:"step"`
	Type         string `toml:"type"`
	InitialValue *int64 `toml:"initial_value"`
	Reference    string `toml:"reference"`
}

// LoadFile reads a register map file and returns its finalized blocks.
func LoadFile(path string, cfg Configuration) ([]*RegisterBlock, error) {
	var doc fileDoc
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, &diag.IOError{Code: diag.IOLoadFileError, Path: path, Err: err}
	}
	return build(path, doc, meta, cfg)
}

// Parse is LoadFile for in-memory input; name is used in messages.
func Parse(name, data string, cfg Configuration) ([]*RegisterBlock, error) {
	var doc fileDoc
	meta, err := toml.Decode(data, &doc)
	if err != nil {
		return nil, &diag.IOError{Code: diag.IOLoadFileError, Path: name, Err: err}
	}
	return build(name, doc, meta, cfg)
}

func build(name string, doc fileDoc, meta toml.MetaData, cfg Configuration) ([]*RegisterBlock, error) {
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, diag.Configf(diag.CfgUnknownKey, name, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if !meta.IsDefined("register_block") {
		return nil, diag.Configf(diag.CfgMissingValue, name, "missing [[register_block]]")
	}

	var errs []error
	blocks := make([]*RegisterBlock, 0, len(doc.RegisterBlocks))
	for _, bd := range doc.RegisterBlocks {
		b, err := bd.convert(cfg)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := b.Finalize(); err != nil {
			errs = append(errs, err)
			continue
		}
		blocks = append(blocks, b)
	}
	if len(errs) > 0 {
		return blocks, errors.Join(errs...)
	}
	return blocks, nil
}

func (d blockDoc) convert(cfg Configuration) (*RegisterBlock, error) {
	name := normalize(d.Name)
	byteSize, err := toInt(name, "byte_size", d.ByteSize)
	if err != nil {
		return nil, err
	}
	b := &RegisterBlock{Name: name, ByteSize: byteSize, Config: cfg}
	for _, rd := range d.Registers {
		r, err := rd.convert(name)
		if err != nil {
			return nil, err
		}
		b.Registers = append(b.Registers, r)
	}
	return b, nil
}

func (d registerDoc) convert(block string) (*Register, error) {
	r := &Register{Name: normalize(d.Name)}
	subject := block + "." + r.Name
	var err error
	if r.OffsetAddress, err = toInt(subject, "offset_address", d.OffsetAddress); err != nil {
		return nil, err
	}
	for _, s := range d.Size {
		n, err := toInt(subject, "size", s)
		if err != nil {
			return nil, err
		}
		r.Size = append(r.Size, n)
	}
	for _, fd := range d.BitFields {
		f, err := fd.convert(subject)
		if err != nil {
			return nil, err
		}
		r.BitFields = append(r.BitFields, f)
	}
	return r, nil
}

func (d bitFieldDoc) convert(register string) (*BitField, error) {
	f := &BitField{
		Name:          normalize(d.Name),
		Type:          strings.ToLower(strings.TrimSpace(d.Type)),
		ReferenceName: normalize(d.Reference),
	}
	subject := register + "." + f.Name
	var err error
	for _, p := range []struct {
		dst *int
		key string
		v   int64
	}{
		{&f.LSB, "lsb", d.LSB},
		{&f.Width, "width", d.Width},
		{&f.SequenceSize, "sequence_size", d.SequenceSize},
		{&f.Step, "step", d.Step},
	} {
		if *p.dst, err = toInt(subject, p.key, p.v); err != nil {
			return nil, err
		}
	}
	if d.InitialValue != nil {
		if f.InitialValue, err = toInt(subject, "initial_value", *d.InitialValue); err != nil {
			return nil, err
		}
		f.HasInitial = true
	}
	return f, nil
}

func toInt(subject, key string, v int64) (int, error) {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0, diag.Configf(diag.CfgInvalidSize, subject, "%s out of range: %d", key, v)
	}
	return n, nil
}

// normalize trims and NFC-normalizes a name so that visually identical
// names compare equal.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// String describes the block for progress output.
func (b *RegisterBlock) String() string {
	return fmt.Sprintf("%s (%d registers, %d bytes)", b.Name, len(b.Registers), b.ByteSize)
}
