package component

import (
	"slices"
	"testing"
)

func TestRegistryAttachesEnabledFeaturesInOrder(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"sv_rtl_top", "type.rw", "type.ro"} {
		r.MustRegister(LayerBitField, name, func(n *Node) Feature {
			if name == "type.ro" && n.Model != "ro" {
				return nil
			}
			return &testFeature{Base: NewBase(FeatureID(LayerBitField, name), n)}
		})
	}
	r.MustRegister(LayerRegister, "sv_rtl_top", func(n *Node) Feature {
		return &testFeature{Base: NewBase(FeatureID(LayerRegister, "sv_rtl_top"), n)}
	})

	ids := func(n *Node) []string {
		var out []string
		for _, f := range n.Features() {
			out = append(out, f.ID())
		}
		return out
	}

	n := NewNode(LayerBitField, "rw", nil)
	r.Attach(n, All())
	if got := ids(n); !slices.Equal(got, []string{"bit_field.sv_rtl_top", "bit_field.type.rw"}) {
		t.Fatalf("got %q", got)
	}

	n = NewNode(LayerBitField, "ro", nil)
	r.Attach(n, Enable("bit_field.type"))
	if got := ids(n); !slices.Equal(got, []string{"bit_field.type.rw", "bit_field.type.ro"}) {
		t.Fatalf("got %q", got)
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(LayerRegister, "a", nil); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(LayerRegister, "a", nil); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRegistryValidate(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(LayerBitField, "type.rw", nil)
	if err := r.Validate(Enable("bit_field.type", "bit_field.type.rw")); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if err := r.Validate(Enable("bit_field.type.rwx")); err == nil {
		t.Fatalf("expected unknown feature error")
	}
}

func TestEnabledSet(t *testing.T) {
	if !All().Has("anything") {
		t.Fatalf("zero set must enable everything")
	}
	s := Enable("register", "bit_field.type.rw")
	for id, want := range map[string]bool{
		"register.sv_rtl_top":  true,
		"bit_field.type.rw":    true,
		"bit_field.type.ro":    false,
		"bit_field.sv_rtl_top": false,
	} {
		if s.Has(id) != want {
			t.Errorf("Has(%q) = %v", id, !want)
		}
	}
	if got := s.IDs(); !slices.Equal(got, []string{"bit_field.type.rw", "register"}) {
		t.Fatalf("got %q", got)
	}
}

func TestRegistryAnyEnabled(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(LayerRegisterBlock, "sv_ral_top", nil)
	if !r.AnyEnabled(All()) || !r.AnyEnabled(Enable("register_block")) {
		t.Fatalf("expected the block feature to be selected")
	}
	if r.AnyEnabled(Enable("register.sv_rtl_top")) {
		t.Fatalf("unrelated ids must not select the block feature")
	}
	if !r.Known("register_block") || r.Known("register") {
		t.Fatalf("Known must accept registered ids and their prefixes only")
	}
}
