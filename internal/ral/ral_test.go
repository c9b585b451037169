package ral

import (
	"strings"
	"testing"

	"svreg/internal/component"
	"svreg/internal/regmap"
)

const sampleMap = `
[[register_block]]
name = "block_0"
byte_size = 256

[[register_block.register]]
name = "register_0"
offset_address = 0x00
[[register_block.register.bit_field]]
name = "bit_field_0"
lsb = 0
width = 8
type = "rw"
initial_value = 0xab
[[register_block.register.bit_field]]
name = "bit_field_1"
lsb = 8
sequence_size = 2
type = "ro"

[[register_block.register]]
name = "register_1"
offset_address = 0x10
size = [2]
[[register_block.register.bit_field]]
name = "bit_field_0"
lsb = 0
width = 2
type = "rwl"
initial_value = 0
reference = "register_2"

[[register_block.register]]
name = "register_2"
offset_address = 0x20
[[register_block.register.bit_field]]
type = "ro"
`

const samplePackage = `package block_0_ral_pkg;
  import uvm_pkg::*;
  import rggen_ral_pkg::*;
  ` + "`" + `include "uvm_macros.svh"
  ` + "`" + `include "rggen_ral_macros.svh"
  class register_0_reg_model extends rggen_ral_reg;
    rand rggen_ral_field bit_field_0;
    rand rggen_ral_field bit_field_1[2];
    function new(
      string name
    );
      super.new(name, 32, 0);
    endfunction
    function void build();
      ` + "`" + `rggen_ral_create_field(bit_field_0, 0, 8, "RW", 0, 8'hab, 1, -1, "")
      ` + "`" + `rggen_ral_create_field(bit_field_1[0], 8, 1, "RO", 1, 1'h0, 0, 0, "")
      ` + "`" + `rggen_ral_create_field(bit_field_1[1], 9, 1, "RO", 1, 1'h0, 0, 1, "")
    endfunction
  endclass
  class register_1_reg_model extends rggen_ral_reg;
    rand rggen_ral_rwl_field #("register_2", "register_2") bit_field_0;
    function new(
      string name
    );
      super.new(name, 32, 0);
    endfunction
    function void build();
      ` + "`" + `rggen_ral_create_field(bit_field_0, 0, 2, "RW", 0, 2'h0, 1, -1, "")
    endfunction
  endclass
  class register_2_reg_model extends rggen_ral_reg;
    rand rggen_ral_field register_2;
    function new(
      string name
    );
      super.new(name, 32, 0);
    endfunction
    function void build();
      ` + "`" + `rggen_ral_create_field(register_2, 0, 1, "RO", 1, 1'h0, 0, -1, "")
    endfunction
  endclass
  class block_0_block_model extends rggen_ral_block;
    rand register_0_reg_model register_0;
    rand register_1_reg_model register_1[2];
    rand register_2_reg_model register_2;
    function new(
      string name
    );
      super.new(name, 4, 0);
    endfunction
    function void build();
      ` + "`" + `rggen_ral_create_reg(register_0, '{}, 8'h00, "RW", "g_register_0.u_register")
      ` + "`" + `rggen_ral_create_reg(register_1[0], '{0}, 8'h10, "RW", "g_register_1.g[0].u_register")
      ` + "`" + `rggen_ral_create_reg(register_1[1], '{1}, 8'h14, "RW", "g_register_1.g[1].u_register")
      ` + "`" + `rggen_ral_create_reg(register_2, '{}, 8'h20, "RO", "g_register_2.u_register")
    endfunction
  endclass
endpackage
`

func parseBlock(t *testing.T, src string) *regmap.RegisterBlock {
	t.Helper()
	cfg := regmap.DefaultConfiguration()
	cfg.AddressWidth = 8
	blocks, err := regmap.Parse("test.toml", src, cfg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return blocks[0]
}

func TestGeneratePackage(t *testing.T) {
	block := parseBlock(t, sampleMap)
	got, err := Generate(block, component.All())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != samplePackage {
		t.Fatalf("unexpected package:\nwant:\n%s\ngot:\n%s", samplePackage, got)
	}
	if PackageName(block) != "block_0_ral_pkg" {
		t.Fatalf("package name = %q", PackageName(block))
	}
}

func TestModelName(t *testing.T) {
	const src = `
[[register_block]]
name = "block_0"
byte_size = 256

[[register_block.register]]
name = "register_0"
offset_address = 0x00
[[register_block.register.bit_field]]
name = "bit_field_0"
lsb = 0
type = "rw"
initial_value = 0

[[register_block.register]]
name = "register_1"
offset_address = 0x04
[[register_block.register.bit_field]]
name = "bit_field_0"
lsb = 0
type = "rwl"
initial_value = 0
reference = "register_0.bit_field_0"
[[register_block.register.bit_field]]
name = "bit_field_1"
lsb = 1
type = "rwe"
initial_value = 0
`
	block := parseBlock(t, src)
	r0, r1 := block.Registers[0], block.Registers[1]
	tests := []struct {
		field *regmap.BitField
		want  string
	}{
		{r0.BitFields[0], "rggen_ral_field"},
		{r1.BitFields[0], `rggen_ral_rwl_field #("register_0", "bit_field_0")`},
		{r1.BitFields[1], `rggen_ral_rwe_field #("", "")`},
	}
	for _, tt := range tests {
		if got := ModelName(tt.field); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.field.Path(), got, tt.want)
		}
	}
}

func TestRegisterModelsCanBeDisabled(t *testing.T) {
	block := parseBlock(t, sampleMap)
	got, err := Generate(block, component.Enable("register_block"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Contains(got, "_reg_model extends") {
		t.Fatalf("register models rendered while disabled:\n%s", got)
	}
	if !strings.Contains(got, "class block_0_block_model extends rggen_ral_block;") {
		t.Fatalf("block model missing:\n%s", got)
	}
}

func TestIndices(t *testing.T) {
	got := indices([]int{2, 3})
	if len(got) != 6 || got[0][0] != 0 || got[0][1] != 0 || got[5][0] != 1 || got[5][1] != 2 {
		t.Fatalf("indices = %v", got)
	}
	if plain := indices(nil); len(plain) != 1 || len(plain[0]) != 0 {
		t.Fatalf("plain register indices = %v", plain)
	}
}
