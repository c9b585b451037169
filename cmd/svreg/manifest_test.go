package main

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"svreg/internal/diag"
	"svreg/internal/ident"
	"svreg/internal/regmap"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, manifestName), "")
	nested := filepath.Join(root, "rtl", "blocks")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := findManifest(nested)
	if err != nil || !ok {
		t.Fatalf("findManifest: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(root, manifestName) {
		t.Fatalf("found %s", path)
	}
}

func TestManifestDefaultsWhenKeysAbsent(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, manifestName)
	writeFile(t, path, "register_maps = [\"maps/a.toml\"]\n[configuration]\nbus_width = 64\n")

	m, err := loadManifestFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := regmap.DefaultConfiguration()
	want.BusWidth = 64
	if m.Settings.Config != want {
		t.Fatalf("config = %+v, want %+v", m.Settings.Config, want)
	}
	if m.Settings.OutputDir != root {
		t.Fatalf("output dir = %s", m.Settings.OutputDir)
	}
	if len(m.Settings.Maps) != 1 || m.Settings.Maps[0] != filepath.Join(root, "maps", "a.toml") {
		t.Fatalf("maps = %v", m.Settings.Maps)
	}
	if !m.Settings.Enabled.Has("register_block.sv_ral_top") {
		t.Fatalf("every feature must be enabled by default")
	}
}

func TestManifestOverrides(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, manifestName)
	writeFile(t, path, `register_maps = ["a.toml"]

[configuration]
address_width = 8
array_port_format = "serialized"
protocol = "apb"
fold_sv_interface_port = false

[output]
dir = "out/rtl"

[features]
enable = ["register_block", "register", "bit_field.type"]
`)
	m, err := loadManifestFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c := m.Settings.Config
	if c.AddressWidth != 8 || c.ArrayPortFormat != ident.Serialized || c.Protocol != regmap.ProtocolAPB || c.FoldInterfacePort {
		t.Fatalf("config = %+v", c)
	}
	if m.Settings.OutputDir != filepath.Join(root, "out", "rtl") {
		t.Fatalf("output dir = %s", m.Settings.OutputDir)
	}
	if m.Settings.Enabled.Has("bit_field.sv_ral_top") {
		t.Fatalf("bit_field.sv_ral_top must be disabled")
	}
	if !m.Settings.Enabled.Has("register.sv_ral_top") {
		t.Fatalf("register.sv_ral_top must be enabled through its layer")
	}
}

func TestManifestUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifestName)
	writeFile(t, path, "[configuration]\nbus_widht = 32\n")

	_, err := loadManifestFile(path)
	var cfg *diag.ConfigError
	if !errors.As(err, &cfg) || cfg.Code != diag.CfgUnknownKey {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestManifestBadValuesAreJoined(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifestName)
	writeFile(t, path, "[configuration]\narray_port_format = \"flat\"\nprotocol = \"wishbone\"\n")

	_, err := loadManifestFile(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Fatalf("expected two joined errors, got %v", err)
	}
	var cfg *diag.ConfigError
	if !errors.As(err, &cfg) || cfg.Code != diag.CfgUnknownArrayFormat {
		t.Fatalf("expected array format error first, got %v", err)
	}
}

func TestManifestSyntaxError(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifestName)
	writeFile(t, path, "[configuration\n")

	_, err := loadManifestFile(path)
	var ioErr *diag.IOError
	if !errors.As(err, &ioErr) || ioErr.Code != diag.IOLoadFileError {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestManifestWidthRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifestName)
	writeFile(t, path, "[configuration]\naddress_width = 9223372036854775807\n")

	m, err := loadManifestFile(path)
	if strconv.IntSize == 32 {
		var cfg *diag.ConfigError
		if !errors.As(err, &cfg) || cfg.Code != diag.CfgInvalidSize {
			t.Fatalf("expected out of range error, got %v", err)
		}
		return
	}
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if int64(m.Settings.Config.AddressWidth) != math.MaxInt64 {
		t.Fatalf("address width = %d", m.Settings.Config.AddressWidth)
	}
}
