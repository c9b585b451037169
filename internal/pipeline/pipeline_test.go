package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"svreg/internal/component"
	"svreg/internal/diag"
	"svreg/internal/observ"
	"svreg/internal/outcache"
	"svreg/internal/regmap"
)

const twoBlocks = `
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
initial_value = 0

[[register_block]]
name = "block_1"
byte_size = 128

[[register_block.register]]
name = "register_0"
offset_address = 0x00
size = [4]
[[register_block.register.bit_field]]
type = "ro"
`

const brokenBlock = `
[[register_block]]
name = "block_2"
byte_size = 16

[[register_block.register]]
name = "register_0"
offset_address = 0x40
[[register_block.register.bit_field]]
type = "rw"
initial_value = 0
`

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) has(block string, stage Stage, status Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if ev.Block == block && ev.Stage == stage && ev.Status == status {
			return true
		}
	}
	return false
}

func writeMap(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newRequest(t *testing.T, maps ...string) *Request {
	t.Helper()
	dir := t.TempDir()
	cache, err := outcache.OpenAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	files := make([]string, len(maps))
	for i, src := range maps {
		files[i] = writeMap(t, dir, "map"+string(rune('a'+i))+".toml", src)
	}
	return &Request{
		MapFiles:  files,
		Config:    regmap.DefaultConfiguration(),
		Enabled:   component.All(),
		OutputDir: filepath.Join(dir, "out"),
		Jobs:      2,
		Cache:     cache,
		Timer:     observ.NewTimer(),
	}
}

func TestRunWritesEveryBlock(t *testing.T) {
	req := newRequest(t, twoBlocks)
	rec := &recorder{}
	req.Progress = rec

	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v (%v)", err, res.Bag.Items())
	}
	if len(res.Blocks) != 2 || res.Blocks[0].Block.Name != "block_0" || res.Blocks[1].Block.Name != "block_1" {
		t.Fatalf("blocks out of input order: %+v", res.Blocks)
	}
	for _, name := range []string{"block_0.sv", "block_0_ral_pkg.sv", "block_1.sv", "block_1_ral_pkg.sv"} {
		data, err := os.ReadFile(filepath.Join(req.OutputDir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
	rtlText, _ := os.ReadFile(filepath.Join(req.OutputDir, "block_1.sv"))
	if !strings.HasPrefix(string(rtlText), "module block_1\n") {
		t.Fatalf("unexpected module header:\n%s", rtlText)
	}
	if !res.Blocks[0].RTL.Written || !res.Blocks[0].RAL.Written {
		t.Fatalf("first run must write every file")
	}
	if !rec.has("block_1", StageRTL, StatusQueued) || !rec.has("block_1", StageWrite, StatusDone) || !rec.has("", StageLoad, StatusDone) {
		t.Fatalf("missing progress events: %+v", rec.events)
	}
	if !res.Timings.Has(StageRTL) || !res.Timings.Has(StageLoad) {
		t.Fatalf("stage timings not recorded")
	}
	if phases := req.Timer.Report().Phases; len(phases) != 2 || phases[0].Name != "load" {
		t.Fatalf("timer phases = %+v", phases)
	}

	again, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for _, br := range again.Blocks {
		if br.RTL.Written || br.RAL.Written {
			t.Fatalf("unchanged output of %s was rewritten", br.Block.Name)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	req := newRequest(t, twoBlocks)
	req.OutputDir = ""
	first, err := Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	req.Jobs = 1
	second, err := Run(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	for i := range first.Blocks {
		if first.Blocks[i].RTL.Content != second.Blocks[i].RTL.Content || first.Blocks[i].RAL.Content != second.Blocks[i].RAL.Content {
			t.Fatalf("block %d differs between runs", i)
		}
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(req.MapFiles[0]), "out")); !os.IsNotExist(err) {
		t.Fatalf("nothing may be written without an output dir")
	}
}

func TestRunReportsBrokenBlocks(t *testing.T) {
	req := newRequest(t, twoBlocks, brokenBlock)
	res, err := Run(context.Background(), req)
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
	if len(res.Blocks) != 2 {
		t.Fatalf("valid blocks must still be generated, got %d", len(res.Blocks))
	}
	found := false
	for _, d := range res.Bag.Items() {
		if d.Code == diag.CfgAddressOutOfRange {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an address range diagnostic, got %v", res.Bag.Items())
	}
	if _, err := os.Stat(filepath.Join(req.OutputDir, "block_2.sv")); !os.IsNotExist(err) {
		t.Fatalf("broken block must not be written")
	}
}

func TestRunRejectsDuplicateBlocks(t *testing.T) {
	req := newRequest(t, twoBlocks, twoBlocks)
	res, err := Run(context.Background(), req)
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
	if len(res.Blocks) != 2 {
		t.Fatalf("duplicates must be dropped, got %d blocks", len(res.Blocks))
	}
	d := res.Bag.Items()[0]
	if d.Code != diag.CfgDuplicateName {
		t.Fatalf("unexpected diagnostic %v", d)
	}
	if len(d.Notes) != 1 || !strings.HasPrefix(d.Notes[0], "first defined in ") {
		t.Fatalf("notes = %v", d.Notes)
	}
}

func TestRunRejectsUnknownFeatures(t *testing.T) {
	req := newRequest(t, twoBlocks)
	req.Enabled = component.Enable("register_block.sv_rtl_top", "bit_field.type.rwx")
	res, err := Run(context.Background(), req)
	if !errors.Is(err, ErrFailed) {
		t.Fatalf("expected ErrFailed, got %v", err)
	}
	if res.Bag.Len() != 1 || res.Bag.Items()[0].Code != diag.CfgUnknownFeature {
		t.Fatalf("unexpected diagnostics %v", res.Bag.Items())
	}
}

func TestRunSkipsRALWhenDisabled(t *testing.T) {
	req := newRequest(t, twoBlocks)
	req.Enabled = component.Enable("register_block.sv_rtl_top", "register_block.protocol", "register.sv_rtl_top", "register.type", "bit_field.sv_rtl_top", "bit_field.type")
	res, err := Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v (%v)", err, res.Bag.Items())
	}
	if res.Blocks[0].RAL != nil {
		t.Fatalf("RAL package generated while disabled")
	}
	if _, err := os.Stat(filepath.Join(req.OutputDir, "block_0_ral_pkg.sv")); !os.IsNotExist(err) {
		t.Fatalf("RAL file written while disabled")
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	req := newRequest(t, twoBlocks)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, req); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
