package outcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"svreg/internal/trace"
)

func TestPutGet(t *testing.T) {
	c, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := &Record{Path: "/out/block_0.sv", Block: "block_0", Content: Sum([]byte("module")), Size: 6}
	if err := c.Put(rec); err != nil {
		t.Fatalf("put: %v", err)
	}
	var got Record
	ok, err := c.Get("/out/block_0.sv", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Block != "block_0" || got.Content != rec.Content || got.Size != 6 || got.Schema != schemaVersion {
		t.Fatalf("round trip lost data: %+v", got)
	}
	if ok, err := c.Get("/out/other.sv", &got); ok || err != nil {
		t.Fatalf("missing record: ok=%v err=%v", ok, err)
	}
}

func TestWriteFileSkipsUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := OpenAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "rtl", "block_0.sv")

	written, err := c.WriteFile(ctx, out, "block_0", []byte("module a;\n"))
	if err != nil || !written {
		t.Fatalf("first write: written=%v err=%v", written, err)
	}
	written, err = c.WriteFile(ctx, out, "block_0", []byte("module a;\n"))
	if err != nil || written {
		t.Fatalf("unchanged content was rewritten: written=%v err=%v", written, err)
	}
	written, err = c.WriteFile(ctx, out, "block_0", []byte("module b;\n"))
	if err != nil || !written {
		t.Fatalf("changed content: written=%v err=%v", written, err)
	}
	data, err := os.ReadFile(out)
	if err != nil || string(data) != "module b;\n" {
		t.Fatalf("file content = %q, %v", data, err)
	}
}

func TestWriteFileRestoresEditedOutput(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := OpenAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "block_0.sv")
	if _, err := c.WriteFile(ctx, out, "block_0", []byte("module a;\n")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(out, []byte("edited by hand\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	written, err := c.WriteFile(ctx, out, "block_0", []byte("module a;\n"))
	if err != nil || !written {
		t.Fatalf("edited file was not restored: written=%v err=%v", written, err)
	}
}

func TestWriteFileKeepsOutputWhenRecordFails(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	// a file where the records directory belongs makes every Put fail
	if err := os.WriteFile(filepath.Join(dir, "cache", "outputs"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	ring := trace.NewRingTracer(16, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	out := filepath.Join(dir, "block_0.sv")
	written, err := c.WriteFile(ctx, out, "block_0", []byte("module a;\n"))
	if err != nil || !written {
		t.Fatalf("written=%v err=%v", written, err)
	}
	if data, err := os.ReadFile(out); err != nil || string(data) != "module a;\n" {
		t.Fatalf("file content = %q, %v", data, err)
	}
	events := ring.Snapshot()
	if len(events) != 1 || events[0].Name != "cache:block_0" || events[0].Detail == "" {
		t.Fatalf("record failure not traced: %+v", events)
	}
}

func TestDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	c, err := OpenAt(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Put(&Record{Path: "/x"}); err != nil {
		t.Fatal(err)
	}
	if err := c.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("cache dir still present: %v", err)
	}
	var nilCache *Cache
	if ok, err := nilCache.Get("/x", &Record{}); ok || err != nil {
		t.Fatalf("nil cache must miss")
	}
}
