// Package outcache remembers what the generator last wrote to every output
// file so unchanged files are left untouched.
package outcache

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"svreg/internal/trace"
)

// Current schema version - increment when Record format changes
const schemaVersion uint16 = 1

// Digest is the SHA-256 of generated content.
type Digest [32]byte

// Sum hashes data.
func Sum(data []byte) Digest { return sha256.Sum256(data) }

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// Record describes the last write of one output file.
type Record struct {
	Schema uint16

	Path    string
	Block   string
	Content Digest

	// File state right after the write; a mismatch means the file was
	// touched outside the generator.
	Size    int64
	ModTime int64
}

// Cache stores records on disk, one msgpack file per output path.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes a cache under the user cache directory.
func Open(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenAt(filepath.Join(base, app))
}

// OpenAt initializes a cache rooted at dir.
func OpenAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir is the cache root.
func (c *Cache) Dir() string { return c.dir }

func (c *Cache) pathFor(outPath string) string {
	key := Sum([]byte(outPath))
	return filepath.Join(c.dir, "outputs", key.String()+".mp")
}

// Put serializes and writes rec, keyed by rec.Path.
func (c *Cache) Put(rec *Record) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	rec.Schema = schemaVersion
	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(rec); err != nil {
		return err
	}
	return writeAtomic(c.pathFor(rec.Path), buf.Bytes())
}

// Get reads the record of outPath. Records of another schema are reported
// as missing.
func (c *Cache) Get(outPath string, out *Record) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(outPath))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, err
	}
	return out.Schema == schemaVersion, nil
}

// DropAll invalidates the cache.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// WriteFile writes data to path unless the cache shows the file already
// holds it. It reports whether the file was written. Failing to store the
// record is traced, not returned.
func (c *Cache) WriteFile(ctx context.Context, path, block string, data []byte) (bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	sum := Sum(data)

	var rec Record
	if ok, err := c.Get(abs, &rec); err == nil && ok && rec.Content == sum {
		if info, statErr := os.Stat(abs); statErr == nil && info.Size() == rec.Size && info.ModTime().UnixNano() == rec.ModTime {
			return false, nil
		}
	}

	if err := writeAtomic(abs, data); err != nil {
		return false, err
	}
	info, err := os.Stat(abs)
	if err == nil {
		err = c.Put(&Record{
			Path:    abs,
			Block:   block,
			Content: sum,
			Size:    info.Size(),
			ModTime: info.ModTime().UnixNano(),
		})
	}
	if err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeBlock, "cache:"+block, err.Error(), trace.CurrentSpan(ctx).SpanID)
	}
	return true, nil
}

// writeAtomic writes through a temp file and a rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(f.Name())
		}
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return err
	}
	committed = true
	return nil
}
