// Package diskcache persists a compiled unit's outcome keyed by the
// SHA-256 hash of its source content. A lookup answers "did this
// content already compile and with what exports", nothing
// finer-grained. corec build writes an entry for every unit it compiles
// but does not read existing entries, so every build runs the full
// pipeline.
package diskcache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Digest is a content hash, used both to key cache entries and to
// detect whether a unit's sources have changed since the last build.
type Digest [sha256.Size]byte

// HashSources returns the digest of a unit's concatenated source
// bytes, each prefixed by its name so two units with identical bodies
// under different file names still hash differently.
func HashSources(names [][]byte, contents [][]byte) Digest {
	h := sha256.New()
	for i := range names {
		h.Write(names[i])
		h.Write([]byte{0})
		h.Write(contents[i])
		h.Write([]byte{0})
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// cacheSchemaVersion guards the on-disk payload shape; bump it whenever
// Payload's fields change so stale entries are never misread.
const cacheSchemaVersion uint16 = 1

// Payload is what gets cached for one unit: whether it compiled clean
// and, if so, the names a ModulePack build exported.
type Payload struct {
	Schema      uint16
	UnitName    string
	ContentHash Digest
	Broken      bool
	Exports     []string
}

// Cache is a thread-safe, on-disk store of Payload keyed by Digest.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// Open returns a Cache rooted at $XDG_CACHE_HOME/corec (or
// ~/.cache/corec), creating the directory if needed.
func Open() (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "corec")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "units", hex.EncodeToString(key[:])+".mp")
}

// Put writes payload to the cache under key, replacing any existing
// entry atomically.
func (c *Cache) Put(key Digest, payload *Payload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = cacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads the cached payload for key, reporting false if there is
// none or if it was written under an older schema version.
func (c *Cache) Get(key Digest) (*Payload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, err
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false, nil
	}
	return &payload, true, nil
}

// DropAll invalidates every cached entry, for use after a format
// change or an explicit "clean" request.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
