package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"recoil/internal/metadata"
)

// Current schema version - increment when ResolutionPayload changes.
const resolutionCacheSchemaVersion uint16 = 1

// Digest keys cache entries: SHA-256 over reference identity plus the
// search configuration it was resolved under.
type Digest [sha256.Size]byte

// ResolutionKey hashes the inputs that determine a resolution result.
func ResolutionKey(ref metadata.AssemblyNameReference, searchDirs []string) Digest {
	h := sha256.New()
	h.Write([]byte(ref.IdentityKey()))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(searchDirs, "\x00")))
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// ResolutionPayload is the cached outcome of one reference resolution.
// Negative results are cached too: re-probing the GAC for a known
// absence is the expensive case.
type ResolutionPayload struct {
	Schema   uint16
	FullName string
	Path     string
	Found    bool
	Stamp    int64
}

// ResolutionCache memoizes reference-to-path resolutions on disk.
// Thread-safe for concurrent access.
type ResolutionCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenResolutionCache initializes the cache at the standard location.
func OpenResolutionCache(app string) (*ResolutionCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ResolutionCache{dir: dir}, nil
}

func (c *ResolutionCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "refs", hexKey+".mp")
}

// Put serializes and writes a payload. A nil cache is a no-op.
func (c *ResolutionCache) Put(key Digest, payload *ResolutionPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err = os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("failed to remove temp file: %v", err)
		}
	}()

	enc := msgpack.NewEncoder(f)
	if err = enc.Encode(payload); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace.
	return os.Rename(f.Name(), p)
}

// Get reads a payload. A stale schema or a cached path that no longer
// exists on disk counts as a miss.
func (c *ResolutionCache) Get(key Digest, out *ResolutionPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.pathFor(key)
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			panic(closeErr)
		}
	}()
	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if out.Schema != resolutionCacheSchemaVersion {
		return false, nil
	}
	if out.Found {
		if info, err := os.Stat(out.Path); err != nil || !info.Mode().IsRegular() {
			return false, nil
		}
	}
	return true, nil
}

// Record stores a resolution result under its key.
func (c *ResolutionCache) Record(ref metadata.AssemblyNameReference, searchDirs []string, path string, found bool) error {
	return c.Put(ResolutionKey(ref, searchDirs), &ResolutionPayload{
		Schema:   resolutionCacheSchemaVersion,
		FullName: ref.FullName(),
		Path:     path,
		Found:    found,
		Stamp:    time.Now().Unix(),
	})
}

// DropAll invalidates the cache, useful after format changes.
func (c *ResolutionCache) DropAll() error {
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
