package driver

import (
	"os"
	"path/filepath"
	"testing"

	"recoil/internal/metadata"
)

func testRef() metadata.AssemblyNameReference {
	return metadata.AssemblyNameReference{
		Name:           "System.Core",
		Version:        metadata.Version{Major: 4},
		PublicKeyToken: []byte{0xb7, 0x7a, 0x5c, 0x56, 0x19, 0x34, 0xe0, 0x89},
	}
}

func TestResolutionCacheRoundTrip(t *testing.T) {
	cache := &ResolutionCache{dir: t.TempDir()}
	ref := testRef()
	dirs := []string{"/app", "/extra"}

	target := filepath.Join(t.TempDir(), "System.Core.dll")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := cache.Record(ref, dirs, target, true); err != nil {
		t.Fatalf("Record: %v", err)
	}

	var payload ResolutionPayload
	hit, err := cache.Get(ResolutionKey(ref, dirs), &payload)
	if err != nil || !hit {
		t.Fatalf("Get = (%v, %v), want hit", hit, err)
	}
	if payload.Path != target || !payload.Found {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.FullName != ref.FullName() {
		t.Fatalf("payload should carry the display name, got %q", payload.FullName)
	}

	// A different search configuration is a different key.
	if hit, _ := cache.Get(ResolutionKey(ref, []string{"/app"}), &payload); hit {
		t.Fatalf("different search dirs must not share an entry")
	}
}

func TestResolutionCacheNegativeEntries(t *testing.T) {
	cache := &ResolutionCache{dir: t.TempDir()}
	ref := testRef()

	if err := cache.Record(ref, nil, "", false); err != nil {
		t.Fatalf("Record: %v", err)
	}
	var payload ResolutionPayload
	hit, err := cache.Get(ResolutionKey(ref, nil), &payload)
	if err != nil || !hit {
		t.Fatalf("negative result should cache, got (%v, %v)", hit, err)
	}
	if payload.Found {
		t.Fatalf("payload should record the absence")
	}
}

func TestResolutionCacheVanishedFileIsMiss(t *testing.T) {
	cache := &ResolutionCache{dir: t.TempDir()}
	ref := testRef()

	target := filepath.Join(t.TempDir(), "System.Core.dll")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := cache.Record(ref, nil, target, true); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := os.Remove(target); err != nil {
		t.Fatalf("remove: %v", err)
	}

	var payload ResolutionPayload
	if hit, _ := cache.Get(ResolutionKey(ref, nil), &payload); hit {
		t.Fatalf("entry pointing at a vanished file must be a miss")
	}
}

func TestResolutionCacheStaleSchemaIsMiss(t *testing.T) {
	cache := &ResolutionCache{dir: t.TempDir()}
	ref := testRef()
	key := ResolutionKey(ref, nil)

	if err := cache.Put(key, &ResolutionPayload{Schema: resolutionCacheSchemaVersion + 1, Found: false}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	var payload ResolutionPayload
	if hit, err := cache.Get(key, &payload); hit || err != nil {
		t.Fatalf("stale schema should be a silent miss, got (%v, %v)", hit, err)
	}
}

func TestResolutionCacheNilIsNoOp(t *testing.T) {
	var cache *ResolutionCache
	if err := cache.Record(testRef(), nil, "", false); err != nil {
		t.Fatalf("nil cache Record should no-op, got %v", err)
	}
	var payload ResolutionPayload
	if hit, err := cache.Get(Digest{}, &payload); hit || err != nil {
		t.Fatalf("nil cache Get should miss, got (%v, %v)", hit, err)
	}
}

func TestResolutionCacheDropAll(t *testing.T) {
	cache := &ResolutionCache{dir: filepath.Join(t.TempDir(), "recoil")}
	if err := os.MkdirAll(cache.dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := cache.Record(testRef(), nil, "", false); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	var payload ResolutionPayload
	if hit, _ := cache.Get(ResolutionKey(testRef(), nil), &payload); hit {
		t.Fatalf("dropped cache must not hit")
	}
}
