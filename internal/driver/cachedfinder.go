package driver

import (
	"recoil/internal/metadata"
)

// fileFinder is the resolver-side probe the cache wraps.
type fileFinder interface {
	FindFile(ref metadata.AssemblyNameReference) (string, bool)
}

// CachedFinder memoizes FindFile results through a ResolutionCache,
// positive and negative alike. The cache key covers the search
// configuration, so a changed directory list never serves stale
// answers. A nil cache degrades to a pass-through.
type CachedFinder struct {
	Finder     fileFinder
	Cache      *ResolutionCache
	SearchDirs []string
}

// NewCachedFinder wraps finder with the cache, keyed by searchDirs.
func NewCachedFinder(finder fileFinder, cache *ResolutionCache, searchDirs []string) *CachedFinder {
	return &CachedFinder{
		Finder:     finder,
		Cache:      cache,
		SearchDirs: append([]string(nil), searchDirs...),
	}
}

// FindFile consults the cache first and records fresh probes. A cache
// read or write failure only loses memoization, never the resolution.
func (f *CachedFinder) FindFile(ref metadata.AssemblyNameReference) (string, bool) {
	key := ResolutionKey(ref, f.SearchDirs)
	var payload ResolutionPayload
	if hit, err := f.Cache.Get(key, &payload); err == nil && hit {
		return payload.Path, payload.Found
	}
	path, ok := f.Finder.FindFile(ref)
	_ = f.Cache.Record(ref, f.SearchDirs, path, ok)
	return path, ok
}
