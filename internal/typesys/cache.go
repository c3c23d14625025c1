package typesys

import (
	"fmt"
	"sync"

	"fortio.org/safecast"

	"recoil/internal/metadata"
)

// DefID is a stable index of a cached definition within one closure.
type DefID uint32

// defCache memoizes name lookups so repeated resolution of the same
// type returns the identical definition without rescanning every
// module. Guarded for concurrent decompilation workers.
type defCache struct {
	mu    sync.RWMutex
	defs  []*metadata.TypeDef
	index map[metadata.TypeName]DefID
}

func newDefCache() *defCache {
	return &defCache{index: make(map[metadata.TypeName]DefID, 64)}
}

func (c *defCache) lookup(name metadata.TypeName) (*metadata.TypeDef, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.defs[id], true
}

func (c *defCache) store(name metadata.TypeName, def *metadata.TypeDef) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[name]; ok {
		return
	}
	n, err := safecast.Conv[uint32](len(c.defs))
	if err != nil {
		panic(fmt.Errorf("definition cache overflow: %w", err))
	}
	c.index[name] = DefID(n)
	c.defs = append(c.defs, def)
}
