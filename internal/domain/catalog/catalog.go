package catalog

import (
	"fmt"
	"sync"
)

// Base is an embeddable, identity-stable entry cache. A user-derived catalog
// type embeds Base and exposes named handle accessors that call Handle with
// a factory; the first call for a given accessor name wins and every later
// call returns the exact same Entry, satisfying the catalog-identity
// invariant the DAG depends on (a handle accessed twice is the same logical
// entry).
//
// Clearing the cache after a pipeline has been built is undefined behavior —
// deliberately unsupported, so Base exposes no Reset/Clear method.
type Base struct {
	mu        sync.Mutex
	cache     map[string]Entry
	keysOwned map[string]string // entry.Key() -> accessor name, for uniqueness checks
}

// Handle returns the cached entry for accessor, constructing it via factory
// on first access. It panics on a duplicate underlying key because that
// indicates a programming error in the catalog definition, not a runtime
// condition a caller can recover from.
func (b *Base) Handle(accessor string, factory func() Entry) Entry {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.cache == nil {
		b.cache = make(map[string]Entry)
		b.keysOwned = make(map[string]string)
	}
	if e, ok := b.cache[accessor]; ok {
		return e
	}

	e := factory()
	if owner, exists := b.keysOwned[e.Key()]; exists && owner != accessor {
		panic(fmt.Sprintf("catalog: entry key %q already owned by handle %q (requested by %q)", e.Key(), owner, accessor))
	}
	b.cache[accessor] = e
	b.keysOwned[e.Key()] = accessor
	return e
}

// Init eagerly populates the handles named, avoiding lazy-init races when
// several goroutines might otherwise race to construct the same entry.
func (b *Base) Init(accessors map[string]func() Entry) {
	for name, factory := range accessors {
		b.Handle(name, factory)
	}
}

// Lookup returns the entry already cached under accessor, for callers (like
// a config-driven pipeline loader) that construct entries ahead of time via
// Init and then wire pipelines against them by name rather than by
// compile-time factory reference.
func (b *Base) Lookup(accessor string) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.cache[accessor]
	return e, ok
}

// Entries returns every entry constructed so far, in no particular order.
// Intended for callers building a pipeline's ExportDag entry listing.
func (b *Base) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Entry, 0, len(b.cache))
	for _, e := range b.cache {
		out = append(out, e)
	}
	return out
}
