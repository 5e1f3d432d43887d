package node

import (
	"fmt"
	"sort"
	"sync"
)

// Factory builds a fresh, default-constructed Erased node instance. Node
// constructors take no arguments by contract (§4.4) — a factory exists
// purely so a name (from config) can be turned into an instance without the
// caller importing every concrete node package.
type Factory func() Erased

// Registry maps node type names to factories, the Go-without-reflection
// stand-in for the source's runtime discovery: a small manual registry the
// application populates from main, analogous to a generated "name ->
// factory" table. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry constructs an empty node registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register associates name with factory. Re-registering the same name is an
// error — it almost always indicates two packages claiming the same node
// type.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("node: registry: name must not be empty")
	}
	if factory == nil {
		return fmt.Errorf("node: registry: factory for %q must not be nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("node: registry: %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// New constructs a fresh node instance by name.
func (r *Registry) New(name string) (Erased, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("node: registry: unknown node type %q", name)
	}
	return factory(), nil
}

// Names returns every registered node type name, sorted for deterministic
// CLI listings.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for name := range r.factories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
