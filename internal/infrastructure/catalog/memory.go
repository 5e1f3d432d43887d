// Package catalog provides concrete Entry backends: in-memory, null,
// CSV, JSON, and Parquet (via arrow-go), plus a reflection-based row codec
// CSV and Parquet share. These are the "concrete codec bindings" the core
// spec treats as external collaborators (§1) — this package is the
// out-of-core boundary the domain catalog package's interfaces describe.
package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
)

// Memory is a readable/writable dataset entry backed by a process-local
// slice. Per §4.1, state starts empty and load-before-save is a usage
// error — there is no file to be absent, so "not yet saved" is its own
// distinct failure mode rather than a NotFound validation error.
type Memory[T any] struct {
	key   string
	mu    sync.RWMutex
	items []T
	saved bool
}

// NewMemory constructs an empty in-memory entry identified by key.
func NewMemory[T any](key string) *Memory[T] {
	return &Memory[T]{key: key}
}

func (m *Memory[T]) Key() string          { return m.key }
func (m *Memory[T]) DataTypeName() string { return fmt.Sprintf("memory<%T>", *new(T)) }
func (m *Memory[T]) Capabilities() catalog.Capabilities {
	return catalog.Capabilities{Readable: true, Writable: true, Dataset: true}
}

// Load returns the current contents. Calling Load before any Save is a
// usage error, per §4.1's memory-backend note.
func (m *Memory[T]) Load(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.saved {
		return nil, fmt.Errorf("memory: entry %q loaded before first save", m.key)
	}
	out := make([]T, len(m.items))
	copy(out, m.items)
	return out, nil
}

// Save total-overwrites the entry's contents.
func (m *Memory[T]) Save(ctx context.Context, items []T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append([]T(nil), items...)
	m.saved = true
	return nil
}

// Exists reports whether Save has ever been called.
func (m *Memory[T]) Exists(ctx context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saved, nil
}

// Count reports the number of stored items, 0 before the first save.
func (m *Memory[T]) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items), nil
}

// LoadAny is the type-erased read side the pipeline layer wires against.
func (m *Memory[T]) LoadAny(ctx context.Context) ([]any, error) {
	items, err := m.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out, nil
}

// SaveAny is the type-erased write side the pipeline layer wires against.
func (m *Memory[T]) SaveAny(ctx context.Context, items []any) error {
	typed := make([]T, len(items))
	for i, v := range items {
		t, ok := v.(T)
		if !ok {
			return fmt.Errorf("memory: entry %q: item %d (%T) is not assignable to %T", m.key, i, v, *new(T))
		}
		typed[i] = t
	}
	return m.Save(ctx, typed)
}

var (
	_ catalog.Typed[int]  = (*Memory[int])(nil)
	_ catalog.Existser    = (*Memory[int])(nil)
	_ catalog.Counter     = (*Memory[int])(nil)
)
