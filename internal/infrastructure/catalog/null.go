package catalog

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
)

// Null is the no-data entry: it accepts both reader and writer roles,
// always reports a singleton sentinel value on load, and silently discards
// writes. Used to wire nodes that have no meaningful input or output
// (§4.1's "Null/no-data" backend note).
type Null[T any] struct {
	key  string
	zero T
}

// NewNull constructs a no-data entry identified by key.
func NewNull[T any](key string) *Null[T] { return &Null[T]{key: key} }

func (n *Null[T]) Key() string          { return n.key }
func (n *Null[T]) DataTypeName() string { return "null" }
func (n *Null[T]) Capabilities() catalog.Capabilities {
	return catalog.Capabilities{Readable: true, Writable: true, Singleton: true}
}

// Load always returns a single zero-valued sentinel item.
func (n *Null[T]) Load(ctx context.Context) ([]T, error) {
	return []T{n.zero}, nil
}

// Save discards items; it never errors.
func (n *Null[T]) Save(ctx context.Context, items []T) error {
	return nil
}

// Exists is always true: the sentinel is always "present".
func (n *Null[T]) Exists(ctx context.Context) (bool, error) { return true, nil }

// Count is always 1, consistent with Exists and the singleton capability.
func (n *Null[T]) Count(ctx context.Context) (int, error) { return 1, nil }

func (n *Null[T]) LoadAny(ctx context.Context) ([]any, error) {
	return []any{n.zero}, nil
}

func (n *Null[T]) SaveAny(ctx context.Context, items []any) error {
	return nil
}

var _ catalog.Typed[int] = (*Null[int])(nil)
