package catalog

import (
	"context"
	"testing"
)

type enriched struct {
	Name  string
	Score float64
}

var enrichedFields = struct {
	Name  FieldRef[enriched, string]
	Score FieldRef[enriched, float64]
}{
	Name:  NewFieldRef("name", func(e *enriched) string { return e.Name }, func(e *enriched, v string) { e.Name = v }),
	Score: NewFieldRef("score", func(e *enriched) float64 { return e.Score }, func(e *enriched, v float64) { e.Score = v }),
}

type memoryEntry[T any] struct {
	key   string
	items []T
}

func (m *memoryEntry[T]) Key() string           { return m.key }
func (m *memoryEntry[T]) DataTypeName() string  { return "memory" }
func (m *memoryEntry[T]) Capabilities() Capabilities {
	return Capabilities{Readable: true, Writable: true, Dataset: true}
}
func (m *memoryEntry[T]) Load(ctx context.Context) ([]T, error) { return m.items, nil }
func (m *memoryEntry[T]) Save(ctx context.Context, items []T) error {
	m.items = items
	return nil
}
func (m *memoryEntry[T]) LoadAny(ctx context.Context) ([]any, error) {
	out := make([]any, len(m.items))
	for i, v := range m.items {
		out[i] = v
	}
	return out, nil
}
func (m *memoryEntry[T]) SaveAny(ctx context.Context, items []any) error {
	typed := make([]T, len(items))
	for i, v := range items {
		typed[i] = v.(T)
	}
	m.items = typed
	return nil
}

func TestCatalogMap_MappedMaterializeAndPersist(t *testing.T) {
	nameEntry := &memoryEntry[string]{key: "name", items: []string{"Acme"}}
	scoreEntry := &memoryEntry[float64]{key: "score", items: []float64{4.2}}

	cm := NewCatalogMap[enriched]("name", "score")
	if err := Map(cm, enrichedFields.Name, nameEntry); err != nil {
		t.Fatalf("Map(name): %v", err)
	}
	if err := Map(cm, enrichedFields.Score, scoreEntry); err != nil {
		t.Fatalf("Map(score): %v", err)
	}

	if err := cm.ValidateComplete(); err != nil {
		t.Fatalf("ValidateComplete: %v", err)
	}

	s, err := cm.Materialize(context.Background())
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if s.Name != "Acme" || s.Score != 4.2 {
		t.Fatalf("unexpected materialized value: %+v", s)
	}

	if err := cm.Persist(context.Background(), enriched{Name: "Other", Score: 9.9}); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if nameEntry.items[0] != "Other" || scoreEntry.items[0] != 9.9 {
		t.Fatalf("persist did not reach entries: name=%v score=%v", nameEntry.items, scoreEntry.items)
	}
}

func TestCatalogMap_ValidateCompleteMissingBinding(t *testing.T) {
	cm := NewCatalogMap[enriched]("name", "score")
	if err := Map(cm, enrichedFields.Name, &memoryEntry[string]{key: "name"}); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := cm.ValidateComplete(); err == nil {
		t.Fatal("expected error for missing required binding")
	}
}

func TestCatalogMap_DuplicateBindingRejected(t *testing.T) {
	cm := NewCatalogMap[enriched]()
	if err := Map(cm, enrichedFields.Name, &memoryEntry[string]{key: "name"}); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := Map(cm, enrichedFields.Name, &memoryEntry[string]{key: "name2"}); err == nil {
		t.Fatal("expected error binding the same field twice")
	}
}

func TestCatalogMap_MapParameterIsConstant(t *testing.T) {
	cm := NewCatalogMap[enriched]("name", "score")
	if err := Map(cm, enrichedFields.Name, &memoryEntry[string]{key: "name", items: []string{"x"}}); err != nil {
		t.Fatalf("Map: %v", err)
	}
	if err := MapParameter(cm, enrichedFields.Score, 1.5); err != nil {
		t.Fatalf("MapParameter: %v", err)
	}

	s, err := cm.Materialize(context.Background())
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if s.Score != 1.5 {
		t.Fatalf("expected constant to be copied, got %v", s.Score)
	}

	entries := cm.MappedEntries()
	if len(entries) != 1 || entries[0].Key() != "name" {
		t.Fatalf("constant bindings must not appear in MappedEntries: %+v", entries)
	}
}

func TestCatalogMap_PassThrough(t *testing.T) {
	entry := &memoryEntry[int]{key: "rows", items: []int{1, 2, 3}}
	cm := PassThrough[int](entry)

	if !cm.IsPassThrough() {
		t.Fatal("expected pass-through mode")
	}
	if err := cm.ValidateComplete(); err != nil {
		t.Fatalf("pass-through ValidateComplete should always succeed: %v", err)
	}

	values, err := cm.MaterializePassThrough(context.Background())
	if err != nil {
		t.Fatalf("MaterializePassThrough: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("expected 3 items, got %d", len(values))
	}

	if err := cm.PersistPassThrough(context.Background(), []any{4, 5}); err != nil {
		t.Fatalf("PersistPassThrough: %v", err)
	}
	if len(entry.items) != 2 {
		t.Fatalf("expected persisted items to replace entry contents, got %v", entry.items)
	}
}
