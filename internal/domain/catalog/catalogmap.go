package catalog

import (
	"context"
	"fmt"
	"sort"
)

// Mapping describes one CatalogMap binding for diagnostics and DAG export:
// the schema field name, the bound entry's key (empty for a constant), and
// whether the binding is a constant parameter rather than an entry.
type Mapping struct {
	Field      string
	EntryKey   string
	IsConstant bool
}

// CatalogMap binds the properties of a schema type S to entries (multi-IO)
// or wraps a single entry in pass-through mode (S is then the item type
// itself and no synthesis happens). All required properties must be bound
// before ValidateComplete succeeds; unrequired properties may be omitted.
type CatalogMap[S any] struct {
	passThroughReader Reader
	passThroughWriter Writer
	bindings          map[string]*binding[S]
	order             []string
	required          map[string]bool
}

type binding[S any] struct {
	field      string
	entry      Entry
	isConstant bool
	load       func(ctx context.Context, s *S) error
	save       func(ctx context.Context, s *S) error
}

// NewCatalogMap constructs an empty mapped-mode CatalogMap. requiredFields
// names the properties ValidateComplete will insist are bound.
func NewCatalogMap[S any](requiredFields ...string) *CatalogMap[S] {
	req := make(map[string]bool, len(requiredFields))
	for _, f := range requiredFields {
		req[f] = true
	}
	return &CatalogMap[S]{
		bindings: make(map[string]*binding[S]),
		required: req,
	}
}

// PassThrough wraps a single entry so its sequence flows directly to/from
// the node with no schema-object synthesis. e must additionally satisfy
// Reader and/or Writer depending on whether it is used as an input or an
// output.
func PassThrough[S any](e Entry) *CatalogMap[S] {
	cm := &CatalogMap[S]{}
	if r, ok := e.(Reader); ok {
		cm.passThroughReader = r
	}
	if w, ok := e.(Writer); ok {
		cm.passThroughWriter = w
	}
	return cm
}

// IsPassThrough reports whether this CatalogMap wraps a single entry rather
// than mapping properties of S.
func (cm *CatalogMap[S]) IsPassThrough() bool {
	return cm.passThroughReader != nil || cm.passThroughWriter != nil
}

// Map binds schema field to entry. It is an error to bind the same field
// twice.
func Map[S, P any](cm *CatalogMap[S], field FieldRef[S, P], e Typed[P]) error {
	if cm.IsPassThrough() {
		return fmt.Errorf("catalogmap: cannot add property binding %q to a pass-through map", field.Name())
	}
	if _, exists := cm.bindings[field.Name()]; exists {
		return fmt.Errorf("catalogmap: field %q already bound", field.Name())
	}
	cm.bindings[field.Name()] = &binding[S]{
		field: field.Name(),
		entry: e,
		load: func(ctx context.Context, s *S) error {
			items, err := e.Load(ctx)
			if err != nil {
				return err
			}
			field.set(s, firstOrZero(items))
			return nil
		},
		save: func(ctx context.Context, s *S) error {
			return e.Save(ctx, []P{field.get(s)})
		},
	}
	cm.order = append(cm.order, field.Name())
	return nil
}

// MapParameter binds a constant value to field rather than an entry. Only
// meaningful for input CatalogMaps.
func MapParameter[S, P any](cm *CatalogMap[S], field FieldRef[S, P], value P) error {
	if cm.IsPassThrough() {
		return fmt.Errorf("catalogmap: cannot add constant binding %q to a pass-through map", field.Name())
	}
	if _, exists := cm.bindings[field.Name()]; exists {
		return fmt.Errorf("catalogmap: field %q already bound", field.Name())
	}
	cm.bindings[field.Name()] = &binding[S]{
		field:      field.Name(),
		isConstant: true,
		load: func(ctx context.Context, s *S) error {
			field.set(s, value)
			return nil
		},
	}
	cm.order = append(cm.order, field.Name())
	return nil
}

func firstOrZero[P any](items []P) P {
	var zero P
	if len(items) == 0 {
		return zero
	}
	return items[0]
}

// ValidateComplete ensures every required property has a binding.
func (cm *CatalogMap[S]) ValidateComplete() error {
	if cm.IsPassThrough() {
		return nil
	}
	missing := make([]string, 0)
	for field := range cm.required {
		if _, ok := cm.bindings[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("catalogmap: missing required bindings: %v", missing)
}

// MappedEntries returns every entry this map touches (pass-through: the one
// wrapped entry; mapped: every non-constant binding), used by the dependency
// analyzer to wire the node into the DAG.
func (cm *CatalogMap[S]) MappedEntries() []Entry {
	if cm.IsPassThrough() {
		if cm.passThroughReader != nil {
			return []Entry{cm.passThroughReader}
		}
		if cm.passThroughWriter != nil {
			return []Entry{cm.passThroughWriter}
		}
		return nil
	}
	out := make([]Entry, 0, len(cm.order))
	for _, f := range cm.order {
		b := cm.bindings[f]
		if !b.isConstant {
			out = append(out, b.entry)
		}
	}
	return out
}

// Mappings describes every binding for diagnostics and DAG export.
func (cm *CatalogMap[S]) Mappings() []Mapping {
	if cm.IsPassThrough() {
		return nil
	}
	out := make([]Mapping, 0, len(cm.order))
	for _, f := range cm.order {
		b := cm.bindings[f]
		m := Mapping{Field: f, IsConstant: b.isConstant}
		if !b.isConstant {
			m.EntryKey = b.entry.Key()
		}
		out = append(out, m)
	}
	return out
}

// Materialize builds one S by loading each bound entry and copying each
// constant, per §4.3's mapped-input semantics. Pass-through maps have no
// schema object to build; callers should use MaterializePassThrough instead.
func (cm *CatalogMap[S]) Materialize(ctx context.Context) (S, error) {
	var s S
	for _, f := range cm.order {
		if err := cm.bindings[f].load(ctx, &s); err != nil {
			var zero S
			return zero, err
		}
	}
	return s, nil
}

// Persist writes s's bound properties back to their entries, skipping
// constants (constants are input-only).
func (cm *CatalogMap[S]) Persist(ctx context.Context, s S) error {
	for _, f := range cm.order {
		b := cm.bindings[f]
		if b.isConstant {
			continue
		}
		if err := b.save(ctx, &s); err != nil {
			return err
		}
	}
	return nil
}

// MaterializePassThrough loads the wrapped entry's full sequence directly,
// with no schema-object synthesis.
func (cm *CatalogMap[S]) MaterializePassThrough(ctx context.Context) ([]any, error) {
	if cm.passThroughReader == nil {
		return nil, fmt.Errorf("catalogmap: pass-through entry is not readable")
	}
	return cm.passThroughReader.LoadAny(ctx)
}

// PersistPassThrough saves values directly to the wrapped entry.
func (cm *CatalogMap[S]) PersistPassThrough(ctx context.Context, values []any) error {
	if cm.passThroughWriter == nil {
		return fmt.Errorf("catalogmap: pass-through entry is not writable")
	}
	return cm.passThroughWriter.SaveAny(ctx, values)
}
