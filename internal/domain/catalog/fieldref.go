package catalog

// FieldRef is the language-neutral stand-in for the source's property
// selectors (see Design Notes: a generated Fields<S> object with typed
// descriptors is the recommended form for a language without expression-tree
// reflection). A FieldRef names a field of schema type S with item type P
// and carries typed accessors, so CatalogMap bindings stay compile-time safe
// without string-keyed reflection into S at bind time.
type FieldRef[S, P any] struct {
	name string
	get  func(*S) P
	set  func(*S, P)
}

// NewFieldRef constructs a field descriptor. Schema types typically expose a
// package-level var block of these, one per property, e.g.:
//
//	var Fields = struct{ Name, Score FieldRef[Enriched, string] }{...}
func NewFieldRef[S, P any](name string, get func(*S) P, set func(*S, P)) FieldRef[S, P] {
	return FieldRef[S, P]{name: name, get: get, set: set}
}

// Name returns the field's stable identifier, used for duplicate-binding
// detection and for CatalogMap.Mappings() diagnostics.
func (f FieldRef[S, P]) Name() string { return f.name }
