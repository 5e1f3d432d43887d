package pipeline

import (
	"context"
	"fmt"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/node"
)

// InputSource abstracts materializing a node's input, whether it is a single
// entry (pass-through, full sequence flows in) or a CatalogMap (mapped mode
// synthesizes one schema object, fed to the node as a singleton sequence).
type InputSource interface {
	// Entries returns every catalog entry this source reads, used for DAG
	// wiring regardless of single/mapped mode.
	Entries() []catalog.Entry
	// Materialize produces the sequence handed to the node's erased
	// Transform.
	Materialize(ctx context.Context) ([]any, error)
}

// OutputSink is InputSource's write-side counterpart.
type OutputSink interface {
	Entries() []catalog.Entry
	Persist(ctx context.Context, values []any) error
}

// SingleEntrySource wraps one readable entry as a pass-through input: the
// node receives the entry's full sequence unchanged.
type SingleEntrySource struct{ Entry catalog.Reader }

func (s SingleEntrySource) Entries() []catalog.Entry { return []catalog.Entry{s.Entry} }

func (s SingleEntrySource) Materialize(ctx context.Context) ([]any, error) {
	return s.Entry.LoadAny(ctx)
}

// SingleEntrySink wraps one writable entry as a pass-through output.
type SingleEntrySink struct{ Entry catalog.Writer }

func (s SingleEntrySink) Entries() []catalog.Entry { return []catalog.Entry{s.Entry} }

func (s SingleEntrySink) Persist(ctx context.Context, values []any) error {
	return s.Entry.SaveAny(ctx, values)
}

// mappedSource adapts a *catalog.CatalogMap[S] to InputSource. It is
// constructed generically in builder.go (where S is known) and stored here
// type-erased.
type mappedSource struct {
	entries     []catalog.Entry
	materialize func(ctx context.Context) ([]any, error)
}

func (m mappedSource) Entries() []catalog.Entry { return m.entries }
func (m mappedSource) Materialize(ctx context.Context) ([]any, error) {
	return m.materialize(ctx)
}

type mappedSink struct {
	entries []catalog.Entry
	persist func(ctx context.Context, values []any) error
}

func (m mappedSink) Entries() []catalog.Entry { return m.entries }
func (m mappedSink) Persist(ctx context.Context, values []any) error {
	return m.persist(ctx, values)
}

// NewMappedSource builds an InputSource from a CatalogMap[S]: mapped mode
// materializes one S and feeds it to the node as a singleton sequence (§4.3);
// pass-through mode forwards the wrapped entry's sequence directly.
func NewMappedSource[S any](cm *catalog.CatalogMap[S]) InputSource {
	return mappedSource{
		entries: cm.MappedEntries(),
		materialize: func(ctx context.Context) ([]any, error) {
			if cm.IsPassThrough() {
				return cm.MaterializePassThrough(ctx)
			}
			s, err := cm.Materialize(ctx)
			if err != nil {
				return nil, err
			}
			return []any{s}, nil
		},
	}
}

// NewMappedSink builds an OutputSink from a CatalogMap[S]: mapped mode
// unpacks the node's singleton S output and writes each bound property;
// pass-through mode forwards the sequence directly.
func NewMappedSink[S any](cm *catalog.CatalogMap[S]) OutputSink {
	return mappedSink{
		entries: cm.MappedEntries(),
		persist: func(ctx context.Context, values []any) error {
			if cm.IsPassThrough() {
				return cm.PersistPassThrough(ctx, values)
			}
			if len(values) != 1 {
				return &DomainError{
					Code:    ErrCodeState,
					Message: fmt.Sprintf("mapped output expects exactly one schema value, got %d", len(values)),
				}
			}
			s, ok := values[0].(S)
			if !ok {
				return &DomainError{Code: ErrCodeType, Message: fmt.Sprintf("mapped output value is not assignable to %T", s)}
			}
			return cm.Persist(ctx, s)
		},
	}
}

// PipelineNode bundles one erased node with its input/output sources, the
// set of PipelineNodes it depends on, and its assigned layer (unassigned
// until Build runs). Invariant: every entry in Outputs() is produced by
// exactly one PipelineNode within a built pipeline (enforced by
// DependencyAnalyzer, not by this type).
type PipelineNode struct {
	Name   string
	Node   node.Erased
	Input  InputSource
	Output OutputSink

	deps  []*PipelineNode
	layer int
}

// Layer returns the node's assigned layer. Only meaningful after Build.
func (n *PipelineNode) Layer() int { return n.layer }

// Dependencies returns the PipelineNodes this node depends on (producers of
// its input entries), populated by DependencyAnalyzer.
func (n *PipelineNode) Dependencies() []*PipelineNode { return n.deps }

// InputKeys returns the keys of every entry this node reads, for DAG export.
func (n *PipelineNode) InputKeys() []string {
	return entryKeys(n.Input.Entries())
}

// OutputKeys returns the keys of every entry this node writes, for DAG export.
func (n *PipelineNode) OutputKeys() []string {
	return entryKeys(n.Output.Entries())
}

func entryKeys(entries []catalog.Entry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key()
	}
	return keys
}
