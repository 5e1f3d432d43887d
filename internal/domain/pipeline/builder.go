package pipeline

import (
	"fmt"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/node"
)

// PipelineBuilder accumulates named, wired nodes and produces a Pipeline.
// The Open Question of "one AddNode overload vs. separate
// AddPassThroughNode/AddMappedNode entry points" resolves to a single
// generic AddNode per node call site: callers choose InputSource/OutputSink
// construction (SingleEntrySource vs NewMappedSource) at the call site,
// keeping the builder itself free of mode-specific branching (see DESIGN.md).
type PipelineBuilder struct {
	name  string
	nodes []*PipelineNode
	names map[string]bool
	err   error
}

// NewPipelineBuilder starts a builder for a pipeline named name.
func NewPipelineBuilder(name string) *PipelineBuilder {
	return &PipelineBuilder{name: name, names: map[string]bool{}}
}

// AddNode registers one wired node under name. An empty or duplicate name is
// recorded as the builder's error; once an error is recorded, later AddNode
// calls are ignored and Done returns that first error.
func (b *PipelineBuilder) AddNode(name string, erased node.Erased, input InputSource, output OutputSink) *PipelineBuilder {
	if b.err != nil {
		return b
	}
	if name == "" {
		b.err = newValidationError("node name must not be empty", nil)
		return b
	}
	if b.names[name] {
		b.err = newValidationError(fmt.Sprintf("duplicate node name %q", name), map[string]interface{}{"name": name})
		return b
	}
	b.names[name] = true
	b.nodes = append(b.nodes, &PipelineNode{Name: name, Node: erased, Input: input, Output: output})
	return b
}

// AddPassThroughNode is a convenience wrapper for the common single-entry-in,
// single-entry-out wiring.
func (b *PipelineBuilder) AddPassThroughNode(name string, erased node.Erased, in catalog.Reader, out catalog.Writer) *PipelineBuilder {
	return b.AddNode(name, erased, SingleEntrySource{Entry: in}, SingleEntrySink{Entry: out})
}

// Done finalizes the accumulated node set into an unbuilt Pipeline. The
// caller still calls Pipeline.Build to run dependency analysis — keeping the
// two steps distinct matches the documented control flow: "builder produces
// a pipeline, Build analyzes."
func (b *PipelineBuilder) Done() (*Pipeline, error) {
	if b.err != nil {
		return nil, b.err
	}
	p := New(b.name)
	p.Nodes = b.nodes
	return p, nil
}
