// Package engine adapts ports.DAGBuilder and ports.NodeExecutor onto the
// domain pipeline package's DependencyAnalyzer and Pipeline.RunAsync.
package engine

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

// DAGBuilder implements ports.DAGBuilder by delegating straight to
// pipeline.DependencyAnalyzer. It exists so application use cases depend on
// an interface rather than the concrete domain analyzer, per the port's doc
// comment; all the real work (producer indexing, single-writer checks,
// Kahn-style layering) lives in the domain layer.
type DAGBuilder struct{}

// NewDAGBuilder constructs a DAGBuilder adapter.
func NewDAGBuilder() *DAGBuilder { return &DAGBuilder{} }

// Build assigns layers to nodes, honoring context cancellation before the
// (CPU-bound, non-blocking) analysis runs.
func (b *DAGBuilder) Build(ctx context.Context, nodes []*pipeline.PipelineNode) ([]pipeline.Layer, error) {
	if err := ctx.Err(); err != nil {
		return nil, &pipeline.DomainError{Code: pipeline.ErrCodeCancelled, Message: "build cancelled", Cause: err}
	}
	return pipeline.NewDependencyAnalyzer().Analyze(nodes)
}
