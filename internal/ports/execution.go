package ports

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

// NodeExecutor drives pipeline execution while enforcing ordering
// guarantees, cancellation, and domain error semantics. Implementations
// must:
//   - Execute nodes layer-by-layer, sequentially within a layer (parallel
//     execution within a layer is not supported in this phase, see
//     pipeline.RunOptions).
//   - Respect ctx cancellation between nodes.
//   - Translate infrastructure failures into pipeline.ErrCodeExecution,
//     pipeline.ErrCodeTimeout, or pipeline.ErrCodeCancelled as appropriate.
//   - Emit observability signals via injected ports (metrics, events).
type NodeExecutor interface {
	// Run executes every layer of the built pipeline and returns the
	// aggregated result.
	Run(ctx context.Context, p *pipeline.Pipeline, opts pipeline.RunOptions) pipeline.PipelineResult
}

// DAGBuilder assigns layers to a raw node set, enforcing the single-writer
// rule and detecting cycles. Implementations typically delegate directly to
// pipeline.DependencyAnalyzer; this port exists so application use cases
// depend on an interface rather than the concrete domain analyzer.
type DAGBuilder interface {
	Build(ctx context.Context, nodes []*pipeline.PipelineNode) ([]pipeline.Layer, error)
}
