package engine

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
	"github.com/pipeforge/pipeforge/internal/infrastructure/logging"
	"github.com/pipeforge/pipeforge/internal/ports"
)

// Executor implements ports.NodeExecutor by driving pipeline.Pipeline's own
// RunAsync, recording run-level metrics around it. The layer-by-layer,
// stop-on-first-error execution semantics live entirely in the domain layer
// (§4.7); this adapter's only job is observability plumbing a use case
// shouldn't have to wire by hand on every call.
type Executor struct {
	logger  ports.Logger
	metrics ports.MetricsCollector
}

// ExecutorOption configures an Executor instance.
type ExecutorOption func(*Executor)

// WithExecutorLogger sets the executor's logger. Run does not pass it on to
// the pipeline it drives.
func WithExecutorLogger(logger ports.Logger) ExecutorOption {
	return func(e *Executor) { e.logger = logger }
}

// WithExecutorMetrics injects a metrics collector.
func WithExecutorMetrics(metrics ports.MetricsCollector) ExecutorOption {
	return func(e *Executor) { e.metrics = metrics }
}

// NewExecutor constructs a ports.NodeExecutor implementation.
func NewExecutor(opts ...ExecutorOption) *Executor {
	exec := &Executor{logger: logging.NewNoOpLogger()}
	for _, opt := range opts {
		opt(exec)
	}
	return exec
}

// Run drives RunAsync and, when a metrics collector is set, records
// pipeforge_pipeline_runs_total, pipeforge_pipeline_run_duration_seconds and,
// per node, pipeforge_node_executions_total and
// pipeforge_node_execution_duration_seconds. It does not attach the
// executor's logger to the pipeline.
func (e *Executor) Run(ctx context.Context, p *pipeline.Pipeline, opts pipeline.RunOptions) pipeline.PipelineResult {
	result := p.RunAsync(ctx, opts)

	if e.metrics != nil {
		status := "success"
		if !result.Success {
			status = "failure"
		}
		if result.Error != nil && result.Error.Code == pipeline.ErrCodeCancelled {
			status = "cancelled"
		}
		e.metrics.IncCounter(ctx, "pipeforge_pipeline_runs_total", map[string]string{"status": status})
		e.metrics.ObserveHistogram(ctx, "pipeforge_pipeline_run_duration_seconds", result.Elapsed.Seconds(), nil)
		for name, nr := range result.Nodes {
			nodeStatus := "success"
			if !nr.Success {
				nodeStatus = "failure"
			}
			e.metrics.IncCounter(ctx, "pipeforge_node_executions_total", map[string]string{"node": name, "status": nodeStatus})
			e.metrics.ObserveHistogram(ctx, "pipeforge_node_execution_duration_seconds", nr.Elapsed.Seconds(), map[string]string{"node": name})
		}
	}

	return result
}

var _ ports.NodeExecutor = (*Executor)(nil)
