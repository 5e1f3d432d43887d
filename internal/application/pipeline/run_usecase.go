package pipeline

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
	"github.com/pipeforge/pipeforge/internal/ports"
)

// RunUseCase prepares a pipeline and executes it via a NodeExecutor — the
// `pipeforge run` path. opts.DryRun lets the same use case serve both a real
// run and a dry-run preview, since RunAsync itself branches on it.
type RunUseCase struct {
	prepareUseCase *PrepareUseCase
	executor       ports.NodeExecutor
	logger         ports.Logger
	events         ports.EventPublisher
}

// NewRunUseCase constructs a RunUseCase with dependencies injected.
func NewRunUseCase(prepare *PrepareUseCase, executor ports.NodeExecutor, logger ports.Logger, events ports.EventPublisher) *RunUseCase {
	return &RunUseCase{prepareUseCase: prepare, executor: executor, logger: logger, events: events}
}

// Run prepares the pipeline and executes it, returning the built pipeline
// alongside the aggregated execution result.
func (u *RunUseCase) Run(ctx context.Context, catalogPath string, catalogOverrides []string, pipelinePath string, opts pipeline.RunOptions) (*pipeline.Pipeline, pipeline.PipelineResult, error) {
	if u.logger != nil {
		u.logger.Info(ctx, "running pipeline", "catalog_path", catalogPath, "pipeline_path", pipelinePath, "dry_run", opts.DryRun)
	}

	_, pip, err := u.prepareUseCase.Prepare(ctx, catalogPath, catalogOverrides, pipelinePath)
	if err != nil {
		if u.logger != nil {
			u.logger.Error(ctx, "failed to prepare pipeline", "pipeline_path", pipelinePath, "error", err)
		}
		publishEvent(ctx, u.events, u.logger, ports.EventPipelineFailed, map[string]interface{}{
			"pipeline_path": pipelinePath,
			"phase":         "run",
			"error":         err.Error(),
		})
		return nil, pipeline.PipelineResult{}, err
	}

	publishEvent(ctx, u.events, u.logger, ports.EventPipelineStarted, map[string]interface{}{
		"pipeline":   pip.Name,
		"node_count": len(pip.Nodes),
		"dry_run":    opts.DryRun,
	})

	result := u.executor.Run(ctx, pip, opts)

	if !result.Success {
		if u.logger != nil {
			u.logger.Error(ctx, "pipeline run failed", "pipeline", pip.Name, "error", result.Error)
		}
		publishEvent(ctx, u.events, u.logger, ports.EventPipelineFailed, map[string]interface{}{
			"pipeline": pip.Name,
			"error":    result.Error.Error(),
		})
		return pip, result, result.Error
	}

	if u.logger != nil {
		u.logger.Info(ctx, "pipeline run complete", "pipeline", pip.Name, "dry_run", result.DryRun)
	}
	publishEvent(ctx, u.events, u.logger, ports.EventPipelineCompleted, map[string]interface{}{
		"pipeline": pip.Name,
		"dry_run":  result.DryRun,
	})
	return pip, result, nil
}
