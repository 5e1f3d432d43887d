package pipeline

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
	"github.com/pipeforge/pipeforge/internal/ports"
)

// ValidateUseCase prepares a pipeline and runs its pre-flight external-input
// inspection without executing any node — the `pipeforge validate` path.
type ValidateUseCase struct {
	prepareUseCase *PrepareUseCase
	logger         ports.Logger
	events         ports.EventPublisher
}

// NewValidateUseCase constructs a ValidateUseCase with dependencies injected.
func NewValidateUseCase(prepare *PrepareUseCase, logger ports.Logger, events ports.EventPublisher) *ValidateUseCase {
	return &ValidateUseCase{prepareUseCase: prepare, logger: logger, events: events}
}

// Validate loads and builds the pipeline, then inspects every external
// entry at its effective inspection level.
func (u *ValidateUseCase) Validate(ctx context.Context, catalogPath string, catalogOverrides []string, pipelinePath string, opts pipeline.RunOptions) (*pipeline.Pipeline, catalog.ValidationResult, error) {
	if u.logger != nil {
		u.logger.Info(ctx, "validating pipeline", "catalog_path", catalogPath, "pipeline_path", pipelinePath)
	}
	publishEvent(ctx, u.events, u.logger, ports.EventValidationStarted, map[string]interface{}{
		"catalog_path":  catalogPath,
		"pipeline_path": pipelinePath,
	})

	_, pip, err := u.prepareUseCase.Prepare(ctx, catalogPath, catalogOverrides, pipelinePath)
	if err != nil {
		if u.logger != nil {
			u.logger.Error(ctx, "failed to prepare pipeline for validation", "pipeline_path", pipelinePath, "error", err)
		}
		publishEvent(ctx, u.events, u.logger, ports.EventValidationFailed, map[string]interface{}{
			"pipeline_path": pipelinePath,
			"error":         err.Error(),
		})
		return nil, catalog.ValidationResult{}, err
	}

	result, err := pip.ValidateExternalInputsAsync(ctx, opts)
	if err != nil {
		if u.logger != nil {
			u.logger.Warn(ctx, "pipeline validation failed", "pipeline", pip.Name, "errors", len(result.Errors))
		}
		return pip, result, err
	}

	if u.logger != nil {
		u.logger.Info(ctx, "pipeline validation passed", "pipeline", pip.Name)
	}
	publishEvent(ctx, u.events, u.logger, ports.EventValidationCompleted, map[string]interface{}{
		"pipeline": pip.Name,
	})
	return pip, result, nil
}
