package pipeline

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
	"github.com/pipeforge/pipeforge/internal/ports"
)

// PrepareUseCase loads a catalog and a pipeline definition against it, then
// assigns execution layers via DAGBuilder — the application-layer
// counterpart of calling Pipeline.Build directly, done through a port so
// use cases depend on an interface rather than the concrete domain
// analyzer (mirrors the teacher's PrepareUseCase/dagBuilder pairing).
type PrepareUseCase struct {
	catalogLoader  ports.CatalogLoader
	pipelineLoader ports.PipelineLoader
	dagBuilder     ports.DAGBuilder
	logger         ports.Logger
	events         ports.EventPublisher
}

// NewPrepareUseCase constructs a prepare use case with the required ports.
func NewPrepareUseCase(catalogLoader ports.CatalogLoader, pipelineLoader ports.PipelineLoader, dagBuilder ports.DAGBuilder, logger ports.Logger, events ports.EventPublisher) *PrepareUseCase {
	return &PrepareUseCase{
		catalogLoader:  catalogLoader,
		pipelineLoader: pipelineLoader,
		dagBuilder:     dagBuilder,
		logger:         logger,
		events:         events,
	}
}

// Prepare loads catalogPath (plus catalogOverrides, in precedence order),
// loads pipelinePath against the resulting catalog, and builds the DAG.
func (u *PrepareUseCase) Prepare(ctx context.Context, catalogPath string, catalogOverrides []string, pipelinePath string) (*catalog.Base, *pipeline.Pipeline, error) {
	if u.logger != nil {
		u.logger.Info(ctx, "preparing pipeline", "catalog_path", catalogPath, "pipeline_path", pipelinePath)
	}
	publishEvent(ctx, u.events, u.logger, ports.EventPipelineStarted, map[string]interface{}{
		"catalog_path":  catalogPath,
		"pipeline_path": pipelinePath,
		"phase":         "prepare",
	})

	cat, err := u.catalogLoader.LoadCatalog(ctx, catalogPath, catalogOverrides...)
	if err != nil {
		u.failPrepare(ctx, catalogPath, pipelinePath, "failed to load catalog", err)
		return nil, nil, err
	}

	pip, err := u.pipelineLoader.LoadPipeline(ctx, pipelinePath, cat)
	if err != nil {
		u.failPrepare(ctx, catalogPath, pipelinePath, "failed to load pipeline", err)
		return cat, nil, err
	}

	if u.logger != nil {
		u.logger.Debug(ctx, "building DAG", "pipeline", pip.Name, "node_count", len(pip.Nodes))
	}
	layers, err := u.dagBuilder.Build(ctx, pip.Nodes)
	if err != nil {
		u.failPrepare(ctx, catalogPath, pipelinePath, "failed to build DAG", err)
		return cat, pip, err
	}
	pip.Layers = layers
	pip.Built = true

	if u.logger != nil {
		u.logger.Info(ctx, "pipeline prepared", "pipeline", pip.Name, "layers", len(layers))
	}
	publishEvent(ctx, u.events, u.logger, ports.EventPipelineCompleted, map[string]interface{}{
		"pipeline_path": pipelinePath,
		"pipeline":      pip.Name,
		"phase":         "prepare",
		"layers":        len(layers),
		"node_count":    len(pip.Nodes),
	})
	return cat, pip, nil
}

func (u *PrepareUseCase) failPrepare(ctx context.Context, catalogPath, pipelinePath, msg string, err error) {
	if u.logger != nil {
		u.logger.Error(ctx, msg, "catalog_path", catalogPath, "pipeline_path", pipelinePath, "error", err)
	}
	publishEvent(ctx, u.events, u.logger, ports.EventPipelineFailed, map[string]interface{}{
		"catalog_path":  catalogPath,
		"pipeline_path": pipelinePath,
		"phase":         "prepare",
		"error":         err.Error(),
	})
}
