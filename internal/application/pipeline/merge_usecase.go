package pipeline

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
	"github.com/pipeforge/pipeforge/internal/ports"
)

// MergeUseCase loads several named pipeline definitions against one shared
// catalog and concatenates them into a single built pipeline via
// pipeline.Merge — the `pipeforge run` path when invoked with no specific
// pipeline name, per §9's "unified AddNode" / run-all resolution.
type MergeUseCase struct {
	catalogLoader  ports.CatalogLoader
	pipelineLoader ports.PipelineLoader
	dagBuilder     ports.DAGBuilder
	logger         ports.Logger
	events         ports.EventPublisher
}

// NewMergeUseCase constructs a MergeUseCase with dependencies injected.
func NewMergeUseCase(catalogLoader ports.CatalogLoader, pipelineLoader ports.PipelineLoader, dagBuilder ports.DAGBuilder, logger ports.Logger, events ports.EventPublisher) *MergeUseCase {
	return &MergeUseCase{
		catalogLoader:  catalogLoader,
		pipelineLoader: pipelineLoader,
		dagBuilder:     dagBuilder,
		logger:         logger,
		events:         events,
	}
}

// Merge loads catalogPath (plus catalogOverrides), loads every path in
// pipelinePaths keyed by its base filename, merges them into one pipeline
// named mergedName, and builds its DAG.
func (u *MergeUseCase) Merge(ctx context.Context, catalogPath string, catalogOverrides []string, pipelinePaths map[string]string, mergedName string) (*catalog.Base, *pipeline.Pipeline, error) {
	if u.logger != nil {
		u.logger.Info(ctx, "merging pipelines", "catalog_path", catalogPath, "count", len(pipelinePaths))
	}

	cat, err := u.catalogLoader.LoadCatalog(ctx, catalogPath, catalogOverrides...)
	if err != nil {
		if u.logger != nil {
			u.logger.Error(ctx, "failed to load catalog for merge", "catalog_path", catalogPath, "error", err)
		}
		return nil, nil, err
	}

	pipelines := make(map[string]*pipeline.Pipeline, len(pipelinePaths))
	for name, path := range pipelinePaths {
		pip, err := u.pipelineLoader.LoadPipeline(ctx, path, cat)
		if err != nil {
			if u.logger != nil {
				u.logger.Error(ctx, "failed to load pipeline for merge", "name", name, "path", path, "error", err)
			}
			publishEvent(ctx, u.events, u.logger, ports.EventPipelineFailed, map[string]interface{}{
				"phase": "merge",
				"name":  name,
				"path":  path,
				"error": err.Error(),
			})
			return cat, nil, err
		}
		pipelines[name] = pip
	}

	merged, err := pipeline.Merge(mergedName, pipelines)
	if err != nil {
		if u.logger != nil {
			u.logger.Error(ctx, "failed to merge pipelines", "name", mergedName, "error", err)
		}
		return cat, nil, err
	}

	layers, err := u.dagBuilder.Build(ctx, merged.Nodes)
	if err != nil {
		if u.logger != nil {
			u.logger.Error(ctx, "failed to build merged DAG", "name", mergedName, "error", err)
		}
		return cat, merged, err
	}
	merged.Layers = layers
	merged.Built = true

	if u.logger != nil {
		u.logger.Info(ctx, "pipelines merged", "name", mergedName, "node_count", len(merged.Nodes), "layers", len(layers))
	}
	publishEvent(ctx, u.events, u.logger, ports.EventPipelineCompleted, map[string]interface{}{
		"phase":      "merge",
		"name":       mergedName,
		"node_count": len(merged.Nodes),
	})
	return cat, merged, nil
}
