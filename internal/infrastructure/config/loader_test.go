package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domaincatalog "github.com/pipeforge/pipeforge/internal/domain/catalog"
	domainnode "github.com/pipeforge/pipeforge/internal/domain/node"
	infracatalog "github.com/pipeforge/pipeforge/internal/infrastructure/catalog"
	"github.com/pipeforge/pipeforge/internal/nodes"
)

const baseYAML = `
version: 1.0.0
catalog:
  entries:
    - name: raw_reviews
      type: memory.review
      key: raw_reviews
    - name: ratings
      type: memory.rating
      key: ratings
`

const pipelineYAML = `
version: 1.0.0
pipelines:
  - name: ratings-pipeline
    nodes:
      - name: parse
        type: parse_rating
        input: raw_reviews
        output: ratings
`

func newEntryRegistry(t *testing.T) *infracatalog.Registry {
	t.Helper()
	r := infracatalog.NewRegistry()
	require.NoError(t, r.Register("memory.review", func(key string, _ map[string]interface{}) (domaincatalog.Entry, error) {
		return infracatalog.NewMemory[nodes.RawReviewRow](key), nil
	}))
	require.NoError(t, r.Register("memory.rating", func(key string, _ map[string]interface{}) (domaincatalog.Entry, error) {
		return infracatalog.NewMemory[nodes.RatingRow](key), nil
	}))
	return r
}

func TestYAMLCatalogLoader_LoadCatalog(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	basePath := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(basePath, []byte(baseYAML), 0o644))

	loader := NewYAMLCatalogLoader(nil, newEntryRegistry(t))
	cat, err := loader.LoadCatalog(context.Background(), basePath)
	require.NoError(t, err)

	_, ok := cat.Lookup("raw_reviews")
	require.True(t, ok)
	_, ok = cat.Lookup("ratings")
	require.True(t, ok)
	_, ok = cat.Lookup("missing")
	require.False(t, ok)
}

func TestYAMLCatalogLoader_LayersOverridesInPrecedenceOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.yaml")
	overridePath := filepath.Join(dir, "override.yaml")
	require.NoError(t, os.WriteFile(basePath, []byte(baseYAML), 0o644))
	require.NoError(t, os.WriteFile(overridePath, []byte(`
version: 1.0.0
catalog:
  entries:
    - name: raw_reviews
      type: memory.review
      key: raw_reviews_override
`), 0o644))

	loader := NewYAMLCatalogLoader(nil, newEntryRegistry(t))
	cat, err := loader.LoadCatalog(context.Background(), basePath, overridePath)
	require.NoError(t, err)

	entry, ok := cat.Lookup("raw_reviews")
	require.True(t, ok)
	require.Equal(t, "raw_reviews_override", entry.Key())

	_, ok = cat.Lookup("ratings")
	require.True(t, ok, "entries only present in the base layer survive a merge")
}

func TestYAMLPipelineLoader_RejectsMultiplePipelinesPerFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
version: 1.0.0
pipelines:
  - name: a
    nodes:
      - {name: n1, type: parse_rating, input: x, output: y}
  - name: b
    nodes:
      - {name: n2, type: parse_rating, input: x, output: y}
`), 0o644))

	nodeRegistry := domainnode.NewRegistry()
	require.NoError(t, nodes.Register(nodeRegistry))

	loader := NewYAMLPipelineLoader(nil, nodeRegistry)
	err := loader.Validate(context.Background(), path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "exactly one pipeline")
}

func TestYAMLPipelineLoader_ValidateAcceptsWellFormedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(pipelineYAML), 0o644))

	nodeRegistry := domainnode.NewRegistry()
	require.NoError(t, nodes.Register(nodeRegistry))

	loader := NewYAMLPipelineLoader(nil, nodeRegistry)
	require.NoError(t, loader.Validate(context.Background(), path))
}

func TestYAMLPipelineLoader_LoadPipelineWiresSingleEntryNode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	pipelinePath := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(catalogPath, []byte(baseYAML), 0o644))
	require.NoError(t, os.WriteFile(pipelinePath, []byte(pipelineYAML), 0o644))

	catalogLoader := NewYAMLCatalogLoader(nil, newEntryRegistry(t))
	cat, err := catalogLoader.LoadCatalog(context.Background(), catalogPath)
	require.NoError(t, err)

	nodeRegistry := domainnode.NewRegistry()
	require.NoError(t, nodes.Register(nodeRegistry))

	loader := NewYAMLPipelineLoader(nil, nodeRegistry)
	built, err := loader.LoadPipeline(context.Background(), pipelinePath, cat)
	require.NoError(t, err)
	require.NotNil(t, built)
	require.Len(t, built.Nodes, 1)

	require.NoError(t, built.Build(context.Background()))
}

func TestYAMLPipelineLoader_UnknownEntryNameFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pipelinePath := filepath.Join(dir, "pipeline.yaml")
	require.NoError(t, os.WriteFile(pipelinePath, []byte(pipelineYAML), 0o644))

	nodeRegistry := domainnode.NewRegistry()
	require.NoError(t, nodes.Register(nodeRegistry))

	loader := NewYAMLPipelineLoader(nil, nodeRegistry)
	_, err := loader.LoadPipeline(context.Background(), pipelinePath, &domaincatalog.Base{})
	require.Error(t, err)
}
