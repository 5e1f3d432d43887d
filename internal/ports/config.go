package ports

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

// CatalogLoader materializes a catalog.Base from layered YAML definitions
// (base file, environment overlay, local overrides, explicit flags), merged
// with dario.cat/mergo before entries are constructed. Implementations must
// be deterministic and respect context cancellation.
//
// Error mapping expectations:
//   - io/fs.ErrNotExist → ErrCodeNotFound
//   - YAML or schema validation failures → ErrCodeValidation
//   - context cancellation/deadline → ErrCodeCancelled or ErrCodeTimeout
//   - unexpected I/O issues → ErrCodeInternal with wrapped cause
type CatalogLoader interface {
	// LoadCatalog reads basePath plus any override paths, in precedence order
	// (later paths win), and returns the resulting identity-stable catalog.
	LoadCatalog(ctx context.Context, basePath string, overridePaths ...string) (*catalog.Base, error)
}

// PipelineLoader builds named, wired pipelines from YAML pipeline
// definitions against an already-loaded catalog. PipelineLoader is consumed
// exclusively by application-layer use cases; domain packages never depend
// on concrete infrastructure concerns.
type PipelineLoader interface {
	// LoadPipeline parses path into a PipelineBuilder-assembled (but not yet
	// Built) pipeline, resolving each node's input/output entries against
	// cat.
	LoadPipeline(ctx context.Context, path string, cat *catalog.Base) (*pipeline.Pipeline, error)

	// Validate performs a lightweight syntactic/schema check without
	// instantiating a full pipeline, so the CLI can surface config errors
	// quickly (`pipeforge validate config.yaml`). Must avoid side effects and
	// only return ErrCodeValidation, ErrCodeNotFound, ErrCodeCancelled, or
	// ErrCodeTimeout, plus ErrCodeInternal for unexpected I/O failures.
	Validate(ctx context.Context, path string) error
}
