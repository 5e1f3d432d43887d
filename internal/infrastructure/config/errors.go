package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sort"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

// contextCheck reports ctx's cancellation as a domain-shaped CANCELLED
// error, grounded on the teacher's loader.contextCheck helper.
func contextCheck(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return newConfigError(pipeline.ErrCodeCancelled, "operation cancelled", err, nil)
	}
	return nil
}

// convertLoadError maps a load error to the codes the CatalogLoader/
// PipelineLoader ports document: a missing file is NOT_FOUND, any other
// file-system error is INTERNAL, and a YAML decode or merge failure is
// VALIDATION.
func convertLoadError(err error, path string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return newConfigError(pipeline.ErrCodeNotFound, "configuration not found", err, map[string]interface{}{"path": path})
	}
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		return newConfigError(pipeline.ErrCodeValidation, "configuration could not be decoded", err, map[string]interface{}{"path": path})
	}
	return newConfigError(pipeline.ErrCodeInternal, "configuration load failed", err, map[string]interface{}{"path": path})
}

func newConfigError(code pipeline.ErrorCode, message string, cause error, ctx map[string]interface{}) *pipeline.DomainError {
	return &pipeline.DomainError{Code: code, Message: message, Cause: cause, Context: ctx}
}

// flattenFields turns a field map into the alternating key/value slice
// ports.Logger expects, sorted for deterministic log output — grounded on
// the teacher's loader.flattenFields.
func flattenFields(fields map[string]interface{}) []interface{} {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	args := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}
	return args
}
