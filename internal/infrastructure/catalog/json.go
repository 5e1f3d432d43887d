package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
)

// JSON is a readable/writable dataset entry backed by a JSON file whose
// root must be an array (§4.1's JSON dataset note). Shallow inspection is
// syntactic only; deep inspection deserializes every element.
type JSON[T any] struct {
	key          string
	path         string
	readOnly     bool
	preferred    catalog.InspectionLevel
	hasPreferred bool
}

// NewJSON constructs a read/write JSON-array entry at path.
func NewJSON[T any](key, path string) *JSON[T] {
	return &JSON[T]{key: key, path: path}
}

// NewReadOnlyJSON constructs a JSON entry with Save disabled.
func NewReadOnlyJSON[T any](key, path string) *JSON[T] {
	return &JSON[T]{key: key, path: path, readOnly: true}
}

// WithPreferredInspectionLevel overrides the capability default.
func (j *JSON[T]) WithPreferredInspectionLevel(level catalog.InspectionLevel) *JSON[T] {
	j.preferred = level
	j.hasPreferred = true
	return j
}

func (j *JSON[T]) Key() string          { return j.key }
func (j *JSON[T]) DataTypeName() string { return fmt.Sprintf("json<%T>", *new(T)) }
func (j *JSON[T]) Capabilities() catalog.Capabilities {
	return catalog.Capabilities{
		Readable:           true,
		Writable:           !j.readOnly,
		Dataset:            true,
		ShallowInspectable: true,
		DeepInspectable:    true,
	}
}

func (j *JSON[T]) PreferredInspectionLevel() (catalog.InspectionLevel, bool) {
	return j.preferred, j.hasPreferred
}

func (j *JSON[T]) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(j.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (j *JSON[T]) Count(ctx context.Context) (int, error) {
	items, err := j.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (j *JSON[T]) Load(ctx context.Context) ([]T, error) {
	raw, err := os.ReadFile(j.path)
	if err != nil {
		return nil, err
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("json: %s: %w", j.path, err)
	}
	return items, nil
}

func (j *JSON[T]) Save(ctx context.Context, items []T) error {
	if j.readOnly {
		return fmt.Errorf("json: entry %q is read-only: save is not supported", j.key)
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(j.path, raw, 0o644)
}

func (j *JSON[T]) LoadAny(ctx context.Context) ([]any, error) {
	items, err := j.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out, nil
}

func (j *JSON[T]) SaveAny(ctx context.Context, items []any) error {
	typed := make([]T, len(items))
	for i, v := range items {
		t, ok := v.(T)
		if !ok {
			return fmt.Errorf("json: entry %q: item %d (%T) is not assignable to %T", j.key, i, v, *new(T))
		}
		typed[i] = t
	}
	return j.Save(ctx, typed)
}

// InspectShallow checks existence, that the root is a JSON array, and
// deserializes the first sampleN elements.
func (j *JSON[T]) InspectShallow(ctx context.Context, sampleN int) catalog.ValidationResult {
	var result catalog.ValidationResult

	exists, err := j.Exists(ctx)
	if err != nil {
		result.Add(catalog.NewValidationError(j.key, catalog.ValidationInspectionFailure, err.Error(), nil))
		return result
	}
	if !exists {
		result.Add(catalog.NewValidationError(j.key, catalog.ValidationNotFound, "file does not exist", map[string]interface{}{"path": j.path}))
		return result
	}

	raw, err := os.ReadFile(j.path)
	if err != nil {
		result.Add(catalog.NewValidationError(j.key, catalog.ValidationInspectionFailure, err.Error(), nil))
		return result
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(raw, &rawItems); err != nil {
		result.Add(catalog.NewValidationError(j.key, catalog.ValidationInvalidFormat, "root is not a JSON array: "+err.Error(), map[string]interface{}{"path": j.path}))
		return result
	}
	if len(rawItems) == 0 {
		result.Add(catalog.NewValidationError(j.key, catalog.ValidationEmptyDataset, "array is empty", nil))
		return result
	}

	limit := sampleN
	if limit > len(rawItems) {
		limit = len(rawItems)
	}
	for i := 0; i < limit; i++ {
		var item T
		if err := json.Unmarshal(rawItems[i], &item); err != nil {
			result.Add(catalog.NewValidationError(j.key, catalog.ValidationDeserializationError, err.Error(), map[string]interface{}{"index": i}))
			return result
		}
	}
	return result
}

// InspectDeep runs the shallow checks, then deserializes every element.
func (j *JSON[T]) InspectDeep(ctx context.Context) catalog.ValidationResult {
	shallow := j.InspectShallow(ctx, 100)
	if !shallow.IsValid() {
		return shallow
	}
	if _, err := j.Load(ctx); err != nil {
		shallow.Add(catalog.NewValidationError(j.key, catalog.ValidationDeserializationError, err.Error(), nil))
	}
	return shallow
}

var (
	_ catalog.Typed[int]                       = (*JSON[int])(nil)
	_ catalog.PreferredInspectionLevelProvider = (*JSON[int])(nil)
	_ catalog.ShallowInspector                 = (*JSON[int])(nil)
	_ catalog.DeepInspector                    = (*JSON[int])(nil)
)
