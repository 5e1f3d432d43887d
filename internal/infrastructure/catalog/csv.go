package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
)

// CSV is a readable/writable dataset entry backed by a CSV file on disk.
// Header names are taken from T's `csv` struct tags, matched
// case-insensitively on read; deserialization errors annotate the offending
// row number, per §4.1's CSV notes.
type CSV[T any] struct {
	key      string
	path     string
	readOnly bool
	preferred catalog.InspectionLevel
	hasPreferred bool
}

// NewCSV constructs a read/write CSV entry at path.
func NewCSV[T any](key, path string) *CSV[T] {
	return &CSV[T]{key: key, path: path}
}

// NewReadOnlyCSV constructs a CSV entry with Save disabled.
func NewReadOnlyCSV[T any](key, path string) *CSV[T] {
	return &CSV[T]{key: key, path: path, readOnly: true}
}

// WithPreferredInspectionLevel overrides the capability-default inspection
// level the validator would otherwise resolve (§4.8 priority 2).
func (c *CSV[T]) WithPreferredInspectionLevel(level catalog.InspectionLevel) *CSV[T] {
	c.preferred = level
	c.hasPreferred = true
	return c
}

func (c *CSV[T]) Key() string          { return c.key }
func (c *CSV[T]) DataTypeName() string { return fmt.Sprintf("csv<%T>", *new(T)) }
func (c *CSV[T]) Capabilities() catalog.Capabilities {
	return catalog.Capabilities{
		Readable:           true,
		Writable:           !c.readOnly,
		Dataset:            true,
		ShallowInspectable: true,
		DeepInspectable:    true,
	}
}

func (c *CSV[T]) PreferredInspectionLevel() (catalog.InspectionLevel, bool) {
	return c.preferred, c.hasPreferred
}

// Exists is a cheap stat probe; it must not read the file's contents.
func (c *CSV[T]) Exists(ctx context.Context) (bool, error) {
	_, err := os.Stat(c.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Count opens the file and counts data rows (excluding the header).
func (c *CSV[T]) Count(ctx context.Context) (int, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Load parses the full file into []T.
func (c *CSV[T]) Load(ctx context.Context) ([]T, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv: %s: %w", c.path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	fields, err := csvFields[T]()
	if err != nil {
		return nil, err
	}
	header := headerIndex(rows[0])

	items := make([]T, 0, len(rows)-1)
	for i, row := range rows[1:] {
		item, err := decodeRow[T](fields, header, row)
		if err != nil {
			return nil, fmt.Errorf("csv: %s: row %d: %w", c.path, i+2, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// Save total-overwrites the file with header + rows.
func (c *CSV[T]) Save(ctx context.Context, items []T) error {
	if c.readOnly {
		return fmt.Errorf("csv: entry %q is read-only: save is not supported", c.key)
	}
	f, err := os.Create(c.path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	fields, err := csvFields[T]()
	if err != nil {
		return err
	}
	header := make([]string, len(fields))
	for i, fd := range fields {
		header[i] = fd.name
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, item := range items {
		if err := w.Write(encodeRow(fields, item)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (c *CSV[T]) LoadAny(ctx context.Context) ([]any, error) {
	items, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out, nil
}

func (c *CSV[T]) SaveAny(ctx context.Context, items []any) error {
	typed := make([]T, len(items))
	for i, v := range items {
		t, ok := v.(T)
		if !ok {
			return fmt.Errorf("csv: entry %q: item %d (%T) is not assignable to %T", c.key, i, v, *new(T))
		}
		typed[i] = t
	}
	return c.Save(ctx, typed)
}

// InspectShallow verifies existence, parseability, required-column
// presence, and deserializes the first sampleN rows. An empty file when
// items were expected is reported as EmptyDataset.
func (c *CSV[T]) InspectShallow(ctx context.Context, sampleN int) catalog.ValidationResult {
	var result catalog.ValidationResult

	exists, err := c.Exists(ctx)
	if err != nil {
		result.Add(catalog.NewValidationError(c.key, catalog.ValidationInspectionFailure, err.Error(), nil))
		return result
	}
	if !exists {
		result.Add(catalog.NewValidationError(c.key, catalog.ValidationNotFound, "file does not exist", map[string]interface{}{"path": c.path}))
		return result
	}

	f, err := os.Open(c.path)
	if err != nil {
		result.Add(catalog.NewValidationError(c.key, catalog.ValidationInspectionFailure, err.Error(), nil))
		return result
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		result.Add(catalog.NewValidationError(c.key, catalog.ValidationInvalidFormat, err.Error(), map[string]interface{}{"path": c.path}))
		return result
	}

	fields, err := csvFields[T]()
	if err != nil {
		result.Add(catalog.NewValidationError(c.key, catalog.ValidationSchemaMismatch, err.Error(), nil))
		return result
	}
	idx := headerIndex(header)
	var missing []string
	for _, fd := range fields {
		if _, ok := idx[strings.ToLower(fd.name)]; !ok {
			missing = append(missing, fd.name)
		}
	}
	if len(missing) > 0 {
		result.Add(catalog.NewValidationError(c.key, catalog.ValidationSchemaMismatch, "missing required columns", map[string]interface{}{"columns": missing}))
		return result
	}

	rowNum := 1
	sampled := 0
	for sampled < sampleN {
		row, err := r.Read()
		if err != nil {
			break
		}
		rowNum++
		if _, derr := decodeRow[T](fields, idx, row); derr != nil {
			result.Add(catalog.NewValidationError(c.key, catalog.ValidationDeserializationError, derr.Error(), map[string]interface{}{"row": rowNum}))
			return result
		}
		sampled++
	}
	if sampled == 0 {
		result.Add(catalog.NewValidationError(c.key, catalog.ValidationEmptyDataset, "no data rows found", nil))
	}
	return result
}

// InspectDeep runs the shallow checks first, then deserializes every row.
func (c *CSV[T]) InspectDeep(ctx context.Context) catalog.ValidationResult {
	shallow := c.InspectShallow(ctx, 100)
	if !shallow.IsValid() {
		return shallow
	}
	if _, err := c.Load(ctx); err != nil {
		shallow.Add(catalog.NewValidationError(c.key, catalog.ValidationDeserializationError, err.Error(), nil))
	}
	return shallow
}

var (
	_ catalog.Typed[int]                           = (*CSV[int])(nil)
	_ catalog.PreferredInspectionLevelProvider = (*CSV[int])(nil)
	_ catalog.ShallowInspector                 = (*CSV[int])(nil)
	_ catalog.DeepInspector                    = (*CSV[int])(nil)
)
