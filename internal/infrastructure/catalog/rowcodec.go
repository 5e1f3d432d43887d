package catalog

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// csvField describes one struct field bound to a CSV/Parquet column: its
// header name (from a `csv:"..."` tag, case-insensitively matched on read,
// or the field name itself) and its reflect index.
type csvField struct {
	name  string
	index int
}

// csvFields inspects T's struct tags once per call; nothing caches the
// result, and the CSV and Parquet entries call it once per Load/Save and
// reuse the slice for every row of that call.
func csvFields[T any]() ([]csvField, error) {
	var zero T
	typ := reflect.TypeOf(zero)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("catalog: CSV/Parquet item type must be a struct, got %T", zero)
	}
	fields := make([]csvField, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Tag.Get("csv")
		if name == "" || name == "-" {
			if name == "-" {
				continue
			}
			name = f.Name
		}
		fields = append(fields, csvField{name: name, index: i})
	}
	return fields, nil
}

// decodeRow populates a new T from a header-indexed row of string values.
// header maps lower-cased column name to its position in row. Column
// lookups are case-insensitive per §4.1's CSV note.
func decodeRow[T any](fields []csvField, header map[string]int, row []string) (T, error) {
	var out T
	v := reflect.ValueOf(&out).Elem()
	for _, f := range fields {
		col, ok := header[strings.ToLower(f.name)]
		if !ok {
			continue
		}
		if col >= len(row) {
			continue
		}
		if err := setFieldFromString(v.Field(f.index), row[col]); err != nil {
			return out, fmt.Errorf("column %q: %w", f.name, err)
		}
	}
	return out, nil
}

// encodeRow renders T's bound fields as strings in field-declaration order.
func encodeRow[T any](fields []csvField, item T) []string {
	v := reflect.ValueOf(item)
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = formatFieldAsString(v.Field(f.index))
	}
	return row
}

func setFieldFromString(field reflect.Value, raw string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if raw == "" {
			return nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return err
		}
		field.SetFloat(n)
	case reflect.Bool:
		if raw == "" {
			return nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}

func formatFieldAsString(field reflect.Value) string {
	switch field.Kind() {
	case reflect.String:
		return field.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(field.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(field.Float(), 'f', -1, 64)
	case reflect.Bool:
		return strconv.FormatBool(field.Bool())
	default:
		return fmt.Sprintf("%v", field.Interface())
	}
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}
