package catalog

import "fmt"

// ValidationErrorKind enumerates the reasons inspection can flag an entry.
type ValidationErrorKind string

const (
	ValidationNotFound             ValidationErrorKind = "NotFound"
	ValidationInvalidFormat        ValidationErrorKind = "InvalidFormat"
	ValidationSchemaMismatch       ValidationErrorKind = "SchemaMismatch"
	ValidationTypeMismatch         ValidationErrorKind = "TypeMismatch"
	ValidationDeserializationError ValidationErrorKind = "DeserializationError"
	ValidationEmptyDataset         ValidationErrorKind = "EmptyDataset"
	ValidationInspectionFailure    ValidationErrorKind = "InspectionFailure"
)

// ValidationError names the entry and the kind of inspection failure found.
// Details carries kind-specific context (row number, expected/actual schema).
type ValidationError struct {
	EntryKey string
	Kind     ValidationErrorKind
	Message  string
	Details  map[string]interface{}
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.EntryKey, e.Kind, e.Message)
}

// NewValidationError constructs a ValidationError, used by inspection
// implementations in internal/infrastructure/catalog.
func NewValidationError(entryKey string, kind ValidationErrorKind, message string, details map[string]interface{}) ValidationError {
	return ValidationError{EntryKey: entryKey, Kind: kind, Message: message, Details: details}
}

// ValidationResult is the ordered aggregation of ValidationErrors a single
// inspection call (or a validator run across many entries) produced.
// IsValid reports whether the result is empty.
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid reports true when no inspection error was recorded.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Add appends an error to the result.
func (r *ValidationResult) Add(err ValidationError) {
	r.Errors = append(r.Errors, err)
}

// Merge appends another result's errors, preserving entry iteration order
// (callers are expected to merge results in the order entries were visited,
// not the order inspections completed — see
// pipeline.Pipeline.ValidateExternalInputsAsync).
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
}
