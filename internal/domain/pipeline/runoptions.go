package pipeline

import "github.com/pipeforge/pipeforge/internal/domain/catalog"

// RunOptions controls a single RunAsync (and, transitively, a
// ValidateExternalInputsAsync) invocation. The zero value leaves
// StopOnFirstError false, which Validate rejects; DefaultRunOptions returns
// the default execution policy: stop on first error, sequential-within-layer.
type RunOptions struct {
	// DryRun, when true, builds and validates but skips node execution.
	DryRun bool

	// StopOnFirstError, when false, is a Phase 2 feature this
	// implementation does not provide (see §9's Open Question
	// resolutions); RunAsync rejects false with ErrCodeValidation rather
	// than silently behaving as if it were true.
	StopOnFirstError bool

	// EnableParallelExecution, when true, is likewise reserved; RunAsync
	// rejects it rather than ignore it.
	EnableParallelExecution bool

	// ValidationOverrides lets a caller force a specific inspection level
	// for a named external entry, taking priority over both the entry's
	// preferred level and the capability default (§4.8 priority 1).
	ValidationOverrides map[string]catalog.InspectionLevel
}

// DefaultRunOptions returns the spec's mandated default: stop on first
// error, sequential execution, no dry run.
func DefaultRunOptions() RunOptions {
	return RunOptions{StopOnFirstError: true}
}

// Validate rejects the Phase 2 flags this implementation does not provide.
func (o RunOptions) Validate() error {
	if !o.StopOnFirstError {
		return newValidationError("StopOnFirstError=false is not implemented in this phase", nil)
	}
	if o.EnableParallelExecution {
		return newValidationError("EnableParallelExecution=true is not implemented in this phase", nil)
	}
	return nil
}

// LevelFor resolves the effective inspection level for entryKey using the
// priority order in §4.8: explicit override, then the entry's preferred
// level, then the capability default.
func (o RunOptions) LevelFor(entryKey string, e catalog.Entry) catalog.InspectionLevel {
	if o.ValidationOverrides != nil {
		if level, ok := o.ValidationOverrides[entryKey]; ok {
			return level
		}
	}
	if provider, ok := e.(catalog.PreferredInspectionLevelProvider); ok {
		if level, ok := provider.PreferredInspectionLevel(); ok {
			return level
		}
	}
	if e.Capabilities().ShallowInspectable {
		return catalog.InspectionShallow
	}
	return catalog.InspectionNone
}
