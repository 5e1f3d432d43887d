package pipeline

import "time"

// NodeResult captures the outcome of a single node's execution.
type NodeResult struct {
	Name        string
	Success     bool
	Elapsed     time.Duration
	InputCount  int
	OutputCount int
	Error       *DomainError
}

// PipelineResult aggregates a RunAsync (or dry-run) outcome across every
// node that ran, keyed by node name.
type PipelineResult struct {
	Success bool
	Elapsed time.Duration
	Nodes   map[string]NodeResult
	Error   *DomainError

	// DryRun-only diagnostics, populated by NewDryRunResult.
	DryRun          bool
	NodeCount       int
	LayerCount      int
	ValidatedInputs int
}

// NewDryRunResult builds the success result for a pipeline that was built
// and validated but never executed (§4.9's dry-run factory constructor).
func NewDryRunResult(elapsed time.Duration, nodeCount, layerCount, validatedInputs int) PipelineResult {
	return PipelineResult{
		Success:         true,
		Elapsed:         elapsed,
		Nodes:           map[string]NodeResult{},
		DryRun:          true,
		NodeCount:       nodeCount,
		LayerCount:      layerCount,
		ValidatedInputs: validatedInputs,
	}
}

// NewFailureResult builds a failed PipelineResult carrying err as the
// triggering failure, with whatever node results had already accumulated.
func NewFailureResult(err *DomainError, elapsed time.Duration, nodes map[string]NodeResult) PipelineResult {
	if nodes == nil {
		nodes = map[string]NodeResult{}
	}
	return PipelineResult{Success: false, Elapsed: elapsed, Nodes: nodes, Error: err}
}

// NewSuccessResult builds a successful PipelineResult from completed node
// results.
func NewSuccessResult(elapsed time.Duration, nodes map[string]NodeResult) PipelineResult {
	if nodes == nil {
		nodes = map[string]NodeResult{}
	}
	return PipelineResult{Success: true, Elapsed: elapsed, Nodes: nodes}
}
