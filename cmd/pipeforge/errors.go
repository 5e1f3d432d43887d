package main

import (
	"fmt"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

// commandError renders a structured, user-visible failure: the command that
// failed (callers pass "run", "validate" or "dag" as the phase), the pipeline
// name when known, the node name when one is attached with withNode (no
// command in this package attaches one), the DomainError code when the cause
// is itself a *pipeline.DomainError (a wrapped one is not unwrapped), and the
// underlying error. It does not distinguish pre-flight from execution
// failures. Grounded on the teacher's cmd/streamy commandError (same
// operation/context/cause shape), extended with pipeline/node fields.
type commandError struct {
	phase    string
	pipeline string
	node     string
	cause    error
}

func newCommandError(phase, pipelineName string, cause error) *commandError {
	return &commandError{phase: phase, pipeline: pipelineName, cause: cause}
}

func (e *commandError) Error() string {
	msg := fmt.Sprintf("pipeforge: %s failed", e.phase)
	if e.pipeline != "" {
		msg += fmt.Sprintf(" for pipeline %q", e.pipeline)
	}
	if e.node != "" {
		msg += fmt.Sprintf(" at node %q", e.node)
	}
	if code, ok := errorCode(e.cause); ok {
		msg += fmt.Sprintf(" [%s]", code)
	}
	return fmt.Sprintf("%s: %v", msg, e.cause)
}

func (e *commandError) Unwrap() error { return e.cause }

// withNode attaches the offending node name, when the caller knows it
// (e.g. from a failed PipelineResult).
func (e *commandError) withNode(name string) *commandError {
	e.node = name
	return e
}

func errorCode(err error) (pipeline.ErrorCode, bool) {
	var derr *pipeline.DomainError
	if d, ok := err.(*pipeline.DomainError); ok {
		derr = d
	} else {
		return "", false
	}
	return derr.Code, true
}
