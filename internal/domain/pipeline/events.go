package pipeline

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/ports"
)

// Event type aliases, re-exported for callers that only import this package.
const (
	EventPipelineStarted     = ports.EventPipelineStarted
	EventPipelineCompleted   = ports.EventPipelineCompleted
	EventPipelineFailed      = ports.EventPipelineFailed
	EventNodeStarted         = ports.EventNodeStarted
	EventNodeCompleted       = ports.EventNodeCompleted
	EventNodeFailed          = ports.EventNodeFailed
	EventValidationStarted   = ports.EventValidationStarted
	EventValidationCompleted = ports.EventValidationCompleted
	EventValidationFailed    = ports.EventValidationFailed
)

// domainEvent is the minimal ports.DomainEvent implementation this package
// emits; application-layer use cases may wrap richer payload types, but the
// domain layer itself only needs type + a map.
type domainEvent struct {
	eventType string
	payload   interface{}
}

func (e domainEvent) EventType() string   { return e.eventType }
func (e domainEvent) Payload() interface{} { return e.payload }

// publishEvent is a best-effort fire-and-log helper: a publish failure is
// logged, never returned, since losing an observability event must not fail
// a pipeline run.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger ports.Logger, eventType string, payload interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, domainEvent{eventType: eventType, payload: payload}); err != nil && logger != nil {
		logger.Warn(ctx, "event publish failed", "event_type", eventType, "error", err)
	}
}
