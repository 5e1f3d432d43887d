// Package pipeline holds the application-layer use cases that orchestrate
// catalog loading, pipeline loading, pre-flight validation, execution, and
// multi-pipeline merging against the ports the domain layer defines. No
// use case imports an infrastructure package directly — each takes its
// collaborators as ports.* interfaces, assembled by cmd/pipeforge's wiring.
package pipeline

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/ports"
)

type domainEvent struct {
	eventType string
	payload   interface{}
}

func (e domainEvent) EventType() string    { return e.eventType }
func (e domainEvent) Payload() interface{} { return e.payload }

// publishEvent is a best-effort fire-and-log helper: a nil publisher is a
// valid "no observability wired" configuration, and a publish failure is
// logged rather than propagated, since a failed event dispatch must never
// fail the operation it describes.
func publishEvent(ctx context.Context, publisher ports.EventPublisher, logger ports.Logger, eventType string, payload map[string]interface{}) {
	if publisher == nil {
		return
	}
	event := domainEvent{eventType: eventType, payload: payload}
	if err := publisher.Publish(ctx, event); err != nil && logger != nil {
		logger.Warn(ctx, "failed to publish domain event", "event_type", eventType, "error", err)
	}
}
