package main

import (
	"context"

	"github.com/spf13/cobra"

	applicationpipeline "github.com/pipeforge/pipeforge/internal/application/pipeline"
	"github.com/pipeforge/pipeforge/internal/ports"
)

// AppContext bundles the long-lived services main wires at startup, so
// every cobra command constructor takes one value instead of a long
// parameter list — grounded on the teacher's cmd/streamy/app_context.go.
type AppContext struct {
	Logger         ports.Logger
	Events         ports.EventPublisher
	PrepareUseCase *applicationpipeline.PrepareUseCase
	RunUseCase     *applicationpipeline.RunUseCase
	ValidateUseCase *applicationpipeline.ValidateUseCase
	MergeUseCase   *applicationpipeline.MergeUseCase
}

// CommandContext returns the command's context (falling back to
// Background) together with a component-scoped logger.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	return ctx, a.LoggerFor(component)
}

// LoggerFor derives a child logger scoped to component.
func (a *AppContext) LoggerFor(component string) ports.Logger {
	if a == nil || a.Logger == nil {
		return nil
	}
	return a.Logger.With("component", component)
}
