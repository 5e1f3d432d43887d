// Package metrics provides a no-op ports.MetricsCollector, the default when
// no vendor-specific SDK (Prometheus, StatsD) is wired.
package metrics

import (
	"context"

	"github.com/pipeforge/pipeforge/internal/ports"
)

// NoOp discards every recorded signal.
type NoOp struct{}

// New returns a ports.MetricsCollector that discards everything.
func New() *NoOp { return &NoOp{} }

func (NoOp) IncCounter(context.Context, string, map[string]string)                {}
func (NoOp) SetGauge(context.Context, string, float64, map[string]string)        {}
func (NoOp) ObserveHistogram(context.Context, string, float64, map[string]string) {}

var _ ports.MetricsCollector = (*NoOp)(nil)
