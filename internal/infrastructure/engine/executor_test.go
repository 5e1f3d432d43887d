package engine

import (
	"context"
	"testing"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

type recordingMetrics struct {
	counters   []string
	histograms []string
}

func (m *recordingMetrics) IncCounter(ctx context.Context, name string, labels map[string]string) {
	m.counters = append(m.counters, name)
}
func (m *recordingMetrics) SetGauge(ctx context.Context, name string, value float64, labels map[string]string) {
}
func (m *recordingMetrics) ObserveHistogram(ctx context.Context, name string, value float64, labels map[string]string) {
	m.histograms = append(m.histograms, name)
}

func TestExecutor_RunRecordsMetrics(t *testing.T) {
	in := &stubEntry{key: "in", items: []any{1, 2}}
	out := &stubEntry{key: "out"}
	n := &pipeline.PipelineNode{
		Name:   "A",
		Node:   identity(),
		Input:  pipeline.SingleEntrySource{Entry: in},
		Output: pipeline.SingleEntrySink{Entry: out},
	}
	p, err := pipeline.NewPipelineBuilder("run").
		AddNode("A", n.Node, n.Input, n.Output).
		Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	metrics := &recordingMetrics{}
	exec := NewExecutor(WithExecutorMetrics(metrics))

	result := exec.Run(context.Background(), p, pipeline.DefaultRunOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Error)
	}
	if len(out.items) != 2 {
		t.Fatalf("expected node to run and persist output, got %v", out.items)
	}
	if len(metrics.counters) == 0 || len(metrics.histograms) == 0 {
		t.Fatal("expected metrics to be recorded")
	}
}
