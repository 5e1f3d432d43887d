package engine

import (
	"context"
	"testing"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/node"
	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

type stubEntry struct {
	key   string
	items []any
}

func (s *stubEntry) Key() string          { return s.key }
func (s *stubEntry) DataTypeName() string { return "memory" }
func (s *stubEntry) Capabilities() catalog.Capabilities {
	return catalog.Capabilities{Readable: true, Writable: true, Dataset: true}
}
func (s *stubEntry) LoadAny(ctx context.Context) ([]any, error) { return s.items, nil }
func (s *stubEntry) SaveAny(ctx context.Context, items []any) error {
	s.items = items
	return nil
}

type identityNode struct{ node.Base[struct{}] }

func (identityNode) Transform(ctx context.Context, items []any) ([]any, error) { return items, nil }

func identity() node.Erased {
	return node.Erase[any, any, struct{}](identityNode{})
}

func TestDAGBuilder_AssignsLayers(t *testing.T) {
	in := &stubEntry{key: "in"}
	out := &stubEntry{key: "out"}
	n := &pipeline.PipelineNode{
		Name:   "A",
		Node:   identity(),
		Input:  pipeline.SingleEntrySource{Entry: in},
		Output: pipeline.SingleEntrySink{Entry: out},
	}

	layers, err := NewDAGBuilder().Build(context.Background(), []*pipeline.PipelineNode{n})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(layers) != 1 || layers[0].Names()[0] != "A" {
		t.Fatalf("unexpected layers: %+v", layers)
	}
}

func TestDAGBuilder_PropagatesSingleWriterViolation(t *testing.T) {
	out := &stubEntry{key: "out"}
	a := &pipeline.PipelineNode{Name: "A", Node: identity(), Input: pipeline.SingleEntrySource{Entry: &stubEntry{key: "in1"}}, Output: pipeline.SingleEntrySink{Entry: out}}
	b := &pipeline.PipelineNode{Name: "B", Node: identity(), Input: pipeline.SingleEntrySource{Entry: &stubEntry{key: "in2"}}, Output: pipeline.SingleEntrySink{Entry: out}}

	_, err := NewDAGBuilder().Build(context.Background(), []*pipeline.PipelineNode{a, b})
	if err == nil {
		t.Fatal("expected single-writer violation")
	}
}

func TestDAGBuilder_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDAGBuilder().Build(ctx, nil)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
