package pipeline

import (
	"context"
	"testing"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/node"
)

type memoryEntry struct {
	key   string
	items []any
}

func newMemoryEntry(key string, items ...any) *memoryEntry {
	return &memoryEntry{key: key, items: items}
}

func (m *memoryEntry) Key() string          { return m.key }
func (m *memoryEntry) DataTypeName() string { return "memory" }
func (m *memoryEntry) Capabilities() catalog.Capabilities {
	return catalog.Capabilities{Readable: true, Writable: true, Dataset: true}
}
func (m *memoryEntry) LoadAny(ctx context.Context) ([]any, error) { return m.items, nil }
func (m *memoryEntry) SaveAny(ctx context.Context, items []any) error {
	m.items = items
	return nil
}

// missingEntry simulates a layer-0 CSV entry pointing at an absent path: it
// implements ShallowInspector and fails with exactly one NotFound error,
// matching the seed "missing external input" scenario.
type missingEntry struct {
	key  string
	path string
}

func (m *missingEntry) Key() string          { return m.key }
func (m *missingEntry) DataTypeName() string { return "csv" }
func (m *missingEntry) Capabilities() catalog.Capabilities {
	return catalog.Capabilities{Readable: true, ShallowInspectable: true}
}
func (m *missingEntry) LoadAny(ctx context.Context) ([]any, error) { return nil, nil }
func (m *missingEntry) InspectShallow(ctx context.Context, sampleN int) catalog.ValidationResult {
	var r catalog.ValidationResult
	r.Add(catalog.NewValidationError(m.key, catalog.ValidationNotFound, "file does not exist", map[string]interface{}{"path": m.path}))
	return r
}

type passThroughNode struct {
	node.Base[struct{}]
	transform func(ctx context.Context, items []any) ([]any, error)
}

func (n *passThroughNode) Transform(ctx context.Context, items []any) ([]any, error) {
	return n.transform(ctx, items)
}

func eraseFn(fn func(ctx context.Context, items []any) ([]any, error)) node.Erased {
	return node.Erase[any, any, struct{}](&passThroughNode{transform: fn})
}

func identityNode() node.Erased {
	return eraseFn(func(ctx context.Context, items []any) ([]any, error) { return items, nil })
}

func TestPipeline_LinearRunsOneLayer(t *testing.T) {
	raw := newMemoryEntry("raw.csv", map[string]any{"id": "1", "rating_pct": "85%"})
	out := newMemoryEntry("out.csv")

	parseRating := eraseFn(func(ctx context.Context, items []any) ([]any, error) {
		result := make([]any, len(items))
		for i, it := range items {
			row := it.(map[string]any)
			result[i] = map[string]any{"id": row["id"], "rating": 0.85}
		}
		return result, nil
	})

	p, err := NewPipelineBuilder("linear").
		AddPassThroughNode("ParseRating", parseRating, raw, out).
		Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(p.Layers) != 1 {
		t.Fatalf("expected 1 layer, got %d", len(p.Layers))
	}

	result := p.RunAsync(context.Background(), DefaultRunOptions())
	if !result.Success {
		t.Fatalf("expected success, got %+v", result.Error)
	}
	if len(out.items) != 1 {
		t.Fatalf("expected one output row, got %d", len(out.items))
	}
	row := out.items[0].(map[string]any)
	if row["rating"] != 0.85 {
		t.Fatalf("unexpected output row: %+v", row)
	}
}

func TestPipeline_SingleWriterViolationNamesBothNodes(t *testing.T) {
	in1 := newMemoryEntry("in1")
	in2 := newMemoryEntry("in2")
	out := newMemoryEntry("out")

	p, err := NewPipelineBuilder("dup").
		AddPassThroughNode("NodeA", identityNode(), in1, out).
		AddPassThroughNode("NodeB", identityNode(), in2, out).
		Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	err = p.Build(context.Background())
	if err == nil {
		t.Fatal("expected single-writer violation")
	}
	derr, ok := err.(*DomainError)
	if !ok || derr.Code != ErrCodeSingleWriter {
		t.Fatalf("expected ErrCodeSingleWriter, got %v", err)
	}
	nodes, _ := derr.Context["nodes"].([]string)
	if len(nodes) != 2 || nodes[0] != "NodeA" || nodes[1] != "NodeB" {
		t.Fatalf("expected both node names in context, got %+v", derr.Context)
	}
}

func TestPipeline_CycleNamesBothNodes(t *testing.T) {
	x := newMemoryEntry("x")
	y := newMemoryEntry("y")

	p, err := NewPipelineBuilder("cyclic").
		AddPassThroughNode("A", identityNode(), x, y).
		AddPassThroughNode("B", identityNode(), y, x).
		Done()
	if err != nil {
		t.Fatalf("Done: %v", err)
	}
	err = p.Build(context.Background())
	if err == nil {
		t.Fatal("expected cycle error")
	}
	derr, ok := err.(*DomainError)
	if !ok || derr.Code != ErrCodeCycle {
		t.Fatalf("expected ErrCodeCycle, got %v", err)
	}
	names, _ := derr.Context["nodes"].([]string)
	if len(names) != 2 {
		t.Fatalf("expected both cycle members named, got %+v", names)
	}
}

func TestPipeline_BuildIsIdempotent(t *testing.T) {
	in := newMemoryEntry("in")
	out := newMemoryEntry("out")
	p, _ := NewPipelineBuilder("idempotent").
		AddPassThroughNode("A", identityNode(), in, out).
		Done()

	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("first Build: %v", err)
	}
	first := p.Layers
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if len(p.Layers) != len(first) || p.Layers[0].Names()[0] != first[0].Names()[0] {
		t.Fatalf("expected identical layer assignment across rebuilds")
	}
}

func TestPipeline_MissingExternalInputProducesOneNotFoundError(t *testing.T) {
	missing := &missingEntry{key: "raw.csv", path: "/data/raw.csv"}
	out := newMemoryEntry("out")

	p, _ := NewPipelineBuilder("missing").
		AddNode("Parse", identityNode(), pipelineSource(missing), SingleEntrySink{Entry: out}).
		Done()
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	result, err := p.ValidateExternalInputsAsync(context.Background(), DefaultRunOptions())
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if len(result.Errors) != 1 || result.Errors[0].Kind != catalog.ValidationNotFound {
		t.Fatalf("expected exactly one NotFound error, got %+v", result.Errors)
	}
}

// readOnlySource adapts a Reader that is only a Reader (not also a Writer)
// into an InputSource for tests.
type readOnlySource struct{ entry catalog.Reader }

func (s readOnlySource) Entries() []catalog.Entry { return []catalog.Entry{s.entry} }
func (s readOnlySource) Materialize(ctx context.Context) ([]any, error) {
	return s.entry.LoadAny(ctx)
}

func pipelineSource(e catalog.Reader) InputSource { return readOnlySource{entry: e} }

func TestPipeline_DryRunSkipsExecution(t *testing.T) {
	in := newMemoryEntry("in")
	out := newMemoryEntry("out")
	transformCalled := false

	p, _ := NewPipelineBuilder("dry").
		AddPassThroughNode("A", eraseFn(func(ctx context.Context, items []any) ([]any, error) {
			transformCalled = true
			return items, nil
		}), in, out).
		Done()
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	opts := DefaultRunOptions()
	opts.DryRun = true
	result := p.RunAsync(context.Background(), opts)
	if !result.Success || !result.DryRun {
		t.Fatalf("expected dry-run success, got %+v", result)
	}
	if transformCalled {
		t.Fatal("dry run must not invoke any node's transform")
	}
	if result.NodeCount != 1 || result.LayerCount != 1 {
		t.Fatalf("unexpected dry-run diagnostics: %+v", result)
	}
}

func TestPipeline_RunAsyncFailsPreFlightBeforeExecuting(t *testing.T) {
	missing := &missingEntry{key: "raw.csv", path: "/data/raw.csv"}
	out := newMemoryEntry("out")
	transformCalled := false

	p, _ := NewPipelineBuilder("missing-run").
		AddNode("Parse", eraseFn(func(ctx context.Context, items []any) ([]any, error) {
			transformCalled = true
			return items, nil
		}), pipelineSource(missing), SingleEntrySink{Entry: out}).
		Done()
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	result := p.RunAsync(context.Background(), DefaultRunOptions())
	if result.Success {
		t.Fatal("expected pre-flight failure to stop the run")
	}
	if transformCalled {
		t.Fatal("node transform must not run when pre-flight validation fails")
	}
}

func TestPipeline_DryRunStillFailsOnInvalidExternalInput(t *testing.T) {
	missing := &missingEntry{key: "raw.csv", path: "/data/raw.csv"}
	out := newMemoryEntry("out")

	p, _ := NewPipelineBuilder("missing-dry").
		AddNode("Parse", identityNode(), pipelineSource(missing), SingleEntrySink{Entry: out}).
		Done()
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	opts := DefaultRunOptions()
	opts.DryRun = true
	result := p.RunAsync(context.Background(), opts)
	if result.Success {
		t.Fatal("expected dry-run to surface pre-flight validation failure")
	}
}

func TestPipeline_RejectsUnimplementedRunOptions(t *testing.T) {
	in := newMemoryEntry("in")
	out := newMemoryEntry("out")
	p, _ := NewPipelineBuilder("rejects").
		AddPassThroughNode("A", identityNode(), in, out).
		Done()
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	opts := RunOptions{StopOnFirstError: false}
	result := p.RunAsync(context.Background(), opts)
	if result.Success {
		t.Fatal("expected rejection of StopOnFirstError=false")
	}
}

func TestPipeline_ExportDagDescribesNodesAndEntries(t *testing.T) {
	in := newMemoryEntry("in")
	out := newMemoryEntry("out")
	p, _ := NewPipelineBuilder("export").
		AddPassThroughNode("A", identityNode(), in, out).
		Done()
	if err := p.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	export := p.ExportDag()
	if len(export.Nodes) != 1 || export.Nodes[0].Name != "A" || export.Nodes[0].Layer != 0 {
		t.Fatalf("unexpected node export: %+v", export.Nodes)
	}
	if len(export.Entries) != 2 {
		t.Fatalf("expected 2 distinct entries, got %+v", export.Entries)
	}
}

func TestMerge_ConcatenatesNodesAcrossPipelines(t *testing.T) {
	a := newMemoryEntry("a.in")
	aOut := newMemoryEntry("a.out")
	pa, _ := NewPipelineBuilder("a").AddPassThroughNode("A", identityNode(), a, aOut).Done()

	b := newMemoryEntry("b.in")
	bOut := newMemoryEntry("b.out")
	pb, _ := NewPipelineBuilder("b").AddPassThroughNode("B", identityNode(), b, bOut).Done()

	merged, err := Merge("all", map[string]*Pipeline{"a": pa, "b": pb})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged.Nodes) != 2 {
		t.Fatalf("expected 2 merged nodes, got %d", len(merged.Nodes))
	}
	if err := merged.Build(context.Background()); err != nil {
		t.Fatalf("Build merged: %v", err)
	}
}
