package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/ports"
)

// Pipeline holds a built, analyzed, executable set of nodes. Build assigns
// layers; ValidateExternalInputsAsync inspects external entries;
// ExportDag describes the graph; RunAsync executes it.
type Pipeline struct {
	Name   string
	Nodes  []*PipelineNode
	Built  bool
	Layers []Layer

	logger ports.Logger
	events ports.EventPublisher
}

// New constructs an empty, unbuilt pipeline.
func New(name string) *Pipeline {
	return &Pipeline{Name: name}
}

// WithLogger attaches a logger used during Build/Validate/Run. Returns the
// pipeline for chaining.
func (p *Pipeline) WithLogger(l ports.Logger) *Pipeline {
	p.logger = l
	return p
}

// WithEvents attaches an event publisher.
func (p *Pipeline) WithEvents(e ports.EventPublisher) *Pipeline {
	p.events = e
	return p
}

// AddNode appends a wired PipelineNode, invalidating any prior Build.
func (p *Pipeline) AddNode(n *PipelineNode) *Pipeline {
	p.Nodes = append(p.Nodes, n)
	p.Built = false
	return p
}

// Build runs the DependencyAnalyzer: producer indexing, single-writer
// enforcement, cycle detection, and layering. It is idempotent — calling it
// again on a frozen node set reproduces the same layer assignment — but logs
// a warning on re-build, since re-building after AddNode calls is the normal
// case while re-building an unchanged pipeline usually indicates a caller
// bug.
func (p *Pipeline) Build(ctx context.Context) error {
	if p.Built && p.logger != nil {
		p.logger.Warn(ctx, "pipeline rebuilt", "pipeline", p.Name)
	}
	layers, err := NewDependencyAnalyzer().Analyze(p.Nodes)
	if err != nil {
		if p.logger != nil {
			p.logger.Error(ctx, "pipeline build failed", "pipeline", p.Name, "error", err)
		}
		return err
	}
	p.Layers = layers
	p.Built = true
	return nil
}

// externalEntries returns every entry consumed as input by some node but
// produced by none, deduplicated by key, in node/input insertion order. This
// is the set ValidateExternalInputsAsync inspects — the invariant that no
// entry produced by a node in the pipeline is ever inspected holds by
// construction, since producer[key] being set is exactly how an entry is
// excluded here.
func (p *Pipeline) externalEntries() []catalog.Entry {
	produced := make(map[string]bool, len(p.Nodes))
	for _, n := range p.Nodes {
		for _, key := range n.OutputKeys() {
			produced[key] = true
		}
	}

	seen := make(map[string]bool)
	var out []catalog.Entry
	for _, n := range p.Nodes {
		for _, e := range n.Input.Entries() {
			if produced[e.Key()] || seen[e.Key()] {
				continue
			}
			seen[e.Key()] = true
			out = append(out, e)
		}
	}
	return out
}

// ValidateExternalInputsAsync inspects every external entry concurrently at
// its effective level (§4.8) and aggregates a single ValidationResult. Order
// of errors in the result follows entry iteration order, not completion
// order (§5). Never mutates entries.
func (p *Pipeline) ValidateExternalInputsAsync(ctx context.Context, opts RunOptions) (catalog.ValidationResult, error) {
	entries := p.externalEntries()
	results := make([]catalog.ValidationResult, len(entries))

	var wg sync.WaitGroup
	for i, e := range entries {
		level := opts.LevelFor(e.Key(), e)
		if level == catalog.InspectionNone {
			continue
		}
		wg.Add(1)
		go func(idx int, entry catalog.Entry, lvl catalog.InspectionLevel) {
			defer wg.Done()
			results[idx] = inspectAt(ctx, entry, lvl)
		}(i, e, level)
	}
	wg.Wait()

	var aggregate catalog.ValidationResult
	for _, r := range results {
		aggregate.Merge(r)
	}

	if p.events != nil {
		eventType := EventValidationCompleted
		if !aggregate.IsValid() {
			eventType = EventValidationFailed
		}
		publishEvent(ctx, p.events, p.logger, eventType, map[string]interface{}{
			"pipeline":   p.Name,
			"entries":    len(entries),
			"error_count": len(aggregate.Errors),
		})
	}

	if !aggregate.IsValid() {
		return aggregate, newValidationError("pre-flight validation failed", map[string]interface{}{"errors": len(aggregate.Errors)})
	}
	return aggregate, nil
}

func inspectAt(ctx context.Context, e catalog.Entry, level catalog.InspectionLevel) catalog.ValidationResult {
	switch level {
	case catalog.InspectionDeep:
		if inspector, ok := e.(catalog.DeepInspector); ok {
			return inspector.InspectDeep(ctx)
		}
	case catalog.InspectionShallow:
		if inspector, ok := e.(catalog.ShallowInspector); ok {
			return inspector.InspectShallow(ctx, 100)
		}
	}
	return catalog.ValidationResult{}
}

// DagNode is one entry in ExportDag's node collection.
type DagNode struct {
	Name    string
	Inputs  []string
	Outputs []string
	Layer   int
}

// DagEntry is one entry in ExportDag's entry collection.
type DagEntry struct {
	Key          string
	DataTypeName string
	Capabilities []string
}

// DagExport is the structural, side-effect-free description of a built
// pipeline: nodes (name, input/output keys, layer) and the entries they
// touch (key, declared type, capability tags). Providers (JSON, Mermaid)
// serialize this; the core only produces it.
type DagExport struct {
	Nodes   []DagNode
	Entries []DagEntry
}

// ExportDag describes the built graph. Side-effect-free.
func (p *Pipeline) ExportDag() DagExport {
	export := DagExport{Nodes: make([]DagNode, 0, len(p.Nodes))}
	seenEntries := make(map[string]bool)

	addEntry := func(e catalog.Entry) {
		if seenEntries[e.Key()] {
			return
		}
		seenEntries[e.Key()] = true
		export.Entries = append(export.Entries, DagEntry{
			Key:          e.Key(),
			DataTypeName: e.DataTypeName(),
			Capabilities: capabilityTags(e.Capabilities()),
		})
	}

	for _, n := range p.Nodes {
		export.Nodes = append(export.Nodes, DagNode{
			Name:    n.Name,
			Inputs:  n.InputKeys(),
			Outputs: n.OutputKeys(),
			Layer:   n.Layer(),
		})
		for _, e := range n.Input.Entries() {
			addEntry(e)
		}
		for _, e := range n.Output.Entries() {
			addEntry(e)
		}
	}
	return export
}

func capabilityTags(c catalog.Capabilities) []string {
	var tags []string
	if c.Readable {
		tags = append(tags, "readable")
	}
	if c.Writable {
		tags = append(tags, "writable")
	}
	if c.Dataset {
		tags = append(tags, "dataset")
	}
	if c.Singleton {
		tags = append(tags, "singleton")
	}
	if c.ShallowInspectable {
		tags = append(tags, "shallow-inspectable")
	}
	if c.DeepInspectable {
		tags = append(tags, "deep-inspectable")
	}
	return tags
}

// RunAsync executes the built pipeline layer-by-layer. Within a layer, nodes
// run in insertion order, sequentially (§4.7, §5) — parallel-within-layer is
// rejected by opts.Validate rather than silently ignored. Cancellation is
// checked between nodes. Per §2's control flow, pre-flight validation of
// layer-0 external inputs always runs before execution, whether or not
// DryRun is set — DryRun only decides whether node transforms run once
// validation passes.
func (p *Pipeline) RunAsync(ctx context.Context, opts RunOptions) PipelineResult {
	start := time.Now()

	if err := opts.Validate(); err != nil {
		return NewFailureResult(err.(*DomainError), time.Since(start), nil)
	}
	if !p.Built {
		return NewFailureResult(&DomainError{Code: ErrCodeState, Message: "pipeline must be built before RunAsync"}, time.Since(start), nil)
	}

	validatedInputs := len(p.externalEntries())
	if _, err := p.ValidateExternalInputsAsync(ctx, opts); err != nil {
		return NewFailureResult(err.(*DomainError), time.Since(start), nil)
	}

	if opts.DryRun {
		publishEvent(ctx, p.events, p.logger, EventPipelineCompleted, map[string]interface{}{
			"pipeline": p.Name,
			"dry_run":  true,
		})
		return NewDryRunResult(time.Since(start), len(p.Nodes), len(p.Layers), validatedInputs)
	}

	publishEvent(ctx, p.events, p.logger, EventPipelineStarted, map[string]interface{}{
		"pipeline": p.Name,
		"nodes":    len(p.Nodes),
		"layers":   len(p.Layers),
	})

	results := make(map[string]NodeResult, len(p.Nodes))

	for _, layer := range p.Layers {
		for _, n := range layer.Nodes {
			if err := ctx.Err(); err != nil {
				derr := newCancelledError(err)
				publishEvent(ctx, p.events, p.logger, EventPipelineFailed, map[string]interface{}{
					"pipeline": p.Name,
					"error":    derr.Error(),
				})
				return NewFailureResult(derr, time.Since(start), results)
			}

			result := p.runNode(ctx, n)
			results[n.Name] = result

			if !result.Success {
				publishEvent(ctx, p.events, p.logger, EventPipelineFailed, map[string]interface{}{
					"pipeline": p.Name,
					"node":     n.Name,
					"error":    result.Error.Error(),
				})
				return NewFailureResult(result.Error, time.Since(start), results)
			}
		}
	}

	publishEvent(ctx, p.events, p.logger, EventPipelineCompleted, map[string]interface{}{
		"pipeline": p.Name,
		"nodes":    len(results),
	})
	return NewSuccessResult(time.Since(start), results)
}

func (p *Pipeline) runNode(ctx context.Context, n *PipelineNode) NodeResult {
	start := time.Now()
	publishEvent(ctx, p.events, p.logger, EventNodeStarted, map[string]interface{}{"pipeline": p.Name, "node": n.Name})

	input, err := n.Input.Materialize(ctx)
	if err != nil {
		return failedNodeResult(n.Name, start, toNodeError(err))
	}

	output, err := n.Node.TransformAny(ctx, input)
	if err != nil {
		p.publishNodeFailed(ctx, n.Name, err)
		return failedNodeResult(n.Name, start, toNodeError(err))
	}

	if err := n.Output.Persist(ctx, output); err != nil {
		p.publishNodeFailed(ctx, n.Name, err)
		return failedNodeResult(n.Name, start, toNodeError(err))
	}

	if p.logger != nil {
		p.logger.Info(ctx, "node executed", "pipeline", p.Name, "node", n.Name, "input_count", len(input), "output_count", len(output))
	}
	publishEvent(ctx, p.events, p.logger, EventNodeCompleted, map[string]interface{}{
		"pipeline":     p.Name,
		"node":         n.Name,
		"input_count":  len(input),
		"output_count": len(output),
	})

	return NodeResult{
		Name:        n.Name,
		Success:     true,
		Elapsed:     time.Since(start),
		InputCount:  len(input),
		OutputCount: len(output),
	}
}

func (p *Pipeline) publishNodeFailed(ctx context.Context, name string, err error) {
	if p.logger != nil {
		p.logger.Error(ctx, "node execution failed", "pipeline", p.Name, "node", name, "error", err)
	}
	publishEvent(ctx, p.events, p.logger, EventNodeFailed, map[string]interface{}{
		"pipeline": p.Name,
		"node":     name,
		"error":    err.Error(),
	})
}

func failedNodeResult(name string, start time.Time, err *DomainError) NodeResult {
	return NodeResult{Name: name, Success: false, Elapsed: time.Since(start), Error: err}
}

func toNodeError(err error) *DomainError {
	if derr, ok := err.(*DomainError); ok {
		return derr
	}
	return &DomainError{Code: ErrCodeExecution, Message: err.Error(), Cause: err}
}

// Merge produces a new pipeline whose node list is the flat concatenation of
// every named pipeline's nodes. The single-writer rule still holds across
// the union — two pipelines producing the same entry is a fatal
// configuration bug, not something Merge resolves (§9).
func Merge(name string, pipelines map[string]*Pipeline) (*Pipeline, error) {
	merged := New(name)
	// Deterministic order: sort pipeline names so merge output (and any
	// single-writer error naming nodes) is reproducible across runs.
	names := make([]string, 0, len(pipelines))
	for n := range pipelines {
		names = append(names, n)
	}
	sort.Strings(names)

	for _, n := range names {
		merged.Nodes = append(merged.Nodes, pipelines[n].Nodes...)
	}
	return merged, nil
}
