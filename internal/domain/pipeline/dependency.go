package pipeline

// DependencyAnalyzer resolves producer/consumer relationships across a set
// of PipelineNodes, enforces the single-writer rule, detects cycles, and
// assigns layers via Kahn-style topological sort (§4.6). Tie-breaks are
// deterministic: nodes and their inputs are iterated in insertion order.
type DependencyAnalyzer struct{}

// NewDependencyAnalyzer constructs a DependencyAnalyzer. It carries no state
// — Analyze is a pure function of its argument.
func NewDependencyAnalyzer() *DependencyAnalyzer { return &DependencyAnalyzer{} }

// Analyze wires deps/layer on each node in place and returns the layered
// partition. nodes is consumed in insertion order throughout, so a frozen
// node set produces the same layer assignment on every call (Build is
// idempotent, §8).
func (a *DependencyAnalyzer) Analyze(nodes []*PipelineNode) ([]Layer, error) {
	producer := make(map[string]*PipelineNode, len(nodes))

	// Step 1: producer index + single-writer check.
	for _, n := range nodes {
		for _, key := range n.OutputKeys() {
			if existing, ok := producer[key]; ok {
				return nil, newSingleWriterError(key, existing.Name, n.Name)
			}
			producer[key] = n
		}
	}

	// Step 2: dependency edges. An input whose producer is absent is an
	// external (layer-0) input.
	for _, n := range nodes {
		seen := make(map[*PipelineNode]bool)
		for _, key := range n.InputKeys() {
			dep, ok := producer[key]
			if !ok || dep == n {
				continue
			}
			if !seen[dep] {
				seen[dep] = true
				n.deps = append(n.deps, dep)
			}
		}
	}

	// Step 3: Kahn-style layering.
	layerOf := make(map[*PipelineNode]int, len(nodes))
	remaining := make(map[*PipelineNode]bool, len(nodes))
	for _, n := range nodes {
		remaining[n] = true
	}

	assigned := 0
	for assigned < len(nodes) {
		progressed := false
		for _, n := range nodes {
			if !remaining[n] {
				continue
			}
			ready := true
			maxDepLayer := -1
			for _, dep := range n.deps {
				depLayer, ok := layerOf[dep]
				if !ok {
					ready = false
					break
				}
				if depLayer > maxDepLayer {
					maxDepLayer = depLayer
				}
			}
			if !ready {
				continue
			}
			layer := 0
			if maxDepLayer >= 0 {
				layer = maxDepLayer + 1
			}
			layerOf[n] = layer
			n.layer = layer
			delete(remaining, n)
			assigned++
			progressed = true
		}
		if !progressed {
			cycle := make([]string, 0, len(remaining))
			for _, n := range nodes {
				if remaining[n] {
					cycle = append(cycle, n.Name)
				}
			}
			return nil, newCycleError(cycle)
		}
	}

	// Step 4: layer grouping, preserving insertion order within a layer.
	maxLayer := -1
	for _, n := range nodes {
		if n.layer > maxLayer {
			maxLayer = n.layer
		}
	}
	layers := make([]Layer, maxLayer+1)
	for i := range layers {
		layers[i] = Layer{Index: i}
	}
	for _, n := range nodes {
		layers[n.layer].Nodes = append(layers[n.layer].Nodes, n)
	}

	return layers, nil
}
