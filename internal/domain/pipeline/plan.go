package pipeline

// Layer groups PipelineNodes that depend only on earlier layers. Layer 0 is
// the set of nodes whose inputs are all external to the pipeline (not
// necessarily nodes with zero inputs — a node whose sole input is external
// is still layer 0).
type Layer struct {
	Index int
	Nodes []*PipelineNode
}

// Names returns the node names in this layer, in insertion order.
func (l Layer) Names() []string {
	names := make([]string, len(l.Nodes))
	for i, n := range l.Nodes {
		names[i] = n.Name
	}
	return names
}
