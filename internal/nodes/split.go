package nodes

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/node"
	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

// Split is an identity transform over EnrichedRow: it does no reshaping of
// its own, it only exists so the loader can wire a registered node type
// named "split" whose actual partitioning happens in SplitSink.Persist. Like
// ParseRating and Join, it has no parameters.
type Split struct {
	node.Base[struct{}]
}

// NewSplit constructs a zero-value Split.
func NewSplit() *Split {
	return &Split{}
}

// Transform returns items unchanged; SplitSink divides the result between
// its two bound entries after Transform returns.
func (s *Split) Transform(ctx context.Context, items []EnrichedRow) ([]EnrichedRow, error) {
	return items, nil
}

var _ node.Node[EnrichedRow, EnrichedRow, struct{}] = (*Split)(nil)

// SplitSink partitions a node's output into disjoint train/test writes
// instead of a single SingleEntrySink target. Like JoinSource, this is a
// hand-written OutputSink rather than a CatalogMap: CatalogMap's Persist
// writes one S to its bound entries, it has no notion of dividing a slice of
// values across two entries.
//
// The split is deterministic for a given Seed: items are shuffled with a
// seeded PRNG and the first TestSize fraction (rounded) goes to Test, the
// rest to Train, so re-running the same pipeline against the same input
// reproduces the same partition.
type SplitSink struct {
	Train    catalog.Writer
	Test     catalog.Writer
	Seed     int64
	TestSize float64
}

func (s SplitSink) Entries() []catalog.Entry {
	return []catalog.Entry{s.Train, s.Test}
}

func (s SplitSink) Persist(ctx context.Context, values []any) error {
	if s.TestSize < 0 || s.TestSize > 1 {
		return fmt.Errorf("split: test_size must be in [0, 1], got %v", s.TestSize)
	}

	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	rand.New(rand.NewSource(s.Seed)).Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	testN := int(float64(len(values))*s.TestSize + 0.5)
	test := make([]any, 0, testN)
	train := make([]any, 0, len(values)-testN)
	for i, idx := range order {
		if i < testN {
			test = append(test, values[idx])
		} else {
			train = append(train, values[idx])
		}
	}

	if err := s.Train.SaveAny(ctx, train); err != nil {
		return fmt.Errorf("split: writing train partition: %w", err)
	}
	if err := s.Test.SaveAny(ctx, test); err != nil {
		return fmt.Errorf("split: writing test partition: %w", err)
	}
	return nil
}

var _ pipeline.OutputSink = SplitSink{}
