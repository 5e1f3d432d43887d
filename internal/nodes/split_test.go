package nodes

import (
	"context"
	"testing"

	infracatalog "github.com/pipeforge/pipeforge/internal/infrastructure/catalog"
)

func TestSplitSink_DeterministicForSameSeed(t *testing.T) {
	values := make([]any, 10)
	for i := range values {
		values[i] = EnrichedRow{CompanyID: string(rune('a' + i))}
	}

	run := func() ([]EnrichedRow, []EnrichedRow) {
		train := infracatalog.NewMemory[EnrichedRow]("train")
		test := infracatalog.NewMemory[EnrichedRow]("test")
		sink := SplitSink{Train: train, Test: test, Seed: 42, TestSize: 0.4}
		if err := sink.Persist(context.Background(), values); err != nil {
			t.Fatalf("Persist: %v", err)
		}
		trainRows, err := train.Load(context.Background())
		if err != nil {
			t.Fatalf("load train: %v", err)
		}
		testRows, err := test.Load(context.Background())
		if err != nil {
			t.Fatalf("load test: %v", err)
		}
		return trainRows, testRows
	}

	train1, test1 := run()
	train2, test2 := run()

	if len(test1) != 4 || len(train1) != 6 {
		t.Fatalf("expected 4/6 split, got test=%d train=%d", len(test1), len(train1))
	}
	if len(train1) != len(train2) || len(test1) != len(test2) {
		t.Fatalf("split sizes not stable across runs")
	}
	for i := range train1 {
		if train1[i] != train2[i] {
			t.Fatalf("train partition not deterministic at %d: %v vs %v", i, train1[i], train2[i])
		}
	}
	for i := range test1 {
		if test1[i] != test2[i] {
			t.Fatalf("test partition not deterministic at %d: %v vs %v", i, test1[i], test2[i])
		}
	}
}

func TestSplitSink_RejectsOutOfRangeTestSize(t *testing.T) {
	sink := SplitSink{
		Train:    infracatalog.NewMemory[EnrichedRow]("train"),
		Test:     infracatalog.NewMemory[EnrichedRow]("test"),
		TestSize: 1.5,
	}
	if err := sink.Persist(context.Background(), nil); err == nil {
		t.Fatal("expected error for out-of-range test_size")
	}
}
