package node

import (
	"context"
	"strconv"
	"testing"
)

type double struct {
	Base[int]
}

func (d *double) Transform(ctx context.Context, items []int) ([]int, error) {
	out := make([]int, len(items))
	for i, v := range items {
		out[i] = v * 2
	}
	return out, nil
}

func TestErase_RoundTripsThroughAny(t *testing.T) {
	n := &double{}
	n.SetParams(7)

	erased := Erase[int, int, int](n)
	out, err := erased.TransformAny(context.Background(), []any{1, 2, 3})
	if err != nil {
		t.Fatalf("TransformAny: %v", err)
	}
	want := []any{2, 4, 6}
	if len(out) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(out))
	}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("item %d: want %v got %v", i, want[i], out[i])
		}
	}
	if n.Parameters() != 7 {
		t.Fatalf("expected injected parameter to stick, got %d", n.Parameters())
	}
}

func TestErase_TypeMismatchIsReported(t *testing.T) {
	n := &double{}
	erased := Erase[int, int, int](n)

	_, err := erased.TransformAny(context.Background(), []any{"not-an-int"})
	if err == nil {
		t.Fatal("expected a type assertion error")
	}
}

func TestRegistry_RegisterAndNew(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("double", func() Erased { return Erase[int, int, int](&double{}) }); err != nil {
		t.Fatalf("Register: %v", err)
	}

	got, err := r.New("double")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out, err := got.TransformAny(context.Background(), []any{5})
	if err != nil || len(out) != 1 || out[0] != 10 {
		t.Fatalf("unexpected result: %v %v", out, err)
	}

	if err := r.Register("double", func() Erased { return nil }); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}

	if _, err := r.New("missing-" + strconv.Itoa(1)); err == nil {
		t.Fatal("expected lookup of unregistered name to fail")
	}
}
