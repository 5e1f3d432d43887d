package nodes

import (
	"context"
	"testing"

	"github.com/pipeforge/pipeforge/internal/domain/node"
	infracatalog "github.com/pipeforge/pipeforge/internal/infrastructure/catalog"
)

func TestRegister_WiresExpectedNodeTypes(t *testing.T) {
	r := node.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatalf("Register: %v", err)
	}

	for _, name := range []string{"parse_rating", "join", "split"} {
		if _, err := r.New(name); err != nil {
			t.Fatalf("New(%q): %v", name, err)
		}
	}
}

func TestRegisterEntries_WiresExpectedBackendTypes(t *testing.T) {
	r := infracatalog.NewRegistry()
	if err := RegisterEntries(r); err != nil {
		t.Fatalf("RegisterEntries: %v", err)
	}

	entry, err := r.New("memory:rating", "ratings", nil)
	if err != nil {
		t.Fatalf("New(memory:rating): %v", err)
	}
	if entry.Key() != "ratings" {
		t.Fatalf("got key %q", entry.Key())
	}

	if _, err := r.New("csv:enriched", "out", map[string]interface{}{"path": "out.csv"}); err != nil {
		t.Fatalf("New(csv:enriched): %v", err)
	}
	if _, err := r.New("csv:enriched", "out", nil); err == nil {
		t.Fatal("expected error constructing csv entry without a path arg")
	}
}

func TestSplit_TransformIsIdentity(t *testing.T) {
	s := NewSplit()
	in := []EnrichedRow{{CompanyID: "a"}, {CompanyID: "b"}}
	out, err := s.Transform(context.Background(), in)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("row %d: got %+v, want %+v", i, out[i], in[i])
		}
	}
}
