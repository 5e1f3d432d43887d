package catalog

import (
	"testing"

	domaincatalog "github.com/pipeforge/pipeforge/internal/domain/catalog"
)

func memoryIntFactory(key string, args map[string]interface{}) (domaincatalog.Entry, error) {
	return NewMemory[int](key), nil
}

func TestRegistry_RegisterAndNew(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("memory:int", memoryIntFactory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entry, err := r.New("memory:int", "counts", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Key() != "counts" {
		t.Fatalf("got key %q", entry.Key())
	}

	if names := r.Names(); len(names) != 1 || names[0] != "memory:int" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestRegistry_UnknownType(t *testing.T) {
	r := NewRegistry()
	if _, err := r.New("does-not-exist", "k", nil); err == nil {
		t.Fatal("expected error for unregistered type")
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("memory:int", memoryIntFactory); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register("memory:int", memoryIntFactory); err == nil {
		t.Fatal("expected error on duplicate registration")
	}
}

func TestStringArg(t *testing.T) {
	args := map[string]interface{}{"path": "data/raw.csv"}
	got, err := StringArg(args, "path")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "data/raw.csv" {
		t.Fatalf("got %q", got)
	}
	if _, err := StringArg(args, "missing"); err == nil {
		t.Fatal("expected error for missing arg")
	}
	if _, err := StringArg(map[string]interface{}{"path": 42}, "path"); err == nil {
		t.Fatal("expected error for wrong type")
	}
}

func TestBoolArg(t *testing.T) {
	if !BoolArg(map[string]interface{}{"read_only": true}, "read_only", false) {
		t.Fatal("expected true")
	}
	if BoolArg(map[string]interface{}{}, "read_only", false) {
		t.Fatal("expected default false")
	}
}
