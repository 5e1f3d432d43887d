package catalog

import "testing"

type stubEntry struct {
	key string
}

func (s stubEntry) Key() string               { return s.key }
func (s stubEntry) DataTypeName() string      { return "stub" }
func (s stubEntry) Capabilities() Capabilities { return Capabilities{Readable: true} }

func TestBase_HandleIsIdentityStable(t *testing.T) {
	var base Base
	calls := 0
	factory := func() Entry {
		calls++
		return stubEntry{key: "raw"}
	}

	first := base.Handle("raw", factory)
	second := base.Handle("raw", factory)

	if first != second {
		t.Fatal("expected the same entry instance on repeated access")
	}
	if calls != 1 {
		t.Fatalf("expected factory to run once, ran %d times", calls)
	}
}

func TestBase_HandlePanicsOnDuplicateKeyAcrossAccessors(t *testing.T) {
	var base Base
	base.Handle("raw", func() Entry { return stubEntry{key: "shared"} })

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for duplicate underlying key across accessors")
		}
	}()
	base.Handle("other", func() Entry { return stubEntry{key: "shared"} })
}

func TestBase_Init(t *testing.T) {
	var base Base
	base.Init(map[string]func() Entry{
		"raw": func() Entry { return stubEntry{key: "raw"} },
		"out": func() Entry { return stubEntry{key: "out"} },
	})

	if len(base.Entries()) != 2 {
		t.Fatalf("expected 2 entries after eager init, got %d", len(base.Entries()))
	}
}
