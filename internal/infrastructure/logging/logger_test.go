package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/pipeforge/pipeforge/internal/ports"
)

func TestLogger_EmitsStructuredFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Options{Writer: buf, Level: "debug", Layer: "domain", Component: "catalog"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := ports.WithCorrelationID(context.Background(), "req-1")
	logger.Info(ctx, "entry loaded", "entry_key", "raw.csv", "count", 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["message"] != "entry loaded" {
		t.Fatalf("unexpected message: %+v", entry)
	}
	if entry["layer"] != "domain" || entry["component"] != "catalog" {
		t.Fatalf("missing base fields: %+v", entry)
	}
	if entry["entry_key"] != "raw.csv" || entry["correlation_id"] != "req-1" {
		t.Fatalf("missing call-site fields: %+v", entry)
	}
}

func TestLogger_WithAddsPersistentFields(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Options{Writer: buf, Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	scoped := logger.With("pipeline", "enrich")
	scoped.Info(context.Background(), "node executed")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if entry["pipeline"] != "enrich" {
		t.Fatalf("expected persistent field to carry over, got %+v", entry)
	}
}

func TestNoOpLogger_DiscardsEntries(t *testing.T) {
	var l NoOpLogger
	l.Info(context.Background(), "should not panic")
	if _, ok := l.With("k", "v").(*NoOpLogger); !ok {
		t.Fatal("With on NoOpLogger should return a NoOpLogger")
	}
}
