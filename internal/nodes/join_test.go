package nodes

import (
	"context"
	"testing"

	infracatalog "github.com/pipeforge/pipeforge/internal/infrastructure/catalog"
)

func TestJoin_MatchesOnCompanyID(t *testing.T) {
	companies := infracatalog.NewMemory[CompanyRow]("companies")
	if err := companies.Save(context.Background(), []CompanyRow{
		{CompanyID: "c1", CompanyName: "Acme", Industry: "widgets"},
	}); err != nil {
		t.Fatalf("seed companies: %v", err)
	}

	reviews := infracatalog.NewMemory[RatingRow]("reviews")
	if err := reviews.Save(context.Background(), []RatingRow{
		{CompanyID: "c1", Rating: 0.9, ReviewText: "great"},
		{CompanyID: "unknown", Rating: 0.1, ReviewText: "dropped"},
	}); err != nil {
		t.Fatalf("seed reviews: %v", err)
	}

	src := JoinSource{Companies: companies, Reviews: reviews}
	items, err := src.Materialize(context.Background())
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	j := NewJoin()
	bundle := []JoinInput{items[0].(JoinInput)}
	out, err := j.Transform(context.Background(), bundle)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 matched row, got %d", len(out))
	}
	if out[0].CompanyName != "Acme" || out[0].Rating != 0.9 {
		t.Fatalf("unexpected enriched row: %+v", out[0])
	}
}

func TestJoin_RejectsWrongBundleSize(t *testing.T) {
	j := NewJoin()
	if _, err := j.Transform(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty bundle")
	}
}
