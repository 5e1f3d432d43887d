package nodes

import (
	"context"
	"testing"
)

func TestParseRating_PercentAndFraction(t *testing.T) {
	p := NewParseRating()
	in := []RawReviewRow{
		{CompanyID: "c1", RatingPct: "87%", ReviewText: "good"},
		{CompanyID: "c2", RatingPct: "0.42", ReviewText: "meh"},
		{CompanyID: "c3", RatingPct: "bogus", ReviewText: "dropped"},
	}

	out, err := p.Transform(context.Background(), in)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows (1 skipped), got %d", len(out))
	}
	if out[0].Rating != 0.87 {
		t.Fatalf("expected 0.87, got %v", out[0].Rating)
	}
	if out[1].Rating != 0.42 {
		t.Fatalf("expected 0.42, got %v", out[1].Rating)
	}
}

func TestParseRating_EmptyIsSkipped(t *testing.T) {
	p := NewParseRating()
	out, err := p.Transform(context.Background(), []RawReviewRow{{CompanyID: "c1", RatingPct: ""}})
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected empty row to be skipped, got %v", out)
	}
}
