package nodes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pipeforge/pipeforge/internal/domain/node"
)

// ParseRating converts RatingPct from its on-disk string form ("87%" or
// "0.87") to a fraction (0.87). It has no parameters, so P is struct{}.
type ParseRating struct {
	node.Base[struct{}]
}

// NewParseRating constructs a zero-value ParseRating, per the registry's
// no-argument constructor contract.
func NewParseRating() *ParseRating {
	return &ParseRating{}
}

// Transform parses every row's RatingPct field, logging and skipping rows
// whose value cannot be parsed rather than failing the whole batch — a
// single malformed export row should not block every other row's import.
func (p *ParseRating) Transform(ctx context.Context, items []RawReviewRow) ([]RatingRow, error) {
	out := make([]RatingRow, 0, len(items))
	for i, item := range items {
		rating, err := parsePercent(item.RatingPct)
		if err != nil {
			if p.Logger != nil {
				p.Logger.Warn(ctx, "parse_rating: skipping unparseable row", "index", i, "rating_pct", item.RatingPct, "error", err.Error())
			}
			continue
		}
		out = append(out, RatingRow{
			CompanyID:  item.CompanyID,
			Rating:     rating,
			ReviewText: item.ReviewText,
		})
	}
	return out, nil
}

// parsePercent accepts either a trailing-"%" percentage or a bare number and
// returns it as a fraction: a "%" value is divided by 100, and so is a bare
// number above 1. The result is not clamped, so "150%" gives 1.5 and a
// negative input stays negative.
func parsePercent(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("rating_pct is empty")
	}
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("rating_pct %q: %w", s, err)
		}
		return v / 100.0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("rating_pct %q: %w", s, err)
	}
	if v > 1.0 {
		v = v / 100.0
	}
	return v, nil
}

var _ node.Node[RawReviewRow, RatingRow, struct{}] = (*ParseRating)(nil)
