package nodes

import (
	"context"
	"fmt"

	"github.com/pipeforge/pipeforge/internal/domain/catalog"
	"github.com/pipeforge/pipeforge/internal/domain/node"
	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

// JoinInput bundles the two datasets Join combines. A pipeline's InputSource
// synthesizes exactly one of these per run and feeds it to Transform as a
// singleton sequence — the same "mapped mode materializes one schema
// object" shape catalog.CatalogMap uses for single-entry mapping, extended
// here to more than one source entry via a purpose-built InputSource instead
// of CatalogMap (CatalogMap's Materialize only ever binds one value per
// field, so it cannot carry a whole second dataset alongside the first).
type JoinInput struct {
	Companies []CompanyRow
	Reviews   []RatingRow
}

// Join combines company reference data with parsed review ratings on
// CompanyID. It has no parameters.
type Join struct {
	node.Base[struct{}]
}

// NewJoin constructs a zero-value Join.
func NewJoin() *Join {
	return &Join{}
}

// Transform expects exactly one JoinInput (the pipeline wires JoinSource as
// this node's input) and emits one EnrichedRow per matched review. Reviews
// whose company_id has no match are dropped and logged, not failed — an
// unmatched foreign key in one export shouldn't abort the whole join.
func (j *Join) Transform(ctx context.Context, items []JoinInput) ([]EnrichedRow, error) {
	if len(items) != 1 {
		return nil, fmt.Errorf("join: expected exactly one input bundle, got %d", len(items))
	}
	in := items[0]

	byID := make(map[string]CompanyRow, len(in.Companies))
	for _, c := range in.Companies {
		byID[c.CompanyID] = c
	}

	out := make([]EnrichedRow, 0, len(in.Reviews))
	for _, r := range in.Reviews {
		c, ok := byID[r.CompanyID]
		if !ok {
			if j.Logger != nil {
				j.Logger.Warn(ctx, "join: dropping review with unknown company_id", "company_id", r.CompanyID)
			}
			continue
		}
		out = append(out, EnrichedRow{
			CompanyID:   r.CompanyID,
			CompanyName: c.CompanyName,
			Industry:    c.Industry,
			Rating:      r.Rating,
			ReviewText:  r.ReviewText,
		})
	}
	return out, nil
}

// JoinSource is the InputSource counterpart to Join: it loads both entries
// and synthesizes the single JoinInput Transform expects, the same "read
// several entries, hand the node one combined value" shape NewMappedSource
// uses for CatalogMap, written by hand here because the two source datasets
// have unrelated row types.
type JoinSource struct {
	Companies catalog.Reader
	Reviews   catalog.Reader
}

func (s JoinSource) Entries() []catalog.Entry {
	return []catalog.Entry{s.Companies, s.Reviews}
}

func (s JoinSource) Materialize(ctx context.Context) ([]any, error) {
	rawCompanies, err := s.Companies.LoadAny(ctx)
	if err != nil {
		return nil, fmt.Errorf("join: loading companies: %w", err)
	}
	rawReviews, err := s.Reviews.LoadAny(ctx)
	if err != nil {
		return nil, fmt.Errorf("join: loading reviews: %w", err)
	}

	companies := make([]CompanyRow, len(rawCompanies))
	for i, v := range rawCompanies {
		c, ok := v.(CompanyRow)
		if !ok {
			return nil, fmt.Errorf("join: company item %d is %T, not CompanyRow", i, v)
		}
		companies[i] = c
	}
	reviews := make([]RatingRow, len(rawReviews))
	for i, v := range rawReviews {
		r, ok := v.(RatingRow)
		if !ok {
			return nil, fmt.Errorf("join: review item %d is %T, not RatingRow", i, v)
		}
		reviews[i] = r
	}

	return []any{JoinInput{Companies: companies, Reviews: reviews}}, nil
}

var (
	_ node.Node[JoinInput, EnrichedRow, struct{}] = (*Join)(nil)
	_ pipeline.InputSource                        = JoinSource{}
)
