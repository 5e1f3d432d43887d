package nodes

import "github.com/pipeforge/pipeforge/internal/domain/node"

// Register wires this package's node types into r under their config-facing
// type names. Nodes do not self-register via init(), per §4.4/§9: the
// registry is instance-scoped (one per application run, not a package-level
// global like the teacher's plugin registry), so main owns the wiring.
func Register(r *node.Registry) error {
	if err := r.Register("parse_rating", func() node.Erased {
		return node.Erase[RawReviewRow, RatingRow, struct{}](NewParseRating())
	}); err != nil {
		return err
	}
	if err := r.Register("join", func() node.Erased {
		return node.Erase[JoinInput, EnrichedRow, struct{}](NewJoin())
	}); err != nil {
		return err
	}
	if err := r.Register("split", func() node.Erased {
		return node.Erase[EnrichedRow, EnrichedRow, struct{}](NewSplit())
	}); err != nil {
		return err
	}
	return nil
}
