// Package nodes holds a small set of example transform nodes exercising the
// core node/catalog abstractions end to end: a scalar conversion
// (ParseRating), a multi-entry join (Join), and a multi-entry partitioned
// write (Split, via SplitSink). They are not part of the core
// orchestrator — they are the "user code" a pipeline author would write
// against it, grounded on the teacher's own example plugins
// (internal/plugins/symlink et al. in the teacher repo) in spirit: small,
// single-purpose, registered by name rather than self-registering via
// init().
package nodes

// RawReviewRow is the on-disk shape of an unprocessed review record: rating
// arrives as a string because source exports are inconsistent about
// percentage vs. fractional formatting ("87%" vs "0.87").
type RawReviewRow struct {
	CompanyID  string `csv:"company_id"`
	RatingPct  string `csv:"rating_pct"`
	ReviewText string `csv:"review_text"`
}

// RatingRow is a review record with RatingPct converted to a fraction (87%
// becomes 0.87), the output of ParseRating.
type RatingRow struct {
	CompanyID  string  `csv:"company_id"`
	Rating     float64 `csv:"rating"`
	ReviewText string  `csv:"review_text"`
}

// CompanyRow is a company reference record.
type CompanyRow struct {
	CompanyID   string `csv:"company_id"`
	CompanyName string `csv:"company_name"`
	Industry    string `csv:"industry"`
}

// EnrichedRow is one review joined against its company, the output of Join.
type EnrichedRow struct {
	CompanyID   string  `csv:"company_id"`
	CompanyName string  `csv:"company_name"`
	Industry    string  `csv:"industry"`
	Rating      float64 `csv:"rating"`
	ReviewText  string  `csv:"review_text"`
}
