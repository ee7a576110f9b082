package types

import (
	"context"

	"aidjobs-engine/internal/domain"
)

// Adapter is the per-site fetch+parse unit. Fetch returns at most limit
// normalized postings for one search term. A malformed individual item is
// skipped inside the adapter; a transport or layout failure for the whole call
// returns an error, which the aggregator records as a non-fatal event for that
// (term, site) pair and moves on.
type Adapter interface {
	Name() domain.Source
	Fetch(ctx context.Context, term string, limit int) ([]domain.JobPosting, error)
}
