package domain

import "context"

// JobRepository is the driven port for the read-only job store.
type JobRepository interface {
	// Search returns one page of active jobs matching f, ordered by
	// posted_at descending, ties broken by created_at descending.
	Search(ctx context.Context, f Filter) ([]Job, error)
	// Count returns the number of active jobs matching f, ignoring
	// pagination.
	Count(ctx context.Context, f Filter) (int, error)
	// Facets returns the distinct non-empty categories and employment
	// types across all active jobs, each sorted lexicographically.
	Facets(ctx context.Context) (categories, employmentTypes []string, err error)
	// Get returns one active job by id, or ErrJobNotFound.
	Get(ctx context.Context, id string) (*Job, error)
}
