package domain

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"
)

var (
	// ErrStoreUnavailable means the job store is missing or unreachable.
	// Listing queries recover from it locally; only detail lookups
	// surface it.
	ErrStoreUnavailable = errors.New("job store unavailable")
	ErrJobNotFound      = errors.New("job not found")
)

// ListingService orchestrates listing retrieval over the job store.
type ListingService struct {
	repo JobRepository
}

// NewListingService creates a new ListingService.
func NewListingService(repo JobRepository) *ListingService {
	return &ListingService{repo: repo}
}

// Retrieve answers one listing request. It never fails: any store error
// is logged and degrades to a well-formed empty result, so an absent or
// broken store renders as "no jobs" rather than an error.
func (s *ListingService) Retrieve(ctx context.Context, f Filter) Result {
	f = f.Normalize()

	total, err := s.repo.Count(ctx, f)
	if err != nil {
		return s.degrade(f, err)
	}

	jobs, err := s.repo.Search(ctx, f)
	if err != nil {
		return s.degrade(f, err)
	}
	if jobs == nil {
		jobs = []Job{}
	}

	categories, employmentTypes, err := s.repo.Facets(ctx)
	if err != nil {
		return s.degrade(f, err)
	}
	if categories == nil {
		categories = []string{}
	}
	if employmentTypes == nil {
		employmentTypes = []string{}
	}

	return Result{
		Jobs:            jobs,
		Total:           total,
		Page:            f.Page,
		PerPage:         f.PerPage,
		Categories:      categories,
		EmploymentTypes: employmentTypes,
	}
}

// QuickSearch is the lightweight typeahead entry point. Terms shorter
// than two runes short-circuit to an empty result without touching the
// store; anything longer runs a first-page search capped at
// QuickSearchLimit results.
func (s *ListingService) QuickSearch(ctx context.Context, term string) Result {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < 2 {
		return EmptyResult(Filter{Page: 1, PerPage: QuickSearchLimit})
	}
	return s.Retrieve(ctx, Filter{Search: term, Page: 1, PerPage: QuickSearchLimit})
}

// Get retrieves one active job by id. A miss returns ErrJobNotFound; a
// store failure returns ErrStoreUnavailable so callers can tell "gone"
// from "broken".
func (s *ListingService) Get(ctx context.Context, id string) (*Job, error) {
	return s.repo.Get(ctx, id)
}

func (s *ListingService) degrade(f Filter, err error) Result {
	log.Printf("listing degraded to empty result: %v", err)
	return EmptyResult(f)
}
