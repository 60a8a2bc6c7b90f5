package domain

import "strings"

const (
	// AllValues is the UI sentinel for an unconstrained categorical
	// filter; it is equivalent to the empty string.
	AllValues = "All"

	DefaultPerPage   = 30
	MaxPerPage       = 100
	QuickSearchLimit = 10
)

// Filter is one listing request's worth of user intent. Zero values mean
// "no constraint"; the "All" sentinel on categorical fields means the
// same thing.
type Filter struct {
	Search          string
	Category        string
	EmploymentType  string
	ExperienceLevel string
	Page            int
	PerPage         int
}

// Normalize returns a copy with the search term trimmed, "All" sentinels
// collapsed to empty, and page bounds clamped so no query can be issued
// with a negative offset or an unbounded page size.
func (f Filter) Normalize() Filter {
	f.Search = strings.TrimSpace(f.Search)
	if f.Category == AllValues {
		f.Category = ""
	}
	if f.EmploymentType == AllValues {
		f.EmploymentType = ""
	}
	if f.ExperienceLevel == AllValues {
		f.ExperienceLevel = ""
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	return f
}

// Offset returns the row offset for the page query. Call Normalize
// first; a normalized filter never yields a negative offset.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

// Result is one listing response. Facets are computed over the entire
// active set, not the filtered page, so the filter UI never narrows its
// own option list.
type Result struct {
	Jobs            []Job
	Total           int
	Page            int
	PerPage         int
	Categories      []string
	EmploymentTypes []string
}

// EmptyResult returns the degraded-mode shape for f: well-formed, all
// collections present and empty.
func EmptyResult(f Filter) Result {
	return Result{
		Jobs:            []Job{},
		Page:            f.Page,
		PerPage:         f.PerPage,
		Categories:      []string{},
		EmploymentTypes: []string{},
	}
}
