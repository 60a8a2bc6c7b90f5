// Package client keeps a displayed job listing consistent with the
// latest user intent: it owns the filter state, debounces search input,
// and reconciles asynchronous responses so a slow stale request can
// never clobber a fresher result.
package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/maxcascerceri/jobs/internal/domain"
)

// Fetcher retrieves one listing result for a filter.
type Fetcher interface {
	Fetch(ctx context.Context, f domain.Filter) (domain.Result, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, f domain.Filter) (domain.Result, error)

// Fetch calls fn.
func (fn FetcherFunc) Fetch(ctx context.Context, f domain.Filter) (domain.Result, error) {
	return fn(ctx, f)
}

// State is a snapshot of what the client currently displays.
type State struct {
	Filter          domain.Filter
	Jobs            []domain.Job
	Total           int
	Categories      []string
	EmploymentTypes []string
	Loading         bool
}

// Controller is the filter state machine. Every setter updates the
// intent and schedules exactly one retrieval of the combined state;
// search input waits out the quiescence window first, everything else
// fires immediately. Responses apply newest-issued-wins: a request
// superseded before its response lands is cancelled and its result
// dropped.
type Controller struct {
	fetcher  Fetcher
	debounce time.Duration

	baseCtx  context.Context
	baseStop context.CancelFunc

	mu      sync.Mutex
	filter  domain.Filter
	result  domain.Result
	loading bool
	closed  bool

	seq    uint64 // sequence of the most recently issued request
	timer  *time.Timer
	cancel context.CancelFunc // cancels the in-flight request

	wg sync.WaitGroup
}

// New creates a Controller. debounce is the quiescence window applied
// to non-empty search input.
func New(fetcher Fetcher, debounce time.Duration) *Controller {
	ctx, stop := context.WithCancel(context.Background())
	return &Controller{
		fetcher:  fetcher,
		debounce: debounce,
		baseCtx:  ctx,
		baseStop: stop,
		filter:   domain.Filter{Page: 1, PerPage: domain.DefaultPerPage},
		result:   domain.EmptyResult(domain.Filter{Page: 1, PerPage: domain.DefaultPerPage}),
	}
}

// SetSearch updates the search term and resets to the first page.
// Non-empty terms debounce; clearing the term fires immediately.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Search = term
	c.filter.Page = 1
	if strings.TrimSpace(term) == "" {
		c.schedule(0)
		return
	}
	c.schedule(c.debounce)
}

// SetCategory updates the category filter and resets to the first page.
func (c *Controller) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Category = category
	c.filter.Page = 1
	c.schedule(0)
}

// SetEmploymentType updates the employment type filter and resets to
// the first page.
func (c *Controller) SetEmploymentType(employmentType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.EmploymentType = employmentType
	c.filter.Page = 1
	c.schedule(0)
}

// SetExperienceLevel updates the experience level filter and resets to
// the first page.
func (c *Controller) SetExperienceLevel(level string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.ExperienceLevel = level
	c.filter.Page = 1
	c.schedule(0)
}

// SetPage moves to another page without touching the other fields.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Page = page
	c.schedule(0)
}

// Refresh re-runs the current filter state immediately. Callers use it
// for the initial load.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schedule(0)
}

// schedule arms exactly one pending retrieval for the current state,
// replacing any pending debounce timer. Caller holds mu.
func (c *Controller) schedule(delay time.Duration) {
	if c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.loading = true
	if delay <= 0 {
		c.issue()
		return
	}
	c.timer = time.AfterFunc(delay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			return
		}
		c.timer = nil
		c.issue()
	})
}

// issue fires one retrieval reflecting the filter state at this moment,
// superseding any request still in flight. Caller holds mu.
func (c *Controller) issue() {
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.cancel = cancel

	c.seq++
	seq := c.seq
	f := c.filter

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		res, err := c.fetcher.Fetch(ctx, f)
		c.apply(seq, res, err)
	}()
}

// apply reconciles one response. Only the response of the most recently
// issued request may ever touch the displayed state; anything older is
// dropped silently and does not clear loading, since a newer request is
// still outstanding.
func (c *Controller) apply(seq uint64, res domain.Result, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq || c.closed {
		return
	}
	c.loading = false
	if err != nil {
		// Fall back to whatever the last successful fetch produced.
		return
	}
	c.result = res
}

// Snapshot returns the displayed state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Filter:          c.filter,
		Jobs:            c.result.Jobs,
		Total:           c.result.Total,
		Categories:      c.result.Categories,
		EmploymentTypes: c.result.EmploymentTypes,
		Loading:         c.loading,
	}
}

// Loading reports whether a retrieval is scheduled or in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Close stops the pending debounce timer, cancels any in-flight request
// and waits for its handler to return. The controller accepts no input
// afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()

	c.baseStop()
	c.wg.Wait()
}
