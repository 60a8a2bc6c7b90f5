package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/maxcascerceri/jobs/internal/domain"
)

// recordingFetcher counts fetches and records the filters it saw.
type recordingFetcher struct {
	mu      sync.Mutex
	filters []domain.Filter
	result  domain.Result
	err     error
}

func (f *recordingFetcher) Fetch(ctx context.Context, filter domain.Filter) (domain.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return domain.Result{}, f.err
	}
	res := f.result
	res.Page = filter.Page
	return res, nil
}

func (f *recordingFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.filters)
}

func (f *recordingFetcher) lastFilter() domain.Filter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.filters) == 0 {
		return domain.Filter{}
	}
	return f.filters[len(f.filters)-1]
}

func okResult(total int) domain.Result {
	return domain.Result{
		Jobs:            make([]domain.Job, 0, total),
		Total:           total,
		Categories:      []string{},
		EmploymentTypes: []string{},
	}
}

// waitUntil polls cond until it holds or the deadline passes.
func waitUntil(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestController_FilterChangeResetsPage(t *testing.T) {
	fetcher := &recordingFetcher{result: okResult(5)}
	c := New(fetcher, 0)
	defer c.Close()

	c.SetPage(4)
	waitUntil(t, "page fetch", func() bool { return fetcher.calls() == 1 })

	c.SetCategory("Engineering")
	waitUntil(t, "category fetch", func() bool { return fetcher.calls() == 2 })

	got := fetcher.lastFilter()
	if got.Page != 1 {
		t.Errorf("fetched Page = %d, want 1 after filter change", got.Page)
	}
	if got.Category != "Engineering" {
		t.Errorf("fetched Category = %q, want Engineering", got.Category)
	}
}

func TestController_PageChangePreservesFilters(t *testing.T) {
	fetcher := &recordingFetcher{result: okResult(100)}
	c := New(fetcher, 0)
	defer c.Close()

	c.SetCategory("Design")
	waitUntil(t, "category fetch", func() bool { return fetcher.calls() == 1 })
	c.SetEmploymentType("Contract")
	waitUntil(t, "employment type fetch", func() bool { return fetcher.calls() == 2 })
	c.SetExperienceLevel("Senior")
	waitUntil(t, "experience level fetch", func() bool { return fetcher.calls() == 3 })
	c.SetPage(3)
	waitUntil(t, "page fetch", func() bool { return fetcher.calls() == 4 })

	got := fetcher.lastFilter()
	if got.Page != 3 {
		t.Errorf("fetched Page = %d, want 3", got.Page)
	}
	if got.Category != "Design" || got.EmploymentType != "Contract" || got.ExperienceLevel != "Senior" {
		t.Errorf("page change dropped filters: %+v", got)
	}
}

func TestController_SearchDebounceCoalesces(t *testing.T) {
	fetcher := &recordingFetcher{result: okResult(1)}
	c := New(fetcher, 40*time.Millisecond)
	defer c.Close()

	c.SetSearch("e")
	c.SetSearch("en")
	c.SetSearch("eng")

	// Nothing fires inside the quiescence window.
	time.Sleep(10 * time.Millisecond)
	if n := fetcher.calls(); n != 0 {
		t.Fatalf("fetches during debounce = %d, want 0", n)
	}
	if !c.Loading() {
		t.Error("Loading() = false while a fetch is scheduled, want true")
	}

	waitUntil(t, "debounced fetch", func() bool { return fetcher.calls() == 1 })
	got := fetcher.lastFilter()
	if got.Search != "eng" {
		t.Errorf("fetched Search = %q, want the final keystroke state %q", got.Search, "eng")
	}

	// No second timer left behind.
	time.Sleep(60 * time.Millisecond)
	if n := fetcher.calls(); n != 1 {
		t.Errorf("total fetches = %d, want 1", n)
	}
}

func TestController_ClearedSearchFiresImmediately(t *testing.T) {
	fetcher := &recordingFetcher{result: okResult(0)}
	c := New(fetcher, time.Hour) // a debounce that would never elapse in-test
	defer c.Close()

	c.SetSearch("")
	waitUntil(t, "immediate fetch", func() bool { return fetcher.calls() == 1 })
}

func TestController_NewSearchCancelsPendingTimer(t *testing.T) {
	fetcher := &recordingFetcher{result: okResult(0)}
	c := New(fetcher, 30*time.Millisecond)
	defer c.Close()

	c.SetSearch("golang")
	// A filter change supersedes the pending debounce and fires now.
	c.SetCategory("Engineering")
	waitUntil(t, "immediate fetch", func() bool { return fetcher.calls() == 1 })

	got := fetcher.lastFilter()
	if got.Search != "golang" || got.Category != "Engineering" {
		t.Errorf("fetched filter = %+v, want combined current state", got)
	}

	// The old timer must not fire a second request later.
	time.Sleep(50 * time.Millisecond)
	if n := fetcher.calls(); n != 1 {
		t.Errorf("total fetches = %d, want 1", n)
	}
}

func TestController_NewestRequestWins(t *testing.T) {
	release1 := make(chan struct{})
	started1 := make(chan struct{})
	var mu sync.Mutex
	var calls int

	fetch := FetcherFunc(func(ctx context.Context, f domain.Filter) (domain.Result, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started1)
			<-release1 // R1 is slow
			return okResult(111), nil
		}
		return okResult(222), nil // R2 is fast
	})

	c := New(fetch, 0)
	defer c.Close()

	c.SetCategory("Engineering") // R1
	<-started1
	c.SetCategory("Design") // R2 supersedes R1

	waitUntil(t, "R2 applied", func() bool { return c.Snapshot().Total == 222 })
	if c.Loading() {
		t.Error("Loading() = true after the newest response applied, want false")
	}

	// R1 resolves late; its result must never surface.
	close(release1)
	time.Sleep(20 * time.Millisecond)
	if got := c.Snapshot().Total; got != 222 {
		t.Errorf("Total = %d after stale response, want 222", got)
	}
}

func TestController_StaleResponseDoesNotClearLoading(t *testing.T) {
	release1 := make(chan struct{})
	started1 := make(chan struct{})
	block2 := make(chan struct{})
	var mu sync.Mutex
	var calls int

	fetch := FetcherFunc(func(ctx context.Context, f domain.Filter) (domain.Result, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started1)
			<-release1
			return okResult(111), nil
		}
		<-block2 // R2 stays outstanding
		return okResult(222), nil
	})

	c := New(fetch, 0)
	defer func() {
		close(block2)
		c.Close()
	}()

	c.SetEmploymentType("Full-time") // R1
	<-started1
	c.SetEmploymentType("Contract") // R2, still in flight

	// R1 resolves while R2 is outstanding: dropped, loading stays true.
	close(release1)
	time.Sleep(20 * time.Millisecond)
	if !c.Loading() {
		t.Error("Loading() = false after a stale response, want true while R2 is outstanding")
	}
	if got := c.Snapshot().Total; got == 111 {
		t.Error("stale R1 result was applied")
	}
}

func TestController_SupersededRequestIsCancelled(t *testing.T) {
	started1 := make(chan struct{})
	cancelled1 := make(chan struct{})
	var mu sync.Mutex
	var calls int

	fetch := FetcherFunc(func(ctx context.Context, f domain.Filter) (domain.Result, error) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(started1)
			<-ctx.Done()
			close(cancelled1)
			return domain.Result{}, ctx.Err()
		}
		return okResult(2), nil
	})

	c := New(fetch, 0)
	defer c.Close()

	c.SetPage(2)
	<-started1
	c.SetPage(3)

	select {
	case <-cancelled1:
	case <-time.After(2 * time.Second):
		t.Fatal("superseded request's context was never cancelled")
	}
	waitUntil(t, "newest response applied", func() bool { return c.Snapshot().Total == 2 })
}

func TestController_FailureKeepsLastResult(t *testing.T) {
	fetcher := &recordingFetcher{result: okResult(7)}
	c := New(fetcher, 0)
	defer c.Close()

	c.Refresh()
	waitUntil(t, "first fetch applied", func() bool { return c.Snapshot().Total == 7 })

	fetcher.mu.Lock()
	fetcher.err = context.DeadlineExceeded
	fetcher.mu.Unlock()

	c.SetCategory("Design")
	waitUntil(t, "failed fetch settled", func() bool { return !c.Loading() })

	if got := c.Snapshot().Total; got != 7 {
		t.Errorf("Total = %d after a failed fetch, want last successful 7", got)
	}
}

func TestController_CloseCancelsPendingDebounce(t *testing.T) {
	fetcher := &recordingFetcher{result: okResult(0)}
	c := New(fetcher, 20*time.Millisecond)

	c.SetSearch("golang")
	c.Close()

	time.Sleep(40 * time.Millisecond)
	if n := fetcher.calls(); n != 0 {
		t.Errorf("fetches after Close = %d, want 0", n)
	}
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"jobs": [{"id": "j1", "title": "Software Engineer", "company_name": "Acme",
				"employment_type": "Full-time", "tags": ["go", "remote"],
				"posted_at": "2026-08-10T09:00:00Z"}],
			"total": 1, "page": 2, "per_page": 30,
			"categories": ["Engineering"], "employment_types": ["Full-time"]
		}`))
	}))
	defer ts.Close()

	fetcher := NewHTTPFetcher(ts.URL)
	res, err := fetcher.Fetch(context.Background(), domain.Filter{
		Search:   "engineer",
		Category: "Engineering",
		Page:     2,
	})
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if res.Total != 1 || len(res.Jobs) != 1 {
		t.Fatalf("Fetch() total/jobs = %d/%d, want 1/1", res.Total, len(res.Jobs))
	}
	if res.Jobs[0].Tags != "go,remote" {
		t.Errorf("Tags = %q, want %q", res.Jobs[0].Tags, "go,remote")
	}
	if res.Jobs[0].PostedAt.IsZero() {
		t.Error("PostedAt not parsed")
	}
	for _, want := range []string{"search=engineer", "category=Engineering", "page=2", "per_page=30"} {
		if !containsParam(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestHTTPFetcher_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	fetcher := NewHTTPFetcher(ts.URL)
	if _, err := fetcher.Fetch(context.Background(), domain.Filter{}); err == nil {
		t.Error("Fetch() error = nil, want non-nil on HTTP 500")
	}
}

func containsParam(query, param string) bool {
	for _, p := range splitQuery(query) {
		if p == param {
			return true
		}
	}
	return false
}

func splitQuery(query string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(query); i++ {
		if i == len(query) || query[i] == '&' {
			out = append(out, query[start:i])
			start = i + 1
		}
	}
	return out
}
