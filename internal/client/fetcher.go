package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/maxcascerceri/jobs/internal/domain"
)

// HTTPFetcher implements Fetcher against the listing REST API.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher for the API at baseURL.
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// listPayload mirrors the server's listing JSON.
type listPayload struct {
	Jobs []struct {
		ID              string   `json:"id"`
		Source          string   `json:"source"`
		Title           string   `json:"title"`
		CompanyName     string   `json:"company_name"`
		CompanyLogoURL  string   `json:"company_logo_url"`
		DescriptionText string   `json:"description_text"`
		EmploymentType  string   `json:"employment_type"`
		RemoteScope     string   `json:"remote_scope"`
		LocationText    string   `json:"location_text"`
		Category        string   `json:"category"`
		ExperienceLevel string   `json:"experience_level"`
		Tags            []string `json:"tags"`
		Salary          string   `json:"salary"`
		ApplyURL        string   `json:"apply_url"`
		PostedAt        string   `json:"posted_at"`
	} `json:"jobs"`
	Total           int      `json:"total"`
	Page            int      `json:"page"`
	PerPage         int      `json:"per_page"`
	Categories      []string `json:"categories"`
	EmploymentTypes []string `json:"employment_types"`
}

// Fetch issues GET /jobs for f. The request inherits ctx, so a
// superseded fetch tears down its connection when cancelled.
func (h *HTTPFetcher) Fetch(ctx context.Context, f domain.Filter) (domain.Result, error) {
	f = f.Normalize()

	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.EmploymentType != "" {
		q.Set("employment_type", f.EmploymentType)
	}
	if f.ExperienceLevel != "" {
		q.Set("experience_level", f.ExperienceLevel)
	}
	q.Set("page", strconv.Itoa(f.Page))
	q.Set("per_page", strconv.Itoa(f.PerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/jobs?"+q.Encode(), nil)
	if err != nil {
		return domain.Result{}, err
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return domain.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Result{}, fmt.Errorf("list jobs: unexpected status %d", resp.StatusCode)
	}

	var payload listPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Result{}, fmt.Errorf("decode listing: %w", err)
	}
	return payloadToResult(payload), nil
}

func payloadToResult(p listPayload) domain.Result {
	jobs := make([]domain.Job, 0, len(p.Jobs))
	for _, j := range p.Jobs {
		posted, _ := time.Parse(time.RFC3339, j.PostedAt)
		jobs = append(jobs, domain.Job{
			ID:              j.ID,
			Source:          j.Source,
			Title:           j.Title,
			CompanyName:     j.CompanyName,
			CompanyLogoURL:  j.CompanyLogoURL,
			DescriptionText: j.DescriptionText,
			EmploymentType:  j.EmploymentType,
			RemoteScope:     j.RemoteScope,
			LocationText:    j.LocationText,
			Category:        j.Category,
			ExperienceLevel: j.ExperienceLevel,
			Tags:            strings.Join(j.Tags, ","),
			SalaryText:      j.Salary,
			ApplyURLFinal:   j.ApplyURL,
			Status:          domain.StatusActive,
			PostedAt:        posted,
		})
	}
	res := domain.Result{
		Jobs:            jobs,
		Total:           p.Total,
		Page:            p.Page,
		PerPage:         p.PerPage,
		Categories:      p.Categories,
		EmploymentTypes: p.EmploymentTypes,
	}
	if res.Categories == nil {
		res.Categories = []string{}
	}
	if res.EmploymentTypes == nil {
		res.EmploymentTypes = []string{}
	}
	return res
}
