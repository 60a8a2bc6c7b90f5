package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/maxcascerceri/jobs/internal/domain"
	"github.com/rs/cors"
)

// Server is the REST adapter for the listing service.
type Server struct {
	svc     *domain.ListingService
	mux     *http.ServeMux
	handler http.Handler
	server  *http.Server
}

// NewServer creates a new HTTP server. allowedOrigins configures CORS
// for the browser clients this API serves.
func NewServer(svc *domain.ListingService, addr string, allowedOrigins []string) *Server {
	s := &Server{
		svc: svc,
		mux: http.NewServeMux(),
	}
	s.routes()
	s.handler = cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(s.mux)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
	}
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /jobs", s.handleListJobs)
	s.mux.HandleFunc("GET /jobs/quicksearch", s.handleQuickSearch)
	s.mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// jobResponse is the JSON shape for one job.
type jobResponse struct {
	ID              string   `json:"id"`
	Source          string   `json:"source"`
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	CompanyLogoURL  string   `json:"company_logo_url,omitempty"`
	CompanyDomain   string   `json:"company_domain,omitempty"`
	DescriptionHTML string   `json:"description_html,omitempty"`
	DescriptionText string   `json:"description_text,omitempty"`
	EmploymentType  string   `json:"employment_type"`
	RemoteScope     string   `json:"remote_scope,omitempty"`
	LocationText    string   `json:"location_text,omitempty"`
	Category        string   `json:"category,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Salary          string   `json:"salary,omitempty"`
	ApplyURL        string   `json:"apply_url,omitempty"`
	CanonicalURL    string   `json:"canonical_url,omitempty"`
	PostedAt        string   `json:"posted_at,omitempty"`
	CreatedAt       string   `json:"created_at,omitempty"`
}

// listResponse is the JSON shape for listing and quick-search results.
type listResponse struct {
	Jobs            []jobResponse `json:"jobs"`
	Total           int           `json:"total"`
	Page            int           `json:"page"`
	PerPage         int           `json:"per_page"`
	Categories      []string      `json:"categories"`
	EmploymentTypes []string      `json:"employment_types"`
}

// errorResponse is the JSON error response.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.Filter{
		Search:          q.Get("search"),
		Category:        q.Get("category"),
		EmploymentType:  q.Get("employment_type"),
		ExperienceLevel: q.Get("experience_level"),
		Page:            parseIntParam(q.Get("page"), 1),
		PerPage:         parseIntParam(q.Get("per_page"), domain.DefaultPerPage),
	}

	res := s.svc.Retrieve(r.Context(), f)
	s.writeJSON(w, http.StatusOK, resultToResponse(res))
}

func (s *Server) handleQuickSearch(w http.ResponseWriter, r *http.Request) {
	res := s.svc.QuickSearch(r.Context(), r.URL.Query().Get("q"))
	s.writeJSON(w, http.StatusOK, resultToResponse(res))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	job, err := s.svc.Get(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrJobNotFound):
			s.writeError(w, http.StatusNotFound, "job not found")
		case errors.Is(err, domain.ErrStoreUnavailable):
			s.writeError(w, http.StatusServiceUnavailable, "store unavailable")
		default:
			log.Printf("get job %s: %v", id, err)
			s.writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, jobToResponse(*job))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseIntParam parses a query integer, falling back to def on anything
// unparseable. Bad filter values recover locally, they never 400.
func parseIntParam(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func resultToResponse(res domain.Result) listResponse {
	jobs := make([]jobResponse, 0, len(res.Jobs))
	for _, j := range res.Jobs {
		jobs = append(jobs, jobToResponse(j))
	}
	return listResponse{
		Jobs:            jobs,
		Total:           res.Total,
		Page:            res.Page,
		PerPage:         res.PerPage,
		Categories:      res.Categories,
		EmploymentTypes: res.EmploymentTypes,
	}
}

func jobToResponse(j domain.Job) jobResponse {
	applyURL := j.ApplyURLFinal
	if applyURL == "" {
		applyURL = j.ApplyURLOriginal
	}
	return jobResponse{
		ID:              j.ID,
		Source:          j.Source,
		Title:           j.Title,
		CompanyName:     j.CompanyName,
		CompanyLogoURL:  j.CompanyLogoURL,
		CompanyDomain:   j.CompanyDomain,
		DescriptionHTML: j.DescriptionHTML,
		DescriptionText: j.DescriptionText,
		EmploymentType:  j.EmploymentType,
		RemoteScope:     j.RemoteScope,
		LocationText:    j.LocationText,
		Category:        j.Category,
		ExperienceLevel: j.ExperienceLevel,
		Tags:            j.TagList(),
		Salary:          j.SalaryDisplay(),
		ApplyURL:        applyURL,
		CanonicalURL:    j.CanonicalURL,
		PostedAt:        formatTime(j.PostedAt),
		CreatedAt:       formatTime(j.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ServeHTTP implements http.Handler for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Addr returns the server address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Port extracts the port from the address.
func (s *Server) Port() int {
	addr := s.server.Addr
	if idx := strings.LastIndex(addr, ":"); idx >= 0 {
		port, _ := strconv.Atoi(addr[idx+1:])
		return port
	}
	return 0
}
