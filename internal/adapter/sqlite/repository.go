package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/maxcascerceri/jobs/internal/domain"
	_ "modernc.org/sqlite"
)

// jobColumns is the SELECT list for a full Job row. Nullable text
// columns are coalesced so every row scans into plain strings; the
// ingestion-only columns (fingerprint_hash, last_checked_at) are never
// selected.
const jobColumns = `id, source, COALESCE(source_job_id, ''),
	title, COALESCE(company_name, ''), COALESCE(company_logo_url, ''), COALESCE(company_domain, ''),
	COALESCE(description_html, ''), COALESCE(description_text, ''),
	COALESCE(employment_type, ''), COALESCE(remote_scope, ''), COALESCE(location_text, ''),
	COALESCE(category, ''), COALESCE(experience_level, ''), COALESCE(tags, ''),
	salary_min, salary_max, COALESCE(salary_currency, ''), COALESCE(salary_period, ''), COALESCE(salary_text, ''),
	COALESCE(apply_url_original, ''), COALESCE(apply_url_final, ''), COALESCE(canonical_url, ''),
	status, COALESCE(posted_at, ''), COALESCE(created_at, ''), COALESCE(updated_at, '')`

// listOrder is the one ordering the API exposes: newest postings first,
// ties broken by ingestion time. posted_at/created_at are ISO-8601 text,
// so string comparison orders them correctly.
const listOrder = `ORDER BY posted_at DESC, created_at DESC`

// Repository implements domain.JobRepository over the SQLite store file
// the ingestion pipeline writes. The handle is opened read-only, lazily,
// exactly once per Repository: if the store is missing or broken on
// first use, every later call fails with the same ErrStoreUnavailable
// until the process restarts.
type Repository struct {
	path    string
	timeout time.Duration

	once sync.Once
	db   *sql.DB
	err  error
}

// Open creates a Repository for the store at path without touching the
// disk. queryTimeout bounds each query; zero disables the bound.
func Open(path string, queryTimeout time.Duration) *Repository {
	return &Repository{path: path, timeout: queryTimeout}
}

// Close releases the handle if one was opened. Only test harnesses need
// it; in normal operation the handle lives as long as the process.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) handle() (*sql.DB, error) {
	r.once.Do(func() {
		if _, err := os.Stat(r.path); err != nil {
			r.err = fmt.Errorf("%w: %s", domain.ErrStoreUnavailable, r.path)
			return
		}
		// mode=ro: this service never writes, and must not create the
		// file when ingestion has not run yet.
		db, err := sql.Open("sqlite", "file:"+r.path+"?mode=ro")
		if err != nil {
			r.err = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
			return
		}
		if err := db.Ping(); err != nil {
			db.Close()
			r.err = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
			return
		}
		r.db = db
	})
	return r.db, r.err
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Search returns one page of active jobs matching f.
func (r *Repository) Search(ctx context.Context, f domain.Filter) ([]domain.Job, error) {
	db, err := r.handle()
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	where, args := buildPredicate(f)
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s %s LIMIT ? OFFSET ?`,
		jobColumns, where, listOrder)
	args = append(args, f.PerPage, f.Offset())

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// Count returns the number of active jobs matching f, ignoring
// pagination. It runs as its own query because the page query is bounded
// by LIMIT.
func (r *Repository) Count(ctx context.Context, f domain.Filter) (int, error) {
	db, err := r.handle()
	if err != nil {
		return 0, err
	}
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	where, args := buildPredicate(f)
	var total int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return total, nil
}

// Facets returns the distinct non-empty categories and employment types
// across all active jobs. Deliberately independent of any filter: these
// are the choices the user could pick, not the ones left after picking.
func (r *Repository) Facets(ctx context.Context) ([]string, []string, error) {
	db, err := r.handle()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	categories, err := distinctValues(ctx, db, "category")
	if err != nil {
		return nil, nil, err
	}
	employmentTypes, err := distinctValues(ctx, db, "employment_type")
	if err != nil {
		return nil, nil, err
	}
	return categories, employmentTypes, nil
}

// distinctValues lists the distinct non-empty values of an allow-listed
// facet column, lexicographically. The column name is a compile-time
// constant at every call site, never user input.
func distinctValues(ctx context.Context, db *sql.DB, column string) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT %s FROM jobs WHERE status = ? AND %s IS NOT NULL AND %s != '' ORDER BY %s`,
		column, column, column, column)
	rows, err := db.QueryContext(ctx, query, domain.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// Get retrieves one active job by id.
func (r *Repository) Get(ctx context.Context, id string) (*domain.Job, error) {
	db, err := r.handle()
	if err != nil {
		return nil, err
	}
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	row := db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM jobs WHERE id = ? AND status = ?`, jobColumns),
		id, domain.StatusActive)
	return scanJob(row)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(row scanner) (*domain.Job, error) {
	var job domain.Job
	var status string
	var salaryMin, salaryMax sql.NullInt64
	var postedAt, createdAt, updatedAt string

	err := row.Scan(
		&job.ID, &job.Source, &job.SourceJobID,
		&job.Title, &job.CompanyName, &job.CompanyLogoURL, &job.CompanyDomain,
		&job.DescriptionHTML, &job.DescriptionText,
		&job.EmploymentType, &job.RemoteScope, &job.LocationText,
		&job.Category, &job.ExperienceLevel, &job.Tags,
		&salaryMin, &salaryMax, &job.SalaryCurrency, &job.SalaryPeriod, &job.SalaryText,
		&job.ApplyURLOriginal, &job.ApplyURLFinal, &job.CanonicalURL,
		&status, &postedAt, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrJobNotFound
	}
	if err != nil {
		return nil, err
	}

	job.Status = domain.JobStatus(status)
	if salaryMin.Valid {
		job.SalaryMin = &salaryMin.Int64
	}
	if salaryMax.Valid {
		job.SalaryMax = &salaryMax.Int64
	}
	job.PostedAt = parseTime(postedAt)
	job.CreatedAt = parseTime(createdAt)
	job.UpdatedAt = parseTime(updatedAt)
	return &job, nil
}

// timeLayouts covers what ingestion actually writes: RFC 3339 from the
// source adapters and SQLite's datetime('now') format for the defaults.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
