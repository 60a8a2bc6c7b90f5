// Command jobseed fills a store file with synthetic postings so jobsd
// has something to serve in development. In production the scraper owns
// the store and this tool must never run against it.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/maxcascerceri/jobs/internal/config"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    source_job_id TEXT,
    title TEXT NOT NULL,
    company_name TEXT,
    company_logo_url TEXT,
    company_domain TEXT,
    description_html TEXT,
    description_text TEXT,
    employment_type TEXT DEFAULT 'Full-time',
    remote_scope TEXT DEFAULT 'Anywhere',
    location_text TEXT,
    category TEXT,
    experience_level TEXT,
    salary_min INTEGER,
    salary_max INTEGER,
    salary_currency TEXT DEFAULT 'USD',
    salary_period TEXT DEFAULT 'yearly',
    salary_text TEXT,
    posted_at TEXT,
    apply_url_original TEXT,
    apply_url_final TEXT,
    canonical_url TEXT,
    status TEXT DEFAULT 'active',
    fingerprint_hash TEXT,
    tags TEXT,
    created_at TEXT DEFAULT (datetime('now')),
    updated_at TEXT DEFAULT (datetime('now')),
    last_checked_at TEXT DEFAULT (datetime('now')),
    UNIQUE(source, source_job_id)
);
CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_posted_at ON jobs(posted_at DESC);
CREATE INDEX IF NOT EXISTS idx_jobs_category ON jobs(category);
CREATE INDEX IF NOT EXISTS idx_jobs_employment_type ON jobs(employment_type);
`

var (
	titles = []string{
		"Software Engineer", "Senior Backend Engineer", "Frontend Developer",
		"Product Designer", "Data Analyst", "DevOps Engineer",
		"Engineering Manager", "QA Engineer", "Technical Writer",
	}
	companies        = []string{"Acme", "Globex", "Initech", "Umbra Labs", "Northwind"}
	categories       = []string{"Engineering", "Design", "Data", "Product", "Marketing"}
	employmentTypes  = []string{"Full-time", "Part-time", "Contract"}
	experienceLevels = []string{"Entry", "Mid", "Senior"}
)

func main() {
	dbPath := flag.String("db", config.DefaultDBPath(), "SQLite store path")
	count := flag.Int("count", 100, "Number of synthetic jobs to insert")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("create store directory: %v", err)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	now := time.Now().UTC()
	for i := 0; i < *count; i++ {
		title := titles[rand.Intn(len(titles))]
		company := companies[rand.Intn(len(companies))]
		postedAt := now.Add(-time.Duration(rand.Intn(30*24)) * time.Hour)

		_, err := db.Exec(`INSERT INTO jobs
			(id, source, source_job_id, title, company_name, description_text,
			 employment_type, remote_scope, category, experience_level,
			 salary_min, salary_max, tags, posted_at, created_at, updated_at, status)
			VALUES (?, 'seed', ?, ?, ?, ?, ?, 'Anywhere', ?, ?, ?, ?, ?, ?, ?, ?, 'active')`,
			uuid.NewString(), fmt.Sprintf("seed-%d", i), title, company,
			fmt.Sprintf("%s role at %s.", title, company),
			employmentTypes[rand.Intn(len(employmentTypes))],
			categories[rand.Intn(len(categories))],
			experienceLevels[rand.Intn(len(experienceLevels))],
			60000+rand.Intn(60)*1000, 120000+rand.Intn(80)*1000,
			"remote,seeded",
			postedAt.Format(time.RFC3339),
			now.Format(time.RFC3339), now.Format(time.RFC3339),
		)
		if err != nil {
			log.Fatalf("insert job %d: %v", i, err)
		}
	}

	log.Printf("seeded %d jobs into %s", *count, *dbPath)
}
