package domain

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// JobStatus represents the lifecycle state of a posting. Only active
// rows are visible to listing and detail queries.
type JobStatus string

const (
	StatusActive    JobStatus = "active"
	StatusExpired   JobStatus = "expired"
	StatusDuplicate JobStatus = "duplicate"
)

// Job is one posting as written by the ingestion pipeline. This service
// reads it and never mutates it.
type Job struct {
	ID          string
	Source      string
	SourceJobID string

	Title          string
	CompanyName    string
	CompanyLogoURL string
	CompanyDomain  string

	DescriptionHTML string
	DescriptionText string

	EmploymentType  string
	RemoteScope     string
	LocationText    string
	Category        string
	ExperienceLevel string
	Tags            string // comma-joined free-form labels

	SalaryMin      *int64
	SalaryMax      *int64
	SalaryCurrency string
	SalaryPeriod   string
	SalaryText     string // pre-formatted override from the source

	ApplyURLOriginal string
	ApplyURLFinal    string
	CanonicalURL     string

	Status    JobStatus
	PostedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TagList splits the comma-joined tags column into trimmed labels.
func (j *Job) TagList() []string {
	if j.Tags == "" {
		return nil
	}
	parts := strings.Split(j.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// SalaryDisplay returns the human-readable salary. A pre-formatted
// salary_text from the source takes precedence over the numeric fields.
func (j *Job) SalaryDisplay() string {
	if j.SalaryText != "" {
		return j.SalaryText
	}
	currency := j.SalaryCurrency
	if currency == "" {
		currency = "USD"
	}
	switch {
	case j.SalaryMin != nil && j.SalaryMax != nil:
		return currency + " " + humanize.Comma(*j.SalaryMin) + " - " + humanize.Comma(*j.SalaryMax)
	case j.SalaryMin != nil:
		return currency + " " + humanize.Comma(*j.SalaryMin) + "+"
	case j.SalaryMax != nil:
		return "up to " + currency + " " + humanize.Comma(*j.SalaryMax)
	}
	return ""
}
