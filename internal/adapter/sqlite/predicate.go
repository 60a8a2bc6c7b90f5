package sqlite

import (
	"strings"

	"github.com/maxcascerceri/jobs/internal/domain"
)

// buildPredicate turns a normalized filter into a WHERE clause and its
// positionally matched bind arguments. Values are always bound, never
// interpolated, so search-term content cannot alter the query.
func buildPredicate(f domain.Filter) (string, []any) {
	clauses := []string{"status = ?"}
	args := []any{string(domain.StatusActive)}

	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		clauses = append(clauses,
			"(LOWER(title) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(description_text) LIKE ?)")
		args = append(args, term, term, term)
	}
	if f.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, f.Category)
	}
	if f.EmploymentType != "" {
		clauses = append(clauses, "employment_type = ?")
		args = append(args, f.EmploymentType)
	}
	if f.ExperienceLevel != "" {
		clauses = append(clauses, "experience_level = ?")
		args = append(args, f.ExperienceLevel)
	}

	return strings.Join(clauses, " AND "), args
}
