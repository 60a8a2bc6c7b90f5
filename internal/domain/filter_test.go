package domain

import (
	"reflect"
	"testing"
)

func TestFilter_Normalize_Defaults(t *testing.T) {
	f := Filter{}.Normalize()

	if f.Page != 1 {
		t.Errorf("Page = %d, want 1", f.Page)
	}
	if f.PerPage != DefaultPerPage {
		t.Errorf("PerPage = %d, want %d", f.PerPage, DefaultPerPage)
	}
}

func TestFilter_Normalize_AllSentinel(t *testing.T) {
	f := Filter{
		Category:        AllValues,
		EmploymentType:  AllValues,
		ExperienceLevel: AllValues,
	}.Normalize()

	if f.Category != "" {
		t.Errorf("Category = %q, want empty", f.Category)
	}
	if f.EmploymentType != "" {
		t.Errorf("EmploymentType = %q, want empty", f.EmploymentType)
	}
	if f.ExperienceLevel != "" {
		t.Errorf("ExperienceLevel = %q, want empty", f.ExperienceLevel)
	}
}

func TestFilter_Normalize_Clamps(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"negative page", -3, 30, 1, 30},
		{"zero page", 0, 30, 1, 30},
		{"oversized per_page", 1, 500, 1, MaxPerPage},
		{"zero per_page", 2, 0, 2, DefaultPerPage},
		{"in range", 4, 50, 4, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Page: tt.page, PerPage: tt.perPage}.Normalize()
			if f.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", f.Page, tt.wantPage)
			}
			if f.PerPage != tt.wantPerPage {
				t.Errorf("PerPage = %d, want %d", f.PerPage, tt.wantPerPage)
			}
		})
	}
}

func TestFilter_Normalize_TrimsSearch(t *testing.T) {
	f := Filter{Search: "  engineer  "}.Normalize()
	if f.Search != "engineer" {
		t.Errorf("Search = %q, want %q", f.Search, "engineer")
	}
}

func TestFilter_Offset(t *testing.T) {
	tests := []struct {
		page    int
		perPage int
		want    int
	}{
		{1, 30, 0},
		{2, 30, 30},
		{3, 10, 20},
		{-5, 30, 0}, // clamped by Normalize, never negative
	}
	for _, tt := range tests {
		f := Filter{Page: tt.page, PerPage: tt.perPage}.Normalize()
		if got := f.Offset(); got != tt.want {
			t.Errorf("Offset(page=%d, perPage=%d) = %d, want %d", tt.page, tt.perPage, got, tt.want)
		}
	}
}

func TestJob_TagList(t *testing.T) {
	j := &Job{Tags: "go, remote,, backend "}
	want := []string{"go", "remote", "backend"}
	if got := j.TagList(); !reflect.DeepEqual(got, want) {
		t.Errorf("TagList() = %v, want %v", got, want)
	}

	empty := &Job{}
	if got := empty.TagList(); got != nil {
		t.Errorf("TagList() on empty tags = %v, want nil", got)
	}
}

func TestJob_SalaryDisplay(t *testing.T) {
	min := int64(90000)
	max := int64(120000)

	tests := []struct {
		name string
		job  Job
		want string
	}{
		{"text override wins", Job{SalaryText: "$90k-$120k", SalaryMin: &min, SalaryMax: &max}, "$90k-$120k"},
		{"range", Job{SalaryMin: &min, SalaryMax: &max, SalaryCurrency: "USD"}, "USD 90,000 - 120,000"},
		{"min only", Job{SalaryMin: &min, SalaryCurrency: "EUR"}, "EUR 90,000+"},
		{"max only", Job{SalaryMax: &max, SalaryCurrency: "USD"}, "up to USD 120,000"},
		{"default currency", Job{SalaryMin: &min}, "USD 90,000+"},
		{"nothing", Job{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.job.SalaryDisplay(); got != tt.want {
				t.Errorf("SalaryDisplay() = %q, want %q", got, tt.want)
			}
		})
	}
}
