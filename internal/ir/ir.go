package ir

import (
	"encoding/json"
	"strings"
	"time"
)

// Version is the schema version stamped on every stored review.
const Version = "1.0"

// DefaultFilename is used when a caller analyzes text without naming it.
const DefaultFilename = "inline.java"

type Category string

const (
	CategoryError        Category = "ERROR"
	CategoryWarning      Category = "WARNING"
	CategoryOptimization Category = "OPTIMIZATION"
	CategorySecurity     Category = "SECURITY"
)

// Categories lists every category in report order.
var Categories = []Category{CategoryError, CategoryWarning, CategoryOptimization, CategorySecurity}

// ParseCategory accepts any casing; ok is false for unknown values.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CategoryError, CategoryWarning, CategoryOptimization, CategorySecurity:
		return c, true
	}
	return "", false
}

type Severity string

const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

func ParseSeverity(s string) (Severity, bool) {
	v := Severity(strings.ToUpper(strings.TrimSpace(s)))
	switch v {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return v, true
	}
	return "", false
}

// Finding is one reported issue. Line 0 means the whole file.
type Finding struct {
	ID          int64    `json:"id,omitempty"`
	Rule        string   `json:"rule"`
	Line        int      `json:"line_number"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
}

// Counts holds per-category tallies. Build it with Tally.
type Counts struct {
	Errors        int `json:"error_count"`
	Warnings      int `json:"warning_count"`
	Optimizations int `json:"optimization_count"`
	Security      int `json:"security_count"`
}

// Total is always the sum of the four categories.
func (c Counts) Total() int {
	return c.Errors + c.Warnings + c.Optimizations + c.Security
}

func (c Counts) MarshalJSON() ([]byte, error) {
	type plain Counts
	return json.Marshal(struct {
		plain
		TotalIssues int `json:"total_issues"`
	}{plain(c), c.Total()})
}

// Tally counts findings per category.
func Tally(fs []Finding) Counts {
	var c Counts
	for _, f := range fs {
		switch f.Category {
		case CategoryError:
			c.Errors++
		case CategoryWarning:
			c.Warnings++
		case CategoryOptimization:
			c.Optimizations++
		case CategorySecurity:
			c.Security++
		}
	}
	return c
}

// Review is the analysis record handed to persistence.
type Review struct {
	ID        int64     `json:"review_id,omitempty"`
	Filename  string    `json:"filename"`
	Source    string    `json:"code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	IRVersion string    `json:"ir_version,omitempty"`

	Counts   Counts    `json:"counts"`
	Findings []Finding `json:"issues"`
}

// SetFindings replaces the finding list and recomputes the counts from it.
func (r *Review) SetFindings(fs []Finding) {
	r.Findings = fs
	r.Counts = Tally(fs)
}
