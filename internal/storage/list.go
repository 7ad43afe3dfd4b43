package storage

import (
	"database/sql"
	"time"

	"github.com/codewithboateng/jreview/internal/ir"
)

// ReviewRow is a lightweight listing row for /reviews.
type ReviewRow struct {
	ID        int64     `json:"review_id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
	Counts    ir.Counts `json:"counts"`
}

// Summary is the dashboard aggregate over every stored review.
type Summary struct {
	Reviews int       `json:"total_reviews"`
	Counts  ir.Counts `json:"counts"`
}

// ListReviews returns reviews newest first.
func (db *DB) ListReviews(limit, offset int) ([]ReviewRow, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	const q = `
		SELECT id, filename, created_at,
		       error_count, warning_count, optimization_count, security_count
		  FROM reviews
		 ORDER BY id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReviewRow
	for rows.Next() {
		var rr ReviewRow
		var created string
		if err := rows.Scan(&rr.ID, &rr.Filename, &created,
			&rr.Counts.Errors, &rr.Counts.Warnings, &rr.Counts.Optimizations, &rr.Counts.Security); err != nil {
			return nil, err
		}
		rr.CreatedAt = parseTime(created)
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListFindings returns a review's findings in the order the engine produced them.
func (db *DB) ListFindings(reviewID int64) ([]ir.Finding, error) {
	const q = `
		SELECT id, COALESCE(rule,''), line_number, COALESCE(title,''), COALESCE(description,''),
		       COALESCE(suggestion,''), category, severity
		  FROM findings
		 WHERE review_id = ?
		 ORDER BY seq`
	rows, err := db.conn.Query(q, reviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ir.Finding
	for rows.Next() {
		var f ir.Finding
		var cat, sev string
		if err := rows.Scan(&f.ID, &f.Rule, &f.Line, &f.Title, &f.Description, &f.Suggestion, &cat, &sev); err != nil {
			return nil, err
		}
		f.Category, f.Severity = ir.Category(cat), ir.Severity(sev)
		out = append(out, f)
	}
	return out, rows.Err()
}

// Summary sums the stored per-category counts. The issue total is derived
// from the four sums, never counted separately.
func (db *DB) Summary() (Summary, error) {
	const q = `
		SELECT COUNT(1),
		       COALESCE(SUM(error_count),0), COALESCE(SUM(warning_count),0),
		       COALESCE(SUM(optimization_count),0), COALESCE(SUM(security_count),0)
		  FROM reviews`
	var s Summary
	err := db.conn.QueryRow(q).Scan(&s.Reviews,
		&s.Counts.Errors, &s.Counts.Warnings, &s.Counts.Optimizations, &s.Counts.Security)
	return s, err
}

func (db *DB) HasReview(id int64) (bool, error) {
	const q = `SELECT 1 FROM reviews WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}
