package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // CGO-free SQLite driver

	"github.com/codewithboateng/jreview/internal/ir"
)

// ErrNotFound is returned when a review id does not exist.
var ErrNotFound = errors.New("not found")

// DB is the concrete storage backed by SQLite.
type DB struct {
	conn *sql.DB
}

// OpenSQLite opens (and creates if missing) a SQLite DB at path.
func OpenSQLite(path string) (*DB, error) {
	// Pragmas via DSN keep it portable with the modernc driver.
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)"
	c, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	return &DB{conn: c}, nil
}

func (db *DB) Close() error { return db.conn.Close() }

// CreateSchema ensures tables exist.
func (db *DB) CreateSchema() error {
	_, err := db.conn.Exec(`
CREATE TABLE IF NOT EXISTS reviews (
  id                 INTEGER PRIMARY KEY AUTOINCREMENT,
  filename           TEXT NOT NULL,
  code               TEXT NOT NULL,
  created_at         TEXT NOT NULL,   -- RFC3339Nano
  ir_version         TEXT,
  error_count        INTEGER NOT NULL DEFAULT 0,
  warning_count      INTEGER NOT NULL DEFAULT 0,
  optimization_count INTEGER NOT NULL DEFAULT 0,
  security_count     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS findings (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  review_id   INTEGER NOT NULL,
  seq         INTEGER NOT NULL,       -- position in the review's finding list
  rule        TEXT,
  line_number INTEGER NOT NULL,
  title       TEXT,
  description TEXT,
  suggestion  TEXT,
  category    TEXT NOT NULL,
  severity    TEXT NOT NULL,
  FOREIGN KEY(review_id) REFERENCES reviews(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_findings_review ON findings(review_id);
CREATE INDEX IF NOT EXISTS idx_findings_rule ON findings(rule);

CREATE TABLE IF NOT EXISTS rule_states (
  name       TEXT PRIMARY KEY,
  enabled    INTEGER NOT NULL,
  updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT UNIQUE NOT NULL,
  pass_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'viewer',
  created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
  token TEXT PRIMARY KEY,
  user_id INTEGER NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL,
  FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS audit (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts TEXT NOT NULL,
  username TEXT,
  action TEXT NOT NULL,
  resource TEXT,
  meta_json TEXT
);

CREATE TABLE IF NOT EXISTS waivers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  rule        TEXT NOT NULL,
  filename    TEXT,              -- optional exact match; NULL = any
  pattern     TEXT,              -- optional substring of title/description
  reason      TEXT NOT NULL,
  expires_at  TEXT NOT NULL,     -- RFC3339Nano
  created_by  TEXT NOT NULL,
  created_at  TEXT NOT NULL,
  revoked_at  TEXT               -- NULL = active
);
`)
	return err
}

// SaveReview inserts the review and its findings in one transaction and
// assigns r.ID and every finding ID. Ids increase monotonically.
func (db *DB) SaveReview(r *ir.Review) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	if r.Filename == "" {
		r.Filename = ir.DefaultFilename
	}
	if r.IRVersion == "" {
		r.IRVersion = ir.Version
	}
	// counts are never trusted from the caller
	r.Counts = ir.Tally(r.Findings)

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(
		`INSERT INTO reviews (filename, code, created_at, ir_version,
		                      error_count, warning_count, optimization_count, security_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Filename, r.Source, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.IRVersion,
		r.Counts.Errors, r.Counts.Warnings, r.Counts.Optimizations, r.Counts.Security,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if len(r.Findings) > 0 {
		stmt, err := tx.Prepare(`
			INSERT INTO findings
			(review_id, seq, rule, line_number, title, description, suggestion, category, severity)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i := range r.Findings {
			f := &r.Findings[i]
			res, err := stmt.Exec(id, i, f.Rule, f.Line, f.Title, f.Description, f.Suggestion,
				string(f.Category), string(f.Severity))
			if err != nil {
				return fmt.Errorf("insert finding: %w", err)
			}
			if f.ID, err = res.LastInsertId(); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	r.ID = id
	return nil
}

// LoadReview returns the full review with its findings in stored order.
func (db *DB) LoadReview(id int64) (ir.Review, error) {
	var (
		r       ir.Review
		created string
		irv     sql.NullString
	)
	row := db.conn.QueryRow(`
		SELECT id, filename, code, created_at, ir_version,
		       error_count, warning_count, optimization_count, security_count
		  FROM reviews WHERE id = ?`, id)
	err := row.Scan(&r.ID, &r.Filename, &r.Source, &created, &irv,
		&r.Counts.Errors, &r.Counts.Warnings, &r.Counts.Optimizations, &r.Counts.Security)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Review{}, fmt.Errorf("review %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return ir.Review{}, err
	}
	r.CreatedAt = parseTime(created)
	r.IRVersion = irv.String

	fs, err := db.ListFindings(id)
	if err != nil {
		return ir.Review{}, err
	}
	r.Findings = fs
	return r, nil
}

// parseTime reads RFC3339Nano first, falling back to RFC3339. Unparsable
// values give the zero time.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
