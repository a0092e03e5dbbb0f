// Package history keeps a per-job journal of transcode outcomes in a
// local SQLite database. The journal is strictly best-effort: callers
// log and ignore its errors, and a broken journal never fails a run.
package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tonemill/tonemill/internal/transcode"
)

//go:embed schema.sql
var schemaSQL string

// Journal records and lists transcode outcomes.
type Journal struct {
	db *sql.DB
}

// DefaultPath returns the journal location under the user cache dir.
func DefaultPath() string {
	cache, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".", "tonemill-history.db")
	}
	return filepath.Join(cache, "tonemill", "history.db")
}

// Open opens (creating if needed) the journal database at path and
// applies the schema.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record journals one terminal outcome.
func (j *Journal) Record(o transcode.Outcome) error {
	_, err := j.db.Exec(`
		INSERT INTO transcodes
			(source_path, output_path, source_fmt, target_fmt, quality,
			 status, reason, error, warning, exit_code, duration_ms, bytes_out, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.Job.SourcePath, o.Job.OutputPath, o.Job.Source.String(), o.Job.Target.String(), o.Job.Quality,
		string(o.Status), o.Reason, o.ErrorDetail, o.Warning, o.ExitCode,
		o.Duration.Milliseconds(), o.BytesOut, o.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}
	return nil
}

// Entry is one journaled transcode.
type Entry struct {
	ID         int64
	SourcePath string
	OutputPath string
	SourceFmt  string
	TargetFmt  string
	Quality    int
	Status     string
	Reason     string
	Error      string
	Warning    string
	ExitCode   int
	DurationMS int64
	BytesOut   int64
	StartedAt  time.Time
	CreatedAt  time.Time
}

// List returns the most recent entries, newest first. failedOnly narrows
// the listing to failed jobs.
func (j *Journal) List(limit int, failedOnly bool) ([]Entry, error) {
	query := `
		SELECT id, source_path, output_path, source_fmt, target_fmt, quality,
		       status, reason, error, warning, exit_code, duration_ms, bytes_out,
		       started_at, created_at
		FROM transcodes`
	args := []any{}
	if failedOnly {
		query += ` WHERE status = ?`
		args = append(args, string(transcode.StatusFailed))
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.SourcePath, &e.OutputPath, &e.SourceFmt, &e.TargetFmt, &e.Quality,
			&e.Status, &e.Reason, &e.Error, &e.Warning, &e.ExitCode, &e.DurationMS, &e.BytesOut,
			&e.StartedAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
