package history

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const timeLayout = "2006-01-02 15:04:05"

// Entry is one applied filter
type Entry struct {
	ID           int
	Token        string
	Description  string
	RowCount     int
	AppliedAt    time.Time
	Duration     time.Duration
	Success      bool
	ErrorMessage string
}

// Store persists the filters applied to the listing
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the history database at path
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Create schema
	_, err = db.Exec(schemaSQL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Add records an applied filter
func (s *Store) Add(entry Entry) error {
	_, err := s.db.Exec(`
		INSERT INTO filter_history
		(token, description, row_count, duration_ms, success, error_message)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Token,
		entry.Description,
		entry.RowCount,
		entry.Duration.Milliseconds(),
		entry.Success,
		entry.ErrorMessage,
	)
	return err
}

const selectColumns = `
		SELECT id, token, description, row_count, applied_at,
		       duration_ms, success, error_message
		FROM filter_history`

// GetRecent retrieves the most recent entries, newest first
func (s *Store) GetRecent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(selectColumns+`
		ORDER BY applied_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Search matches the token or the description
func (s *Store) Search(query string, limit int) ([]Entry, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.Query(selectColumns+`
		WHERE description LIKE ? OR token LIKE ?
		ORDER BY applied_at DESC, id DESC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Distinct returns the latest entry of each successful token, newest first
func (s *Store) Distinct(limit int) ([]Entry, error) {
	rows, err := s.db.Query(selectColumns+`
		WHERE id IN (
			SELECT MAX(id) FROM filter_history WHERE success GROUP BY token
		)
		ORDER BY applied_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Prune keeps the newest max entries; max <= 0 keeps everything
func (s *Store) Prune(max int) (int64, error) {
	if max <= 0 {
		return 0, nil
	}
	res, err := s.db.Exec(`
		DELETE FROM filter_history
		WHERE id NOT IN (
			SELECT id FROM filter_history ORDER BY applied_at DESC, id DESC LIMIT ?
		)`, max)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Clear removes every entry
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM filter_history`)
	return err
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var durationMs int64
		var appliedAt string

		err := rows.Scan(
			&e.ID,
			&e.Token,
			&e.Description,
			&e.RowCount,
			&appliedAt,
			&durationMs,
			&e.Success,
			&e.ErrorMessage,
		)
		if err != nil {
			return nil, err
		}

		e.Duration = time.Duration(durationMs) * time.Millisecond
		e.AppliedAt = parseTime(appliedAt)

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// parseTime accepts both the plain sqlite layout and the RFC 3339 form the
// driver produces for DATETIME columns
func parseTime(s string) time.Time {
	if t, err := time.Parse(timeLayout, s); err == nil {
		return t
	}
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
