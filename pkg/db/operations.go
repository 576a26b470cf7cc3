package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/scholarship-tracker/models"
)

// GetValue returns the raw value stored under key.
// The boolean is false when the key has never been written.
func (db *DB) GetValue(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get value %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// SetValue writes value under key, replacing whatever was there.
func (db *DB) SetValue(ctx context.Context, key string, value []byte) error {
	if err := setValue(ctx, db.DB, key, value); err != nil {
		return err
	}
	return nil
}

// UpdateValue runs fn over the current value of key inside one transaction and
// stores what fn returns. Returning an error from fn rolls back.
func (db *DB) UpdateValue(ctx context.Context, key string, fn func(current []byte, ok bool) ([]byte, error)) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	var current string
	ok := true
	err = tx.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		ok = false
	} else if err != nil {
		return fmt.Errorf("failed to read value %s: %w", key, err)
	}

	var in []byte
	if ok {
		in = []byte(current)
	}
	next, err := fn(in, ok)
	if err != nil {
		return err
	}

	if err := setValue(ctx, tx, key, next); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", key, err)
	}
	return nil
}

// DeleteValue removes key. Missing keys are not an error.
func (db *DB) DeleteValue(ctx context.Context, key string) error {
	if _, err := db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete value %s: %w", key, err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func setValue(ctx context.Context, ex execer, key string, value []byte) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to set value %s: %w", key, err)
	}
	return nil
}

// InsertReview appends a classification attempt to the history.
func (db *DB) InsertReview(ctx context.Context, entry models.ReviewEntry) (int64, error) {
	reviewedAt := entry.ReviewedAt
	if reviewedAt.IsZero() {
		reviewedAt = time.Now()
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO review_history (run_id, url, link_index, status, raw_text, language, error, reviewed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, NewNullString(entry.RunID), entry.URL, entry.Index, NewNullString(string(entry.Status)),
		NewNullString(entry.RawText), NewNullString(entry.Language), NewNullString(entry.Error), reviewedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert review: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get review ID: %w", err)
	}
	return id, nil
}

// ListReviews returns the most recent reviews, newest first.
// An empty url lists reviews for every link.
func (db *DB) ListReviews(ctx context.Context, url string, limit int) ([]models.ReviewEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT review_id, run_id, url, link_index, status, raw_text, language, error, reviewed_at
		FROM review_history
	`
	args := []any{}
	if url != "" {
		query += " WHERE url = ?"
		args = append(args, url)
	}
	query += " ORDER BY reviewed_at DESC, review_id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var entries []models.ReviewEntry
	for rows.Next() {
		var (
			e                                         models.ReviewEntry
			runID, status, rawText, language, errText sql.NullString
		)
		if err := rows.Scan(&e.ID, &runID, &e.URL, &e.Index, &status, &rawText, &language, &errText, &e.ReviewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		e.RunID = runID.String
		e.Status = models.Status(status.String)
		e.RawText = rawText.String
		e.Language = language.String
		e.Error = errText.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reviews: %w", err)
	}
	return entries, nil
}

// NewNullString maps empty strings to SQL NULL.
func NewNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
