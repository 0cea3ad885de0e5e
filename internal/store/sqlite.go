package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// sqliteTime is the layout SQLite's strftime('%Y-%m-%dT%H:%M:%fZ') produces.
const sqliteTime = "2006-01-02T15:04:05.000Z"

// SQLite stores puzzles in the puzzles table; timestamps come from the database.
type SQLite struct{ db *sql.DB }

// NewSQLite wraps an open, migrated database handle.
func NewSQLite(db *sql.DB) *SQLite { return &SQLite{db: db} }

// Create inserts p under a fresh UUID.
func (s *SQLite) Create(ctx context.Context, p SavedPuzzle) (SavedPuzzle, error) {
	groups, err := json.Marshal(p.Groups)
	if err != nil {
		return SavedPuzzle{}, fmt.Errorf("encode groups: %w", err)
	}
	p.ID = uuid.NewString()

	var created, updated string
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO puzzles (id, title, groups) VALUES (?, ?, ?)
		 RETURNING created_at, updated_at`,
		p.ID, nullIfEmpty(p.Title), string(groups),
	).Scan(&created, &updated)
	if err != nil {
		return SavedPuzzle{}, fmt.Errorf("insert puzzle: %w", err)
	}
	p.CreatedAt = parseSQLiteTime(created)
	p.UpdatedAt = parseSQLiteTime(updated)
	return p, nil
}

// Get loads one puzzle by id.
func (s *SQLite) Get(ctx context.Context, id string) (SavedPuzzle, error) {
	var (
		p                SavedPuzzle
		title            sql.NullString
		groups           string
		created, updated string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, groups, created_at, updated_at FROM puzzles WHERE id=?`, id,
	).Scan(&p.ID, &title, &groups, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return SavedPuzzle{}, ErrNotFound
	}
	if err != nil {
		return SavedPuzzle{}, fmt.Errorf("select puzzle: %w", err)
	}
	if err := json.Unmarshal([]byte(groups), &p.Groups); err != nil {
		return SavedPuzzle{}, fmt.Errorf("decode groups: %w", err)
	}
	p.Title = title.String
	p.CreatedAt = parseSQLiteTime(created)
	p.UpdatedAt = parseSQLiteTime(updated)
	return p, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// parseSQLiteTime parses stored timestamps; on error returns zero time.
func parseSQLiteTime(s string) time.Time {
	t, _ := time.Parse(sqliteTime, s)
	return t
}
