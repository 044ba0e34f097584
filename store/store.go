// Package store records finished runs in a SQLite database so the fastest
// escapes can be listed.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT    NOT NULL,
	moves       INTEGER NOT NULL,
	hints       INTEGER NOT NULL,
	items       TEXT    NOT NULL,
	finished_at INTEGER NOT NULL
)`

// Run is one completed escape.
type Run struct {
	ID         int64
	SessionID  string
	Moves      int
	Hints      int
	Items      []string
	FinishedAt time.Time
}

// Store wraps the runs database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	// SQLite serializes writers; one connection avoids "database is locked".
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: creating schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordWin stores a finished run and returns it with its ID and time set.
func (s *Store) RecordWin(ctx context.Context, run Run) (Run, error) {
	if run.SessionID == "" {
		return Run{}, errors.New("store: run has no session id")
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = s.now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (session_id, moves, hints, items, finished_at) VALUES (?, ?, ?, ?, ?)`,
		run.SessionID, run.Moves, run.Hints, strings.Join(run.Items, "\n"), run.FinishedAt.UnixNano())
	if err != nil {
		return Run{}, fmt.Errorf("store: recording run: %w", err)
	}
	run.ID, err = res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("store: recording run: %w", err)
	}
	return run, nil
}

// Best returns the run with the fewest moves, then fewest hints, then the
// earliest finish. The bool is false when no run has been recorded.
func (s *Store) Best(ctx context.Context) (Run, bool, error) {
	runs, err := s.query(ctx,
		`SELECT id, session_id, moves, hints, items, finished_at FROM runs
		 ORDER BY moves ASC, hints ASC, finished_at ASC, id ASC LIMIT 1`)
	if err != nil {
		return Run{}, false, err
	}
	if len(runs) == 0 {
		return Run{}, false, nil
	}
	return runs[0], true, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		return nil, nil
	}
	return s.query(ctx,
		`SELECT id, session_id, moves, hints, items, finished_at FROM runs
		 ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			items    string
			finished int64
		)
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Moves, &r.Hints, &items, &finished); err != nil {
			return nil, fmt.Errorf("store: scanning run: %w", err)
		}
		if items != "" {
			r.Items = strings.Split(items, "\n")
		}
		r.FinishedAt = time.Unix(0, finished)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: reading runs: %w", err)
	}
	return runs, nil
}
