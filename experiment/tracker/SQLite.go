package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	ts "github.com/samuelfneumann/wirefit/timestep"

	_ "modernc.org/sqlite"
)

// Episode is a finished episode tracked by an SQLite Tracker
type Episode struct {
	Index  int
	Steps  int
	Return float64
}

// SQLite tracks the episodic return and episode length of an
// experiment run and saves them to an SQLite database. Episodes are
// cached in memory by Track and written in a single transaction by
// Save. Each run is identified by a UUID so that many runs can share a
// database.
type SQLite struct {
	episodeReturn
	db       *sql.DB
	runID    uuid.UUID
	episodes int
	pending  []Episode
}

// NewSQLite opens the SQLite database at path, creating it and its
// tables if needed, and records a new run with the given description
func NewSQLite(ctx context.Context, path string, runID uuid.UUID,
	description string) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("newSQLite: sqlite path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("newSQLite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("newSQLite: %w", err)
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("newSQLite: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, description)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET description = excluded.description
	`, runID.String(), time.Now().UTC().Format(time.RFC3339), description)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("newSQLite: could not record run: %w", err)
	}

	return &SQLite{
		episodeReturn: newEpisodeReturn(),
		db:            db,
		runID:         runID,
	}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			description TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS episodes (
			run_id TEXT NOT NULL REFERENCES runs(id),
			episode INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			episode_return REAL NOT NULL,
			PRIMARY KEY (run_id, episode)
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("could not create tables: %w", err)
		}
	}
	return nil
}

// RunID returns the identifier of the tracked run
func (s *SQLite) RunID() uuid.UUID {
	return s.runID
}

// Track tracks the rewards seen on a timestep, caching the episode once
// it ends.
//
// Track panics if it is called for non-sequential timesteps
func (s *SQLite) Track(step ts.TimeStep) {
	if ret, steps, done := s.add(step); done {
		s.pending = append(s.pending, Episode{
			Index:  s.episodes,
			Steps:  steps,
			Return: ret,
		})
		s.episodes++
	}
}

// Save writes all cached episodes to the database
func (s *SQLite) Save() error {
	return s.SaveContext(context.Background())
}

// SaveContext writes all cached episodes to the database
func (s *SQLite) SaveContext(ctx context.Context) error {
	if len(s.pending) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	for _, ep := range s.pending {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO episodes (run_id, episode, steps, episode_return)
			VALUES (?, ?, ?, ?)
		`, s.runID.String(), ep.Index, ep.Steps, ep.Return)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("save: could not insert episode %v: %w",
				ep.Index, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	s.pending = nil
	return nil
}

// Episodes returns the saved episodes of the run with the given ID in
// order
func (s *SQLite) Episodes(ctx context.Context, runID uuid.UUID) ([]Episode,
	error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT episode, steps, episode_return FROM episodes
		WHERE run_id = ? ORDER BY episode
	`, runID.String())
	if err != nil {
		return nil, fmt.Errorf("episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		var ep Episode
		if err := rows.Scan(&ep.Index, &ep.Steps, &ep.Return); err != nil {
			return nil, fmt.Errorf("episodes: %w", err)
		}
		episodes = append(episodes, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("episodes: %w", err)
	}
	return episodes, nil
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
