// Package storage provides SQLite-based persistence for player profiles and
// run history. Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNoProfile is returned when a profile has no recorded runs.
var ErrNoProfile = errors.New("storage: profile has no runs")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// RunRecord is one finished (or abandoned) run in the history.
type RunRecord struct {
	ID         int64
	RunID      string
	Profile    string
	Score      int
	Coins      int
	Awarded    int
	Duration   time.Duration
	Jumps      int
	DrewLine   bool
	DrawTime   time.Duration
	DeathCause string // Empty if the run was abandoned
	Revives    int
	NewBest    bool
	CreatedAt  time.Time
}

// ProfileStats contains aggregated statistics for a profile.
type ProfileStats struct {
	Profile    string
	RunsCount  int
	BestScore  int
	AvgScore   float64
	TotalCoins int64
	TotalTime  time.Duration
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS profile_kv (
			profile TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (profile, key)
		);

		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			profile TEXT NOT NULL,
			score INTEGER NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			awarded INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			jumps INTEGER NOT NULL DEFAULT 0,
			drew_line INTEGER NOT NULL DEFAULT 0,
			draw_ms INTEGER NOT NULL DEFAULT 0,
			death_cause TEXT,
			revives INTEGER NOT NULL DEFAULT 0,
			new_best INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_profile ON runs(profile);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(profile, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Value reads a profile key. The boolean is false if the key was never set.
func (s *Store) Value(profile, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM profile_kv WHERE profile = ? AND key = ?",
		profile, key,
	).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s/%s: %w", profile, key, err)
	}
	return value, true, nil
}

// SetValue writes a profile key, replacing any previous value.
func (s *Store) SetValue(profile, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO profile_kv (profile, key, value, updated_at)
		 VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot write %s/%s: %w", profile, key, err)
	}
	return nil
}

// RecordRun appends a run to the history.
// Returns the ID of the inserted record.
func (s *Store) RecordRun(rec RunRecord) (int64, error) {
	var cause sql.NullString
	if rec.DeathCause != "" {
		cause = sql.NullString{String: rec.DeathCause, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO runs
		 (run_id, profile, score, coins, awarded, duration_ms, jumps, drew_line, draw_ms, death_cause, revives, new_best)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Profile,
		rec.Score,
		rec.Coins,
		rec.Awarded,
		rec.Duration.Milliseconds(),
		rec.Jumps,
		boolInt(rec.DrewLine),
		rec.DrawTime.Milliseconds(),
		cause,
		rec.Revives,
		boolInt(rec.NewBest),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, run_id, profile, score, coins, awarded, duration_ms, jumps,
		        drew_line, draw_ms, death_cause, revives, new_best, created_at`

// TopRuns retrieves the best N runs of a profile, ordered by score descending.
func (s *Store) TopRuns(profile string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE profile = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		profile, limit,
	)
}

// RecentRuns retrieves the latest N runs of a profile, newest first.
func (s *Store) RecentRuns(profile string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRuns(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE profile = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		profile, limit,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]RunRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var durationMS, drawMS int64
		var drewLine, newBest int
		var cause sql.NullString
		var createdAt any

		if err := rows.Scan(
			&r.ID,
			&r.RunID,
			&r.Profile,
			&r.Score,
			&r.Coins,
			&r.Awarded,
			&durationMS,
			&r.Jumps,
			&drewLine,
			&drawMS,
			&cause,
			&r.Revives,
			&newBest,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.DrawTime = time.Duration(drawMS) * time.Millisecond
		r.DrewLine = drewLine != 0
		r.NewBest = newBest != 0
		if cause.Valid {
			r.DeathCause = cause.String
		}
		r.CreatedAt = parseTime(createdAt)

		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ProfileStats retrieves aggregated statistics for a profile.
// Returns ErrNoProfile if the profile has never finished a run.
func (s *Store) ProfileStats(profile string) (*ProfileStats, error) {
	stats := &ProfileStats{Profile: profile}

	var totalMS int64
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(awarded), 0), COALESCE(SUM(duration_ms), 0), MAX(created_at)
		 FROM runs WHERE profile = ?`,
		profile,
	).Scan(&stats.RunsCount, &stats.BestScore, &stats.AvgScore, &stats.TotalCoins, &totalMS, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get profile stats: %w", err)
	}
	if stats.RunsCount == 0 {
		return nil, ErrNoProfile
	}

	stats.TotalTime = time.Duration(totalMS) * time.Millisecond
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// Profiles lists every profile with recorded runs, best score first.
func (s *Store) Profiles() ([]ProfileStats, error) {
	rows, err := s.db.Query(
		`SELECT profile, COUNT(*), MAX(score), AVG(score), SUM(awarded), SUM(duration_ms), MAX(created_at)
		 FROM runs
		 GROUP BY profile
		 ORDER BY MAX(score) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list profiles: %w", err)
	}
	defer rows.Close()

	var out []ProfileStats
	for rows.Next() {
		var p ProfileStats
		var totalMS int64
		var lastPlayed any
		if err := rows.Scan(&p.Profile, &p.RunsCount, &p.BestScore, &p.AvgScore, &p.TotalCoins, &totalMS, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		p.TotalTime = time.Duration(totalMS) * time.Millisecond
		p.LastPlayed = parseTime(lastPlayed)
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

// ClearProfile deletes the run history and saved values of a profile.
func (s *Store) ClearProfile(profile string) error {
	if _, err := s.db.Exec("DELETE FROM runs WHERE profile = ?", profile); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM profile_kv WHERE profile = ?", profile); err != nil {
		return fmt.Errorf("storage: cannot clear profile values: %w", err)
	}
	return nil
}

// parseTime handles the datetime column as either time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
