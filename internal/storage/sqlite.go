// Package storage provides SQLite-based persistence for simulation runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/sim"
)

// DefaultPath is where the CLI keeps its run history.
const DefaultPath = "~/.frameloop/runs.db"

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one stored simulation summary.
type Run struct {
	ID        int64
	CreatedAt time.Time
	sim.Summary
}

// SceneStats aggregates the stored runs of one scene.
type SceneStats struct {
	Scene        string
	Runs         int
	TotalFrames  int64
	TotalSteps   int64
	CappedFrames int64
	MeanAlpha    float64
	LastRun      time.Time
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

	// Create parent directories
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
// Durations are stored as integer nanoseconds.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			scene_id TEXT NOT NULL,
			profile TEXT NOT NULL,
			seed INTEGER NOT NULL,
			fixed_delta_ns INTEGER NOT NULL,
			maximum_delta_ns INTEGER NOT NULL,
			frames INTEGER NOT NULL,
			fixed_steps INTEGER NOT NULL,
			max_steps_per_frame INTEGER NOT NULL,
			capped_frames INTEGER NOT NULL,
			dropped_ns INTEGER NOT NULL,
			elapsed_ns INTEGER NOT NULL,
			leftover_ns INTEGER NOT NULL,
			sim_time_ns INTEGER NOT NULL,
			mean_alpha REAL NOT NULL,
			final_fps REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_scene_id ON runs(scene_id);
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

// SaveRun records a finished simulation. Returns the ID of the inserted record.
func (s *Store) SaveRun(sum sim.Summary) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (
			scene_id, profile, seed, fixed_delta_ns, maximum_delta_ns,
			frames, fixed_steps, max_steps_per_frame, capped_frames,
			dropped_ns, elapsed_ns, leftover_ns, sim_time_ns, mean_alpha, final_fps
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.Scene, string(sum.Profile), sum.Seed, int64(sum.FixedDelta), int64(sum.MaximumDelta),
		sum.Frames, sum.FixedSteps, sum.MaxStepsPerFrame, sum.CappedFrames,
		int64(sum.Dropped), int64(sum.Elapsed), int64(sum.Leftover), int64(sum.SimTime),
		sum.MeanAlpha, sum.FinalFPS,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, scene_id, profile, seed, fixed_delta_ns, maximum_delta_ns,
	frames, fixed_steps, max_steps_per_frame, capped_frames,
	dropped_ns, elapsed_ns, leftover_ns, sim_time_ns, mean_alpha, final_fps, created_at`

// RecentRuns retrieves the latest runs of every scene, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs ORDER BY id DESC LIMIT ?`,
		limit,
	)
}

// RunsForScene retrieves the latest runs of one scene, newest first.
func (s *Store) RunsForScene(sceneID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT `+runColumns+` FROM runs WHERE scene_id = ? ORDER BY id DESC LIMIT ?`,
		sceneID, limit,
	)
}

// RunByID retrieves a single run. Returns nil, nil if it does not exist.
func (s *Store) RunByID(id int64) (*Run, error) {
	runs, err := s.queryRuns(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                                                  Run
			profile                                            string
			fixed, maximum, dropped, elapsed, leftover, simNS int64
			createdAt                                          any
		)
		if err := rows.Scan(
			&r.ID, &r.Scene, &profile, &r.Seed, &fixed, &maximum,
			&r.Frames, &r.FixedSteps, &r.MaxStepsPerFrame, &r.CappedFrames,
			&dropped, &elapsed, &leftover, &simNS, &r.MeanAlpha, &r.FinalFPS, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		r.Profile = config.Profile(profile)
		r.FixedDelta = time.Duration(fixed)
		r.MaximumDelta = time.Duration(maximum)
		r.Dropped = time.Duration(dropped)
		r.Elapsed = time.Duration(elapsed)
		r.Leftover = time.Duration(leftover)
		r.SimTime = time.Duration(simNS)
		r.CreatedAt = parseTimestamp(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes all runs of the given scene.
func (s *Store) ClearRuns(sceneID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE scene_id = ?", sceneID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// GetSceneStats retrieves aggregated statistics for one scene.
func (s *Store) GetSceneStats(sceneID string) (*SceneStats, error) {
	stats := &SceneStats{Scene: sceneID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(frames), 0), COALESCE(SUM(fixed_steps), 0),
		        COALESCE(SUM(capped_frames), 0), COALESCE(AVG(mean_alpha), 0)
		 FROM runs WHERE scene_id = ?`,
		sceneID,
	).Scan(&stats.Runs, &stats.TotalFrames, &stats.TotalSteps, &stats.CappedFrames, &stats.MeanAlpha)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get scene stats: %w", err)
	}

	var lastRun any
	err = s.db.QueryRow(
		`SELECT created_at FROM runs WHERE scene_id = ? ORDER BY id DESC LIMIT 1`,
		sceneID,
	).Scan(&lastRun)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last run: %w", err)
	}
	if err == nil {
		stats.LastRun = parseTimestamp(lastRun)
	}

	return stats, nil
}

// parseTimestamp handles created_at coming back as either time.Time or text.
func parseTimestamp(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
