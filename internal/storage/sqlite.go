// Package storage records simulation runs in SQLite.
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
)

// Store manages the SQLite database connection for the run log.
type Store struct {
	db *sql.DB
}

// Run is one autoplay session.
type Run struct {
	ID          int64
	BoardID     string // "random" for generated boards
	Seed        int64
	Width       int
	Height      int
	Colors      int
	Moves       int
	Passes      int
	Cleared     int
	Specials    int
	Detonations int
	Warnings    int
	Stuck       bool
	CreatedAt   time.Time
}

// MoveEntry is one swap of a run.
type MoveEntry struct {
	RunID   int64
	N       int    // 1-based move number
	Swap    string // "(x1,y1)<->(x2,y2)"
	Passes  int
	Cleared int
}

// BoardStats contains aggregated statistics for a board.
type BoardStats struct {
	BoardID     string
	Runs        int
	BestCleared int
	AvgCleared  float64
	MaxPasses   int // longest single move, in passes
	LastRun     time.Time
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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			colors INTEGER NOT NULL,
			moves INTEGER NOT NULL DEFAULT 0,
			passes INTEGER NOT NULL DEFAULT 0,
			cleared INTEGER NOT NULL DEFAULT 0,
			specials INTEGER NOT NULL DEFAULT 0,
			detonations INTEGER NOT NULL DEFAULT 0,
			warnings INTEGER NOT NULL DEFAULT 0,
			stuck INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_board_id ON runs(board_id);

		CREATE TABLE IF NOT EXISTS moves (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			n INTEGER NOT NULL,
			swap TEXT NOT NULL,
			passes INTEGER NOT NULL,
			cleared INTEGER NOT NULL,
			PRIMARY KEY (run_id, n)
		);
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

// SaveRun records a run and its moves in one transaction.
// Returns the ID of the inserted run.
func (s *Store) SaveRun(run Run, moves []MoveEntry) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`INSERT INTO runs
		 (board_id, seed, width, height, colors, moves, passes, cleared, specials, detonations, warnings, stuck)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.BoardID, run.Seed, run.Width, run.Height, run.Colors,
		run.Moves, run.Passes, run.Cleared, run.Specials, run.Detonations, run.Warnings,
		run.Stuck,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	for _, m := range moves {
		if _, err := tx.Exec(
			"INSERT INTO moves (run_id, n, swap, passes, cleared) VALUES (?, ?, ?, ?, ?)",
			id, m.N, m.Swap, m.Passes, m.Cleared,
		); err != nil {
			return 0, fmt.Errorf("storage: cannot save move %d: %w", m.N, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("storage: cannot commit run: %w", err)
	}
	return id, nil
}

const runColumns = `id, board_id, seed, width, height, colors, moves, passes,
	cleared, specials, detonations, warnings, stuck, created_at`

// RecentRuns retrieves the most recent runs, newest first. An empty boardID
// matches every board.
func (s *Store) RecentRuns(boardID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ? = '' OR board_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		boardID, boardID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// RunByID retrieves a run. Returns nil if it doesn't exist.
func (s *Store) RunByID(id int64) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RunMoves retrieves the moves of a run in play order.
func (s *Store) RunMoves(runID int64) ([]MoveEntry, error) {
	rows, err := s.db.Query(
		`SELECT run_id, n, swap, passes, cleared FROM moves WHERE run_id = ? ORDER BY n`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveEntry
	for rows.Next() {
		var m MoveEntry
		if err := rows.Scan(&m.RunID, &m.N, &m.Swap, &m.Passes, &m.Cleared); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		moves = append(moves, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return moves, nil
}

// BoardStatsFor retrieves aggregated statistics for a board.
func (s *Store) BoardStatsFor(boardID string) (*BoardStats, error) {
	stats := &BoardStats{BoardID: boardID}

	var lastRun any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(cleared), 0), COALESCE(AVG(cleared), 0), MAX(created_at)
		 FROM runs WHERE board_id = ?`,
		boardID,
	).Scan(&stats.Runs, &stats.BestCleared, &stats.AvgCleared, &lastRun)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get board stats: %w", err)
	}
	stats.LastRun = parseTime(lastRun)

	err = s.db.QueryRow(
		`SELECT COALESCE(MAX(m.passes), 0)
		 FROM moves m JOIN runs r ON r.id = m.run_id
		 WHERE r.board_id = ?`,
		boardID,
	).Scan(&stats.MaxPasses)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get longest move: %w", err)
	}

	return stats, nil
}

// AllBoardStats retrieves statistics for every board that has runs.
func (s *Store) AllBoardStats() (map[string]*BoardStats, error) {
	rows, err := s.db.Query(
		`SELECT board_id, COUNT(*), MAX(cleared), AVG(cleared), MAX(created_at)
		 FROM runs
		 GROUP BY board_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all board stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BoardStats)
	for rows.Next() {
		var bs BoardStats
		var lastRun any
		if err := rows.Scan(&bs.BoardID, &bs.Runs, &bs.BestCleared, &bs.AvgCleared, &lastRun); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		bs.LastRun = parseTime(lastRun)
		stats[bs.BoardID] = &bs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// ClearRuns deletes all runs of the given board, moves included.
func (s *Store) ClearRuns(boardID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"DELETE FROM moves WHERE run_id IN (SELECT id FROM runs WHERE board_id = ?)", boardID,
	); err != nil {
		return fmt.Errorf("storage: cannot clear moves: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE board_id = ?", boardID); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var createdAt any
	err := sc.Scan(
		&r.ID, &r.BoardID, &r.Seed, &r.Width, &r.Height, &r.Colors,
		&r.Moves, &r.Passes, &r.Cleared, &r.Specials, &r.Detonations, &r.Warnings,
		&r.Stuck, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("storage: cannot scan row: %w", err)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes.
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
