// Package store persists analysis runs in SQLite so they can be listed and
// replayed from the CLI.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"subarray/internal/analysis"
	"subarray/internal/logging"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DefaultRecentLimit is used by Recent when limit <= 0.
const DefaultRecentLimit = 20

// ErrRunNotFound is returned by Get for unknown run IDs.
var ErrRunNotFound = errors.New("analysis run not found")

// Run is one persisted analysis.
type Run struct {
	ID        string
	Algorithm string
	Target    float64
	Values    []float64
	Result    analysis.Result
	CreatedAt time.Time
}

// HistoryStore records analysis runs in a SQLite database.
type HistoryStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
	logger *zap.Logger
}

// NewHistoryStore opens (creating if needed) the database at path.
// ":memory:" gives a private in-memory store.
func NewHistoryStore(path string, logger *zap.Logger) (*HistoryStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every pooled connection to ":memory:" would be a separate database.
	db.SetMaxOpenConns(1)

	s := &HistoryStore{db: db, dbPath: path, logger: logging.OrNop(logger)}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("history store opened", zap.String("path", path))
	return s, nil
}

func (s *HistoryStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		algorithm TEXT NOT NULL,
		target REAL NOT NULL DEFAULT 0,
		input_json TEXT NOT NULL,
		start_index INTEGER NOT NULL,
		end_index INTEGER NOT NULL,
		total REAL NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_created ON analysis_runs(created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Record stores an analysis of values and returns the new run ID.
func (s *HistoryStore) Record(ctx context.Context, algorithm string, target float64, values []float64, r analysis.Result) (string, error) {
	if values == nil {
		values = []float64{}
	}
	input, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode input: %w", err)
	}

	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analysis_runs (id, algorithm, target, input_json, start_index, end_index, total, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, algorithm, target, string(input), r.StartIndex(), r.EndIndex(), r.Total(), time.Now().UnixNano(),
	)
	if err != nil {
		s.logger.Error("failed to record analysis", zap.String("algorithm", algorithm), zap.Error(err))
		return "", fmt.Errorf("failed to record analysis: %w", err)
	}

	s.logger.Debug("analysis recorded", zap.String("id", id), zap.String("algorithm", algorithm), zap.Int("values", len(values)))
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, algorithm, target, input_json, start_index, end_index, total, created_at
		 FROM analysis_runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return runs, nil
}

// Get returns a single run by ID.
func (s *HistoryStore) Get(ctx context.Context, id string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, algorithm, target, input_json, start_index, end_index, total, created_at
		 FROM analysis_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run        Run
		input      string
		start, end int
		total      float64
		created    int64
	)
	if err := sc.Scan(&run.ID, &run.Algorithm, &run.Target, &input, &start, &end, &total, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("failed to scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(input), &run.Values); err != nil {
		return Run{}, fmt.Errorf("failed to decode input of run %s: %w", run.ID, err)
	}
	run.Result = analysis.NewResult(start, end, total)
	run.CreatedAt = time.Unix(0, created)
	return run, nil
}
