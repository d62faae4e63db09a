// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     history
// Description: SQLite store for engine run records
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

// Package history persists TINY engine runs in a SQLite database so that
// accepted and rejected programs can be listed and summarized later.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	tinylog "github.com/msto63/tiny/foundation/core/log"
	"github.com/msto63/tiny/foundation/tiny"
)

// Filter defines criteria for listing runs
type Filter struct {
	Status tiny.Status
	Source string // substring match
	Since  time.Time
	Until  time.Time
	Limit  int
	Offset int
}

// Stats summarizes the stored runs
type Stats struct {
	Total       int
	ByStatus    map[tiny.Status]int
	ByStage     map[string]int
	AvgDuration time.Duration
	Oldest      time.Time
	Newest      time.Time
}

// Config holds configuration for the SQLite store
type Config struct {
	Path   string
	Logger *tinylog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/history.db",
	}
}

// Store is a SQLite backed tiny.Recorder
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *tinylog.Logger
}

var _ tiny.Recorder = (*Store)(nil)

// Open creates or opens the history database
func Open(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = tinylog.Discard()
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, storageError(err, "failed to create directory", "history.Open").
				WithDetail("path", cfg.Path)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, storageError(err, "failed to open database", "history.Open").
			WithDetail("path", cfg.Path)
	}
	if cfg.Path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, logger: logger.WithName("tiny-history")}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema", "history.Open")
	}

	s.logger.Debug("history store opened", tinylog.Field("path", cfg.Path))
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ns INTEGER NOT NULL,
		attempts INTEGER NOT NULL,
		status TEXT NOT NULL,
		stage TEXT,
		position INTEGER,
		line INTEGER,
		message TEXT,
		tokens INTEGER NOT NULL DEFAULT 0,
		nodes INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores one run; a missing id or start time is filled in
func (s *Store) Record(ctx context.Context, rec tiny.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at, duration_ns, attempts, status,
			stage, position, line, message, tokens, nodes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Source, rec.StartedAt.UTC(), int64(rec.Duration), rec.Attempts, string(rec.Status),
		rec.Stage, rec.Position, rec.Line, rec.Message, rec.Tokens, rec.Nodes)
	if err != nil {
		return storageError(err, "failed to insert run", "history.Record").
			WithRunID(rec.ID)
	}

	s.logger.Debug("run recorded",
		tinylog.Field("id", rec.ID).Merge(tinylog.Field("status", rec.Status)))
	return nil
}

// Get returns a single run by id
func (s *Store) Get(ctx context.Context, id string) (*tiny.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tinyerror.New("run not found").
			WithCode(tinyerror.CodeNotFound).
			WithOperation("history.Get").
			WithRunID(id)
	}
	if err != nil {
		return nil, storageError(err, "failed to read run", "history.Get").WithRunID(id)
	}
	return rec, nil
}

// Query lists runs matching the filter, newest first
func (s *Store) Query(ctx context.Context, filter Filter) ([]*tiny.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Source != "" {
		conditions = append(conditions, "source LIKE ?")
		args = append(args, "%"+filter.Source+"%")
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "started_at >= ?")
		args = append(args, filter.Since.UTC())
	}
	if !filter.Until.IsZero() {
		conditions = append(conditions, "started_at <= ?")
		args = append(args, filter.Until.UTC())
	}

	query := selectColumns
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY started_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET %d", filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query runs", "history.Query")
	}
	defer rows.Close()

	var runs []*tiny.RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, storageError(err, "failed to scan run", "history.Query")
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to iterate runs", "history.Query")
	}
	return runs, nil
}

// Stats returns aggregate numbers over all stored runs
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		ByStatus: make(map[tiny.Status]int),
		ByStage:  make(map[string]int),
	}

	var avg sql.NullFloat64
	var oldest, newest sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), AVG(duration_ns), MIN(started_at), MAX(started_at) FROM runs
	`).Scan(&stats.Total, &avg, &oldest, &newest)
	if err != nil {
		return nil, storageError(err, "failed to read totals", "history.Stats")
	}
	if avg.Valid {
		stats.AvgDuration = time.Duration(avg.Float64)
	}
	stats.Oldest = parseTime(oldest)
	stats.Newest = parseTime(newest)

	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COALESCE(stage, ''), COUNT(*) FROM runs GROUP BY status, stage
	`)
	if err != nil {
		return nil, storageError(err, "failed to group runs", "history.Stats")
	}
	defer rows.Close()

	for rows.Next() {
		var status, stage string
		var count int
		if err := rows.Scan(&status, &stage, &count); err != nil {
			return nil, storageError(err, "failed to scan group", "history.Stats")
		}
		stats.ByStatus[tiny.Status(status)] += count
		if stage != "" {
			stats.ByStage[stage] += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to iterate groups", "history.Stats")
	}
	return stats, nil
}

// Prune deletes runs started before now minus olderThan
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, storageError(err, "failed to prune runs", "history.Prune")
	}

	n, _ := result.RowsAffected()
	if n > 0 {
		s.logger.Info("history pruned",
			tinylog.Field("deleted", n).Merge(tinylog.Field("older_than", olderThan.String())))
	}
	return n, nil
}

// Vacuum reclaims space after pruning
func (s *Store) Vacuum(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return storageError(err, "vacuum failed", "history.Vacuum")
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

const selectColumns = `
	SELECT id, source, started_at, duration_ns, attempts, status,
		COALESCE(stage, ''), COALESCE(position, 0), COALESCE(line, 0),
		COALESCE(message, ''), tokens, nodes
	FROM runs`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*tiny.RunRecord, error) {
	var rec tiny.RunRecord
	var status string
	var durationNs int64
	err := row.Scan(&rec.ID, &rec.Source, &rec.StartedAt, &durationNs, &rec.Attempts, &status,
		&rec.Stage, &rec.Position, &rec.Line, &rec.Message, &rec.Tokens, &rec.Nodes)
	if err != nil {
		return nil, err
	}
	rec.Status = tiny.Status(status)
	rec.Duration = time.Duration(durationNs)
	return &rec, nil
}

// parseTime reads an aggregate timestamp, which go-sqlite3 returns as text
func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	for _, layout := range []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		time.RFC3339Nano,
	} {
		if t, err := time.Parse(layout, s.String); err == nil {
			return t
		}
	}
	return time.Time{}
}

func storageError(err error, message, op string) *tinyerror.Error {
	return tinyerror.Wrap(err, message).
		WithCode(tinyerror.CodeStorageError).
		WithOperation(op)
}
