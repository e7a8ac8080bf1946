package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database at path, creating its
// directory if needed. Use MemoryPath for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := ":memory:?_pragma=foreign_keys(1)"
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	s.logger.Debug("state store opened", "path", path)
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func generateID() string {
	return uuid.New().String()
}

func now() time.Time {
	return time.Now().UTC()
}

// StartConversion records a conversion in the running state.
func (s *SQLiteStore) StartConversion(source, context, hash string) (*Conversion, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	c := &Conversion{
		ID:        generateID(),
		Source:    source,
		Context:   context,
		InputHash: hash,
		Status:    StatusRunning,
		StartedAt: now(),
	}
	_, err := s.db.Exec(
		`INSERT INTO conversions (id, source, context_name, input_hash, status, started_at) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Source, c.Context, c.InputHash, string(c.Status), c.StartedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start conversion: %w", err)
	}
	return c, nil
}

// CompleteConversion marks a conversion successful.
func (s *SQLiteStore) CompleteConversion(id string, stats Stats, output string) error {
	return s.finish(id,
		`UPDATE conversions SET status = ?, entities = ?, nodes = ?, links = ?, output = ?, completed_at = ? WHERE id = ?`,
		string(StatusSuccess), stats.Entities, stats.Nodes, stats.Links, output, now().UnixMilli(), id)
}

// FailConversion marks a conversion failed with errMsg.
func (s *SQLiteStore) FailConversion(id, errMsg string) error {
	return s.finish(id,
		`UPDATE conversions SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(StatusFailed), errMsg, now().UnixMilli(), id)
}

func (s *SQLiteStore) finish(id, query string, args ...any) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update conversion: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

const selectConversion = `SELECT id, source, context_name, input_hash, output, entities, nodes, links, status, error, started_at, completed_at FROM conversions`

// GetConversion retrieves a conversion by ID.
func (s *SQLiteStore) GetConversion(id string) (*Conversion, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	c, err := scanConversion(s.db.QueryRow(selectConversion+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion: %w", err)
	}
	return c, nil
}

// LatestByHash returns the most recent successful conversion of an input
// with the given hash, or nil when there is none.
func (s *SQLiteStore) LatestByHash(hash string) (*Conversion, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	c, err := scanConversion(s.db.QueryRow(
		selectConversion+` WHERE input_hash = ? AND status = ? ORDER BY started_at DESC LIMIT 1`,
		hash, string(StatusSuccess),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversion by hash: %w", err)
	}
	return c, nil
}

// ListConversions returns the most recent conversions, newest first. A
// non-positive limit returns all of them.
func (s *SQLiteStore) ListConversions(limit int) ([]*Conversion, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(selectConversion+` ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	defer rows.Close()

	var out []*Conversion
	for rows.Next() {
		c, err := scanConversion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conversion: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversion(row rowScanner) (*Conversion, error) {
	var (
		c           Conversion
		status      string
		errMsg      sql.NullString
		startedAt   int64
		completedAt sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.Source, &c.Context, &c.InputHash, &c.Output,
		&c.Stats.Entities, &c.Stats.Nodes, &c.Stats.Links,
		&status, &errMsg, &startedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	c.Status = Status(status)
	c.Error = errMsg.String
	c.StartedAt = time.UnixMilli(startedAt).UTC()
	if completedAt.Valid {
		t := time.UnixMilli(completedAt.Int64).UTC()
		c.CompletedAt = &t
	}
	return &c, nil
}
