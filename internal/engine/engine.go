// Package engine converts debug view dumps into DGML documents and records
// each conversion in the history store.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/leapstack-labs/leapdgml/internal/state"
	"github.com/leapstack-labs/leapdgml/pkg/dgml"
)

// DefaultConcurrency bounds ConvertAll when Config.Concurrency is unset.
const DefaultConcurrency = 4

// Engine orchestrates conversions.
type Engine struct {
	outputDir   string
	concurrency int
	graph       dgml.Options

	// history store, nil when history is disabled
	store  state.Store
	logger *slog.Logger

	stdin    io.Reader
	stdout   io.Writer
	stdoutMu sync.Mutex
}

// Config holds engine configuration.
type Config struct {
	// OutputDir receives generated documents. Empty writes next to each source.
	OutputDir string
	// StatePath is the SQLite history database. Empty disables history.
	StatePath string
	// Concurrency bounds parallel conversions in ConvertAll.
	Concurrency int
	// Graph holds the default document layout.
	Graph dgml.Options
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
	// Stdin and Stdout back the "-" source and output (default os.Stdin/os.Stdout).
	Stdin  io.Reader
	Stdout io.Writer
}

// New creates an engine, opening and migrating the history store when
// StatePath is set.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	e := &Engine{
		outputDir:   cfg.OutputDir,
		concurrency: concurrency,
		graph:       cfg.Graph,
		logger:      logger,
		stdin:       cfg.Stdin,
		stdout:      cfg.Stdout,
	}
	if e.stdin == nil {
		e.stdin = os.Stdin
	}
	if e.stdout == nil {
		e.stdout = os.Stdout
	}

	if cfg.StatePath != "" {
		store := state.NewSQLiteStore(logger)
		if err := store.Open(cfg.StatePath); err != nil {
			return nil, fmt.Errorf("failed to open state store: %w", err)
		}
		if err := store.Migrate(); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate state store: %w", err)
		}
		e.store = store
	}

	logger.Debug("engine initialized", "output_dir", cfg.OutputDir, "history", e.store != nil, "concurrency", concurrency)
	return e, nil
}

// Store returns the history store, or nil when history is disabled.
func (e *Engine) Store() state.Store {
	return e.store
}

// Close releases the history store.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}
