// Package watch re-converts debug view files whenever they change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/leapdgml/internal/engine"
)

// DefaultDebounce is the quiet period after the last change to a file
// before it is converted again.
const DefaultDebounce = 200 * time.Millisecond

// Converter runs a conversion job.
type Converter interface {
	Convert(ctx context.Context, job engine.Job) (*engine.Result, error)
}

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Logger   *slog.Logger
	// OnReady is called once the initial conversions finished and the
	// watches are registered.
	OnReady func()
	// OnResult is called after every conversion.
	OnResult func(job engine.Job, res *engine.Result, err error)
}

// Watcher converts a fixed set of sources and keeps them converted.
type Watcher struct {
	conv     Converter
	jobs     map[string]engine.Job // absolute source path -> job
	debounce time.Duration
	logger   *slog.Logger
	onReady  func()
	onResult func(engine.Job, *engine.Result, error)

	wg sync.WaitGroup
}

// New creates a watcher for jobs. Jobs reading standard input cannot be watched.
func New(conv Converter, jobs []engine.Job, opts Options) (*Watcher, error) {
	w := &Watcher{
		conv:     conv,
		jobs:     make(map[string]engine.Job, len(jobs)),
		debounce: opts.Debounce,
		logger:   opts.Logger,
		onReady:  opts.OnReady,
		onResult: opts.OnResult,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	for _, job := range jobs {
		if job.Source == engine.StdStream {
			return nil, fmt.Errorf("cannot watch standard input")
		}
		abs, err := filepath.Abs(job.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", job.Source, err)
		}
		w.jobs[abs] = job
	}
	if len(w.jobs) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	return w, nil
}

// Run converts every source once, then watches their directories until ctx
// is cancelled. Conversion errors are reported and logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	for _, job := range w.jobs {
		w.convert(ctx, job)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	dirs := make(map[string]bool)
	for path := range w.jobs {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", "dir", dir)
	}

	if w.onReady != nil {
		w.onReady()
	}
	w.logger.Info("watching for changes", "files", len(w.jobs))

	w.loop(ctx, fsw)
	w.wg.Wait()
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			if t.Stop() {
				w.wg.Done()
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			path, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			job, watched := w.jobs[path]
			if !watched {
				continue
			}

			if t, ok := timers[path]; ok && t.Stop() {
				w.wg.Done()
			}
			w.wg.Add(1)
			timers[path] = time.AfterFunc(w.debounce, func() {
				defer w.wg.Done()
				w.logger.Info("change detected", "file", filepath.Base(path))
				w.convert(ctx, job)
			})
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) convert(ctx context.Context, job engine.Job) {
	if ctx.Err() != nil {
		return
	}
	res, err := w.conv.Convert(ctx, job)
	if err != nil {
		w.logger.Error("conversion failed", "source", job.Source, "error", err)
	}
	if w.onResult != nil {
		w.onResult(job, res, err)
	}
}
