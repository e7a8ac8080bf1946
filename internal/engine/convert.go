package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapdgml/internal/loader"
	"github.com/leapstack-labs/leapdgml/internal/state"
	"github.com/leapstack-labs/leapdgml/pkg/debugview"
	"github.com/leapstack-labs/leapdgml/pkg/dgml"
)

// StdStream names standard input as a source and standard output as an output.
const StdStream = loader.StdinName

// Job is one conversion request.
type Job struct {
	// Source is the debug view path, or StdStream.
	Source string
	// Output is the document path. Empty derives it from Source; StdStream
	// writes to standard output.
	Output string
	// Context overrides the model label.
	Context string
}

// Result describes a finished conversion.
type Result struct {
	RunID     string           `json:"run_id,omitempty"`
	Source    string           `json:"source"`
	Output    string           `json:"output"`
	Context   string           `json:"context"`
	InputHash string           `json:"input_hash"`
	Stats     state.Stats      `json:"stats"`
	Duration  time.Duration    `json:"duration_ns"`
	Graph     *debugview.Graph `json:"-"`
	Document  []byte           `json:"-"`
}

// Convert runs one job: load, parse, render, write and record.
func (e *Engine) Convert(ctx context.Context, job Job) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	src, err := e.load(job)
	if err != nil {
		e.recordLoadFailure(job, err)
		return nil, err
	}

	res := &Result{
		Source:    job.Source,
		Output:    job.Output,
		Context:   src.Context,
		InputHash: src.Hash,
	}
	if res.Output == "" {
		res.Output = OutputPath(job.Source, e.outputDir)
	}

	var run *state.Conversion
	if e.store != nil {
		run, err = e.store.StartConversion(job.Source, src.Context, src.Hash)
		if err != nil {
			e.logger.Warn("failed to record conversion start", "source", job.Source, "error", err)
		} else {
			res.RunID = run.ID
		}
	}

	if err := e.render(src, res); err != nil {
		e.fail(run, err)
		return nil, fmt.Errorf("failed to convert %s: %w", job.Source, err)
	}
	if err := e.write(res); err != nil {
		e.fail(run, err)
		return nil, fmt.Errorf("failed to convert %s: %w", job.Source, err)
	}

	if run != nil {
		if err := e.store.CompleteConversion(run.ID, res.Stats, res.Output); err != nil {
			e.logger.Warn("failed to record conversion", "run_id", run.ID, "error", err)
		}
	}
	res.Duration = time.Since(start)

	e.logger.Info("converted debug view",
		"source", job.Source,
		"output", res.Output,
		"entities", res.Stats.Entities,
		"nodes", res.Stats.Nodes,
		"links", res.Stats.Links,
		"duration", res.Duration)
	return res, nil
}

// JobError ties a batch failure to its job.
type JobError struct {
	Job Job
	Err error
}

func (e *JobError) Error() string { return e.Err.Error() }

func (e *JobError) Unwrap() error { return e.Err }

// JobErrors returns the per-job failures inside an error from ConvertAll.
func JobErrors(err error) []*JobError {
	var out []*JobError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			var je *JobError
			if errors.As(e, &je) {
				out = append(out, je)
			}
		}
		return out
	}
	var je *JobError
	if errors.As(err, &je) {
		out = append(out, je)
	}
	return out
}

// ConvertAll runs jobs with bounded concurrency. Results are returned in job
// order; a failed job leaves a nil entry and contributes to the joined error.
func (e *Engine) ConvertAll(ctx context.Context, jobs []Job) ([]*Result, error) {
	results := make([]*Result, len(jobs))
	errs := make([]error, len(jobs))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			res, err := e.Convert(ctx, job)
			if err != nil {
				errs[i] = &JobError{Job: job, Err: err}
				return nil
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results, errors.Join(errs...)
}

// ConvertText parses and renders text without writing or recording it.
func (e *Engine) ConvertText(ctx context.Context, name, label, text string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := loader.Load(strings.NewReader(text), name, label)
	if err != nil {
		return nil, err
	}
	res := &Result{Source: name, Context: src.Context, InputHash: src.Hash}
	if err := e.render(src, res); err != nil {
		return nil, err
	}
	return res, nil
}

// Inspect loads and parses a source without writing or recording it.
func (e *Engine) Inspect(ctx context.Context, job Job) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := e.load(job)
	if err != nil {
		return nil, err
	}
	res := &Result{Source: job.Source, Context: src.Context, InputHash: src.Hash}
	if err := e.render(src, res); err != nil {
		return nil, fmt.Errorf("failed to inspect %s: %w", job.Source, err)
	}
	return res, nil
}

func (e *Engine) load(job Job) (*loader.Source, error) {
	if job.Source == StdStream {
		return loader.Load(e.stdin, StdStream, job.Context)
	}
	return loader.LoadFile(job.Source, job.Context)
}

func (e *Engine) render(src *loader.Source, res *Result) error {
	g, err := debugview.Parse(src.Lines, src.Context)
	if err != nil {
		return fmt.Errorf("failed to parse debug view: %w", err)
	}

	opts := e.graph
	if src.Frontmatter.Direction != "" {
		opts.Direction = src.Frontmatter.Direction
	}
	if src.Frontmatter.Layout != "" {
		opts.Layout = src.Frontmatter.Layout
	}
	doc, err := dgml.Render(g, opts)
	if err != nil {
		return err
	}

	res.Graph = g
	res.Document = doc
	res.Stats = state.Stats{
		Entities: len(g.Entities()),
		Nodes:    len(g.Nodes()),
		Links:    len(g.Links()),
	}
	return nil
}

func (e *Engine) write(res *Result) error {
	if res.Output == StdStream {
		e.stdoutMu.Lock()
		defer e.stdoutMu.Unlock()
		if _, err := e.stdout.Write(res.Document); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	if dir := filepath.Dir(res.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(res.Output, res.Document, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// recordLoadFailure records a source that never produced a model as a
// failed run.
func (e *Engine) recordLoadFailure(job Job, cause error) {
	if e.store == nil {
		return
	}
	label := job.Context
	if label == "" {
		label = loader.ContextName(job.Source)
	}
	run, err := e.store.StartConversion(job.Source, label, "")
	if err != nil {
		e.logger.Warn("failed to record conversion start", "source", job.Source, "error", err)
		return
	}
	e.fail(run, cause)
}

func (e *Engine) fail(run *state.Conversion, cause error) {
	if run == nil {
		return
	}
	if err := e.store.FailConversion(run.ID, cause.Error()); err != nil {
		e.logger.Warn("failed to record conversion failure", "run_id", run.ID, "error", err)
	}
}

// OutputPath derives the document path for source: the source name with a
// .dgml extension, in outputDir when set, otherwise beside the source.
// Standard input maps to standard output.
func OutputPath(source, outputDir string) string {
	if source == StdStream {
		return StdStream
	}
	base := filepath.Base(source)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".dgml"
	if outputDir != "" {
		return filepath.Join(outputDir, name)
	}
	return filepath.Join(filepath.Dir(source), name)
}
