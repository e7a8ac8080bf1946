package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdgml/internal/cli/config"
	"github.com/leapstack-labs/leapdgml/internal/engine"
	"github.com/leapstack-labs/leapdgml/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <file>...",
		Short: "Re-convert debug views when they change",
		Long: `Convert the given debug views once, then watch them and convert again
whenever one is written or replaced.

Changes are debounced per file (--debounce) so editors that save in
several steps trigger a single conversion. Failed conversions are logged
and watching continues. Press Ctrl+C to stop.`,
		Example: `  # Keep a diagram current while editing
  leapdgml watch SamuraiContext.txt

  # Watch several views with a longer debounce
  leapdgml watch views/*.txt --debounce 1s --output-dir diagrams`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args)
		},
	}

	cmd.Flags().Duration("debounce", config.DefaultDebounce, "Quiet period before re-converting a changed file")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs := make([]engine.Job, len(args))
	for i, src := range args {
		jobs[i] = engine.Job{Source: src, Context: cmdCtx.Cfg.Context}
	}

	r := cmdCtx.Renderer
	w, err := watch.New(cmdCtx.Engine, jobs, watch.Options{
		Debounce: cmdCtx.Cfg.Watch.Debounce,
		Logger:   cmdCtx.Logger,
		OnReady: func() {
			r.Println(r.Muted(fmt.Sprintf("Watching %d file(s). Press Ctrl+C to stop.", len(jobs))))
		},
		OnResult: func(job engine.Job, res *engine.Result, err error) {
			if err != nil {
				r.StatusLine(job.Source, "failed", err.Error())
				return
			}
			r.StatusLine(job.Source, "success", fmt.Sprintf("→ %s (%d nodes, %d links)", res.Output, res.Stats.Nodes, res.Stats.Links))
		},
	})
	if err != nil {
		return err
	}
	return w.Run(cmd.Context())
}
