package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdgml/internal/cli/output"
	"github.com/leapstack-labs/leapdgml/internal/state"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded conversions",
		Long: `List conversions recorded in the history database, newest first.

Each entry shows the source, context label, status, graph size and how
long the conversion took.`,
		Example: `  # Show the last 20 conversions
  leapdgml history

  # Show everything as JSON
  leapdgml history --limit 0 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(cmd, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")

	return cmd
}

func runHistory(cmd *cobra.Command, limit int) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	store := cmdCtx.Engine.Store()
	if store == nil {
		return fmt.Errorf("history is disabled; enable it with history: true or drop --no-history")
	}
	runs, err := store.ListConversions(limit)
	if err != nil {
		return fmt.Errorf("failed to list conversions: %w", err)
	}

	entries := historyEntries(runs)
	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.HistoryOutput{Conversions: entries})
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, fmt.Sprintf("Conversions (%d)", len(entries))))
		r.Println("")
	default:
		r.Header(1, fmt.Sprintf("Conversions (%d)", len(entries)))
	}

	if len(entries) == 0 {
		r.Println(r.Muted("No conversions recorded yet."))
		return nil
	}

	styles := r.Styles()
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := e.Status
		if r.EffectiveMode() == output.ModeText {
			status = styles.StatusStyle(e.Status).Render(e.Status)
		}
		rows = append(rows, []string{
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			e.Source,
			e.Context,
			status,
			strconv.Itoa(e.Entities),
			strconv.Itoa(e.Nodes),
			strconv.Itoa(e.Links),
			fmt.Sprintf("%dms", e.DurationMS),
		})
	}
	r.Table([]string{"Started", "Source", "Context", "Status", "Entities", "Nodes", "Links", "Duration"}, rows)
	return nil
}

func historyEntries(runs []*state.Conversion) []output.HistoryEntry {
	entries := make([]output.HistoryEntry, 0, len(runs))
	for _, run := range runs {
		entries = append(entries, output.HistoryEntry{
			ID:         run.ID,
			Source:     run.Source,
			Context:    run.Context,
			Status:     string(run.Status),
			Output:     run.Output,
			Entities:   run.Stats.Entities,
			Nodes:      run.Stats.Nodes,
			Links:      run.Stats.Links,
			StartedAt:  run.StartedAt,
			DurationMS: run.Duration().Milliseconds(),
			Error:      run.Error,
		})
	}
	return entries
}
