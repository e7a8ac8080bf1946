package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdgml/internal/cli/output"
	"github.com/leapstack-labs/leapdgml/internal/engine"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:     "convert <file>...",
		Aliases: []string{"dgml"},
		Short:   "Convert debug views into DGML documents",
		Long: `Convert one or more captured model debug views into DGML documents.

Each <file>.txt is written as <file>.dgml next to the source, or into
--output-dir when set. Use - to read a view from standard input; its
document is written to standard output.

Conversions run in parallel (see --concurrency) and are recorded in the
history database unless --no-history is set.`,
		Example: `  # Convert one view
  leapdgml convert SamuraiContext.txt

  # Convert several views into a directory
  leapdgml convert views/*.txt --output-dir diagrams

  # Pipe a view through
  cat dump.txt | leapdgml dgml - > model.dgml

  # Choose the document path and label
  leapdgml convert dump.txt --out model.dgml --context BloggingContext`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args, out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Document path for a single source (- for stdout)")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string, out string) error {
	if out != "" && len(args) > 1 {
		return fmt.Errorf("--out requires exactly one source, got %d", len(args))
	}
	if n := countStdin(args); n > 1 {
		return fmt.Errorf("standard input can be read only once, got %d %q sources", n, engine.StdStream)
	}

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs := make([]engine.Job, len(args))
	toStdout := false
	for i, src := range args {
		jobs[i] = engine.Job{Source: src, Context: cmdCtx.Cfg.Context}
		if i == 0 && out != "" {
			jobs[i].Output = out
		}
		dest := jobs[i].Output
		if dest == "" {
			dest = engine.OutputPath(src, cmdCtx.Cfg.OutputDir)
		}
		if dest == engine.StdStream {
			toStdout = true
		}
	}

	results, convErr := cmdCtx.Engine.ConvertAll(cmd.Context(), jobs)
	summary := summarizeConversions(jobs, results, convErr)

	// The document itself occupies stdout.
	if !toStdout {
		r := cmdCtx.Renderer
		switch r.EffectiveMode() {
		case output.ModeJSON:
			if err := r.JSON(summary); err != nil {
				return err
			}
		case output.ModeMarkdown:
			convertMarkdown(r, summary)
		default:
			convertText(r, summary)
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d conversions failed: %w", summary.Failed, len(jobs), convErr)
	}
	return nil
}

func summarizeConversions(jobs []engine.Job, results []*engine.Result, err error) output.ConvertOutput {
	failures := make(map[int]string)
	for _, je := range engine.JobErrors(err) {
		for i, job := range jobs {
			if job == je.Job {
				failures[i] = je.Error()
			}
		}
	}

	summary := output.ConvertOutput{Results: make([]output.ConvertResult, 0, len(jobs))}
	for i, job := range jobs {
		res := results[i]
		if res == nil {
			msg := failures[i]
			if msg == "" {
				msg = "conversion failed"
			}
			summary.Results = append(summary.Results, output.ConvertResult{Source: job.Source, Error: msg})
			summary.Failed++
			continue
		}
		summary.Results = append(summary.Results, output.ConvertResult{
			Source:     res.Source,
			Output:     res.Output,
			Context:    res.Context,
			RunID:      res.RunID,
			Entities:   res.Stats.Entities,
			Nodes:      res.Stats.Nodes,
			Links:      res.Stats.Links,
			DurationMS: res.Duration.Milliseconds(),
		})
		summary.Converted++
	}
	return summary
}

func convertText(r *output.Renderer, summary output.ConvertOutput) {
	for _, res := range summary.Results {
		if res.Error != "" {
			r.StatusLine(res.Source, "failed", res.Error)
			continue
		}
		detail := fmt.Sprintf("→ %s (%d entities, %d nodes, %d links, %s)",
			res.Output, res.Entities, res.Nodes, res.Links, time.Duration(res.DurationMS)*time.Millisecond)
		r.StatusLine(res.Source, "success", detail)
	}
	r.Println("")
	r.Println(r.Muted(fmt.Sprintf("Converted %d, failed %d", summary.Converted, summary.Failed)))
}

func convertMarkdown(r *output.Renderer, summary output.ConvertOutput) {
	r.Println(output.FormatHeader(1, "Conversions"))
	r.Println("")

	rows := make([][]string, 0, len(summary.Results))
	for _, res := range summary.Results {
		status := "success"
		if res.Error != "" {
			status = "failed: " + res.Error
		}
		rows = append(rows, []string{
			res.Source,
			res.Output,
			res.Context,
			fmt.Sprintf("%d", res.Entities),
			fmt.Sprintf("%d", res.Nodes),
			fmt.Sprintf("%d", res.Links),
			status,
		})
	}
	r.Table([]string{"Source", "Output", "Context", "Entities", "Nodes", "Links", "Status"}, rows)
	r.Println("")
	r.Println(output.FormatKeyValue("Converted", fmt.Sprintf("%d", summary.Converted)))
	r.Println(output.FormatKeyValue("Failed", fmt.Sprintf("%d", summary.Failed)))
}

func countStdin(args []string) int {
	n := 0
	for _, src := range args {
		if src == engine.StdStream {
			n++
		}
	}
	return n
}
