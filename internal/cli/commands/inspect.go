package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdgml/internal/cli/output"
	"github.com/leapstack-labs/leapdgml/internal/engine"
	"github.com/leapstack-labs/leapdgml/pkg/debugview"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Summarize the entities of a debug view",
		Long: `Parse a debug view and summarize the model without writing a document.

Shows the model label, product version and change tracking strategy, then
one row per entity type with its base class, property, navigation and
foreign key counts and primary key columns.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Summarize a view
  leapdgml inspect SamuraiContext.txt

  # Output as JSON
  leapdgml inspect SamuraiContext.txt --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args[0])
		},
	}

	return cmd
}

func runInspect(cmd *cobra.Command, source string) error {
	cmdCtx, cleanup, err := newInspectContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := cmdCtx.Engine.Inspect(cmd.Context(), engine.Job{Source: source, Context: cmdCtx.Cfg.Context})
	if err != nil {
		return err
	}
	summary := summarizeModel(source, res.Graph)

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(summary)
	case output.ModeMarkdown:
		inspectMarkdown(r, summary)
	default:
		inspectText(r, summary)
	}
	return nil
}

// newInspectContext creates a command context whose engine skips history.
func newInspectContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cc := NewCommandContextWithoutEngine(cmd)
	cfg := *cc.Cfg
	cfg.History = false
	eng, err := createEngine(cmd, &cfg, cc.Logger)
	if err != nil {
		return nil, nil, err
	}
	cc.Engine = eng
	return cc, func() { _ = eng.Close() }, nil
}

func summarizeModel(source string, g *debugview.Graph) output.InspectOutput {
	model := g.Model()
	summary := output.InspectOutput{
		Source:         source,
		Context:        model.Label,
		ProductVersion: model.ProductVersion,
		ChangeTracking: model.ChangeTracking,
		AccessMode:     model.AccessMode.String(),
		Entities:       []output.EntitySummary{},
		Nodes:          len(g.Nodes()),
		Links:          len(g.Links()),
	}

	foreignKeys := make(map[string]int)
	for _, fk := range g.ForeignKeys() {
		foreignKeys[fk.Source]++
	}

	for _, e := range g.Entities() {
		props := g.Properties(e.Name)
		pk := []string{}
		for _, p := range props {
			if p.IsPrimaryKey {
				pk = append(pk, p.Name)
			}
		}
		summary.Entities = append(summary.Entities, output.EntitySummary{
			Name:        e.Name,
			BaseClass:   e.BaseClass,
			IsAbstract:  e.IsAbstract,
			Properties:  len(props),
			Navigations: len(g.Navigations(e.Name)),
			ForeignKeys: foreignKeys[e.Name],
			PrimaryKey:  pk,
		})
	}
	return summary
}

func entityRows(summary output.InspectOutput) [][]string {
	rows := make([][]string, 0, len(summary.Entities))
	for _, e := range summary.Entities {
		base := e.BaseClass
		if base == "" {
			base = "-"
		}
		rows = append(rows, []string{
			e.Name,
			base,
			strconv.FormatBool(e.IsAbstract),
			strconv.Itoa(e.Properties),
			strconv.Itoa(e.Navigations),
			strconv.Itoa(e.ForeignKeys),
			output.FormatList(e.PrimaryKey),
		})
	}
	return rows
}

var entityHeader = []string{"Entity", "Base", "Abstract", "Properties", "Navigations", "Foreign Keys", "Primary Key"}

// inspectText outputs the summary in styled text format.
func inspectText(r *output.Renderer, summary output.InspectOutput) {
	styles := r.Styles()

	r.Header(1, summary.Context)
	r.Printf("%s %s\n", styles.Muted.Render("product version:"), orNone(summary.ProductVersion))
	r.Printf("%s %s\n", styles.Muted.Render("change tracking:"), summary.ChangeTracking)
	r.Printf("%s %s\n", styles.Muted.Render("access mode:"), summary.AccessMode)
	r.Println("")

	r.Table(entityHeader, entityRows(summary))
	r.Println("")
	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d entities, %d nodes, %d links", len(summary.Entities), summary.Nodes, summary.Links)))
}

// inspectMarkdown outputs the summary in markdown format.
func inspectMarkdown(r *output.Renderer, summary output.InspectOutput) {
	r.Println(output.FormatHeader(1, summary.Context))
	r.Println("")
	r.Println(output.FormatKeyValue("Source", summary.Source))
	r.Println(output.FormatKeyValue("Product Version", orNone(summary.ProductVersion)))
	r.Println(output.FormatKeyValue("Change Tracking", summary.ChangeTracking))
	r.Println(output.FormatKeyValue("Access Mode", summary.AccessMode))
	r.Println("")

	r.Println(output.FormatHeader(2, "Entities"))
	r.Println("")
	r.Table(entityHeader, entityRows(summary))
	r.Println("")

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Entities", strconv.Itoa(len(summary.Entities))))
	r.Println(output.FormatKeyValue("Nodes", strconv.Itoa(summary.Nodes)))
	r.Println(output.FormatKeyValue("Links", strconv.Itoa(summary.Links)))
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
