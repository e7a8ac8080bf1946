package commands

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapdgml/internal/cli/output"
	"github.com/leapstack-labs/leapdgml/internal/dag"
	"github.com/leapstack-labs/leapdgml/internal/engine"
)

// GraphQuerier provides read-only access to the entity dependency graph.
type GraphQuerier interface {
	Entities() []string
	Principals(string) []string
	Dependents(string) []string
	Len() int
}

// NewDAGCommand creates the dag command.
func NewDAGCommand() *cobra.Command {
	var entity string

	cmd := &cobra.Command{
		Use:   "dag <file>",
		Short: "Show the entity dependency graph",
		Long: `Display the foreign key dependency graph of the entities in a debug view.

Entities are grouped by level: every principal appears in an earlier level
than the entities that depend on it, which is the order rows must be
inserted in. Self-referencing relationships are listed but do not affect
ordering. A cycle is reported along with the entities it leaves unordered.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the DAG
  leapdgml dag SamuraiContext.txt

  # Output as JSON
  leapdgml dag SamuraiContext.txt --output json

  # Output as Markdown
  leapdgml dag SamuraiContext.txt --output markdown

  # List everything that depends on Samurai
  leapdgml dag SamuraiContext.txt --entity Samurai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDAG(cmd, args[0], entity)
		},
	}

	cmd.Flags().StringVarP(&entity, "entity", "e", "", "Show only the entities that depend on this one, directly or transitively")

	return cmd
}

func runDAG(cmd *cobra.Command, source, entity string) error {
	cmdCtx, cleanup, err := newInspectContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	res, err := cmdCtx.Engine.Inspect(cmd.Context(), engine.Job{Source: source, Context: cmdCtx.Cfg.Context})
	if err != nil {
		return err
	}

	graph := dag.FromModel(res.Graph)
	if entity != "" {
		return downstream(cmdCtx.Renderer, graph, entity)
	}

	levels, levelErr := graph.Levels()
	if levelErr != nil && !errors.Is(levelErr, dag.ErrCycle) {
		return fmt.Errorf("failed to get dependency levels: %w", levelErr)
	}
	cycle := graph.Cycle()

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		err = dagJSON(r, graph, levels, cycle)
	case output.ModeMarkdown:
		dagMarkdown(r, graph, levels, cycle)
	default:
		dagText(r, graph, levels, cycle)
	}
	if err != nil {
		return err
	}
	return levelErr
}

func relationCount(graph GraphQuerier) int {
	n := 0
	for _, name := range graph.Entities() {
		n += len(graph.Principals(name))
	}
	return n
}

// dagText outputs the DAG in styled text format.
func dagText(r *output.Renderer, graph *dag.Graph, levels [][]string, cycle []string) {
	styles := r.Styles()

	r.Header(1, "Entity Dependencies")

	for i, level := range levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, name := range level {
			r.Printf("  %s\n", styles.Entity.Render(name))
			if principals := graph.Principals(name); len(principals) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("depends on:"), strings.Join(principals, ", "))
			}
			if dependents := graph.Dependents(name); len(dependents) > 0 {
				r.Printf("    %s %s\n", styles.Muted.Render("used by:"), strings.Join(dependents, ", "))
			}
		}
		r.Println("")
	}

	if self := graph.SelfReferencing(); len(self) > 0 {
		r.Printf("%s %s\n\n", styles.Muted.Render("self-referencing:"), strings.Join(self, ", "))
	}
	if len(cycle) > 0 {
		r.Println(styles.Error.Render("Cycle: " + strings.Join(cycle, " -> ")))
		r.Println("")
	}

	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d entities, %d relationships", graph.Len(), relationCount(graph))))
}

// dagMarkdown outputs the DAG in markdown format.
func dagMarkdown(r *output.Renderer, graph *dag.Graph, levels [][]string, cycle []string) {
	r.Println(output.FormatHeader(1, "Entity Dependencies"))
	r.Println("")

	for i, level := range levels {
		levelName := fmt.Sprintf("Level %d", i)
		if i == 0 {
			levelName = "Level 0 (Principals)"
		}
		r.Println(output.FormatHeader(2, levelName))

		for _, name := range level {
			r.Printf("- %s\n", name)
			if principals := graph.Principals(name); len(principals) > 0 {
				r.Printf("  - depends on: %s\n", strings.Join(principals, ", "))
			}
			if dependents := graph.Dependents(name); len(dependents) > 0 {
				r.Printf("  - used by: %s\n", strings.Join(dependents, ", "))
			}
		}
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Entities", fmt.Sprintf("%d", graph.Len())))
	r.Println(output.FormatKeyValue("Total Relationships", fmt.Sprintf("%d", relationCount(graph))))
	if self := graph.SelfReferencing(); len(self) > 0 {
		r.Println(output.FormatKeyValue("Self-Referencing", strings.Join(self, ", ")))
	}
	if len(cycle) > 0 {
		r.Println(output.FormatKeyValue("Cycle", strings.Join(cycle, " -> ")))
	}
}

// dagJSON outputs the DAG in JSON format.
func dagJSON(r *output.Renderer, graph *dag.Graph, levels [][]string, cycle []string) error {
	selfRefs := make(map[string]bool)
	for _, name := range graph.SelfReferencing() {
		selfRefs[name] = true
	}

	dagOutput := output.DAGOutput{
		Levels:         make([]output.DAGLevel, 0, len(levels)),
		TotalEntities:  graph.Len(),
		TotalRelations: relationCount(graph),
		Roots:          nonNil(graph.Roots()),
		Cycle:          cycle,
	}

	for i, level := range levels {
		dagLevel := output.DAGLevel{
			Level:    i,
			Entities: make([]output.DAGNode, 0, len(level)),
		}
		for _, name := range level {
			dagLevel.Entities = append(dagLevel.Entities, output.DAGNode{
				Name:            name,
				Principals:      nonNil(graph.Principals(name)),
				Dependents:      nonNil(graph.Dependents(name)),
				SelfReferencing: selfRefs[name],
			})
		}
		dagOutput.Levels = append(dagOutput.Levels, dagLevel)
	}

	return r.JSON(dagOutput)
}

// downstream outputs the entities affected by a change to entity.
func downstream(r *output.Renderer, graph *dag.Graph, entity string) error {
	if !slices.Contains(graph.Entities(), entity) {
		return fmt.Errorf("entity %q not found", entity)
	}
	result := output.DownstreamOutput{
		Entity:     entity,
		Principals: nonNil(graph.Principals(entity)),
		Downstream: nonNil(graph.Downstream(entity)),
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, entity))
		r.Println("")
		r.Println(output.FormatKeyValue("Depends on", output.FormatList(result.Principals)))
		r.Println(output.FormatKeyValue("Downstream", output.FormatList(result.Downstream)))
	default:
		styles := r.Styles()
		r.Header(1, entity)
		r.Printf("%s %s\n", styles.Muted.Render("depends on:"), output.FormatList(result.Principals))
		r.Printf("%s %s\n", styles.Muted.Render("downstream:"), output.FormatList(result.Downstream))
	}
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
