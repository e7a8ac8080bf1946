// Package dag orders the entity types of a parsed model by their foreign key
// dependencies. A principal entity comes before the dependents that
// reference it.
package dag

import (
	"errors"
	"fmt"
	"sort"

	"github.com/leapstack-labs/leapdgml/pkg/debugview"
)

// ErrCycle is wrapped when relationships form a cycle and no complete
// ordering exists.
var ErrCycle = errors.New("relationship cycle detected")

// Graph is a directed graph of entities with edges from principal to dependent.
type Graph struct {
	entities   map[string]bool
	dependents map[string][]string // principal -> dependents
	principals map[string][]string // dependent -> principals
	selfRefs   map[string]bool
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		entities:   make(map[string]bool),
		dependents: make(map[string][]string),
		principals: make(map[string][]string),
		selfRefs:   make(map[string]bool),
	}
}

// FromModel builds the relationship graph of a parsed debug view.
func FromModel(m *debugview.Graph) *Graph {
	g := NewGraph()
	for _, e := range m.Entities() {
		g.AddEntity(e.Name)
	}
	for _, fk := range m.ForeignKeys() {
		g.AddRelation(fk.Target, fk.Source)
	}
	return g
}

// AddEntity adds an entity with no relationships. Adding it twice is a no-op.
func (g *Graph) AddEntity(name string) {
	g.entities[name] = true
}

// AddRelation records that dependent holds a foreign key to principal.
// Unknown entities are added. A self-reference is recorded but does not
// constrain ordering.
func (g *Graph) AddRelation(principal, dependent string) {
	g.AddEntity(principal)
	g.AddEntity(dependent)
	if principal == dependent {
		g.selfRefs[principal] = true
		return
	}
	if !contains(g.dependents[principal], dependent) {
		g.dependents[principal] = append(g.dependents[principal], dependent)
	}
	if !contains(g.principals[dependent], principal) {
		g.principals[dependent] = append(g.principals[dependent], principal)
	}
}

// Entities returns all entity names, sorted.
func (g *Graph) Entities() []string {
	return sortedKeys(g.entities)
}

// Len returns the number of entities.
func (g *Graph) Len() int {
	return len(g.entities)
}

// Principals returns the entities name depends on, sorted.
func (g *Graph) Principals(name string) []string {
	return sortedCopy(g.principals[name])
}

// Dependents returns the entities that depend on name, sorted.
func (g *Graph) Dependents(name string) []string {
	return sortedCopy(g.dependents[name])
}

// SelfReferencing returns entities with a foreign key to themselves, sorted.
func (g *Graph) SelfReferencing() []string {
	return sortedKeys(g.selfRefs)
}

// Roots returns the entities that depend on nothing, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for _, name := range g.Entities() {
		if len(g.principals[name]) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}

// Cycle returns one cycle as a path that starts and ends at the same
// entity, or nil when the graph is acyclic.
func (g *Graph) Cycle() []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	from := make(map[string]string)

	var cycle []string
	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		onStack[name] = true
		for _, next := range g.Dependents(name) {
			if !visited[next] {
				from[next] = name
				if dfs(next) {
					return true
				}
				continue
			}
			if onStack[next] {
				cycle = []string{next}
				for cur := name; cur != next; cur = from[cur] {
					cycle = append([]string{cur}, cycle...)
				}
				cycle = append([]string{next}, cycle...)
				return true
			}
		}
		onStack[name] = false
		return false
	}

	for _, name := range g.Entities() {
		if !visited[name] && dfs(name) {
			return cycle
		}
	}
	return nil
}

// Levels groups entities so that every principal sits in an earlier level
// than its dependents. Level 0 holds the roots. On a cycle, the levels
// resolved so far are returned with an error wrapping ErrCycle that names
// the unresolved entities.
func (g *Graph) Levels() ([][]string, error) {
	remaining := make(map[string]int, len(g.entities))
	for name := range g.entities {
		remaining[name] = len(g.principals[name])
	}

	var levels [][]string
	for len(remaining) > 0 {
		var level []string
		for name, n := range remaining {
			if n == 0 {
				level = append(level, name)
			}
		}
		if len(level) == 0 {
			return levels, fmt.Errorf("%w among %v", ErrCycle, sortedKeys(remaining))
		}
		sort.Strings(level)
		for _, name := range level {
			delete(remaining, name)
			for _, dep := range g.dependents[name] {
				remaining[dep]--
			}
		}
		levels = append(levels, level)
	}
	return levels, nil
}

// Downstream returns every entity that transitively depends on name, sorted.
func (g *Graph) Downstream(name string) []string {
	seen := make(map[string]bool)
	var walk func(string)
	walk = func(n string) {
		for _, dep := range g.dependents[n] {
			if !seen[dep] {
				seen[dep] = true
				walk(dep)
			}
		}
	}
	walk(name)
	delete(seen, name)
	return sortedKeys(seen)
}

func contains(items []string, s string) bool {
	for _, it := range items {
		if it == s {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedCopy(items []string) []string {
	out := append([]string(nil), items...)
	sort.Strings(out)
	return out
}
