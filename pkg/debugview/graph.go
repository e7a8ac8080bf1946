package debugview

// Graph is the parse result: an ordered, duplicate-free sequence of nodes
// and one of links. Duplicates are detected by their rendered markup and
// only the first occurrence is kept.
type Graph struct {
	nodes      []Node
	links      []Link
	nodeMarkup []string
	linkMarkup []string
	seenNodes  map[string]struct{}
	seenLinks  map[string]struct{}
}

func newGraph() *Graph {
	return &Graph{
		seenNodes: make(map[string]struct{}),
		seenLinks: make(map[string]struct{}),
	}
}

func (g *Graph) addNode(n Node) {
	m := n.Markup()
	if _, ok := g.seenNodes[m]; ok {
		return
	}
	g.seenNodes[m] = struct{}{}
	g.nodes = append(g.nodes, n)
	g.nodeMarkup = append(g.nodeMarkup, m)
}

func (g *Graph) addLink(l Link) {
	m := l.Markup()
	if _, ok := g.seenLinks[m]; ok {
		return
	}
	g.seenLinks[m] = struct{}{}
	g.links = append(g.links, l)
	g.linkMarkup = append(g.linkMarkup, m)
}

// Nodes returns the node markup fragments in emission order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.nodeMarkup...)
}

// Links returns the link markup fragments in emission order.
func (g *Graph) Links() []string {
	return append([]string(nil), g.linkMarkup...)
}

// NodeRecords returns the typed node records in emission order.
func (g *Graph) NodeRecords() []Node {
	return append([]Node(nil), g.nodes...)
}

// LinkRecords returns the typed link records in emission order.
func (g *Graph) LinkRecords() []Link {
	return append([]Link(nil), g.links...)
}

// Model returns the model root node.
func (g *Graph) Model() ModelNode {
	for _, n := range g.nodes {
		if m, ok := n.(ModelNode); ok {
			return m
		}
	}
	return ModelNode{}
}

// Entities returns the entity nodes in emission order.
func (g *Graph) Entities() []EntityNode {
	return nodesOf[EntityNode](g, func(EntityNode) bool { return true })
}

// Properties returns the scalar properties of entity.
func (g *Graph) Properties(entity string) []PropertyNode {
	return nodesOf(g, func(p PropertyNode) bool { return p.Entity == entity })
}

// Navigations returns the navigations of entity.
func (g *Graph) Navigations(entity string) []NavigationNode {
	return nodesOf(g, func(n NavigationNode) bool { return n.Entity == entity })
}

// ForeignKeys returns all foreign key links in emission order.
func (g *Graph) ForeignKeys() []ForeignKeyLink {
	var out []ForeignKeyLink
	for _, l := range g.links {
		if fk, ok := l.(ForeignKeyLink); ok {
			out = append(out, fk)
		}
	}
	return out
}

func nodesOf[T Node](g *Graph, keep func(T) bool) []T {
	var out []T
	for _, n := range g.nodes {
		if t, ok := n.(T); ok && keep(t) {
			out = append(out, t)
		}
	}
	return out
}
