package debugview

import "strings"

// scanState is the cursor state carried from one line to the next.
type scanState struct {
	entity       string // current entity name, empty before the first header
	header       int    // index of the current entity header, -1 before the first
	inProperties bool
	inOther      bool // inside a Keys/Navigations/Foreign keys/... section after Properties
}

// step is the outcome of scanning one line.
type step struct {
	next  scanState
	flush bool // a new entity header began; the previous entity is complete
	nodes []Node
	links []Link
}

// pending accumulates one entity's nodes and links until its block ends.
type pending struct {
	nodes []Node
	links []Link
}

// Parse converts the debug view lines into a graph rooted at a model node
// labeled with label. A nil lines slice returns ErrArgumentMissing; an empty
// one yields the model node alone.
func Parse(lines []string, label string) (*Graph, error) {
	if lines == nil {
		return nil, ErrArgumentMissing
	}

	doc := newDocument(lines)
	g := newGraph()
	g.addNode(doc.model(label))

	state := scanState{header: -1}
	var buf pending
	for i := range doc.lines {
		s := state.scan(doc, i)
		if s.flush {
			if e, ok := doc.entity(state, true); ok {
				g.flush(e, buf)
			}
			buf = pending{}
		}
		buf.nodes = append(buf.nodes, s.nodes...)
		buf.links = append(buf.links, s.links...)
		state = s.next
	}
	if e, ok := doc.entity(state, false); ok {
		g.flush(e, buf)
	}

	return g, nil
}

func (s scanState) scan(doc *document, i int) step {
	ln := doc.lines[i]
	if ln.blank() {
		return step{next: s}
	}
	if isEntityHeader(ln) {
		name := parseEntityHeader(ln.text, false).Name
		return step{next: scanState{entity: name, header: i}, flush: true}
	}

	block, ok := doc.blockOf(i)
	if !ok || s.entity == "" {
		return step{next: s}
	}
	lv := block.levels

	switch {
	case ln.depth == lv.section && ln.marks("Properties"):
		s.inProperties, s.inOther = true, false
		return step{next: s}
	case !s.inProperties:
		return step{next: s}
	case ln.depth == lv.section:
		s.inOther = true
		return step{next: s}
	case ln.depth != lv.item || s.inOther:
		return step{next: s}
	}

	prop, ok := parseProperty(s.entity, ln.text)
	if !ok {
		return step{next: s}
	}
	prop.Annotations = doc.propertyAnnotations(i)

	out := step{next: s, nodes: []Node{prop}}
	for _, nav := range parseNavigations(s.entity, doc.navigationBlock(i), lv) {
		out.nodes = append(out.nodes, nav)
		out.links = append(out.links, ContainmentLink{Source: s.entity, Target: nav.NodeID()})
	}
	out.links = append(out.links, ContainmentLink{Source: s.entity, Target: prop.NodeID()})
	for _, fk := range parseForeignKeys(doc.foreignKeyBlock(i), lv) {
		out.links = append(out.links, fk)
	}
	return out
}

// model extracts the model-level metadata from the "Model:" header and the
// top-level "Annotations:" block.
func (d *document) model(label string) ModelNode {
	m := ModelNode{Label: label, ChangeTracking: defaultChangeTracking}

	modelDepth, annotated, markerDepth := 0, false, 0
	for _, ln := range d.lines {
		if ln.blank() {
			continue
		}
		if annotated && ln.depth <= markerDepth {
			annotated = false
		}
		switch {
		case strings.HasPrefix(ln.text, "Model:"):
			tokens := strings.Fields(ln.text)
			modelDepth = ln.depth
			m.AccessMode = accessModeOf(tokens)
			for _, t := range tokens {
				if strings.HasPrefix(t, changeTrackingPrefix) {
					m.ChangeTracking = t
				}
			}
		case !annotated && ln.depth == modelDepth && ln.marks("Annotations"):
			annotated, markerDepth = true, ln.depth
		case annotated && strings.HasPrefix(ln.text, "ProductVersion:"):
			if fields := strings.Fields(ln.text); len(fields) > 1 {
				m.ProductVersion = fields[1]
			}
		case annotated:
			m.Annotations = append(m.Annotations, ln.text)
		}
	}
	return m
}

// entity builds the node for the entity the state is positioned in. The
// header line's metadata is read only when withHeader is set; otherwise the
// defaults apply.
func (d *document) entity(s scanState, withHeader bool) (EntityNode, bool) {
	if s.entity == "" || s.header < 0 {
		return EntityNode{}, false
	}
	e := parseEntityHeader(d.lines[s.header].text, withHeader)
	e.Annotations = d.entityAnnotations(s.header)
	return e, true
}

// flush appends an entity node, its link from the model root and the
// entity's pending nodes and links.
func (g *Graph) flush(e EntityNode, buf pending) {
	g.addNode(e)
	g.addLink(ContainmentLink{Source: ModelID, Target: e.Name})
	for _, n := range buf.nodes {
		g.addNode(n)
	}
	for _, l := range buf.links {
		g.addLink(l)
	}
}

func parseNavigations(entity string, block []line, lv levels) []NavigationNode {
	var out []NavigationNode
	for _, ln := range block {
		if ln.depth != lv.item {
			continue
		}
		if nav, ok := parseNavigation(entity, ln.text); ok {
			out = append(out, nav)
		}
	}
	return out
}

func parseForeignKeys(block []line, lv levels) []ForeignKeyLink {
	var out []ForeignKeyLink
	for j, ln := range block {
		if ln.depth != lv.item {
			continue
		}
		fk, ok := parseForeignKey(ln.text)
		if !ok {
			continue
		}
		fk.Annotations = foreignKeyAnnotations(block, j, lv)
		out = append(out, fk)
	}
	return out
}
