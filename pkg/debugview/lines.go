package debugview

import "strings"

const defaultIndentUnit = 2

// line is one input line with its indentation measured.
type line struct {
	text  string
	depth int
}

func measure(raw string) line {
	depth := 0
	for depth < len(raw) && (raw[depth] == ' ' || raw[depth] == '\t') {
		depth++
	}
	return line{text: strings.TrimSpace(raw), depth: depth}
}

func (l line) blank() bool { return l.text == "" }

// marks reports whether the line is the named subsection marker, e.g. "Foreign keys:".
func (l line) marks(name string) bool {
	head, _, ok := strings.Cut(l.text, ":")
	return ok && strings.EqualFold(head, name) && strings.TrimSpace(l.text[len(head)+1:]) == ""
}

// levels holds the expected depth of each nesting level inside one entity block.
type levels struct {
	entity     int // "EntityType:" header
	section    int // "Properties:", "Navigations:", "Keys:", ...
	item       int // property, navigation and foreign key descriptors
	annotation int // "Annotations:" under a descriptor
}

func levelsAt(entityDepth, unit int) levels {
	return levels{
		entity:     entityDepth,
		section:    entityDepth + unit,
		item:       entityDepth + 2*unit,
		annotation: entityDepth + 3*unit,
	}
}

// entityBlock spans an entity header and the lines nested under it.
type entityBlock struct {
	header int
	end    int // exclusive
	levels levels
}

// document is the measured line sequence with its entity blocks located.
type document struct {
	lines  []line
	owner  []int // index into blocks, -1 outside any entity
	blocks []entityBlock
}

func newDocument(raw []string) *document {
	d := &document{
		lines: make([]line, len(raw)),
		owner: make([]int, len(raw)),
	}
	for i, r := range raw {
		d.lines[i] = measure(r)
		d.owner[i] = -1
	}

	for i, ln := range d.lines {
		if !isEntityHeader(ln) {
			continue
		}
		unit, end := 0, len(d.lines)
		for j := i + 1; j < len(d.lines); j++ {
			next := d.lines[j]
			if next.blank() {
				continue
			}
			if next.depth <= ln.depth {
				end = j
				break
			}
			if unit == 0 {
				unit = next.depth - ln.depth
			}
		}
		if unit == 0 {
			unit = defaultIndentUnit
		}
		d.blocks = append(d.blocks, entityBlock{header: i, end: end, levels: levelsAt(ln.depth, unit)})
		for j := i; j < end; j++ {
			d.owner[j] = len(d.blocks) - 1
		}
	}
	return d
}

// blockOf returns the entity block containing line i.
func (d *document) blockOf(i int) (entityBlock, bool) {
	if i < 0 || i >= len(d.owner) || d.owner[i] < 0 {
		return entityBlock{}, false
	}
	return d.blocks[d.owner[i]], true
}

func isEntityHeader(l line) bool {
	return strings.HasPrefix(l.text, "EntityType:")
}
