package debugview

import "strings"

// The scanners below look forward from a line index without moving the
// caller's cursor. Each is bounded by the end of the enclosing entity block.

// entityAnnotations collects the entries of the entity-level "Annotations:"
// section of the entity whose header is at index header.
func (d *document) entityAnnotations(header int) []string {
	block, ok := d.blockOf(header)
	if !ok {
		return nil
	}
	lv := block.levels
	for i := header + 1; i < block.end; i++ {
		ln := d.lines[i]
		if ln.depth == lv.section && ln.marks("Annotations") {
			return d.entries(i+1, block.end, lv.section)
		}
	}
	return nil
}

// propertyAnnotations collects the annotation entries nested under the
// property descriptor at index i. The "Annotations:" marker must be the
// next line.
func (d *document) propertyAnnotations(i int) []string {
	block, ok := d.blockOf(i)
	if !ok || i+1 >= block.end {
		return nil
	}
	next := d.lines[i+1]
	if next.depth != block.levels.annotation || !next.marks("Annotations") {
		return nil
	}
	return d.entries(i+2, block.end, next.depth)
}

// navigationBlock returns the lines of the first "Navigations:" section
// following line i, without the marker line itself.
func (d *document) navigationBlock(i int) []line {
	return d.section(i, "Navigations")
}

// foreignKeyBlock returns the lines of the first "Foreign keys:" section
// following line i, without the marker line itself.
func (d *document) foreignKeyBlock(i int) []line {
	return d.section(i, "Foreign keys")
}

func (d *document) section(i int, name string) []line {
	block, ok := d.blockOf(i)
	if !ok {
		return nil
	}
	lv := block.levels
	for j := i + 1; j < block.end; j++ {
		ln := d.lines[j]
		if ln.depth != lv.section || !ln.marks(name) {
			continue
		}
		var out []line
		for k := j + 1; k < block.end; k++ {
			body := d.lines[k]
			if body.blank() {
				continue
			}
			if body.depth <= lv.section {
				break
			}
			out = append(out, body)
		}
		return out
	}
	return nil
}

// entries returns the trimmed non-blank lines in [from, to) nested deeper
// than parentDepth, stopping at the first line that is not.
func (d *document) entries(from, to, parentDepth int) []string {
	var out []string
	for i := from; i < to; i++ {
		ln := d.lines[i]
		if ln.blank() {
			continue
		}
		if ln.depth <= parentDepth {
			break
		}
		if strings.HasPrefix(ln.text, "Annotations:") {
			continue
		}
		out = append(out, ln.text)
	}
	return out
}

// foreignKeyAnnotations collects the annotation entries nested under the
// descriptor at block[j], up to the next descriptor.
func foreignKeyAnnotations(block []line, j int, lv levels) []string {
	var out []string
	for _, ln := range block[j+1:] {
		if ln.depth <= lv.item {
			break
		}
		if ln.depth > lv.annotation {
			out = append(out, ln.text)
		}
	}
	return out
}
