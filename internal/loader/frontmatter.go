package loader

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the optional YAML header of a captured debug view:
//
//	---
//	context: SamuraiContext
//	direction: TopToBottom
//	---
//	Model:
//	  EntityType: Samurai
type Frontmatter struct {
	Context   string `yaml:"context"`
	Direction string `yaml:"direction"`
	Layout    string `yaml:"layout"`
}

var frontmatterPattern = regexp.MustCompile(`(?s)\A\s*---[ \t]*\n(.*?)\n---[ \t]*(?:\n|\z)`)

var knownFrontmatterFields = map[string]bool{
	"context":   true,
	"direction": true,
	"layout":    true,
}

var validDirections = map[string]bool{
	"LeftToRight": true,
	"RightToLeft": true,
	"TopToBottom": true,
	"BottomToTop": true,
}

// splitFrontmatter separates a leading YAML block from the debug view text.
// found is false when the text has no frontmatter.
func splitFrontmatter(text string) (fm Frontmatter, body string, found bool, err error) {
	m := frontmatterPattern.FindStringSubmatchIndex(text)
	if m == nil {
		return Frontmatter{}, text, false, nil
	}
	raw := text[m[2]:m[3]]
	body = text[m[1]:]

	var fields map[string]any
	if err := yaml.Unmarshal([]byte(raw), &fields); err != nil {
		return Frontmatter{}, "", true, &FrontmatterError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}
	for field := range fields {
		if !knownFrontmatterFields[field] {
			return Frontmatter{}, "", true, &FrontmatterError{Message: fmt.Sprintf("unknown field %q", field)}
		}
	}
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		return Frontmatter{}, "", true, &FrontmatterError{Message: fmt.Sprintf("failed to parse frontmatter: %v", err)}
	}
	if fm.Direction != "" && !validDirections[fm.Direction] {
		return Frontmatter{}, "", true, &FrontmatterError{
			Message: fmt.Sprintf("invalid direction %q, must be one of: LeftToRight, RightToLeft, TopToBottom, BottomToTop", fm.Direction),
		}
	}
	fm.Context = strings.TrimSpace(fm.Context)
	return fm, body, true, nil
}

// FrontmatterError reports a malformed frontmatter block.
type FrontmatterError struct {
	File    string
	Message string
}

func (e *FrontmatterError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: frontmatter: %s", e.File, e.Message)
	}
	return "frontmatter: " + e.Message
}
