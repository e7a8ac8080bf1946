// Package dgml writes Directed Graph Markup Language documents from a parsed
// debug view graph.
package dgml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/leapdgml/pkg/debugview"
)

// Namespace is the DGML XML namespace.
const Namespace = "http://schemas.microsoft.com/vs/2009/dgml"

// Default layout settings.
const (
	DefaultDirection = "LeftToRight"
	DefaultLayout    = "Sugiyama"
)

// Options controls document-level attributes.
type Options struct {
	Direction string
	Layout    string
}

// DirectedGraph is the document root.
type DirectedGraph struct {
	XMLName        xml.Name   `xml:"http://schemas.microsoft.com/vs/2009/dgml DirectedGraph"`
	GraphDirection string     `xml:"GraphDirection,attr,omitempty"`
	Layout         string     `xml:"Layout,attr,omitempty"`
	Nodes          fragments  `xml:"Nodes"`
	Links          fragments  `xml:"Links"`
	Categories     []Category `xml:"Categories>Category"`
	Properties     []Property `xml:"Properties>Property"`
	Styles         []Style    `xml:"Styles>Style"`
}

// fragments holds pre-rendered child elements.
type fragments struct {
	Inner string `xml:",innerxml"`
}

// Category declares a node or link category.
type Category struct {
	ID         string `xml:"Id,attr"`
	Label      string `xml:"Label,attr,omitempty"`
	Background string `xml:"Background,attr,omitempty"`
	Stroke     string `xml:"Stroke,attr,omitempty"`
	IsTag      string `xml:"IsTag,attr,omitempty"`
}

// Property declares a custom attribute used on nodes or links.
type Property struct {
	ID       string `xml:"Id,attr"`
	Label    string `xml:"Label,attr,omitempty"`
	DataType string `xml:"DataType,attr"`
}

// Style is a conditional visual rule.
type Style struct {
	TargetType string    `xml:"TargetType,attr"`
	GroupLabel string    `xml:"GroupLabel,attr,omitempty"`
	ValueLabel string    `xml:"ValueLabel,attr,omitempty"`
	Condition  Condition `xml:"Condition"`
	Setters    []Setter  `xml:"Setter"`
}

// Condition is a style's match expression.
type Condition struct {
	Expression string `xml:"Expression,attr"`
}

// Setter assigns one visual property.
type Setter struct {
	Property string `xml:"Property,attr"`
	Value    string `xml:"Value,attr"`
}

// New assembles the document for g.
func New(g *debugview.Graph, opts Options) DirectedGraph {
	if opts.Direction == "" {
		opts.Direction = DefaultDirection
	}
	if opts.Layout == "" {
		opts.Layout = DefaultLayout
	}
	return DirectedGraph{
		GraphDirection: opts.Direction,
		Layout:         opts.Layout,
		Nodes:          joinFragments(g.Nodes()),
		Links:          joinFragments(g.Links()),
		Categories:     categories(),
		Properties:     properties(),
		Styles:         styles(),
	}
}

// Write encodes the document for g to w, including the XML declaration.
func Write(w io.Writer, g *debugview.Graph, opts Options) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(New(g, opts)); err != nil {
		return fmt.Errorf("failed to encode dgml: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write dgml: %w", err)
	}
	return nil
}

// Render returns the encoded document for g.
func Render(g *debugview.Graph, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, g, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinFragments(items []string) fragments {
	if len(items) == 0 {
		return fragments{}
	}
	return fragments{Inner: "\n    " + strings.Join(items, "\n    ") + "\n  "}
}
