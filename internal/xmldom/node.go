// Package xmldom provides a generic, namespace-tolerant XML element tree
// shared by the BPMN and FHIR linters — the Go-native stand-in for a
// DOM/XPath traversal surface, built on encoding/xml since no dedicated
// XML or XPath library appears anywhere in the example corpus.
package xmldom

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Node is one element in the parsed tree. Traversal methods compare
// local names only, ignoring namespace prefixes — BPMN and FHIR
// documents vary prefix conventions (bpmn:, bpmn2:, camunda:, fhir:,
// unprefixed) but never local element names, so walking "via schema
// attachment points, not via string search" (spec.md §4.4) means
// matching on Local rather than on the raw tag text.
type Node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Content string     `xml:",chardata"`
	Nodes   []*Node    `xml:",any"`
}

// Attr returns the value of the first attribute with the given local
// name, ignoring its namespace.
func (n *Node) Attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns Attr's value or fallback when absent.
func (n *Node) AttrOr(local, fallback string) string {
	if v, ok := n.Attr(local); ok {
		return v
	}
	return fallback
}

// Children returns the immediate children with the given local name.
func (n *Node) Children(localName string) []*Node {
	var out []*Node
	for _, c := range n.Nodes {
		if c.XMLName.Local == localName {
			out = append(out, c)
		}
	}
	return out
}

// Child returns the first immediate child with the given local name.
func (n *Node) Child(localName string) *Node {
	for _, c := range n.Nodes {
		if c.XMLName.Local == localName {
			return c
		}
	}
	return nil
}

// Descendants returns every descendant (not self) with the given local
// name, in document order.
func (n *Node) Descendants(localName string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		for _, c := range node.Nodes {
			if c.XMLName.Local == localName {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Walk calls fn for every node in the subtree rooted at n, including n
// itself, in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Nodes {
		c.Walk(fn)
	}
}

// Document is a parsed XML document plus the file name it came from, for
// diagnostic locations.
type Document struct {
	File string
	Root *Node
}

// Parse decodes r into a Document. It never returns a partially built
// tree on error — BPMN/FHIR parse failure is all-or-nothing per
// spec.md §4.4/§4.5's "a file that fails to parse contributes nothing
// else".
func Parse(r io.Reader, file string) (*Document, error) {
	dec := xml.NewDecoder(r)
	var root Node
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("xmldom: parse %s: %w", file, err)
	}
	return &Document{File: file, Root: &root}, nil
}
