// Package bpmndom aliases the shared xmldom tree for BPMN documents.
// BPMN needs no extra structure beyond the generic element tree: every
// process-level and element-level rule in spec.md §4.4 is expressed as a
// walk over local element/attribute names.
package bpmndom

import (
	"io"

	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

type (
	Node     = xmldom.Node
	Document = xmldom.Document
)

// Parse decodes r into a Document (see xmldom.Parse).
func Parse(r io.Reader, file string) (*Document, error) {
	return xmldom.Parse(r, file)
}
