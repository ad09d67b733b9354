package resource

import (
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no provider contains the path
// (spec.md §4.1: "open fails when no provider contains the path").
var ErrNotFound = errors.New("resource: not found")

// Provider is uniform read access to a tree of named byte streams
// (spec.md §4.1). Implementations: filesystem-backed, archive-backed, and
// an ordered composite of sub-providers.
type Provider interface {
	// List returns every entry whose path is under dir (dir == "" lists
	// everything), as a lazy sequence (spec.md: "list(directory) → lazy
	// sequence of entries"). Duplicates across combined sources are
	// suppressed by Composite, not by individual providers.
	List(dir string) func(yield func(Ref) bool)

	// Open returns the bytes at path, or ErrNotFound.
	Open(path string) (io.ReadCloser, error)

	// Exists reports whether path resolves to a regular entry.
	Exists(path string) bool

	// Describe returns a human-readable description of this provider,
	// for diagnostics (e.g. resolution-strategy reporting).
	Describe() string
}

// ListAll drains a Provider.List sequence into a slice, for callers that
// need the full set (e.g. discovery, which does not process FHIR trees
// incrementally).
func ListAll(p Provider, dir string) []Ref {
	var out []Ref
	for ref := range p.List(dir) {
		out = append(out, ref)
	}
	return out
}
