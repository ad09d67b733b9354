// Package resource provides uniform, name-keyed access to a tree of byte
// streams sourced from a filesystem directory, a zip archive, or an ordered
// composite of both (spec.md §4.1).
package resource

import "strings"

// Ref is a normalised resource reference: forward slashes, no leading
// slash, no "classpath:" prefix (spec.md §3). Two Refs compare equal iff
// their normalised forms are equal; case is preserved except for the
// file-extension check in HasSuffixFold.
type Ref string

// Normalize implements the pipeline from spec.md §4.3: strip leading and
// trailing whitespace, remove a leading "classpath:", replace "\" with
// "/", then strip all leading "/". Idempotent: Normalize(Normalize(r)) ==
// Normalize(r) for every r (spec.md §8 property 1).
func Normalize(raw string) Ref {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "classpath:")
	s = strings.ReplaceAll(s, "\\", "/")
	s = strings.TrimLeft(s, "/")
	return Ref(s)
}

// String returns the normalised path as a string.
func (r Ref) String() string { return string(r) }

// HasSuffixFold reports whether r ends with suffix, case-insensitively on
// the suffix only (spec.md §3: ".xml"/".json" discrimination is
// case-insensitive on the suffix, while the rest of the path stays
// case-sensitive).
func (r Ref) HasSuffixFold(suffix string) bool {
	s := string(r)
	if len(s) < len(suffix) {
		return false
	}
	return strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// IsUnderDir reports whether r lies under dir (a "/"-terminated or bare
// directory prefix), used by Provider.List's prefix filter.
func (r Ref) IsUnderDir(dir string) bool {
	dir = string(Normalize(dir))
	if dir == "" {
		return true
	}
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	return strings.HasPrefix(string(r), dir)
}
