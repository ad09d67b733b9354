package lintrule

import "fmt"

// LintItem is one entry in the lint report: the sum type spec.md §9
// prescribes in place of a deep hierarchy of per-rule item subclasses.
// Per-kind data that would otherwise live in a subclass field is folded
// into Message.
type LintItem struct {
	Severity Severity
	Kind     Kind
	Location Location
	// Reference is the canonical URL or process id this item concerns.
	// Never empty (spec.md §3 invariant); falls back to the location's
	// file name when no canonical identifier is known.
	Reference string
	Message   string
}

// New builds a LintItem from a catalogue-registered kind, applying the
// catalogue's default severity and (if msg is empty) default message.
// overrides may be nil; when it maps kind to a severity, that severity
// wins over the catalogue default (config.Config severity overrides).
func New(cat *Catalogue, kind Kind, loc Location, reference, msg string, overrides map[Kind]Severity) LintItem {
	entry, ok := cat.Get(kind)
	severity := SeverityError
	if ok {
		severity = entry.DefaultSeverity
		if msg == "" {
			msg = entry.DefaultMessage
		}
	}
	if overrides != nil {
		if s, found := overrides[kind]; found {
			severity = s
		}
	}
	if reference == "" {
		reference = loc.File
	}
	return LintItem{
		Severity:  severity,
		Kind:      kind,
		Location:  loc,
		Reference: reference,
		Message:   msg,
	}
}

// Newf is New with a fmt.Sprintf-formatted message.
func Newf(cat *Catalogue, kind Kind, loc Location, reference string, overrides map[Kind]Severity, format string, args ...any) LintItem {
	return New(cat, kind, loc, reference, fmt.Sprintf(format, args...), overrides)
}

// Enabled reports whether kind is enabled under the given overrides — i.e.
// its effective severity (override, or catalogue default) is not Off.
func Enabled(cat *Catalogue, kind Kind, overrides map[Kind]Severity) bool {
	if overrides != nil {
		if s, found := overrides[kind]; found {
			return s != SeverityOff
		}
	}
	entry, ok := cat.Get(kind)
	if !ok {
		return true
	}
	return entry.DefaultSeverity != SeverityOff
}
