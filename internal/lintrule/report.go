package lintrule

import "sort"

// Report is the ordered lint output for one run (spec.md §3), grouped by
// the phase that produced each item: discovery, resolution, the BPMN
// engine, and the FHIR engine. Within a group, items preserve emission
// order (spec.md §5: "rule items are emitted in the order rules are
// declared"); across files, order follows the manifest's declared
// sequence, which is the order callers append files in.
type Report struct {
	Discovery  []LintItem
	Resolution []LintItem
	BPMN       []LintItem
	FHIR       []LintItem

	// TimedOut marks a partial report produced because the orchestrator's
	// deadline expired mid-run (spec.md §5).
	TimedOut bool
}

// All returns every item in the report, producer groups concatenated in
// pipeline order: discovery, resolution, BPMN, FHIR.
func (r Report) All() []LintItem {
	out := make([]LintItem, 0, len(r.Discovery)+len(r.Resolution)+len(r.BPMN)+len(r.FHIR))
	out = append(out, r.Discovery...)
	out = append(out, r.Resolution...)
	out = append(out, r.BPMN...)
	out = append(out, r.FHIR...)
	return out
}

// HasErrors reports whether any item in the report has Severity Error.
func (r Report) HasErrors() bool {
	for _, item := range r.All() {
		if item.Severity == SeverityError {
			return true
		}
	}
	return false
}

// HasAtLeast reports whether any item is at least as severe as threshold.
func (r Report) HasAtLeast(threshold Severity) bool {
	for _, item := range r.All() {
		if item.Severity.IsAtLeastAsSevereAs(threshold) {
			return true
		}
	}
	return false
}

// SortStable sorts a slice of items by file, then element, then kind, for
// deterministic display — the same stability guarantee as the teacher's
// reporter.SortViolations, adapted to our coordinate set (no line/column
// for most FHIR findings).
func SortStable(items []LintItem) []LintItem {
	sorted := make([]LintItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Location.File != sorted[j].Location.File {
			return sorted[i].Location.File < sorted[j].Location.File
		}
		if sorted[i].Location.Element != sorted[j].Location.Element {
			return sorted[i].Location.Element < sorted[j].Location.Element
		}
		return sorted[i].Kind < sorted[j].Kind
	})
	return sorted
}
