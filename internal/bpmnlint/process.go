package bpmnlint

import (
	"regexp"

	"github.com/dsf-tools/dsf-plugin-linter/internal/bpmndom"
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintctx"
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
)

// processIDPattern is spec.md §4.4's required process-id shape:
// "^[A-Za-z0-9-]+_[A-Za-z0-9-]+$".
var processIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]+_[A-Za-z0-9-]+$`)

// MessageNameIndex is the set of message name values declared by sibling
// FHIR resources that a BPMN message reference must resolve against
// (spec.md §4.4 "Message name"), built by orchestrate from the parsed
// FHIR documents before the BPMN pass runs.
type MessageNameIndex struct {
	ActivityDefinition  map[string]bool
	StructureDefinition map[string]bool
}

// Linter applies the BPMN rule catalogue to parsed documents.
type Linter struct {
	Catalogue    *lintrule.Catalogue
	Overrides    map[lintrule.Kind]lintrule.Severity
	Classes      *ClassResolver
	MessageNames MessageNameIndex

	// Recover bounds each rule evaluation with panic recovery (spec.md
	// §7). Defaults to a fresh lintctx.Context in New; zero value is
	// nil-safe and simply runs rules unrecovered, which unit tests that
	// build a Linter by struct literal rely on.
	Recover *lintctx.Context
}

// New creates a Linter against the default (process-wide) catalogue.
func New(classes *ClassResolver) *Linter {
	return &Linter{Catalogue: lintrule.DefaultCatalogue(), Classes: classes, Recover: lintctx.New()}
}

// evalRule runs fn under panic recovery, emitting a single
// RuleEvaluationFailed item in fn's place if it panics (spec.md §7).
func (l *Linter) evalRule(ruleName string, loc lintrule.Location, fn func() []lintrule.LintItem) []lintrule.LintItem {
	if l.Recover == nil {
		return fn()
	}
	var items []lintrule.LintItem
	msg, ok := l.Recover.RecoverRule(ruleName, func() { items = fn() })
	if !ok {
		return []lintrule.LintItem{l.itemf(lintrule.KindRuleEvaluationFailed, loc, ruleName, "rule %q failed: %s", ruleName, msg)}
	}
	return items
}

func (l *Linter) item(kind lintrule.Kind, loc lintrule.Location, reference, msg string) lintrule.LintItem {
	return lintrule.New(l.Catalogue, kind, loc, reference, msg, l.Overrides)
}

func (l *Linter) itemf(kind lintrule.Kind, loc lintrule.Location, reference, format string, args ...any) lintrule.LintItem {
	return lintrule.Newf(l.Catalogue, kind, loc, reference, l.Overrides, format, args...)
}

// LintFile applies every rule to one parsed BPMN document and returns its
// LintItems in declaration order (spec.md §5: "within a single file, rule
// items are emitted in the order rules are declared").
func (l *Linter) LintFile(doc *bpmndom.Document) []lintrule.LintItem {
	processes := doc.Root.Descendants("process")
	if doc.Root.XMLName.Local == "process" {
		processes = append([]*bpmndom.Node{doc.Root}, processes...)
	}

	var items []lintrule.LintItem
	switch {
	case len(processes) == 0:
		items = append(items, l.item(KindFileNoProcess, lintrule.FileLocation(doc.File), doc.File, ""))
		return items
	case len(processes) > 1:
		items = append(items, l.item(KindFileMultipleProcesses, lintrule.FileLocation(doc.File), doc.File, ""))
		return items
	}

	process := processes[0]
	processLoc := lintrule.ElementLocation(doc.File, process.AttrOr("id", ""))
	items = append(items, l.evalRule("process", processLoc, func() []lintrule.LintItem {
		return l.lintProcess(doc.File, process)
	})...)
	items = append(items, l.lintElements(doc, process)...)
	return items
}

// UnparsableFile builds the single LintItem a BPMN file that failed to
// parse contributes (spec.md §4.4: "a BPMN file that fails to parse
// produces exactly one UnparsableBpmnFileLintItem ... and that file
// contributes nothing else").
func (l *Linter) UnparsableFile(file string, cause error) lintrule.LintItem {
	return l.itemf(KindUnparsableBpmnFile, lintrule.FileLocation(file), file, "BPMN file could not be parsed: %v", cause)
}

func (l *Linter) lintProcess(file string, process *bpmndom.Node) []lintrule.LintItem {
	id := process.AttrOr("id", "")
	loc := lintrule.ElementLocation(file, id)
	var items []lintrule.LintItem
	ok := true

	if id == "" {
		items = append(items, l.item(KindProcessIDEmpty, loc, file, ""))
		ok = false
	} else if !processIDPattern.MatchString(id) {
		items = append(items, l.itemf(KindProcessIDPatternMismatch, loc, id, "process id %q does not match ^[A-Za-z0-9-]+_[A-Za-z0-9-]+$", id))
		ok = false
	}

	if process.AttrOr("isExecutable", "") != "true" {
		items = append(items, l.item(KindProcessNotExecutable, loc, id, ""))
		ok = false
	}

	if process.AttrOr("historyTimeToLive", "") == "" {
		items = append(items, l.item(KindProcessHistoryTTLMissing, loc, id, ""))
	}

	if len(process.Children("versionTag")) == 0 && process.AttrOr("versionTag", "") == "" {
		items = append(items, l.item(KindProcessVersionTagMissing, loc, id, ""))
	}

	if ok {
		items = append(items, l.item(KindProcessOK, loc, id, ""))
	}
	return items
}
