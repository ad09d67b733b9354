package fhirlint

import (
	"strings"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintctx"
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

// Index is the set of sibling FHIR resources a single document's rules
// may need to cross-reference (spec.md §4.5: message-name lookup,
// ValueSet/CodeSystem/ActivityDefinition existence checks). Built once
// per lint run from every FHIR reference the manifest resolved.
type Index struct {
	// ActivityDefinitionURLs is the set of canonical URLs (version suffix
	// stripped) every ActivityDefinition in the archive declares.
	ActivityDefinitionURLs map[string]bool
	// CodeSystemURLs and ValueSetURLs mirror ActivityDefinitionURLs for
	// their respective resource types.
	CodeSystemURLs map[string]bool
	ValueSetURLs   map[string]bool
	// AuthorizationCodes is the closed set of codes the process-
	// authorization extension may reference (internal/lintconfig loads
	// this from the external catalogue file).
	AuthorizationCodes map[string]bool
	// ActivityDefinitionMessageNames and StructureDefinitionMessageNames
	// are the message name values declared by, respectively, every
	// ActivityDefinition's message-name extension and every
	// StructureDefinition's Task.input:message-name.value[x] fixed
	// string — the cross-reference internal/bpmnlint's message-name rule
	// resolves BPMN messageRef names against (spec.md §4.4).
	ActivityDefinitionMessageNames  map[string]bool
	StructureDefinitionMessageNames map[string]bool
}

// NewIndex creates an empty Index; callers populate the maps as sibling
// documents are discovered.
func NewIndex() *Index {
	return &Index{
		ActivityDefinitionURLs:          make(map[string]bool),
		CodeSystemURLs:                  make(map[string]bool),
		ValueSetURLs:                    make(map[string]bool),
		AuthorizationCodes:              make(map[string]bool),
		ActivityDefinitionMessageNames:  make(map[string]bool),
		StructureDefinitionMessageNames: make(map[string]bool),
	}
}

// Linter applies the FHIR rule catalogue to parsed documents.
type Linter struct {
	Catalogue *lintrule.Catalogue
	Overrides map[lintrule.Kind]lintrule.Severity
	Index     *Index

	// Recover bounds each resource-type dispatch with panic recovery
	// (spec.md §7). Nil is safe and simply runs the dispatch unrecovered,
	// which unit tests that build a Linter by struct literal rely on.
	Recover *lintctx.Context
}

// New creates a Linter against the default (process-wide) catalogue.
func New(index *Index) *Linter {
	if index == nil {
		index = NewIndex()
	}
	return &Linter{Catalogue: lintrule.DefaultCatalogue(), Index: index, Recover: lintctx.New()}
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

// UnparsableFile builds the single LintItem a FHIR document that failed
// to parse contributes (spec.md §4.5).
func (l *Linter) UnparsableFile(file string, cause error) lintrule.LintItem {
	return l.itemf(KindUnparsable, lintrule.FileLocation(file), file, "FHIR document could not be parsed: %v", cause)
}

// LintFile dispatches doc to the rule set for its root local name,
// matching exactly one of ActivityDefinition, StructureDefinition,
// CodeSystem, ValueSet, Questionnaire, Task; other resource types are
// skipped and contribute nothing (spec.md §4.5 "Dispatch").
func (l *Linter) LintFile(doc *xmldom.Document) []lintrule.LintItem {
	loc := lintrule.FileLocation(doc.File)
	switch doc.Root.XMLName.Local {
	case "ActivityDefinition":
		return l.evalRule("activity-definition", loc, func() []lintrule.LintItem { return l.lintActivityDefinition(doc) })
	case "StructureDefinition":
		return l.evalRule("structure-definition", loc, func() []lintrule.LintItem { return l.lintStructureDefinition(doc) })
	case "CodeSystem":
		return l.evalRule("code-system", loc, func() []lintrule.LintItem { return l.lintCodeSystem(doc) })
	case "ValueSet":
		return l.evalRule("value-set", loc, func() []lintrule.LintItem { return l.lintValueSet(doc) })
	case "Questionnaire":
		return l.evalRule("questionnaire", loc, func() []lintrule.LintItem { return l.lintQuestionnaire(doc) })
	case "Task":
		return l.evalRule("task", loc, func() []lintrule.LintItem { return l.lintTask(doc) })
	default:
		return nil
	}
}

// stripVersion removes a "|version" suffix from a canonical URL.
func stripVersion(url string) string {
	if idx := strings.IndexByte(url, '|'); idx >= 0 {
		return url[:idx]
	}
	return url
}

// hasReadAccessTag reports whether root's first meta.tag declares the
// ALL read-access tag (spec.md §4.5).
func hasReadAccessTag(root *xmldom.Node) bool {
	meta := root.Child("meta")
	if meta == nil {
		return false
	}
	tags := meta.Children("tag")
	if len(tags) == 0 {
		return false
	}
	tag := tags[0]
	system := tag.Child("system")
	code := tag.Child("code")
	if system == nil || code == nil {
		return false
	}
	sysValue, _ := system.Attr("value")
	codeValue, _ := code.Attr("value")
	return sysValue == ReadAccessTagSystem && codeValue == ReadAccessTagCodeAll
}

func valueOf(parent *xmldom.Node, childName string) string {
	if parent == nil {
		return ""
	}
	c := parent.Child(childName)
	if c == nil {
		return ""
	}
	v, _ := c.Attr("value")
	return v
}
