package fhirlint

import (
	"strconv"
	"strings"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

const structureDefinitionURLPrefix = "http://dsf.dev/fhir/StructureDefinition/"

// cardinality is a parsed min/max pair; max == -1 means unbounded ("*").
type cardinality struct {
	min int
	max int // -1 for unbounded
}

func parseMax(s string) int {
	if s == "*" {
		return -1
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func (l *Linter) lintStructureDefinition(doc *xmldom.Document) []lintrule.LintItem {
	root := doc.Root
	url := valueOf(root, "url")
	loc := lintrule.FileLocation(doc.File)
	ref := url
	if ref == "" {
		ref = doc.File
	}

	var items []lintrule.LintItem
	ok := true

	if url == "" || !strings.HasPrefix(url, structureDefinitionURLPrefix) {
		items = append(items, l.itemf(KindStructureDefinitionURLInvalid, loc, ref, "url %q does not start with %q", url, structureDefinitionURLPrefix))
		ok = false
	}

	if valueOf(root, "status") != "unknown" {
		items = append(items, l.item(KindStructureDefinitionStatusNotUnknown, loc, ref, ""))
		ok = false
	}

	if !strings.Contains(valueOf(root, "version"), VersionPlaceholder) {
		items = append(items, l.item(KindStructureDefinitionVersionPlaceholder, loc, ref, ""))
		ok = false
	}

	if !strings.Contains(valueOf(root, "date"), DatePlaceholder) {
		items = append(items, l.item(KindStructureDefinitionDatePlaceholder, loc, ref, ""))
		ok = false
	}

	if !hasReadAccessTag(root) {
		items = append(items, l.item(KindStructureDefinitionReadAccessTag, loc, ref, ""))
		ok = false
	}

	differential := root.Child("differential")
	snapshot := root.Child("snapshot")
	if differential == nil {
		items = append(items, l.item(KindStructureDefinitionDifferentialMissing, loc, ref, ""))
		ok = false
	}
	if snapshot != nil {
		items = append(items, l.item(KindStructureDefinitionSnapshotPresent, loc, ref, ""))
	}

	if differential != nil {
		idItems, idOK := l.lintElementIDs(loc, ref, differential)
		items = append(items, idItems...)
		if !idOK {
			ok = false
		}

		sliceItems, sliceOK := l.lintSliceCardinalities(loc, ref, differential)
		items = append(items, sliceItems...)
		if !sliceOK {
			ok = false
		}
	}

	if ok {
		items = append(items, l.item(KindStructureDefinitionOK, loc, ref, ""))
	}
	return items
}

// lintElementIDs enforces "every element in differential has a non-blank
// @id; ids within a document are unique" (spec.md §4.5).
func (l *Linter) lintElementIDs(loc lintrule.Location, ref string, differential *xmldom.Node) ([]lintrule.LintItem, bool) {
	var items []lintrule.LintItem
	ok := true
	seen := make(map[string]int)
	for _, el := range differential.Children("element") {
		id, _ := el.Attr("id")
		if strings.TrimSpace(id) == "" {
			items = append(items, l.item(KindStructureDefinitionElementIDBlank, loc, ref, ""))
			ok = false
			continue
		}
		seen[id]++
		if seen[id] == 2 {
			items = append(items, l.itemf(KindStructureDefinitionElementIDDuplicate, loc, ref, "element id %q is duplicated", id))
			ok = false
		}
	}
	return items, ok
}

// lintSliceCardinalities implements spec.md §4.5's slice cardinality
// arithmetic (profile spec §5.1.0.14): elements are grouped by their
// base path (the id up to the first ":"); an element whose id contains
// ":" is a named slice of the base element with that path.
func (l *Linter) lintSliceCardinalities(loc lintrule.Location, ref string, differential *xmldom.Node) ([]lintrule.LintItem, bool) {
	type base struct {
		card     cardinality
		sliceIDs []string
	}
	bases := make(map[string]*base)
	slices := make(map[string]cardinality)

	for _, el := range differential.Children("element") {
		id, _ := el.Attr("id")
		min := valueOf(el, "min")
		max := valueOf(el, "max")
		card := cardinality{max: -1}
		if min != "" {
			card.min, _ = strconv.Atoi(min)
		}
		if max != "" {
			card.max = parseMax(max)
		}

		if idx := strings.IndexByte(id, ':'); idx >= 0 {
			basePath := id[:idx]
			b, ok := bases[basePath]
			if !ok {
				b = &base{card: cardinality{max: -1}}
				bases[basePath] = b
			}
			b.sliceIDs = append(b.sliceIDs, id)
			slices[id] = card
		} else {
			b, ok := bases[id]
			if !ok {
				b = &base{}
				bases[id] = b
			}
			b.card = card
		}
	}

	var items []lintrule.LintItem
	ok := true
	for path, b := range bases {
		if len(b.sliceIDs) == 0 {
			continue
		}
		baseMax := b.card.max
		var sumMin int
		for _, sliceID := range b.sliceIDs {
			sc := slices[sliceID]
			sliceMax := sc.max
			if _, present := hasMaxAttr(differential, sliceID); !present {
				sliceMax = baseMax
			}
			if baseMax != -1 && (sliceMax == -1 || sliceMax > baseMax) {
				sliceMaxText := "*"
				if sliceMax != -1 {
					sliceMaxText = strconv.Itoa(sliceMax)
				}
				items = append(items, l.itemf(KindStructureDefinitionSliceMaxExceedsBase, loc, ref, "slice %q max %s exceeds base %q max %d", sliceID, sliceMaxText, path, baseMax))
				ok = false
			}
			sumMin += sc.min
		}
		if baseMax != -1 && sumMin > baseMax {
			items = append(items, l.itemf(KindStructureDefinitionSliceMinSumExceedsMax, loc, ref, "sum of slice min (%d) exceeds base %q max %d", sumMin, path, baseMax))
			ok = false
		}
		if sumMin > b.card.min {
			items = append(items, l.itemf(KindStructureDefinitionSliceMinSumExceedsBaseMin, loc, ref, "sum of slice min (%d) exceeds base %q min %d", sumMin, path, b.card.min))
		}
	}
	return items, ok
}

// MessageNameFromStructureDefinition exposes messageNameFixedValue for a
// parsed StructureDefinition document, for orchestrate to harvest into the
// cross-reference Index before the BPMN pass runs.
func MessageNameFromStructureDefinition(doc *xmldom.Document) string {
	return messageNameFixedValue(doc.Root.Child("differential"))
}

// messageNameFixedValue returns the fixed string value declared by the
// differential element with id Task.input:message-name.value[x], or ""
// if the document carries no such element (spec.md §4.4: "... at least
// one StructureDefinition element fixed string with id
// Task.input:message-name.value[x]").
func messageNameFixedValue(differential *xmldom.Node) string {
	if differential == nil {
		return ""
	}
	for _, el := range differential.Children("element") {
		id, _ := el.Attr("id")
		if id != MessageNameElementID {
			continue
		}
		for _, c := range el.Nodes {
			if strings.HasPrefix(c.XMLName.Local, "fixed") {
				if v, ok := c.Attr("value"); ok {
					return v
				}
			}
		}
	}
	return ""
}

// hasMaxAttr reports whether the differential element with the given id
// declares an explicit max (used to apply the "omitted slice max
// inherits the base max" rule).
func hasMaxAttr(differential *xmldom.Node, id string) (string, bool) {
	for _, el := range differential.Children("element") {
		elID, _ := el.Attr("id")
		if elID != id {
			continue
		}
		maxEl := el.Child("max")
		if maxEl == nil {
			return "", false
		}
		v, ok := maxEl.Attr("value")
		return v, ok
	}
	return "", false
}
