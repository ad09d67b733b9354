package fhirlint

import (
	"strings"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

const codeSystemURLPrefix = "http://dsf.dev/fhir/CodeSystem/"

func (l *Linter) lintCodeSystem(doc *xmldom.Document) []lintrule.LintItem {
	root := doc.Root
	url := valueOf(root, "url")
	loc := lintrule.FileLocation(doc.File)
	ref := url
	if ref == "" {
		ref = doc.File
	}

	var items []lintrule.LintItem
	ok := true

	if url == "" || !strings.HasPrefix(url, codeSystemURLPrefix) {
		items = append(items, l.itemf(KindCodeSystemURLInvalid, loc, ref, "url %q does not start with %q", url, codeSystemURLPrefix))
		ok = false
	}

	if valueOf(root, "status") != "unknown" {
		items = append(items, l.item(KindCodeSystemStatusNotUnknown, loc, ref, ""))
		ok = false
	}

	if valueOf(root, "content") != "complete" {
		items = append(items, l.item(KindCodeSystemContentNotComplete, loc, ref, ""))
		ok = false
	}

	if !strings.Contains(valueOf(root, "version"), VersionPlaceholder) {
		items = append(items, l.item(KindCodeSystemVersionPlaceholder, loc, ref, ""))
		ok = false
	}

	if !strings.Contains(valueOf(root, "date"), DatePlaceholder) {
		items = append(items, l.item(KindCodeSystemDatePlaceholder, loc, ref, ""))
		ok = false
	}

	if !hasReadAccessTag(root) {
		items = append(items, l.item(KindCodeSystemReadAccessTag, loc, ref, ""))
		ok = false
	}

	seen := make(map[string]int)
	for _, concept := range root.Children("concept") {
		code := valueOf(concept, "code")
		if code == "" {
			continue
		}
		seen[code]++
		if seen[code] == 2 {
			items = append(items, l.itemf(KindCodeSystemConceptCodeDuplicate, loc, ref, "concept code %q is duplicated", code))
			ok = false
		}
	}

	if ok {
		items = append(items, l.item(KindCodeSystemOK, loc, ref, ""))
	}
	return items
}
