package fhirlint

import (
	"strings"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

const valueSetURLPrefix = "http://dsf.dev/fhir/ValueSet/"

func (l *Linter) lintValueSet(doc *xmldom.Document) []lintrule.LintItem {
	root := doc.Root
	url := valueOf(root, "url")
	loc := lintrule.FileLocation(doc.File)
	ref := url
	if ref == "" {
		ref = doc.File
	}

	var items []lintrule.LintItem
	ok := true

	if url == "" || !strings.HasPrefix(url, valueSetURLPrefix) {
		items = append(items, l.itemf(KindValueSetURLInvalid, loc, ref, "url %q does not start with %q", url, valueSetURLPrefix))
		ok = false
	}

	if valueOf(root, "status") != "unknown" {
		items = append(items, l.item(KindValueSetStatusNotUnknown, loc, ref, ""))
		ok = false
	}

	if !strings.Contains(valueOf(root, "version"), VersionPlaceholder) {
		items = append(items, l.item(KindValueSetVersionPlaceholder, loc, ref, ""))
		ok = false
	}

	if !strings.Contains(valueOf(root, "date"), DatePlaceholder) {
		items = append(items, l.item(KindValueSetDatePlaceholder, loc, ref, ""))
		ok = false
	}

	if !hasReadAccessTag(root) {
		items = append(items, l.item(KindValueSetReadAccessTag, loc, ref, ""))
		ok = false
	}

	if compose := root.Child("compose"); compose != nil {
		for _, include := range compose.Children("include") {
			system := valueOf(include, "system")
			if system == "" {
				continue
			}
			if l.Index != nil && len(l.Index.CodeSystemURLs) > 0 && !l.Index.CodeSystemURLs[stripVersion(system)] {
				items = append(items, l.itemf(KindValueSetIncludeSystemUnknown, loc, ref, "compose.include.system %q does not resolve to a known CodeSystem in this archive", system))
				ok = false
			}
		}
	}

	if ok {
		items = append(items, l.item(KindValueSetOK, loc, ref, ""))
	}
	return items
}
