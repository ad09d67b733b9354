package fhirlint

import (
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

var validTaskStatuses = map[string]bool{"draft": true, "requested": true}

var validTaskIntents = map[string]bool{"order": true}

func (l *Linter) lintTask(doc *xmldom.Document) []lintrule.LintItem {
	root := doc.Root
	loc := lintrule.FileLocation(doc.File)
	ref := doc.File

	var items []lintrule.LintItem
	ok := true

	canonical := valueOf(root, "instantiatesCanonical")
	if canonical == "" || l.Index == nil || len(l.Index.ActivityDefinitionURLs) == 0 || l.Index.ActivityDefinitionURLs[stripVersion(canonical)] {
		if canonical != "" {
			items = append(items, l.item(KindActivityDefinitionExists, loc, ref, ""))
		}
	} else {
		items = append(items, l.itemf(KindTaskUnknownInstantiatesCanonical, loc, ref, "instantiatesCanonical %q does not resolve to a known ActivityDefinition in this archive", canonical))
		ok = false
	}

	if status := valueOf(root, "status"); !validTaskStatuses[status] {
		items = append(items, l.itemf(KindTaskStatusInvalid, loc, ref, "status %q is not a recognised Task status", status))
		ok = false
	}

	if intent := valueOf(root, "intent"); !validTaskIntents[intent] {
		items = append(items, l.itemf(KindTaskIntentInvalid, loc, ref, "intent %q is not a recognised Task intent", intent))
		ok = false
	}

	if meta := root.Child("meta"); meta == nil || valueOf(meta, "profile") == "" {
		items = append(items, l.item(KindTaskProfileMissing, loc, ref, ""))
		ok = false
	}

	if ok {
		items = append(items, l.item(KindTaskOK, loc, ref, ""))
	}
	return items
}
