package fhirlint

import (
	"strings"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

const questionnaireURLPrefix = "http://dsf.dev/fhir/Questionnaire/"

var choiceItemTypes = map[string]bool{"choice": true, "open-choice": true}

func (l *Linter) lintQuestionnaire(doc *xmldom.Document) []lintrule.LintItem {
	root := doc.Root
	url := valueOf(root, "url")
	loc := lintrule.FileLocation(doc.File)
	ref := url
	if ref == "" {
		ref = doc.File
	}

	var items []lintrule.LintItem
	ok := true

	if url == "" || !strings.HasPrefix(url, questionnaireURLPrefix) {
		items = append(items, l.itemf(KindQuestionnaireURLInvalid, loc, ref, "url %q does not start with %q", url, questionnaireURLPrefix))
		ok = false
	}

	if valueOf(root, "status") != "unknown" {
		items = append(items, l.item(KindQuestionnaireStatusNotUnknown, loc, ref, ""))
		ok = false
	}

	if !strings.Contains(valueOf(root, "version"), VersionPlaceholder) {
		items = append(items, l.item(KindQuestionnaireVersionPlaceholder, loc, ref, ""))
		ok = false
	}

	if !strings.Contains(valueOf(root, "date"), DatePlaceholder) {
		items = append(items, l.item(KindQuestionnaireDatePlaceholder, loc, ref, ""))
		ok = false
	}

	if !hasReadAccessTag(root) {
		items = append(items, l.item(KindQuestionnaireReadAccessTag, loc, ref, ""))
		ok = false
	}

	seen := make(map[string]int)
	var walk func(item *xmldom.Node)
	walk = func(item *xmldom.Node) {
		linkID := valueOf(item, "linkId")
		if linkID != "" {
			seen[linkID]++
			if seen[linkID] == 2 {
				items = append(items, l.itemf(KindQuestionnaireLinkIDDuplicate, loc, ref, "item linkId %q is duplicated", linkID))
				ok = false
			}
		}

		itemType := valueOf(item, "type")
		if choiceItemTypes[itemType] {
			if avs := valueOf(item, "answerValueSet"); avs != "" {
				if l.Index != nil && len(l.Index.ValueSetURLs) > 0 && !l.Index.ValueSetURLs[stripVersion(avs)] {
					items = append(items, l.itemf(KindQuestionnaireAnswerValueSetUnknown, loc, ref, "item %q answerValueSet %q does not resolve to a known ValueSet in this archive", linkID, avs))
					ok = false
				}
			}
		}

		for _, child := range item.Children("item") {
			walk(child)
		}
	}
	for _, item := range root.Children("item") {
		walk(item)
	}

	if ok {
		items = append(items, l.item(KindQuestionnaireOK, loc, ref, ""))
	}
	return items
}
