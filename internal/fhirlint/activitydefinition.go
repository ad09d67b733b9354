package fhirlint

import (
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

func (l *Linter) lintActivityDefinition(doc *xmldom.Document) []lintrule.LintItem {
	root := doc.Root
	url := valueOf(root, "url")
	loc := lintrule.FileLocation(doc.File)
	ref := url
	if ref == "" {
		ref = doc.File
	}

	var items []lintrule.LintItem
	ok := true

	if url == "" {
		items = append(items, l.item(KindActivityDefinitionURLMissing, loc, ref, ""))
		ok = false
	}

	if valueOf(root, "status") != "unknown" {
		items = append(items, l.item(KindActivityDefinitionStatusNotUnknown, loc, ref, ""))
		ok = false
	}

	if valueOf(root, "kind") != "Task" {
		items = append(items, l.item(KindActivityDefinitionKindNotTask, loc, ref, ""))
		ok = false
	}

	if meta := root.Child("meta"); meta != nil {
		if profile := valueOf(meta, "profile"); profile != ActivityDefinitionProfile {
			items = append(items, l.itemf(KindActivityDefinitionProfileMismatch, loc, ref, "meta.profile is %q, want %q", profile, ActivityDefinitionProfile))
			ok = false
		}
	} else {
		items = append(items, l.item(KindActivityDefinitionProfileMismatch, loc, ref, "meta is absent"))
		ok = false
	}

	if !hasReadAccessTag(root) {
		items = append(items, l.item(KindActivityDefinitionReadAccessTagMissing, loc, ref, ""))
		ok = false
	}

	authExts := authorizationExtensions(root)
	if len(authExts) == 0 {
		items = append(items, l.item(KindActivityDefinitionAuthorizationMissing, loc, ref, ""))
		ok = false
	}
	for _, ext := range authExts {
		if !l.lintAuthorizationExtension(&items, loc, ref, ext) {
			ok = false
		}
	}

	if ok {
		items = append(items, l.item(KindActivityDefinitionOK, loc, ref, ""))
	}
	return items
}

// authorizationExtensions returns every top-level extension element
// whose url is the process-authorization extension URL.
func authorizationExtensions(root *xmldom.Node) []*xmldom.Node {
	var out []*xmldom.Node
	for _, ext := range root.Children("extension") {
		if v, _ := ext.Attr("url"); v == ProcessAuthorizationURL {
			out = append(out, ext)
		}
	}
	return out
}

// MessageNamesFromActivityDefinition exposes messageNames for a parsed
// ActivityDefinition document, for orchestrate to harvest into the
// cross-reference Index before the BPMN pass runs.
func MessageNamesFromActivityDefinition(doc *xmldom.Document) []string {
	return messageNames(doc.Root)
}

// messageNames returns the non-blank values of every top-level
// message-name extension this ActivityDefinition declares (spec.md §4.4:
// "the value must be declared in at least one FHIR ActivityDefinition
// extension message-name"). A document need not carry one at all; the
// cross-reference is enforced from the BPMN side once every sibling
// ActivityDefinition has contributed its declared names.
func messageNames(root *xmldom.Node) []string {
	var out []string
	for _, ext := range root.Children("extension") {
		if v, _ := ext.Attr("url"); v != MessageNameExtensionURL {
			continue
		}
		if name := valueOf(ext, "valueString"); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// lintAuthorizationExtension checks a single process-authorization
// extension: at least one requester and one recipient sub-extension, and
// every value coding's code is known to the authorisation code catalogue
// (spec.md §4.5). Returns false if it added any error item.
func (l *Linter) lintAuthorizationExtension(items *[]lintrule.LintItem, loc lintrule.Location, ref string, ext *xmldom.Node) bool {
	ok := true
	var requesters, recipients []*xmldom.Node
	for _, sub := range ext.Children("extension") {
		switch v, _ := sub.Attr("url"); v {
		case "requester":
			requesters = append(requesters, sub)
		case "recipient":
			recipients = append(recipients, sub)
		}
	}
	if len(requesters) == 0 || len(recipients) == 0 {
		*items = append(*items, l.item(KindActivityDefinitionAuthorizationIncomplete, loc, ref, ""))
		ok = false
	}

	for _, sub := range append(append([]*xmldom.Node{}, requesters...), recipients...) {
		for _, coding := range sub.Descendants("valueCoding") {
			system := valueOf(coding, "system")
			code := valueOf(coding, "code")
			if system != ProcessAuthorizationCodeSystem || (l.Index != nil && len(l.Index.AuthorizationCodes) > 0 && !l.Index.AuthorizationCodes[code]) {
				*items = append(*items, l.itemf(KindActivityDefinitionAuthorizationCodeUnknown, loc, ref, "process-authorization code %q is not known", code))
				ok = false
			}
		}
	}
	return ok
}
