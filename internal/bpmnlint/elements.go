package bpmnlint

import (
	"strings"

	"github.com/dsf-tools/dsf-plugin-linter/internal/bpmndom"
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
)

// DelegateInterface is the API-generation-specific delegate interface
// service/send tasks must implement (spec.md §4.4).
type DelegateInterface string

const (
	DelegateV1 DelegateInterface = "org.highmed.dsf.bpe.delegate.DelegateProvider"
	DelegateV2 DelegateInterface = "dev.dsf.bpe.v2.activity.ServiceTask"
)

const placeholder = "#{version}"

// lintElements walks every element type the catalogue covers and returns
// their LintItems in document order (spec.md §4.4's element-level rules).
func (l *Linter) lintElements(doc *bpmndom.Document, process *bpmndom.Node) []lintrule.LintItem {
	file := doc.File
	var items []lintrule.LintItem

	sendAndReceiveTasks := append(process.Descendants("sendTask"), process.Descendants("receiveTask")...)
	for _, task := range append(process.Descendants("serviceTask"), sendAndReceiveTasks...) {
		loc := lintrule.ElementLocation(file, task.AttrOr("id", ""))
		items = append(items, l.evalRule("implementation-class", loc, func() []lintrule.LintItem {
			return l.lintImplementationClass(file, task)
		})...)
		items = append(items, l.evalRule("field-injections", loc, func() []lintrule.LintItem {
			return l.lintFieldInjections(file, task)
		})...)
	}
	for _, task := range sendAndReceiveTasks {
		if ref := task.AttrOr("messageRef", ""); ref != "" {
			loc := lintrule.ElementLocation(file, task.AttrOr("id", ""))
			items = append(items, l.evalRule("message-name", loc, func() []lintrule.LintItem {
				return l.lintMessageName(doc, task, ref)
			})...)
		}
	}
	process.Walk(func(n *bpmndom.Node) {
		if med := n.Child("messageEventDefinition"); med != nil {
			if ref := med.AttrOr("messageRef", ""); ref != "" {
				loc := lintrule.ElementLocation(file, n.AttrOr("id", ""))
				items = append(items, l.evalRule("message-name", loc, func() []lintrule.LintItem {
					return l.lintMessageName(doc, n, ref)
				})...)
			}
		}
	})
	for _, ut := range process.Descendants("userTask") {
		loc := lintrule.ElementLocation(file, ut.AttrOr("id", ""))
		items = append(items, l.evalRule("user-task-listener", loc, func() []lintrule.LintItem {
			return l.lintUserTaskListener(file, ut)
		})...)
	}
	for _, be := range process.Descendants("boundaryEvent") {
		if be.Child("errorEventDefinition") != nil {
			loc := lintrule.ElementLocation(file, be.AttrOr("id", ""))
			items = append(items, l.evalRule("error-boundary-event", loc, func() []lintrule.LintItem {
				return l.lintErrorBoundaryEvent(file, be)
			})...)
		}
	}
	for _, tc := range process.Descendants("intermediateCatchEvent") {
		loc := lintrule.ElementLocation(file, tc.AttrOr("id", ""))
		if td := tc.Child("timerEventDefinition"); td != nil {
			items = append(items, l.evalRule("timer-definition", loc, func() []lintrule.LintItem {
				return l.lintTimerDefinition(file, tc, td)
			})...)
		}
		if cd := tc.Child("conditionalEventDefinition"); cd != nil {
			items = append(items, l.evalRule("conditional-definition", loc, func() []lintrule.LintItem {
				return l.lintConditionalDefinition(file, tc, cd)
			})...)
		}
	}

	process.Walk(func(n *bpmndom.Node) {
		loc := lintrule.ElementLocation(file, n.AttrOr("id", ""))
		items = append(items, l.evalRule("execution-listeners", loc, func() []lintrule.LintItem {
			return l.lintExecutionListeners(file, n)
		})...)
	})

	return items
}

// lintMessageName resolves n's messageRef against the document's root-level
// <message> definitions and checks the resolved name against the known
// message names declared by sibling FHIR resources (spec.md §4.4: "the
// value must be declared in at least one FHIR ActivityDefinition extension
// message-name and at least one StructureDefinition element fixed string
// with id Task.input:message-name.value[x]").
func (l *Linter) lintMessageName(doc *bpmndom.Document, n *bpmndom.Node, messageRef string) []lintrule.LintItem {
	id := n.AttrOr("id", "")
	loc := lintrule.ElementLocation(doc.File, id)

	name := resolveMessageName(doc.Root, messageRef)
	if name == "" {
		return []lintrule.LintItem{l.itemf(KindMessageNameMissing, loc, messageRef, "messageRef %q does not resolve to a named <message> definition", messageRef)}
	}

	var items []lintrule.LintItem
	ok := true
	if !l.MessageNames.ActivityDefinition[name] {
		items = append(items, l.itemf(KindMessageNameActivityDefinitionNotFound, loc, name, "message name %q is not declared by any ActivityDefinition message-name extension", name))
		ok = false
	}
	if !l.MessageNames.StructureDefinition[name] {
		items = append(items, l.itemf(KindMessageNameStructureDefinitionNotFound, loc, name, "message name %q is not declared by any StructureDefinition Task.input:message-name.value[x] fixed string", name))
		ok = false
	}
	if ok {
		items = append(items, l.item(KindMessageNameOK, loc, name, ""))
	}
	return items
}

// resolveMessageName looks up the <message id="ref"> definition's name
// attribute among root's descendants (message definitions live alongside
// <process>, under <definitions>, not inside the process subtree).
func resolveMessageName(root *bpmndom.Node, ref string) string {
	for _, msg := range root.Descendants("message") {
		if msg.AttrOr("id", "") == ref {
			return msg.AttrOr("name", "")
		}
	}
	return ""
}

func (l *Linter) lintImplementationClass(file string, task *bpmndom.Node) []lintrule.LintItem {
	id := task.AttrOr("id", "")
	loc := lintrule.ElementLocation(file, id)
	class := task.AttrOr("class", "")
	if class == "" {
		return nil // no delegate class declared: not this rule's concern
	}
	if !l.Classes.Exists(class) {
		return []lintrule.LintItem{l.itemf(KindImplementationClassNotFound, loc, class, "implementation class %q not found", class)}
	}
	if !l.Classes.Implements(class, string(DelegateV1)) && !l.Classes.Implements(class, string(DelegateV2)) {
		return []lintrule.LintItem{l.itemf(KindImplementationClassNotImplementingDelegate, loc, class, "implementation class %q does not implement a known delegate interface", class)}
	}
	return []lintrule.LintItem{l.item(KindImplementationClassOK, loc, class, "")}
}

// lintFieldInjections checks the "profile" and "instantiatesCanonical"
// camunda:field injections: non-blank and containing the #{version}
// placeholder literal. The "profile" value is not compared against the
// archive's StructureDefinition URLs, so KindFieldInjectionProfileNotFound
// is never emitted here.
func (l *Linter) lintFieldInjections(file string, task *bpmndom.Node) []lintrule.LintItem {
	var items []lintrule.LintItem
	id := task.AttrOr("id", "")
	loc := lintrule.ElementLocation(file, id)

	fields := map[string]string{}
	for _, ext := range task.Children("extensionElements") {
		for _, f := range ext.Children("field") {
			name := f.AttrOr("name", "")
			value := f.AttrOr("stringValue", "")
			if value == "" {
				if s := f.Child("string"); s != nil {
					value = s.Content
				}
			}
			fields[name] = value
		}
	}

	for _, name := range []string{"profile", "instantiatesCanonical"} {
		value, present := fields[name]
		if !present || strings.TrimSpace(value) == "" {
			items = append(items, l.itemf(KindFieldInjectionMissing, loc, id, "field injection %q is blank or absent", name))
			continue
		}
		if !strings.Contains(value, placeholder) {
			items = append(items, l.itemf(KindFieldInjectionNoPlaceholder, loc, id, "field injection %q is missing the %s placeholder", name, placeholder))
			continue
		}
		items = append(items, l.item(KindFieldInjectionOK, loc, id, ""))
	}
	return items
}

func (l *Linter) lintErrorBoundaryEvent(file string, be *bpmndom.Node) []lintrule.LintItem {
	id := be.AttrOr("id", "")
	loc := lintrule.ElementLocation(file, id)
	def := be.Child("errorEventDefinition")

	name := be.AttrOr("name", "")
	errorRef := def.AttrOr("errorRef", "")
	errorCodeVariable := def.AttrOr("errorCodeVariable", "")

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if errorRef == "" {
		missing = append(missing, "errorRef")
	}
	if errorCodeVariable == "" {
		missing = append(missing, "errorCodeVariable")
	}
	if len(missing) > 0 {
		return []lintrule.LintItem{l.itemf(KindErrorBoundaryEventIncomplete, loc, id, "error boundary event missing: %s", strings.Join(missing, ", "))}
	}
	return []lintrule.LintItem{l.item(KindErrorBoundaryEventOK, loc, id, "")}
}

func (l *Linter) lintTimerDefinition(file string, event, def *bpmndom.Node) []lintrule.LintItem {
	id := event.AttrOr("id", "")
	loc := lintrule.ElementLocation(file, id)

	timeDate := def.Child("timeDate")
	timeCycle := def.Child("timeCycle")
	timeDuration := def.Child("timeDuration")

	count := 0
	for _, n := range []*bpmndom.Node{timeDate, timeCycle, timeDuration} {
		if n != nil {
			count++
		}
	}

	switch {
	case count == 0:
		return []lintrule.LintItem{l.item(KindTimerDefinitionMissing, loc, id, "")}
	case count > 1:
		return []lintrule.LintItem{l.item(KindTimerDefinitionAmbiguous, loc, id, "")}
	}

	var items []lintrule.LintItem
	switch {
	case timeDate != nil:
		items = append(items, l.item(KindTimerDefinitionFixedDate, loc, id, ""))
	case timeCycle != nil && !strings.Contains(timeCycle.Content, placeholder):
		items = append(items, l.item(KindTimerDefinitionNoPlaceholder, loc, id, ""))
	case timeDuration != nil && !strings.Contains(timeDuration.Content, placeholder):
		items = append(items, l.item(KindTimerDefinitionNoPlaceholder, loc, id, ""))
	default:
		items = append(items, l.item(KindTimerDefinitionOK, loc, id, ""))
	}
	return items
}

func (l *Linter) lintConditionalDefinition(file string, event, def *bpmndom.Node) []lintrule.LintItem {
	id := event.AttrOr("id", "")
	loc := lintrule.ElementLocation(file, id)

	variableName := def.AttrOr("variableName", "")
	variableEvents := def.AttrOr("variableEvents", "")
	conditionType := def.AttrOr("conditionType", "")
	expression := def.Child("condition")

	if variableName == "" || variableEvents == "" {
		return []lintrule.LintItem{l.item(KindConditionalEventMissingVariable, loc, id, "")}
	}

	if conditionType == "" && expression != nil {
		conditionType = "expression"
	}

	if conditionType != "expression" {
		return []lintrule.LintItem{l.item(KindConditionalEventNonExpressionType, loc, id, "")}
	}
	if expression == nil || strings.TrimSpace(expression.Content) == "" {
		return []lintrule.LintItem{l.item(KindConditionalEventMissingExpression, loc, id, "")}
	}
	return []lintrule.LintItem{l.item(KindConditionalEventOK, loc, id, "")}
}

func (l *Linter) lintUserTaskListener(file string, ut *bpmndom.Node) []lintrule.LintItem {
	id := ut.AttrOr("id", "")
	loc := lintrule.ElementLocation(file, id)

	var class string
	for _, ext := range ut.Children("extensionElements") {
		for _, tl := range ext.Children("taskListener") {
			if c := tl.AttrOr("class", ""); c != "" {
				class = c
			}
		}
	}
	if class == "" || !l.Classes.Exists(class) {
		return []lintrule.LintItem{l.item(KindUserTaskListenerClassMissing, loc, id, "")}
	}
	if !l.Classes.Implements(class, string(DelegateV1)) && !l.Classes.Implements(class, string(DelegateV2)) {
		return []lintrule.LintItem{l.item(KindUserTaskListenerClassMissing, loc, id, "")}
	}
	return []lintrule.LintItem{l.item(KindUserTaskListenerClassOK, loc, id, "")}
}

func (l *Linter) lintExecutionListeners(file string, n *bpmndom.Node) []lintrule.LintItem {
	var items []lintrule.LintItem
	for _, ext := range n.Children("extensionElements") {
		for _, el := range ext.Children("executionListener") {
			class := el.AttrOr("class", "")
			if class == "" {
				continue
			}
			id := n.AttrOr("id", "")
			loc := lintrule.ElementLocation(file, id)
			if !l.Classes.Exists(class) {
				items = append(items, l.itemf(KindExecutionListenerClassNotFound, loc, class, "execution listener class %q not found", class))
				continue
			}
			items = append(items, l.item(KindExecutionListenerClassOK, loc, class, ""))
		}
	}
	return items
}
