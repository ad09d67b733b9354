// Package bpmnlint applies the BPMN rule catalogue (spec.md §4.4) to a
// parsed bpmndom.Document: one process-level pass per file, followed by
// an element-level walk over every element type the catalogue covers.
package bpmnlint

import "github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"

// Process-level kinds.
const (
	KindFileNoProcess                  lintrule.Kind = "BPMN_FILE_NO_PROCESS"
	KindFileMultipleProcesses          lintrule.Kind = "BPMN_FILE_MULTIPLE_PROCESSES"
	KindProcessIDEmpty                 lintrule.Kind = "BPMN_PROCESS_ID_EMPTY"
	KindProcessIDPatternMismatch       lintrule.Kind = "BPMN_PROCESS_ID_PATTERN_MISMATCH"
	KindProcessNotExecutable           lintrule.Kind = "BPMN_PROCESS_NOT_EXECUTABLE"
	KindProcessHistoryTTLMissing       lintrule.Kind = "BPMN_PROCESS_HISTORY_TIME_TO_LIVE_MISSING"
	KindProcessVersionTagMissing       lintrule.Kind = "BPMN_PROCESS_VERSION_TAG_MISSING"
	KindProcessOK                      lintrule.Kind = "BPMN_PROCESS_OK"
	KindUnparsableBpmnFile             lintrule.Kind = "BPMN_FILE_UNPARSABLE"
)

// Element-level kinds.
const (
	KindImplementationClassNotFound              lintrule.Kind = "BPMN_IMPLEMENTATION_CLASS_NOT_FOUND"
	KindImplementationClassNotImplementingDelegate lintrule.Kind = "BPMN_IMPLEMENTATION_CLASS_NOT_IMPLEMENTING_DELEGATE"
	KindImplementationClassOK                    lintrule.Kind = "BPMN_IMPLEMENTATION_CLASS_OK"

	KindFieldInjectionMissing     lintrule.Kind = "BPMN_FIELD_INJECTION_MISSING"
	KindFieldInjectionNoPlaceholder lintrule.Kind = "BPMN_FIELD_INJECTION_NO_PLACEHOLDER"
	KindFieldInjectionProfileNotFound lintrule.Kind = "BPMN_FIELD_INJECTION_PROFILE_NOT_FOUND"
	KindFieldInjectionOK          lintrule.Kind = "BPMN_FIELD_INJECTION_OK"

	KindErrorBoundaryEventIncomplete lintrule.Kind = "BPMN_ERROR_BOUNDARY_EVENT_INCOMPLETE"
	KindErrorBoundaryEventOK         lintrule.Kind = "BPMN_ERROR_BOUNDARY_EVENT_OK"

	KindTimerDefinitionMissing      lintrule.Kind = "BPMN_TIMER_DEFINITION_MISSING"
	KindTimerDefinitionAmbiguous    lintrule.Kind = "BPMN_TIMER_DEFINITION_AMBIGUOUS"
	KindTimerDefinitionFixedDate    lintrule.Kind = "BPMN_TIMER_DEFINITION_FIXED_DATE"
	KindTimerDefinitionNoPlaceholder lintrule.Kind = "BPMN_TIMER_DEFINITION_NO_PLACEHOLDER"
	KindTimerDefinitionOK           lintrule.Kind = "BPMN_TIMER_DEFINITION_OK"

	KindConditionalEventMissingVariable lintrule.Kind = "BPMN_CONDITIONAL_EVENT_MISSING_VARIABLE"
	KindConditionalEventMissingExpression lintrule.Kind = "BPMN_CONDITIONAL_EVENT_MISSING_EXPRESSION"
	KindConditionalEventNonExpressionType lintrule.Kind = "BPMN_CONDITIONAL_EVENT_NON_EXPRESSION_TYPE"
	KindConditionalEventOK          lintrule.Kind = "BPMN_CONDITIONAL_EVENT_OK"

	KindUserTaskListenerClassMissing lintrule.Kind = "BPMN_USER_TASK_LISTENER_CLASS_MISSING"
	KindUserTaskListenerClassOK      lintrule.Kind = "BPMN_USER_TASK_LISTENER_CLASS_OK"

	KindExecutionListenerClassNotFound lintrule.Kind = "BPMN_EXECUTION_LISTENER_CLASS_NOT_FOUND"
	KindExecutionListenerClassOK       lintrule.Kind = "BPMN_EXECUTION_LISTENER_CLASS_OK"

	KindMessageNameMissing                     lintrule.Kind = "BPMN_MESSAGE_NAME_MISSING"
	KindMessageNameActivityDefinitionNotFound  lintrule.Kind = "BPMN_MESSAGE_NAME_ACTIVITY_DEFINITION_NOT_FOUND"
	KindMessageNameStructureDefinitionNotFound lintrule.Kind = "BPMN_MESSAGE_NAME_STRUCTURE_DEFINITION_NOT_FOUND"
	KindMessageNameOK                          lintrule.Kind = "BPMN_MESSAGE_NAME_OK"
)

func init() {
	for _, e := range []lintrule.Entry{
		{Kind: KindFileNoProcess, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "file contains no <process> element"},
		{Kind: KindFileMultipleProcesses, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "file contains more than one <process> element"},
		{Kind: KindProcessIDEmpty, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "process id is empty"},
		{Kind: KindProcessIDPatternMismatch, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "process id does not match the required name_version pattern"},
		{Kind: KindProcessNotExecutable, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "process isExecutable is not true"},
		{Kind: KindProcessHistoryTTLMissing, Category: "bpmn", DefaultSeverity: lintrule.SeverityWarning, DefaultMessage: "camunda:historyTimeToLive is absent or blank"},
		{Kind: KindProcessVersionTagMissing, Category: "bpmn", DefaultSeverity: lintrule.SeverityWarning, DefaultMessage: "process versionTag is absent or blank"},
		{Kind: KindProcessOK, Category: "bpmn", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "process passed all process-level checks"},
		{Kind: KindUnparsableBpmnFile, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "BPMN file could not be parsed"},

		{Kind: KindImplementationClassNotFound, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "implementation class not found on the plugin's class loader"},
		{Kind: KindImplementationClassNotImplementingDelegate, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "implementation class does not implement the API-generation delegate interface"},
		{Kind: KindImplementationClassOK, Category: "bpmn", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "implementation class resolved and implements the delegate interface"},

		{Kind: KindFieldInjectionMissing, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "required field injection is blank or absent"},
		{Kind: KindFieldInjectionNoPlaceholder, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "field injection is missing the #{version} placeholder"},
		{Kind: KindFieldInjectionProfileNotFound, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "profile field injection does not match any known StructureDefinition URL"},
		{Kind: KindFieldInjectionOK, Category: "bpmn", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "field injection is present and valid"},

		{Kind: KindErrorBoundaryEventIncomplete, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "error boundary event is missing a required property"},
		{Kind: KindErrorBoundaryEventOK, Category: "bpmn", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "error boundary event declares all required properties"},

		{Kind: KindTimerDefinitionMissing, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "timer event declares none of timeDate/timeCycle/timeDuration"},
		{Kind: KindTimerDefinitionAmbiguous, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "timer event declares more than one of timeDate/timeCycle/timeDuration"},
		{Kind: KindTimerDefinitionFixedDate, Category: "bpmn", DefaultSeverity: lintrule.SeverityInfo, DefaultMessage: "timer event uses a fixed timeDate"},
		{Kind: KindTimerDefinitionNoPlaceholder, Category: "bpmn", DefaultSeverity: lintrule.SeverityWarning, DefaultMessage: "timer cycle/duration has no placeholder and is likely a fixed test value"},
		{Kind: KindTimerDefinitionOK, Category: "bpmn", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "timer event declares exactly one time definition"},

		{Kind: KindConditionalEventMissingVariable, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "conditional event is missing variableName or variableEvents"},
		{Kind: KindConditionalEventMissingExpression, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "conditional event declares conditionType=expression but no condition expression"},
		{Kind: KindConditionalEventNonExpressionType, Category: "bpmn", DefaultSeverity: lintrule.SeverityInfo, DefaultMessage: "conditional event uses a non-expression condition type"},
		{Kind: KindConditionalEventOK, Category: "bpmn", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "conditional event declares a valid condition"},

		{Kind: KindUserTaskListenerClassMissing, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "user task listener class is absent, not found, or does not reference a known delegate interface"},
		{Kind: KindUserTaskListenerClassOK, Category: "bpmn", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "user task listener class resolved"},

		{Kind: KindExecutionListenerClassNotFound, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "execution listener class not found"},
		{Kind: KindExecutionListenerClassOK, Category: "bpmn", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "execution listener class resolved"},

		{Kind: KindMessageNameMissing, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "messageRef does not resolve to a named message definition"},
		{Kind: KindMessageNameActivityDefinitionNotFound, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "message name is not declared by any ActivityDefinition message-name extension"},
		{Kind: KindMessageNameStructureDefinitionNotFound, Category: "bpmn", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "message name is not declared by any StructureDefinition Task.input:message-name.value[x] fixed string"},
		{Kind: KindMessageNameOK, Category: "bpmn", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "message name resolves to both an ActivityDefinition and a StructureDefinition declaration"},
	} {
		lintrule.Register(e)
	}
}
