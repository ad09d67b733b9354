// Package fhirlint applies the DSF FHIR overlay rule catalogue (spec.md
// §4.5) to a parsed xmldom.Document, whether it arrived as native XML or
// was projected from JSON by internal/fhirjson.
package fhirlint

import "github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"

const (
	ReadAccessTagSystem       = "http://dsf.dev/fhir/CodeSystem/read-access-tag"
	ReadAccessTagCodeAll      = "ALL"
	ProcessAuthorizationURL   = "http://dsf.dev/fhir/StructureDefinition/extension-process-authorization"
	ProcessAuthorizationCodeSystem = "http://dsf.dev/fhir/CodeSystem/process-authorization"
	ActivityDefinitionProfile = "http://dsf.dev/fhir/StructureDefinition/activity-definition"
	MessageNameExtensionURL  = "http://dsf.dev/fhir/StructureDefinition/extension-message-name"
	MessageNameElementID     = "Task.input:message-name.value[x]"
	VersionPlaceholder        = "#{version}"
	DatePlaceholder           = "#{date}"
)

const (
	KindUnparsable lintrule.Kind = "FHIR_FILE_UNPARSABLE"

	KindActivityDefinitionURLMissing               lintrule.Kind = "ACTIVITY_DEFINITION_URL_MISSING"
	KindActivityDefinitionStatusNotUnknown         lintrule.Kind = "ACTIVITY_DEFINITION_STATUS_NOT_UNKNOWN"
	KindActivityDefinitionKindNotTask              lintrule.Kind = "ACTIVITY_DEFINITION_KIND_NOT_TASK"
	KindActivityDefinitionProfileMismatch          lintrule.Kind = "ACTIVITY_DEFINITION_PROFILE_MISMATCH"
	KindActivityDefinitionReadAccessTagMissing     lintrule.Kind = "ACTIVITY_DEFINITION_READ_ACCESS_TAG_MISSING"
	KindActivityDefinitionAuthorizationMissing     lintrule.Kind = "ACTIVITY_DEFINITION_PROCESS_AUTHORIZATION_MISSING"
	KindActivityDefinitionAuthorizationIncomplete  lintrule.Kind = "ACTIVITY_DEFINITION_PROCESS_AUTHORIZATION_INCOMPLETE"
	KindActivityDefinitionAuthorizationCodeUnknown lintrule.Kind = "ACTIVITY_DEFINITION_PROCESS_AUTHORIZATION_CODE_UNKNOWN"
	KindActivityDefinitionOK                       lintrule.Kind = "ACTIVITY_DEFINITION_OK"
	KindActivityDefinitionExists                   lintrule.Kind = "ACTIVITY_DEFINITION_EXISTS"

	KindStructureDefinitionURLInvalid         lintrule.Kind = "STRUCTURE_DEFINITION_URL_INVALID"
	KindStructureDefinitionStatusNotUnknown   lintrule.Kind = "STRUCTURE_DEFINITION_STATUS_NOT_UNKNOWN"
	KindStructureDefinitionVersionPlaceholder lintrule.Kind = "STRUCTURE_DEFINITION_VERSION_PLACEHOLDER_MISSING"
	KindStructureDefinitionDatePlaceholder    lintrule.Kind = "STRUCTURE_DEFINITION_DATE_PLACEHOLDER_MISSING"
	KindStructureDefinitionReadAccessTag      lintrule.Kind = "STRUCTURE_DEFINITION_READ_ACCESS_TAG_MISSING"
	KindStructureDefinitionDifferentialMissing lintrule.Kind = "STRUCTURE_DEFINITION_DIFFERENTIAL_MISSING"
	KindStructureDefinitionSnapshotPresent    lintrule.Kind = "STRUCTURE_DEFINITION_SNAPSHOT_PRESENT"
	KindStructureDefinitionElementIDBlank     lintrule.Kind = "STRUCTURE_DEFINITION_ELEMENT_ID_BLANK"
	KindStructureDefinitionElementIDDuplicate lintrule.Kind = "STRUCTURE_DEFINITION_ELEMENT_ID_DUPLICATE"
	KindStructureDefinitionSliceMaxExceedsBase lintrule.Kind = "STRUCTURE_DEFINITION_SLICE_MAX_EXCEEDS_BASE"
	KindStructureDefinitionSliceMinSumExceedsMax lintrule.Kind = "STRUCTURE_DEFINITION_SLICE_MIN_SUM_EXCEEDS_MAX"
	KindStructureDefinitionSliceMinSumExceedsBaseMin lintrule.Kind = "STRUCTURE_DEFINITION_SLICE_MIN_SUM_EXCEEDS_BASE_MIN"
	KindStructureDefinitionOK                 lintrule.Kind = "STRUCTURE_DEFINITION_OK"

	KindCodeSystemURLInvalid         lintrule.Kind = "CODE_SYSTEM_URL_INVALID"
	KindCodeSystemStatusNotUnknown   lintrule.Kind = "CODE_SYSTEM_STATUS_NOT_UNKNOWN"
	KindCodeSystemContentNotComplete lintrule.Kind = "CODE_SYSTEM_CONTENT_NOT_COMPLETE"
	KindCodeSystemVersionPlaceholder lintrule.Kind = "CODE_SYSTEM_VERSION_PLACEHOLDER_MISSING"
	KindCodeSystemDatePlaceholder    lintrule.Kind = "CODE_SYSTEM_DATE_PLACEHOLDER_MISSING"
	KindCodeSystemReadAccessTag      lintrule.Kind = "CODE_SYSTEM_READ_ACCESS_TAG_MISSING"
	KindCodeSystemConceptCodeDuplicate lintrule.Kind = "CODE_SYSTEM_CONCEPT_CODE_DUPLICATE"
	KindCodeSystemOK                 lintrule.Kind = "CODE_SYSTEM_OK"

	KindValueSetURLInvalid         lintrule.Kind = "VALUE_SET_URL_INVALID"
	KindValueSetStatusNotUnknown   lintrule.Kind = "VALUE_SET_STATUS_NOT_UNKNOWN"
	KindValueSetVersionPlaceholder lintrule.Kind = "VALUE_SET_VERSION_PLACEHOLDER_MISSING"
	KindValueSetDatePlaceholder    lintrule.Kind = "VALUE_SET_DATE_PLACEHOLDER_MISSING"
	KindValueSetReadAccessTag      lintrule.Kind = "VALUE_SET_READ_ACCESS_TAG_MISSING"
	KindValueSetIncludeSystemUnknown lintrule.Kind = "VALUE_SET_INCLUDE_SYSTEM_UNKNOWN"
	KindValueSetOK                 lintrule.Kind = "VALUE_SET_OK"

	KindQuestionnaireURLInvalid         lintrule.Kind = "QUESTIONNAIRE_URL_INVALID"
	KindQuestionnaireStatusNotUnknown   lintrule.Kind = "QUESTIONNAIRE_STATUS_NOT_UNKNOWN"
	KindQuestionnaireVersionPlaceholder lintrule.Kind = "QUESTIONNAIRE_VERSION_PLACEHOLDER_MISSING"
	KindQuestionnaireDatePlaceholder    lintrule.Kind = "QUESTIONNAIRE_DATE_PLACEHOLDER_MISSING"
	KindQuestionnaireReadAccessTag      lintrule.Kind = "QUESTIONNAIRE_READ_ACCESS_TAG_MISSING"
	KindQuestionnaireLinkIDDuplicate    lintrule.Kind = "QUESTIONNAIRE_LINK_ID_DUPLICATE"
	KindQuestionnaireAnswerValueSetUnknown lintrule.Kind = "QUESTIONNAIRE_ANSWER_VALUE_SET_UNKNOWN"
	KindQuestionnaireOK                 lintrule.Kind = "QUESTIONNAIRE_OK"

	KindTaskUnknownInstantiatesCanonical lintrule.Kind = "TASK_UNKNOWN_INSTANTIATES_CANONICAL"
	KindTaskStatusInvalid                lintrule.Kind = "TASK_STATUS_INVALID"
	KindTaskIntentInvalid                lintrule.Kind = "TASK_INTENT_INVALID"
	KindTaskProfileMissing               lintrule.Kind = "TASK_PROFILE_MISSING"
	KindTaskOK                           lintrule.Kind = "TASK_OK"
)

func init() {
	entries := []lintrule.Entry{
		{Kind: KindUnparsable, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "FHIR document could not be parsed"},

		{Kind: KindActivityDefinitionURLMissing, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "url is blank or absent"},
		{Kind: KindActivityDefinitionStatusNotUnknown, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "status is not \"unknown\""},
		{Kind: KindActivityDefinitionKindNotTask, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "kind is not \"Task\""},
		{Kind: KindActivityDefinitionProfileMismatch, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "meta.profile is not the unversioned activity-definition profile"},
		{Kind: KindActivityDefinitionReadAccessTagMissing, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "meta.tag is missing the ALL read-access tag"},
		{Kind: KindActivityDefinitionAuthorizationMissing, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "no process-authorization extension present"},
		{Kind: KindActivityDefinitionAuthorizationIncomplete, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "process-authorization extension missing requester or recipient"},
		{Kind: KindActivityDefinitionAuthorizationCodeUnknown, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "process-authorization code is not in the known catalogue"},
		{Kind: KindActivityDefinitionOK, Category: "fhir", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "ActivityDefinition passed all checks"},
		{Kind: KindActivityDefinitionExists, Category: "fhir", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "referenced ActivityDefinition exists"},

		{Kind: KindStructureDefinitionURLInvalid, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "url is blank or missing the StructureDefinition prefix"},
		{Kind: KindStructureDefinitionStatusNotUnknown, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "status is not \"unknown\""},
		{Kind: KindStructureDefinitionVersionPlaceholder, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "version is missing the #{version} placeholder"},
		{Kind: KindStructureDefinitionDatePlaceholder, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "date is missing the #{date} placeholder"},
		{Kind: KindStructureDefinitionReadAccessTag, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "meta.tag is missing the read-access tag"},
		{Kind: KindStructureDefinitionDifferentialMissing, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "differential is absent"},
		{Kind: KindStructureDefinitionSnapshotPresent, Category: "fhir", DefaultSeverity: lintrule.SeverityWarning, DefaultMessage: "snapshot is present; profiles should ship differential only"},
		{Kind: KindStructureDefinitionElementIDBlank, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "differential element has a blank id"},
		{Kind: KindStructureDefinitionElementIDDuplicate, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "differential element id is duplicated in this document"},
		{Kind: KindStructureDefinitionSliceMaxExceedsBase, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "slice max exceeds the base element's max"},
		{Kind: KindStructureDefinitionSliceMinSumExceedsMax, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "sum of slice min exceeds the base element's max"},
		{Kind: KindStructureDefinitionSliceMinSumExceedsBaseMin, Category: "fhir", DefaultSeverity: lintrule.SeverityWarning, DefaultMessage: "sum of slice min exceeds the base element's min"},
		{Kind: KindStructureDefinitionOK, Category: "fhir", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "StructureDefinition passed all checks"},

		{Kind: KindCodeSystemURLInvalid, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "url is blank or missing the CodeSystem prefix"},
		{Kind: KindCodeSystemStatusNotUnknown, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "status is not \"unknown\""},
		{Kind: KindCodeSystemContentNotComplete, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "content is not \"complete\""},
		{Kind: KindCodeSystemVersionPlaceholder, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "version is missing the #{version} placeholder"},
		{Kind: KindCodeSystemDatePlaceholder, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "date is missing the #{date} placeholder"},
		{Kind: KindCodeSystemReadAccessTag, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "meta.tag is missing the read-access tag"},
		{Kind: KindCodeSystemConceptCodeDuplicate, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "concept code is duplicated in this document"},
		{Kind: KindCodeSystemOK, Category: "fhir", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "CodeSystem passed all checks"},

		{Kind: KindValueSetURLInvalid, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "url is blank or missing the ValueSet prefix"},
		{Kind: KindValueSetStatusNotUnknown, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "status is not \"unknown\""},
		{Kind: KindValueSetVersionPlaceholder, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "version is missing the #{version} placeholder"},
		{Kind: KindValueSetDatePlaceholder, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "date is missing the #{date} placeholder"},
		{Kind: KindValueSetReadAccessTag, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "meta.tag is missing the read-access tag"},
		{Kind: KindValueSetIncludeSystemUnknown, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "compose.include.system does not resolve to a known CodeSystem"},
		{Kind: KindValueSetOK, Category: "fhir", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "ValueSet passed all checks"},

		{Kind: KindQuestionnaireURLInvalid, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "url is blank or missing the Questionnaire prefix"},
		{Kind: KindQuestionnaireStatusNotUnknown, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "status is not \"unknown\""},
		{Kind: KindQuestionnaireVersionPlaceholder, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "version is missing the #{version} placeholder"},
		{Kind: KindQuestionnaireDatePlaceholder, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "date is missing the #{date} placeholder"},
		{Kind: KindQuestionnaireReadAccessTag, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "meta.tag is missing the read-access tag"},
		{Kind: KindQuestionnaireLinkIDDuplicate, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "item linkId is duplicated in this document"},
		{Kind: KindQuestionnaireAnswerValueSetUnknown, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "item answerValueSet does not resolve to a known ValueSet"},
		{Kind: KindQuestionnaireOK, Category: "fhir", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "Questionnaire passed all checks"},

		{Kind: KindTaskUnknownInstantiatesCanonical, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "instantiatesCanonical does not resolve to a known ActivityDefinition"},
		{Kind: KindTaskStatusInvalid, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "status is not one of the expected authoring-time values"},
		{Kind: KindTaskIntentInvalid, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "intent is not one of the expected authoring-time values"},
		{Kind: KindTaskProfileMissing, Category: "fhir", DefaultSeverity: lintrule.SeverityError, DefaultMessage: "meta.profile is absent"},
		{Kind: KindTaskOK, Category: "fhir", DefaultSeverity: lintrule.SeveritySuccess, DefaultMessage: "Task passed all checks"},
	}
	for _, e := range entries {
		lintrule.Register(e)
	}
}
