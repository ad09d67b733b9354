package fhirlint

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
)

func hasKind(items []lintrule.LintItem, kind lintrule.Kind) bool {
	for _, it := range items {
		if it.Kind == kind {
			return true
		}
	}
	return false
}

const processAuthorizationXML = `<extension url="http://dsf.dev/fhir/StructureDefinition/extension-process-authorization">
  <extension url="requester">
    <valueCoding>
      <system value="http://dsf.dev/fhir/CodeSystem/process-authorization"/>
      <code value="LOCAL_ORGANIZATION"/>
    </valueCoding>
  </extension>
  <extension url="recipient">
    <valueCoding>
      <system value="http://dsf.dev/fhir/CodeSystem/process-authorization"/>
      <code value="LOCAL_ORGANIZATION"/>
    </valueCoding>
  </extension>
</extension>`

func TestLintActivityDefinition_Valid(t *testing.T) {
	doc := parseFHIR(t, `<ActivityDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/ActivityDefinition/example"/>
  <status value="unknown"/>
  <kind value="Task"/>
  <meta>
    <profile value="http://dsf.dev/fhir/StructureDefinition/activity-definition"/>
    <tag>
      <system value="http://dsf.dev/fhir/CodeSystem/read-access-tag"/>
      <code value="ALL"/>
    </tag>
  </meta>
  `+processAuthorizationXML+`
</ActivityDefinition>`, "ActivityDefinition-example.xml")

	idx := NewIndex()
	idx.AuthorizationCodes["LOCAL_ORGANIZATION"] = true
	items := New(idx).lintActivityDefinition(doc)
	assert.True(t, hasKind(items, KindActivityDefinitionOK), "expected OK item, got %+v", items)
}

func TestLintActivityDefinition_MissingAuthorizationAndBadKind(t *testing.T) {
	doc := parseFHIR(t, `<ActivityDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/ActivityDefinition/example"/>
  <status value="active"/>
  <kind value="MessageDefinition"/>
</ActivityDefinition>`, "ActivityDefinition-example.xml")

	items := New(nil).lintActivityDefinition(doc)
	for _, kind := range []lintrule.Kind{
		KindActivityDefinitionStatusNotUnknown,
		KindActivityDefinitionKindNotTask,
		KindActivityDefinitionProfileMismatch,
		KindActivityDefinitionReadAccessTagMissing,
		KindActivityDefinitionAuthorizationMissing,
	} {
		assert.True(t, hasKind(items, kind), "expected %s, got %+v", kind, items)
	}
}

func TestLintActivityDefinition_AuthorizationCodeUnknown(t *testing.T) {
	doc := parseFHIR(t, `<ActivityDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/ActivityDefinition/example"/>
  <status value="unknown"/>
  <kind value="Task"/>
  <meta>
    <profile value="http://dsf.dev/fhir/StructureDefinition/activity-definition"/>
    <tag>
      <system value="http://dsf.dev/fhir/CodeSystem/read-access-tag"/>
      <code value="ALL"/>
    </tag>
  </meta>
  `+processAuthorizationXML+`
</ActivityDefinition>`, "ActivityDefinition-example.xml")

	idx := NewIndex()
	idx.AuthorizationCodes["SOME_OTHER_CODE"] = true
	items := New(idx).lintActivityDefinition(doc)
	assert.True(t, hasKind(items, KindActivityDefinitionAuthorizationCodeUnknown), "expected authorization-code-unknown item, got %+v", items)
}

func TestLintFile_DispatchesByRootElement(t *testing.T) {
	doc := parseFHIR(t, `<Task xmlns="http://hl7.org/fhir">
  <status value="draft"/>
  <intent value="order"/>
  <meta><profile value="x"/></meta>
</Task>`, "Task-example.xml")

	items := New(nil).LintFile(doc)
	assert.NotEmpty(t, items, "expected dispatch to lintTask to produce items")
}

func TestLintFile_UnknownResourceTypeSkipped(t *testing.T) {
	doc := parseFHIR(t, `<Patient xmlns="http://hl7.org/fhir"/>`, "Patient-example.xml")
	items := New(nil).LintFile(doc)
	assert.Nil(t, items)
}
