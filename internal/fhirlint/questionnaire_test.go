package fhirlint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLintQuestionnaire_DuplicateLinkIDNested(t *testing.T) {
	doc := parseFHIR(t, `<Questionnaire xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/Questionnaire/example"/>
  <version value="#{version}"/>
  <date value="#{date}"/>
  <status value="unknown"/>
  `+readAccessTagXML+`
  <item>
    <linkId value="q1"/>
    <type value="string"/>
    <item>
      <linkId value="q1"/>
      <type value="string"/>
    </item>
  </item>
</Questionnaire>`, "Questionnaire-example.xml")

	items := New(nil).lintQuestionnaire(doc)
	assert.True(t, hasKind(items, KindQuestionnaireLinkIDDuplicate), "expected linkId-duplicate item, got %+v", items)
}

func TestLintQuestionnaire_AnswerValueSetUnknown(t *testing.T) {
	doc := parseFHIR(t, `<Questionnaire xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/Questionnaire/example"/>
  <version value="#{version}"/>
  <date value="#{date}"/>
  <status value="unknown"/>
  `+readAccessTagXML+`
  <item>
    <linkId value="q1"/>
    <type value="choice"/>
    <answerValueSet value="http://dsf.dev/fhir/ValueSet/missing"/>
  </item>
</Questionnaire>`, "Questionnaire-example.xml")

	idx := NewIndex()
	idx.ValueSetURLs["http://dsf.dev/fhir/ValueSet/known"] = true
	items := New(idx).lintQuestionnaire(doc)
	assert.True(t, hasKind(items, KindQuestionnaireAnswerValueSetUnknown), "expected answer-value-set-unknown item, got %+v", items)
}
