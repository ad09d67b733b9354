package fhirlint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLintCodeSystem_Valid(t *testing.T) {
	doc := parseFHIR(t, `<CodeSystem xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/CodeSystem/example"/>
  <version value="#{version}"/>
  <date value="#{date}"/>
  <status value="unknown"/>
  <content value="complete"/>
  `+readAccessTagXML+`
  <concept><code value="a"/></concept>
  <concept><code value="b"/></concept>
</CodeSystem>`, "CodeSystem-example.xml")

	items := New(nil).lintCodeSystem(doc)
	assert.True(t, hasKind(items, KindCodeSystemOK), "expected OK item, got %+v", items)
}

func TestLintCodeSystem_DuplicateConceptAndBadContent(t *testing.T) {
	doc := parseFHIR(t, `<CodeSystem xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/CodeSystem/example"/>
  <version value="#{version}"/>
  <date value="#{date}"/>
  <status value="unknown"/>
  <content value="fragment"/>
  `+readAccessTagXML+`
  <concept><code value="a"/></concept>
  <concept><code value="a"/></concept>
</CodeSystem>`, "CodeSystem-example.xml")

	items := New(nil).lintCodeSystem(doc)
	assert.True(t, hasKind(items, KindCodeSystemConceptCodeDuplicate), "expected duplicate-concept-code item")
	assert.True(t, hasKind(items, KindCodeSystemContentNotComplete), "expected content-not-complete item")
}
