package fhirlint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsf-tools/dsf-plugin-linter/internal/xmldom"
)

func parseFHIR(t *testing.T, xmlText, file string) *xmldom.Document {
	t.Helper()
	doc, err := xmldom.Parse(strings.NewReader(xmlText), file)
	require.NoError(t, err)
	return doc
}

const readAccessTagXML = `<meta>
  <tag>
    <system value="http://dsf.dev/fhir/CodeSystem/read-access-tag"/>
    <code value="ALL"/>
  </tag>
</meta>`

func TestLintStructureDefinition_Valid(t *testing.T) {
	doc := parseFHIR(t, `<StructureDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/StructureDefinition/example"/>
  <version value="#{version}"/>
  <date value="#{date}"/>
  <status value="unknown"/>
  `+readAccessTagXML+`
  <differential>
    <element id="StructureDefinition.extension:foo">
      <min value="0"/>
      <max value="1"/>
    </element>
  </differential>
</StructureDefinition>`, "StructureDefinition-example.xml")

	l := New(nil)
	items := l.lintStructureDefinition(doc)
	assert.True(t, hasKind(items, KindStructureDefinitionOK), "expected OK item, got %+v", items)
	assert.False(t, hasKind(items, KindStructureDefinitionElementIDBlank))
	assert.False(t, hasKind(items, KindStructureDefinitionSnapshotPresent))
}

func TestLintStructureDefinition_SnapshotPresentAndMissingDifferential(t *testing.T) {
	doc := parseFHIR(t, `<StructureDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/StructureDefinition/example"/>
  <version value="#{version}"/>
  <date value="#{date}"/>
  <status value="unknown"/>
  `+readAccessTagXML+`
  <snapshot>
    <element id="StructureDefinition"/>
  </snapshot>
</StructureDefinition>`, "StructureDefinition-example.xml")

	l := New(nil)
	items := l.lintStructureDefinition(doc)
	assert.True(t, hasKind(items, KindStructureDefinitionSnapshotPresent))
	assert.True(t, hasKind(items, KindStructureDefinitionDifferentialMissing))
}

func TestLintStructureDefinition_ElementIDBlankAndDuplicate(t *testing.T) {
	doc := parseFHIR(t, `<StructureDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/StructureDefinition/example"/>
  <version value="#{version}"/>
  <date value="#{date}"/>
  <status value="unknown"/>
  `+readAccessTagXML+`
  <differential>
    <element id=""/>
    <element id="StructureDefinition.foo"/>
    <element id="StructureDefinition.foo"/>
  </differential>
</StructureDefinition>`, "StructureDefinition-example.xml")

	l := New(nil)
	items := l.lintStructureDefinition(doc)
	var blanks, dups int
	for _, it := range items {
		if it.Kind == KindStructureDefinitionElementIDBlank {
			blanks++
		}
		if it.Kind == KindStructureDefinitionElementIDDuplicate {
			dups++
		}
	}
	assert.Equal(t, 1, blanks)
	assert.Equal(t, 1, dups)
}

func TestLintSliceCardinalities_MaxExceedsBase(t *testing.T) {
	doc := parseFHIR(t, `<StructureDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/StructureDefinition/example"/>
  <version value="#{version}"/>
  <date value="#{date}"/>
  <status value="unknown"/>
  `+readAccessTagXML+`
  <differential>
    <element id="Extension.extension">
      <min value="0"/>
      <max value="2"/>
    </element>
    <element id="Extension.extension:foo">
      <min value="0"/>
      <max value="3"/>
    </element>
  </differential>
</StructureDefinition>`, "StructureDefinition-example.xml")

	l := New(nil)
	items := l.lintStructureDefinition(doc)
	assert.True(t, hasKind(items, KindStructureDefinitionSliceMaxExceedsBase), "expected slice-max-exceeds-base item, got %+v", items)
}

func TestLintSliceCardinalities_MinSumExceedsBaseMin(t *testing.T) {
	doc := parseFHIR(t, `<StructureDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/StructureDefinition/example"/>
  <version value="#{version}"/>
  <date value="#{date}"/>
  <status value="unknown"/>
  `+readAccessTagXML+`
  <differential>
    <element id="Extension.extension">
      <min value="1"/>
      <max value="5"/>
    </element>
    <element id="Extension.extension:foo">
      <min value="2"/>
      <max value="2"/>
    </element>
    <element id="Extension.extension:bar">
      <min value="2"/>
      <max value="2"/>
    </element>
  </differential>
</StructureDefinition>`, "StructureDefinition-example.xml")

	l := New(nil)
	items := l.lintStructureDefinition(doc)
	assert.True(t, hasKind(items, KindStructureDefinitionSliceMinSumExceedsBaseMin), "expected slice-min-sum-exceeds-base-min item, got %+v", items)
}
