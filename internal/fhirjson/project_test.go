package fhirjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_PrimitiveAndStatus(t *testing.T) {
	doc, err := Project([]byte(`{
		"resourceType": "ActivityDefinition",
		"url": "http://dsf.dev/fhir/ActivityDefinition/example",
		"status": "unknown"
	}`), "ActivityDefinition-example.json")
	require.NoError(t, err)
	assert.Equal(t, "ActivityDefinition", doc.Root.XMLName.Local)
	status := doc.Root.Child("status")
	require.NotNil(t, status)
	v, _ := status.Attr("value")
	assert.Equal(t, "unknown", v)
}

func TestProject_ExtensionURLBecomesAttribute(t *testing.T) {
	doc, err := Project([]byte(`{
		"resourceType": "ActivityDefinition",
		"extension": [
			{
				"url": "http://dsf.dev/fhir/StructureDefinition/extension-process-authorization",
				"extension": [
					{"url": "requester", "valueCoding": {"system": "http://dsf.dev/fhir/CodeSystem/process-authorization", "code": "LOCAL_ORGANIZATION"}}
				]
			}
		]
	}`), "ActivityDefinition-example.json")
	require.NoError(t, err)
	outer := doc.Root.Child("extension")
	require.NotNil(t, outer)
	v, ok := outer.Attr("url")
	require.True(t, ok)
	assert.Equal(t, "http://dsf.dev/fhir/StructureDefinition/extension-process-authorization", v)
	assert.Empty(t, outer.Children("url"))

	inner := outer.Child("extension")
	require.NotNil(t, inner)
	v, ok = inner.Attr("url")
	require.True(t, ok)
	assert.Equal(t, "requester", v)

	coding := inner.Child("valueCoding")
	require.NotNil(t, coding)
	code := coding.Child("code")
	require.NotNil(t, code)
	v, _ = code.Attr("value")
	assert.Equal(t, "LOCAL_ORGANIZATION", v)
}

func TestProject_ArraysBecomeRepeatedSiblings(t *testing.T) {
	doc, err := Project([]byte(`{
		"resourceType": "CodeSystem",
		"concept": [
			{"code": "a"},
			{"code": "b"}
		]
	}`), "CodeSystem-example.json")
	require.NoError(t, err)
	assert.Len(t, doc.Root.Children("concept"), 2)
}

func TestProject_RootNotObjectFails(t *testing.T) {
	_, err := Project([]byte(`[1,2,3]`), "bad.json")
	assert.Error(t, err)
}

func TestProject_MissingResourceTypeFails(t *testing.T) {
	_, err := Project([]byte(`{"foo":"bar"}`), "bad.json")
	assert.Error(t, err)
}
