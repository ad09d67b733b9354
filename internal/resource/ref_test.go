package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := map[string]Ref{
		"  classpath:/fhir/Task.xml  ": "fhir/Task.xml",
		"fhir\\Task.xml":               "fhir/Task.xml",
		"///fhir/Task.xml":             "fhir/Task.xml",
		"fhir/Task.xml":                "fhir/Task.xml",
		"classpath:fhir/Task.xml":      "fhir/Task.xml",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in))
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"  classpath:/fhir/Task.xml  ",
		"fhir\\Task.xml",
		"a/b/c.bpmn",
		"",
		"classpath:\\\\weird//path.json",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(string(once))
		assert.Equal(t, once, twice, "Normalize not idempotent for %q", in)
	}
}

func TestRef_HasSuffixFold(t *testing.T) {
	r := Ref("fhir/Task.XML")
	assert.True(t, r.HasSuffixFold(".xml"))
	assert.False(t, Ref("fhir/Task.json").HasSuffixFold(".xml"))
}

func TestRef_IsUnderDir(t *testing.T) {
	r := Ref("fhir/ActivityDefinition/foo.xml")
	assert.True(t, r.IsUnderDir("fhir"))
	assert.False(t, r.IsUnderDir("bpe"))
	assert.True(t, r.IsUnderDir(""))
}
