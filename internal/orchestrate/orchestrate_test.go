package orchestrate

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsf-tools/dsf-plugin-linter/internal/fhirlint"
	"github.com/dsf-tools/dsf-plugin-linter/internal/lintrule"
)

func buildArchive(t *testing.T, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	path := filepath.Join(t.TempDir(), "plugin.jar")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

const sampleBPMN = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL">
  <bpmn:process id="my-plugin_process" isExecutable="true">
  </bpmn:process>
</bpmn:definitions>`

const readAccessTag = `<meta>
    <profile value="http://dsf.dev/fhir/StructureDefinition/activity-definition"/>
    <tag>
      <system value="http://dsf.dev/fhir/CodeSystem/read-access-tag"/>
      <code value="ALL"/>
    </tag>
  </meta>`

const authorizationExt = `<extension url="http://dsf.dev/fhir/StructureDefinition/extension-process-authorization">
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

func validActivityDefinition() string {
	return `<ActivityDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/ActivityDefinition/example"/>
  <status value="unknown"/>
  <kind value="Task"/>
  ` + readAccessTag + `
  ` + authorizationExt + `
</ActivityDefinition>`
}

func badStatusActivityDefinition() string {
	return `<ActivityDefinition xmlns="http://hl7.org/fhir">
  <url value="http://dsf.dev/fhir/ActivityDefinition/example"/>
  <status value="active"/>
  <kind value="Task"/>
  ` + readAccessTag + `
  ` + authorizationExt + `
</ActivityDefinition>`
}

func baseOptions(path string) Options {
	return Options{
		ArchivePath:        path,
		FailLevel:          lintrule.SeverityError,
		AuthorizationCodes: map[string]bool{"LOCAL_ORGANIZATION": true},
	}
}

func TestRun_ValidArchiveSucceeds(t *testing.T) {
	path := buildArchive(t, map[string]string{
		"META-INF/services/org.example.MyPlugin.v2.ProcessPluginDefinition": "org.example.MyPlugin",
		"bpe/my-plugin_process/flow.bpmn":                                   sampleBPMN,
		"fhir/ActivityDefinition-example.xml":                               validActivityDefinition(),
	})

	result, err := Run(context.Background(), baseOptions(path))
	require.NoError(t, err)
	assert.Equal(t, DispositionOK, result.Disposition, "report=%+v", result.Report.All())
	assert.NotEmpty(t, result.RunID)
}

func TestRun_FirstDiscoveryItemIsServiceRegistrationFound(t *testing.T) {
	path := buildArchive(t, map[string]string{
		"META-INF/services/org.example.MyPlugin.v2.ProcessPluginDefinition": "org.example.MyPlugin",
		"bpe/my-plugin_process/flow.bpmn":                                   sampleBPMN,
		"fhir/ActivityDefinition-example.xml":                               validActivityDefinition(),
	})

	result, err := Run(context.Background(), baseOptions(path))
	require.NoError(t, err)
	require.NotEmpty(t, result.Report.Discovery)
	first := result.Report.Discovery[0]
	assert.Equal(t, KindServiceRegistrationFound, first.Kind)
	assert.Equal(t, lintrule.SeveritySuccess, first.Severity)
}

func TestRun_BadActivityDefinitionStatusProducesError(t *testing.T) {
	path := buildArchive(t, map[string]string{
		"META-INF/services/org.example.MyPlugin.v2.ProcessPluginDefinition": "org.example.MyPlugin",
		"bpe/my-plugin_process/flow.bpmn":                                   sampleBPMN,
		"fhir/ActivityDefinition-example.xml":                               badStatusActivityDefinition(),
	})

	result, err := Run(context.Background(), baseOptions(path))
	require.NoError(t, err)
	assert.Equal(t, DispositionFindings, result.Disposition)

	found := false
	for _, item := range result.Report.FHIR {
		if item.Kind == fhirlint.KindActivityDefinitionStatusNotUnknown {
			found = true
		}
	}
	assert.True(t, found, "expected %s among FHIR items, got %+v", fhirlint.KindActivityDefinitionStatusNotUnknown, result.Report.FHIR)
}

func TestRun_NoFailSuppressesFindingsDisposition(t *testing.T) {
	path := buildArchive(t, map[string]string{
		"META-INF/services/org.example.MyPlugin.v2.ProcessPluginDefinition": "org.example.MyPlugin",
		"bpe/my-plugin_process/flow.bpmn":                                   sampleBPMN,
		"fhir/ActivityDefinition-example.xml":                               badStatusActivityDefinition(),
	})

	opts := baseOptions(path)
	opts.NoFail = true
	result, err := Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, DispositionOK, result.Disposition, "expected DispositionOK with --no-fail")
}

func TestRun_MultipleV2ManifestsIsFatalWithEmptyReport(t *testing.T) {
	path := buildArchive(t, map[string]string{
		"META-INF/services/org.example.PluginOne.v2.ProcessPluginDefinition": "org.example.PluginOne",
		"META-INF/services/org.example.PluginTwo.v2.ProcessPluginDefinition": "org.example.PluginTwo",
	})

	result, err := Run(context.Background(), baseOptions(path))
	require.NoError(t, err)
	assert.Equal(t, DispositionFatal, result.Disposition)
	require.NotNil(t, result.Fatal)
	assert.Empty(t, result.Report.All())
}

const sampleBPMNProcessTwo = `<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL">
  <bpmn:process id="my-plugin_process_two" isExecutable="true">
  </bpmn:process>
</bpmn:definitions>`

func TestRun_MultipleProcessesLintEachFHIRFileOnce(t *testing.T) {
	path := buildArchive(t, map[string]string{
		"META-INF/services/org.example.MyPlugin.v2.ProcessPluginDefinition": "org.example.MyPlugin",
		"bpe/my-plugin_process/flow.bpmn":                                   sampleBPMN,
		"bpe/my-plugin_process_two/flow.bpmn":                               sampleBPMNProcessTwo,
		"fhir/ActivityDefinition-example.xml":                               badStatusActivityDefinition(),
	})

	result, err := Run(context.Background(), baseOptions(path))
	require.NoError(t, err)

	resolutionCount := 0
	for _, item := range result.Report.Resolution {
		if item.Location.File == "fhir/ActivityDefinition-example.xml" {
			resolutionCount++
		}
	}
	assert.Equal(t, 1, resolutionCount, "FHIR file shared by two processes must resolve only once")

	findingCount := 0
	for _, item := range result.Report.FHIR {
		if item.Kind == fhirlint.KindActivityDefinitionStatusNotUnknown {
			findingCount++
		}
	}
	assert.Equal(t, 1, findingCount, "FHIR file shared by two processes must be linted only once")
}

func TestRun_MissingArchiveIsFatal(t *testing.T) {
	result, err := Run(context.Background(), baseOptions(filepath.Join(t.TempDir(), "missing.jar")))
	require.NoError(t, err)
	assert.Equal(t, DispositionFatal, result.Disposition)
	require.NotNil(t, result.Fatal)
	assert.EqualValues(t, "ArchiveUnreadable", result.Fatal.Kind)
}
