package resource

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
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
	return buf.Bytes()
}

func TestArchive_ListOpenExists(t *testing.T) {
	data := buildZip(t, map[string]string{
		"fhir/Task/task-1.xml": "<Task/>",
		"bpe/process/flow.bpmn": "<bpmn/>",
	})
	a, err := NewArchiveFromBytes(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	refs := ListAll(a, "fhir")
	require.Len(t, refs, 1)
	assert.Equal(t, Ref("fhir/Task/task-1.xml"), refs[0])

	assert.True(t, a.Exists("fhir/Task/task-1.xml"))
	assert.False(t, a.Exists("fhir/Task/missing.xml"))

	content, err := a.ReadFull("fhir/Task/task-1.xml")
	require.NoError(t, err)
	assert.Equal(t, "<Task/>", string(content))
}

func TestArchive_OpenMissing(t *testing.T) {
	data := buildZip(t, map[string]string{"a.txt": "x"})
	a, err := NewArchiveFromBytes(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	_, err = a.Open("missing.txt")
	assert.Error(t, err)
}
