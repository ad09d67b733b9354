package resource

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
	return root
}

func TestFilesystem_ListAndOpen(t *testing.T) {
	root := writeTree(t, map[string]string{
		"META-INF/services/foo":  "svc",
		"fhir/Task/task-1.xml":   "<Task/>",
		"bpe/process/flow.bpmn":  "<bpmn/>",
	})
	fs, err := NewFilesystem(root)
	require.NoError(t, err)

	refs := ListAll(fs, "fhir")
	require.Len(t, refs, 1)
	assert.Equal(t, Ref("fhir/Task/task-1.xml"), refs[0])

	assert.True(t, fs.Exists("fhir/Task/task-1.xml"))
	assert.False(t, fs.Exists("fhir/Task/missing.xml"))

	rc, err := fs.Open("fhir/Task/task-1.xml")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "<Task/>", string(data))
}

func TestFilesystem_OpenMissingReturnsErrNotFound(t *testing.T) {
	root := writeTree(t, map[string]string{"a.txt": "x"})
	fs, err := NewFilesystem(root)
	require.NoError(t, err)
	_, err = fs.Open("missing.txt")
	assert.Error(t, err)
}

func TestFilesystem_ListEmptyDirListsEverything(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a/one.txt": "1",
		"b/two.txt": "2",
	})
	fs, err := NewFilesystem(root)
	require.NoError(t, err)
	refs := ListAll(fs, "")
	assert.Len(t, refs, 2)
}

func TestGlobMatches(t *testing.T) {
	assert.True(t, GlobMatches("target/dependency/foo.jar", []string{"target/dependency/*.jar"}))
	assert.False(t, GlobMatches("target/classes/foo.class", []string{"target/dependency/*.jar"}))
}
