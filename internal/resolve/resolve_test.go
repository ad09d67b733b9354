package resolve

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsf-tools/dsf-plugin-linter/internal/resource"
)

type memProvider struct {
	files map[string]string
}

func (m memProvider) List(dir string) func(yield func(resource.Ref) bool) {
	return func(yield func(resource.Ref) bool) {
		for path := range m.files {
			ref := resource.Ref(path)
			if !ref.IsUnderDir(dir) {
				continue
			}
			if !yield(ref) {
				return
			}
		}
	}
}

func (m memProvider) Open(path string) (io.ReadCloser, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, resource.ErrNotFound
	}
	return io.NopCloser(bytes.NewBufferString(content)), nil
}

func (m memProvider) Exists(path string) bool {
	_, ok := m.files[path]
	return ok
}

func (m memProvider) Describe() string { return "mem" }

func TestResolve_InRoot(t *testing.T) {
	root := memProvider{files: map[string]string{"fhir/Task/t1.xml": "<Task/>"}}
	r := New(root, "/archive", ConventionalLayout, nil)

	res, err := r.Resolve(context.Background(), "  classpath:/fhir/Task/t1.xml  ")
	require.NoError(t, err)
	assert.Equal(t, InRoot, res.Provenance)
	rc, err := res.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "<Task/>", string(data))
}

func TestResolve_OutsideRoot(t *testing.T) {
	root := memProvider{files: map[string]string{}}
	wider := memProvider{files: map[string]string{"fhir/Task/t1.xml": "<Task/>"}}
	r := New(root, "/archive", ConventionalLayout, wider)

	res, err := r.Resolve(context.Background(), "fhir/Task/t1.xml")
	require.NoError(t, err)
	assert.Equal(t, OutsideRoot, res.Provenance)
}

func TestResolve_FromDependency(t *testing.T) {
	root := memProvider{files: map[string]string{}}
	dep := memProvider{files: map[string]string{"fhir/Task/t1.xml": "<Task/>"}}
	r := New(root, "/archive", ConventionalLayout, nil)
	r.AddDependencyArchive("dep-1.0.jar", dep)

	res, err := r.Resolve(context.Background(), "fhir/Task/t1.xml")
	require.NoError(t, err)
	assert.Equal(t, FromDependency, res.Provenance)
	assert.Equal(t, "dep-1.0.jar", res.ActualLocation)
	rc, err := res.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "<Task/>", string(data))
	r.Close()
}

func TestResolve_NotFound(t *testing.T) {
	root := memProvider{files: map[string]string{}}
	r := New(root, "/archive", ConventionalLayout, nil)

	res, err := r.Resolve(context.Background(), "missing.xml")
	require.NoError(t, err)
	assert.Equal(t, NotFound, res.Provenance)
	_, err = res.Open()
	assert.Error(t, err)
}

func TestResolve_CachesPerReference(t *testing.T) {
	root := memProvider{files: map[string]string{"a.xml": "x"}}
	r := New(root, "/archive", ConventionalLayout, nil)

	r1, _ := r.Resolve(context.Background(), "a.xml")
	r2, _ := r.Resolve(context.Background(), "a.xml")
	assert.Same(t, r1, r2)
}

func TestResolve_PriorityInRootOverOutsideRoot(t *testing.T) {
	root := memProvider{files: map[string]string{"a.xml": "root-copy"}}
	wider := memProvider{files: map[string]string{"a.xml": "wider-copy"}}
	r := New(root, "/archive", ConventionalLayout, wider)

	res, _ := r.Resolve(context.Background(), "a.xml")
	assert.Equal(t, InRoot, res.Provenance)
}
