package resource

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite_ListDedupsAndOrders(t *testing.T) {
	primaryData := buildZip(t, map[string]string{
		"fhir/Task/task-1.xml": "primary",
	})
	depData := buildZip(t, map[string]string{
		"fhir/Task/task-1.xml": "dependency",
		"fhir/Task/task-2.xml": "dependency-only",
	})
	primary, err := NewArchiveFromBytes(bytes.NewReader(primaryData), int64(len(primaryData)))
	require.NoError(t, err)
	dep, err := NewArchiveFromBytes(bytes.NewReader(depData), int64(len(depData)))
	require.NoError(t, err)

	c := NewComposite(primary, dep)
	refs := ListAll(c, "fhir")
	require.Len(t, refs, 2)

	rc, err := c.Open("fhir/Task/task-1.xml")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "primary", string(data))
}

func TestComposite_Source(t *testing.T) {
	primaryData := buildZip(t, map[string]string{"a.xml": "x"})
	depData := buildZip(t, map[string]string{"b.xml": "y"})
	primary, _ := NewArchiveFromBytes(bytes.NewReader(primaryData), int64(len(primaryData)))
	dep, _ := NewArchiveFromBytes(bytes.NewReader(depData), int64(len(depData)))

	c := NewComposite(primary, dep)
	src, ok := c.Source("b.xml")
	require.True(t, ok)
	assert.Same(t, dep, src)

	_, ok = c.Source("missing.xml")
	assert.False(t, ok)
}
