package dicom

import (
	"testing"

	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Missing(t *testing.T) {
	ds := MustDataSet(WithSequence(tag.FiducialSetSequence, &DataSet{}))

	_, ok := Resolve(ds, At(tag.ReferencedImageSequence, 0))
	assert.False(t, ok)
	_, ok = Resolve(ds, At(tag.FiducialSetSequence, 1))
	assert.False(t, ok)

	item, ok := Resolve(ds, At(tag.FiducialSetSequence, 0))
	assert.True(t, ok)
	assert.NotNil(t, item)

	root, ok := Resolve(ds)
	assert.True(t, ok)
	assert.Same(t, ds, root)
}

func TestResolve_ScalarHop(t *testing.T) {
	ds := MustDataSet(WithString(tag.Modality, "FID"))

	_, ok := Resolve(ds, At(tag.Modality, 0))
	assert.False(t, ok)
	assert.Panics(t, func() { ResolveOrCreate(ds, At(tag.Modality, 0)) })
}

func TestResolveOrCreate_Idempotent(t *testing.T) {
	ds := &DataSet{}
	path := []Hop{At(tag.FiducialSetSequence, 2), At(tag.FiducialSequence, 1)}

	first := ResolveOrCreate(ds, path...)
	second := ResolveOrCreate(ds, path...)
	assert.Same(t, first, second)

	sets, ok := ResolveSequence(ds, tag.FiducialSetSequence)
	require.True(t, ok)
	assert.Equal(t, 3, sets.Len())

	fiducials, ok := ResolveSequence(ds, tag.FiducialSequence, At(tag.FiducialSetSequence, 2))
	require.True(t, ok)
	assert.Equal(t, 2, fiducials.Len())

	found, ok := Resolve(ds, path...)
	require.True(t, ok)
	assert.Same(t, first, found)
}

func TestResolveElement_Nested(t *testing.T) {
	ds := &DataSet{}
	shape := NewStringAttr(tag.ShapeType, vr.CS)
	shape.SetValue(ResolveOrCreate(ds, At(tag.FiducialSetSequence, 0), At(tag.FiducialSequence, 0)), "POINT")

	e, ok := ResolveElement(ds, tag.ShapeType, At(tag.FiducialSetSequence, 0), At(tag.FiducialSequence, 0))
	require.True(t, ok)
	s, _ := e.GetString()
	assert.Equal(t, "POINT", s)

	assert.Nil(t, Lookup(ds, At(tag.FiducialSetSequence, 0), At(tag.FiducialSequence, 3)))
}

func TestSequence_RemoveAt(t *testing.T) {
	a := MustDataSet(WithString(tag.FiducialIdentifier, "a"))
	b := MustDataSet(WithString(tag.FiducialIdentifier, "b"))
	c := MustDataSet(WithString(tag.FiducialIdentifier, "c"))
	seq := NewSequence(a, b, c)

	assert.True(t, seq.RemoveAt(1))
	assert.False(t, seq.RemoveAt(5))
	require.Equal(t, 2, seq.Len())
	item, _ := seq.Item(1)
	assert.Same(t, c, item)

	seq.Truncate(1)
	assert.Equal(t, 1, seq.Len())
	assert.True(t, seq.Grow(3))
	assert.False(t, seq.Grow(2))
	assert.Equal(t, 3, seq.Len())
}
