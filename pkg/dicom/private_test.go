package dicom

import (
	"testing"

	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestPrivateValue_AbsentVersusEmpty(t *testing.T) {
	ds := &DataSet{}

	_, ok := PrivateValue(ds, 0x10)
	assert.False(t, ok)

	SetPrivateValue(ds, 0x10, ptr(""))
	v, ok := PrivateValue(ds, 0x10)
	assert.True(t, ok)
	assert.Equal(t, "", v)

	SetPrivateValue(ds, 0x10, nil)
	_, ok = PrivateValue(ds, 0x10)
	assert.False(t, ok)
	assert.False(t, ds.Has(tag.Private(0x10)))
}

func TestPrivateValue_Creator(t *testing.T) {
	ds := &DataSet{}

	SetPrivateValue(ds, 0x10, ptr("Landmarks"))
	SetPrivateValue(ds, 0x11, ptr("1,0,0,1"))
	SetPrivateValue(ds, 0x10, ptr("Other"))

	assert.True(t, HasPrivateCreator(ds))
	assert.Equal(t, 3, ds.Len())

	e, ok := ds.Get(tag.Private(0x10))
	require.True(t, ok)
	assert.Equal(t, vr.UT, e.VR)
	assert.Len(t, e.Bytes, 6)

	v, ok := PrivateValue(ds, 0x10)
	assert.True(t, ok)
	assert.Equal(t, "Other", v)
	assert.Equal(t, tag.New(0x0099, 0x9910), e.Tag)
}

func TestPrivateValue_SlotRange(t *testing.T) {
	ds := &DataSet{}
	assert.Panics(t, func() { SetPrivateValue(ds, 0x0F, ptr("x")) })
	assert.Panics(t, func() { PrivateValue(ds, 0x00) })
	assert.NotPanics(t, func() { SetPrivateValue(ds, 0xFF, ptr("x")) })
}
