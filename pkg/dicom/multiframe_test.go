package dicom

import (
	"testing"

	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var imagePosition = NewFixedNumericAttr[float64](tag.ImagePositionPatient, vr.DS, 3)

func TestFunctionalGroup_PerFrameKeepsNumberOfFrames(t *testing.T) {
	ds := &DataSet{}

	FunctionalGroupOrCreate(ds, PerFrame(4))
	frames, ok := NumberOfFrames.Value(ds)
	require.True(t, ok)
	assert.Equal(t, 5, frames)

	FunctionalGroupOrCreate(ds, PerFrame(2))
	frames, _ = NumberOfFrames.Value(ds)
	assert.Equal(t, 5, frames)

	seq, ok := FunctionalGroupSequence(ds, PerFrame(0))
	require.True(t, ok)
	assert.Equal(t, 5, seq.Len())
}

func TestFunctionalGroup_Shared(t *testing.T) {
	ds := &DataSet{}

	_, ok := FunctionalGroup(ds, SharedGroup)
	assert.False(t, ok)

	first := FunctionalGroupOrCreate(ds, SharedGroup)
	second := FunctionalGroupOrCreate(ds, SharedGroup)
	assert.Same(t, first, second)

	seq, ok := FunctionalGroupSequence(ds, SharedGroup)
	require.True(t, ok)
	assert.Equal(t, 1, seq.Len())
	assert.False(t, ds.Has(tag.NumberOfFrames))
}

func TestFrameItem_Values(t *testing.T) {
	ds := &DataSet{}

	assert.Nil(t, FrameItem(ds, PerFrame(1), tag.PlanePositionSequence))

	imagePosition.SetValues(FrameItemOrCreate(ds, PerFrame(1), tag.PlanePositionSequence), []float64{1, 2, 3.5})
	imagePosition.SetValues(FrameItemOrCreate(ds, SharedGroup, tag.PlanePositionSequence), []float64{0, 0, 0})

	values, ok := imagePosition.Values(FrameItem(ds, PerFrame(1), tag.PlanePositionSequence))
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3.5}, values)

	values, ok = imagePosition.Values(FrameItem(ds, SharedGroup, tag.PlanePositionSequence))
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 0}, values)

	// frame 0 was created empty on the way to frame 1
	assert.Nil(t, FrameItem(ds, PerFrame(0), tag.PlanePositionSequence))
	assert.Nil(t, FrameItem(ds, PerFrame(7), tag.PlanePositionSequence))
}

func TestFramePrivateValue(t *testing.T) {
	ds := &DataSet{}

	_, ok := FramePrivateValue(ds, PerFrame(0), 0x20, 0x21)
	assert.False(t, ok)

	SetFramePrivateValue(ds, PerFrame(2), 0x20, 0x21, ptr("tracked"))
	v, ok := FramePrivateValue(ds, PerFrame(2), 0x20, 0x21)
	assert.True(t, ok)
	assert.Equal(t, "tracked", v)

	group, ok := FunctionalGroup(ds, PerFrame(2))
	require.True(t, ok)
	assert.True(t, HasPrivateCreator(group))

	SetFramePrivateValue(ds, PerFrame(2), 0x20, 0x21, nil)
	_, ok = FramePrivateValue(ds, PerFrame(2), 0x20, 0x21)
	assert.False(t, ok)

	assert.Panics(t, func() { SetFramePrivateValue(ds, SharedGroup, 0x20, 0x20, ptr("x")) })
}

func TestShrinkFrames(t *testing.T) {
	ds := &DataSet{}
	ShrinkFrames(ds, 2)
	assert.False(t, ds.Has(tag.NumberOfFrames))

	FunctionalGroupOrCreate(ds, PerFrame(5))
	ShrinkFrames(ds, 2)

	seq, _ := FunctionalGroupSequence(ds, PerFrame(0))
	assert.Equal(t, 2, seq.Len())
	frames, _ := NumberOfFrames.Value(ds)
	assert.Equal(t, 2, frames)

	ShrinkFrames(ds, 10)
	frames, _ = NumberOfFrames.Value(ds)
	assert.Equal(t, 2, frames)
}
