package series

import (
	"bytes"
	"sync"
	"testing"

	"github.com/jpfielding/fiducials.go/pkg/dicom"
	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_FromSOPClass(t *testing.T) {
	assert.Equal(t, Fiducials, KindOf(SpatialFiducialsStorage))
	assert.Equal(t, Image, KindOf(CTImageStorage))
	assert.Equal(t, Model, KindOf(SegmentationStorage))
	assert.Equal(t, Unknown, KindOf("1.2.3"))
	assert.Equal(t, Image|Fiducials, KindsOf(MRImageStorage, SpatialFiducialsStorage, "9.9"))

	assert.Equal(t, []string{SpatialFiducialsStorage}, SOPClasses(Fiducials))
	assert.Contains(t, SOPClasses(Image|Model), SegmentationStorage)
	assert.Contains(t, SOPClasses(Image|Model), CTImageStorage)
}

func TestKind_Strings(t *testing.T) {
	assert.Equal(t, "fiducials", Fiducials.String())
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "image, fiducials", KindString(Image|Fiducials))
	assert.Equal(t, "", KindString(Unknown))

	assert.Equal(t, Image|Fiducials, ParseKinds(" image,fiducials , bogus,"))
	assert.Equal(t, Unknown, ParseKinds(""))
	assert.Equal(t, Report, ParseKind("report"))
	assert.True(t, (Image | Model).Has(Model))
	assert.False(t, Image.Has(Unknown))
}

func TestSeries_KindDerivedOnce(t *testing.T) {
	s := NewWithSOPClass(SpatialFiducialsStorage, "FID")
	assert.Equal(t, Fiducials, s.Kind())
	assert.Equal(t, "FID", s.Modality())
	assert.NotEmpty(t, s.SOPInstanceUID())
	assert.NotEmpty(t, s.SeriesInstanceUID())

	s.SetSOPClassUID(CTImageStorage)
	assert.Equal(t, Image, s.Kind())

	assert.Equal(t, Unknown, New(nil).Kind())
}

func TestSeries_PathValues(t *testing.T) {
	s := New(nil)
	shape := dicom.NewStringAttr(tag.ShapeType, vr.CS)
	path := []dicom.Hop{dicom.At(tag.FiducialSetSequence, 1), dicom.At(tag.FiducialSequence, 0)}

	_, ok := s.StringValue(shape, path...)
	assert.False(t, ok)

	require.NoError(t, s.SetStringValue(shape, "LINE", path...))
	v, ok := s.StringValue(shape, path...)
	assert.True(t, ok)
	assert.Equal(t, "LINE", v)

	frames := dicom.NewVariableNumericAttr[int](tag.ReferencedFrameNumber, vr.IS)
	require.NoError(t, s.SetJoinedValues(frames, `1\2\3`, dicom.At(tag.ReferencedImageSequence, 0)))
	assert.Equal(t, `1\2\3`, s.JoinedValues(frames, dicom.At(tag.ReferencedImageSequence, 0)))
	assert.Error(t, s.SetJoinedValues(frames, `1\x`, dicom.At(tag.ReferencedImageSequence, 0)))
}

func TestSeries_PrivateValues(t *testing.T) {
	s := New(nil)
	set := dicom.At(tag.FiducialSetSequence, 0)
	name := "Landmarks"

	s.SetPrivateValue(0x10, nil, set)
	assert.Equal(t, 0, Get(s, func(ds *dicom.DataSet) int { return ds.Len() }))

	s.SetPrivateValue(0x10, &name, set)
	v, ok := s.PrivateValue(0x10, set)
	assert.True(t, ok)
	assert.Equal(t, name, v)

	s.SetPrivateValue(0x10, nil, set)
	_, ok = s.PrivateValue(0x10, set)
	assert.False(t, ok)
}

func TestSeries_Frames(t *testing.T) {
	s := New(nil)
	thickness := dicom.NewFixedNumericAttr[float64](tag.SliceThickness, vr.DS, 1)

	require.NoError(t, s.SetFrameStringValue(dicom.PerFrame(3), tag.PixelMeasuresSequence, thickness, "1.25"))
	n, ok := s.NumberOfFrames()
	require.True(t, ok)
	assert.Equal(t, 4, n)

	v, ok := s.FrameStringValue(dicom.PerFrame(3), tag.PixelMeasuresSequence, thickness)
	assert.True(t, ok)
	assert.Equal(t, "1.25", v)
	_, ok = s.FrameStringValue(dicom.SharedGroup, tag.PixelMeasuresSequence, thickness)
	assert.False(t, ok)

	tracked := "yes"
	s.SetFramePrivateValue(dicom.PerFrame(1), 0x30, 0x31, &tracked)
	v, ok = s.FramePrivateValue(dicom.PerFrame(1), 0x30, 0x31)
	assert.True(t, ok)
	assert.Equal(t, "yes", v)

	s.ShrinkFrames(2)
	n, _ = s.NumberOfFrames()
	assert.Equal(t, 2, n)
	_, ok = s.FrameStringValue(dicom.PerFrame(3), tag.PixelMeasuresSequence, thickness)
	assert.False(t, ok)
}

func TestSeries_CloneEqual(t *testing.T) {
	s := NewWithSOPClass(SpatialFiducialsStorage, "FID")
	name := "A"
	s.SetPrivateValue(0x10, &name, dicom.At(tag.FiducialSetSequence, 2))
	s.AddInstance(dicom.MustDataSet(dicom.WithString(tag.InstanceNumber, "2")))

	c, err := s.Clone()
	require.NoError(t, err)
	assert.True(t, s.Equal(c))
	assert.True(t, s.Equal(s))
	assert.Equal(t, s.Fingerprint(), c.Fingerprint())
	assert.Equal(t, 2, c.NumberOfInstances())
	assert.Equal(t, Fiducials, c.Kind())

	other := "B"
	c.SetPrivateValue(0x10, &other, dicom.At(tag.FiducialSetSequence, 2))
	assert.False(t, s.Equal(c))
	assert.NotEqual(t, s.Fingerprint(), c.Fingerprint())
	v, _ := s.PrivateValue(0x10, dicom.At(tag.FiducialSetSequence, 2))
	assert.Equal(t, "A", v)

	_, err = s.Instance(5)
	assert.Error(t, err)
	inst, err := s.Instance(1)
	require.NoError(t, err)
	assert.True(t, inst.Has(tag.InstanceNumber))
}

func TestSeries_WriteRead(t *testing.T) {
	s := NewWithSOPClass(SpatialFiducialsStorage, "FID")
	s.SetSeriesDescription("landmarks")

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	out, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, Fiducials, out.Kind())
	assert.Equal(t, "landmarks", out.SeriesDescription())
	assert.Equal(t, s.SOPInstanceUID(), out.SOPInstanceUID())
	assert.Equal(t, s.GeneralSeries().SeriesDate, out.GeneralSeries().SeriesDate)
}

func TestSeries_ConcurrentAccess(t *testing.T) {
	s := New(nil)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := "x"
			for j := range 50 {
				s.SetPrivateValue(0x10, &v, dicom.At(tag.FiducialSetSequence, (i*50+j)%10))
				_, _ = s.PrivateValue(0x10, dicom.At(tag.FiducialSetSequence, j%10))
			}
		}()
	}
	wg.Wait()

	sets := Get(s, func(ds *dicom.DataSet) int {
		seq, _ := dicom.ResolveSequence(ds, tag.FiducialSetSequence)
		return seq.Len()
	})
	assert.Equal(t, 10, sets)
}

func TestParseTime(t *testing.T) {
	tm, err := ParseTime("134501.25")
	require.NoError(t, err)
	assert.Equal(t, Time{Hour: 13, Minute: 45, Second: 1, Nano: 250000000}, tm)

	tm, err = ParseTime("0930")
	require.NoError(t, err)
	assert.Equal(t, Time{Hour: 9, Minute: 30}, tm)

	_, err = ParseTime("9")
	assert.Error(t, err)
	_, err = ParseDate("2024-01-01")
	assert.Error(t, err)
}
