package dicom

import (
	"testing"

	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringAttr_Padding(t *testing.T) {
	ds := &DataSet{}
	modality := NewStringAttr(tag.Modality, vr.CS)
	uid := NewStringAttr(tag.SOPInstanceUID, vr.UI)

	modality.SetValue(ds, "FID")
	uid.SetValue(ds, "1.2.3")

	e, ok := ds.Get(tag.Modality)
	require.True(t, ok)
	assert.Equal(t, []byte("FID "), e.Bytes)
	e, ok = ds.Get(tag.SOPInstanceUID)
	require.True(t, ok)
	assert.Equal(t, []byte("1.2.3\x00"), e.Bytes)

	v, ok := modality.Value(ds)
	assert.True(t, ok)
	assert.Equal(t, "FID", v)
	v, ok = uid.Value(ds)
	assert.True(t, ok)
	assert.Equal(t, "1.2.3", v)
}

func TestStringAttr_ExplicitEmpty(t *testing.T) {
	ds := &DataSet{}
	label := NewStringAttr(tag.ContentLabel, vr.CS)

	_, ok := label.Value(ds)
	assert.False(t, ok)

	label.Clear(ds)
	assert.True(t, ds.Has(tag.ContentLabel))
	_, ok = label.Value(ds)
	assert.False(t, ok, "an empty element reads as no value")

	label.SetValues(ds, nil)
	e, _ := ds.Get(tag.ContentLabel)
	assert.Empty(t, e.Bytes)
}

func TestStringAttr_JoinedValues(t *testing.T) {
	ds := &DataSet{}
	a := NewStringAttr(tag.SpecificCharacterSet, vr.CS)

	a.SetValues(ds, []string{"A", "", "B"})
	values, ok := a.Values(ds)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "", "B"}, values)
	assert.Equal(t, `A\\B`, JoinedValues(a, ds))

	require.NoError(t, SetJoinedValues(a, ds, `X\\Y`))
	values, ok = a.Values(ds)
	require.True(t, ok)
	assert.Equal(t, []string{"X", "Y"}, values)

	require.NoError(t, a.SetStringValues(ds, []string{"", ""}))
	assert.True(t, ds.Has(a.Tag()))
	_, ok = a.Values(ds)
	assert.False(t, ok)
}

func TestNumericAttr_Binary(t *testing.T) {
	ds := &DataSet{}
	rows := NewFixedNumericAttr[uint16](tag.Rows, vr.US, 1)
	graphic := NewVariableNumericAttr[float32](tag.GraphicData, vr.FL)

	rows.SetValue(ds, 512)
	e, _ := ds.Get(tag.Rows)
	assert.Equal(t, []byte{0x00, 0x02}, e.Bytes)
	v, ok := rows.Value(ds)
	assert.True(t, ok)
	assert.Equal(t, uint16(512), v)

	graphic.SetValues(ds, []float32{1.5, 2.25, -4})
	values, ok := graphic.Values(ds)
	require.True(t, ok)
	assert.Equal(t, []float32{1.5, 2.25, -4}, values)

	s, ok := graphic.StringValue(ds)
	assert.True(t, ok)
	assert.Equal(t, "1.500", s)
}

func TestNumericAttr_DecimalString(t *testing.T) {
	ds := &DataSet{}
	contour := NewVariableNumericAttr[float64](tag.ContourData, vr.DS)

	contour.SetValues(ds, []float64{1.5, -2, 3.25})
	e, _ := ds.Get(tag.ContourData)
	s, _ := e.GetString()
	assert.Equal(t, `1.5\-2\3.25`, s)
	assert.Len(t, e.Bytes, 12)

	values, ok := contour.Values(ds)
	require.True(t, ok)
	assert.Equal(t, []float64{1.5, -2, 3.25}, values)
	assert.Equal(t, []string{"1.5", "-2", "3.25"}, contour.StringValues(ds))

	contour.SetValues(ds, nil)
	assert.True(t, ds.Has(tag.ContourData))
	_, ok = contour.Values(ds)
	assert.False(t, ok)
}

func TestNumericAttr_StringValue(t *testing.T) {
	ds := &DataSet{}
	thickness := NewFixedNumericAttr[float64](tag.SliceThickness, vr.DS, 1)

	require.NoError(t, thickness.SetStringValue(ds, "0.25"))
	first, _ := ds.Get(tag.SliceThickness)
	s, ok := thickness.StringValue(ds)
	require.True(t, ok)
	assert.Equal(t, "0.25", s)

	// writing back what was read stores the same bytes
	require.NoError(t, thickness.SetStringValue(ds, s))
	second, _ := ds.Get(tag.SliceThickness)
	assert.Equal(t, first.Bytes, second.Bytes)

	require.Error(t, thickness.SetStringValue(ds, "thick"))

	require.NoError(t, thickness.SetStringValue(ds, ""))
	_, ok = thickness.Value(ds)
	assert.False(t, ok)
}

func TestFormatNumber_Widths(t *testing.T) {
	for _, tc := range []struct {
		v    vr.VR
		got  string
		want string
	}{
		{vr.FD, FormatNumber(vr.FD, 1.5), "1.5000000"},
		{vr.FD, FormatNumber(vr.FD, -2.25), "-2.2500000"},
		{vr.FL, FormatNumber(vr.FL, float32(1.5)), "1.500"},
		{vr.FL, FormatNumber(vr.FL, float32(0.1)), "0.100"},
		{vr.DS, FormatNumber(vr.DS, 1.5), "1.5"},
		{vr.DS, FormatNumber(vr.DS, 1.0/3), "0.333333333333333"},
		{vr.IS, FormatNumber(vr.IS, int32(12)), "12"},
		{vr.IS, FormatNumber(vr.IS, 2.5), "2.5"},
	} {
		assert.Equal(t, tc.want, tc.got, tc.v)
	}

	ds := &DataSet{}
	fd := NewFixedNumericAttr[float64](tag.New(0x0018, 0x9087), vr.FD, 1)
	fd.SetValue(ds, 1.5)
	s, ok := fd.StringValue(ds)
	assert.True(t, ok)
	assert.Equal(t, "1.5000000", s)

	fl := NewVariableNumericAttr[float32](tag.GraphicData, vr.FL)
	fl.SetValues(ds, []float32{1.5, -4})
	assert.Equal(t, []string{"1.500", "-4.000"}, fl.StringValues(ds))

	is := NewFixedNumericAttr[int32](tag.NumberOfContourPoints, vr.IS, 1)
	is.SetValue(ds, 7)
	s, ok = is.StringValue(ds)
	assert.True(t, ok)
	assert.Equal(t, "7", s)
}

func TestNumericAttr_IntegerString(t *testing.T) {
	ds := &DataSet{}
	NumberOfFrames.SetValue(ds, 12)
	v, ok := NumberOfFrames.Value(ds)
	assert.True(t, ok)
	assert.Equal(t, 12, v)
	s, _ := NumberOfFrames.StringValue(ds)
	assert.Equal(t, "12", s)

	frames := NewVariableNumericAttr[int32](tag.ReferencedFrameNumber, vr.IS)
	require.NoError(t, SetJoinedValues(frames, ds, `1\\3`))
	values, ok := frames.Values(ds)
	require.True(t, ok)
	assert.Equal(t, []int32{1, 3}, values)
	assert.Equal(t, `1\3`, JoinedValues(frames, ds))
}

func TestFixedNumericAttr_Multiplicity(t *testing.T) {
	ds := &DataSet{}
	position := NewFixedNumericAttr[float64](tag.ImagePositionPatient, vr.DS, 3)

	assert.Panics(t, func() { position.SetValues(ds, []float64{1, 2}) })
	assert.Panics(t, func() { position.SetValue(ds, 1) })

	position.SetValues(ds, []float64{1, 2, 3})
	values, ok := position.Values(ds)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, values)
}

func TestSequenceAttr_Items(t *testing.T) {
	ds := &DataSet{}
	seq := NewSequenceAttr(tag.ReferencedImageSequence)

	assert.Nil(t, seq.Items(ds))
	seq.Append(ds, MustDataSet(WithString(tag.ReferencedSOPInstanceUID, "1.2")))
	seq.Append(ds, &DataSet{})
	assert.Len(t, seq.Items(ds), 2)

	seq.Set(ds, nil)
	s, ok := seq.Sequence(ds)
	require.True(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestCopyElement(t *testing.T) {
	src := MustDataSet(WithString(tag.Modality, "FID"))
	dst := MustDataSet(WithString(tag.SeriesDescription, "old"))

	CopyElement(dst, src, tag.Modality)
	CopyElement(dst, src, tag.SeriesDescription)

	v, ok := NewStringAttr(tag.Modality, vr.CS).Value(dst)
	assert.True(t, ok)
	assert.Equal(t, "FID", v)
	assert.False(t, dst.Has(tag.SeriesDescription))
}
