// Package part10 moves data sets between this module and
// github.com/suyashkumar/dicom, whose parser reads every uncompressed transfer
// syntax and carries the full standard dictionary.
package part10

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	sdicom "github.com/suyashkumar/dicom"
	stag "github.com/suyashkumar/dicom/pkg/tag"

	"github.com/jpfielding/fiducials.go/pkg/dicom"
	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/transfer"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// ReadFile parses a Part 10 file, skipping pixel data
func ReadFile(path string) (*dicom.DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return Read(f, info.Size())
}

// Read parses size bytes of a Part 10 stream, skipping pixel data
func Read(r io.Reader, size int64) (*dicom.DataSet, error) {
	parsed, err := sdicom.Parse(r, size, nil, sdicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return FromDicom(parsed)
}

// WriteFile writes ds as an Explicit VR Little Endian Part 10 file
func WriteFile(path string, ds *dicom.DataSet) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Write(f, ds)
}

// Write encodes ds through the suyashkumar writer as Explicit VR Little Endian
func Write(w io.Writer, ds *dicom.DataSet) (int64, error) {
	out, err := ToDicom(ds)
	if err != nil {
		return 0, err
	}
	var buf bytes.Buffer
	err = sdicom.Write(&buf, out,
		sdicom.SkipVRVerification(),
		sdicom.SkipValueTypeVerification(),
		sdicom.DefaultMissingTransferSyntax(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to write: %w", err)
	}
	return buf.WriteTo(w)
}

// Name returns the dictionary keyword of t, "" when the dictionary does not know it
func Name(t dicom.Tag) string {
	info, err := stag.Find(stag.Tag{Group: t.Group, Element: t.Element})
	if err != nil {
		return ""
	}
	return info.Name
}

// FromDicom converts a parsed data set, file meta included. Pixel data is dropped.
func FromDicom(in sdicom.Dataset) (*dicom.DataSet, error) {
	return fromElements(in.Elements)
}

func fromElements(elements []*sdicom.Element) (*dicom.DataSet, error) {
	ds := &dicom.DataSet{}
	for _, e := range elements {
		if err := fromElement(ds, e); err != nil {
			return nil, fmt.Errorf("%s: %w", tagOf(e.Tag), err)
		}
	}
	return ds, nil
}

func tagOf(t stag.Tag) dicom.Tag {
	return tag.New(t.Group, t.Element)
}

func fromElement(ds *dicom.DataSet, e *sdicom.Element) error {
	t := tagOf(e.Tag)
	v := vr.VR(e.RawValueRepresentation)
	if e.Value == nil {
		dicom.SetEmpty(ds, t, v)
		return nil
	}
	switch e.Value.ValueType() {
	case sdicom.Strings:
		dicom.NewStringAttr(t, v).SetValues(ds, sdicom.MustGetStrings(e.Value))
	case sdicom.Ints:
		return fromInts(ds, t, v, sdicom.MustGetInts(e.Value))
	case sdicom.Floats:
		return fromFloats(ds, t, v, sdicom.MustGetFloats(e.Value))
	case sdicom.Bytes:
		ds.Replace(&dicom.Element{Tag: t, VR: v, Bytes: sdicom.MustGetBytes(e.Value)})
	case sdicom.Sequences:
		seq := dicom.NewSequence()
		for _, item := range e.Value.GetValue().([]*sdicom.SequenceItemValue) {
			child, err := fromElements(item.GetValue().([]*sdicom.Element))
			if err != nil {
				return err
			}
			seq.Append(child)
		}
		ds.Replace(&dicom.Element{Tag: t, VR: vr.SQ, Seq: seq})
	case sdicom.PixelData:
		slog.Debug("dropping pixel data", "tag", t)
	default:
		slog.Warn("dropping element of unknown value type", "tag", t, "vr", v)
	}
	return nil
}

func convert[T, U dicom.Number](values []U) []T {
	out := make([]T, len(values))
	for i, x := range values {
		out[i] = T(x)
	}
	return out
}

func setNumbers[T dicom.Number](ds *dicom.DataSet, t dicom.Tag, v vr.VR, values []T) {
	dicom.NewVariableNumericAttr[T](t, v).SetValues(ds, values)
}

func fromInts(ds *dicom.DataSet, t dicom.Tag, v vr.VR, values []int) error {
	switch v {
	case vr.US:
		setNumbers(ds, t, v, convert[uint16](values))
	case vr.SS:
		setNumbers(ds, t, v, convert[int16](values))
	case vr.UL:
		setNumbers(ds, t, v, convert[uint32](values))
	case vr.SL:
		setNumbers(ds, t, v, convert[int32](values))
	case vr.UV:
		setNumbers(ds, t, v, convert[uint64](values))
	case vr.SV:
		setNumbers(ds, t, v, convert[int64](values))
	case vr.IS:
		setNumbers(ds, t, v, convert[int64](values))
	case vr.AT:
		// a tag is two little endian uint16 values, group then element
		setNumbers(ds, t, v, convert[uint16](values))
	default:
		return fmt.Errorf("integers for VR %s", v)
	}
	return nil
}

func fromFloats(ds *dicom.DataSet, t dicom.Tag, v vr.VR, values []float64) error {
	switch v {
	case vr.FL, vr.OF:
		setNumbers(ds, t, v, convert[float32](values))
	case vr.FD, vr.OD, vr.DS:
		setNumbers(ds, t, v, values)
	default:
		return fmt.Errorf("floats for VR %s", v)
	}
	return nil
}

// ToDicom converts ds for the suyashkumar writer. The file meta group is
// completed from the SOP common elements and always names Explicit VR Little
// Endian.
func ToDicom(ds *dicom.DataSet) (sdicom.Dataset, error) {
	meta := &dicom.DataSet{}
	ds.Ascend(func(e *dicom.Element) bool {
		if e.Tag.IsGroup0002() && e.Tag != tag.FileMetaInformationGroupLength {
			meta.Replace(e)
		}
		return true
	})
	for from, to := range map[dicom.Tag]dicom.Tag{
		tag.SOPClassUID:    tag.MediaStorageSOPClassUID,
		tag.SOPInstanceUID: tag.MediaStorageSOPInstanceUID,
	} {
		if uid, ok := dicom.NewStringAttr(from, vr.UI).Value(ds); ok && !meta.Has(to) {
			dicom.NewStringAttr(to, vr.UI).SetValue(meta, uid)
		}
	}
	dicom.NewStringAttr(tag.TransferSyntaxUID, vr.UI).SetValue(meta, string(transfer.ExplicitVRLittleEndian))

	out, err := toElements(meta, meta.Elements())
	if err != nil {
		return sdicom.Dataset{}, err
	}
	var body []*dicom.Element
	ds.Ascend(func(e *dicom.Element) bool {
		if !e.Tag.IsGroup0002() {
			body = append(body, e)
		}
		return true
	})
	rest, err := toElements(ds, body)
	if err != nil {
		return sdicom.Dataset{}, err
	}
	return sdicom.Dataset{Elements: append(out, rest...)}, nil
}

func toElements(ds *dicom.DataSet, elements []*dicom.Element) ([]*sdicom.Element, error) {
	out := make([]*sdicom.Element, 0, len(elements))
	for _, e := range elements {
		converted, err := toElement(ds, e)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Tag, err)
		}
		out = append(out, converted)
	}
	return out, nil
}

func numbers[T dicom.Number](ds *dicom.DataSet, e *dicom.Element) []T {
	values, _ := dicom.NewVariableNumericAttr[T](e.Tag, e.VR).Values(ds)
	return values
}

func toElement(ds *dicom.DataSet, e *dicom.Element) (*sdicom.Element, error) {
	t := stag.Tag{Group: e.Tag.Group, Element: e.Tag.Element}
	var (
		data   any
		length = uint32(len(e.Bytes))
	)
	switch {
	case e.IsSequence():
		var items [][]*sdicom.Element
		for _, item := range e.Seq.Items() {
			children, err := toElements(item, item.Elements())
			if err != nil {
				return nil, err
			}
			items = append(items, children)
		}
		data = items
		length = stag.VLUndefinedLength
	case e.VR.IsString():
		values, _ := e.GetStrings()
		if values == nil {
			values = []string{}
		}
		data = values
	case e.VR == vr.US:
		data = convert[int](numbers[uint16](ds, e))
	case e.VR == vr.SS:
		data = convert[int](numbers[int16](ds, e))
	case e.VR == vr.UL:
		data = convert[int](numbers[uint32](ds, e))
	case e.VR == vr.SL:
		data = convert[int](numbers[int32](ds, e))
	case e.VR == vr.FL:
		data = convert[float64](numbers[float32](ds, e))
	case e.VR == vr.FD:
		data = numbers[float64](ds, e)
	default:
		data = e.Bytes
		if data == nil {
			data = []byte{}
		}
	}
	value, err := sdicom.NewValue(data)
	if err != nil {
		return nil, err
	}
	return &sdicom.Element{
		Tag:                    t,
		ValueRepresentation:    stag.GetVRKind(t, string(e.VR)),
		RawValueRepresentation: string(e.VR),
		ValueLength:            length,
		Value:                  value,
	}, nil
}
