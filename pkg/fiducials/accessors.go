package fiducials

import (
	"github.com/jpfielding/fiducials.go/pkg/dicom"
	"github.com/jpfielding/fiducials.go/pkg/series"
)

func values[T dicom.Number](s *Series, a dicom.VariableNumericAttr[T], path ...dicom.Hop) []T {
	return series.Get(s.Series, func(ds *dicom.DataSet) []T {
		v, _ := a.Values(dicom.Lookup(ds, path...))
		return v
	})
}

func setValues[T dicom.Number](s *Series, a dicom.VariableNumericAttr[T], v []T, path ...dicom.Hop) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		a.SetValues(dicom.ResolveOrCreate(ds, path...), v)
		return nil
	})
}

func (s *Series) setValue(a dicom.StringAttr, v string, path ...dicom.Hop) {
	_ = s.SetStringValue(a, v, path...)
}

func (s *Series) ReferencedSOPClassUID(set, image int) (string, bool) {
	return s.StringValue(referencedSOPClassUID, setAt(set), imageAt(image))
}

func (s *Series) SetReferencedSOPClassUID(set, image int, uid string) {
	s.setValue(referencedSOPClassUID, uid, setAt(set), imageAt(image))
}

func (s *Series) ReferencedSOPInstanceUID(set, image int) (string, bool) {
	return s.StringValue(referencedSOPInstanceUID, setAt(set), imageAt(image))
}

func (s *Series) SetReferencedSOPInstanceUID(set, image int, uid string) {
	s.setValue(referencedSOPInstanceUID, uid, setAt(set), imageAt(image))
}

func (s *Series) ReferencedFrameNumber(set, image int) []int32 {
	return values(s, referencedFrameNumber, setAt(set), imageAt(image))
}

func (s *Series) SetReferencedFrameNumber(set, image int, frames []int32) {
	setValues(s, referencedFrameNumber, frames, setAt(set), imageAt(image))
}

func (s *Series) ReferencedSegmentNumber(set, image int) []uint16 {
	return values(s, referencedSegmentNumber, setAt(set), imageAt(image))
}

func (s *Series) SetReferencedSegmentNumber(set, image int, segments []uint16) {
	setValues(s, referencedSegmentNumber, segments, setAt(set), imageAt(image))
}

// graphicImage addresses the single referenced image of a graphic coordinates entry
func graphicImage(set, fiducial, gcd int) []dicom.Hop {
	return []dicom.Hop{setAt(set), fiducialAt(fiducial), graphicAt(gcd), imageAt(0)}
}

func (s *Series) GraphicReferencedSOPClassUID(set, fiducial, gcd int) (string, bool) {
	return s.StringValue(referencedSOPClassUID, graphicImage(set, fiducial, gcd)...)
}

func (s *Series) SetGraphicReferencedSOPClassUID(set, fiducial, gcd int, uid string) {
	s.setValue(referencedSOPClassUID, uid, graphicImage(set, fiducial, gcd)...)
}

func (s *Series) GraphicReferencedSOPInstanceUID(set, fiducial, gcd int) (string, bool) {
	return s.StringValue(referencedSOPInstanceUID, graphicImage(set, fiducial, gcd)...)
}

func (s *Series) SetGraphicReferencedSOPInstanceUID(set, fiducial, gcd int, uid string) {
	s.setValue(referencedSOPInstanceUID, uid, graphicImage(set, fiducial, gcd)...)
}

func (s *Series) GraphicReferencedFrameNumber(set, fiducial, gcd int) []int32 {
	return values(s, referencedFrameNumber, graphicImage(set, fiducial, gcd)...)
}

func (s *Series) SetGraphicReferencedFrameNumber(set, fiducial, gcd int, frames []int32) {
	setValues(s, referencedFrameNumber, frames, graphicImage(set, fiducial, gcd)...)
}

func (s *Series) GraphicReferencedSegmentNumber(set, fiducial, gcd int) []uint16 {
	return values(s, referencedSegmentNumber, graphicImage(set, fiducial, gcd)...)
}

func (s *Series) SetGraphicReferencedSegmentNumber(set, fiducial, gcd int, segments []uint16) {
	setValues(s, referencedSegmentNumber, segments, graphicImage(set, fiducial, gcd)...)
}

// GraphicData returns the column/row points of a graphic coordinates entry
func (s *Series) GraphicData(set, fiducial, gcd int) []Point2 {
	return toPoint2(values(s, graphicData, setAt(set), fiducialAt(fiducial), graphicAt(gcd)))
}

func (s *Series) SetGraphicData(set, fiducial, gcd int, points []Point2) {
	setValues(s, graphicData, fromPoint2(points), setAt(set), fiducialAt(fiducial), graphicAt(gcd))
}

func (s *Series) FrameOfReferenceUID(set int) (string, bool) {
	return s.StringValue(frameOfReferenceUID, setAt(set))
}

func (s *Series) SetFrameOfReferenceUID(set int, uid string) {
	s.setValue(frameOfReferenceUID, uid, setAt(set))
}

// ShapeType returns the shape of a fiducial, ShapeInvalid when absent or unknown
func (s *Series) ShapeType(set, fiducial int) Shape {
	return series.Get(s.Series, func(ds *dicom.DataSet) Shape {
		return readShape(dicom.Lookup(ds, setAt(set), fiducialAt(fiducial)))
	})
}

// SetShapeType writes the shape of a fiducial; ShapeInvalid is not written
func (s *Series) SetShapeType(set, fiducial int, shape Shape) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		setShape(dicom.ResolveOrCreate(ds, setAt(set), fiducialAt(fiducial)), shape)
		return nil
	})
}

func (s *Series) FiducialDescription(set, fiducial int) string {
	v, _ := s.StringValue(fiducialDescription, setAt(set), fiducialAt(fiducial))
	return v
}

func (s *Series) SetFiducialDescription(set, fiducial int, description string) {
	s.setValue(fiducialDescription, description, setAt(set), fiducialAt(fiducial))
}

func (s *Series) FiducialIdentifier(set, fiducial int) string {
	v, _ := s.StringValue(fiducialIdentifier, setAt(set), fiducialAt(fiducial))
	return v
}

func (s *Series) SetFiducialIdentifier(set, fiducial int, identifier string) {
	s.setValue(fiducialIdentifier, identifier, setAt(set), fiducialAt(fiducial))
}

func (s *Series) FiducialUID(set, fiducial int) (string, bool) {
	return s.StringValue(fiducialUID, setAt(set), fiducialAt(fiducial))
}

// SetFiducialUID writes the UID; nil stores an empty element
func (s *Series) SetFiducialUID(set, fiducial int, uid *string) {
	v := ""
	if uid != nil {
		v = *uid
	}
	s.setValue(fiducialUID, v, setAt(set), fiducialAt(fiducial))
}

// ContourData returns the points of a fiducial
func (s *Series) ContourData(set, fiducial int) []Point3 {
	return toPoint3(values(s, contourData, setAt(set), fiducialAt(fiducial)))
}

// SetContourData writes the points of a fiducial and their count
func (s *Series) SetContourData(set, fiducial int, points []Point3) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		setContour(dicom.ResolveOrCreate(ds, setAt(set), fiducialAt(fiducial)), fromPoint3(points))
		return nil
	})
}

func (s *Series) GroupName(set int) (string, bool) {
	return s.PrivateValue(slotGroupName, setAt(set))
}

func (s *Series) SetGroupName(set int, name string) {
	s.SetPrivateValue(slotGroupName, &name, setAt(set))
}

// Color reads the display color of a set, nil when unset or not four values
func (s *Series) Color(set int) (*Color, error) {
	v, ok := s.PrivateValue(slotColor, setAt(set))
	if !ok {
		return nil, nil
	}
	return ParseColor(v)
}

func (s *Series) SetColor(set int, c Color) {
	s.SetPrivateValue(slotColor, ptr(c.String()), setAt(set))
}

// Size reads the display size of a set, nil when unset
func (s *Series) Size(set int) (*float32, error) {
	v, ok := s.PrivateValue(slotSize, setAt(set))
	if !ok {
		return nil, nil
	}
	size, err := parseSize(v)
	if err != nil {
		return nil, err
	}
	return &size, nil
}

func (s *Series) SetSize(set int, size float32) {
	s.SetPrivateValue(slotSize, ptr(formatSize(size)), setAt(set))
}

func (s *Series) PrivateShape(set int) (PrivateShape, bool) {
	v, ok := s.PrivateValue(slotPrivateShape, setAt(set))
	if !ok {
		return 0, false
	}
	return ParsePrivateShape(v)
}

func (s *Series) SetPrivateShape(set int, shape PrivateShape) {
	s.SetPrivateValue(slotPrivateShape, ptr(shape.String()), setAt(set))
}

// Visibility reads the visibility of a set; the second result is false when unset
func (s *Series) Visibility(set int) (bool, bool) {
	v, ok := s.PrivateValue(slotVisible, setAt(set))
	if !ok {
		return false, false
	}
	return parseVisibility(v), true
}

func (s *Series) SetVisibility(set int, visible bool) {
	s.SetPrivateValue(slotVisible, ptr(formatVisibility(visible)), setAt(set))
}
