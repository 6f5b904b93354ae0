package fiducials

import (
	"math"
)

// Shape is the ShapeType of a fiducial
type Shape uint8

const (
	// ShapeInvalid stands for an absent or unrecognized ShapeType and is never written
	ShapeInvalid Shape = iota
	ShapePoint
	ShapeLine
	ShapePlane
	ShapeSurface
	ShapeRuler
	ShapeLShape
	ShapeTShape
	// ShapeShape is the SHAPE token, a shape described only by its contour
	ShapeShape
)

// PrivateShape is how a fiducial set is drawn
type PrivateShape uint8

const (
	Sphere PrivateShape = iota
	Cube
)

// Color is RGBA in [0,1]
type Color [4]float32

// Point2 is a column/row image coordinate
type Point2 struct {
	X float32 `json:"x" yaml:"x"`
	Y float32 `json:"y" yaml:"y"`
}

// Point3 is a patient coordinate in mm
type Point3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// ReferencedImage is one item of a Referenced Image Sequence
type ReferencedImage struct {
	ReferencedSOPClassUID    string   `json:"referenced_sop_class_uid" yaml:"referenced_sop_class_uid"`
	ReferencedSOPInstanceUID string   `json:"referenced_sop_instance_uid" yaml:"referenced_sop_instance_uid"`
	ReferencedFrameNumber    []int32  `json:"referenced_frame_number,omitempty" yaml:"referenced_frame_number,omitempty"`
	ReferencedSegmentNumber  []uint16 `json:"referenced_segment_number,omitempty" yaml:"referenced_segment_number,omitempty"`
}

// GraphicCoordinatesData locates a fiducial on one image
type GraphicCoordinatesData struct {
	ReferencedImage ReferencedImage `json:"referenced_image" yaml:"referenced_image"`
	GraphicData     []Point2        `json:"graphic_data,omitempty" yaml:"graphic_data,omitempty"`
}

// Fiducial is one item of a Fiducial Sequence. A nil GraphicCoordinatesDataSequence
// is absent, an empty one is present without items.
type Fiducial struct {
	ShapeType                      Shape                    `json:"shape_type" yaml:"shape_type"`
	FiducialDescription            string                   `json:"fiducial_description" yaml:"fiducial_description"`
	FiducialIdentifier             string                   `json:"fiducial_identifier" yaml:"fiducial_identifier"`
	GraphicCoordinatesDataSequence []GraphicCoordinatesData `json:"graphic_coordinates_data_sequence,omitempty" yaml:"graphic_coordinates_data_sequence,omitempty"`
	FiducialUID                    *string                  `json:"fiducial_uid,omitempty" yaml:"fiducial_uid,omitempty"`
	ContourData                    []Point3                 `json:"contour_data,omitempty" yaml:"contour_data,omitempty"`
}

// FiducialSet is one item of the Fiducial Set Sequence. The last five fields
// live in the private block of the item; nil means the slot is not set.
type FiducialSet struct {
	ReferencedImageSequence []ReferencedImage `json:"referenced_image_sequence,omitempty" yaml:"referenced_image_sequence,omitempty"`
	FrameOfReferenceUID     *string           `json:"frame_of_reference_uid,omitempty" yaml:"frame_of_reference_uid,omitempty"`
	FiducialSequence        []Fiducial        `json:"fiducial_sequence" yaml:"fiducial_sequence"`
	GroupName               *string           `json:"group_name,omitempty" yaml:"group_name,omitempty"`
	Color                   *Color            `json:"color,omitempty" yaml:"color,omitempty"`
	Size                    *float32          `json:"size,omitempty" yaml:"size,omitempty"`
	Shape                   *PrivateShape     `json:"shape,omitempty" yaml:"shape,omitempty"`
	Visibility              *bool             `json:"visibility,omitempty" yaml:"visibility,omitempty"`
}

// LandmarksGroup is a named fiducial set seen as landmarks: its display
// fields with defaults filled in and the positions of its points
type LandmarksGroup struct {
	Color   Color        `json:"color" yaml:"color"`
	Size    float32      `json:"size" yaml:"size"`
	Shape   PrivateShape `json:"shape" yaml:"shape"`
	Visible bool         `json:"visible" yaml:"visible"`
	Points  []Point3     `json:"points" yaml:"points"`
}

// QueryResult is one fiducial found by a query, flattened with the fields of
// its set. ShapeIndex ranks the fiducial among those of the same shape in its
// set and only holds for the scan that produced it.
//
// In ModifyFiducials the predicate may change any field; every non nil field
// and a valid Shape are then written back.
type QueryResult struct {
	FiducialSetIndex int `json:"fiducial_set_index" yaml:"fiducial_set_index"`
	FiducialIndex    int `json:"fiducial_index" yaml:"fiducial_index"`
	ShapeIndex       int `json:"shape_index" yaml:"shape_index"`

	FrameOfReferenceUID   *string       `json:"frame_of_reference_uid,omitempty" yaml:"frame_of_reference_uid,omitempty"`
	ReferencedFrameNumber []int32       `json:"referenced_frame_number,omitempty" yaml:"referenced_frame_number,omitempty"`
	GroupName             *string       `json:"group_name,omitempty" yaml:"group_name,omitempty"`
	Visible               *bool         `json:"visible,omitempty" yaml:"visible,omitempty"`
	Size                  *float32      `json:"size,omitempty" yaml:"size,omitempty"`
	PrivateShape          *PrivateShape `json:"private_shape,omitempty" yaml:"private_shape,omitempty"`
	Color                 *Color        `json:"color,omitempty" yaml:"color,omitempty"`

	Shape               Shape     `json:"shape" yaml:"shape"`
	ContourData         []float64 `json:"contour_data,omitempty" yaml:"contour_data,omitempty"`
	GraphicData         []float32 `json:"graphic_data,omitempty" yaml:"graphic_data,omitempty"`
	FiducialDescription *string   `json:"fiducial_description,omitempty" yaml:"fiducial_description,omitempty"`
	FiducialIdentifier  *string   `json:"fiducial_identifier,omitempty" yaml:"fiducial_identifier,omitempty"`
	FiducialUID         *string   `json:"fiducial_uid,omitempty" yaml:"fiducial_uid,omitempty"`
}

// Point returns the first contour point
func (r *QueryResult) Point() (Point3, bool) {
	if len(r.ContourData) < 3 {
		return Point3{}, false
	}
	return Point3{X: r.ContourData[0], Y: r.ContourData[1], Z: r.ContourData[2]}, true
}

// ContourDataBoundingBox returns the min and max corners of the contour. An
// empty contour yields an inverted box.
func (f Fiducial) ContourDataBoundingBox() (Point3, Point3) {
	lo := Point3{X: math.MaxFloat64, Y: math.MaxFloat64, Z: math.MaxFloat64}
	hi := Point3{X: -math.MaxFloat64, Y: -math.MaxFloat64, Z: -math.MaxFloat64}
	for _, p := range f.ContourData {
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
		lo.Z, hi.Z = min(lo.Z, p.Z), max(hi.Z, p.Z)
	}
	return lo, hi
}

// GraphicCoordinatesDataBoundingBox returns the min and max corners of the
// graphic data of entry i, false when there is no such entry
func (f Fiducial) GraphicCoordinatesDataBoundingBox(i int) (Point2, Point2, bool) {
	if i < 0 || i >= len(f.GraphicCoordinatesDataSequence) {
		return Point2{}, Point2{}, false
	}
	lo := Point2{X: math.MaxFloat32, Y: math.MaxFloat32}
	hi := Point2{X: -math.MaxFloat32, Y: -math.MaxFloat32}
	for _, p := range f.GraphicCoordinatesDataSequence[i].GraphicData {
		lo.X, hi.X = min(lo.X, p.X), max(hi.X, p.X)
		lo.Y, hi.Y = min(lo.Y, p.Y), max(hi.Y, p.Y)
	}
	return lo, hi, true
}

func ptr[T any](v T) *T { return &v }
