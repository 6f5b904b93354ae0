package fiducials

import (
	"fmt"
	"log/slog"

	"github.com/jpfielding/fiducials.go/pkg/dicom"
	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// private slots of a fiducial set item
const (
	slotGroupName uint8 = dicom.MinPrivateSlot + iota
	slotColor
	slotSize
	slotPrivateShape
	slotVisible
)

var (
	fiducialSetSequence            = dicom.NewSequenceAttr(tag.FiducialSetSequence)
	fiducialSequence               = dicom.NewSequenceAttr(tag.FiducialSequence)
	referencedImageSequence        = dicom.NewSequenceAttr(tag.ReferencedImageSequence)
	graphicCoordinatesDataSequence = dicom.NewSequenceAttr(tag.GraphicCoordinatesDataSequence)

	referencedSOPClassUID    = dicom.NewStringAttr(tag.ReferencedSOPClassUID, vr.UI)
	referencedSOPInstanceUID = dicom.NewStringAttr(tag.ReferencedSOPInstanceUID, vr.UI)
	referencedFrameNumber    = dicom.NewVariableNumericAttr[int32](tag.ReferencedFrameNumber, vr.IS)
	referencedSegmentNumber  = dicom.NewVariableNumericAttr[uint16](tag.ReferencedSegmentNumber, vr.US)
	frameOfReferenceUID      = dicom.NewStringAttr(tag.FrameOfReferenceUID, vr.UI)

	shapeType             = dicom.NewStringAttr(tag.ShapeType, vr.CS)
	fiducialDescription   = dicom.NewStringAttr(tag.FiducialDescription, vr.ST)
	fiducialIdentifier    = dicom.NewStringAttr(tag.FiducialIdentifier, vr.LO)
	fiducialUID           = dicom.NewStringAttr(tag.FiducialUID, vr.UI)
	graphicData           = dicom.NewVariableNumericAttr[float32](tag.GraphicData, vr.FL)
	numberOfContourPoints = dicom.NewFixedNumericAttr[int32](tag.NumberOfContourPoints, vr.IS, 1)
	contourData           = dicom.NewVariableNumericAttr[float64](tag.ContourData, vr.DS)

	contentDate        = dicom.NewStringAttr(tag.ContentDate, vr.DA)
	contentLabel       = dicom.NewStringAttr(tag.ContentLabel, vr.CS)
	contentDescription = dicom.NewStringAttr(tag.ContentDescription, vr.LO)
	contentCreatorName = dicom.NewStringAttr(tag.ContentCreatorName, vr.PN)
)

func optional(a dicom.StringAttr, ds *dicom.DataSet) *string {
	if v, ok := a.Value(ds); ok {
		return &v
	}
	return nil
}

// toPoint2 drops a trailing odd value
func toPoint2(values []float32) []Point2 {
	if len(values)%2 != 0 {
		slog.Warn("graphic data is not made of pairs", "values", len(values))
	}
	var out []Point2
	for i := 0; i+1 < len(values); i += 2 {
		out = append(out, Point2{X: values[i], Y: values[i+1]})
	}
	return out
}

func fromPoint2(points []Point2) []float32 {
	out := make([]float32, 0, 2*len(points))
	for _, p := range points {
		out = append(out, p.X, p.Y)
	}
	return out
}

// toPoint3 drops trailing values that do not make a whole point
func toPoint3(values []float64) []Point3 {
	if len(values)%3 != 0 {
		slog.Warn("contour data is not made of triplets", "values", len(values))
	}
	var out []Point3
	for i := 0; i+2 < len(values); i += 3 {
		out = append(out, Point3{X: values[i], Y: values[i+1], Z: values[i+2]})
	}
	return out
}

func fromPoint3(points []Point3) []float64 {
	out := make([]float64, 0, 3*len(points))
	for _, p := range points {
		out = append(out, p.X, p.Y, p.Z)
	}
	return out
}

func readReferencedImage(ds *dicom.DataSet) ReferencedImage {
	var ri ReferencedImage
	ri.ReferencedSOPClassUID, _ = referencedSOPClassUID.Value(ds)
	ri.ReferencedSOPInstanceUID, _ = referencedSOPInstanceUID.Value(ds)
	ri.ReferencedFrameNumber, _ = referencedFrameNumber.Values(ds)
	ri.ReferencedSegmentNumber, _ = referencedSegmentNumber.Values(ds)
	return ri
}

// The builders below take VRs from the tag dictionary, which agrees with the
// attributes above, so a build error is a programming error.

// sequenceOf adds one item per value, built from the options of the value
func sequenceOf[T any](t dicom.Tag, values []T, options func(T) []dicom.Option) *dicom.SequenceBuilder {
	b := dicom.NewSequenceBuilder(t)
	for _, v := range values {
		b.AddItem(options(v)...)
	}
	return b
}

func mustSequence(b *dicom.SequenceBuilder) *dicom.Sequence {
	seq, err := b.Sequence()
	if err != nil {
		panic(err)
	}
	return seq
}

func mustBuild(b *dicom.SequenceBuilder) dicom.Option {
	opt, err := b.Build()
	if err != nil {
		panic(err)
	}
	return opt
}

func referencedImageOptions(ri ReferencedImage) []dicom.Option {
	return []dicom.Option{
		dicom.WithString(tag.ReferencedSOPClassUID, ri.ReferencedSOPClassUID),
		dicom.WithString(tag.ReferencedSOPInstanceUID, ri.ReferencedSOPInstanceUID),
		dicom.WithValues(tag.ReferencedFrameNumber, ri.ReferencedFrameNumber...),
		dicom.WithValues(tag.ReferencedSegmentNumber, ri.ReferencedSegmentNumber...),
	}
}

func referencedImageDataSet(ri ReferencedImage) *dicom.DataSet {
	return dicom.MustDataSet(referencedImageOptions(ri)...)
}

func readReferencedImages(seq *dicom.Sequence) []ReferencedImage {
	out := make([]ReferencedImage, 0, seq.Len())
	for _, item := range seq.Items() {
		out = append(out, readReferencedImage(item))
	}
	return out
}

func referencedImagesSequence(images []ReferencedImage) *dicom.Sequence {
	return mustSequence(sequenceOf(tag.ReferencedImageSequence, images, referencedImageOptions))
}

// the referenced image of a graphic coordinates entry is the first item of its sequence
func readGraphicCoordinatesData(ds *dicom.DataSet) GraphicCoordinatesData {
	var gcd GraphicCoordinatesData
	if seq, ok := referencedImageSequence.Sequence(ds); ok {
		if item, ok := seq.Item(0); ok {
			gcd.ReferencedImage = readReferencedImage(item)
		}
	}
	if values, ok := graphicData.Values(ds); ok {
		gcd.GraphicData = toPoint2(values)
	}
	return gcd
}

func graphicCoordinatesOptions(gcd GraphicCoordinatesData) []dicom.Option {
	return []dicom.Option{
		mustBuild(sequenceOf(tag.ReferencedImageSequence, []ReferencedImage{gcd.ReferencedImage}, referencedImageOptions)),
		dicom.WithValues(tag.GraphicData, fromPoint2(gcd.GraphicData)...),
	}
}

func graphicCoordinatesDataSet(gcd GraphicCoordinatesData) *dicom.DataSet {
	return dicom.MustDataSet(graphicCoordinatesOptions(gcd)...)
}

func readGraphicCoordinatesDataSequence(seq *dicom.Sequence) []GraphicCoordinatesData {
	out := make([]GraphicCoordinatesData, 0, seq.Len())
	for _, item := range seq.Items() {
		out = append(out, readGraphicCoordinatesData(item))
	}
	return out
}

func graphicCoordinatesSequence(gcds []GraphicCoordinatesData) *dicom.Sequence {
	return mustSequence(sequenceOf(tag.GraphicCoordinatesDataSequence, gcds, graphicCoordinatesOptions))
}

func readShape(ds *dicom.DataSet) Shape {
	s, ok := shapeType.Value(ds)
	if !ok {
		return ShapeInvalid
	}
	return ParseShape(s)
}

func readFiducial(ds *dicom.DataSet) Fiducial {
	f := Fiducial{ShapeType: readShape(ds)}
	f.FiducialDescription, _ = fiducialDescription.Value(ds)
	f.FiducialIdentifier, _ = fiducialIdentifier.Value(ds)
	if seq, ok := graphicCoordinatesDataSequence.Sequence(ds); ok {
		f.GraphicCoordinatesDataSequence = readGraphicCoordinatesDataSequence(seq)
	}
	f.FiducialUID = optional(fiducialUID, ds)
	if values, ok := contourData.Values(ds); ok {
		f.ContourData = toPoint3(values)
	}
	return f
}

// setShape writes the token of a valid shape; ShapeInvalid is never stored
func setShape(ds *dicom.DataSet, s Shape) {
	if token := ShapeToString(s); token != "" {
		shapeType.SetValue(ds, token)
	}
}

func setContour(ds *dicom.DataSet, values []float64) {
	if len(values)%3 != 0 {
		panic(fmt.Sprintf("fiducials: %d contour values is not a multiple of 3", len(values)))
	}
	numberOfContourPoints.SetValue(ds, int32(len(values)/3))
	contourData.SetValues(ds, values)
}

func fiducialOptions(f Fiducial) []dicom.Option {
	opts := []dicom.Option{
		func(ds *dicom.DataSet) error {
			setShape(ds, f.ShapeType)
			return nil
		},
		dicom.WithString(tag.FiducialDescription, f.FiducialDescription),
		dicom.WithString(tag.FiducialIdentifier, f.FiducialIdentifier),
	}
	if f.GraphicCoordinatesDataSequence != nil {
		opts = append(opts, mustBuild(sequenceOf(tag.GraphicCoordinatesDataSequence, f.GraphicCoordinatesDataSequence, graphicCoordinatesOptions)))
	}
	if f.FiducialUID != nil {
		opts = append(opts, dicom.WithString(tag.FiducialUID, *f.FiducialUID))
	} else {
		opts = append(opts, dicom.WithEmpty(tag.FiducialUID))
	}
	if len(f.ContourData) > 0 {
		contour := fromPoint3(f.ContourData)
		opts = append(opts, func(ds *dicom.DataSet) error {
			setContour(ds, contour)
			return nil
		})
	}
	return opts
}

func fiducialDataSet(f Fiducial) *dicom.DataSet {
	return dicom.MustDataSet(fiducialOptions(f)...)
}

func fiducialsSequence(fiducials []Fiducial) *dicom.Sequence {
	return mustSequence(sequenceOf(tag.FiducialSequence, fiducials, fiducialOptions))
}

// setLevel holds the fields of a fiducial set shared by all its fiducials
type setLevel struct {
	frameOfReferenceUID *string
	groupName           *string
	color               *Color
	size                *float32
	shape               *PrivateShape
	visible             *bool
}

func readSetLevel(ds *dicom.DataSet) (setLevel, error) {
	l := setLevel{frameOfReferenceUID: optional(frameOfReferenceUID, ds)}
	if v, ok := dicom.PrivateValue(ds, slotGroupName); ok {
		l.groupName = &v
	}
	if v, ok := dicom.PrivateValue(ds, slotColor); ok {
		c, err := ParseColor(v)
		if err != nil {
			return setLevel{}, err
		}
		l.color = c
	}
	if v, ok := dicom.PrivateValue(ds, slotSize); ok {
		size, err := parseSize(v)
		if err != nil {
			return setLevel{}, err
		}
		l.size = &size
	}
	if v, ok := dicom.PrivateValue(ds, slotPrivateShape); ok {
		if p, ok := ParsePrivateShape(v); ok {
			l.shape = &p
		}
	}
	if v, ok := dicom.PrivateValue(ds, slotVisible); ok {
		l.visible = ptr(parseVisibility(v))
	}
	return l, nil
}

// options writes the non nil fields
func (l setLevel) options() []dicom.Option {
	var opts []dicom.Option
	if l.frameOfReferenceUID != nil {
		opts = append(opts, dicom.WithString(tag.FrameOfReferenceUID, *l.frameOfReferenceUID))
	}
	if l.groupName != nil {
		opts = append(opts, dicom.WithPrivate(slotGroupName, *l.groupName))
	}
	if l.color != nil {
		opts = append(opts, dicom.WithPrivate(slotColor, l.color.String()))
	}
	if l.size != nil {
		opts = append(opts, dicom.WithPrivate(slotSize, formatSize(*l.size)))
	}
	if l.shape != nil {
		opts = append(opts, dicom.WithPrivate(slotPrivateShape, l.shape.String()))
	}
	if l.visible != nil {
		opts = append(opts, dicom.WithPrivate(slotVisible, formatVisibility(*l.visible)))
	}
	return opts
}

func (l setLevel) apply(ds *dicom.DataSet) {
	for _, opt := range l.options() {
		if err := opt(ds); err != nil {
			panic(err)
		}
	}
}

func readFiducialSet(ds *dicom.DataSet) (FiducialSet, error) {
	l, err := readSetLevel(ds)
	if err != nil {
		return FiducialSet{}, err
	}
	fs := FiducialSet{
		FrameOfReferenceUID: l.frameOfReferenceUID,
		GroupName:           l.groupName,
		Color:               l.color,
		Size:                l.size,
		Shape:               l.shape,
		Visibility:          l.visible,
	}
	if seq, ok := referencedImageSequence.Sequence(ds); ok {
		fs.ReferencedImageSequence = readReferencedImages(seq)
	}
	for _, item := range fiducialSequence.Items(ds) {
		fs.FiducialSequence = append(fs.FiducialSequence, readFiducial(item))
	}
	return fs, nil
}

func fiducialSetOptions(fs FiducialSet) []dicom.Option {
	var opts []dicom.Option
	if fs.ReferencedImageSequence != nil {
		opts = append(opts, mustBuild(sequenceOf(tag.ReferencedImageSequence, fs.ReferencedImageSequence, referencedImageOptions)))
	}
	opts = append(opts, mustBuild(sequenceOf(tag.FiducialSequence, fs.FiducialSequence, fiducialOptions)))
	return append(opts, setLevel{
		frameOfReferenceUID: fs.FrameOfReferenceUID,
		groupName:           fs.GroupName,
		color:               fs.Color,
		size:                fs.Size,
		shape:               fs.Shape,
		visible:             fs.Visibility,
	}.options()...)
}

func fiducialSetDataSet(fs FiducialSet) *dicom.DataSet {
	return dicom.MustDataSet(fiducialSetOptions(fs)...)
}

func readFiducialSets(ds *dicom.DataSet) ([]FiducialSet, error) {
	var out []FiducialSet
	for i, item := range fiducialSetSequence.Items(ds) {
		fs, err := readFiducialSet(item)
		if err != nil {
			return nil, fmt.Errorf("fiducial set %d: %w", i, err)
		}
		out = append(out, fs)
	}
	return out, nil
}

func fiducialSetsSequence(sets []FiducialSet) *dicom.Sequence {
	return mustSequence(sequenceOf(tag.FiducialSetSequence, sets, fiducialSetOptions))
}
