// Package fiducials reads and edits Spatial Fiducials series: named groups of
// spatial markers, each group a Fiducial Set item carrying display settings in
// the application private block.
package fiducials

import (
	"fmt"
	"log/slog"

	"github.com/jpfielding/fiducials.go/pkg/dicom"
	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/series"
)

// Modality of a Spatial Fiducials series
const Modality = "FID"

// Series is a Spatial Fiducials series. Every method locks the embedded series
// once; the unexported helpers that take a data set must be called with that
// lock held, from inside View or Update.
type Series struct {
	*series.Series
}

// New starts an empty Spatial Fiducials series with fresh UIDs
func New() *Series {
	return &Series{Series: series.NewWithSOPClass(series.SpatialFiducialsStorage, Modality)}
}

// Wrap views s as a fiducials series. A series of another kind is accepted with
// a warning; it simply has no fiducial sets until some are added.
func Wrap(s *series.Series) *Series {
	if k := s.Kind(); k != series.Fiducials {
		slog.Warn("series is not a spatial fiducials series", "kind", k)
	}
	return &Series{Series: s}
}

// ReadFile loads a Part 10 file as a fiducials series
func ReadFile(path string) (*Series, error) {
	s, err := series.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Wrap(s), nil
}

// Clone deep copies the series
func (s *Series) Clone() (*Series, error) {
	c, err := s.Series.Clone()
	if err != nil {
		return nil, err
	}
	return &Series{Series: c}, nil
}

// Equal compares both series structurally
func (s *Series) Equal(other *Series) bool {
	if other == nil {
		return false
	}
	return s.Series.Equal(other.Series)
}

func (s *Series) stringField(a dicom.StringAttr) string {
	return series.Get(s.Series, func(ds *dicom.DataSet) string {
		v, _ := a.Value(ds)
		return v
	})
}

func (s *Series) setStringField(a dicom.StringAttr, v string) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		a.SetValue(ds, v)
		return nil
	})
}

// ContentDate returns the content date, "" when unset
func (s *Series) ContentDate() string {
	return s.stringField(contentDate)
}

func (s *Series) SetContentDate(v string) {
	s.setStringField(contentDate, v)
}

func (s *Series) ContentLabel() string {
	return s.stringField(contentLabel)
}

func (s *Series) SetContentLabel(v string) {
	s.setStringField(contentLabel, v)
}

func (s *Series) ContentDescription() string {
	return s.stringField(contentDescription)
}

func (s *Series) SetContentDescription(v string) {
	s.setStringField(contentDescription, v)
}

func (s *Series) ContentCreatorName() string {
	return s.stringField(contentCreatorName)
}

func (s *Series) SetContentCreatorName(v string) {
	s.setStringField(contentCreatorName, v)
}

func setAt(i int) dicom.Hop { return dicom.At(tag.FiducialSetSequence, i) }

func fiducialAt(i int) dicom.Hop { return dicom.At(tag.FiducialSequence, i) }

func graphicAt(i int) dicom.Hop { return dicom.At(tag.GraphicCoordinatesDataSequence, i) }

func imageAt(i int) dicom.Hop { return dicom.At(tag.ReferencedImageSequence, i) }

// setItem replaces item i of the sequence a in parent, growing it as needed
func setItem(parent *dicom.DataSet, a dicom.SequenceAttr, i int, item *dicom.DataSet) {
	if i < 0 {
		panic(fmt.Sprintf("fiducials: negative item index %d", i))
	}
	seq := a.OrCreate(parent)
	seq.Grow(i + 1)
	seq.Set(i, item)
}

// FiducialSets decodes every fiducial set. A malformed color or size is an error.
func (s *Series) FiducialSets() ([]FiducialSet, error) {
	var out []FiducialSet
	err := s.View(func(ds *dicom.DataSet) error {
		var err error
		out, err = readFiducialSets(ds)
		return err
	})
	return out, err
}

// FiducialSet decodes fiducial set i, false when there is no such set
func (s *Series) FiducialSet(i int) (FiducialSet, bool, error) {
	var (
		out   FiducialSet
		found bool
	)
	err := s.View(func(ds *dicom.DataSet) error {
		item, ok := dicom.Resolve(ds, setAt(i))
		if !ok {
			return nil
		}
		found = true
		var err error
		out, err = readFiducialSet(item)
		return err
	})
	return out, found, err
}

// SetFiducialSets replaces the whole Fiducial Set Sequence
func (s *Series) SetFiducialSets(sets []FiducialSet) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		fiducialSetSequence.Set(ds, fiducialSetsSequence(sets))
		return nil
	})
}

// SetFiducialSet replaces fiducial set i, creating empty sets before it as needed
func (s *Series) SetFiducialSet(i int, fs FiducialSet) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		setItem(ds, fiducialSetSequence, i, fiducialSetDataSet(fs))
		return nil
	})
}

// AppendFiducialSet adds fs at the end of the Fiducial Set Sequence
func (s *Series) AppendFiducialSet(fs FiducialSet) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		fiducialSetSequence.Append(ds, fiducialSetDataSet(fs))
		return nil
	})
}

// ReferencedImages decodes the referenced images of set, false when the set has
// no Referenced Image Sequence
func (s *Series) ReferencedImages(set int) ([]ReferencedImage, bool) {
	var (
		out []ReferencedImage
		ok  bool
	)
	_ = s.View(func(ds *dicom.DataSet) error {
		var seq *dicom.Sequence
		if seq, ok = dicom.ResolveSequence(ds, tag.ReferencedImageSequence, setAt(set)); ok {
			out = readReferencedImages(seq)
		}
		return nil
	})
	return out, ok
}

// SetReferencedImages replaces the Referenced Image Sequence of set; nil removes it
func (s *Series) SetReferencedImages(set int, images []ReferencedImage) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		if images == nil {
			if item, ok := dicom.Resolve(ds, setAt(set)); ok {
				item.Remove(tag.ReferencedImageSequence)
			}
			return nil
		}
		referencedImageSequence.Set(dicom.ResolveOrCreate(ds, setAt(set)), referencedImagesSequence(images))
		return nil
	})
}

// SetReferencedImage replaces referenced image i of set
func (s *Series) SetReferencedImage(set, i int, ri ReferencedImage) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		setItem(dicom.ResolveOrCreate(ds, setAt(set)), referencedImageSequence, i, referencedImageDataSet(ri))
		return nil
	})
}

// AppendReferencedImage adds ri at the end of the referenced images of set
func (s *Series) AppendReferencedImage(set int, ri ReferencedImage) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		referencedImageSequence.Append(dicom.ResolveOrCreate(ds, setAt(set)), referencedImageDataSet(ri))
		return nil
	})
}

// Fiducials decodes the fiducials of set
func (s *Series) Fiducials(set int) []Fiducial {
	return series.Get(s.Series, func(ds *dicom.DataSet) []Fiducial {
		var out []Fiducial
		for _, item := range fiducialSequence.Items(dicom.Lookup(ds, setAt(set))) {
			out = append(out, readFiducial(item))
		}
		return out
	})
}

// Fiducial decodes fiducial i of set
func (s *Series) Fiducial(set, i int) (Fiducial, bool) {
	var (
		out Fiducial
		ok  bool
	)
	_ = s.View(func(ds *dicom.DataSet) error {
		var item *dicom.DataSet
		if item, ok = dicom.Resolve(ds, setAt(set), fiducialAt(i)); ok {
			out = readFiducial(item)
		}
		return nil
	})
	return out, ok
}

// SetFiducials replaces the Fiducial Sequence of set
func (s *Series) SetFiducials(set int, fiducials []Fiducial) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		fiducialSequence.Set(dicom.ResolveOrCreate(ds, setAt(set)), fiducialsSequence(fiducials))
		return nil
	})
}

// SetFiducial replaces fiducial i of set, creating every missing level
func (s *Series) SetFiducial(set, i int, f Fiducial) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		setItem(dicom.ResolveOrCreate(ds, setAt(set)), fiducialSequence, i, fiducialDataSet(f))
		return nil
	})
}

// AppendFiducial adds f at the end of the fiducials of set
func (s *Series) AppendFiducial(set int, f Fiducial) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		fiducialSequence.Append(dicom.ResolveOrCreate(ds, setAt(set)), fiducialDataSet(f))
		return nil
	})
}

// GraphicCoordinatesDataSequence decodes the graphic coordinates of a fiducial,
// false when it has no Graphic Coordinates Data Sequence
func (s *Series) GraphicCoordinatesDataSequence(set, fiducial int) ([]GraphicCoordinatesData, bool) {
	var (
		out []GraphicCoordinatesData
		ok  bool
	)
	_ = s.View(func(ds *dicom.DataSet) error {
		var seq *dicom.Sequence
		if seq, ok = dicom.ResolveSequence(ds, tag.GraphicCoordinatesDataSequence, setAt(set), fiducialAt(fiducial)); ok {
			out = readGraphicCoordinatesDataSequence(seq)
		}
		return nil
	})
	return out, ok
}

// SetGraphicCoordinatesDataSequence replaces the graphic coordinates of a
// fiducial; nil removes them
func (s *Series) SetGraphicCoordinatesDataSequence(set, fiducial int, gcds []GraphicCoordinatesData) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		if gcds == nil {
			if item, ok := dicom.Resolve(ds, setAt(set), fiducialAt(fiducial)); ok {
				item.Remove(tag.GraphicCoordinatesDataSequence)
			}
			return nil
		}
		parent := dicom.ResolveOrCreate(ds, setAt(set), fiducialAt(fiducial))
		graphicCoordinatesDataSequence.Set(parent, graphicCoordinatesSequence(gcds))
		return nil
	})
}

// SetGraphicCoordinatesData replaces graphic coordinates entry i of a fiducial
func (s *Series) SetGraphicCoordinatesData(set, fiducial, i int, gcd GraphicCoordinatesData) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		parent := dicom.ResolveOrCreate(ds, setAt(set), fiducialAt(fiducial))
		setItem(parent, graphicCoordinatesDataSequence, i, graphicCoordinatesDataSet(gcd))
		return nil
	})
}

// AppendGraphicCoordinatesData adds gcd at the end of the graphic coordinates of a fiducial
func (s *Series) AppendGraphicCoordinatesData(set, fiducial int, gcd GraphicCoordinatesData) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		parent := dicom.ResolveOrCreate(ds, setAt(set), fiducialAt(fiducial))
		graphicCoordinatesDataSequence.Append(parent, graphicCoordinatesDataSet(gcd))
		return nil
	})
}
