package fiducials

import (
	"fmt"
	"slices"

	"github.com/jpfielding/fiducials.go/pkg/dicom"
)

// Predicate selects fiducials. It runs while the series is locked and must not
// call back into the series. In ModifyFiducials and AddFiducial it may change r,
// and the changes are written back.
type Predicate func(r *QueryResult) bool

type queryOptions struct {
	predicate  Predicate
	shape      *Shape
	group      *string
	shapeIndex *int
}

// QueryOption narrows QueryFiducials, ModifyFiducials and RemoveFiducials
type QueryOption func(*queryOptions)

// WithPredicate keeps the fiducials p accepts
func WithPredicate(p Predicate) QueryOption {
	return func(o *queryOptions) { o.predicate = p }
}

// WithShape keeps the fiducials of one shape. ShapeInvalid matches nothing.
func WithShape(s Shape) QueryOption {
	return func(o *queryOptions) { o.shape = &s }
}

// WithGroup keeps the fiducial sets named group
func WithGroup(group string) QueryOption {
	return func(o *queryOptions) { o.group = &group }
}

// WithShapeIndex keeps the fiducial ranked i among those of its shape, and
// stops the scan at the first fiducial with that rank
func WithShapeIndex(i int) QueryOption {
	return func(o *queryOptions) { o.shapeIndex = &i }
}

// match is a selected fiducial, the items it was read from and the result as
// it was before the predicate saw it
type match struct {
	result   QueryResult
	before   QueryResult
	set      *dicom.DataSet
	fiducial *dicom.DataSet
}

func newResult(set, fiducial, shapeIndex int, level setLevel, group *string, shape Shape, item *dicom.DataSet) QueryResult {
	r := QueryResult{
		FiducialSetIndex:    set,
		FiducialIndex:       fiducial,
		ShapeIndex:          shapeIndex,
		FrameOfReferenceUID: clonePtr(level.frameOfReferenceUID),
		GroupName:           clonePtr(group),
		Visible:             clonePtr(level.visible),
		Size:                clonePtr(level.size),
		PrivateShape:        clonePtr(level.shape),
		Color:               clonePtr(level.color),
		Shape:               shape,
		FiducialDescription: optional(fiducialDescription, item),
		FiducialIdentifier:  optional(fiducialIdentifier, item),
		FiducialUID:         optional(fiducialUID, item),
	}
	r.ContourData, _ = contourData.Values(item)
	gcd := dicom.Lookup(item, graphicAt(0))
	r.GraphicData, _ = graphicData.Values(gcd)
	r.ReferencedFrameNumber, _ = referencedFrameNumber.Values(dicom.Lookup(gcd, imageAt(0)))
	return r
}

// scan selects fiducials in stored order without changing ds. Indices are those
// of the data set as passed in. Shape ranks restart with every set and advance
// for each fiducial passing the shape filter, whether or not the predicate
// accepts it. scan must be called with the series lock held.
func scan(ds *dicom.DataSet, o queryOptions) ([]match, error) {
	var out []match
	for i, set := range fiducialSetSequence.Items(ds) {
		if set.IsEmpty() {
			continue
		}
		var group *string
		if v, ok := dicom.PrivateValue(set, slotGroupName); ok {
			group = &v
		}
		if o.group != nil && (group == nil || *group != *o.group) {
			continue
		}
		items := fiducialSequence.Items(set)
		if len(items) == 0 {
			continue
		}
		level, err := readSetLevel(set)
		if err != nil {
			return nil, fmt.Errorf("fiducial set %d: %w", i, err)
		}

		ranks := map[Shape]int{}
		for j, item := range items {
			if item.IsEmpty() {
				continue
			}
			shape := readShape(item)
			if o.shape != nil && (shape == ShapeInvalid || shape != *o.shape) {
				continue
			}
			rank := ranks[shape]
			ranks[shape]++

			r := newResult(i, j, rank, level, group, shape, item)
			before := r.clone()
			if (o.shapeIndex == nil || rank == *o.shapeIndex) && (o.predicate == nil || o.predicate(&r)) {
				out = append(out, match{result: r, before: before, set: set, fiducial: item})
			}
			if o.shapeIndex != nil && rank == *o.shapeIndex {
				return out, nil
			}
		}
	}
	return out, nil
}

func results(matches []match) []QueryResult {
	out := make([]QueryResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.result)
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// clone copies r deeply, so edits made through the pointers and slices of one
// copy do not show in the other
func (r QueryResult) clone() QueryResult {
	c := r
	c.FrameOfReferenceUID = clonePtr(r.FrameOfReferenceUID)
	c.ReferencedFrameNumber = slices.Clone(r.ReferencedFrameNumber)
	c.GroupName = clonePtr(r.GroupName)
	c.Visible = clonePtr(r.Visible)
	c.Size = clonePtr(r.Size)
	c.PrivateShape = clonePtr(r.PrivateShape)
	c.Color = clonePtr(r.Color)
	c.ContourData = slices.Clone(r.ContourData)
	c.GraphicData = slices.Clone(r.GraphicData)
	c.FiducialDescription = clonePtr(r.FiducialDescription)
	c.FiducialIdentifier = clonePtr(r.FiducialIdentifier)
	c.FiducialUID = clonePtr(r.FiducialUID)
	return c
}

// changed returns after when it holds a value that before does not, nil otherwise
func changed[T comparable](after, before *T) *T {
	if after == nil || (before != nil && *after == *before) {
		return nil
	}
	return after
}

// writeBack stores the fields of r that differ from before into the set and
// fiducial items. Untouched fields are left as stored, so an edit made through
// one result survives the write back of a later result of the same set.
func writeBack(r, before *QueryResult, set, fiducial *dicom.DataSet) {
	setLevel{
		frameOfReferenceUID: changed(r.FrameOfReferenceUID, before.FrameOfReferenceUID),
		groupName:           changed(r.GroupName, before.GroupName),
		color:               changed(r.Color, before.Color),
		size:                changed(r.Size, before.Size),
		shape:               changed(r.PrivateShape, before.PrivateShape),
		visible:             changed(r.Visible, before.Visible),
	}.apply(set)

	if r.Shape != ShapeInvalid && r.Shape != before.Shape {
		setShape(fiducial, r.Shape)
	}
	if v := changed(r.FiducialDescription, before.FiducialDescription); v != nil {
		fiducialDescription.SetValue(fiducial, *v)
	}
	if v := changed(r.FiducialIdentifier, before.FiducialIdentifier); v != nil {
		fiducialIdentifier.SetValue(fiducial, *v)
	}
	if v := changed(r.FiducialUID, before.FiducialUID); v != nil {
		fiducialUID.SetValue(fiducial, *v)
	}
	if r.ContourData != nil && !slices.Equal(r.ContourData, before.ContourData) {
		setContour(fiducial, r.ContourData)
	}
}

// remove deletes the matched fiducials, then every set they left empty. It
// returns the sorted, distinct names of the removed sets. remove must be called
// with the series lock held.
func remove(ds *dicom.DataSet, matches []match) []string {
	seq, ok := fiducialSetSequence.Sequence(ds)
	if !ok {
		return nil
	}
	// matches come in scan order: sets ascending, fiducials ascending within a set
	var emptied []int
	var names []string
	for start := 0; start < len(matches); {
		end := start
		for end < len(matches) && matches[end].set == matches[start].set {
			end++
		}
		set := matches[start].set
		inner, _ := fiducialSequence.Sequence(set)
		for k := end - 1; k >= start; k-- {
			inner.RemoveAt(matches[k].result.FiducialIndex)
		}
		if inner.Len() == 0 {
			emptied = append(emptied, matches[start].result.FiducialSetIndex)
			if name, ok := dicom.PrivateValue(set, slotGroupName); ok {
				names = append(names, name)
			}
		}
		start = end
	}
	for k := len(emptied) - 1; k >= 0; k-- {
		seq.RemoveAt(emptied[k])
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// QueryFiducials returns the selected fiducials in stored order
func (s *Series) QueryFiducials(opts ...QueryOption) ([]QueryResult, error) {
	o := newQueryOptions(opts)
	var out []QueryResult
	err := s.View(func(ds *dicom.DataSet) error {
		matches, err := scan(ds, o)
		if err != nil {
			return err
		}
		out = results(matches)
		return nil
	})
	return out, err
}

// ModifyFiducials selects fiducials, letting the predicate edit each result,
// then writes back the fields each edit changed. Nothing is written when the
// scan fails.
func (s *Series) ModifyFiducials(opts ...QueryOption) ([]QueryResult, error) {
	o := newQueryOptions(opts)
	var out []QueryResult
	err := s.Update(func(ds *dicom.DataSet) error {
		matches, err := scan(ds, o)
		if err != nil {
			return err
		}
		for i := range matches {
			writeBack(&matches[i].result, &matches[i].before, matches[i].set, matches[i].fiducial)
		}
		out = results(matches)
		return nil
	})
	return out, err
}

// RemoveFiducials deletes the selected fiducials and any fiducial set left
// without fiducials. It returns the removed fiducials, with the indices they had
// before the call, and the group names of the removed sets.
func (s *Series) RemoveFiducials(opts ...QueryOption) ([]QueryResult, []string, error) {
	o := newQueryOptions(opts)
	var (
		out     []QueryResult
		removed []string
	)
	err := s.Update(func(ds *dicom.DataSet) error {
		matches, err := scan(ds, o)
		if err != nil {
			return err
		}
		removed = remove(ds, matches)
		out = results(matches)
		return nil
	})
	return out, removed, err
}

func newQueryOptions(opts []QueryOption) queryOptions {
	var o queryOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// AddFiducial appends a fiducial of shape to the first set named group, creating
// that set when there is none. The new fiducial is handed to predicate; when it
// returns true the result, with any edits, is written back and returned. The
// bool reports whether a set was created. A nil predicate, ShapeInvalid or an
// empty group panics.
func (s *Series) AddFiducial(predicate Predicate, shape Shape, group string) (*QueryResult, bool, error) {
	if predicate == nil {
		panic("fiducials: AddFiducial needs a predicate")
	}
	if shape == ShapeInvalid {
		panic("fiducials: AddFiducial needs a valid shape")
	}
	if group == "" {
		panic("fiducials: AddFiducial needs a group name")
	}

	var (
		out     *QueryResult
		created bool
	)
	err := s.Update(func(ds *dicom.DataSet) error {
		seq := fiducialSetSequence.OrCreate(ds)
		r := QueryResult{GroupName: &group, Shape: shape}

		set, index := findGroup(ds, group)
		if set != nil {
			level, err := readSetLevel(set)
			if err != nil {
				return fmt.Errorf("fiducial set %d: %w", index, err)
			}
			r.FrameOfReferenceUID = level.frameOfReferenceUID
			r.Visible = level.visible
			r.Size = level.size
			r.PrivateShape = level.shape
			r.Color = level.color
		} else {
			set = fiducialSetDataSet(FiducialSet{GroupName: &group})
			seq.Append(set)
			index = seq.Len() - 1
			created = true
		}
		r.FiducialSetIndex = index

		fiducial := fiducialDataSet(Fiducial{ShapeType: shape})
		fiducialSequence.Append(set, fiducial)

		// rank by counting every fiducial of the shape, the new one included
		items := fiducialSequence.Items(set)
		count := 0
		for _, item := range items {
			if readShape(item) == shape {
				count++
			}
		}
		r.FiducialIndex = len(items) - 1
		r.ShapeIndex = count - 1

		before := r.clone()
		if predicate(&r) {
			writeBack(&r, &before, set, fiducial)
			out = &r
		}
		return nil
	})
	return out, created, err
}
