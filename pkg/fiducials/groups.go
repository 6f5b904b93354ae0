package fiducials

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jpfielding/fiducials.go/pkg/dicom"
	"github.com/jpfielding/fiducials.go/pkg/series"
	"github.com/jpfielding/fiducials.go/pkg/util"
)

// findGroup returns the first fiducial set named group and its index, nil when
// there is none. Must be called with the series lock held.
func findGroup(ds *dicom.DataSet, group string) (*dicom.DataSet, int) {
	for i, set := range fiducialSetSequence.Items(ds) {
		if name, ok := dicom.PrivateValue(set, slotGroupName); ok && name == group {
			return set, i
		}
	}
	return nil, -1
}

// points returns the point fiducial items of a set in order
func points(set *dicom.DataSet) []*dicom.DataSet {
	var out []*dicom.DataSet
	for _, item := range fiducialSequence.Items(set) {
		if readShape(item) == ShapePoint {
			out = append(out, item)
		}
	}
	return out
}

// AddGroup appends a fiducial set of sphere landmarks named group
func (s *Series) AddGroup(group string, color Color, size float32) {
	shape := Sphere
	s.AppendFiducialSet(FiducialSet{
		GroupName: &group,
		Color:     &color,
		Size:      &size,
		Shape:     &shape,
	})
}

// AddPoint appends a point landmark at pos to the first set named group. The
// point is named after the group and the number of points that set already
// holds, and gets a fresh UID. It returns false when there is no such group.
func (s *Series) AddPoint(group string, pos Point3) bool {
	added := false
	_ = s.Update(func(ds *dicom.DataSet) error {
		set, _ := findGroup(ds, group)
		if set == nil {
			slog.Warn("cannot add point, the group does not exist", "group", group)
			return nil
		}
		name := fmt.Sprintf("%s_%d", group, len(points(set)))
		uid := util.NewUID()
		fiducialSequence.Append(set, fiducialDataSet(Fiducial{
			ShapeType:           ShapePoint,
			FiducialDescription: name,
			FiducialIdentifier:  name,
			FiducialUID:         &uid,
			ContourData:         []Point3{pos},
		}))
		added = true
		return nil
	})
	return added
}

// RemovePoint deletes point i of the first set named group and reports whether
// there was such a point. The set is kept even when it becomes empty.
func (s *Series) RemovePoint(group string, i int) bool {
	removed := false
	_ = s.Update(func(ds *dicom.DataSet) error {
		set, _ := findGroup(ds, group)
		if set == nil {
			return nil
		}
		pts := points(set)
		if i < 0 || i >= len(pts) {
			return nil
		}
		seq, _ := fiducialSequence.Sequence(set)
		for j, item := range seq.Items() {
			if item == pts[i] {
				removed = seq.RemoveAt(j)
				break
			}
		}
		return nil
	})
	return removed
}

// RemoveGroup deletes every fiducial set named group and returns how many went
func (s *Series) RemoveGroup(group string) int {
	removed := 0
	_ = s.Update(func(ds *dicom.DataSet) error {
		seq, ok := fiducialSetSequence.Sequence(ds)
		if !ok {
			return nil
		}
		for i := seq.Len() - 1; i >= 0; i-- {
			set, _ := seq.Item(i)
			if name, ok := dicom.PrivateValue(set, slotGroupName); ok && name == group {
				seq.RemoveAt(i)
				removed++
			}
		}
		return nil
	})
	return removed
}

// SetGroupNamesForPointFiducials names every unnamed set holding a point
// "Group_<n>", using the lowest n no set uses yet
func (s *Series) SetGroupNamesForPointFiducials() {
	_ = s.Update(func(ds *dicom.DataSet) error {
		sets := fiducialSetSequence.Items(ds)
		var taken []string
		for _, set := range sets {
			name, _ := dicom.PrivateValue(set, slotGroupName)
			taken = append(taken, name)
		}
		for _, set := range sets {
			if name, ok := dicom.PrivateValue(set, slotGroupName); ok && name != "" {
				continue
			}
			if len(points(set)) == 0 {
				continue
			}
			name := ""
			for n := 0; ; n++ {
				name = fmt.Sprintf("Group_%d", n)
				if !slices.Contains(taken, name) {
					break
				}
			}
			dicom.SetPrivateValue(set, slotGroupName, &name)
			taken = append(taken, name)
		}
		return nil
	})
}

// PointFiducialsGroupNames lists the names of the sets that hold points or no
// fiducials at all, in stored order
func (s *Series) PointFiducialsGroupNames() []string {
	return series.Get(s.Series, func(ds *dicom.DataSet) []string {
		var out []string
		for _, set := range fiducialSetSequence.Items(ds) {
			name, ok := dicom.PrivateValue(set, slotGroupName)
			if !ok {
				continue
			}
			if len(fiducialSequence.Items(set)) == 0 || len(points(set)) > 0 {
				out = append(out, name)
			}
		}
		return out
	})
}

// FiducialSetAndIndex decodes the first set named group, nil when there is none
func (s *Series) FiducialSetAndIndex(group string) (*FiducialSet, int, error) {
	var (
		out   *FiducialSet
		index = -1
	)
	err := s.View(func(ds *dicom.DataSet) error {
		set, i := findGroup(ds, group)
		if set == nil {
			return nil
		}
		fs, err := readFiducialSet(set)
		if err != nil {
			return fmt.Errorf("fiducial set %d: %w", i, err)
		}
		out, index = &fs, i
		return nil
	})
	return out, index, err
}

// Landmark defaults for the display fields a set leaves unset
var (
	DefaultLandmarkColor = Color{1, 1, 1, 1}
	DefaultLandmarkSize  = float32(10)
)

// Group reads the first set named group as landmarks. Unset fields default to
// DefaultLandmarkColor, DefaultLandmarkSize, Sphere and visible. Points without
// a position are left out. The bool is false when there is no such set.
func (s *Series) Group(group string) (*LandmarksGroup, bool, error) {
	fs, _, err := s.FiducialSetAndIndex(group)
	if err != nil || fs == nil {
		return nil, false, err
	}
	g := &LandmarksGroup{
		Color:   DefaultLandmarkColor,
		Size:    DefaultLandmarkSize,
		Shape:   Sphere,
		Visible: true,
	}
	if fs.Color != nil {
		g.Color = *fs.Color
	}
	if fs.Size != nil {
		g.Size = *fs.Size
	}
	if fs.Shape != nil {
		g.Shape = *fs.Shape
	}
	if fs.Visibility != nil {
		g.Visible = *fs.Visibility
	}
	for _, f := range fs.FiducialSequence {
		if p, ok := PointOf(f); ok {
			g.Points = append(g.Points, p)
		}
	}
	return g, true, nil
}

// NumberOfPointsInGroup counts the points of the first set named group
func (s *Series) NumberOfPointsInGroup(group string) (int, bool) {
	var (
		n  int
		ok bool
	)
	_ = s.View(func(ds *dicom.DataSet) error {
		set, _ := findGroup(ds, group)
		if set == nil {
			slog.Warn("group does not exist", "group", group)
			return nil
		}
		n, ok = len(points(set)), true
		return nil
	})
	return n, ok
}

// PointOf returns the first contour point of a point fiducial. Other shapes and
// points placed only through graphic coordinates have no position.
func PointOf(f Fiducial) (Point3, bool) {
	if f.ShapeType != ShapePoint || len(f.ContourData) == 0 {
		return Point3{}, false
	}
	return f.ContourData[0], true
}

// Point returns the position of point i of the first set named group
func (s *Series) Point(group string, i int) (Point3, bool) {
	var (
		p  Point3
		ok bool
	)
	_ = s.View(func(ds *dicom.DataSet) error {
		set, _ := findGroup(ds, group)
		pts := points(set)
		if i < 0 || i >= len(pts) {
			return nil
		}
		p, ok = PointOf(readFiducial(pts[i]))
		return nil
	})
	return p, ok
}
