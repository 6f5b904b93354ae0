package fiducials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeries_Landmarks(t *testing.T) {
	s := New()
	s.AddGroup("Landmarks", Color{1, 0, 0, 1}, 5)
	require.True(t, s.AddPoint("Landmarks", Point3{X: 1, Y: 2, Z: 3}))
	require.True(t, s.AddPoint("Landmarks", Point3{X: 1, Y: 2, Z: 3}))

	sets, err := s.FiducialSets()
	require.NoError(t, err)
	require.Len(t, sets, 1)
	fiducials := s.Fiducials(0)
	require.Len(t, fiducials, 2)
	for i, f := range fiducials {
		assert.Equal(t, ShapePoint, f.ShapeType)
		require.NotNil(t, f.FiducialUID)
		assert.True(t, strings.HasPrefix(*f.FiducialUID, "2.25."))
		assert.Equal(t, []string{"Landmarks_0", "Landmarks_1"}[i], f.FiducialIdentifier)
		assert.Equal(t, f.FiducialIdentifier, f.FiducialDescription)
	}
	assert.NotEqual(t, *fiducials[0].FiducialUID, *fiducials[1].FiducialUID)

	for i := range 2 {
		p, ok := s.Point("Landmarks", i)
		require.True(t, ok)
		assert.Equal(t, Point3{X: 1, Y: 2, Z: 3}, p)
	}
	_, ok := s.Point("Landmarks", 2)
	assert.False(t, ok)
	_, ok = s.Point("Other", 0)
	assert.False(t, ok)

	fs, index, err := s.FiducialSetAndIndex("Landmarks")
	require.NoError(t, err)
	require.NotNil(t, fs)
	assert.Equal(t, 0, index)
	assert.Equal(t, Color{1, 0, 0, 1}, *fs.Color)
	assert.Equal(t, float32(5), *fs.Size)
	assert.Equal(t, Sphere, *fs.Shape)
	assert.Nil(t, fs.Visibility)

	n, ok := s.NumberOfPointsInGroup("Landmarks")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}

func TestSeries_AddPointMissingGroup(t *testing.T) {
	s := New()
	s.AddGroup("A", Color{1, 1, 1, 1}, 1)

	assert.False(t, s.AddPoint("B", Point3{}))
	n, ok := s.NumberOfPointsInGroup("B")
	assert.False(t, ok)
	assert.Zero(t, n)

	fs, index, err := s.FiducialSetAndIndex("B")
	require.NoError(t, err)
	assert.Nil(t, fs)
	assert.Equal(t, -1, index)
}

func TestSeries_AddPointNamesAfterTargetSet(t *testing.T) {
	s := New()
	s.AppendFiducialSet(FiducialSet{GroupName: ptr("A"), FiducialSequence: shapes(ShapePoint, ShapeLine)})
	s.AppendFiducialSet(FiducialSet{GroupName: ptr("A"), FiducialSequence: shapes(ShapePoint, ShapePoint)})

	require.True(t, s.AddPoint("A", Point3{X: 9}))

	fiducials := s.Fiducials(0)
	require.Len(t, fiducials, 3)
	assert.Equal(t, "A_1", fiducials[2].FiducialIdentifier)
	assert.Len(t, s.Fiducials(1), 2)

	// only the first set counts here
	n, ok := s.NumberOfPointsInGroup("A")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	p, ok := s.Point("A", 1)
	assert.True(t, ok)
	assert.Equal(t, Point3{X: 9}, p)
}

func TestSeries_RemovePoint(t *testing.T) {
	s := New()
	s.AddGroup("A", Color{1, 1, 1, 1}, 1)
	s.AppendFiducial(0, lineFiducial())
	s.AddPoint("A", Point3{X: 1})
	s.AddPoint("A", Point3{X: 2})

	assert.False(t, s.RemovePoint("A", 2))
	assert.False(t, s.RemovePoint("A", -1))
	assert.False(t, s.RemovePoint("B", 0))

	require.True(t, s.RemovePoint("A", 0))
	p, ok := s.Point("A", 0)
	require.True(t, ok)
	assert.Equal(t, Point3{X: 2}, p)
	fiducials := s.Fiducials(0)
	require.Len(t, fiducials, 2)
	assert.Equal(t, ShapeLine, fiducials[0].ShapeType)
	assert.Equal(t, "A_1", fiducials[1].FiducialIdentifier)

	require.True(t, s.RemovePoint("A", 0))
	n, ok := s.NumberOfPointsInGroup("A")
	assert.True(t, ok)
	assert.Zero(t, n)

	// the set stays even when nothing is left in it
	s.SetFiducials(0, nil)
	_, index, err := s.FiducialSetAndIndex("A")
	require.NoError(t, err)
	assert.Equal(t, 0, index)
}

func TestSeries_RemoveGroup(t *testing.T) {
	s := New()
	s.AddGroup("A", Color{1, 1, 1, 1}, 1)
	s.AddGroup("B", Color{1, 1, 1, 1}, 1)
	s.AddGroup("A", Color{0, 0, 0, 1}, 2)

	assert.Equal(t, 2, s.RemoveGroup("A"))
	assert.Equal(t, 0, s.RemoveGroup("A"))

	sets, err := s.FiducialSets()
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.Equal(t, "B", *sets[0].GroupName)
}

func TestSeries_SetGroupNamesForPointFiducials(t *testing.T) {
	s := New()
	s.AppendFiducialSet(FiducialSet{FiducialSequence: shapes(ShapePoint)})
	s.AppendFiducialSet(FiducialSet{GroupName: ptr("Group_0"), FiducialSequence: shapes(ShapePoint)})
	s.AppendFiducialSet(FiducialSet{FiducialSequence: shapes(ShapeLine)})
	s.AppendFiducialSet(FiducialSet{GroupName: ptr(""), FiducialSequence: shapes(ShapeLine, ShapePoint)})

	s.SetGroupNamesForPointFiducials()

	name, ok := s.GroupName(0)
	assert.True(t, ok)
	assert.Equal(t, "Group_1", name)
	name, _ = s.GroupName(1)
	assert.Equal(t, "Group_0", name)
	_, ok = s.GroupName(2)
	assert.False(t, ok)
	name, _ = s.GroupName(3)
	assert.Equal(t, "Group_2", name)

	before := s.Fingerprint()
	s.SetGroupNamesForPointFiducials()
	assert.Equal(t, before, s.Fingerprint())
}

func TestSeries_PointFiducialsGroupNames(t *testing.T) {
	s := New()
	s.AppendFiducialSet(FiducialSet{GroupName: ptr("A"), FiducialSequence: shapes(ShapeLine, ShapePoint)})
	s.AppendFiducialSet(FiducialSet{GroupName: ptr("B"), FiducialSequence: shapes(ShapeLine)})
	s.AppendFiducialSet(FiducialSet{GroupName: ptr("C")})
	s.AppendFiducialSet(FiducialSet{FiducialSequence: shapes(ShapePoint)})

	assert.Equal(t, []string{"A", "C"}, s.PointFiducialsGroupNames())
	assert.Empty(t, New().PointFiducialsGroupNames())
}

func TestPointOf(t *testing.T) {
	p, ok := PointOf(pointFiducial("p", Point3{X: 1, Y: 2, Z: 3}))
	assert.True(t, ok)
	assert.Equal(t, Point3{X: 1, Y: 2, Z: 3}, p)

	_, ok = PointOf(lineFiducial())
	assert.False(t, ok)
	_, ok = PointOf(Fiducial{ShapeType: ShapePoint})
	assert.False(t, ok)
}

func TestSeries_Group(t *testing.T) {
	s := New()
	s.AppendFiducialSet(FiducialSet{GroupName: ptr("Bare"), FiducialSequence: []Fiducial{
		pointFiducial("p0", Point3{X: 1}),
		lineFiducial(),
		{ShapeType: ShapePoint, FiducialIdentifier: "unplaced"},
		pointFiducial("p1", Point3{Y: 2}),
	}})
	s.AddGroup("Styled", Color{0, 1, 0, 1}, 3)
	s.SetPrivateShape(1, Cube)
	s.SetVisibility(1, false)

	g, ok, err := s.Group("Bare")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, &LandmarksGroup{
		Color:   Color{1, 1, 1, 1},
		Size:    10,
		Shape:   Sphere,
		Visible: true,
		Points:  []Point3{{X: 1}, {Y: 2}},
	}, g)

	g, ok, err = s.Group("Styled")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Color{0, 1, 0, 1}, g.Color)
	assert.Equal(t, float32(3), g.Size)
	assert.Equal(t, Cube, g.Shape)
	assert.False(t, g.Visible)
	assert.Empty(t, g.Points)

	g, ok, err = s.Group("Missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, g)
}
