package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpfielding/fiducials.go/pkg/fiducials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(context.Background(), "abc123")
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fiducialctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log:
  level: debug
  json: true
  file:
    filename: /tmp/fiducialctl.log
    max_size: 10
defaults:
  color: [0, 1, 0, 1]
  size: 4
workers: 3
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.JSON)
	require.NotNil(t, cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.File.MaxSize)
	assert.Equal(t, fiducials.Color{0, 1, 0, 1}, cfg.Defaults.color())
	assert.Equal(t, float32(4), cfg.Defaults.Size)
	assert.Equal(t, 3, cfg.Workers)

	require.NoError(t, os.WriteFile(path, []byte("defaults:\n  color: [1, 1]\n"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestRoot_Version(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "abc123\n", out)
}

func TestRoot_EditAndQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landmarks.dcm")

	_, err := run(t, "add-group", path, "--name", "Landmarks", "--color", "1,0,0,1", "--size", "5")
	require.NoError(t, err)
	_, err = run(t, "add-point", path, "--group", "Landmarks", "--at", "1,2,3")
	require.NoError(t, err)
	_, err = run(t, "add-point", path, "--group", "Landmarks", "--at", "4,5,6")
	require.NoError(t, err)
	_, err = run(t, "add-point", path, "--group", "Missing", "--at", "4,5,6")
	assert.Error(t, err)

	out, err := run(t, "query", path, "--group", "Landmarks", "--shape", "POINT", "--format", "json")
	require.NoError(t, err)
	var results []fiducials.QueryResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.Equal(t, fiducials.ShapePoint, results[1].Shape)
	assert.Equal(t, 1, results[1].ShapeIndex)
	assert.Equal(t, []float64{4, 5, 6}, results[1].ContourData)

	out, err = run(t, "query", path, "--shape-index", "0")
	require.NoError(t, err)
	assert.Contains(t, out, `"Landmarks_0"`)
	assert.NotContains(t, out, `"Landmarks_1"`)

	_, err = run(t, "query", path, "--shape", "CIRCLE")
	assert.Error(t, err)

	_, err = run(t, "remove-point", path, "--group", "Landmarks", "--index", "0")
	require.NoError(t, err)
	s, err := fiducials.ReadFile(path)
	require.NoError(t, err)
	p, ok := s.Point("Landmarks", 0)
	require.True(t, ok)
	assert.Equal(t, fiducials.Point3{X: 4, Y: 5, Z: 6}, p)

	out, err = run(t, "query", path, "--remove", "--format", "yaml")
	require.NoError(t, err)
	var removed []fiducials.QueryResult
	require.NoError(t, yaml.Unmarshal([]byte(out), &removed))
	assert.Len(t, removed, 1)
	s, err = fiducials.ReadFile(path)
	require.NoError(t, err)
	sets, err := s.FiducialSets()
	require.NoError(t, err)
	assert.Empty(t, sets)
}

func TestRoot_RemoveAndNameGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "groups.dcm")
	s := fiducials.New()
	s.AppendFiducialSet(fiducials.FiducialSet{FiducialSequence: []fiducials.Fiducial{{ShapeType: fiducials.ShapePoint}}})
	s.AddGroup("Old", fiducials.Color{1, 1, 1, 1}, 1)
	_, err := s.WriteFile(path)
	require.NoError(t, err)

	out, err := run(t, "name-groups", path)
	require.NoError(t, err)
	assert.Equal(t, "Group_0\nOld\n", out)

	_, err = run(t, "remove-group", path, "--group", "Old")
	require.NoError(t, err)
	_, err = run(t, "remove-group", path, "--group", "Old")
	assert.Error(t, err)

	edited, err := fiducials.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Group_0"}, edited.PointFiducialsGroupNames())
}

func TestRoot_Inspect(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a", "b", "c"} {
		s := fiducials.New()
		s.AddGroup(name, fiducials.Color{0, 0, 1, 1}, 2)
		s.AddPoint(name, fiducials.Point3{X: 1})
		path := filepath.Join(dir, name+".dcm")
		_, err := s.WriteFile(path)
		require.NoError(t, err)
		paths = append(paths, path)
	}

	out, err := run(t, append([]string{"inspect", "--workers", "2", "--format", "json"}, paths...)...)
	require.NoError(t, err)
	var reports []Report
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 3)
	for i, r := range reports {
		assert.Equal(t, paths[i], r.File)
		assert.Equal(t, "fiducials", r.Kind)
		assert.Len(t, r.Fingerprint, 16)
		require.Len(t, r.FiducialSets, 1)
		assert.Equal(t, filepath.Base(strings.TrimSuffix(r.File, ".dcm")), *r.FiducialSets[0].GroupName)
	}

	out, err = run(t, "inspect", paths[0])
	require.NoError(t, err)
	assert.Contains(t, out, `set 0 "a": 1 fiducials color=0,0,1,1`)
	assert.Contains(t, out, `0 POINT "a_0" at (1, 0, 0)`)

	_, err = run(t, "inspect", filepath.Join(dir, "missing.dcm"))
	assert.Error(t, err)
}

func TestRoot_Convert(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.dcm")
	s := fiducials.New()
	s.AddGroup("A", fiducials.Color{1, 1, 1, 1}, 1)
	_, err := s.WriteFile(in)
	require.NoError(t, err)

	out := filepath.Join(dir, "out.dcm")
	_, err = run(t, "convert", in, out)
	require.NoError(t, err)

	converted, err := fiducials.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, s.SOPInstanceUID(), converted.SOPInstanceUID())
	n, ok := converted.NumberOfPointsInGroup("A")
	assert.True(t, ok)
	assert.Zero(t, n)
}

func TestRoot_ConvertAssignsInstanceUID(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.dcm")
	s := fiducials.New()
	s.SetSOPInstanceUID("")
	_, err := s.WriteFile(in)
	require.NoError(t, err)

	var uids []string
	for _, name := range []string{"a.dcm", "b.dcm"} {
		out := filepath.Join(dir, name)
		_, err = run(t, "convert", in, out)
		require.NoError(t, err)
		converted, err := fiducials.ReadFile(out)
		require.NoError(t, err)
		uids = append(uids, converted.SOPInstanceUID())
	}
	assert.True(t, strings.HasPrefix(uids[0], "2.25."))
	assert.Equal(t, uids[0], uids[1])
}
