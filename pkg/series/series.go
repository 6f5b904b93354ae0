// Package series guards the data sets of one DICOM series behind a single lock
// and exposes the addressing layer of package dicom through locked methods.
package series

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jpfielding/fiducials.go/pkg/dicom"
	"github.com/jpfielding/fiducials.go/pkg/util"
)

// Series owns the data sets of its instances. Instance 0 always exists and is the
// one every accessor addresses. All access goes through one mutex; unexported
// helpers that take the data set directly must be called with the lock held.
type Series struct {
	mu        sync.Mutex
	instances []*dicom.DataSet
	kind      Kind
}

// New wraps ds, which the series owns from now on. A nil ds starts an empty series.
func New(ds *dicom.DataSet) *Series {
	if ds == nil {
		ds = &dicom.DataSet{}
	}
	s := &Series{instances: []*dicom.DataSet{ds}}
	s.kind = s.deriveKind()
	return s
}

// NewWithSOPClass starts a series of the given SOP class, stamping fresh SOP
// instance and series instance UIDs, and the series date and time
func NewWithSOPClass(sopClass, modalityName string) *Series {
	ds := &dicom.DataSet{}
	sopClassUID.SetValue(ds, sopClass)
	sopInstanceUID.SetValue(ds, util.NewUID())
	now := time.Now()
	m := GeneralSeries{
		Modality:          modalityName,
		SeriesInstanceUID: util.NewUID(),
		SeriesDate:        NewDate(now),
		SeriesTime:        NewTime(now),
	}
	m.Apply(ds)
	return New(ds)
}

// ReadFile loads a Part 10 file into a series
func ReadFile(path string) (*Series, error) {
	ds, err := dicom.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return New(ds), nil
}

// Read loads a Part 10 stream into a series
func Read(r io.Reader) (*Series, error) {
	ds, err := dicom.Parse(r)
	if err != nil {
		return nil, err
	}
	return New(ds), nil
}

// WriteTo writes instance 0 as a Part 10 stream
func (s *Series) WriteTo(w io.Writer) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dicom.Write(w, s.dataSet())
}

// WriteFile writes instance 0 to a Part 10 file
func (s *Series) WriteFile(path string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	n, err := s.WriteTo(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// dataSet must be called with s.mu held
func (s *Series) dataSet() *dicom.DataSet {
	return s.instances[0]
}

// deriveKind must be called with s.mu held, or before s is shared
func (s *Series) deriveKind() Kind {
	uid, _ := sopClassUID.Value(s.dataSet())
	return KindOf(uid)
}

// Kind returns the kind derived from the SOP class UID
func (s *Series) Kind() Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kind
}

// View runs fn with the locked data set of instance 0. fn must not modify the
// data set nor call back into s.
func (s *Series) View(fn func(ds *dicom.DataSet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.dataSet())
}

// Update runs fn with the locked data set of instance 0. fn must not call back into s.
// The kind is derived again afterwards since fn may have changed the SOP class.
func (s *Series) Update(fn func(ds *dicom.DataSet) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.dataSet())
	s.kind = s.deriveKind()
	return err
}

// Get reads a value out of the locked data set of instance 0
func Get[T any](s *Series, fn func(ds *dicom.DataSet) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.dataSet())
}

// NumberOfInstances returns the number of instance data sets
func (s *Series) NumberOfInstances() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

// AddInstance appends the data set of another instance of the series; the
// series owns ds from now on
func (s *Series) AddInstance(ds *dicom.DataSet) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instances = append(s.instances, ds)
}

// Instance returns a deep copy of instance i
func (s *Series) Instance(i int) (*dicom.DataSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.instances) {
		return nil, fmt.Errorf("instance %d out of range [0,%d)", i, len(s.instances))
	}
	return dicom.Clone(s.instances[i])
}

// StringValue reads a as a string in the data set addressed by path
func (s *Series) StringValue(a dicom.Scalar, path ...dicom.Hop) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := dicom.Resolve(s.dataSet(), path...)
	if !ok {
		return "", false
	}
	return a.StringValue(ds)
}

// SetStringValue writes a from its string form, creating the data set addressed by path
func (s *Series) SetStringValue(a dicom.Scalar, value string, path ...dicom.Hop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return a.SetStringValue(dicom.ResolveOrCreate(s.dataSet(), path...), value)
}

// JoinedValues reads the values of a joined with a backslash
func (s *Series) JoinedValues(a dicom.Scalar, path ...dicom.Hop) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := dicom.Resolve(s.dataSet(), path...)
	if !ok {
		return ""
	}
	return dicom.JoinedValues(a, ds)
}

// SetJoinedValues splits value on backslashes and writes the parts to a
func (s *Series) SetJoinedValues(a dicom.Scalar, value string, path ...dicom.Hop) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dicom.SetJoinedValues(a, dicom.ResolveOrCreate(s.dataSet(), path...), value)
}

// PrivateValue reads a private slot in the data set addressed by path
func (s *Series) PrivateValue(slot uint8, path ...dicom.Hop) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := dicom.Resolve(s.dataSet(), path...)
	if !ok {
		return "", false
	}
	return dicom.PrivateValue(ds, slot)
}

// SetPrivateValue writes a private slot; nil removes it
func (s *Series) SetPrivateValue(slot uint8, value *string, path ...dicom.Hop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == nil {
		if ds, ok := dicom.Resolve(s.dataSet(), path...); ok {
			dicom.SetPrivateValue(ds, slot, nil)
		}
		return
	}
	dicom.SetPrivateValue(dicom.ResolveOrCreate(s.dataSet(), path...), slot, value)
}

// FramePrivateValue reads a private value of a functional group
func (s *Series) FramePrivateValue(g dicom.FrameGroup, seqSlot, valueSlot uint8) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dicom.FramePrivateValue(s.dataSet(), g, seqSlot, valueSlot)
}

// SetFramePrivateValue writes a private value of a functional group
func (s *Series) SetFramePrivateValue(g dicom.FrameGroup, seqSlot, valueSlot uint8, value *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dicom.SetFramePrivateValue(s.dataSet(), g, seqSlot, valueSlot, value)
}

// FrameStringValue reads a from the attribute sequence seqTag of a functional group
func (s *Series) FrameStringValue(g dicom.FrameGroup, seqTag dicom.Tag, a dicom.Scalar) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item := dicom.FrameItem(s.dataSet(), g, seqTag)
	if item == nil {
		return "", false
	}
	return a.StringValue(item)
}

// SetFrameStringValue writes a into the attribute sequence seqTag of a functional
// group, creating every missing level
func (s *Series) SetFrameStringValue(g dicom.FrameGroup, seqTag dicom.Tag, a dicom.Scalar, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return a.SetStringValue(dicom.FrameItemOrCreate(s.dataSet(), g, seqTag), value)
}

// NumberOfFrames returns the frame count attribute
func (s *Series) NumberOfFrames() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dicom.NumberOfFrames.Value(s.dataSet())
}

// ShrinkFrames truncates the per-frame functional groups to n frames
func (s *Series) ShrinkFrames(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dicom.ShrinkFrames(s.dataSet(), n)
}

// SOPClassUID returns the SOP class UID
func (s *Series) SOPClassUID() string {
	return Get(s, func(ds *dicom.DataSet) string {
		v, _ := sopClassUID.Value(ds)
		return v
	})
}

// SetSOPClassUID writes the SOP class UID and derives the kind again
func (s *Series) SetSOPClassUID(uid string) {
	_ = s.Update(func(ds *dicom.DataSet) error {
		sopClassUID.SetValue(ds, uid)
		return nil
	})
}

// SOPInstanceUID returns the SOP instance UID
func (s *Series) SOPInstanceUID() string {
	return Get(s, func(ds *dicom.DataSet) string {
		v, _ := sopInstanceUID.Value(ds)
		return v
	})
}

// SetSOPInstanceUID writes the SOP instance UID
func (s *Series) SetSOPInstanceUID(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sopInstanceUID.SetValue(s.dataSet(), uid)
}

// Modality returns the modality
func (s *Series) Modality() string {
	return s.GeneralSeries().Modality
}

// SeriesInstanceUID returns the series instance UID
func (s *Series) SeriesInstanceUID() string {
	return s.GeneralSeries().SeriesInstanceUID
}

// SeriesDescription returns the series description
func (s *Series) SeriesDescription() string {
	return s.GeneralSeries().SeriesDescription
}

// SetSeriesDescription writes the series description; "" clears it
func (s *Series) SetSeriesDescription(description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if description == "" {
		seriesDescription.Clear(s.dataSet())
		return
	}
	seriesDescription.SetValue(s.dataSet(), description)
}

// GeneralSeries reads the General Series module
func (s *Series) GeneralSeries() GeneralSeries {
	return Get(s, readGeneralSeries)
}

// SetGeneralSeries writes the non zero fields of m
func (s *Series) SetGeneralSeries(m GeneralSeries) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.Apply(s.dataSet())
}

// Equal compares every instance of both series structurally
func (s *Series) Equal(other *Series) bool {
	if s == other {
		return true
	}
	if other == nil {
		return false
	}
	other.mu.Lock()
	theirs := make([]*dicom.DataSet, 0, len(other.instances))
	for _, ds := range other.instances {
		c, err := dicom.Clone(ds)
		if err != nil {
			other.mu.Unlock()
			slog.Warn("failed to copy series for comparison", "error", err)
			return false
		}
		theirs = append(theirs, c)
	}
	other.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.instances) != len(theirs) {
		return false
	}
	for i, ds := range s.instances {
		if !dicom.Equal(ds, theirs[i]) {
			return false
		}
	}
	return true
}

// Clone deep copies every instance by encoding and decoding it
func (s *Series) Clone() (*Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := &Series{kind: s.kind, instances: make([]*dicom.DataSet, 0, len(s.instances))}
	for i, ds := range s.instances {
		c, err := dicom.Clone(ds)
		if err != nil {
			return nil, fmt.Errorf("failed to copy instance %d: %w", i, err)
		}
		out.instances = append(out.instances, c)
	}
	return out, nil
}

// Fingerprint hashes instance 0
func (s *Series) Fingerprint() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return dicom.Fingerprint(s.dataSet())
}

func (s *Series) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataSet().String()
}
