// Package dicom is an addressable in-memory DICOM data set: a tag ordered element
// store with nested sequences, typed attribute accessors, a private tag overlay and
// multi-frame functional group addressing.
package dicom

import (
	"strings"

	"github.com/google/btree"
	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// Tag is re-exported for convenience
type Tag = tag.Tag

// Element is a single data element. Scalar values are held as their encoded
// little endian bytes (padding included), sequences hold their items in Seq.
// A zero length Bytes (or a Seq without items) is an explicit empty value,
// distinct from the tag being absent from the DataSet.
type Element struct {
	Tag   Tag
	VR    vr.VR
	Bytes []byte
	Seq   *Sequence
}

// IsSequence reports whether the element holds items rather than bytes
func (e *Element) IsSequence() bool {
	return e.Seq != nil || e.VR == vr.SQ
}

// IsEmpty reports whether the element carries no value
func (e *Element) IsEmpty() bool {
	if e.IsSequence() {
		return e.Seq == nil || e.Seq.Len() == 0
	}
	return len(e.Bytes) == 0
}

// GetString returns the value as text with DICOM padding removed
func (e *Element) GetString() (string, bool) {
	if e == nil || e.IsSequence() {
		return "", false
	}
	return vr.Trim(string(e.Bytes)), true
}

// GetStrings splits a multi-valued string on the backslash delimiter. Consecutive
// delimiters produce empty values.
func (e *Element) GetStrings() ([]string, bool) {
	s, ok := e.GetString()
	if !ok || s == "" {
		return nil, ok
	}
	parts := strings.Split(s, vr.Separator)
	for i := range parts {
		parts[i] = vr.Trim(parts[i])
	}
	return parts, true
}

const degree = 8

func byTag(a, b *Element) bool {
	return a.Tag.Less(b.Tag)
}

// DataSet maps tags to elements, ordered by tag. The zero value is an empty data set.
type DataSet struct {
	elements *btree.BTreeG[*Element]
}

func (ds *DataSet) tree() *btree.BTreeG[*Element] {
	if ds.elements == nil {
		ds.elements = btree.NewG(degree, byTag)
	}
	return ds.elements
}

// Get returns the element stored at t
func (ds *DataSet) Get(t Tag) (*Element, bool) {
	if ds == nil || ds.elements == nil {
		return nil, false
	}
	return ds.elements.Get(&Element{Tag: t})
}

// Has reports whether t is present, empty or not
func (ds *DataSet) Has(t Tag) bool {
	_, ok := ds.Get(t)
	return ok
}

// Replace stores e, overwriting any element with the same tag
func (ds *DataSet) Replace(e *Element) {
	ds.tree().ReplaceOrInsert(e)
}

// Insert stores e only when its tag is absent and reports whether it did
func (ds *DataSet) Insert(e *Element) bool {
	if ds.Has(e.Tag) {
		return false
	}
	ds.tree().ReplaceOrInsert(e)
	return true
}

// Remove deletes the element at t
func (ds *DataSet) Remove(t Tag) (*Element, bool) {
	if ds == nil || ds.elements == nil {
		return nil, false
	}
	return ds.elements.Delete(&Element{Tag: t})
}

// Len returns the number of elements
func (ds *DataSet) Len() int {
	if ds == nil || ds.elements == nil {
		return 0
	}
	return ds.elements.Len()
}

// IsEmpty reports whether the data set has no elements
func (ds *DataSet) IsEmpty() bool {
	return ds.Len() == 0
}

// Ascend calls fn for each element in tag order until fn returns false
func (ds *DataSet) Ascend(fn func(*Element) bool) {
	if ds == nil || ds.elements == nil {
		return
	}
	ds.elements.Ascend(fn)
}

// Elements returns the elements in tag order
func (ds *DataSet) Elements() []*Element {
	out := make([]*Element, 0, ds.Len())
	ds.Ascend(func(e *Element) bool {
		out = append(out, e)
		return true
	})
	return out
}

// Sequence is an ordered list of items, each owning a nested DataSet.
// Indices are 0-based.
type Sequence struct {
	items []*DataSet
}

// NewSequence creates a sequence holding items
func NewSequence(items ...*DataSet) *Sequence {
	return &Sequence{items: items}
}

// Len returns the number of items
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Item returns the data set of item i
func (s *Sequence) Item(i int) (*DataSet, bool) {
	if i < 0 || i >= s.Len() {
		return nil, false
	}
	return s.items[i], true
}

// Items returns the item data sets in order
func (s *Sequence) Items() []*DataSet {
	if s == nil {
		return nil
	}
	return append([]*DataSet(nil), s.items...)
}

// Append adds items at the end of the sequence
func (s *Sequence) Append(items ...*DataSet) {
	s.items = append(s.items, items...)
}

// Set replaces item i
func (s *Sequence) Set(i int, ds *DataSet) bool {
	if i < 0 || i >= s.Len() {
		return false
	}
	s.items[i] = ds
	return true
}

// RemoveAt deletes item i; later items shift down by one
func (s *Sequence) RemoveAt(i int) bool {
	if i < 0 || i >= s.Len() {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return true
}

// Grow appends empty items until the sequence holds at least n and reports
// whether any item was added
func (s *Sequence) Grow(n int) bool {
	grew := false
	for len(s.items) < n {
		s.items = append(s.items, &DataSet{})
		grew = true
	}
	return grew
}

// Truncate drops trailing items so at most n remain
func (s *Sequence) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(s.items) {
		clear(s.items[n:])
		s.items = s.items[:n]
	}
}
