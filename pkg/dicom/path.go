package dicom

import (
	"fmt"
	"log/slog"

	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// Hop addresses item Index (0-based) of the sequence at Tag
type Hop struct {
	Tag   Tag
	Index int
}

// At builds a Hop
func At(t Tag, index int) Hop {
	return Hop{Tag: t, Index: index}
}

// Resolve walks path from ds and returns the nested data set it addresses.
// A missing tag, a tag that is not a sequence, or an index past the end of the
// sequence all resolve to not found.
func Resolve(ds *DataSet, path ...Hop) (*DataSet, bool) {
	cur := ds
	for _, hop := range path {
		if cur == nil {
			return nil, false
		}
		e, ok := cur.Get(hop.Tag)
		if !ok {
			return nil, false
		}
		if !e.IsSequence() {
			slog.Warn("path hop is not a sequence", "tag", hop.Tag, "vr", e.VR)
			return nil, false
		}
		cur, ok = e.Seq.Item(hop.Index)
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// Lookup is Resolve returning nil when the path does not exist
func Lookup(ds *DataSet, path ...Hop) *DataSet {
	found, ok := Resolve(ds, path...)
	if !ok {
		return nil
	}
	return found
}

// ResolveElement returns the element at t inside the data set addressed by path
func ResolveElement(ds *DataSet, t Tag, path ...Hop) (*Element, bool) {
	target, ok := Resolve(ds, path...)
	if !ok {
		return nil, false
	}
	return target.Get(t)
}

// ResolveSequence returns the sequence at t inside the data set addressed by path
func ResolveSequence(ds *DataSet, t Tag, path ...Hop) (*Sequence, bool) {
	e, ok := ResolveElement(ds, t, path...)
	if !ok || !e.IsSequence() {
		return nil, false
	}
	if e.Seq == nil {
		e.Seq = &Sequence{}
	}
	return e.Seq, true
}

// ResolveOrCreate walks path from ds, creating missing sequences and appending
// empty items as needed, and returns the addressed data set. Calling it again
// with the same path returns the same data set. A hop through an element that
// is not a sequence panics.
func ResolveOrCreate(ds *DataSet, path ...Hop) *DataSet {
	cur := ds
	for _, hop := range path {
		if hop.Index < 0 {
			panic(fmt.Sprintf("dicom: negative item index %d at %s", hop.Index, hop.Tag))
		}
		seq := SequenceOrCreate(cur, hop.Tag)
		seq.Grow(hop.Index + 1)
		cur = seq.items[hop.Index]
		if cur == nil {
			cur = &DataSet{}
			seq.items[hop.Index] = cur
		}
	}
	return cur
}

// SequenceOrCreate returns the sequence at t, inserting an empty one when absent
func SequenceOrCreate(ds *DataSet, t Tag) *Sequence {
	e, ok := ds.Get(t)
	if !ok {
		e = &Element{Tag: t, VR: vr.SQ, Seq: &Sequence{}}
		ds.Replace(e)
	}
	if !e.IsSequence() {
		panic(fmt.Sprintf("dicom: %s holds a %s value, not a sequence", t, e.VR))
	}
	if e.Seq == nil {
		e.Seq = &Sequence{}
	}
	return e.Seq
}
