package dicom

import (
	"bytes"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Equal compares two data sets structurally, descending into every sequence item.
// Two distinct sequences holding identical items are equal.
func Equal(a, b *DataSet) bool {
	if a.Len() != b.Len() {
		return false
	}
	ea, eb := a.Elements(), b.Elements()
	for i := range ea {
		if !elementEqual(ea[i], eb[i]) {
			return false
		}
	}
	return true
}

func elementEqual(a, b *Element) bool {
	if a.Tag != b.Tag || a.IsSequence() != b.IsSequence() {
		return false
	}
	if !a.IsSequence() {
		return a.VR == b.VR && bytes.Equal(a.Bytes, b.Bytes)
	}
	if a.Seq.Len() != b.Seq.Len() {
		return false
	}
	for i := range a.Seq.Len() {
		ia, _ := a.Seq.Item(i)
		ib, _ := b.Seq.Item(i)
		if !Equal(ia, ib) {
			return false
		}
	}
	return true
}

// Clone deep copies ds by encoding and decoding it, so the copy shares no
// element, sequence or buffer with the source
func Clone(ds *DataSet) (*DataSet, error) {
	var buf bytes.Buffer
	if _, err := WriteDataSet(&buf, ds); err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}
	out, err := ParseDataSet(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return out, nil
}

// cloneElement copies one element and everything below it
func cloneElement(e *Element) *Element {
	out := &Element{Tag: e.Tag, VR: e.VR}
	if e.Bytes != nil {
		out.Bytes = append([]byte{}, e.Bytes...)
	}
	if e.Seq != nil {
		out.Seq = &Sequence{items: make([]*DataSet, 0, e.Seq.Len())}
		for _, item := range e.Seq.items {
			copied := &DataSet{}
			item.Ascend(func(ie *Element) bool {
				copied.Replace(cloneElement(ie))
				return true
			})
			out.Seq.items = append(out.Seq.items, copied)
		}
	}
	return out
}

// Fingerprint hashes the encoded form of ds. Data sets that are Equal have the
// same fingerprint.
func Fingerprint(ds *DataSet) uint64 {
	d := xxhash.New()
	// xxhash.Digest never fails to write
	_, _ = WriteDataSet(d, ds)
	return d.Sum64()
}
