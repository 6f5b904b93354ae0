package dicom

import (
	"fmt"

	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// Option configures a DataSet during construction
type Option func(*DataSet) error

// NewDataSet creates a DataSet with the given options
func NewDataSet(opts ...Option) (*DataSet, error) {
	ds := &DataSet{}
	for _, opt := range opts {
		if err := opt(ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// MustDataSet is NewDataSet panicking on error, for fixtures and static tables
func MustDataSet(opts ...Option) *DataSet {
	ds, err := NewDataSet(opts...)
	if err != nil {
		panic(err)
	}
	return ds
}

// WithElement adds a raw element, using the dictionary VR of t
func WithElement(t tag.Tag, value []byte) Option {
	return func(ds *DataSet) error {
		v := tag.VRFor(t)
		if v == vr.SQ {
			return fmt.Errorf("%s is a sequence, use WithSequence", t)
		}
		ds.Replace(&Element{Tag: t, VR: v, Bytes: vr.Pad(v, append([]byte{}, value...))})
		return nil
	}
}

// WithString adds a text element, using the dictionary VR of t
func WithString(t tag.Tag, value string) Option {
	return WithStrings(t, value)
}

// WithStrings adds a multi-valued text element
func WithStrings(t tag.Tag, values ...string) Option {
	return func(ds *DataSet) error {
		v := tag.VRFor(t)
		if !v.IsString() {
			return fmt.Errorf("%s has VR %s, not a string", t, v)
		}
		NewStringAttr(t, v).SetValues(ds, values)
		return nil
	}
}

// WithValues adds a numeric element, using the dictionary VR of t
func WithValues[T Number](t tag.Tag, values ...T) Option {
	return func(ds *DataSet) error {
		v := tag.VRFor(t)
		if !v.IsBinary() && !v.IsNumericString() {
			return fmt.Errorf("%s has VR %s, not a number", t, v)
		}
		NewVariableNumericAttr[T](t, v).SetValues(ds, values)
		return nil
	}
}

// WithEmpty adds an explicit empty element, using the dictionary VR of t
func WithEmpty(t tag.Tag) Option {
	return func(ds *DataSet) error {
		SetEmpty(ds, t, tag.VRFor(t))
		return nil
	}
}

// WithSequence adds a sequence element to the dataset
func WithSequence(t tag.Tag, items ...*DataSet) Option {
	return func(ds *DataSet) error {
		ds.Replace(&Element{Tag: t, VR: vr.SQ, Seq: NewSequence(items...)})
		return nil
	}
}

// WithPrivate writes a private slot value
func WithPrivate(slot uint8, value string) Option {
	return func(ds *DataSet) error {
		SetPrivateValue(ds, slot, &value)
		return nil
	}
}
