package dicom

import (
	"fmt"
	"strings"

	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// Attribute describes a tag and its value representation. The implementations
// are StringAttr, FixedNumericAttr, VariableNumericAttr and SequenceAttr.
type Attribute interface {
	Tag() Tag
	VR() vr.VR
	attribute()
}

// Scalar is an attribute whose values can be read and written as text
type Scalar interface {
	Attribute
	StringValue(ds *DataSet) (string, bool)
	SetStringValue(ds *DataSet, s string) error
	StringValues(ds *DataSet) []string
	SetStringValues(ds *DataSet, values []string) error
}

// SetEmpty stores an explicit zero length element at t
func SetEmpty(ds *DataSet, t Tag, v vr.VR) {
	if v == vr.SQ {
		ds.Replace(&Element{Tag: t, VR: v, Seq: &Sequence{}})
		return
	}
	ds.Replace(&Element{Tag: t, VR: v, Bytes: []byte{}})
}

// valueBytes returns the bytes of a present, non empty, non sequence element
func valueBytes(ds *DataSet, t Tag) ([]byte, bool) {
	e, ok := ds.Get(t)
	if !ok || e.IsSequence() || len(e.Bytes) == 0 {
		return nil, false
	}
	return e.Bytes, true
}

// JoinedValues returns the text values of a joined with backslashes
func JoinedValues(a Scalar, ds *DataSet) string {
	return strings.Join(a.StringValues(ds), vr.Separator)
}

// SetJoinedValues splits s on backslashes and stores the parts. Consecutive
// delimiters produce empty parts, which are then skipped when stored.
func SetJoinedValues(a Scalar, ds *DataSet, s string) error {
	return a.SetStringValues(ds, strings.Split(s, vr.Separator))
}

// CopyElement copies the element at t from src into dst, or removes it from dst
// when src does not have it
func CopyElement(dst, src *DataSet, t Tag) {
	e, ok := src.Get(t)
	if !ok {
		dst.Remove(t)
		return
	}
	dst.Replace(cloneElement(e))
}

// StringAttr is a text attribute (AE, CS, LO, UI, ...)
type StringAttr struct {
	tag Tag
	vr  vr.VR
}

// NewStringAttr describes a text attribute
func NewStringAttr(t Tag, v vr.VR) StringAttr {
	return StringAttr{tag: t, vr: v}
}

func (a StringAttr) Tag() Tag  { return a.tag }
func (a StringAttr) VR() vr.VR { return a.vr }
func (StringAttr) attribute()  {}

// Value returns the trimmed text, not found when absent or empty
func (a StringAttr) Value(ds *DataSet) (string, bool) {
	b, ok := valueBytes(ds, a.tag)
	if !ok {
		return "", false
	}
	return vr.Trim(string(b)), true
}

// SetValue stores s padded to an even length. An empty s stores an empty element.
func (a StringAttr) SetValue(ds *DataSet, s string) {
	ds.Replace(&Element{Tag: a.tag, VR: a.vr, Bytes: encodeString(a.vr, s)})
}

// Clear stores an explicit empty element
func (a StringAttr) Clear(ds *DataSet) {
	SetEmpty(ds, a.tag, a.vr)
}

// Values splits a multi-valued element. Consecutive delimiters yield empty values.
func (a StringAttr) Values(ds *DataSet) ([]string, bool) {
	e, ok := ds.Get(a.tag)
	if !ok || len(e.Bytes) == 0 {
		return nil, false
	}
	return e.GetStrings()
}

// SetValues stores values joined with backslashes, an empty slice stores an empty element
func (a StringAttr) SetValues(ds *DataSet, values []string) {
	if len(values) == 0 {
		a.Clear(ds)
		return
	}
	a.SetValue(ds, strings.Join(values, vr.Separator))
}

func (a StringAttr) StringValue(ds *DataSet) (string, bool) {
	return a.Value(ds)
}

func (a StringAttr) SetStringValue(ds *DataSet, s string) error {
	a.SetValue(ds, s)
	return nil
}

func (a StringAttr) StringValues(ds *DataSet) []string {
	values, _ := a.Values(ds)
	return values
}

// SetStringValues stores the non empty values; when none remain an empty element is stored
func (a StringAttr) SetStringValues(ds *DataSet, values []string) error {
	var kept []string
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	a.SetValues(ds, kept)
	return nil
}

// numericAttr holds the behavior shared by fixed and variable multiplicity numbers.
// The VR may be binary (US, FL, ...) or a numeric string (IS, DS).
type numericAttr[T Number] struct {
	tag Tag
	vr  vr.VR
}

func (a numericAttr[T]) Tag() Tag  { return a.tag }
func (a numericAttr[T]) VR() vr.VR { return a.vr }
func (numericAttr[T]) attribute()  {}

// Value returns the first value, not found when absent, empty or unparsable
func (a numericAttr[T]) Value(ds *DataSet) (T, bool) {
	values, ok := a.Values(ds)
	if !ok {
		var zero T
		return zero, false
	}
	return values[0], true
}

// Values returns every value, not found when absent, empty or unparsable
func (a numericAttr[T]) Values(ds *DataSet) ([]T, bool) {
	values, err := a.ValuesErr(ds)
	if err != nil || len(values) == 0 {
		return nil, false
	}
	return values, true
}

// ValuesErr is Values reporting parse failures instead of hiding them
func (a numericAttr[T]) ValuesErr(ds *DataSet) ([]T, error) {
	b, ok := valueBytes(ds, a.tag)
	if !ok {
		return nil, nil
	}
	values, err := decodeNumbers[T](a.vr, b)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a.tag, err)
	}
	return values, nil
}

// Clear stores an explicit empty element
func (a numericAttr[T]) Clear(ds *DataSet) {
	SetEmpty(ds, a.tag, a.vr)
}

func (a numericAttr[T]) store(ds *DataSet, values []T) {
	if len(values) == 0 {
		a.Clear(ds)
		return
	}
	ds.Replace(&Element{Tag: a.tag, VR: a.vr, Bytes: encodeNumbers(a.vr, values)})
}

func (a numericAttr[T]) StringValue(ds *DataSet) (string, bool) {
	v, ok := a.Value(ds)
	if !ok {
		return "", false
	}
	return FormatNumber(a.vr, v), true
}

// SetStringValue parses s and stores it; an empty s stores an empty element
func (a numericAttr[T]) SetStringValue(ds *DataSet, s string) error {
	if s == "" {
		a.Clear(ds)
		return nil
	}
	n, err := ParseNumber[T](s)
	if err != nil {
		return fmt.Errorf("failed to set %s from %q: %w", a.tag, s, err)
	}
	a.store(ds, []T{n})
	return nil
}

func (a numericAttr[T]) StringValues(ds *DataSet) []string {
	values, ok := a.Values(ds)
	if !ok {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = FormatNumber(a.vr, v)
	}
	return out
}

// SetStringValues parses the non empty values and stores them; when none remain
// an empty element is stored
func (a numericAttr[T]) SetStringValues(ds *DataSet, values []string) error {
	var parsed []T
	for _, s := range values {
		if s == "" {
			continue
		}
		n, err := ParseNumber[T](s)
		if err != nil {
			return fmt.Errorf("failed to set %s from %q: %w", a.tag, s, err)
		}
		parsed = append(parsed, n)
	}
	a.store(ds, parsed)
	return nil
}

// FixedNumericAttr is a numeric attribute with a fixed value multiplicity
type FixedNumericAttr[T Number] struct {
	numericAttr[T]
	vm int
}

// NewFixedNumericAttr describes a numeric attribute holding exactly vm values
func NewFixedNumericAttr[T Number](t Tag, v vr.VR, vm int) FixedNumericAttr[T] {
	return FixedNumericAttr[T]{numericAttr: numericAttr[T]{tag: t, vr: v}, vm: vm}
}

// VM returns the value multiplicity
func (a FixedNumericAttr[T]) VM() int { return a.vm }

// SetValue stores a single value; only valid when VM is 1
func (a FixedNumericAttr[T]) SetValue(ds *DataSet, v T) {
	if a.vm != 1 {
		panic(fmt.Sprintf("dicom: %s holds %d values, use SetValues", a.tag, a.vm))
	}
	a.store(ds, []T{v})
}

// SetValues stores exactly VM values, an empty slice stores an empty element
func (a FixedNumericAttr[T]) SetValues(ds *DataSet, values []T) {
	if len(values) != 0 && len(values) != a.vm {
		panic(fmt.Sprintf("dicom: %s holds %d values, got %d", a.tag, a.vm, len(values)))
	}
	a.store(ds, values)
}

// VariableNumericAttr is a numeric attribute with any number of values
type VariableNumericAttr[T Number] struct {
	numericAttr[T]
}

// NewVariableNumericAttr describes a numeric attribute holding 1-n values
func NewVariableNumericAttr[T Number](t Tag, v vr.VR) VariableNumericAttr[T] {
	return VariableNumericAttr[T]{numericAttr: numericAttr[T]{tag: t, vr: v}}
}

// SetValue stores a single value
func (a VariableNumericAttr[T]) SetValue(ds *DataSet, v T) {
	a.store(ds, []T{v})
}

// SetValues stores values, an empty slice stores an empty element
func (a VariableNumericAttr[T]) SetValues(ds *DataSet, values []T) {
	a.store(ds, values)
}

// SequenceAttr is a sequence of items
type SequenceAttr struct {
	tag Tag
}

// NewSequenceAttr describes a sequence attribute
func NewSequenceAttr(t Tag) SequenceAttr {
	return SequenceAttr{tag: t}
}

func (a SequenceAttr) Tag() Tag  { return a.tag }
func (a SequenceAttr) VR() vr.VR { return vr.SQ }
func (SequenceAttr) attribute()  {}

// Sequence returns the sequence, not found when absent or not a sequence
func (a SequenceAttr) Sequence(ds *DataSet) (*Sequence, bool) {
	return ResolveSequence(ds, a.tag)
}

// Items returns the item data sets, nil when absent
func (a SequenceAttr) Items(ds *DataSet) []*DataSet {
	seq, ok := a.Sequence(ds)
	if !ok {
		return nil
	}
	return seq.Items()
}

// Set stores seq; nil stores an empty sequence
func (a SequenceAttr) Set(ds *DataSet, seq *Sequence) {
	if seq == nil {
		seq = &Sequence{}
	}
	ds.Replace(&Element{Tag: a.tag, VR: vr.SQ, Seq: seq})
}

// OrCreate returns the sequence, inserting an empty one when absent
func (a SequenceAttr) OrCreate(ds *DataSet) *Sequence {
	return SequenceOrCreate(ds, a.tag)
}

// Append adds an item, creating the sequence when absent
func (a SequenceAttr) Append(ds *DataSet, item *DataSet) {
	a.OrCreate(ds).Append(item)
}
