package dicom

import "fmt"

// SequenceBuilder collects the items of one sequence, each built from options.
// A failing item is recorded and reported by Sequence or Build, so items can be
// added in a loop without checking each one.
type SequenceBuilder struct {
	tag   Tag
	items []*DataSet
	errs  []error
}

func NewSequenceBuilder(t Tag) *SequenceBuilder {
	return &SequenceBuilder{tag: t}
}

// AddItem appends an item built from opts
func (sb *SequenceBuilder) AddItem(opts ...Option) *SequenceBuilder {
	ds, err := NewDataSet(opts...)
	if err != nil {
		sb.errs = append(sb.errs, fmt.Errorf("%s item %d: %w", sb.tag, len(sb.items)+len(sb.errs), err))
		return sb
	}
	sb.items = append(sb.items, ds)
	return sb
}

func (sb *SequenceBuilder) err() error {
	if len(sb.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%d bad item(s): %w", len(sb.errs), sb.errs[0])
}

// Sequence returns the items as a detached sequence
func (sb *SequenceBuilder) Sequence() (*Sequence, error) {
	if err := sb.err(); err != nil {
		return nil, err
	}
	return NewSequence(append([]*DataSet(nil), sb.items...)...), nil
}

// Build returns an option storing the sequence under the builder's tag
func (sb *SequenceBuilder) Build() (Option, error) {
	seq, err := sb.Sequence()
	if err != nil {
		return nil, err
	}
	return WithSequence(sb.tag, seq.Items()...), nil
}
