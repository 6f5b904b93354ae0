package dicom

import (
	"fmt"

	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// NumberOfFrames is kept equal to the item count of the per-frame functional groups
var NumberOfFrames = NewFixedNumericAttr[int](tag.NumberOfFrames, vr.IS, 1)

// FrameGroup selects either the shared functional group or the group of one frame
type FrameGroup struct {
	frame    int
	perFrame bool
}

// SharedGroup addresses the values common to every frame
var SharedGroup = FrameGroup{}

// PerFrame addresses the functional group of frame i (0-based)
func PerFrame(i int) FrameGroup {
	if i < 0 {
		panic(fmt.Sprintf("dicom: negative frame index %d", i))
	}
	return FrameGroup{frame: i, perFrame: true}
}

// Frame returns the frame index, false for the shared group
func (g FrameGroup) Frame() (int, bool) {
	return g.frame, g.perFrame
}

func (g FrameGroup) String() string {
	if !g.perFrame {
		return "shared"
	}
	return fmt.Sprintf("frame[%d]", g.frame)
}

func (g FrameGroup) sequenceTag() Tag {
	if g.perFrame {
		return tag.PerFrameFunctionalGroupsSequence
	}
	return tag.SharedFunctionalGroupsSequence
}

// FunctionalGroupSequence returns the shared or per-frame sequence
func FunctionalGroupSequence(ds *DataSet, g FrameGroup) (*Sequence, bool) {
	return ResolveSequence(ds, g.sequenceTag())
}

// FunctionalGroup returns the item of g, not found when the sequence is absent
// or has no item for the frame
func FunctionalGroup(ds *DataSet, g FrameGroup) (*DataSet, bool) {
	seq, ok := FunctionalGroupSequence(ds, g)
	if !ok {
		return nil, false
	}
	return seq.Item(g.frame)
}

// FunctionalGroupOrCreate returns the item of g, creating the sequence and the
// items up to the frame as needed. Per-frame access resynchronizes NumberOfFrames
// with the item count.
func FunctionalGroupOrCreate(ds *DataSet, g FrameGroup) *DataSet {
	item := ResolveOrCreate(ds, At(g.sequenceTag(), g.frame))
	if g.perFrame {
		seq, _ := FunctionalGroupSequence(ds, g)
		NumberOfFrames.SetValue(ds, seq.Len())
	}
	return item
}

// FrameItem returns the single item of the attribute sequence seqTag inside the
// functional group g, nil when any level is missing or empty
func FrameItem(ds *DataSet, g FrameGroup, seqTag Tag) *DataSet {
	group, ok := FunctionalGroup(ds, g)
	if !ok {
		return nil
	}
	return Lookup(group, At(seqTag, 0))
}

// FrameItemOrCreate is FrameItem creating every missing level
func FrameItemOrCreate(ds *DataSet, g FrameGroup, seqTag Tag) *DataSet {
	return ResolveOrCreate(FunctionalGroupOrCreate(ds, g), At(seqTag, 0))
}

func checkFrameSlots(seqSlot, valueSlot uint8) {
	checkSlot(seqSlot)
	checkSlot(valueSlot)
	if seqSlot == valueSlot {
		panic(fmt.Sprintf("dicom: private sequence and value share slot %#02x", seqSlot))
	}
}

// FramePrivateValue reads a private value stored in the private sequence seqSlot
// of the functional group g
func FramePrivateValue(ds *DataSet, g FrameGroup, seqSlot, valueSlot uint8) (string, bool) {
	checkFrameSlots(seqSlot, valueSlot)
	item := FrameItem(ds, g, tag.Private(seqSlot))
	if item == nil {
		return "", false
	}
	return PrivateValue(item, valueSlot)
}

// SetFramePrivateValue writes a private value into the private sequence seqSlot
// of the functional group g. nil removes the value without creating any level.
func SetFramePrivateValue(ds *DataSet, g FrameGroup, seqSlot, valueSlot uint8, value *string) {
	checkFrameSlots(seqSlot, valueSlot)
	if value == nil {
		if item := FrameItem(ds, g, tag.Private(seqSlot)); item != nil {
			SetPrivateValue(item, valueSlot, nil)
		}
		return
	}
	group := FunctionalGroupOrCreate(ds, g)
	ensurePrivateCreator(group)
	item := ResolveOrCreate(group, At(tag.Private(seqSlot), 0))
	SetPrivateValue(item, valueSlot, value)
}

// ShrinkFrames drops the per-frame groups past n and resynchronizes
// NumberOfFrames. It does nothing when there is no per-frame sequence.
func ShrinkFrames(ds *DataSet, n int) {
	seq, ok := FunctionalGroupSequence(ds, PerFrame(0))
	if !ok {
		return
	}
	seq.Truncate(n)
	NumberOfFrames.SetValue(ds, seq.Len())
}
