package dicom

import (
	"fmt"

	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// Private slots live in [MinPrivateSlot, MaxPrivateSlot] of the application block
const (
	MinPrivateSlot uint8 = 0x10
	MaxPrivateSlot uint8 = 0xFF
)

func checkSlot(slot uint8) {
	if slot < MinPrivateSlot {
		panic(fmt.Sprintf("dicom: private slot %#02x outside [%#02x, %#02x]", slot, MinPrivateSlot, MaxPrivateSlot))
	}
}

// PrivateValue reads the text stored in a private slot. An explicitly blank slot
// returns "" and true; an absent slot returns false.
func PrivateValue(ds *DataSet, slot uint8) (string, bool) {
	checkSlot(slot)
	e, ok := ds.Get(tag.Private(slot))
	if !ok || e.IsSequence() {
		return "", false
	}
	return vr.Trim(string(e.Bytes)), true
}

// SetPrivateValue writes a private slot. nil removes the element, "" stores a
// zero length element, anything else is stored as UT. The private creator is
// inserted once before the first value.
func SetPrivateValue(ds *DataSet, slot uint8, value *string) {
	checkSlot(slot)
	t := tag.Private(slot)
	if value == nil {
		ds.Remove(t)
		return
	}
	ensurePrivateCreator(ds)
	ds.Replace(&Element{Tag: t, VR: vr.UT, Bytes: encodeString(vr.UT, *value)})
}

func ensurePrivateCreator(ds *DataSet) {
	ds.Insert(&Element{
		Tag:   tag.PrivateCreator,
		VR:    vr.LO,
		Bytes: encodeString(vr.LO, tag.PrivateCreatorName),
	})
}

// HasPrivateCreator reports whether ds reserves the application private block
func HasPrivateCreator(ds *DataSet) bool {
	e, ok := ds.Get(tag.PrivateCreator)
	if !ok {
		return false
	}
	s, _ := e.GetString()
	return s == tag.PrivateCreatorName
}
