package dicom

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// String returns a string representation of the Element
func (e *Element) String() string {
	// Format: [Tag] [VR] (Name) ... : Value
	tagName := e.Tag.LookupName()
	if tagName != "" {
		tagName = " " + tagName
	}
	return fmt.Sprintf("[%s] %s%s: %s", e.Tag, e.VR, tagName, e.valueString())
}

func (e *Element) valueString() string {
	switch {
	case e.IsSequence():
		return fmt.Sprintf("Sequence (%d items)", e.Seq.Len())
	case e.VR.IsString():
		s, _ := e.GetString()
		return s
	case len(e.Bytes) > 20:
		return fmt.Sprintf("Binary Data (%d bytes)", len(e.Bytes))
	}
	if values, err := decodeNumbers[float64](e.VR, e.Bytes); err == nil && e.VR.ValueSize() > 1 {
		return fmt.Sprintf("%v", values)
	}
	return fmt.Sprintf("%v", e.Bytes)
}

// value returns the JSON friendly form of the element value
func (e *Element) value() any {
	switch {
	case e.IsSequence():
		return e.Seq.Items()
	case e.VR.IsString():
		values, _ := e.GetStrings()
		return values
	case e.VR.ValueSize() > 1:
		if values, err := decodeNumbers[float64](e.VR, e.Bytes); err == nil {
			return values
		}
	}
	return e.Bytes
}

// MarshalJSON returns a JSON representation of the Element
func (e *Element) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Tag   string `json:"tag"`
		Name  string `json:"name,omitempty"`
		VR    vr.VR  `json:"vr"`
		Value any    `json:"value"`
	}{
		Tag:   e.Tag.String(),
		Name:  e.Tag.LookupName(),
		VR:    e.VR,
		Value: e.value(),
	})
}

// String returns an indented dump of the Dataset, one element per line
func (ds *DataSet) String() string {
	if ds == nil {
		return "<nil>"
	}
	var b strings.Builder
	ds.dump(&b, 0)
	return b.String()
}

func (ds *DataSet) dump(b *strings.Builder, depth int) {
	indent := strings.Repeat("  ", depth)
	ds.Ascend(func(e *Element) bool {
		b.WriteString(indent)
		b.WriteString(e.String())
		b.WriteString("\n")
		if e.IsSequence() {
			for i, item := range e.Seq.Items() {
				fmt.Fprintf(b, "%s  > Item %d\n", indent, i)
				item.dump(b, depth+2)
			}
		}
		return true
	})
}

// MarshalJSON returns a JSON representation of the Dataset
// It returns a sorted array of Elements instead of a Map
func (ds *DataSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(ds.Elements())
}
