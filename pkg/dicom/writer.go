package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/transfer"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// Identification written into the file meta group of files this package creates
const (
	ImplementationClassUID    = "1.2.826.0.1.3680043.8.498.1"
	ImplementationVersionName = "FIDUCIALS_GO"
)

// WriteFile writes a dataset to a Part 10 file
func WriteFile(path string, ds *DataSet) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Write(f, ds)
}

// Write writes a dataset as a Part 10 stream using Explicit VR Little Endian. The
// file meta group is completed from the dataset when elements are missing.
func Write(w io.Writer, ds *DataSet) (int64, error) {
	cw := &CountingWriter{Writer: w}

	// 1. Write Preamble (128 bytes 0x00)
	preamble := make([]byte, 128)
	if _, err := cw.Write(preamble); err != nil {
		return cw.Count.Load(), err
	}

	// 2. Write DICM Magic
	if _, err := cw.Write([]byte("DICM")); err != nil {
		return cw.Count.Load(), err
	}

	// 3. File meta group, prefixed with its length
	var meta bytes.Buffer
	if err := writeElements(&meta, fileMeta(ds).Elements()); err != nil {
		return cw.Count.Load(), fmt.Errorf("failed to write file meta: %w", err)
	}
	length := make([]byte, 4)
	binary.LittleEndian.PutUint32(length, uint32(meta.Len()))
	groupLength := &Element{Tag: tag.FileMetaInformationGroupLength, VR: vr.UL, Bytes: length}
	if err := writeElement(cw, groupLength); err != nil {
		return cw.Count.Load(), err
	}
	if _, err := cw.Write(meta.Bytes()); err != nil {
		return cw.Count.Load(), err
	}

	// 4. Dataset elements
	var body []*Element
	ds.Ascend(func(e *Element) bool {
		if !e.Tag.IsGroup0002() {
			body = append(body, e)
		}
		return true
	})
	if err := writeElements(cw, body); err != nil {
		return cw.Count.Load(), err
	}
	return cw.Count.Load(), nil
}

// WriteDataSet writes the elements of ds (no preamble or file meta) using
// Explicit VR Little Endian
func WriteDataSet(w io.Writer, ds *DataSet) (int64, error) {
	cw := &CountingWriter{Writer: w}
	err := writeElements(cw, ds.Elements())
	return cw.Count.Load(), err
}

func fileMeta(ds *DataSet) *DataSet {
	meta := &DataSet{}
	ds.Ascend(func(e *Element) bool {
		if e.Tag.IsGroup0002() && e.Tag != tag.FileMetaInformationGroupLength {
			meta.Replace(e)
		}
		return true
	})
	meta.Insert(&Element{Tag: tag.FileMetaInformationVersion, VR: vr.OB, Bytes: []byte{0x00, 0x01}})
	if uid, ok := ds.Get(tag.SOPClassUID); ok {
		meta.Insert(&Element{Tag: tag.MediaStorageSOPClassUID, VR: vr.UI, Bytes: uid.Bytes})
	}
	if uid, ok := ds.Get(tag.SOPInstanceUID); ok {
		meta.Insert(&Element{Tag: tag.MediaStorageSOPInstanceUID, VR: vr.UI, Bytes: uid.Bytes})
	}
	NewStringAttr(tag.TransferSyntaxUID, vr.UI).SetValue(meta, string(transfer.ExplicitVRLittleEndian))
	if !meta.Has(tag.ImplementationClassUID) {
		NewStringAttr(tag.ImplementationClassUID, vr.UI).SetValue(meta, ImplementationClassUID)
	}
	if !meta.Has(tag.ImplementationVersionName) {
		NewStringAttr(tag.ImplementationVersionName, vr.SH).SetValue(meta, ImplementationVersionName)
	}
	return meta
}

func writeElements(w io.Writer, elements []*Element) error {
	for _, e := range elements {
		if err := writeElement(w, e); err != nil {
			return fmt.Errorf("failed to write element %v: %w", e.Tag, err)
		}
	}
	return nil
}

func writeElement(w io.Writer, e *Element) error {
	if err := writeTag(w, e.Tag); err != nil {
		return err
	}

	// Write VR
	v := e.VR
	if e.Seq != nil {
		v = vr.SQ
	}
	if len(v) != 2 {
		slog.Warn("Invalid VR length, defaulting to UN", "vr", v, "tag", e.Tag)
		v = vr.UN
	}
	if _, err := w.Write([]byte(v)); err != nil {
		return err
	}

	if v == vr.SQ {
		// Reserved 2 bytes, undefined length
		if _, err := w.Write([]byte{0, 0}); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, tag.UndefinedLength); err != nil {
			return err
		}
		return writeSequence(w, e.Seq)
	}

	value := e.Bytes
	if len(value)%2 != 0 {
		value = vr.Pad(v, append([]byte(nil), value...))
	}
	if v.IsLongLength() {
		if _, err := w.Write([]byte{0, 0}); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(value))); err != nil {
			return err
		}
	} else {
		if len(value) > 0xFFFF {
			return fmt.Errorf("value of %d bytes too long for VR %s", len(value), v)
		}
		if err := binary.Write(w, binary.LittleEndian, uint16(len(value))); err != nil {
			return err
		}
	}
	_, err := w.Write(value)
	return err
}

// writeSequence encodes each item with an explicit length followed by the
// sequence delimitation item
func writeSequence(w io.Writer, seq *Sequence) error {
	for _, item := range seq.Items() {
		var buf bytes.Buffer
		if err := writeElements(&buf, item.Elements()); err != nil {
			return fmt.Errorf("failed to encode sequence item: %w", err)
		}
		if err := writeTag(w, tag.Item); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(buf.Len())); err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	if err := writeTag(w, tag.SequenceDelimitation); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, uint32(0))
}

func writeTag(w io.Writer, t Tag) error {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b, t.Group)
	binary.LittleEndian.PutUint16(b[2:], t.Element)
	_, err := w.Write(b)
	return err
}

// CountingWriter counts the bytes written through it
type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	if err == nil {
		c.Count.Add(int64(n))
	}
	return n, err
}
