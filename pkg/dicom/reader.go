package dicom

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jpfielding/fiducials.go/pkg/dicom/tag"
	"github.com/jpfielding/fiducials.go/pkg/dicom/transfer"
	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// ErrUnsupportedSyntax is returned for transfer syntaxes the native reader cannot decode
var ErrUnsupportedSyntax = errors.New("unsupported transfer syntax")

// Reader decodes data elements of one transfer syntax
type Reader struct {
	r          io.Reader
	syntax     transfer.Syntax
	explicitVR bool
	order      binary.ByteOrder
}

// NewReader creates a reader for elements encoded with ts
func NewReader(r io.Reader, ts transfer.Syntax) *Reader {
	return &Reader{
		r:          r,
		syntax:     ts,
		explicitVR: ts.IsExplicitVR(),
		order:      ts.ByteOrder(),
	}
}

// ReadFile reads a Part 10 file
func ReadFile(path string) (*DataSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a complete Part 10 stream: preamble, file meta group and dataset.
// The returned dataset includes the file meta elements.
func Parse(r io.Reader) (*DataSet, error) {
	br := bufio.NewReader(r)

	// Read preamble (128 bytes) and DICM magic
	if _, err := io.CopyN(io.Discard, br, 128); err != nil {
		return nil, fmt.Errorf("failed to read preamble: %w", err)
	}
	magic := make([]byte, 4)
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("failed to read DICM magic: %w", err)
	}
	if string(magic) != "DICM" {
		return nil, errors.New("invalid DICOM file: missing DICM magic")
	}

	// Group 0002 (File Meta Information) is ALWAYS Explicit VR Little Endian
	ds := &DataSet{}
	meta := NewReader(br, transfer.ExplicitVRLittleEndian)
	for {
		peek, err := br.Peek(2)
		if err == io.EOF {
			return ds, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tag: %w", err)
		}
		if binary.LittleEndian.Uint16(peek) != 0x0002 {
			break
		}
		e, err := meta.ReadElement()
		if err != nil {
			return nil, fmt.Errorf("failed to read file meta: %w", err)
		}
		ds.Replace(e)
	}

	// Default to Implicit VR if no File Meta was found
	ts := transfer.ImplicitVRLittleEndian
	if uid, ok := NewStringAttr(tag.TransferSyntaxUID, vr.UI).Value(ds); ok {
		ts = transfer.FromUID(uid)
	}
	if !ts.IsSupported() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSyntax, ts.Name())
	}

	body, err := NewReader(br, ts).ReadDataSet()
	if err != nil {
		return nil, err
	}
	body.Ascend(func(e *Element) bool {
		ds.Replace(e)
		return true
	})
	return ds, nil
}

// ParseDataSet reads elements written by WriteDataSet
func ParseDataSet(r io.Reader) (*DataSet, error) {
	return NewReader(r, transfer.ExplicitVRLittleEndian).ReadDataSet()
}

// ReadDataSet reads elements until the end of the stream
func (r *Reader) ReadDataSet() (*DataSet, error) {
	return r.readDataSet(false)
}

// readDataSet reads elements until EOF, or until an item delimitation when
// delimited is set
func (r *Reader) readDataSet(delimited bool) (*DataSet, error) {
	ds := &DataSet{}
	for {
		t, err := r.readTag()
		if err == io.EOF {
			if delimited {
				return nil, fmt.Errorf("missing item delimitation: %w", io.ErrUnexpectedEOF)
			}
			return ds, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read tag: %w", err)
		}
		if t == tag.ItemDelimitation {
			if _, err := r.readUint32(); err != nil {
				return nil, fmt.Errorf("reading delimiter length: %w", err)
			}
			return ds, nil
		}
		e, err := r.readElementWithTag(t)
		if err != nil {
			return nil, fmt.Errorf("failed to read element %v: %w", t, err)
		}
		ds.Replace(e)
	}
}

// ReadElement reads the next data element
func (r *Reader) ReadElement() (*Element, error) {
	t, err := r.readTag()
	if err != nil {
		return nil, err
	}
	return r.readElementWithTag(t)
}

// readElementWithTag reads a DICOM element after the tag has been read
func (r *Reader) readElementWithTag(t Tag) (*Element, error) {
	var v vr.VR
	var vl uint32

	if r.explicitVR {
		// Read VR (2 bytes)
		vrBytes := make([]byte, 2)
		if _, err := io.ReadFull(r.r, vrBytes); err != nil {
			return nil, err
		}
		v = vr.VR(vrBytes)

		// Check if VR uses 4-byte VL or 2-byte VL + 2 reserved bytes
		if v.IsLongLength() {
			if _, err := io.CopyN(io.Discard, r.r, 2); err != nil {
				return nil, err
			}
			n, err := r.readUint32()
			if err != nil {
				return nil, err
			}
			vl = n
		} else {
			var vl16 uint16
			if err := binary.Read(r.r, r.order, &vl16); err != nil {
				return nil, err
			}
			vl = uint32(vl16)
		}
	} else {
		// Implicit VR: VL is always 4 bytes, VR is determined by tag
		n, err := r.readUint32()
		if err != nil {
			return nil, err
		}
		vl = n
		v = tag.VRFor(t)
		if vl == tag.UndefinedLength {
			v = vr.SQ
		}
	}

	if v == vr.SQ || (v == vr.UN && vl == tag.UndefinedLength) {
		seq, err := r.readSequence(vl)
		if err != nil {
			return nil, err
		}
		return &Element{Tag: t, VR: vr.SQ, Seq: seq}, nil
	}
	if vl == tag.UndefinedLength {
		return nil, fmt.Errorf("undefined length %s value (encapsulated data) is not supported", v)
	}

	data := make([]byte, vl)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, err
	}
	if r.order == binary.BigEndian {
		swap(v, data)
	}
	return &Element{Tag: t, VR: v, Bytes: data}, nil
}

// readSequence reads the items of a sequence with a defined or undefined length
func (r *Reader) readSequence(vl uint32) (*Sequence, error) {
	seq := &Sequence{}
	src := r
	if vl != tag.UndefinedLength {
		data := make([]byte, vl)
		if _, err := io.ReadFull(r.r, data); err != nil {
			return nil, fmt.Errorf("reading sequence: %w", err)
		}
		src = r.sub(data)
	}
	for {
		t, err := src.readTag()
		if err == io.EOF && vl != tag.UndefinedLength {
			return seq, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading sequence item tag: %w", err)
		}
		length, err := src.readUint32()
		if err != nil {
			return nil, fmt.Errorf("reading item length: %w", err)
		}
		switch t {
		case tag.SequenceDelimitation:
			return seq, nil
		case tag.Item:
			item, err := src.readItem(length)
			if err != nil {
				return nil, err
			}
			seq.Append(item)
		default:
			return nil, fmt.Errorf("expected item tag, got %v", t)
		}
	}
}

func (r *Reader) readItem(length uint32) (*DataSet, error) {
	if length == tag.UndefinedLength {
		return r.readDataSet(true)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, fmt.Errorf("reading item data: %w", err)
	}
	return r.sub(data).readDataSet(false)
}

// sub reads a bounded chunk with the same encoding
func (r *Reader) sub(data []byte) *Reader {
	return &Reader{r: bytes.NewReader(data), syntax: r.syntax, explicitVR: r.explicitVR, order: r.order}
}

// readTag reads a DICOM tag, returning io.EOF only at a clean element boundary
func (r *Reader) readTag() (Tag, error) {
	b := make([]byte, 4)
	if _, err := io.ReadFull(r.r, b); err != nil {
		return Tag{}, err
	}
	return Tag{Group: r.order.Uint16(b), Element: r.order.Uint16(b[2:])}, nil
}

func (r *Reader) readUint32() (uint32, error) {
	var n uint32
	err := binary.Read(r.r, r.order, &n)
	return n, err
}

// swap converts big endian binary values to the little endian form held in memory
func swap(v vr.VR, data []byte) {
	size := v.ValueSize()
	if size < 2 || !v.IsBinary() {
		return
	}
	for i := 0; i+size <= len(data); i += size {
		word := data[i : i+size]
		for a, b := 0, size-1; a < b; a, b = a+1, b-1 {
			word[a], word[b] = word[b], word[a]
		}
	}
}
