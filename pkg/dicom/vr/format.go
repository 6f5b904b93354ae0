package vr

import (
	"strconv"
	"strings"
)

// Padding characters used to bring values to an even length
const (
	SpacePadding byte = ' '
	NullPadding  byte = 0
)

// Separator delimits the values of a multi-valued element
const Separator = `\`

// Format describes the maximum (or fixed) character width of a VR and the byte
// used to pad it to an even length.
// see https://dicom.nema.org/medical/dicom/current/output/chtml/part05/sect_6.2.html
type Format struct {
	Size    uint64
	Fixed   bool
	Padding byte
}

const unlimited = 1<<32 - 2

// Format returns the width and padding of v
func (v VR) Format() Format {
	switch v {
	case AE:
		return Format{16, false, NullPadding}
	case AS, AT:
		return Format{4, true, SpacePadding}
	case CS:
		return Format{16, false, SpacePadding}
	case DA:
		return Format{8, true, SpacePadding}
	case DS:
		return Format{16, false, SpacePadding}
	case DT:
		return Format{26, false, SpacePadding}
	case FL:
		return Format{4, true, SpacePadding}
	case FD:
		return Format{8, true, SpacePadding}
	case IS:
		return Format{12, false, SpacePadding}
	case LO:
		return Format{64, false, SpacePadding}
	case LT:
		return Format{10240, false, SpacePadding}
	case OB:
		return Format{unlimited, false, NullPadding}
	case OD, OV:
		return Format{1<<32 - 8, false, SpacePadding}
	case OF, OL:
		return Format{1<<32 - 4, false, SpacePadding}
	case PN:
		return Format{64 * 5, false, SpacePadding}
	case SH:
		return Format{16, false, SpacePadding}
	case SL:
		return Format{4, true, SpacePadding}
	case SQ:
		return Format{0, false, SpacePadding}
	case SS:
		return Format{2, true, SpacePadding}
	case ST:
		return Format{1024, false, SpacePadding}
	case SV:
		return Format{8, true, SpacePadding}
	case TM:
		return Format{14, false, SpacePadding}
	case UI:
		return Format{64, false, NullPadding}
	case UL:
		return Format{4, true, SpacePadding}
	case US:
		return Format{2, true, SpacePadding}
	case UV:
		return Format{8, true, SpacePadding}
	default:
		return Format{unlimited, false, SpacePadding}
	}
}

// FormatFloat renders f for storage or display under v. The precision is the VR
// width minus one: fixed notation for fixed width VRs, shortest general notation
// otherwise. bitSize is 32 for float32 values.
func FormatFloat(v VR, f float64, bitSize int) string {
	format := v.Format()
	prec := int(format.Size) - 1
	if prec < 0 || prec > 64 {
		prec = -1
	}
	if format.Fixed {
		return strconv.FormatFloat(f, 'f', prec, bitSize)
	}
	return strconv.FormatFloat(f, 'g', prec, bitSize)
}

// Pad appends the padding byte of v when b has an odd length
func Pad(v VR, b []byte) []byte {
	return PadWith(b, v.Format().Padding)
}

// PadWith appends p when b has an odd length
func PadWith(b []byte, p byte) []byte {
	if len(b)%2 != 0 {
		b = append(b, p)
	}
	return b
}

// Trim strips trailing NUL and whitespace padding
func Trim(s string) string {
	return strings.TrimRight(s, "\x00 \t\r\n")
}
