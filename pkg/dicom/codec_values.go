package dicom

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jpfielding/fiducials.go/pkg/dicom/vr"
)

// Number is the set of Go types numeric attributes convert to and from
type Number interface {
	int8 | int16 | int32 | int64 | int | uint8 | uint16 | uint32 | uint64 | uint | float32 | float64
}

// FormatNumber renders x the way it is stored in a string VR: integers in plain
// decimal, floats with the precision of v
func FormatNumber[T Number](v vr.VR, x T) string {
	switch n := any(x).(type) {
	case float32:
		return vr.FormatFloat(v, float64(n), 32)
	case float64:
		return vr.FormatFloat(v, n, 64)
	default:
		return fmt.Sprint(x)
	}
}

// ParseNumber converts decimal text to T. Integer types accept a fractional
// value and truncate it.
func ParseNumber[T Number](s string) (T, error) {
	var zero T
	s = strings.TrimSpace(s)
	switch any(zero).(type) {
	case float32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return zero, err
		}
		return T(f), nil
	case float64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return zero, err
		}
		return T(f), nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return T(i), nil
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return T(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return zero, err
	}
	return T(f), nil
}

func encodeString(v vr.VR, s string) []byte {
	return vr.Pad(v, []byte(s))
}

// encodeNumbers stores values as backslash delimited text for string VRs and as
// little endian binary otherwise
func encodeNumbers[T Number](v vr.VR, values []T) []byte {
	if v.IsString() {
		parts := make([]string, len(values))
		for i, x := range values {
			parts[i] = FormatNumber(v, x)
		}
		return encodeString(v, strings.Join(parts, vr.Separator))
	}
	size := v.ValueSize()
	if size == 0 {
		panic(fmt.Sprintf("dicom: VR %s cannot hold binary numbers", v))
	}
	le := binary.LittleEndian
	b := make([]byte, size*len(values))
	for i, x := range values {
		p := b[i*size:]
		switch v {
		case vr.FL, vr.OF:
			le.PutUint32(p, math.Float32bits(float32(x)))
		case vr.FD, vr.OD:
			le.PutUint64(p, math.Float64bits(float64(x)))
		case vr.SS:
			le.PutUint16(p, uint16(int16(x)))
		case vr.US, vr.OW:
			le.PutUint16(p, uint16(x))
		case vr.SL:
			le.PutUint32(p, uint32(int32(x)))
		case vr.UL, vr.OL, vr.AT:
			le.PutUint32(p, uint32(x))
		case vr.SV:
			le.PutUint64(p, uint64(int64(x)))
		case vr.UV, vr.OV:
			le.PutUint64(p, uint64(x))
		default:
			p[0] = byte(x)
		}
	}
	return b
}

// decodeNumbers is the inverse of encodeNumbers. Empty text components are skipped.
func decodeNumbers[T Number](v vr.VR, b []byte) ([]T, error) {
	if v.IsString() {
		s := vr.Trim(string(b))
		if s == "" {
			return nil, nil
		}
		var out []T
		for _, part := range strings.Split(s, vr.Separator) {
			part = vr.Trim(part)
			if part == "" {
				continue
			}
			n, err := ParseNumber[T](part)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s value %q: %w", v, part, err)
			}
			out = append(out, n)
		}
		return out, nil
	}
	size := v.ValueSize()
	if size == 0 || len(b)%size != 0 {
		return nil, fmt.Errorf("invalid %s value length %d", v, len(b))
	}
	le := binary.LittleEndian
	out := make([]T, len(b)/size)
	for i := range out {
		p := b[i*size:]
		switch v {
		case vr.FL, vr.OF:
			out[i] = T(math.Float32frombits(le.Uint32(p)))
		case vr.FD, vr.OD:
			out[i] = T(math.Float64frombits(le.Uint64(p)))
		case vr.SS:
			out[i] = T(int16(le.Uint16(p)))
		case vr.US, vr.OW:
			out[i] = T(le.Uint16(p))
		case vr.SL:
			out[i] = T(int32(le.Uint32(p)))
		case vr.UL, vr.OL, vr.AT:
			out[i] = T(le.Uint32(p))
		case vr.SV:
			out[i] = T(int64(le.Uint64(p)))
		case vr.UV, vr.OV:
			out[i] = T(le.Uint64(p))
		default:
			out[i] = T(p[0])
		}
	}
	return out, nil
}
