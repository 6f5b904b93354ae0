package fiducials

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var shapeTokens = map[Shape]string{
	ShapePoint:   "POINT",
	ShapeLine:    "LINE",
	ShapePlane:   "PLANE",
	ShapeSurface: "SURFACE",
	ShapeRuler:   "RULER",
	ShapeLShape:  "L_SHAPE",
	ShapeTShape:  "T_SHAPE",
	ShapeShape:   "SHAPE",
}

// ShapeToString returns the ShapeType token of s. ShapeInvalid has no token:
// it logs a warning and returns "".
func ShapeToString(s Shape) string {
	token, ok := shapeTokens[s]
	if !ok {
		slog.Warn("shape has no ShapeType token", "shape", uint8(s))
		return ""
	}
	return token
}

// ParseShape maps a ShapeType token to its shape; anything else is ShapeInvalid
func ParseShape(token string) Shape {
	for s, t := range shapeTokens {
		if t == token {
			return s
		}
	}
	return ShapeInvalid
}

func (s Shape) String() string {
	if token, ok := shapeTokens[s]; ok {
		return token
	}
	return "INVALID"
}

func (s Shape) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(b []byte) error {
	*s = ParseShape(string(b))
	if *s == ShapeInvalid && string(b) != "INVALID" {
		return fmt.Errorf("unknown shape %q", b)
	}
	return nil
}

func (p PrivateShape) String() string {
	switch p {
	case Sphere:
		return "SPHERE"
	case Cube:
		return "CUBE"
	}
	return fmt.Sprintf("PrivateShape(%d)", uint8(p))
}

// ParsePrivateShape maps SPHERE and CUBE; anything else is not a private shape
func ParsePrivateShape(token string) (PrivateShape, bool) {
	switch token {
	case "SPHERE":
		return Sphere, true
	case "CUBE":
		return Cube, true
	}
	return 0, false
}

func (p PrivateShape) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *PrivateShape) UnmarshalText(b []byte) error {
	v, ok := ParsePrivateShape(string(b))
	if !ok {
		return fmt.Errorf("unknown private shape %q", b)
	}
	*p = v
	return nil
}

func (c Color) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatFloat(float64(v), 'g', -1, 32)
	}
	return strings.Join(parts, ",")
}

// ParseColor reads "r,g,b,a". A value without exactly four parts is not a color
// and returns nil; a part that is not a number is an error.
func ParseColor(s string) (*Color, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, nil
	}
	var c Color
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c[i] = float32(v)
	}
	return &c, nil
}

func formatSize(size float32) string {
	return strconv.FormatFloat(float64(size), 'f', 6, 32)
}

func parseSize(s string) (float32, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return float32(v), nil
}

func formatVisibility(visible bool) string {
	if visible {
		return "true"
	}
	return "false"
}

// parseVisibility is true only for "true"
func parseVisibility(s string) bool {
	return s == "true"
}
