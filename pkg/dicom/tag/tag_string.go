package tag

import (
	"encoding/json"
	"fmt"
	"strings"
)

// String returns a string representation of the Tag (GGGG,EEEE)
func (t Tag) String() string {
	return fmt.Sprintf("(%04X,%04X)", t.Group, t.Element)
}

// MarshalJSON returns a JSON representation of the Tag
func (t Tag) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON parses the "(GGGG,EEEE)" form written by MarshalJSON
func (t *Tag) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Parse reads a tag written as "(GGGG,EEEE)" or "GGGG,EEEE"
func Parse(s string) (Tag, error) {
	var g, e uint16
	s = strings.Trim(strings.TrimSpace(s), "()")
	if _, err := fmt.Sscanf(s, "%4x,%4x", &g, &e); err != nil {
		return Tag{}, fmt.Errorf("invalid tag %q: %w", s, err)
	}
	return Tag{Group: g, Element: e}, nil
}
