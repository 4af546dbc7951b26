package source

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Position is a residue coordinate that decodes from a JSON number or string.
// Feeds mark uncertain ends with prefixes such as "<" or ">"; those are
// stripped. Unknown positions ("?", "~", "") decode as invalid rather than
// failing the whole document.
type Position struct {
	Value int
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Position) UnmarshalJSON(b []byte) error {
	*p = Position{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	}
	s = strings.TrimLeft(strings.TrimSpace(s), "<>=~")
	if n, err := strconv.Atoi(s); err == nil {
		*p = Position{Value: n, Valid: true}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p Position) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(p.Value)), nil
}

// Span returns the ordered pair (start, end) when both positions are valid.
func Span(begin, end Position) (int, int, bool) {
	if !begin.Valid || !end.Valid {
		return 0, 0, false
	}
	if begin.Value > end.Value {
		return end.Value, begin.Value, true
	}
	return begin.Value, end.Value, true
}
