package supabase

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// flexID accepts string or numeric primary keys.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	*f = flexID(strings.TrimSpace(string(b)))
	return nil
}

// amount accepts integer or decimal columns and rounds them.
type amount float64

func (a amount) int() int {
	if math.IsNaN(float64(a)) {
		return 0
	}
	return int(math.Round(float64(a)))
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
