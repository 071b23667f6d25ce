package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is the canonical record identifier used across all resources.
// The backend is inconsistent about emitting identifiers as JSON numbers or
// strings, so the coercion happens once here at the wire boundary and int64
// comparisons are used everywhere else.
type ID int64

// UnmarshalJSON accepts both numeric and string-encoded identifiers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshal id: %w", err)
		}
		if s == "" {
			*id = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse id %q: %w", s, err)
		}
		*id = ID(n)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("unmarshal id: %w", err)
	}
	*id = ID(n)
	return nil
}

// MarshalJSON always emits the numeric form.
func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(id), 10)), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
