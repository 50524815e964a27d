package dto

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FlexInt64 accepts a numeric reference arriving either as a JSON number or
// as a numeric string. Empty strings, null and non-numeric values all
// normalize to the invalid (null) state instead of failing the bind.
type FlexInt64 struct {
	Valid bool
	Value int64
}

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil
		}
		f.Valid = true
		f.Value = n
		return nil
	}

	var n int64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return nil
	}
	f.Valid = true
	f.Value = n
	return nil
}

func (f FlexInt64) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns the value as a nullable pointer.
func (f FlexInt64) Ptr() *int64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// Fecha accepts calendar dates as "2006-01-02" or full RFC 3339 timestamps.
// A blank string normalizes to the invalid (null) state.
type Fecha struct {
	Valid bool
	Time  time.Time
}

func (f *Fecha) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
	}
	f.Valid = true
	f.Time = t
	return nil
}

func (f Fecha) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Time.Format("2006-01-02"))
}

// Ptr returns the date as a nullable pointer.
func (f Fecha) Ptr() *time.Time {
	if !f.Valid {
		return nil
	}
	t := f.Time
	return &t
}
