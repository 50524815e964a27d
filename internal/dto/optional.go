package dto

import (
	"bytes"
	"encoding/json"
)

// Optional carries the tri-state a sparse update payload needs: a field can
// be absent (leave untouched), present-null or present-empty (clear), or
// present with a value (set).
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON is only invoked when the key is present, which is what makes
// Set reliable for presence checks.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON renders the value, or null when unset/cleared.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns the value as a nullable pointer.
func (o Optional[T]) Ptr() *T {
	if !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}
