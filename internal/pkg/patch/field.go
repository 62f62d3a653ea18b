// Package patch provides a JSON field wrapper that tells apart an absent
// field, an explicit null and a concrete value, as needed by partial updates.
package patch

import (
	"bytes"
	"encoding/json"
)

// Field is the zero value when the key was absent from the payload.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a present, non-null field.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// Null returns a present field that was explicitly null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports whether the field carries a concrete value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// UnmarshalJSON is only invoked by encoding/json when the key exists.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON renders absent and null fields as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// ValueOrNil returns the wrapped value for present fields and nil otherwise.
// It is registered as a validator custom type func so struct tags apply to
// the wrapped value.
func (f Field[T]) ValueOrNil() any {
	if !f.Present() {
		return nil
	}
	return f.Value
}
