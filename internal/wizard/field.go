package wizard

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Field is an optional payload member that remembers whether the key was
// absent, explicitly null, or carried a value.
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Of returns a Field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Null returns a Field that clears its column.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		var zero T
		f.Value = zero
		f.Null = true
		return nil
	}
	f.Null = false
	return json.Unmarshal(b, &f.Value)
}

// Present reports whether the field carries a non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

func (f *Field[T]) isNull() bool {
	return f.Null
}

func (f *Field[T]) value() interface{} {
	return f.Value
}

// Date accepts either RFC 3339 timestamps or plain YYYY-MM-DD dates.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("date must be a string")
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t.UTC()
			return nil
		}
	}
	return errors.New("date must be RFC 3339 or YYYY-MM-DD")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

// AssetRef is an asset id as sent by the client: a number, a numeric string,
// or a client-side placeholder that does not resolve to a stored asset.
type AssetRef struct {
	raw string
}

func (r *AssetRef) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if bytes.Equal(trimmed, []byte("null")) {
		r.raw = ""
		return nil
	}
	if s, err := strconv.Unquote(string(trimmed)); err == nil {
		r.raw = s
		return nil
	}
	r.raw = string(trimmed)
	return nil
}

// Resolve returns the numeric asset id, if the reference carries one.
func (r AssetRef) Resolve() (uint, bool) {
	s := strings.TrimSpace(r.raw)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func (r AssetRef) String() string {
	return r.raw
}
