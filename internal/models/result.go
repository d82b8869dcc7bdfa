package models

import "encoding/json"

// Result holds either a value or an error. It is used where several
// independent fetches are reported together and one failure must not hide
// the others.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] { return Result[T]{value: v} }

// Err wraps a failure.
func Err[T any](err error) Result[T] { return Result[T]{err: err} }

// From builds a Result from a (value, error) pair.
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the result holds a value.
func (r Result[T]) IsOk() bool { return r.err == nil }

// Unwrap returns the value and error.
func (r Result[T]) Unwrap() (T, error) { return r.value, r.err }

// ValueOr returns the value, or def when the result is an error.
func (r Result[T]) ValueOr(def T) T {
	if r.err != nil {
		return def
	}
	return r.value
}

// Error returns the wrapped error, or nil.
func (r Result[T]) Error() error { return r.err }

// MarshalJSON encodes {"ok":true,"data":...} or {"ok":false,"error":"..."}.
func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.err != nil {
		return json.Marshal(struct {
			OK    bool   `json:"ok"`
			Error string `json:"error"`
		}{false, r.err.Error()})
	}
	return json.Marshal(struct {
		OK   bool `json:"ok"`
		Data T    `json:"data"`
	}{true, r.value})
}
