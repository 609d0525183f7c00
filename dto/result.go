// Package dto mirrors the capability tiers with zero dependency on
// transport-native types. Every operation answers through the
// OperationResult envelope, so hosts can implement, validate, and test
// the contract without a live transport. The envelope and the native
// error taxonomy are isomorphic: FromError and Err convert losslessly
// in both directions over the stable wire-code table.
package dto

import "fmt"

// Void is the success payload of operations that return nothing.
type Void struct{}

// OperationResult holds either a success value of type T or a numeric
// error code with a message and a string detail map. The two states are
// mutually exclusive.
type OperationResult[T any] struct {
	value     T
	ok        bool
	errorCode int
	message   string
	details   map[string]string
}

// Success wraps a success payload.
func Success[T any](value T) OperationResult[T] {
	return OperationResult[T]{value: value, ok: true}
}

// Failure wraps an error code, message, and detail map.
func Failure[T any](code int, message string, details map[string]string) OperationResult[T] {
	return OperationResult[T]{errorCode: code, message: message, details: details}
}

// FromError classifies err and wraps it using the stable code table.
func FromError[T any](err error) OperationResult[T] {
	code, message, details := Encode(err)
	return Failure[T](code, message, details)
}

// OK reports whether the result carries a success payload.
func (r OperationResult[T]) OK() bool {
	return r.ok
}

// Value returns the success payload and whether one is present.
func (r OperationResult[T]) Value() (T, bool) {
	return r.value, r.ok
}

// ErrorCode returns the wire code, or 0 for a success.
func (r OperationResult[T]) ErrorCode() int {
	return r.errorCode
}

// Message returns the human-readable failure message.
func (r OperationResult[T]) Message() string {
	return r.message
}

// Details returns a copy of the failure detail map.
func (r OperationResult[T]) Details() map[string]string {
	if r.details == nil {
		return nil
	}
	out := make(map[string]string, len(r.details))
	for k, v := range r.details {
		out[k] = v
	}
	return out
}

// Detail returns one failure detail and whether it was set.
func (r OperationResult[T]) Detail(key string) (string, bool) {
	v, ok := r.details[key]
	return v, ok
}

// Err reconstructs the native error for a failure, or nil for a
// success. Round-tripping an error through FromError and Err preserves
// its code and context.
func (r OperationResult[T]) Err() error {
	if r.ok {
		return nil
	}
	return Decode(r.errorCode, r.message, r.details)
}

// String describes the result without exposing the payload.
func (r OperationResult[T]) String() string {
	if r.ok {
		return "OperationResult(success)"
	}
	return fmt.Sprintf("OperationResult(code=%d, %s)", r.errorCode, r.message)
}
