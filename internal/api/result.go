package api

import "errors"

const unknownError = "Unknown error occurred"

// Result holds exactly one of Data or Error
type Result[T any] struct {
	Data  *T
	Error string
}

// OK reports whether the call succeeded
func (r Result[T]) OK() bool {
	return r.Error == ""
}

// Err returns the failure as an error, or nil on success
func (r Result[T]) Err() error {
	if r.OK() {
		return nil
	}
	return errors.New(r.Error)
}

// Success wraps data in a Result
func Success[T any](data T) Result[T] {
	return Result[T]{Data: &data}
}

// Failure wraps an error message in a Result. An empty message is replaced
// so that a failed Result never looks successful.
func Failure[T any](msg string) Result[T] {
	if msg == "" {
		msg = unknownError
	}
	return Result[T]{Error: msg}
}
