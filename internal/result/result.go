// Package result provides the outcome type used at every call boundary
// between the repository, use cases and state holders.
package result

import "fmt"

// Status tags which variant a Result holds.
type Status int

// Result variants.
const (
	StatusLoading Status = iota
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is a tagged union of Loading, Success(data) and Failure(err).
// The zero value is Loading.
type Result[T any] struct {
	status Status
	data   T
	err    error
}

// Loading returns a Result with no payload.
func Loading[T any]() Result[T] {
	return Result[T]{status: StatusLoading}
}

// Success wraps data.
func Success[T any](data T) Result[T] {
	return Result[T]{status: StatusSuccess, data: data}
}

// Failure wraps err. A nil err is replaced so that a Failure always carries
// an error.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = ErrUnspecified
	}
	return Result[T]{status: StatusFailure, err: err}
}

func (r Result[T]) Status() Status  { return r.status }
func (r Result[T]) IsLoading() bool { return r.status == StatusLoading }
func (r Result[T]) IsSuccess() bool { return r.status == StatusSuccess }
func (r Result[T]) IsFailure() bool { return r.status == StatusFailure }

// Data returns the payload; it is the zero value unless IsSuccess.
func (r Result[T]) Data() T { return r.data }

// Err returns the failure cause; nil unless IsFailure.
func (r Result[T]) Err() error { return r.err }

// Get unwraps the Result into Go's usual (value, error) pair. Loading is
// reported as ErrLoading.
func (r Result[T]) Get() (T, error) {
	switch r.status {
	case StatusSuccess:
		return r.data, nil
	case StatusFailure:
		return r.data, r.err
	default:
		return r.data, ErrLoading
	}
}

func (r Result[T]) String() string {
	switch r.status {
	case StatusSuccess:
		return fmt.Sprintf("Success(%v)", r.data)
	case StatusFailure:
		return fmt.Sprintf("Failure(%v)", r.err)
	default:
		return "Loading"
	}
}

// Map applies f to the payload of a Success. Loading and Failure pass
// through unchanged and f is not called.
func Map[T, R any](r Result[T], f func(T) R) Result[R] {
	switch r.status {
	case StatusSuccess:
		return Success(f(r.data))
	case StatusFailure:
		return Failure[R](r.err)
	default:
		return Loading[R]()
	}
}

// Then is Map for a fallible transform: an error from f turns the Success
// into a Failure.
func Then[T, R any](r Result[T], f func(T) (R, error)) Result[R] {
	switch r.status {
	case StatusSuccess:
		v, err := f(r.data)
		if err != nil {
			return Failure[R](err)
		}
		return Success(v)
	case StatusFailure:
		return Failure[R](r.err)
	default:
		return Loading[R]()
	}
}
