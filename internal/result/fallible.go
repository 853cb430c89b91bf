package result

import (
	"errors"
	"fmt"
)

// ErrLoading is returned by Get on a Loading result.
var ErrLoading = errors.New("result is still loading")

// ErrUnspecified stands in for the nil error passed to Failure.
var ErrUnspecified = errors.New("unspecified failure")

// PanicError carries a value recovered from a panic inside RunFallible.
type PanicError struct {
	Value interface{}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// RunFallible runs fn and converts its outcome into a Result. A returned
// error or a panic becomes Failure; nothing is rethrown.
func RunFallible[T any](fn func() (T, error)) (res Result[T]) {
	defer func() {
		if v := recover(); v != nil {
			res = Failure[T](&PanicError{Value: v})
		}
	}()

	v, err := fn()
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}
