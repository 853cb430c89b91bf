package result

import (
	"errors"
	"io"
	"strconv"
	"testing"
)

func TestMapSuccess(t *testing.T) {
	r := Map(Success(21), func(n int) int { return n * 2 })
	if !r.IsSuccess() {
		t.Fatalf("status = %v, want success", r.Status())
	}
	if r.Data() != 42 {
		t.Errorf("Data() = %d, want 42", r.Data())
	}
}

func TestMapSkipsTransformForNonSuccess(t *testing.T) {
	called := false
	f := func(n int) string {
		called = true
		return strconv.Itoa(n)
	}

	loading := Map(Loading[int](), f)
	if !loading.IsLoading() {
		t.Errorf("Loading mapped to %v", loading.Status())
	}

	failed := Map(Failure[int](io.ErrUnexpectedEOF), f)
	if !failed.IsFailure() {
		t.Errorf("Failure mapped to %v", failed.Status())
	}
	if !errors.Is(failed.Err(), io.ErrUnexpectedEOF) {
		t.Errorf("Err() = %v, want io.ErrUnexpectedEOF", failed.Err())
	}

	if called {
		t.Error("transform must not be called for Loading or Failure")
	}
}

func TestThen(t *testing.T) {
	parse := func(s string) (int, error) { return strconv.Atoi(s) }

	ok := Then(Success("7"), parse)
	if !ok.IsSuccess() || ok.Data() != 7 {
		t.Errorf("Then(Success(7)) = %v", ok)
	}

	bad := Then(Success("x"), parse)
	if !bad.IsFailure() {
		t.Fatalf("Then(Success(x)) = %v, want failure", bad)
	}
	var numErr *strconv.NumError
	if !errors.As(bad.Err(), &numErr) {
		t.Errorf("expected *strconv.NumError, got %T", bad.Err())
	}

	called := false
	passthrough := Then(Failure[string](io.EOF), func(s string) (int, error) {
		called = true
		return 0, nil
	})
	if called || !errors.Is(passthrough.Err(), io.EOF) {
		t.Errorf("Then on Failure = %v (called=%v)", passthrough, called)
	}
}

func TestRunFallibleSuccess(t *testing.T) {
	r := RunFallible(func() (string, error) { return "ok", nil })
	v, err := r.Get()
	if err != nil || v != "ok" {
		t.Errorf("Get() = %q, %v; want ok, nil", v, err)
	}
}

func TestRunFallibleError(t *testing.T) {
	sentinel := errors.New("network down")
	r := RunFallible(func() (int, error) { return 0, sentinel })
	if !r.IsFailure() {
		t.Fatalf("status = %v, want failure", r.Status())
	}
	if r.Err() != sentinel {
		t.Errorf("Err() = %v, want original error", r.Err())
	}
}

func TestRunFalliblePanic(t *testing.T) {
	r := RunFallible(func() (int, error) {
		var m map[string]int
		m["boom"] = 1 // nil map write panics
		return 0, nil
	})
	if !r.IsFailure() {
		t.Fatalf("status = %v, want failure", r.Status())
	}
	var pe *PanicError
	if !errors.As(r.Err(), &pe) {
		t.Fatalf("expected *PanicError, got %T", r.Err())
	}
}

func TestRunFalliblePanicWithError(t *testing.T) {
	r := RunFallible(func() (int, error) { panic(io.ErrClosedPipe) })
	if !errors.Is(r.Err(), io.ErrClosedPipe) {
		t.Errorf("expected wrapped io.ErrClosedPipe, got %v", r.Err())
	}
}

func TestGetLoading(t *testing.T) {
	var r Result[int]
	if !r.IsLoading() {
		t.Fatal("zero value should be Loading")
	}
	if _, err := r.Get(); !errors.Is(err, ErrLoading) {
		t.Errorf("Get() err = %v, want ErrLoading", err)
	}
}

func TestFailureNeverNil(t *testing.T) {
	r := Failure[int](nil)
	if r.Err() == nil {
		t.Fatal("Failure(nil) should still carry an error")
	}
	if !errors.Is(r.Err(), ErrUnspecified) {
		t.Errorf("Failure(nil).Err() = %v, want ErrUnspecified", r.Err())
	}
}
