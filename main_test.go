package sqlstr

import (
	"errors"
	"reflect"
	"testing"
)

type (
	B  = testing.B
	T  = testing.T
	TB = testing.TB
)

func eq(t TB, expected interface{}, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected:\n%#v\nactual:\n%#v", expected, actual)
	}
}

func errIs(t TB, expected error, actual error) {
	t.Helper()
	if !errors.Is(actual, expected) {
		t.Fatalf("expected error matching:\n%v\nactual:\n%#v", expected, actual)
	}
}

func noErr(t TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %+v", err)
	}
}

func ptr[A any](val A) *A { return &val }
