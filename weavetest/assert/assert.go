/*
Package assert holds the few assertions needed by tests that stay away
from a full assertion library.
*/
package assert

import (
	"reflect"
)

// Tester is the part of testing.TB used here.
type Tester interface {
	Helper()
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil, including typed nil pointers.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if !isNil(value) {
		t.Fatalf("want nil, got %+v", value)
	}
}

// Equal compares with reflect.DeepEqual.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("values not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}
