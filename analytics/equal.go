package analytics

import "reflect"

// Equatable is implemented by event types that define their own equality.
type Equatable[T any] interface {
	Equal(other T) bool
}

// Equal compares two events, preferring Equatable and falling back to
// structural comparison.
func Equal[T any](a, b T) bool {
	if e, ok := any(a).(Equatable[T]); ok {
		return e.Equal(b)
	}
	return reflect.DeepEqual(a, b)
}

// IsNil reports whether v is nil, including typed nils held in interfaces.
func IsNil[T any](v T) bool {
	val := any(v)
	if val == nil {
		return true
	}
	switch rv := reflect.ValueOf(val); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
