// Package typeinfo answers the two type questions effect classification
// needs: is a type floating point once every level of pointer indirection
// is stripped, and does a value hold a non-null pointer.
package typeinfo

import "reflect"

// IsFloatingPoint reports whether t, after stripping all pointer
// indirections, is a floating-point type.
func IsFloatingPoint(t reflect.Type) bool {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsOwnedPointer reports whether v is a non-null pointer. A non-null
// pointer is assumed to reference owned heap memory, which implies a write
// effect; a null pointer denotes nothing referenced. The assumption
// over-reports: stack addresses and addresses of read-only data are
// indistinguishable from heap addresses here, and are flagged all the same.
func IsOwnedPointer(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer:
		return !rv.IsNil()
	default:
		return false
	}
}
