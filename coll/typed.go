package coll

import (
	"reflect"
	"unsafe"
)

// Put stores a typed value in the index array, returning its handle.
// T's size must equal the array's stride, and T must not contain
// pointers: slot bytes are not traced by the garbage collector.
func Put[T any](ia *IndexArray, v T) (int, error) {
	b, err := valueBytes(ia, &v)
	if err != nil {
		return InvalidHandle, err
	}
	return ia.Add(b)
}

// At reads the typed value stored at the given handle.
func At[T any](ia *IndexArray, index int) (T, error) {
	var v T
	b, err := valueBytes(ia, &v)
	if err != nil {
		return v, err
	}
	err = ia.GetAt(index, b)
	return v, err
}

// valueBytes exposes v's storage as a byte slice of the array's stride.
func valueBytes[T any](ia *IndexArray, v *T) ([]byte, error) {
	if ia == nil {
		return nil, ErrNilCollection
	}
	size := int(unsafe.Sizeof(*v))
	if size != ia.Stride() {
		return nil, ErrStrideMismatch
	}
	if hasPointers(reflect.TypeFor[T]()) {
		return nil, ErrPointerValue
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), size), nil
}

// hasPointers reports whether values of t embed pointers the GC would
// need to trace.
func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
