package coll

import "unsafe"

// Storage tags carried by the flat array primitives. A collection view
// inspects the tag of its source array to decide how elements are stored.
const (
	TagValue   byte = 'F' // elements are copied into the bucket in place
	TagPointer byte = 'P' // elements are machine-word references
)

// wordSize is the stride of pointer-kind storage.
var wordSize = int(unsafe.Sizeof(uintptr(0)))

// Array is the flat storage primitive that collections wrap: a contiguous
// byte bucket plus a tag identifying how elements are stored in it.
// Collections delegate raw allocation and copying to this layer and never
// interpret element bytes themselves.
type Array struct {
	Tag  byte
	Data []byte
}

// NewValueArray allocates a value-tagged bucket of capacity*stride bytes.
func NewValueArray(capacity, stride int) (*Array, error) {
	data, err := allocBucket(capacity, stride)
	if err != nil {
		return nil, err
	}
	return &Array{Tag: TagValue, Data: data}, nil
}

// NewPointerArray allocates a pointer-tagged bucket of capacity slots,
// each one machine word wide.
func NewPointerArray(capacity int) (*Array, error) {
	data, err := allocBucket(capacity, wordSize)
	if err != nil {
		return nil, err
	}
	return &Array{Tag: TagPointer, Data: data}, nil
}

// allocBucket validates capacity and stride and returns a zeroed bucket.
// The multiplication is guarded so a huge capacity cannot wrap around and
// silently allocate a short buffer.
func allocBucket(capacity, stride int) ([]byte, error) {
	if stride <= 0 {
		return nil, ErrInvalidStride
	}
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	if capacity > maxInt/stride {
		return nil, ErrCapacityOverflow
	}
	return make([]byte, capacity*stride), nil
}

const maxInt = int(^uint(0) >> 1)

// isZero reports whether every byte in b is zero. The all-zero pattern is
// the reserved "empty slot" sentinel in sparse stores.
func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
