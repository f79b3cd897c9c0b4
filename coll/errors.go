package coll

import "errors"

// Sentinel errors returned by collection and index array operations.
// Every fallible operation reports failure through its return value;
// nothing in this package panics on bad input.
var (
	ErrNilCollection    = errors.New("coll: nil collection")
	ErrDisposed         = errors.New("coll: collection has been disposed")
	ErrInvalidStride    = errors.New("coll: stride must be positive")
	ErrInvalidCapacity  = errors.New("coll: capacity must be non-negative")
	ErrStrideMismatch   = errors.New("coll: value length does not match stride")
	ErrIndexOutOfRange  = errors.New("coll: index out of range")
	ErrEmptySlot        = errors.New("coll: slot is empty")
	ErrNotFound         = errors.New("coll: value not found")
	ErrCapacityOverflow = errors.New("coll: capacity would overflow")
	ErrEmptyBuffer      = errors.New("coll: buffer is empty")
	ErrMisaligned       = errors.New("coll: buffer length is not a multiple of stride")
	ErrZeroValue        = errors.New("coll: all-zero values are reserved for empty slots")
	ErrPointerValue     = errors.New("coll: values containing pointers are not supported")
	ErrNilStore         = errors.New("coll: nil sparse store")
	ErrNotPositioned    = errors.New("coll: iterator is not positioned on an occupied slot")
)

// InvalidHandle is returned alongside an error by Add when no slot was
// assigned.
const InvalidHandle = -1
