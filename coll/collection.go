package coll

import (
	"bytes"
	"iter"
)

// Kind describes how a collection stores its elements.
type Kind uint8

const (
	// KindValue collections copy element bytes into their slots.
	KindValue Kind = iota
	// KindPointer collections hold machine-word references; their stride
	// is always the platform word size. Callers pass the word's bytes,
	// so the copy path is the same as for values.
	KindPointer
)

// Collection is a stride-aware dense container over a flat byte buffer.
// Elements are opaque byte blocks of a fixed size chosen at construction.
// The buffer is either owned (allocated here, replaced on growth) or
// borrowed from a caller-managed Array (view mode).
type Collection struct {
	buf      []byte
	stride   int
	length   int
	kind     Kind
	owned    bool
	disposed bool
}

// NewCollection allocates a collection of capacity slots, stride bytes
// each. The buffer is owned and zeroed. Storage defaults to pointer kind;
// view constructors override it based on the source array's tag.
func NewCollection(capacity, stride int) (*Collection, error) {
	buf, err := allocBucket(capacity, stride)
	if err != nil {
		return nil, err
	}
	return &Collection{
		buf:    buf,
		stride: stride,
		kind:   KindPointer,
		owned:  true,
	}, nil
}

// NewCollectionView wraps an existing array's bucket without copying.
// The storage kind is inferred from the array tag: 'F' stores values with
// the provided stride, 'P' stores word-sized references, and unknown tags
// fall back to value storage. A nil array yields an empty value view.
// The owned flag records whether disposal releases the buffer; growth
// always replaces a borrowed buffer with a fresh owned one, leaving the
// caller's memory intact.
func NewCollectionView(arr *Array, stride, length int, owned bool) (*Collection, error) {
	if stride <= 0 {
		return nil, ErrInvalidStride
	}
	c := &Collection{stride: stride, kind: KindValue, owned: owned}
	if arr == nil {
		return c, nil
	}

	switch arr.Tag {
	case TagPointer:
		c.kind = KindPointer
		c.stride = wordSize
	case TagValue:
		// value storage with the caller's stride
	default:
		// unknown tag, treat as value storage
	}

	if len(arr.Data)%c.stride != 0 {
		return nil, ErrMisaligned
	}
	capacity := len(arr.Data) / c.stride
	if length < 0 || length > capacity {
		return nil, ErrIndexOutOfRange
	}
	c.buf = arr.Data
	c.length = length
	return c, nil
}

// Len returns the number of logically occupied elements.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return c.length
}

// Cap returns the slot capacity of the underlying buffer.
func (c *Collection) Cap() int {
	if c == nil || c.stride == 0 {
		return 0
	}
	return len(c.buf) / c.stride
}

// Stride returns the element size in bytes.
func (c *Collection) Stride() int {
	if c == nil {
		return 0
	}
	return c.stride
}

// Kind returns the storage kind.
func (c *Collection) Kind() Kind {
	if c == nil {
		return KindValue
	}
	return c.kind
}

// Owned reports whether the collection owns its buffer. Borrowed buffers
// are never released or replaced in place.
func (c *Collection) Owned() bool {
	return c != nil && c.owned
}

// Bytes returns the raw backing buffer. The slice aliases live storage;
// callers must not grow it.
func (c *Collection) Bytes() []byte {
	if c == nil {
		return nil
	}
	return c.buf
}

// Append copies one element into the next free slot, growing the buffer
// by doubling when full. value must be exactly stride bytes.
func (c *Collection) Append(value []byte) error {
	if c == nil {
		return ErrNilCollection
	}
	if c.disposed {
		return ErrDisposed
	}
	if len(value) != c.stride {
		return ErrStrideMismatch
	}
	if c.length == c.Cap() {
		if err := c.grow(); err != nil {
			return err
		}
	}
	copy(c.buf[c.length*c.stride:], value)
	c.length++
	return nil
}

// grow doubles the buffer capacity, starting at 8 slots when empty.
// Existing bytes are copied verbatim; the new region is zeroed. A grown
// collection always owns its buffer afterwards — a borrowed view's
// memory stays with its caller.
func (c *Collection) grow() error {
	capacity := c.Cap()
	newCap := capacity * 2
	if newCap == 0 {
		newCap = 8
	}
	if newCap > maxInt/c.stride {
		return ErrCapacityOverflow
	}
	next := make([]byte, newCap*c.stride)
	copy(next, c.buf)
	c.buf = next
	c.owned = true
	return nil
}

// RemoveByValue removes the first element whose bytes exactly match
// value, shifting all later elements left one slot and zeroing the
// vacated tail slot. Order is preserved: collections also back ordered
// list semantics, so this is deliberately not a swap-remove.
func (c *Collection) RemoveByValue(value []byte) error {
	if c == nil {
		return ErrNilCollection
	}
	if c.disposed {
		return ErrDisposed
	}
	if len(value) != c.stride {
		return ErrStrideMismatch
	}
	for i := 0; i < c.length; i++ {
		slot := c.buf[i*c.stride : (i+1)*c.stride]
		if !bytes.Equal(slot, value) {
			continue
		}
		copy(c.buf[i*c.stride:], c.buf[(i+1)*c.stride:c.length*c.stride])
		clear(c.buf[(c.length-1)*c.stride : c.length*c.stride])
		c.length--
		return nil
	}
	return ErrNotFound
}

// SetData bulk-copies count elements from data into the front of the
// buffer and sets the length accordingly.
func (c *Collection) SetData(data []byte, count int) error {
	if c == nil {
		return ErrNilCollection
	}
	if c.disposed {
		return ErrDisposed
	}
	if count < 0 || count > c.Cap() {
		return ErrIndexOutOfRange
	}
	if len(data) < count*c.stride {
		return ErrStrideMismatch
	}
	copy(c.buf, data[:count*c.stride])
	c.length = count
	return nil
}

// Clear zeroes the entire allocated capacity, not just the occupied
// prefix, and resets the length. Sparse stores built on this collection
// rely on the full wipe.
func (c *Collection) Clear() {
	if c == nil {
		return
	}
	clear(c.buf)
	c.length = 0
}

// Dispose releases the collection's hold on its buffer. Borrowed buffers
// are returned to their caller untouched. Safe to call on nil and safe
// to call more than once.
func (c *Collection) Dispose() {
	if c == nil || c.disposed {
		return
	}
	c.buf = nil
	c.length = 0
	c.disposed = true
}

// All returns an iterator over the occupied elements in order. The
// yielded slices alias live slots and must be treated as read-only.
func (c *Collection) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		if c == nil {
			return
		}
		for i := 0; i < c.length; i++ {
			if !yield(c.buf[i*c.stride : (i+1)*c.stride]) {
				return
			}
		}
	}
}

// Iterator returns a position cursor over the occupied elements.
func (c *Collection) Iterator() *DenseIterator {
	if c == nil {
		return nil
	}
	return &DenseIterator{coll: c}
}
