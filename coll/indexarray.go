package coll

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// IndexArray is a sparse handle-addressed store built on a Collection
// used purely as fixed-capacity slot storage. A slot is empty iff all of
// its stride bytes are zero; the all-zero pattern is reserved and never a
// valid occupied value. Handles are plain slot indices: stable across
// additions, removals and growth, valid for as long as the slot stays
// occupied.
//
// Occupancy is structural. The backing collection's length field is not
// used; there is no free list and no bitmap — empty slots are found by
// probing for zero bytes.
type IndexArray struct {
	coll *Collection
	// nextSlot is where the next Add starts probing. A round-robin hint,
	// not authoritative: RemoveAt never rewinds it.
	nextSlot int
}

// NewIndexArray allocates a sparse store with the given slot capacity and
// element stride. All slots start empty.
func NewIndexArray(capacity, stride int) (*IndexArray, error) {
	c, err := NewCollection(capacity, stride)
	if err != nil {
		return nil, err
	}
	return &IndexArray{coll: c}, nil
}

// FromDense builds an IndexArray sized to a dense collection's capacity,
// copying every non-zero element in index order. Because a dense
// collection's occupied elements are contiguous from index zero, each
// element's handle equals its source index.
func FromDense(c *Collection) (*IndexArray, error) {
	if c == nil {
		return nil, ErrNilCollection
	}
	ia, err := NewIndexArray(c.Cap(), c.Stride())
	if err != nil {
		return nil, err
	}
	stride := c.Stride()
	for i := 0; i < c.Cap(); i++ {
		slot := c.buf[i*stride : (i+1)*stride]
		if isZero(slot) {
			continue
		}
		if _, err := ia.Add(slot); err != nil {
			ia.Dispose()
			return nil, err
		}
	}
	return ia, nil
}

// FromView builds a non-owning IndexArray over caller-owned memory. The
// buffer is not zeroed: whatever byte pattern is already present
// determines initial occupancy, so the caller is responsible for
// zero-initializing the regions that should start empty. Disposing a
// view never touches the caller's bytes, and growth allocates a fresh
// owned buffer rather than replacing the caller's.
func FromView(buf []byte, stride int) (*IndexArray, error) {
	if stride <= 0 {
		return nil, ErrInvalidStride
	}
	if len(buf) == 0 {
		return nil, ErrEmptyBuffer
	}
	if len(buf)%stride != 0 {
		return nil, ErrMisaligned
	}
	return &IndexArray{
		coll: &Collection{buf: buf, stride: stride, kind: KindValue},
	}, nil
}

// Capacity returns the number of slots.
func (ia *IndexArray) Capacity() int {
	if ia == nil {
		return 0
	}
	return ia.coll.Cap()
}

// Stride returns the element size in bytes.
func (ia *IndexArray) Stride() int {
	if ia == nil {
		return 0
	}
	return ia.coll.Stride()
}

// IsEmptySlot reports whether the slot at index holds no value.
// Out-of-range indices read as empty.
func (ia *IndexArray) IsEmptySlot(index int) bool {
	if ia == nil || index < 0 || index >= ia.Capacity() {
		return true
	}
	stride := ia.coll.stride
	return isZero(ia.coll.buf[index*stride : (index+1)*stride])
}

// Add stores a copy of value in the first empty slot found by probing
// forward from the round-robin hint, wrapping at capacity, and returns
// the slot index as the handle. If every slot is occupied the backing
// buffer doubles, the value lands in the first slot of the new region,
// and probing resumes after it — a full but growable store never reports
// "full". The probe is O(capacity) in the worst case; that is the cost
// of having no free list.
//
// value must be exactly stride bytes and must not be all zero, since the
// all-zero pattern is what marks a slot empty.
func (ia *IndexArray) Add(value []byte) (int, error) {
	if ia == nil {
		return InvalidHandle, ErrNilCollection
	}
	if ia.coll.disposed {
		return InvalidHandle, ErrDisposed
	}
	stride := ia.coll.stride
	if len(value) != stride {
		return InvalidHandle, ErrStrideMismatch
	}
	if isZero(value) {
		return InvalidHandle, ErrZeroValue
	}

	capacity := ia.Capacity()
	for i := 0; i < capacity; i++ {
		slot := (ia.nextSlot + i) % capacity
		if !ia.IsEmptySlot(slot) {
			continue
		}
		copy(ia.coll.buf[slot*stride:], value)
		ia.nextSlot = (slot + 1) % capacity
		return slot, nil
	}

	// Every slot occupied: grow. The doubled buffer's new region comes
	// back zeroed, so all of it reads as empty; the value takes its
	// first slot.
	if err := ia.coll.grow(); err != nil {
		return InvalidHandle, err
	}
	copy(ia.coll.buf[capacity*stride:], value)
	ia.nextSlot = capacity + 1
	return capacity, nil
}

// GetAt copies the value at index into dst, which must be at least
// stride bytes. Fails with ErrEmptySlot if the slot holds no value.
// Never mutates the store.
func (ia *IndexArray) GetAt(index int, dst []byte) error {
	if ia == nil {
		return ErrNilCollection
	}
	if index < 0 || index >= ia.Capacity() {
		return ErrIndexOutOfRange
	}
	stride := ia.coll.stride
	if len(dst) < stride {
		return ErrStrideMismatch
	}
	slot := ia.coll.buf[index*stride : (index+1)*stride]
	if isZero(slot) {
		return ErrEmptySlot
	}
	copy(dst, slot)
	return nil
}

// RemoveAt zeroes the slot at index. Removing an already-empty slot is a
// harmless no-op that still succeeds: either way the slot is empty
// afterwards. The probe hint is left alone, so reuse of the freed slot is
// opportunistic rather than immediate.
func (ia *IndexArray) RemoveAt(index int) error {
	if ia == nil {
		return ErrNilCollection
	}
	if index < 0 || index >= ia.Capacity() {
		return ErrIndexOutOfRange
	}
	stride := ia.coll.stride
	clear(ia.coll.buf[index*stride : (index+1)*stride])
	return nil
}

// Count returns the number of occupied slots. O(capacity).
func (ia *IndexArray) Count() int {
	if ia == nil {
		return 0
	}
	n := 0
	for i := 0; i < ia.Capacity(); i++ {
		if !ia.IsEmptySlot(i) {
			n++
		}
	}
	return n
}

// Occupancy returns a snapshot of the occupied slot indices as a roaring
// bitmap, for set algebra across stores. The snapshot does not track
// later mutations; the slot bytes remain the source of truth.
func (ia *IndexArray) Occupancy() *roaring.Bitmap {
	bm := roaring.New()
	if ia == nil {
		return bm
	}
	for i := 0; i < ia.Capacity(); i++ {
		if !ia.IsEmptySlot(i) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

// Clear zeroes every slot and rewinds the probe hint. On a view this
// wipes the caller's buffer in place, matching owned semantics.
func (ia *IndexArray) Clear() {
	if ia == nil {
		return
	}
	ia.coll.Clear()
	ia.nextSlot = 0
}

// Dispose releases the backing collection. A borrowed view buffer is
// left intact for its caller. Safe on nil, safe to repeat.
func (ia *IndexArray) Dispose() {
	if ia == nil {
		return
	}
	ia.coll.Dispose()
}

// Iterator returns a sparse cursor over the occupied slots in ascending
// index order. The iterator never mutates the store and must not outlive
// it.
func (ia *IndexArray) Iterator() *SparseIterator {
	if ia == nil {
		return nil
	}
	it, _ := NewSparseIterator(ia)
	return it
}

// Slots returns an iterator over (index, value) pairs for every occupied
// slot in ascending order. The yielded slices alias live slots and must
// be treated as read-only.
func (ia *IndexArray) Slots() iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		if ia == nil {
			return
		}
		stride := ia.coll.stride
		for i := 0; i < ia.Capacity(); i++ {
			if ia.IsEmptySlot(i) {
				continue
			}
			if !yield(i, ia.coll.buf[i*stride:(i+1)*stride]) {
				return
			}
		}
	}
}
