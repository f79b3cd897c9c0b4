package coll

// SparseStore is the capability surface a sparse cursor needs: a fixed
// slot count, a per-slot emptiness test, and copy-out access by index.
// Any store with those three operations can be iterated by
// SparseIterator, not just IndexArray.
type SparseStore interface {
	IsEmptySlot(index int) bool
	Capacity() int
	GetAt(index int, dst []byte) error
}

// SparseIterator walks a sparse store's occupied slots in ascending
// index order, skipping empty ones. It holds a non-owning reference to
// the store; the store must outlive it.
type SparseIterator struct {
	store SparseStore
	// cursor is the next slot to examine, or the confirmed occupied slot
	// when positioned is set.
	cursor     int
	capacity   int
	positioned bool
}

// NewSparseIterator binds a cursor to a sparse store. The capacity is
// captured at creation; mutating the store mid-iteration is the caller's
// risk.
func NewSparseIterator(store SparseStore) (*SparseIterator, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	return &SparseIterator{store: store, capacity: store.Capacity()}, nil
}

// Next advances to the next occupied slot and reports whether one was
// found. Once it returns false the iterator is exhausted until Reset.
func (it *SparseIterator) Next() bool {
	if it == nil || it.store == nil {
		return false
	}
	if it.positioned {
		it.cursor++
		it.positioned = false
	}
	for it.cursor < it.capacity {
		if !it.store.IsEmptySlot(it.cursor) {
			it.positioned = true
			return true
		}
		it.cursor++
	}
	return false
}

// Index returns the cursor position. It is only meaningful after Next
// has returned true; callers must check Next before trusting it.
func (it *SparseIterator) Index() int {
	if it == nil {
		return 0
	}
	return it.cursor
}

// Value copies the current slot's bytes into dst. Fails unless the
// iterator is positioned on an occupied slot.
func (it *SparseIterator) Value(dst []byte) error {
	if it == nil || it.store == nil {
		return ErrNilStore
	}
	if !it.positioned {
		return ErrNotPositioned
	}
	return it.store.GetAt(it.cursor, dst)
}

// Reset rewinds the iterator so iteration can restart from slot zero.
func (it *SparseIterator) Reset() {
	if it == nil {
		return
	}
	it.cursor = 0
	it.positioned = false
}

// Dispose detaches the iterator from its store. The store is never
// touched.
func (it *SparseIterator) Dispose() {
	if it == nil {
		return
	}
	it.store = nil
	it.positioned = false
}
