package coll

// DenseIterator is a position cursor over a collection's contiguous
// occupied range. It does not own the collection; the collection must
// outlive it.
type DenseIterator struct {
	coll *Collection
	// pos is one past the element Current refers to; zero means the
	// iterator has not been advanced yet.
	pos int
}

// Next advances to the next element and reports whether one exists.
func (it *DenseIterator) Next() bool {
	if it == nil || it.coll == nil || it.pos >= it.coll.length {
		return false
	}
	it.pos++
	return true
}

// Current returns the element the iterator is positioned on, or nil if
// Next has not returned true. The slice aliases the live slot.
func (it *DenseIterator) Current() []byte {
	if it == nil || it.coll == nil || it.pos == 0 || it.pos > it.coll.length {
		return nil
	}
	stride := it.coll.stride
	return it.coll.buf[(it.pos-1)*stride : it.pos*stride]
}

// Reset rewinds the iterator to before the first element.
func (it *DenseIterator) Reset() {
	if it != nil {
		it.pos = 0
	}
}

// Dispose detaches the iterator from its collection. The collection
// itself is never touched.
func (it *DenseIterator) Dispose() {
	if it != nil {
		it.coll = nil
	}
}
