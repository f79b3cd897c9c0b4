package coll_test

import (
	"testing"

	"github.com/plus3/strata/coll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, it *coll.SparseIterator, stride int) (indices []int, values [][]byte) {
	t.Helper()
	for it.Next() {
		out := make([]byte, stride)
		require.NoError(t, it.Value(out))
		indices = append(indices, it.Index())
		values = append(values, out)
	}
	return indices, values
}

func TestSparseIterationCompleteness(t *testing.T) {
	ia, err := coll.NewIndexArray(8, 2)
	require.NoError(t, err)
	defer ia.Dispose()

	mustAdd(t, ia, []byte{1, 1}) // 0
	mustAdd(t, ia, []byte{2, 2}) // 1
	mustAdd(t, ia, []byte{3, 3}) // 2
	mustAdd(t, ia, []byte{4, 4}) // 3
	require.NoError(t, ia.RemoveAt(1))
	require.NoError(t, ia.RemoveAt(3))

	it := ia.Iterator()
	require.NotNil(t, it)
	defer it.Dispose()

	indices, values := collect(t, it, 2)
	assert.Equal(t, []int{0, 2}, indices)
	assert.Equal(t, [][]byte{{1, 1}, {3, 3}}, values)

	// Exhausted until reset
	assert.False(t, it.Next())

	it.Reset()
	again, _ := collect(t, it, 2)
	assert.Equal(t, indices, again)
}

func TestSparseIteratorEmptyStore(t *testing.T) {
	ia, err := coll.NewIndexArray(8, 2)
	require.NoError(t, err)
	defer ia.Dispose()

	it := ia.Iterator()
	defer it.Dispose()

	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Value(make([]byte, 2)), coll.ErrNotPositioned)
}

func TestSparseIteratorValueBeforeNext(t *testing.T) {
	ia, err := coll.NewIndexArray(4, 2)
	require.NoError(t, err)
	defer ia.Dispose()
	mustAdd(t, ia, []byte{1, 1})

	it := ia.Iterator()
	defer it.Dispose()

	// Not positioned until Next reports an occupied slot
	assert.ErrorIs(t, it.Value(make([]byte, 2)), coll.ErrNotPositioned)

	require.True(t, it.Next())
	out := make([]byte, 2)
	require.NoError(t, it.Value(out))
	assert.Equal(t, []byte{1, 1}, out)
	assert.Equal(t, 0, it.Index())
}

func TestSparseIteratorSkipsLeadingAndTrailingGaps(t *testing.T) {
	buf := make([]byte, 12) // 6 slots of stride 2
	copy(buf[4:6], []byte{7, 7})
	copy(buf[8:10], []byte{8, 8})

	ia, err := coll.FromView(buf, 2)
	require.NoError(t, err)

	it := ia.Iterator()
	defer it.Dispose()

	indices, values := collect(t, it, 2)
	assert.Equal(t, []int{2, 4}, indices)
	assert.Equal(t, [][]byte{{7, 7}, {8, 8}}, values)
}

func TestNewSparseIteratorNilStore(t *testing.T) {
	it, err := coll.NewSparseIterator(nil)
	assert.Nil(t, it)
	assert.ErrorIs(t, err, coll.ErrNilStore)
}

func TestSparseIteratorDispose(t *testing.T) {
	ia, err := coll.NewIndexArray(4, 2)
	require.NoError(t, err)
	defer ia.Dispose()
	mustAdd(t, ia, []byte{1, 1})

	it := ia.Iterator()
	it.Dispose()

	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Value(make([]byte, 2)), coll.ErrNilStore)
	it.Dispose() // idempotent
}

// stripeStore is a minimal SparseStore with every odd slot occupied,
// proving the iterator only depends on the capability surface.
type stripeStore struct {
	slots int
}

func (s *stripeStore) IsEmptySlot(index int) bool { return index%2 == 0 }
func (s *stripeStore) Capacity() int              { return s.slots }

func (s *stripeStore) GetAt(index int, dst []byte) error {
	if index < 0 || index >= s.slots {
		return coll.ErrIndexOutOfRange
	}
	if index%2 == 0 {
		return coll.ErrEmptySlot
	}
	dst[0] = byte(index)
	return nil
}

func TestSparseIteratorOverCustomStore(t *testing.T) {
	it, err := coll.NewSparseIterator(&stripeStore{slots: 7})
	require.NoError(t, err)
	defer it.Dispose()

	var indices []int
	for it.Next() {
		out := make([]byte, 1)
		require.NoError(t, it.Value(out))
		assert.Equal(t, byte(it.Index()), out[0])
		indices = append(indices, it.Index())
	}
	assert.Equal(t, []int{1, 3, 5}, indices)
}

func TestIteratorDoesNotObserveLaterGrowth(t *testing.T) {
	ia, err := coll.NewIndexArray(2, 2)
	require.NoError(t, err)
	defer ia.Dispose()
	mustAdd(t, ia, []byte{1, 1})
	mustAdd(t, ia, []byte{2, 2})

	it := ia.Iterator()
	defer it.Dispose()

	// Capacity is captured when the iterator is created
	mustAdd(t, ia, []byte{3, 3}) // grows to 4, slot 2

	indices, _ := collect(t, it, 2)
	assert.Equal(t, []int{0, 1}, indices)
}
