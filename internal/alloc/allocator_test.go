package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveSequential(t *testing.T) {
	a := New(48)

	assert.Equal(t, uint64(48), a.Reserve(100, 0, "a"))
	assert.Equal(t, uint64(148), a.Reserve(200, 0, "b"))
	assert.Equal(t, uint64(348), a.EOF())
	assert.Len(t, a.Image(), 348)

	st := a.Stats()
	assert.Equal(t, uint64(2), st.Allocations)
	assert.Equal(t, uint64(300), st.Bytes)
	assert.Equal(t, uint64(200), st.Largest)
}

func TestReserveZeroSize(t *testing.T) {
	a := New(100)
	assert.Equal(t, uint64(100), a.Reserve(0, 0, ""))
	assert.Equal(t, uint64(100), a.EOF())
	assert.Empty(t, a.Allocations())
}

func TestReserveAligned(t *testing.T) {
	a := New(100)
	a.Reserve(13, 0, "odd")

	addr := a.Reserve(50, 8, "aligned")
	assert.Zero(t, addr%8)
	assert.Equal(t, uint64(120), addr)
	assert.Equal(t, uint64(7), a.Stats().Padding)
}

func TestPlaceAndWriteAt(t *testing.T) {
	a := New(8)
	addr := a.Place([]byte("hello"), 0, "str")
	assert.Equal(t, uint64(8), addr)
	assert.Equal(t, "hello", string(a.Image()[8:13]))

	require.NoError(t, a.WriteAt([]byte("HDF5"), 0))
	assert.Equal(t, "HDF5", string(a.Image()[:4]))

	assert.Error(t, a.WriteAt([]byte("too long"), 10))
}

func TestImageGrowthKeepsContent(t *testing.T) {
	a := New(0)
	first := a.Place([]byte{1, 2, 3}, 0, "first")
	for i := 0; i < 100; i++ {
		a.Place(make([]byte, 64), 8, "filler")
	}
	assert.Equal(t, []byte{1, 2, 3}, a.Image()[first:first+3])
	require.NoError(t, a.Validate())
}

func TestValidateDetectsOverlap(t *testing.T) {
	a := New(0)
	a.Reserve(10, 0, "x")
	a.blocks = append(a.blocks, Allocation{Addr: 5, Size: 2, Tag: "bad"})
	assert.Error(t, a.Validate())
}
