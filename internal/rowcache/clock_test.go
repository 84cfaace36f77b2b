package rowcache

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/tinyrel/internal/record"
)

func row(v int64) record.Row { return record.Row{v} }

func TestCache_New_DefaultCapacity(t *testing.T) {
	c := New(0)
	require.Equal(t, 1, c.Capacity())
	require.Zero(t, c.Len())
}

func TestCache_GetPut(t *testing.T) {
	c := New(4)
	_, ok := c.Get(10)
	require.False(t, ok)

	c.Put(10, row(1))
	got, ok := c.Get(10)
	require.True(t, ok)
	require.Equal(t, row(1), got)

	c.Put(10, row(2))
	got, _ = c.Get(10)
	require.Equal(t, row(2), got)
	require.Equal(t, 1, c.Len())

	hits, misses := c.Stats()
	require.Equal(t, uint64(2), hits)
	require.Equal(t, uint64(1), misses)
}

func TestCache_SecondChance(t *testing.T) {
	c := New(3)
	c.Put(0, row(0))
	c.Put(5, row(5))
	c.Put(9, row(9))

	// 0 and 9 get their ref bit set, so 5 is the first slot without one
	c.Get(0)
	c.Get(9)
	c.Put(12, row(12))

	require.Equal(t, 3, c.Len())
	_, ok := c.Get(5)
	require.False(t, ok)
	for _, off := range []int64{0, 9, 12} {
		_, ok := c.Get(off)
		require.True(t, ok, "offset %d", off)
	}
}

func TestCache_AllReferencedStillEvicts(t *testing.T) {
	c := New(2)
	c.Put(1, row(1))
	c.Put(2, row(2))
	c.Get(1)
	c.Get(2)

	c.Put(3, row(3))
	require.Equal(t, 2, c.Len())
	_, ok := c.Get(3)
	require.True(t, ok)
}

func TestCache_Invalidate(t *testing.T) {
	c := New(2)
	c.Put(1, row(1))
	c.Invalidate(1)
	c.Invalidate(99)
	_, ok := c.Get(1)
	require.False(t, ok)
	require.Zero(t, c.Len())

	// the freed slot is reused before anything is evicted
	c.Put(2, row(2))
	c.Put(3, row(3))
	require.Equal(t, 2, c.Len())
}
