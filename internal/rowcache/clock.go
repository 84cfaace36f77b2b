// Package rowcache keeps recently read heap records decoded in memory.
//
// Slots are recycled with CLOCK (second-chance) replacement: a hit sets the
// slot's ref bit, and the sweeping hand clears ref bits until it finds a
// slot that was not used since its last pass.
package rowcache

import (
	"github.com/tuannm99/tinyrel/internal/record"
)

type slot struct {
	off  int64
	row  record.Row
	ref  bool
	used bool
}

// Cache maps heap offsets to decoded rows. Not safe for concurrent use.
type Cache struct {
	slots []slot
	where map[int64]int
	hand  int

	hits   uint64
	misses uint64
}

// New returns a cache with capacity slots; capacity <= 0 gives 1.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	return &Cache{
		slots: make([]slot, capacity),
		where: make(map[int64]int, capacity),
	}
}

func (c *Cache) Capacity() int { return len(c.slots) }
func (c *Cache) Len() int      { return len(c.where) }

// Get returns the cached row for off and marks it recently used.
func (c *Cache) Get(off int64) (record.Row, bool) {
	i, ok := c.where[off]
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	c.slots[i].ref = true
	return c.slots[i].row, true
}

// Put stores row under off, evicting a victim when the cache is full.
func (c *Cache) Put(off int64, row record.Row) {
	if i, ok := c.where[off]; ok {
		c.slots[i].row = row
		c.slots[i].ref = true
		return
	}
	i := c.victim()
	if c.slots[i].used {
		delete(c.where, c.slots[i].off)
	}
	c.slots[i] = slot{off: off, row: row, used: true}
	c.where[off] = i
}

// victim returns a free slot, or sweeps at most twice around the clock
// to find one whose ref bit is clear.
func (c *Cache) victim() int {
	n := len(c.slots)
	for range 2 * n {
		i := c.hand
		c.hand = (c.hand + 1) % n
		s := &c.slots[i]
		if !s.used || !s.ref {
			return i
		}
		s.ref = false
	}
	return c.hand
}

// Invalidate drops off from the cache.
func (c *Cache) Invalidate(off int64) {
	i, ok := c.where[off]
	if !ok {
		return
	}
	delete(c.where, off)
	c.slots[i] = slot{}
}

// Stats reports lookups served from and missed by the cache.
func (c *Cache) Stats() (hits, misses uint64) { return c.hits, c.misses }
