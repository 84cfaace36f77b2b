package index

import (
	"fmt"

	"github.com/tuannm99/tinyrel/internal/record"
)

// HashIndex is a unique index over a Go map. Keys go through
// record.HashKey, so INT 1 and FLOAT 1.0 are the same key.
type HashIndex struct {
	m map[any]record.RowID
}

func NewHashIndex() *HashIndex {
	return &HashIndex{m: make(map[any]record.RowID)}
}

func (h *HashIndex) Kind() Kind { return KindHash }
func (h *HashIndex) Len() int   { return len(h.m) }

func (h *HashIndex) Find(key any) (record.RowID, bool) {
	if key == nil {
		return 0, false
	}
	rid, ok := h.m[record.HashKey(key)]
	return rid, ok
}

func (h *HashIndex) Insert(key any, rid record.RowID) error {
	if key == nil {
		return ErrNilKey
	}
	k := record.HashKey(key)
	if _, ok := h.m[k]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	h.m[k] = rid
	return nil
}

func (h *HashIndex) Update(key any, rid record.RowID) (record.RowID, bool) {
	if key == nil {
		return 0, false
	}
	k := record.HashKey(key)
	old, ok := h.m[k]
	h.m[k] = rid
	return old, ok
}

func (h *HashIndex) Remove(key any) (record.RowID, bool) {
	if key == nil {
		return 0, false
	}
	k := record.HashKey(key)
	old, ok := h.m[k]
	if ok {
		delete(h.m, k)
	}
	return old, ok
}
