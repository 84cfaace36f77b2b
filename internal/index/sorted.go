package index

import (
	"fmt"
	"iter"
	"slices"

	"github.com/tuannm99/tinyrel/internal/record"
)

// SortedListIndex keeps two parallel slices ordered by key.
// Positions are found by binary search; inserts and removes shift the tail.
type SortedListIndex struct {
	keys   []any
	rowids []record.RowID
	unique bool
}

// NewSortedListIndex returns an empty index. With unique=false, equal keys
// are kept in insertion order.
func NewSortedListIndex(unique bool) *SortedListIndex {
	return &SortedListIndex{unique: unique}
}

func (s *SortedListIndex) Kind() Kind   { return KindSorted }
func (s *SortedListIndex) Len() int     { return len(s.keys) }
func (s *SortedListIndex) Unique() bool { return s.unique }

// lowerBound: first position with keys[i] >= key.
func (s *SortedListIndex) lowerBound(key any) int {
	i, _ := slices.BinarySearchFunc(s.keys, key, record.MustCompare)
	return i
}

// upperBound: first position with keys[i] > key.
func (s *SortedListIndex) upperBound(key any) int {
	lo, hi := 0, len(s.keys)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if record.MustCompare(s.keys[mid], key) <= 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func (s *SortedListIndex) find(key any) (int, bool) {
	if key == nil {
		return 0, false
	}
	i := s.lowerBound(key)
	if i < len(s.keys) && record.MustCompare(s.keys[i], key) == 0 {
		return i, true
	}
	return i, false
}

func (s *SortedListIndex) Find(key any) (record.RowID, bool) {
	i, ok := s.find(key)
	if !ok {
		return 0, false
	}
	return s.rowids[i], true
}

func (s *SortedListIndex) Insert(key any, rid record.RowID) error {
	if key == nil {
		return ErrNilKey
	}
	if s.unique {
		if _, ok := s.find(key); ok {
			return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
		}
	}
	pos := s.upperBound(key)
	s.keys = slices.Insert(s.keys, pos, key)
	s.rowids = slices.Insert(s.rowids, pos, rid)
	return nil
}

func (s *SortedListIndex) Update(key any, rid record.RowID) (record.RowID, bool) {
	if key == nil {
		return 0, false
	}
	if i, ok := s.find(key); ok {
		old := s.rowids[i]
		s.rowids[i] = rid
		return old, true
	}
	_ = s.Insert(key, rid)
	return 0, false
}

// Remove deletes the first pair stored under key.
func (s *SortedListIndex) Remove(key any) (record.RowID, bool) {
	i, ok := s.find(key)
	if !ok {
		return 0, false
	}
	old := s.rowids[i]
	s.keys = slices.Delete(s.keys, i, i+1)
	s.rowids = slices.Delete(s.rowids, i, i+1)
	return old, true
}

// RemovePair deletes the exact (key, rid) pair; used with duplicate keys.
func (s *SortedListIndex) RemovePair(key any, rid record.RowID) bool {
	i, ok := s.find(key)
	if !ok {
		return false
	}
	for ; i < len(s.keys) && record.MustCompare(s.keys[i], key) == 0; i++ {
		if s.rowids[i] == rid {
			s.keys = slices.Delete(s.keys, i, i+1)
			s.rowids = slices.Delete(s.rowids, i, i+1)
			return true
		}
	}
	return false
}

func (s *SortedListIndex) Scan() iter.Seq[record.RowID] { return s.ascendFrom(0) }

func (s *SortedListIndex) ScanFrom(key any) iter.Seq[record.RowID] {
	return s.ascendFrom(s.lowerBound(key))
}

func (s *SortedListIndex) RScan() iter.Seq[record.RowID] { return s.descendFrom(len(s.keys) - 1) }

func (s *SortedListIndex) RScanFrom(key any) iter.Seq[record.RowID] {
	return s.descendFrom(s.upperBound(key) - 1)
}

func (s *SortedListIndex) ascendFrom(pos int) iter.Seq[record.RowID] {
	return func(yield func(record.RowID) bool) {
		for i := pos; i < len(s.rowids); i++ {
			if !yield(s.rowids[i]) {
				return
			}
		}
	}
}

func (s *SortedListIndex) descendFrom(pos int) iter.Seq[record.RowID] {
	return func(yield func(record.RowID) bool) {
		for i := min(pos, len(s.rowids)-1); i >= 0; i-- {
			if !yield(s.rowids[i]) {
				return
			}
		}
	}
}
