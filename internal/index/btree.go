package index

import (
	"fmt"
	"iter"

	"github.com/google/btree"

	"github.com/tuannm99/tinyrel/internal/record"
)

const btreeDegree = 32

type btreeItem struct {
	key any
	rid record.RowID
}

func lessItem(a, b btreeItem) bool { return record.MustCompare(a.key, b.key) < 0 }

// BTreeIndex is a unique ordered index backed by an in-memory B-tree.
type BTreeIndex struct {
	tree *btree.BTreeG[btreeItem]
}

func NewBTreeIndex() *BTreeIndex {
	return &BTreeIndex{tree: btree.NewG(btreeDegree, lessItem)}
}

func (b *BTreeIndex) Kind() Kind { return KindBTree }
func (b *BTreeIndex) Len() int   { return b.tree.Len() }

func (b *BTreeIndex) Find(key any) (record.RowID, bool) {
	if key == nil {
		return 0, false
	}
	it, ok := b.tree.Get(btreeItem{key: key})
	return it.rid, ok
}

func (b *BTreeIndex) Insert(key any, rid record.RowID) error {
	if key == nil {
		return ErrNilKey
	}
	if b.tree.Has(btreeItem{key: key}) {
		return fmt.Errorf("%w: %v", ErrDuplicateKey, key)
	}
	b.tree.ReplaceOrInsert(btreeItem{key: key, rid: rid})
	return nil
}

func (b *BTreeIndex) Update(key any, rid record.RowID) (record.RowID, bool) {
	if key == nil {
		return 0, false
	}
	old, ok := b.tree.ReplaceOrInsert(btreeItem{key: key, rid: rid})
	return old.rid, ok
}

func (b *BTreeIndex) Remove(key any) (record.RowID, bool) {
	if key == nil {
		return 0, false
	}
	old, ok := b.tree.Delete(btreeItem{key: key})
	return old.rid, ok
}

func (b *BTreeIndex) Scan() iter.Seq[record.RowID] {
	return func(yield func(record.RowID) bool) {
		b.tree.Ascend(func(it btreeItem) bool { return yield(it.rid) })
	}
}

func (b *BTreeIndex) ScanFrom(key any) iter.Seq[record.RowID] {
	return func(yield func(record.RowID) bool) {
		b.tree.AscendGreaterOrEqual(btreeItem{key: key}, func(it btreeItem) bool { return yield(it.rid) })
	}
}

func (b *BTreeIndex) RScan() iter.Seq[record.RowID] {
	return func(yield func(record.RowID) bool) {
		b.tree.Descend(func(it btreeItem) bool { return yield(it.rid) })
	}
}

func (b *BTreeIndex) RScanFrom(key any) iter.Seq[record.RowID] {
	return func(yield func(record.RowID) bool) {
		b.tree.DescendLessOrEqual(btreeItem{key: key}, func(it btreeItem) bool { return yield(it.rid) })
	}
}
