// Package table binds a schema to row storage and keeps the automatic
// PRIMARY_KEY/UNIQUE indexes in step with it.
package table

import (
	"fmt"
	"iter"

	"github.com/tuannm99/tinyrel/internal/dberr"
	"github.com/tuannm99/tinyrel/internal/index"
	"github.com/tuannm99/tinyrel/internal/record"
)

var ErrNoSuchRow = fmt.Errorf("%w: no such row", dberr.ErrValidation)

// Table is the storage contract shared by MemTable and DiskTable.
// Row ids are dense, assigned in insertion order and never reused.
type Table interface {
	Name() string
	Schema() record.Schema

	// Insert validates and coerces row, stores it and returns its id and
	// the stored values. Nothing is written when a unique index rejects it.
	Insert(row record.Row) (record.RowID, record.Row, error)
	// Get returns the row for rid; ok is false for unknown or deleted ids.
	Get(rid record.RowID) (record.Row, bool, error)
	Delete(rid record.RowID) error
	// Rows yields live rows in row id order. Each call starts a new pass.
	Rows() iter.Seq2[record.Row, error]
	// Len is the number of live rows.
	Len() int

	Indexes() []index.Index
	// IndexesOn lists the indexes keyed by column.
	IndexesOn(column string) []index.Index

	Close() error
}

type options struct {
	indexKind index.Kind
	rowCache  int
}

type Option func(*options)

// WithIndexKind picks the implementation used for automatic indexes.
func WithIndexKind(kind index.Kind) Option {
	return func(o *options) { o.indexKind = kind }
}

// WithRowCache keeps up to n decoded rows of a DiskTable in memory for
// point reads. Zero disables the cache. MemTable ignores it.
func WithRowCache(n int) Option {
	return func(o *options) { o.rowCache = n }
}

func buildOptions(opts []Option) options {
	o := options{indexKind: index.KindHash}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type columnIndex struct {
	pos  int
	name string
	idx  index.Index
}

// indexSet holds one unique index per PRIMARY_KEY/UNIQUE column.
type indexSet []columnIndex

func newIndexSet(s record.Schema, kind index.Kind) (indexSet, error) {
	var set indexSet
	for i, col := range s.Columns {
		if !col.Indexed() {
			continue
		}
		idx, err := index.New(kind)
		if err != nil {
			return nil, err
		}
		set = append(set, columnIndex{pos: i, name: col.Name, idx: idx})
	}
	return set, nil
}

// check reports the first unique index that already holds a key of row.
func (set indexSet) check(tableName string, row record.Row) error {
	for _, ci := range set {
		key := row[ci.pos]
		if key == nil {
			continue
		}
		if _, ok := ci.idx.Find(key); ok {
			return fmt.Errorf("%w: %s.%s = %v", index.ErrDuplicateKey, tableName, ci.name, key)
		}
	}
	return nil
}

func (set indexSet) add(row record.Row, rid record.RowID) error {
	for _, ci := range set {
		key := row[ci.pos]
		if key == nil {
			continue
		}
		if err := ci.idx.Insert(key, rid); err != nil {
			return fmt.Errorf("index %s: %w", ci.name, err)
		}
	}
	return nil
}

// drop removes the entries of row that still point at rid.
func (set indexSet) drop(row record.Row, rid record.RowID) {
	for _, ci := range set {
		key := row[ci.pos]
		if key == nil {
			continue
		}
		if got, ok := ci.idx.Find(key); ok && got == rid {
			ci.idx.Remove(key)
		}
	}
}

func (set indexSet) all() []index.Index {
	out := make([]index.Index, 0, len(set))
	for _, ci := range set {
		out = append(out, ci.idx)
	}
	return out
}

func (set indexSet) on(column string) []index.Index {
	var out []index.Index
	for _, ci := range set {
		if ci.name == column {
			out = append(out, ci.idx)
		}
	}
	return out
}
