package table

import (
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"

	"github.com/tuannm99/tinyrel/internal/alias/util"
	"github.com/tuannm99/tinyrel/internal/heap"
	"github.com/tuannm99/tinyrel/internal/index"
	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/rowcache"
)

// DataFile is the heap file path of table name inside folder.
func DataFile(folder, name string) string {
	return filepath.Join(folder, name+".data")
}

// DiskTable stores rows in a heap file. offsets maps row id to the record
// offset, -1 for deleted rows.
type DiskTable struct {
	schema  record.Schema
	heap    *heap.File
	offsets []int64
	live    int
	indexes indexSet
	cache   *rowcache.Cache // nil when disabled
}

var _ Table = (*DiskTable)(nil)

// OpenDisk opens or creates <folder>/<table>.data. Row ids are rebuilt from
// every record in the file, tombstones included, so they survive reopen.
func OpenDisk(schema record.Schema, folder string, opts ...Option) (*DiskTable, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	set, err := newIndexSet(schema, o.indexKind)
	if err != nil {
		return nil, err
	}

	hf, err := heap.Open(DataFile(folder, schema.Name), schema)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", schema.Name, err)
	}
	t := &DiskTable{schema: schema.Clone(), heap: hf, indexes: set}
	if o.rowCache > 0 {
		t.cache = rowcache.New(o.rowCache)
	}
	if err := t.load(); err != nil {
		util.CloseQuietly(hf, hf.Path())
		return nil, fmt.Errorf("load table %s: %w", schema.Name, err)
	}
	slog.Debug("table: opened", "table", schema.Name, "rows", t.live, "slots", len(t.offsets))
	return t, nil
}

func (t *DiskTable) load() error {
	for hdr, err := range t.heap.Walk(0) {
		if err != nil {
			return err
		}
		if hdr.Tombstone {
			t.offsets = append(t.offsets, -1)
			continue
		}
		t.offsets = append(t.offsets, hdr.Offset)
		t.live++
	}
	if len(t.indexes) == 0 {
		return nil
	}
	for rid, off := range t.offsets {
		if off < 0 {
			continue
		}
		row, err := t.heap.Get(off)
		if err != nil {
			return err
		}
		if err := t.indexes.add(row, record.RowID(rid)); err != nil {
			return err
		}
	}
	return nil
}

func (t *DiskTable) Name() string          { return t.schema.Name }
func (t *DiskTable) Schema() record.Schema { return t.schema.Clone() }
func (t *DiskTable) Len() int              { return t.live }
func (t *DiskTable) Path() string          { return t.heap.Path() }

func (t *DiskTable) Insert(row record.Row) (record.RowID, record.Row, error) {
	row, err := t.schema.Coerce(row)
	if err != nil {
		return 0, nil, err
	}
	if err := t.indexes.check(t.schema.Name, row); err != nil {
		return 0, nil, err
	}
	off, err := t.heap.Append(row)
	if err != nil {
		return 0, nil, err
	}
	rid := record.RowID(len(t.offsets))
	t.offsets = append(t.offsets, off)
	t.live++
	if err := t.indexes.add(row, rid); err != nil {
		return 0, nil, err
	}
	return rid, row.Clone(), nil
}

func (t *DiskTable) offset(rid record.RowID) (int64, bool) {
	if rid < 0 || int(rid) >= len(t.offsets) || t.offsets[rid] < 0 {
		return 0, false
	}
	return t.offsets[rid], true
}

func (t *DiskTable) Get(rid record.RowID) (record.Row, bool, error) {
	off, ok := t.offset(rid)
	if !ok {
		return nil, false, nil
	}
	if t.cache != nil {
		if row, ok := t.cache.Get(off); ok {
			return row.Clone(), true, nil
		}
	}
	row, err := t.heap.Get(off)
	if err != nil {
		return nil, false, err
	}
	if t.cache != nil {
		t.cache.Put(off, row.Clone())
	}
	return row, true, nil
}

func (t *DiskTable) Delete(rid record.RowID) error {
	off, ok := t.offset(rid)
	if !ok {
		return fmt.Errorf("%w: %s rowid %d", ErrNoSuchRow, t.schema.Name, rid)
	}
	var row record.Row
	if len(t.indexes) > 0 {
		r, _, err := t.Get(rid)
		if err != nil {
			return err
		}
		row = r
	}
	if err := t.heap.Remove(off); err != nil {
		return err
	}
	if t.cache != nil {
		t.cache.Invalidate(off)
	}
	t.offsets[rid] = -1
	t.live--
	if row != nil {
		t.indexes.drop(row, rid)
	}
	return nil
}

// Rows streams live records straight from the heap file.
func (t *DiskTable) Rows() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		for rec, err := range t.heap.Scan(0) {
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec.Row, nil) {
				return
			}
		}
	}
}

func (t *DiskTable) Indexes() []index.Index                { return t.indexes.all() }
func (t *DiskTable) IndexesOn(column string) []index.Index { return t.indexes.on(column) }

// CacheStats reports row cache hits and misses; zero without a cache.
func (t *DiskTable) CacheStats() (hits, misses uint64) {
	if t.cache == nil {
		return 0, 0
	}
	return t.cache.Stats()
}

// Sync flushes the heap file to stable storage.
func (t *DiskTable) Sync() error { return t.heap.Sync() }

func (t *DiskTable) Close() error { return t.heap.Close() }
