package table

import (
	"fmt"
	"iter"

	"github.com/tuannm99/tinyrel/internal/index"
	"github.com/tuannm99/tinyrel/internal/record"
)

// MemTable keeps rows in a slice indexed by row id. Deleted slots are nil.
// Rows handed out are copies; stored rows never change after insert.
type MemTable struct {
	schema  record.Schema
	rows    []record.Row
	live    int
	indexes indexSet
}

var _ Table = (*MemTable)(nil)

func NewMem(schema record.Schema, opts ...Option) (*MemTable, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	set, err := newIndexSet(schema, o.indexKind)
	if err != nil {
		return nil, err
	}
	return &MemTable{schema: schema.Clone(), indexes: set}, nil
}

func (t *MemTable) Name() string          { return t.schema.Name }
func (t *MemTable) Schema() record.Schema { return t.schema.Clone() }
func (t *MemTable) Len() int              { return t.live }

func (t *MemTable) Insert(row record.Row) (record.RowID, record.Row, error) {
	row, err := t.schema.Coerce(row)
	if err != nil {
		return 0, nil, err
	}
	if err := t.indexes.check(t.schema.Name, row); err != nil {
		return 0, nil, err
	}
	rid := record.RowID(len(t.rows))
	t.rows = append(t.rows, row)
	t.live++
	if err := t.indexes.add(row, rid); err != nil {
		return 0, nil, err
	}
	return rid, row.Clone(), nil
}

func (t *MemTable) Get(rid record.RowID) (record.Row, bool, error) {
	if rid < 0 || int(rid) >= len(t.rows) || t.rows[rid] == nil {
		return nil, false, nil
	}
	return t.rows[rid].Clone(), true, nil
}

func (t *MemTable) Delete(rid record.RowID) error {
	row, ok, _ := t.Get(rid)
	if !ok {
		return fmt.Errorf("%w: %s rowid %d", ErrNoSuchRow, t.schema.Name, rid)
	}
	t.rows[rid] = nil
	t.live--
	t.indexes.drop(row, rid)
	return nil
}

func (t *MemTable) Rows() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		n := len(t.rows)
		for i := 0; i < n; i++ {
			if t.rows[i] == nil {
				continue
			}
			if !yield(t.rows[i].Clone(), nil) {
				return
			}
		}
	}
}

func (t *MemTable) Indexes() []index.Index                { return t.indexes.all() }
func (t *MemTable) IndexesOn(column string) []index.Index { return t.indexes.on(column) }

func (t *MemTable) Close() error { return nil }
