// Package executor holds the operator tree produced by the planner.
//
// Operators are lazy: Execute returns a sequence that does no work until it
// is ranged over, and every call re-evaluates the tree from the leaves.
package executor

import (
	"fmt"
	"iter"
	"strings"

	"github.com/tuannm99/tinyrel/internal/index"
	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/table"
)

// Node is one operator of a physical plan.
type Node interface {
	Execute() iter.Seq2[record.Row, error]
	String() string
}

// Collect drains n into a slice.
func Collect(n Node) ([]record.Row, error) {
	var out []record.Row
	for row, err := range n.Execute() {
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// ----- Scan -----

// Scan yields every live row of a table in row id order.
type Scan struct {
	Table table.Table
}

func (s *Scan) Execute() iter.Seq2[record.Row, error] { return s.Table.Rows() }

func (s *Scan) String() string { return fmt.Sprintf("Scan(%s)", s.Table.Name()) }

// ----- FilteredScan -----

type FilteredScan struct {
	Source Node
	Pred   Predicate
}

func (f *FilteredScan) Execute() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		for row, err := range f.Source.Execute() {
			if err != nil {
				yield(nil, err)
				return
			}
			ok, err := f.Pred.Eval(row)
			if err != nil {
				yield(nil, err)
				return
			}
			if ok && !yield(row, nil) {
				return
			}
		}
	}
}

func (f *FilteredScan) String() string {
	return fmt.Sprintf("FilteredScan(%s, %s)", f.Source, f.Pred)
}

// ----- IndexedLookup -----

// IndexedLookup yields at most one row: the one Index maps Key to.
type IndexedLookup struct {
	Table table.Table
	Index index.Index
	Key   any
}

func (l *IndexedLookup) Execute() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		rid, ok := l.Index.Find(l.Key)
		if !ok {
			return
		}
		row, ok, err := l.Table.Get(rid)
		if err != nil {
			yield(nil, err)
			return
		}
		if ok {
			yield(row, nil)
		}
	}
}

func (l *IndexedLookup) String() string {
	return fmt.Sprintf("IndexedLookup(%s, %s, %v)", l.Table.Name(), l.Index.Kind(), l.Key)
}

// ----- IndexScan -----

// IndexScan walks a table in key order through a sorted index.
// A non-nil From starts at the first key >= From (<= when Reverse).
type IndexScan struct {
	Table   table.Table
	Index   index.SortedIndex
	From    any
	Reverse bool
}

func (s *IndexScan) rowids() iter.Seq[record.RowID] {
	switch {
	case s.Reverse && s.From != nil:
		return s.Index.RScanFrom(s.From)
	case s.Reverse:
		return s.Index.RScan()
	case s.From != nil:
		return s.Index.ScanFrom(s.From)
	default:
		return s.Index.Scan()
	}
}

func (s *IndexScan) Execute() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		for rid := range s.rowids() {
			row, ok, err := s.Table.Get(rid)
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok {
				continue
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}

func (s *IndexScan) String() string {
	dir := "asc"
	if s.Reverse {
		dir = "desc"
	}
	if s.From != nil {
		return fmt.Sprintf("IndexScan(%s, %s, from %v)", s.Table.Name(), dir, s.From)
	}
	return fmt.Sprintf("IndexScan(%s, %s)", s.Table.Name(), dir)
}

// ----- ColumnProjection -----

// ColumnProjection keeps the listed positions of each input row, in order.
type ColumnProjection struct {
	Source  Node
	Columns []int
}

func (p *ColumnProjection) Execute() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		for row, err := range p.Source.Execute() {
			if err != nil {
				yield(nil, err)
				return
			}
			out := make(record.Row, len(p.Columns))
			for i, pos := range p.Columns {
				if pos < 0 || pos >= len(row) {
					yield(nil, fmt.Errorf("projection: column %d out of range for row of %d", pos, len(row)))
					return
				}
				out[i] = row[pos]
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

func (p *ColumnProjection) String() string {
	cols := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		cols[i] = fmt.Sprint(c)
	}
	return fmt.Sprintf("ColumnProjection(%s, [%s])", p.Source, strings.Join(cols, " "))
}
