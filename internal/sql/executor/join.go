package executor

import (
	"fmt"
	"iter"

	"github.com/tuannm99/tinyrel/internal/index"
	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/table"
)

// ----- HashJoin -----

// HashJoin buckets Build rows by BuildCol, then streams Probe and emits
// build row ++ probe row for every bucket entry with an equal key.
// Output follows probe order, then bucket insertion order.
type HashJoin struct {
	Build    Node
	Probe    Node
	BuildCol int
	ProbeCol int
}

func (j *HashJoin) Execute() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		buckets := make(map[any][]record.Row)
		for row, err := range j.Build.Execute() {
			if err != nil {
				yield(nil, err)
				return
			}
			key := record.HashKey(row[j.BuildCol])
			if key == nil {
				continue
			}
			buckets[key] = append(buckets[key], row)
		}
		if len(buckets) == 0 {
			return
		}

		for probe, err := range j.Probe.Execute() {
			if err != nil {
				yield(nil, err)
				return
			}
			key := record.HashKey(probe[j.ProbeCol])
			if key == nil {
				continue
			}
			for _, build := range buckets[key] {
				if !yield(record.Concat(build, probe), nil) {
					return
				}
			}
		}
	}
}

func (j *HashJoin) String() string {
	return fmt.Sprintf("HashJoin(build=%s#%d, probe=%s#%d)", j.Build, j.BuildCol, j.Probe, j.ProbeCol)
}

// ----- IndexedJoin -----

// IndexedJoin streams Source and looks each Column value up in an index of
// Table, emitting source row ++ table row.
type IndexedJoin struct {
	Source Node
	Column int
	Index  index.Index
	Table  table.Table
}

func (j *IndexedJoin) Execute() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		for row, err := range j.Source.Execute() {
			if err != nil {
				yield(nil, err)
				return
			}
			key := row[j.Column]
			if key == nil {
				continue
			}
			rid, ok := j.Index.Find(key)
			if !ok {
				continue
			}
			other, ok, err := j.Table.Get(rid)
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok {
				continue
			}
			if !yield(record.Concat(row, other), nil) {
				return
			}
		}
	}
}

func (j *IndexedJoin) String() string {
	return fmt.Sprintf("IndexedJoin(%s#%d, %s via %s)", j.Source, j.Column, j.Table.Name(), j.Index.Kind())
}

// ----- NestedLoopJoin -----

// NestedLoopJoin re-executes Inner for every Outer row.
type NestedLoopJoin struct {
	Outer Node
	Inner Node
	Cond  JoinCondition
}

func (j *NestedLoopJoin) Execute() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		for outer, err := range j.Outer.Execute() {
			if err != nil {
				yield(nil, err)
				return
			}
			for inner, err := range j.Inner.Execute() {
				if err != nil {
					yield(nil, err)
					return
				}
				ok, err := j.Cond.Match(outer, inner)
				if err != nil {
					yield(nil, err)
					return
				}
				if ok && !yield(record.Concat(outer, inner), nil) {
					return
				}
			}
		}
	}
}

func (j *NestedLoopJoin) String() string {
	return fmt.Sprintf("NestedLoopJoin(%s, %s, %s)", j.Outer, j.Inner, j.Cond)
}

// ----- MergeJoin -----

// MergeJoin joins two inputs already sorted ascending on their join columns.
// Each pair of equal-key runs yields its cross product. NULL keys are skipped.
type MergeJoin struct {
	Left     Node
	Right    Node
	LeftCol  int
	RightCol int
}

func (j *MergeJoin) Execute() iter.Seq2[record.Row, error] {
	return func(yield func(record.Row, error) bool) {
		nextL, stopL := iter.Pull2(j.Left.Execute())
		defer stopL()
		nextR, stopR := iter.Pull2(j.Right.Execute())
		defer stopR()

		pull := func(next func() (record.Row, error, bool), col int) (record.Row, bool, error) {
			for {
				row, err, ok := next()
				if !ok || err != nil {
					return nil, false, err
				}
				if row[col] != nil {
					return row, true, nil
				}
			}
		}

		l, okL, err := pull(nextL, j.LeftCol)
		if err != nil {
			yield(nil, err)
			return
		}
		r, okR, err := pull(nextR, j.RightCol)
		if err != nil {
			yield(nil, err)
			return
		}

		for okL && okR {
			c, err := record.Compare(l[j.LeftCol], r[j.RightCol])
			if err != nil {
				yield(nil, err)
				return
			}
			switch {
			case c < 0:
				l, okL, err = pull(nextL, j.LeftCol)
			case c > 0:
				r, okR, err = pull(nextR, j.RightCol)
			default:
				key := r[j.RightCol]
				run := []record.Row{r}
				for {
					r, okR, err = pull(nextR, j.RightCol)
					if err != nil || !okR || record.MustCompare(r[j.RightCol], key) != 0 {
						break
					}
					run = append(run, r)
				}
				if err != nil {
					break
				}
				for okL && record.MustCompare(l[j.LeftCol], key) == 0 {
					for _, rr := range run {
						if !yield(record.Concat(l, rr), nil) {
							return
						}
					}
					l, okL, err = pull(nextL, j.LeftCol)
					if err != nil {
						break
					}
				}
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

func (j *MergeJoin) String() string {
	return fmt.Sprintf("MergeJoin(%s#%d, %s#%d)", j.Left, j.LeftCol, j.Right, j.RightCol)
}
