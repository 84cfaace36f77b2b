package executor

import (
	"fmt"

	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/sql/query"
)

// Predicate filters single rows.
type Predicate interface {
	Eval(row record.Row) (bool, error)
	String() string
}

// Operand produces a value from a row.
type Operand interface {
	Value(row record.Row) any
	String() string
}

// ColumnValue reads position Pos. Name is only used when printing plans.
type ColumnValue struct {
	Pos  int
	Name string
}

func (c ColumnValue) Value(row record.Row) any {
	if c.Pos < 0 || c.Pos >= len(row) {
		return nil
	}
	return row[c.Pos]
}

func (c ColumnValue) String() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("#%d", c.Pos)
}

// ConstValue is a literal operand.
type ConstValue struct {
	Val any
}

func (c ConstValue) Value(record.Row) any { return c.Val }

func (c ConstValue) String() string {
	if s, ok := c.Val.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(c.Val)
}

// Comparison is "Left Op Right". Any comparison with NULL is false.
type Comparison struct {
	Op    query.Op
	Left  Operand
	Right Operand
}

func (c *Comparison) Eval(row record.Row) (bool, error) {
	a, b := c.Left.Value(row), c.Right.Value(row)
	if a == nil || b == nil {
		return false, nil
	}
	n, err := record.Compare(a, b)
	if err != nil {
		return false, fmt.Errorf("%s: %w", c, err)
	}
	return c.Op.Holds(n), nil
}

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

// JoinCondition decides whether a left and a right row join.
type JoinCondition interface {
	Match(left, right record.Row) (bool, error)
	String() string
}

// ColumnEquals joins when left[Left] equals right[Right]. NULL never matches.
type ColumnEquals struct {
	Left  int
	Right int
}

func (c ColumnEquals) Match(left, right record.Row) (bool, error) {
	a, b := ColumnValue{Pos: c.Left}.Value(left), ColumnValue{Pos: c.Right}.Value(right)
	if a == nil || b == nil {
		return false, nil
	}
	n, err := record.Compare(a, b)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

func (c ColumnEquals) String() string {
	return fmt.Sprintf("left#%d = right#%d", c.Left, c.Right)
}
