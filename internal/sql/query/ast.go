// Package query holds the statement tree consumed by the engine.
// A SQL parser is expected to produce these values; nothing here parses text.
package query

import (
	"fmt"
	"strings"

	"github.com/tuannm99/tinyrel/internal/record"
)

// Query is the root interface for all statements.
type Query interface {
	queryNode()
}

// ----- CREATE TABLE -----

type CreateTable struct {
	Schema record.Schema
}

func (*CreateTable) queryNode() {}

// ----- INSERT -----

// Insert names every column of the table in schema order.
type Insert struct {
	Table   string
	Columns []string
	Values  []any
}

func (*Insert) queryNode() {}

// ----- SELECT -----

// Select projects Exprs (column symbols, or "*") out of From.
type Select struct {
	Exprs []Symbol
	From  From
	Where *Where
}

func (*Select) queryNode() {}

// From is a single table, or a join when Join is set.
type From struct {
	Table string
	Join  *Join
}

type JoinKind int

const (
	InnerJoin JoinKind = iota
	LeftJoin
	RightJoin
	FullJoin
)

func (k JoinKind) String() string {
	switch k {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	default:
		return fmt.Sprintf("JoinKind(%d)", int(k))
	}
}

type Join struct {
	Tables [2]string
	On     On
	Kind   JoinKind
}

type On struct {
	Cond Condition
}

type Where struct {
	Cond Condition
}

// ----- Expressions -----

// Condition is a boolean expression. BinExpr is the only variant.
type Condition interface {
	condNode()
}

type BinExpr struct {
	Op    Op
	Left  Operand
	Right Operand
}

func (*BinExpr) condNode() {}

func (e *BinExpr) String() string {
	return fmt.Sprintf("%v %s %v", e.Left, e.Op, e.Right)
}

// Operand is a column reference or a literal.
type Operand interface {
	operandNode()
}

// Symbol references a column as "column" or "table.column".
// The name "*" selects every column.
type Symbol struct {
	Name string
}

func (*Symbol) operandNode() {}

func (s *Symbol) String() string { return s.Name }

// Split returns the table qualifier (possibly empty) and the column name.
func (s *Symbol) Split() (table, column string) {
	if i := strings.IndexByte(s.Name, '.'); i >= 0 {
		return s.Name[:i], s.Name[i+1:]
	}
	return "", s.Name
}

func (s *Symbol) IsStar() bool { return s.Name == "*" }

type Const struct {
	Value any
}

func (*Const) operandNode() {}

func (c *Const) String() string {
	if s, ok := c.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(c.Value)
}

// ----- Constructors -----

func Sym(name string) *Symbol { return &Symbol{Name: name} }

func Val(v any) *Const { return &Const{Value: v} }

func Cmp(op Op, left, right Operand) *BinExpr {
	return &BinExpr{Op: op, Left: left, Right: right}
}

func Eq(left, right Operand) *BinExpr { return Cmp(OpEq, left, right) }

// Columns builds a projection list from names.
func Columns(names ...string) []Symbol {
	out := make([]Symbol, len(names))
	for i, n := range names {
		out[i] = Symbol{Name: n}
	}
	return out
}

// SelectFrom returns SELECT exprs FROM table.
func SelectFrom(table string, exprs ...string) *Select {
	return &Select{Exprs: Columns(exprs...), From: From{Table: table}}
}

// SelectJoin returns SELECT exprs FROM left JOIN right ON cond.
func SelectJoin(left, right string, cond Condition, exprs ...string) *Select {
	return &Select{
		Exprs: Columns(exprs...),
		From: From{Join: &Join{
			Tables: [2]string{left, right},
			On:     On{Cond: cond},
			Kind:   InnerJoin,
		}},
	}
}

// Filter sets the WHERE clause and returns s.
func (s *Select) Filter(cond Condition) *Select {
	s.Where = &Where{Cond: cond}
	return s
}
