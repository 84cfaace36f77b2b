// Package planner turns a SELECT into an executor.Node with a fixed set of
// rules: equality on an indexed column uses the index, joins use an index on
// the right table's join column when one exists, everything else scans.
package planner

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cast"

	"github.com/tuannm99/tinyrel/internal/dberr"
	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/sql/executor"
	"github.com/tuannm99/tinyrel/internal/sql/query"
	"github.com/tuannm99/tinyrel/internal/table"
)

var (
	ErrUnknownTable   = fmt.Errorf("%w: unknown table", dberr.ErrValidation)
	ErrAmbiguous      = fmt.Errorf("%w: ambiguous column", dberr.ErrValidation)
	ErrJoinWithWhere  = fmt.Errorf("%w: WHERE is not supported together with JOIN", dberr.ErrValidation)
	ErrBadConstant    = fmt.Errorf("%w: constant does not fit column", dberr.ErrValidation)
	ErrUnsupportedSQL = fmt.Errorf("%w: unsupported query shape", dberr.ErrNotImplemented)
)

// Catalog resolves table names for the planner.
type Catalog interface {
	Table(name string) (table.Table, bool)
}

// Plan builds the operator tree for q. It keeps no state between calls.
func Plan(q *query.Select, cat Catalog) (executor.Node, error) {
	if q == nil {
		return nil, fmt.Errorf("%w: nil select", ErrUnsupportedSQL)
	}
	if q.From.Join != nil {
		if q.Where != nil {
			return nil, ErrJoinWithWhere
		}
		return planJoin(q, cat)
	}
	return planSingle(q, cat)
}

func lookup(cat Catalog, name string) (table.Table, error) {
	tb, ok := cat.Table(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return tb, nil
}

// ----- single table -----

func planSingle(q *query.Select, cat Catalog) (executor.Node, error) {
	tb, err := lookup(cat, q.From.Table)
	if err != nil {
		return nil, err
	}
	schema := tb.Schema()
	scope := []source{{name: tb.Name(), schema: schema}}

	cols, err := resolveExprs(q.Exprs, scope)
	if err != nil {
		return nil, err
	}

	var node executor.Node = &executor.Scan{Table: tb}
	if q.Where != nil {
		node, err = planFilter(tb, schema, q.Where.Cond)
		if err != nil {
			return nil, err
		}
	}

	if !isIdentity(cols, schema.NumCols()) {
		node = &executor.ColumnProjection{Source: node, Columns: cols}
	}
	slog.Debug("planner: select", "table", tb.Name(), "plan", node.String())
	return node, nil
}

func planFilter(tb table.Table, schema record.Schema, cond query.Condition) (executor.Node, error) {
	be, ok := cond.(*query.BinExpr)
	if !ok {
		return nil, fmt.Errorf("%w: condition %T", ErrUnsupportedSQL, cond)
	}
	if !be.Op.Valid() {
		return nil, fmt.Errorf("%w: operator %v", ErrUnsupportedSQL, be.Op)
	}

	var (
		sym      *query.Symbol
		con      *query.Const
		colFirst bool
	)
	switch l := be.Left.(type) {
	case *query.Symbol:
		r, ok := be.Right.(*query.Const)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedSQL, be)
		}
		sym, con, colFirst = l, r, true
	case *query.Const:
		r, ok := be.Right.(*query.Symbol)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedSQL, be)
		}
		sym, con = r, l
	default:
		return nil, fmt.Errorf("%w: operand %T", ErrUnsupportedSQL, be.Left)
	}

	pos, err := resolveSymbol(sym, []source{{name: tb.Name(), schema: schema}})
	if err != nil {
		return nil, err
	}
	col := schema.Columns[pos]
	val, err := constFor(col, con.Value)
	if err != nil {
		return nil, err
	}

	if be.Op == query.OpEq {
		if idxs := tb.IndexesOn(col.Name); len(idxs) > 0 {
			return &executor.IndexedLookup{Table: tb, Index: idxs[0], Key: val}, nil
		}
	}

	colOp := executor.ColumnValue{Pos: pos, Name: col.Name}
	constOp := executor.ConstValue{Val: val}
	pred := &executor.Comparison{Op: be.Op, Left: colOp, Right: constOp}
	if !colFirst {
		pred.Left, pred.Right = constOp, colOp
	}
	return &executor.FilteredScan{Source: &executor.Scan{Table: tb}, Pred: pred}, nil
}

// constFor coerces a literal to the column type. Numeric literals that do
// not convert losslessly are kept as FLOAT so range predicates still work.
func constFor(col record.Column, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, err := record.CoerceValue(col.Type, v)
	if err == nil {
		return out, nil
	}
	if col.Type == record.TypeInt || col.Type == record.TypeFloat {
		switch v.(type) {
		case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			if f, ferr := cast.ToFloat64E(v); ferr == nil {
				return f, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s: %w", ErrBadConstant, col.Name, err)
}

// ----- join -----

func planJoin(q *query.Select, cat Catalog) (executor.Node, error) {
	j := q.From.Join
	if j.Kind != query.InnerJoin {
		return nil, fmt.Errorf("%w: %s join", ErrUnsupportedSQL, j.Kind)
	}
	if j.Tables[0] == j.Tables[1] {
		return nil, fmt.Errorf("%w: self join on %q", ErrUnsupportedSQL, j.Tables[0])
	}
	left, err := lookup(cat, j.Tables[0])
	if err != nil {
		return nil, err
	}
	right, err := lookup(cat, j.Tables[1])
	if err != nil {
		return nil, err
	}
	ls, rs := left.Schema(), right.Schema()
	scope := []source{
		{name: left.Name(), schema: ls},
		{name: right.Name(), schema: rs, offset: ls.NumCols()},
	}

	be, ok := j.On.Cond.(*query.BinExpr)
	if !ok || be.Op != query.OpEq {
		return nil, fmt.Errorf("%w: join condition must be column = column", ErrUnsupportedSQL)
	}
	a, okA := be.Left.(*query.Symbol)
	b, okB := be.Right.(*query.Symbol)
	if !okA || !okB {
		return nil, fmt.Errorf("%w: join condition must be column = column", ErrUnsupportedSQL)
	}
	pa, err := resolveSymbol(a, scope)
	if err != nil {
		return nil, err
	}
	pb, err := resolveSymbol(b, scope)
	if err != nil {
		return nil, err
	}
	// one operand per table, either order
	if pa >= ls.NumCols() {
		pa, pb = pb, pa
	}
	if pa >= ls.NumCols() || pb < ls.NumCols() {
		return nil, fmt.Errorf("%w: join condition %s must reference both tables", ErrUnsupportedSQL, be)
	}
	leftCol, rightCol := pa, pb-ls.NumCols()

	cols, err := resolveExprs(q.Exprs, scope)
	if err != nil {
		return nil, err
	}

	var node executor.Node
	if idxs := right.IndexesOn(rs.Columns[rightCol].Name); len(idxs) > 0 {
		node = &executor.IndexedJoin{
			Source: &executor.Scan{Table: left},
			Column: leftCol,
			Index:  idxs[0],
			Table:  right,
		}
	} else {
		node = &executor.HashJoin{
			Build:    &executor.Scan{Table: left},
			Probe:    &executor.Scan{Table: right},
			BuildCol: leftCol,
			ProbeCol: rightCol,
		}
	}
	node = &executor.ColumnProjection{Source: node, Columns: cols}
	slog.Debug("planner: join", "left", left.Name(), "right", right.Name(), "plan", node.String())
	return node, nil
}

// ----- name resolution -----

// source is one table visible to a query; offset is the position of its
// first column in the concatenated row.
type source struct {
	name   string
	schema record.Schema
	offset int
}

// resolveSymbol returns the position of sym in the concatenated row of scope.
func resolveSymbol(sym *query.Symbol, scope []source) (int, error) {
	qual, col := sym.Split()
	found := -1
	for _, src := range scope {
		if qual != "" && qual != src.name {
			continue
		}
		id, ok := src.schema.ColumnID(col)
		if !ok {
			continue
		}
		if found >= 0 {
			return 0, fmt.Errorf("%w: %q", ErrAmbiguous, sym.Name)
		}
		found = src.offset + id
	}
	if found >= 0 {
		return found, nil
	}
	if qual != "" && !slices.ContainsFunc(scope, func(s source) bool { return s.name == qual }) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTable, qual)
	}
	return 0, fmt.Errorf("%w: %q", record.ErrUnknownColumn, sym.Name)
}

// resolveExprs maps the projection list to row positions. "*" expands to
// every column of every table in scope, and an empty list means "*".
func resolveExprs(exprs []query.Symbol, scope []source) ([]int, error) {
	if len(exprs) == 0 {
		exprs = []query.Symbol{{Name: "*"}}
	}
	var cols []int
	for i := range exprs {
		sym := &exprs[i]
		if sym.IsStar() {
			for _, src := range scope {
				for id := range src.schema.Columns {
					cols = append(cols, src.offset+id)
				}
			}
			continue
		}
		pos, err := resolveSymbol(sym, scope)
		if err != nil {
			return nil, err
		}
		cols = append(cols, pos)
	}
	return cols, nil
}

func isIdentity(cols []int, n int) bool {
	if len(cols) != n {
		return false
	}
	for i, c := range cols {
		if c != i {
			return false
		}
	}
	return true
}
