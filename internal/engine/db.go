// Package engine is the database façade: it owns the table registry and
// dispatches CREATE TABLE, INSERT and SELECT.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/tuannm99/tinyrel/internal/dberr"
	"github.com/tuannm99/tinyrel/internal/index"
	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/sql/planner"
	"github.com/tuannm99/tinyrel/internal/sql/query"
	"github.com/tuannm99/tinyrel/internal/table"
)

var (
	ErrDatabaseClosed = errors.New("tinyrel: database is closed")
	ErrTableExists    = fmt.Errorf("%w: table already exists", dberr.ErrValidation)
	ErrUnknownTable   = planner.ErrUnknownTable
	ErrValueCount     = fmt.Errorf("%w: column and value counts differ", dberr.ErrValidation)
	ErrColumnMismatch = fmt.Errorf("%w: insert columns must match the table schema in order", dberr.ErrValidation)
)

// Database executes queries against one set of tables.
// Implementations are not safe for concurrent use.
type Database interface {
	Name() string
	Exec(q query.Query) (Cursor, error)
	// Tables lists table names in creation order.
	Tables() []string
	Table(name string) (table.Table, bool)
	Close() error
}

type options struct {
	indexKind index.Kind
	rowCache  int
}

type Option func(*options)

// WithIndexKind selects the index implementation for PRIMARY_KEY/UNIQUE columns.
func WithIndexKind(kind index.Kind) Option {
	return func(o *options) { o.indexKind = kind }
}

// WithRowCache sets the per-table decoded row cache size of disk tables.
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

func (o options) tableOptions() []table.Option {
	return []table.Option{table.WithIndexKind(o.indexKind), table.WithRowCache(o.rowCache)}
}

// registry is the state and query dispatch shared by both backends.
// newTable creates backend storage for a validated, unregistered schema.
type registry struct {
	name     string
	tables   map[string]table.Table
	order    []string
	closed   bool
	newTable func(schema record.Schema) (table.Table, error)
}

func newRegistry(name string) registry {
	return registry{name: name, tables: make(map[string]table.Table)}
}

func (r *registry) Name() string { return r.name }

func (r *registry) Tables() []string { return slices.Clone(r.order) }

func (r *registry) Table(name string) (table.Table, bool) {
	tb, ok := r.tables[name]
	return tb, ok
}

func (r *registry) add(tb table.Table) {
	r.tables[tb.Name()] = tb
	r.order = append(r.order, tb.Name())
}

func (r *registry) Exec(q query.Query) (Cursor, error) {
	if r.closed {
		return nil, ErrDatabaseClosed
	}
	switch q := q.(type) {
	case *query.CreateTable:
		return r.createTable(q)
	case *query.Insert:
		return r.insert(q)
	case *query.Select:
		return r.selectRows(q)
	default:
		return nil, fmt.Errorf("%w: query %T", dberr.ErrNotImplemented, q)
	}
}

// Explain returns the operator tree chosen for q.
func (r *registry) Explain(q *query.Select) (string, error) {
	if r.closed {
		return "", ErrDatabaseClosed
	}
	node, err := planner.Plan(q, r)
	if err != nil {
		return "", err
	}
	return node.String(), nil
}

func (r *registry) createTable(q *query.CreateTable) (Cursor, error) {
	if err := q.Schema.Validate(); err != nil {
		return nil, err
	}
	if _, ok := r.tables[q.Schema.Name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrTableExists, q.Schema.Name)
	}
	tb, err := r.newTable(q.Schema.Clone())
	if err != nil {
		return nil, err
	}
	r.add(tb)
	slog.Debug("engine: table created", "db", r.name, "table", tb.Name())
	return NewRowsCursor(nil), nil
}

func (r *registry) insert(q *query.Insert) (Cursor, error) {
	if len(q.Columns) != len(q.Values) {
		return nil, fmt.Errorf("%w: %d columns, %d values", ErrValueCount, len(q.Columns), len(q.Values))
	}
	tb, ok := r.tables[q.Table]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, q.Table)
	}
	if names := tb.Schema().ColumnNames(); !slices.Equal(names, q.Columns) {
		return nil, fmt.Errorf("%w: want %v, got %v", ErrColumnMismatch, names, q.Columns)
	}
	_, row, err := tb.Insert(record.Row(q.Values))
	if err != nil {
		return nil, err
	}
	return NewRowsCursor([]record.Row{row}), nil
}

func (r *registry) selectRows(q *query.Select) (Cursor, error) {
	node, err := planner.Plan(q, r)
	if err != nil {
		return nil, err
	}
	return NewStreamCursor(node.Execute()), nil
}
