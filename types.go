// Package tinyrel is the top-level facade for the tinyrel engine.
package tinyrel

import (
	"github.com/tuannm99/tinyrel/internal/engine"
	"github.com/tuannm99/tinyrel/internal/index"
	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/sql/query"
)

type (
	Database   = engine.Database
	Cursor     = engine.Cursor
	Option     = engine.Option
	Schema     = record.Schema
	Column     = record.Column
	ColumnAttr = record.ColumnAttr
	DataType   = record.DataType
	Row        = record.Row
	RowID      = record.RowID
	IndexKind  = index.Kind

	Query       = query.Query
	CreateTable = query.CreateTable
	Insert      = query.Insert
	Select      = query.Select
)

const (
	Int    = record.TypeInt
	String = record.TypeString
	Bool   = record.TypeBool
	Float  = record.TypeFloat

	PrimaryKey    = record.AttrPrimaryKey
	Unique        = record.AttrUnique
	AutoIncrement = record.AttrAutoIncrement
	NotNull       = record.AttrNotNull

	OpEq = query.OpEq
	OpLt = query.OpLt
	OpGt = query.OpGt
	OpLe = query.OpLe
	OpGe = query.OpGe

	HashIndex   = index.KindHash
	SortedIndex = index.KindSorted
	BTreeIndex  = index.KindBTree
)

var (
	NewSchema     = record.NewSchema
	NewColumn     = record.NewColumn
	WithIndexKind = engine.WithIndexKind
	WithRowCache  = engine.WithRowCache
	Collect       = engine.Collect

	Sym        = query.Sym
	Val        = query.Val
	Eq         = query.Eq
	Cmp        = query.Cmp
	SelectFrom = query.SelectFrom
	SelectJoin = query.SelectJoin
)
