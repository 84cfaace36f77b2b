package record

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tuannm99/tinyrel/internal/dberr"
)

var (
	ErrSchemaNoName        = fmt.Errorf("%w: name must not be empty", dberr.ErrSchema)
	ErrSchemaBadName       = fmt.Errorf("%w: name must not contain a path separator or \"..\"", dberr.ErrSchema)
	ErrSchemaNoColumns     = fmt.Errorf("%w: columns must not be empty", dberr.ErrSchema)
	ErrSchemaDupColumn     = fmt.Errorf("%w: duplicate column name", dberr.ErrSchema)
	ErrSchemaEmptyColumn   = fmt.Errorf("%w: column name must not be empty", dberr.ErrSchema)
	ErrSchemaUnknownType   = fmt.Errorf("%w: unknown column type", dberr.ErrSchema)
	ErrUnknownColumn       = fmt.Errorf("%w: unknown column", dberr.ErrValidation)
	ErrUnsupportedDataType = fmt.Errorf("%w: unsupported data type", dberr.ErrSchema)
)

// DataType is the closed set of column types.
type DataType string

const (
	TypeInt    DataType = "INT"    // int64
	TypeString DataType = "STRING" // UTF-8 string
	TypeBool   DataType = "BOOL"   // bool
	TypeFloat  DataType = "FLOAT"  // float64
)

func (t DataType) Valid() bool {
	switch t {
	case TypeInt, TypeString, TypeBool, TypeFloat:
		return true
	}
	return false
}

// ParseDataType maps SQL spellings onto a DataType.
func ParseDataType(s string) (DataType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT", "INTEGER", "BIGINT":
		return TypeInt, nil
	case "STRING", "TEXT", "VARCHAR":
		return TypeString, nil
	case "BOOL", "BOOLEAN":
		return TypeBool, nil
	case "FLOAT", "DOUBLE", "REAL":
		return TypeFloat, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedDataType, s)
	}
}

type ColumnAttr string

const (
	AttrPrimaryKey    ColumnAttr = "PRIMARY_KEY"
	AttrUnique        ColumnAttr = "UNIQUE"
	AttrAutoIncrement ColumnAttr = "AUTO_INCREMENT"
	AttrNotNull       ColumnAttr = "NOT_NULL"
	AttrDefault       ColumnAttr = "DEFAULT"
	AttrForeignKey    ColumnAttr = "FOREIGN_KEY"
)

type Column struct {
	Name  string       `json:"name"`
	Type  DataType     `json:"type"`
	Attrs []ColumnAttr `json:"attrs,omitempty"`
}

func NewColumn(name string, typ DataType, attrs ...ColumnAttr) Column {
	return Column{Name: name, Type: typ, Attrs: attrs}
}

func (c Column) Has(attr ColumnAttr) bool { return slices.Contains(c.Attrs, attr) }

// Indexed reports whether the column gets an automatic unique index.
func (c Column) Indexed() bool { return c.Has(AttrPrimaryKey) || c.Has(AttrUnique) }

func (c Column) Nullable() bool { return !c.Has(AttrNotNull) && !c.Has(AttrPrimaryKey) }

type Schema struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

func NewSchema(name string, cols ...Column) Schema {
	return Schema{Name: name, Columns: cols}
}

func (s Schema) NumCols() int { return len(s.Columns) }

// Validate checks the invariants every table schema must hold.
func (s Schema) Validate() error {
	if s.Name == "" {
		return ErrSchemaNoName
	}
	if strings.ContainsAny(s.Name, `/\`) || strings.Contains(s.Name, "..") {
		return fmt.Errorf("%w: %q", ErrSchemaBadName, s.Name)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w (table %s)", ErrSchemaNoColumns, s.Name)
	}
	seen := make(map[string]struct{}, len(s.Columns))
	for _, col := range s.Columns {
		if col.Name == "" {
			return fmt.Errorf("%w (table %s)", ErrSchemaEmptyColumn, s.Name)
		}
		if _, dup := seen[col.Name]; dup {
			return fmt.Errorf("%w: %s.%s", ErrSchemaDupColumn, s.Name, col.Name)
		}
		seen[col.Name] = struct{}{}
		if !col.Type.Valid() {
			return fmt.Errorf("%w: %s.%s %q", ErrSchemaUnknownType, s.Name, col.Name, col.Type)
		}
	}
	return nil
}

func (s Schema) ColumnNames() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

func (s Schema) ColumnID(name string) (int, bool) {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// ColumnIDs resolves names to positions. Without names it returns every position.
func (s Schema) ColumnIDs(names ...string) ([]int, error) {
	if len(names) == 0 {
		ids := make([]int, len(s.Columns))
		for i := range ids {
			ids[i] = i
		}
		return ids, nil
	}
	ids := make([]int, len(names))
	for i, name := range names {
		id, ok := s.ColumnID(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, s.Name, name)
		}
		ids[i] = id
	}
	return ids, nil
}

// Clone returns a deep copy so callers cannot mutate a registered schema.
func (s Schema) Clone() Schema {
	cols := make([]Column, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = Column{Name: c.Name, Type: c.Type, Attrs: slices.Clone(c.Attrs)}
	}
	return Schema{Name: s.Name, Columns: cols}
}
