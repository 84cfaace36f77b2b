package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/tinyrel/internal/dberr"
)

func studentsSchema() Schema {
	return NewSchema("students",
		NewColumn("id", TypeInt, AttrPrimaryKey, AttrAutoIncrement),
		NewColumn("name", TypeString),
		NewColumn("age", TypeInt),
	)
}

func TestSchema_Validate(t *testing.T) {
	require.NoError(t, studentsSchema().Validate())

	cases := []struct {
		name   string
		schema Schema
		want   error
	}{
		{"empty name", NewSchema(""), ErrSchemaNoName},
		{"slash in name", NewSchema("../x", NewColumn("a", TypeInt)), ErrSchemaBadName},
		{"backslash in name", NewSchema(`a\b`, NewColumn("a", TypeInt)), ErrSchemaBadName},
		{"dots in name", NewSchema("a..b", NewColumn("a", TypeInt)), ErrSchemaBadName},
		{"no columns", NewSchema("foo"), ErrSchemaNoColumns},
		{
			"duplicate column",
			NewSchema("foo", NewColumn("bar", TypeString), NewColumn("bar", TypeInt)),
			ErrSchemaDupColumn,
		},
		{"empty column name", NewSchema("foo", NewColumn("", TypeInt)), ErrSchemaEmptyColumn},
		{"unknown type", NewSchema("foo", NewColumn("x", DataType("BLOB"))), ErrSchemaUnknownType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schema.Validate()
			require.ErrorIs(t, err, tc.want)
			require.ErrorIs(t, err, dberr.ErrSchema)
		})
	}
}

func TestSchema_ColumnIDs(t *testing.T) {
	s := studentsSchema()

	ids, err := s.ColumnIDs()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2}, ids)

	ids, err = s.ColumnIDs("age", "id", "age")
	require.NoError(t, err)
	require.Equal(t, []int{2, 0, 2}, ids)

	_, err = s.ColumnIDs("nope")
	require.ErrorIs(t, err, ErrUnknownColumn)
	require.ErrorIs(t, err, dberr.ErrValidation)

	require.Equal(t, []string{"id", "name", "age"}, s.ColumnNames())
}

func TestSchema_CloneIsDeep(t *testing.T) {
	s := studentsSchema()
	c := s.Clone()
	c.Columns[0].Attrs[0] = AttrUnique
	c.Columns[1].Name = "renamed"

	require.Equal(t, AttrPrimaryKey, s.Columns[0].Attrs[0])
	require.Equal(t, "name", s.Columns[1].Name)
}

func TestColumn_Attrs(t *testing.T) {
	id := NewColumn("id", TypeInt, AttrPrimaryKey)
	require.True(t, id.Indexed())
	require.False(t, id.Nullable())

	email := NewColumn("email", TypeString, AttrUnique)
	require.True(t, email.Indexed())
	require.True(t, email.Nullable())

	age := NewColumn("age", TypeInt, AttrNotNull)
	require.False(t, age.Indexed())
	require.False(t, age.Nullable())
}

func TestParseDataType(t *testing.T) {
	for in, want := range map[string]DataType{
		"INT": TypeInt, "integer": TypeInt,
		"text": TypeString, "STRING": TypeString,
		"Boolean": TypeBool, "double": TypeFloat,
	} {
		got, err := ParseDataType(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseDataType("BLOB")
	require.ErrorIs(t, err, ErrUnsupportedDataType)
}
