package query

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/tinyrel/internal/dberr"
)

func TestParseOp(t *testing.T) {
	for text, want := range map[string]Op{"=": OpEq, "<": OpLt, ">": OpGt, "<=": OpLe, ">=": OpGe} {
		op, err := ParseOp(text)
		require.NoError(t, err)
		require.Equal(t, want, op)
		require.Equal(t, text, op.String())
	}

	_, err := ParseOp("!=")
	require.ErrorIs(t, err, ErrUnknownOp)
	require.ErrorIs(t, err, dberr.ErrNotImplemented)
	_, err = ParseOp("?")
	require.Error(t, err)
}

func TestOp_Holds(t *testing.T) {
	cases := []struct {
		op                Op
		less, eq, greater bool
	}{
		{OpEq, false, true, false},
		{OpLt, true, false, false},
		{OpGt, false, false, true},
		{OpLe, true, true, false},
		{OpGe, false, true, true},
		{OpInvalid, false, false, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.less, tc.op.Holds(-1), "%v on less", tc.op)
		require.Equal(t, tc.eq, tc.op.Holds(0), "%v on equal", tc.op)
		require.Equal(t, tc.greater, tc.op.Holds(1), "%v on greater", tc.op)
	}
}

func TestSymbol_Split(t *testing.T) {
	tbl, col := Sym("students.id").Split()
	require.Equal(t, "students", tbl)
	require.Equal(t, "id", col)

	tbl, col = Sym("id").Split()
	require.Empty(t, tbl)
	require.Equal(t, "id", col)

	require.True(t, Sym("*").IsStar())
}

func TestBuilders(t *testing.T) {
	q := SelectFrom("students", "id", "name").Filter(Eq(Sym("id"), Val(1)))
	require.Equal(t, "students", q.From.Table)
	require.Nil(t, q.From.Join)
	require.Len(t, q.Exprs, 2)
	require.Equal(t, `id = 1`, q.Where.Cond.(*BinExpr).String())

	j := SelectJoin("a", "b", Eq(Sym("a.x"), Sym("b.y")), "*")
	require.Equal(t, [2]string{"a", "b"}, j.From.Join.Tables)
	require.Equal(t, InnerJoin, j.From.Join.Kind)
	require.Equal(t, "INNER", j.From.Join.Kind.String())
	require.Equal(t, `"x"`, Val("x").String())
}
