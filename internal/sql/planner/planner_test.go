package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/tinyrel/internal/dberr"
	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/sql/executor"
	"github.com/tuannm99/tinyrel/internal/sql/query"
	"github.com/tuannm99/tinyrel/internal/table"
)

type mapCatalog map[string]table.Table

func (m mapCatalog) Table(name string) (table.Table, bool) {
	tb, ok := m[name]
	return tb, ok
}

func newCatalog(t *testing.T) mapCatalog {
	t.Helper()
	students, err := table.NewMem(record.NewSchema("students",
		record.NewColumn("id", record.TypeInt, record.AttrPrimaryKey, record.AttrAutoIncrement),
		record.NewColumn("name", record.TypeString),
		record.NewColumn("age", record.TypeInt),
	))
	require.NoError(t, err)
	for _, r := range []record.Row{{0, "ark", 42}, {1, "bam", 43}} {
		_, _, err := students.Insert(r)
		require.NoError(t, err)
	}

	signups, err := table.NewMem(record.NewSchema("signups",
		record.NewColumn("sid", record.TypeInt, record.AttrUnique),
		record.NewColumn("studentid", record.TypeInt),
	))
	require.NoError(t, err)

	plain, err := table.NewMem(record.NewSchema("plain",
		record.NewColumn("k", record.TypeInt),
		record.NewColumn("name", record.TypeString),
	))
	require.NoError(t, err)

	return mapCatalog{"students": students, "signups": signups, "plain": plain}
}

func TestPlan_SingleTable(t *testing.T) {
	cat := newCatalog(t)

	t.Run("star is a bare scan", func(t *testing.T) {
		n, err := Plan(query.SelectFrom("students", "*"), cat)
		require.NoError(t, err)
		require.IsType(t, &executor.Scan{}, n)
	})

	t.Run("all columns in order is a bare scan", func(t *testing.T) {
		n, err := Plan(query.SelectFrom("students", "id", "name", "age"), cat)
		require.NoError(t, err)
		require.IsType(t, &executor.Scan{}, n)
	})

	t.Run("subset is projected", func(t *testing.T) {
		n, err := Plan(query.SelectFrom("students", "age", "students.id"), cat)
		require.NoError(t, err)
		proj, ok := n.(*executor.ColumnProjection)
		require.True(t, ok)
		require.Equal(t, []int{2, 0}, proj.Columns)
		require.IsType(t, &executor.Scan{}, proj.Source)
	})

	t.Run("equality on indexed column", func(t *testing.T) {
		for _, cond := range []query.Condition{
			query.Eq(query.Sym("id"), query.Val(1)),
			query.Eq(query.Val(1), query.Sym("students.id")),
		} {
			n, err := Plan(query.SelectFrom("students", "*").Filter(cond), cat)
			require.NoError(t, err)
			lookup, ok := n.(*executor.IndexedLookup)
			require.True(t, ok, n.String())
			require.Equal(t, int64(1), lookup.Key)

			rows, err := executor.Collect(n)
			require.NoError(t, err)
			require.Equal(t, []record.Row{{int64(1), "bam", int64(43)}}, rows)
		}
	})

	t.Run("other predicates filter", func(t *testing.T) {
		cases := []query.Condition{
			query.Eq(query.Sym("age"), query.Val(42)),
			query.Cmp(query.OpGt, query.Sym("id"), query.Val(0)),
			query.Cmp(query.OpLe, query.Val(42), query.Sym("age")),
		}
		for _, cond := range cases {
			n, err := Plan(query.SelectFrom("students").Filter(cond), cat)
			require.NoError(t, err)
			require.IsType(t, &executor.FilteredScan{}, n)
		}

		// const on the left keeps its meaning: 42 <= age
		n, err := Plan(query.SelectFrom("students", "name").Filter(cases[2]), cat)
		require.NoError(t, err)
		rows, err := executor.Collect(n)
		require.NoError(t, err)
		require.Equal(t, []record.Row{{"ark"}, {"bam"}}, rows)

		n, err = Plan(query.SelectFrom("students", "name").Filter(query.Cmp(query.OpLt, query.Val(42), query.Sym("age"))), cat)
		require.NoError(t, err)
		rows, err = executor.Collect(n)
		require.NoError(t, err)
		require.Equal(t, []record.Row{{"bam"}}, rows)
	})

	t.Run("fractional constant against INT column", func(t *testing.T) {
		n, err := Plan(query.SelectFrom("students", "id").Filter(query.Cmp(query.OpGt, query.Sym("age"), query.Val(42.5))), cat)
		require.NoError(t, err)
		rows, err := executor.Collect(n)
		require.NoError(t, err)
		require.Equal(t, []record.Row{{int64(1)}}, rows)
	})
}

func TestPlan_SingleTableErrors(t *testing.T) {
	cat := newCatalog(t)
	cases := []struct {
		name string
		q    *query.Select
		want error
	}{
		{"unknown table", query.SelectFrom("nope"), ErrUnknownTable},
		{"unknown column", query.SelectFrom("students", "email"), record.ErrUnknownColumn},
		{"wrong qualifier", query.SelectFrom("students", "signups.sid"), ErrUnknownTable},
		{
			"unknown where column",
			query.SelectFrom("students").Filter(query.Eq(query.Sym("email"), query.Val("x"))),
			record.ErrUnknownColumn,
		},
		{
			"bad constant",
			query.SelectFrom("students").Filter(query.Eq(query.Sym("name"), query.Val(3))),
			ErrBadConstant,
		},
		{
			"column vs column",
			query.SelectFrom("students").Filter(query.Eq(query.Sym("id"), query.Sym("age"))),
			dberr.ErrNotImplemented,
		},
		{
			"const vs const",
			query.SelectFrom("students").Filter(query.Eq(query.Val(1), query.Val(1))),
			dberr.ErrNotImplemented,
		},
		{
			"invalid op",
			query.SelectFrom("students").Filter(query.Cmp(query.OpInvalid, query.Sym("id"), query.Val(1))),
			dberr.ErrNotImplemented,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Plan(tc.q, cat)
			require.ErrorIs(t, err, tc.want)
		})
	}
	_, err := Plan(query.SelectFrom("nope"), cat)
	require.ErrorIs(t, err, dberr.ErrValidation)
}

func TestPlan_Join(t *testing.T) {
	cat := newCatalog(t)
	signups := cat["signups"]
	for _, r := range []record.Row{{1, 0}, {0, 0}} {
		_, _, err := signups.Insert(r)
		require.NoError(t, err)
	}

	t.Run("index on right join column", func(t *testing.T) {
		for _, cond := range []query.Condition{
			query.Eq(query.Sym("students.id"), query.Sym("signups.sid")),
			query.Eq(query.Sym("signups.sid"), query.Sym("students.id")),
		} {
			q := query.SelectJoin("students", "signups", cond, "students.name", "signups.sid")
			n, err := Plan(q, cat)
			require.NoError(t, err)
			proj, ok := n.(*executor.ColumnProjection)
			require.True(t, ok)
			require.Equal(t, []int{1, 3}, proj.Columns)
			require.IsType(t, &executor.IndexedJoin{}, proj.Source)

			rows, err := executor.Collect(n)
			require.NoError(t, err)
			require.Equal(t, []record.Row{{"ark", int64(0)}, {"bam", int64(1)}}, rows)
		}
	})

	t.Run("no index falls back to hash join", func(t *testing.T) {
		q := query.SelectJoin("signups", "students", query.Eq(query.Sym("studentid"), query.Sym("students.age")), "*")
		n, err := Plan(q, cat)
		require.NoError(t, err)
		proj := n.(*executor.ColumnProjection)
		require.Equal(t, []int{0, 1, 2, 3, 4}, proj.Columns)
		hj, ok := proj.Source.(*executor.HashJoin)
		require.True(t, ok)
		require.Equal(t, 1, hj.BuildCol)
		require.Equal(t, 2, hj.ProbeCol)

		q = query.SelectJoin("students", "plain", query.Eq(query.Sym("students.id"), query.Sym("plain.k")), "*")
		n, err = Plan(q, cat)
		require.NoError(t, err)
		require.IsType(t, &executor.HashJoin{}, n.(*executor.ColumnProjection).Source)
	})

	t.Run("errors", func(t *testing.T) {
		withWhere := query.SelectJoin("students", "signups", query.Eq(query.Sym("students.id"), query.Sym("signups.sid")))
		withWhere.Filter(query.Eq(query.Sym("students.id"), query.Val(1)))
		_, err := Plan(withWhere, cat)
		require.ErrorIs(t, err, ErrJoinWithWhere)
		require.ErrorIs(t, err, dberr.ErrValidation)

		_, err = Plan(query.SelectJoin("students", "plain", query.Eq(query.Sym("id"), query.Sym("k")), "name"), cat)
		require.ErrorIs(t, err, ErrAmbiguous)

		_, err = Plan(query.SelectJoin("students", "nope", query.Eq(query.Sym("id"), query.Sym("x"))), cat)
		require.ErrorIs(t, err, ErrUnknownTable)

		notImpl := []*query.Select{
			query.SelectJoin("students", "signups", query.Cmp(query.OpLt, query.Sym("students.id"), query.Sym("signups.sid"))),
			query.SelectJoin("students", "signups", query.Eq(query.Sym("students.id"), query.Val(1))),
			query.SelectJoin("students", "signups", query.Eq(query.Sym("students.id"), query.Sym("students.age"))),
			query.SelectJoin("students", "students", query.Eq(query.Sym("id"), query.Sym("id"))),
		}
		left := query.SelectJoin("students", "signups", query.Eq(query.Sym("students.id"), query.Sym("signups.sid")))
		left.From.Join.Kind = query.LeftJoin
		notImpl = append(notImpl, left)
		for _, q := range notImpl {
			_, err := Plan(q, cat)
			require.ErrorIs(t, err, dberr.ErrNotImplemented)
		}
	})
}
