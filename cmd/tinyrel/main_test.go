package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/tinyrel"
)

func seed(t *testing.T, dir string) {
	t.Helper()
	db, err := tinyrel.Connect("disk:" + dir)
	require.NoError(t, err)
	_, err = db.Exec(&tinyrel.CreateTable{Schema: tinyrel.NewSchema("students",
		tinyrel.NewColumn("id", tinyrel.Int, tinyrel.PrimaryKey),
		tinyrel.NewColumn("name", tinyrel.String),
	)})
	require.NoError(t, err)
	for _, v := range [][]any{{1, "ann"}, {2, nil}} {
		_, err := db.Exec(&tinyrel.Insert{Table: "students", Columns: []string{"id", "name"}, Values: v})
		require.NoError(t, err)
	}
	require.NoError(t, db.Close())
}

func TestRun_ListAndDump(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "db")
	seed(t, dir)

	var out bytes.Buffer
	require.NoError(t, run(&out, "", "disk:"+dir, "", false))
	require.Contains(t, out.String(), "students")
	require.Contains(t, out.String(), "id INT PRIMARY_KEY")

	out.Reset()
	require.NoError(t, run(&out, "", "disk:"+dir, "students", true))
	require.Contains(t, out.String(), "plan: Scan(students)")
	require.Contains(t, out.String(), "ann")
	require.Contains(t, out.String(), "NULL")

	require.Error(t, run(&out, "", "disk:"+dir, "nope", false))
	require.Error(t, run(&out, "", "ftp://x", "", false))
}
