package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/tinyrel/internal/dberr"
	"github.com/tuannm99/tinyrel/internal/record"
)

func testSchema(name string) record.Schema {
	return record.NewSchema(name,
		record.NewColumn("id", record.TypeInt, record.AttrPrimaryKey),
		record.NewColumn("name", record.TypeString, record.AttrNotNull),
	)
}

func TestLoad_MissingIsFresh(t *testing.T) {
	dir := t.TempDir()
	m, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, CurrentVersion, m.Version)
	require.NotEqual(t, uuid.Nil, m.ID)
	require.Empty(t, m.Tables)
	require.NoFileExists(t, Path(dir))
}

func TestManifest_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := New()
	require.NoError(t, m.AddTable(testSchema("b")))
	require.NoError(t, m.AddTable(testSchema("a")))

	err := m.AddTable(testSchema("a"))
	require.ErrorIs(t, err, ErrTableExists)
	require.ErrorIs(t, err, dberr.ErrValidation)

	require.NoError(t, m.Save(dir))
	require.FileExists(t, Path(dir))

	got, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, m.ID, got.ID)
	require.Equal(t, []record.Schema{testSchema("b"), testSchema("a")}, got.Schemas())

	meta, ok := got.Table("a")
	require.True(t, ok)
	require.Equal(t, testSchema("a"), meta.Schema())
	_, ok = got.Table("zzz")
	require.False(t, ok)

	require.True(t, got.RemoveTable("b"))
	require.False(t, got.RemoveTable("b"))
	require.Equal(t, []record.Schema{testSchema("a")}, got.Schemas())

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"version": 9}`), 0o644))
	_, err := Load(dir)
	require.ErrorIs(t, err, ErrBadVersion)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`not json`), 0o644))
	_, err = Load(dir)
	require.Error(t, err)
}
