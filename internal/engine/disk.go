package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tuannm99/tinyrel/internal/alias/util"
	"github.com/tuannm99/tinyrel/internal/catalog"
	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/table"
)

var ErrNotDir = errors.New("tinyrel: not a directory")

// DiskDatabase stores one heap file per table plus a MANIFEST in folder.
// Open a folder with at most one DiskDatabase at a time.
type DiskDatabase struct {
	registry
	folder   string
	manifest *catalog.Manifest
}

var _ Database = (*DiskDatabase)(nil)

// OpenDisk opens the database in folder, creating the folder when absent.
// Its parent must already exist. On failure every table opened so far is closed.
func OpenDisk(folder string, opts ...Option) (*DiskDatabase, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, err
	}
	if err := ensureFolder(abs); err != nil {
		return nil, err
	}
	m, err := catalog.Load(abs)
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	db := &DiskDatabase{registry: newRegistry(filepath.Base(abs)), folder: abs, manifest: m}
	db.newTable = func(schema record.Schema) (table.Table, error) {
		return db.openNewTable(schema, o)
	}

	for _, schema := range m.Schemas() {
		tb, err := table.OpenDisk(schema, abs, o.tableOptions()...)
		if err != nil {
			for _, opened := range db.order {
				util.CloseQuietly(db.tables[opened], opened)
			}
			return nil, err
		}
		db.add(tb)
	}
	slog.Info("engine: disk database opened", "folder", abs, "id", m.ID, "tables", len(db.order))
	return db, nil
}

func ensureFolder(abs string) error {
	parent := filepath.Dir(abs)
	st, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("database parent %s: %w", parent, err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDir, parent)
	}
	err = os.Mkdir(abs, 0o755)
	if err == nil || !errors.Is(err, fs.ErrExist) {
		return err
	}
	st, err = os.Stat(abs)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDir, abs)
	}
	return nil
}

// openNewTable opens the heap file and records the schema in the manifest.
func (db *DiskDatabase) openNewTable(schema record.Schema, o options) (table.Table, error) {
	if err := db.manifest.AddTable(schema); err != nil {
		return nil, err
	}
	tb, err := table.OpenDisk(schema, db.folder, o.tableOptions()...)
	if err != nil {
		db.manifest.RemoveTable(schema.Name)
		return nil, err
	}
	if err := db.manifest.Save(db.folder); err != nil {
		db.manifest.RemoveTable(schema.Name)
		util.CloseQuietly(tb, schema.Name)
		return nil, err
	}
	return tb, nil
}

func (db *DiskDatabase) Folder() string { return db.folder }

// Sync flushes every heap file.
func (db *DiskDatabase) Sync() error {
	if db.closed {
		return ErrDatabaseClosed
	}
	for _, name := range db.order {
		if dt, ok := db.tables[name].(*table.DiskTable); ok {
			if err := dt.Sync(); err != nil {
				return fmt.Errorf("sync %s: %w", name, err)
			}
		}
	}
	return nil
}

// Close closes every table, even after a failure, then saves the manifest.
// Only the last error is returned; earlier ones are logged.
func (db *DiskDatabase) Close() error {
	if db.closed {
		return nil
	}
	db.closed = true

	var last error
	keep := func(err error, what string) {
		if err == nil {
			return
		}
		if last != nil {
			slog.Warn("engine: dropping earlier close error", "err", last)
		}
		last = fmt.Errorf("%s: %w", what, err)
	}
	for _, name := range db.order {
		keep(db.tables[name].Close(), "close "+name)
	}
	keep(db.manifest.Save(db.folder), "save manifest")

	slog.Info("engine: disk database closed", "folder", db.folder, "err", last)
	return last
}
