package engine

import (
	"log/slog"

	"github.com/tuannm99/tinyrel/internal/record"
	"github.com/tuannm99/tinyrel/internal/table"
)

// MemDatabase keeps every table in memory. Nothing survives Close.
type MemDatabase struct {
	registry
}

var _ Database = (*MemDatabase)(nil)

func NewMem(name string, opts ...Option) *MemDatabase {
	o := buildOptions(opts)
	db := &MemDatabase{registry: newRegistry(name)}
	db.newTable = func(schema record.Schema) (table.Table, error) {
		return table.NewMem(schema, o.tableOptions()...)
	}
	slog.Info("engine: memory database opened", "name", name, "index_kind", o.indexKind)
	return db
}

func (db *MemDatabase) Close() error {
	if db.closed {
		return nil
	}
	db.closed = true
	slog.Info("engine: memory database closed", "name", db.name)
	return nil
}
