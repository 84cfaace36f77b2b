// Package catalog persists the table registry of a disk database.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/tuannm99/tinyrel/internal/dberr"
	"github.com/tuannm99/tinyrel/internal/record"
)

const (
	FileName       = "MANIFEST"
	CurrentVersion = 1
)

var (
	ErrBadVersion  = errors.New("tinyrel: unsupported manifest version")
	ErrTableExists = fmt.Errorf("%w: table already exists", dberr.ErrValidation)
)

// TableMeta describes one table. The heap file is <folder>/<Name>.data.
type TableMeta struct {
	Name      string          `json:"name"`
	Columns   []record.Column `json:"columns"`
	CreatedAt time.Time       `json:"created_at"`
}

func (m TableMeta) Schema() record.Schema {
	return record.Schema{Name: m.Name, Columns: m.Columns}.Clone()
}

// Manifest is the JSON document stored at <folder>/MANIFEST.
type Manifest struct {
	Version   int         `json:"version"`
	ID        uuid.UUID   `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Tables    []TableMeta `json:"tables"`
}

// New returns an empty manifest with a fresh database id.
func New() *Manifest {
	now := time.Now().UTC()
	return &Manifest{
		Version:   CurrentVersion,
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func Path(folder string) string { return filepath.Join(folder, FileName) }

// Load reads the manifest in folder. A missing file yields New().
func Load(folder string) (*Manifest, error) {
	data, err := os.ReadFile(Path(folder))
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", Path(folder), err)
	}
	if m.Version != CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, m.Version)
	}
	return &m, nil
}

// Save writes the manifest atomically: a temp file in folder, then rename.
func (m *Manifest) Save(folder string) error {
	m.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(folder, FileName+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), Path(folder))
}

// Table returns the entry for name.
func (m *Manifest) Table(name string) (TableMeta, bool) {
	for _, t := range m.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return TableMeta{}, false
}

// AddTable appends schema to the registry, keeping creation order.
func (m *Manifest) AddTable(schema record.Schema) error {
	if _, ok := m.Table(schema.Name); ok {
		return fmt.Errorf("%w: %q", ErrTableExists, schema.Name)
	}
	s := schema.Clone()
	m.Tables = append(m.Tables, TableMeta{
		Name:      s.Name,
		Columns:   s.Columns,
		CreatedAt: time.Now().UTC(),
	})
	return nil
}

// RemoveTable drops the entry for name, if present.
func (m *Manifest) RemoveTable(name string) bool {
	i := slices.IndexFunc(m.Tables, func(t TableMeta) bool { return t.Name == name })
	if i < 0 {
		return false
	}
	m.Tables = slices.Delete(m.Tables, i, i+1)
	return true
}

// Schemas lists the registered schemas in creation order.
func (m *Manifest) Schemas() []record.Schema {
	out := make([]record.Schema, len(m.Tables))
	for i, t := range m.Tables {
		out[i] = t.Schema()
	}
	return out
}
