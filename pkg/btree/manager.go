// pkg/btree/manager.go
package btree

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrIndexNotFound is returned when a lookup names an index or
// table/column pair that has no index.
var ErrIndexNotFound = errors.New("index not found")

// ErrIndexExists is returned when CreateIndex is asked to create an
// index that already exists for a table/column pair.
var ErrIndexExists = errors.New("index already exists")

const metadataFileName = "_indexes.json"

type indexMeta struct {
	Name   string `json:"name"`
	Table  string `json:"table"`
	Column string `json:"column"`
	Unique bool   `json:"unique"`
}

// Manager tracks every index for a data directory, keyed by lowercased
// table and column name, and persists their identity (not their
// contents, which each Index file-backs itself) in _indexes.json.
type Manager struct {
	dataDir      string
	metadataPath string
	degree       int

	mu      sync.RWMutex
	byTable map[string]map[string]*Index
}

// OpenManager loads every index named in _indexes.json, opening its
// backing file.
func OpenManager(dataDir string, degree int) (*Manager, error) {
	m := &Manager{
		dataDir:      dataDir,
		metadataPath: filepath.Join(dataDir, metadataFileName),
		degree:       degree,
		byTable:      make(map[string]map[string]*Index),
	}

	data, err := os.ReadFile(m.metadataPath)
	if os.IsNotExist(err) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading index metadata: %w", err)
	}

	var metas []indexMeta
	if err := json.Unmarshal(data, &metas); err != nil {
		return nil, fmt.Errorf("parsing index metadata: %w", err)
	}

	for _, meta := range metas {
		idx, err := Open(meta.Name, meta.Table, meta.Column, meta.Unique, degree, m.indexPath(meta.Table, meta.Column))
		if err != nil {
			return nil, err
		}
		m.register(idx)
	}
	return m, nil
}

func (m *Manager) indexPath(table, column string) string {
	return filepath.Join(m.dataDir, fmt.Sprintf("_idx_%s_%s.json", strings.ToLower(table), strings.ToLower(column)))
}

func (m *Manager) register(idx *Index) {
	table := strings.ToLower(idx.Table)
	if m.byTable[table] == nil {
		m.byTable[table] = make(map[string]*Index)
	}
	m.byTable[table][strings.ToLower(idx.Column)] = idx
}

func (m *Manager) save() error {
	var metas []indexMeta
	for _, cols := range m.byTable {
		for _, idx := range cols {
			metas = append(metas, indexMeta{Name: idx.Name, Table: idx.Table, Column: idx.Column, Unique: idx.Unique})
		}
	}
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.metadataPath, data, 0o644)
}

// CreateIndex creates and registers a new, empty index named name on
// table.column.
func (m *Manager) CreateIndex(name, table, column string, unique bool) (*Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tableKey := strings.ToLower(table)
	if cols, ok := m.byTable[tableKey]; ok {
		if _, ok := cols[strings.ToLower(column)]; ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrIndexExists, table, column)
		}
	}

	idx := New(name, table, column, unique, m.degree, m.indexPath(table, column))
	m.register(idx)
	if err := m.save(); err != nil {
		return nil, err
	}
	return idx, nil
}

// GetIndex returns the index on table.column, or nil if there is none.
func (m *Manager) GetIndex(table, column string) *Index {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cols := m.byTable[strings.ToLower(table)]
	if cols == nil {
		return nil
	}
	return cols[strings.ToLower(column)]
}

// GetTableIndexes returns every index defined on table.
func (m *Manager) GetTableIndexes(table string) []*Index {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cols := m.byTable[strings.ToLower(table)]
	out := make([]*Index, 0, len(cols))
	for _, idx := range cols {
		out = append(out, idx)
	}
	return out
}

// DropIndex drops the index on table.column, removing its file.
func (m *Manager) DropIndex(table, column string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cols := m.byTable[strings.ToLower(table)]
	if cols == nil {
		return ErrIndexNotFound
	}
	idx, ok := cols[strings.ToLower(column)]
	if !ok {
		return ErrIndexNotFound
	}
	if err := idx.Drop(); err != nil {
		return err
	}
	delete(cols, strings.ToLower(column))
	return m.save()
}

// DropTableIndexes drops every index defined on table, e.g. when the
// table itself is dropped or truncated.
func (m *Manager) DropTableIndexes(table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tableKey := strings.ToLower(table)
	cols := m.byTable[tableKey]
	for _, idx := range cols {
		if err := idx.Drop(); err != nil {
			return err
		}
	}
	delete(m.byTable, tableKey)
	return m.save()
}

// DropIndexByName drops an index identified by its own name rather than
// its table/column pair, for the DROP INDEX statement.
func (m *Manager) DropIndexByName(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for table, cols := range m.byTable {
		for col, idx := range cols {
			if strings.EqualFold(idx.Name, name) {
				if err := idx.Drop(); err != nil {
					return err
				}
				delete(cols, col)
				_ = table
				return m.save()
			}
		}
	}
	return ErrIndexNotFound
}
