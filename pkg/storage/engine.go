// pkg/storage/engine.go
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"minisql/pkg/schema"
)

var ErrTableNotFound = errors.New("table not found")

const catalogFileName = "_catalog.json"

// Engine owns the catalog and the per-table storage for one data
// directory.
type Engine struct {
	dataDir      string
	catalogPath  string

	mu      sync.RWMutex
	catalog *schema.Catalog
	tables  map[string]*TableStorage
}

// Open creates dataDir if needed and loads the catalog and every table's
// storage from it.
func Open(dataDir string) (*Engine, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	e := &Engine{
		dataDir:     dataDir,
		catalogPath: filepath.Join(dataDir, catalogFileName),
		tables:      make(map[string]*TableStorage),
	}

	data, err := os.ReadFile(e.catalogPath)
	switch {
	case os.IsNotExist(err):
		e.catalog = schema.NewCatalog()
	case err != nil:
		return nil, fmt.Errorf("reading catalog: %w", err)
	default:
		cat, err := unmarshalCatalog(data)
		if err != nil {
			return nil, fmt.Errorf("parsing catalog: %w", err)
		}
		e.catalog = cat
	}

	for _, name := range e.catalog.ListTables() {
		ts, err := openTableStorage(dataDir, e.catalog.Table(name))
		if err != nil {
			return nil, err
		}
		e.tables[strings.ToLower(name)] = ts
	}

	return e, nil
}

func (e *Engine) saveCatalog() error {
	data, err := marshalCatalog(e.catalog)
	if err != nil {
		return err
	}
	return os.WriteFile(e.catalogPath, data, 0o644)
}

// Catalog returns the engine's schema catalog.
func (e *Engine) Catalog() *schema.Catalog { return e.catalog }

// CreateTable registers s in the catalog and opens its storage.
func (e *Engine) CreateTable(s *schema.TableSchema) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.catalog.CreateTable(s); err != nil {
		return err
	}
	ts, err := openTableStorage(e.dataDir, s)
	if err != nil {
		return err
	}
	e.tables[strings.ToLower(s.Name)] = ts
	return e.saveCatalog()
}

// DropTable removes a table's storage file and its catalog entry.
func (e *Engine) DropTable(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	lower := strings.ToLower(name)
	if ts, ok := e.tables[lower]; ok {
		if err := ts.Drop(); err != nil {
			return err
		}
		delete(e.tables, lower)
	}
	if err := e.catalog.DropTable(name); err != nil {
		return err
	}
	return e.saveCatalog()
}

// Table returns the storage for name, or nil if it does not exist.
func (e *Engine) Table(name string) *TableStorage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tables[strings.ToLower(name)]
}

// DataDir returns the directory this engine persists into.
func (e *Engine) DataDir() string { return e.dataDir }
