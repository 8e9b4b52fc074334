// Package database is minisql's public embedding façade: open a data
// directory, execute SQL against it, and close it again. It wires
// together the storage engine, the index manager, and the executor
// behind the single entry point described in spec §6.
package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"minisql/pkg/btree"
	"minisql/pkg/config"
	"minisql/pkg/sql/executor"
	"minisql/pkg/sql/parser"
	"minisql/pkg/storage"
)

var (
	// ErrDatabaseClosed is returned when operating on a closed Database.
	ErrDatabaseClosed = errors.New("database is closed")

	// ErrDatabaseLocked is returned by Open when another process already
	// owns the data directory.
	ErrDatabaseLocked = errors.New("database is locked by another process")
)

const lockFileName = "_lock"

// Database is a single open connection to a data directory. It is the
// only type an embedder needs; the CLI and any other external
// collaborator consume it through this surface alone.
type Database struct {
	mu sync.RWMutex

	dataDir  string
	lockFile *os.File

	cfg     config.Config
	engine  *storage.Engine
	indexes *btree.Manager
	exec    *executor.Executor

	closed bool
}

// Open acquires exclusive ownership of dataDir (creating it if needed),
// loads its optional minisql.toml, and opens the storage engine, the
// index manager, and the executor over it. The engine assumes a single
// process owns the data directory (spec §5); Open returns
// ErrDatabaseLocked if another process already holds it.
func Open(dataDir string) (*Database, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", dataDir, err)
	}

	lf, err := os.OpenFile(filepath.Join(dataDir, lockFileName), os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := lockFile(lf); err != nil {
		lf.Close()
		return nil, err
	}

	cfg, err := config.Load(dataDir)
	if err != nil {
		unlockFile(lf)
		lf.Close()
		return nil, err
	}

	engine, err := storage.Open(dataDir)
	if err != nil {
		unlockFile(lf)
		lf.Close()
		return nil, err
	}

	degree := cfg.Engine.BTreeDegree
	if degree <= 0 {
		degree = btree.DefaultDegree
	}
	indexes, err := btree.OpenManager(dataDir, degree)
	if err != nil {
		unlockFile(lf)
		lf.Close()
		return nil, err
	}

	return &Database{
		dataDir:  dataDir,
		lockFile: lf,
		cfg:      cfg,
		engine:   engine,
		indexes:  indexes,
		exec:     executor.New(engine, indexes),
	}, nil
}

// Execute parses one SQL statement and runs it.
func (db *Database) Execute(sql string) (*executor.Result, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil, ErrDatabaseClosed
	}

	stmt, err := parser.New(sql).Parse()
	if err != nil {
		return nil, err
	}
	return db.exec.Execute(stmt)
}

// ExecuteMany splits sql on ';' — naively, with no awareness of
// semicolons inside string literals, a known limitation preserved as-is
// per spec §9 — and runs each non-blank piece in order, stopping at the
// first error.
func (db *Database) ExecuteMany(sql string) ([]*executor.Result, error) {
	parts := strings.Split(sql, ";")
	results := make([]*executor.Result, 0, len(parts))
	for _, part := range parts {
		stmt := strings.TrimSpace(part)
		if stmt == "" {
			continue
		}
		res, err := db.Execute(stmt)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// Tables returns every table name in the catalog, sorted.
func (db *Database) Tables() ([]string, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return nil, ErrDatabaseClosed
	}
	names := db.engine.Catalog().ListTables()
	sort.Strings(names)
	return names, nil
}

// Describe returns the stored schema for name as a Result, the same
// shape execSelect and friends produce.
func (db *Database) Describe(name string) (*executor.Result, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil, ErrDatabaseClosed
	}
	return db.exec.Execute(&parser.DescribeStmt{Table: name})
}

// Count returns the row count of table name.
func (db *Database) Count(name string) (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.closed {
		return 0, ErrDatabaseClosed
	}
	ts := db.engine.Table(name)
	if ts == nil {
		return 0, fmt.Errorf("table not found: %q", name)
	}
	return ts.Count(), nil
}

// Indexes returns every index registered on table name.
func (db *Database) Indexes(table string) []*btree.Index {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.indexes.GetTableIndexes(table)
}

// DataDir returns the directory this Database was opened against.
func (db *Database) DataDir() string { return db.dataDir }

// Close releases the data directory lock. It is an error to call Close
// more than once.
func (db *Database) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrDatabaseClosed
	}
	db.closed = true

	if db.lockFile != nil {
		unlockFile(db.lockFile)
		err := db.lockFile.Close()
		db.lockFile = nil
		return err
	}
	return nil
}
