// pkg/sql/executor/executor.go
package executor

import (
	"fmt"

	"minisql/pkg/btree"
	"minisql/pkg/sql/parser"
	"minisql/pkg/storage"
)

// Executor runs parsed statements against a storage engine and its
// indexes. It holds no state of its own beyond those two collaborators.
type Executor struct {
	engine  *storage.Engine
	indexes *btree.Manager
}

// New builds an executor over engine and indexes.
func New(engine *storage.Engine, indexes *btree.Manager) *Executor {
	return &Executor{engine: engine, indexes: indexes}
}

// Execute dispatches stmt to the handler for its concrete AST type.
func (ex *Executor) Execute(stmt parser.Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *parser.SelectStmt:
		return ex.execSelect(s)
	case *parser.InsertStmt:
		return ex.execInsert(s)
	case *parser.UpdateStmt:
		return ex.execUpdate(s)
	case *parser.DeleteStmt:
		return ex.execDelete(s)
	case *parser.CreateTableStmt:
		return ex.execCreateTable(s)
	case *parser.DropTableStmt:
		return ex.execDropTable(s)
	case *parser.CreateIndexStmt:
		return ex.execCreateIndex(s)
	case *parser.DropIndexStmt:
		return ex.execDropIndex(s)
	case *parser.ShowTablesStmt:
		return ex.execShowTables(s)
	case *parser.DescribeStmt:
		return ex.execDescribe(s)
	case *parser.TruncateStmt:
		return ex.execTruncate(s)
	default:
		return nil, fmt.Errorf("%w: unknown statement kind %T", ErrExecution, stmt)
	}
}
