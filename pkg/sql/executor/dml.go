// pkg/sql/executor/dml.go
package executor

import (
	"fmt"
	"strings"

	"minisql/pkg/sql/parser"
	"minisql/pkg/storage"
	"minisql/pkg/types"
)

func (ex *Executor) table(name string) (*storage.TableStorage, error) {
	t := ex.engine.Table(name)
	if t == nil {
		return nil, fmt.Errorf("%w: %q", storage.ErrTableNotFound, name)
	}
	return t, nil
}

// execInsert implements §4.6's INSERT: a supplied column list binds
// values by name and order; otherwise values bind to the schema's
// columns in declared order. Every non-NULL indexed column of the
// inserted row is added to its index.
func (ex *Executor) execInsert(stmt *parser.InsertStmt) (*Result, error) {
	table, err := ex.table(stmt.Table)
	if err != nil {
		return nil, err
	}

	columns := stmt.Columns
	if len(columns) == 0 {
		columns = table.Schema().ColumnNames()
	}

	empty := newEnvelope()
	affected := 0

	for _, rowExprs := range stmt.Rows {
		if len(rowExprs) != len(columns) {
			return nil, fmt.Errorf("%w: INSERT has %d columns but %d values", ErrExecution, len(columns), len(rowExprs))
		}

		row := make(map[string]types.Value, len(columns))
		for i, colName := range columns {
			v, err := evalExpr(rowExprs[i], empty)
			if err != nil {
				return nil, err
			}
			row[colName] = v
		}

		rowID, err := table.Insert(row)
		if err != nil {
			return nil, err
		}
		affected++

		if err := ex.updateIndexesOnInsert(stmt.Table, rowID, row); err != nil {
			return nil, err
		}
	}

	return &Result{AffectedRows: affected, Message: fmt.Sprintf("inserted %d row(s)", affected)}, nil
}

func (ex *Executor) updateIndexesOnInsert(tableName string, rowID int64, row map[string]types.Value) error {
	for _, idx := range ex.indexes.GetTableIndexes(tableName) {
		v, ok := lookupCaseInsensitive(row, idx.Column)
		if !ok || v.IsNull() {
			continue
		}
		if err := idx.Insert(v, rowID); err != nil {
			return err
		}
	}
	return nil
}

// execUpdate implements §4.6's UPDATE: each matching row's RHS
// expressions are evaluated against the old row (no intra-statement
// propagation between rows or between assignments of the same row),
// then indexes on any changed column are updated.
func (ex *Executor) execUpdate(stmt *parser.UpdateStmt) (*Result, error) {
	table, err := ex.table(stmt.Table)
	if err != nil {
		return nil, err
	}

	changedCols := make(map[string]bool, len(stmt.Assignments))
	for _, a := range stmt.Assignments {
		changedCols[strings.ToLower(a.Column)] = true
	}

	affected := 0
	for _, row := range table.Scan() {
		env := newEnvelope().with(stmt.Table, row.Row, row.ID)
		if stmt.Where != nil {
			v, err := evalExpr(stmt.Where, env)
			if err != nil {
				return nil, err
			}
			if !v.Truthy() {
				continue
			}
		}

		partial := make(map[string]types.Value, len(stmt.Assignments))
		for _, a := range stmt.Assignments {
			v, err := evalExpr(a.Value, env)
			if err != nil {
				return nil, err
			}
			partial[a.Column] = v
		}

		indexes := ex.indexes.GetTableIndexes(stmt.Table)
		for _, idx := range indexes {
			if !changedCols[strings.ToLower(idx.Column)] {
				continue
			}
			if oldVal, ok := lookupCaseInsensitive(row.Row, idx.Column); ok && !oldVal.IsNull() {
				if err := idx.Delete(oldVal, row.ID); err != nil {
					return nil, err
				}
			}
		}

		validated, err := table.Update(row.ID, partial)
		if err != nil {
			return nil, err
		}
		affected++

		for _, idx := range indexes {
			if !changedCols[strings.ToLower(idx.Column)] {
				continue
			}
			if newVal, ok := lookupCaseInsensitive(validated, idx.Column); ok && !newVal.IsNull() {
				if err := idx.Insert(newVal, row.ID); err != nil {
					return nil, err
				}
			}
		}
	}

	return &Result{AffectedRows: affected, Message: fmt.Sprintf("updated %d row(s)", affected)}, nil
}

// execDelete implements §4.6's DELETE: matching rows are removed from
// every index before being removed from storage.
func (ex *Executor) execDelete(stmt *parser.DeleteStmt) (*Result, error) {
	table, err := ex.table(stmt.Table)
	if err != nil {
		return nil, err
	}

	indexes := ex.indexes.GetTableIndexes(stmt.Table)
	affected := 0

	for _, row := range table.Scan() {
		if stmt.Where != nil {
			env := newEnvelope().with(stmt.Table, row.Row, row.ID)
			v, err := evalExpr(stmt.Where, env)
			if err != nil {
				return nil, err
			}
			if !v.Truthy() {
				continue
			}
		}

		for _, idx := range indexes {
			if v, ok := lookupCaseInsensitive(row.Row, idx.Column); ok && !v.IsNull() {
				if err := idx.Delete(v, row.ID); err != nil {
					return nil, err
				}
			}
		}
		if err := table.Delete(row.ID); err != nil {
			return nil, err
		}
		affected++
	}

	return &Result{AffectedRows: affected, Message: fmt.Sprintf("deleted %d row(s)", affected)}, nil
}
