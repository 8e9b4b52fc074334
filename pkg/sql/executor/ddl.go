// pkg/sql/executor/ddl.go
package executor

import (
	"fmt"
	"sort"
	"strings"

	"minisql/pkg/schema"
	"minisql/pkg/sql/parser"
	"minisql/pkg/types"
)

func pkIndexName(table, column string) string {
	return fmt.Sprintf("pk_%s_%s", strings.ToLower(table), strings.ToLower(column))
}

func uniqueIndexName(table, column string) string {
	return fmt.Sprintf("unique_%s_%s", strings.ToLower(table), strings.ToLower(column))
}

// execCreateTable implements §4.6's CREATE TABLE: register the schema,
// then create a unique index on the primary key (if any) and one for
// every other UNIQUE column.
func (ex *Executor) execCreateTable(stmt *parser.CreateTableStmt) (*Result, error) {
	if stmt.IfNotExists && ex.engine.Catalog().TableExists(stmt.Table) {
		return &Result{Message: fmt.Sprintf("table %q already exists", stmt.Table)}, nil
	}

	s := schema.NewTableSchema(stmt.Table)
	for _, cd := range stmt.Columns {
		col := schema.Column{
			Name:       cd.Name,
			Type:       cd.Type,
			PrimaryKey: cd.PrimaryKey,
			Unique:     cd.Unique,
			NotNull:    cd.NotNull,
		}
		if cd.Default != nil {
			v, err := evalExpr(cd.Default, newEnvelope())
			if err != nil {
				return nil, err
			}
			converted, err := types.ValidateAndConvert(cd.Name, v, cd.Type)
			if err != nil {
				return nil, err
			}
			col.Default = &converted
		}
		if err := s.AddColumn(col); err != nil {
			return nil, err
		}
	}

	if err := ex.engine.CreateTable(s); err != nil {
		return nil, err
	}

	if s.PrimaryKey != "" {
		if _, err := ex.indexes.CreateIndex(pkIndexName(stmt.Table, s.PrimaryKey), stmt.Table, s.PrimaryKey, true); err != nil {
			return nil, err
		}
	}
	for col := range s.UniqueColumns {
		if strings.EqualFold(col, s.PrimaryKey) {
			continue
		}
		if _, err := ex.indexes.CreateIndex(uniqueIndexName(stmt.Table, col), stmt.Table, col, true); err != nil {
			return nil, err
		}
	}

	return &Result{Message: fmt.Sprintf("table %q created", stmt.Table)}, nil
}

// execDropTable implements §4.6's DROP TABLE: drop all of the table's
// indexes, then the table itself.
func (ex *Executor) execDropTable(stmt *parser.DropTableStmt) (*Result, error) {
	if stmt.IfExists && !ex.engine.Catalog().TableExists(stmt.Table) {
		return &Result{Message: fmt.Sprintf("table %q does not exist", stmt.Table)}, nil
	}

	if err := ex.indexes.DropTableIndexes(stmt.Table); err != nil {
		return nil, err
	}
	if err := ex.engine.DropTable(stmt.Table); err != nil {
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("table %q dropped", stmt.Table)}, nil
}

// execCreateIndex implements §4.6's CREATE INDEX: validate table and
// column, create the index, then populate it from existing rows.
func (ex *Executor) execCreateIndex(stmt *parser.CreateIndexStmt) (*Result, error) {
	table, err := ex.table(stmt.Table)
	if err != nil {
		return nil, err
	}
	if _, ok := table.Schema().Column(stmt.Column); !ok {
		return nil, fmt.Errorf("%w: column %q not found on table %q", schema.ErrColumnNotFound, stmt.Column, stmt.Table)
	}

	idx, err := ex.indexes.CreateIndex(stmt.Name, stmt.Table, stmt.Column, stmt.Unique)
	if err != nil {
		return nil, err
	}

	for _, row := range table.Scan() {
		v, ok := lookupCaseInsensitive(row.Row, stmt.Column)
		if !ok || v.IsNull() {
			continue
		}
		if err := idx.Insert(v, row.ID); err != nil {
			return nil, err
		}
	}

	return &Result{Message: fmt.Sprintf("index %q created", stmt.Name)}, nil
}

// execDropIndex implements DROP INDEX.
func (ex *Executor) execDropIndex(stmt *parser.DropIndexStmt) (*Result, error) {
	err := ex.indexes.DropIndexByName(stmt.Name)
	if err != nil {
		if stmt.IfExists {
			return &Result{Message: fmt.Sprintf("index %q does not exist", stmt.Name)}, nil
		}
		return nil, err
	}
	return &Result{Message: fmt.Sprintf("index %q dropped", stmt.Name)}, nil
}

// execShowTables implements SHOW TABLES, reading from the catalog.
func (ex *Executor) execShowTables(_ *parser.ShowTablesStmt) (*Result, error) {
	names := ex.engine.Catalog().ListTables()
	sort.Strings(names)

	rows := make([]map[string]types.Value, len(names))
	for i, name := range names {
		rows[i] = map[string]types.Value{"name": types.Varchar(name)}
	}
	return &Result{Columns: []string{"name"}, Rows: rows}, nil
}

// execDescribe implements DESCRIBE, reading from the catalog. The
// richer per-column shape (primary key / unique / not-null markers, not
// just a bare type string) mirrors the original REPL's describe output.
func (ex *Executor) execDescribe(stmt *parser.DescribeStmt) (*Result, error) {
	s := ex.engine.Catalog().Table(stmt.Table)
	if s == nil {
		return nil, fmt.Errorf("%w: %q", schema.ErrTableNotFound, stmt.Table)
	}

	cols := []string{"name", "type", "primary_key", "unique", "not_null", "default"}
	rows := make([]map[string]types.Value, len(s.Columns))
	for i, c := range s.Columns {
		def := types.Null()
		if c.Default != nil {
			def = *c.Default
		}
		rows[i] = map[string]types.Value{
			"name":        types.Varchar(c.Name),
			"type":        types.Varchar(c.Type.String()),
			"primary_key": types.Bool(c.PrimaryKey),
			"unique":      types.Bool(c.Unique),
			"not_null":    types.Bool(c.NotNull),
			"default":     def,
		}
	}
	return &Result{Columns: cols, Rows: rows}, nil
}

// execTruncate implements TRUNCATE: drop-and-recreate every index on the
// table empty, clear its rows, and reset the row-id counter.
func (ex *Executor) execTruncate(stmt *parser.TruncateStmt) (*Result, error) {
	table, err := ex.table(stmt.Table)
	if err != nil {
		return nil, err
	}

	type indexSpec struct {
		name, column string
		unique       bool
	}
	existing := ex.indexes.GetTableIndexes(stmt.Table)
	specs := make([]indexSpec, len(existing))
	for i, idx := range existing {
		specs[i] = indexSpec{idx.Name, idx.Column, idx.Unique}
	}

	if err := ex.indexes.DropTableIndexes(stmt.Table); err != nil {
		return nil, err
	}
	if err := table.Truncate(); err != nil {
		return nil, err
	}
	for _, spec := range specs {
		if _, err := ex.indexes.CreateIndex(spec.name, stmt.Table, spec.column, spec.unique); err != nil {
			return nil, err
		}
	}

	return &Result{Message: fmt.Sprintf("table %q truncated", stmt.Table)}, nil
}
