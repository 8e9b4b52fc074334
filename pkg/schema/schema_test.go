package schema

import (
	"errors"
	"testing"

	"minisql/pkg/types"
)

func intCol(name string) Column {
	return Column{Name: name, Type: types.ColumnType{Kind: types.KindInt}}
}

func TestAddColumn_PrimaryKeyImpliesNotNullUnique(t *testing.T) {
	s := NewTableSchema("users")
	if err := s.AddColumn(Column{Name: "id", Type: types.ColumnType{Kind: types.KindInt}, PrimaryKey: true}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}

	col, ok := s.Column("ID")
	if !ok {
		t.Fatal("expected case-insensitive lookup to find column")
	}
	if !col.NotNull || !col.Unique {
		t.Errorf("primary key column should be NotNull and Unique, got %+v", col)
	}
	if s.PrimaryKey != "id" {
		t.Errorf("PrimaryKey = %q, want id", s.PrimaryKey)
	}
}

func TestAddColumn_DuplicatePrimaryKeyRejected(t *testing.T) {
	s := NewTableSchema("users")
	_ = s.AddColumn(Column{Name: "id", PrimaryKey: true, Type: types.ColumnType{Kind: types.KindInt}})
	err := s.AddColumn(Column{Name: "id2", PrimaryKey: true, Type: types.ColumnType{Kind: types.KindInt}})
	if !errors.Is(err, ErrDuplicatePK) {
		t.Errorf("expected ErrDuplicatePK, got %v", err)
	}
}

func TestAddColumn_DuplicateNameRejected(t *testing.T) {
	s := NewTableSchema("users")
	_ = s.AddColumn(intCol("name"))
	err := s.AddColumn(intCol("Name"))
	if !errors.Is(err, ErrColumnExists) {
		t.Errorf("expected ErrColumnExists, got %v", err)
	}
}

func TestValidateRow_NotNullViolation(t *testing.T) {
	s := NewTableSchema("users")
	_ = s.AddColumn(Column{Name: "name", Type: types.ColumnType{Kind: types.KindVarchar, Size: 50}, NotNull: true})

	_, err := s.ValidateRow(map[string]types.Value{})
	var nnErr *NotNullError
	if !errors.As(err, &nnErr) {
		t.Fatalf("expected NotNullError, got %v", err)
	}
	if nnErr.Column != "name" {
		t.Errorf("NotNullError.Column = %q, want name", nnErr.Column)
	}
}

func TestValidateRow_DefaultFillsMissingValue(t *testing.T) {
	s := NewTableSchema("users")
	def := types.Int(0)
	_ = s.AddColumn(Column{Name: "score", Type: types.ColumnType{Kind: types.KindInt}, Default: &def})

	row, err := s.ValidateRow(map[string]types.Value{})
	if err != nil {
		t.Fatalf("ValidateRow: %v", err)
	}
	if row["score"].Int() != 0 {
		t.Errorf("score = %v, want default 0", row["score"])
	}
}

func TestValidateRow_ConvertsAndPreservesColumnCase(t *testing.T) {
	s := NewTableSchema("users")
	_ = s.AddColumn(Column{Name: "Age", Type: types.ColumnType{Kind: types.KindInt}})

	row, err := s.ValidateRow(map[string]types.Value{"age": types.Text("42")})
	if err != nil {
		t.Fatalf("ValidateRow: %v", err)
	}
	v, ok := row["Age"]
	if !ok {
		t.Fatalf("expected canonical key Age in validated row, got %v", row)
	}
	if v.Int() != 42 {
		t.Errorf("Age = %v, want 42", v)
	}
}

func TestCatalog_CreateDropLookup(t *testing.T) {
	c := NewCatalog()
	s := NewTableSchema("Orders")

	if err := c.CreateTable(s); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if !c.TableExists("orders") {
		t.Error("expected case-insensitive TableExists to find table")
	}
	if c.Table("ORDERS") == nil {
		t.Error("expected case-insensitive Table lookup to succeed")
	}

	if err := c.CreateTable(NewTableSchema("orders")); !errors.Is(err, ErrTableExists) {
		t.Errorf("expected ErrTableExists, got %v", err)
	}

	if err := c.DropTable("orders"); err != nil {
		t.Fatalf("DropTable: %v", err)
	}
	if c.TableExists("orders") {
		t.Error("table should no longer exist after DropTable")
	}
	if err := c.DropTable("orders"); !errors.Is(err, ErrTableNotFound) {
		t.Errorf("expected ErrTableNotFound, got %v", err)
	}
}

func TestCatalog_ListTables(t *testing.T) {
	c := NewCatalog()
	_ = c.CreateTable(NewTableSchema("a"))
	_ = c.CreateTable(NewTableSchema("b"))

	names := c.ListTables()
	if len(names) != 2 {
		t.Fatalf("ListTables() returned %d names, want 2", len(names))
	}
}
