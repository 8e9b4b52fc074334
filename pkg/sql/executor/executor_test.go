package executor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"minisql/pkg/btree"
	"minisql/pkg/sql/parser"
	"minisql/pkg/storage"
)

func newTestExecutor(t *testing.T) *Executor {
	t.Helper()
	dir := t.TempDir()
	engine, err := storage.Open(dir)
	require.NoError(t, err)
	indexes, err := btree.OpenManager(dir, 4)
	require.NoError(t, err)
	return New(engine, indexes)
}

func run(t *testing.T, ex *Executor, sql string) *Result {
	t.Helper()
	stmt, err := parser.New(sql).Parse()
	require.NoError(t, err, "parsing %q", sql)
	res, err := ex.Execute(stmt)
	require.NoError(t, err, "executing %q", sql)
	return res
}

func TestExecutor_S1_CRUDBasics(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, "CREATE TABLE u(id INTEGER PRIMARY KEY, name VARCHAR(100) NOT NULL)")
	run(t, ex, "INSERT INTO u VALUES (1,'Alice'),(2,'Bob')")
	run(t, ex, "UPDATE u SET name='Alicia' WHERE id=1")

	res := run(t, ex, "SELECT name FROM u ORDER BY id")
	require.Len(t, res.Rows, 2)
	require.Equal(t, "Alicia", res.Rows[0]["name"].Str())
	require.Equal(t, "Bob", res.Rows[1]["name"].Str())
}

func TestExecutor_S2_AggregatesGroupBy(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, "CREATE TABLE sales(product VARCHAR(50), quantity INTEGER)")
	run(t, ex, "INSERT INTO sales VALUES ('Widget',10),('Widget',5),('Gadget',3),('Gadget',7)")

	res := run(t, ex, "SELECT product, SUM(quantity) AS total FROM sales GROUP BY product ORDER BY total DESC")
	require.Len(t, res.Rows, 2)
	require.Equal(t, "Widget", res.Rows[0]["product"].Str())
	require.Equal(t, int64(15), res.Rows[0]["total"].Int())
	require.Equal(t, "Gadget", res.Rows[1]["product"].Str())
	require.Equal(t, int64(10), res.Rows[1]["total"].Int())
}

func TestExecutor_S3_LeftJoin(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, "CREATE TABLE departments(id INTEGER PRIMARY KEY, name VARCHAR(50))")
	run(t, ex, "CREATE TABLE employees(id INTEGER PRIMARY KEY, name VARCHAR(50), dept_id INTEGER)")
	run(t, ex, "INSERT INTO departments VALUES (1,'Eng'),(2,'Mkt'),(3,'HR')")
	run(t, ex, "INSERT INTO employees VALUES (1,'Alice',1),(2,'Bob',1),(3,'Charlie',2),(4,'Diana',NULL)")

	res := run(t, ex, "SELECT e.name, d.name AS dept FROM employees e LEFT JOIN departments d ON e.dept_id=d.id")
	require.Len(t, res.Rows, 4)

	found := false
	for _, r := range res.Rows {
		if r["name"].Str() == "Diana" {
			found = true
			require.True(t, r["dept"].IsNull())
		}
	}
	require.True(t, found, "expected a row for Diana")
}

func TestExecutor_S4_UniqueConstraint(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, "CREATE TABLE x(id INTEGER PRIMARY KEY, email VARCHAR(255) UNIQUE)")
	run(t, ex, "INSERT INTO x VALUES (1,'a@b')")

	stmt, err := parser.New("INSERT INTO x VALUES (2,'a@b')").Parse()
	require.NoError(t, err)
	_, err = ex.Execute(stmt)
	require.Error(t, err)

	res := run(t, ex, "SELECT COUNT(*) AS c FROM x")
	require.Equal(t, int64(1), res.Rows[0]["c"].Int())
}

func TestExecutor_S5_LikeAndBetween(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, "CREATE TABLE products(name VARCHAR(50), price FLOAT)")
	run(t, ex, "INSERT INTO products VALUES ('Apple',1.50),('Banana',0.75),('Milk',3.00),('Bread',2.50),('Cheese',5.00)")

	res := run(t, ex, "SELECT name FROM products WHERE name LIKE 'B%' AND price BETWEEN 1.00 AND 3.00")
	require.Len(t, res.Rows, 1)
	require.Equal(t, "Bread", res.Rows[0]["name"].Str())
}

func TestExecutor_S6_Persistence(t *testing.T) {
	dir := t.TempDir()
	engine, err := storage.Open(dir)
	require.NoError(t, err)
	indexes, err := btree.OpenManager(dir, 4)
	require.NoError(t, err)
	ex := New(engine, indexes)

	run(t, ex, "CREATE TABLE u(id INTEGER PRIMARY KEY, name VARCHAR(100) NOT NULL)")
	run(t, ex, "INSERT INTO u VALUES (1,'Alice'),(2,'Bob')")

	engine2, err := storage.Open(dir)
	require.NoError(t, err)
	indexes2, err := btree.OpenManager(dir, 4)
	require.NoError(t, err)
	ex2 := New(engine2, indexes2)

	res := run(t, ex2, "SELECT COUNT(*) AS c FROM u")
	require.Equal(t, int64(2), res.Rows[0]["c"].Int())
}

func TestExecutor_SelectStar_ProjectsDeclaredOrder(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, "CREATE TABLE t(id INTEGER PRIMARY KEY, name VARCHAR(20), active BOOLEAN)")
	run(t, ex, "INSERT INTO t VALUES (1,'a',TRUE)")

	res := run(t, ex, "SELECT * FROM t")
	require.Equal(t, []string{"id", "name", "active"}, res.Columns)
}

func TestExecutor_UpdateReleasesOldUniqueIndexKey(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, "CREATE TABLE x(id INTEGER PRIMARY KEY, email VARCHAR(255) UNIQUE)")
	run(t, ex, "INSERT INTO x VALUES (1,'a@b')")
	run(t, ex, "UPDATE x SET email='c@d' WHERE id=1")

	res := run(t, ex, "SELECT email FROM x WHERE id=1")
	require.Equal(t, "c@d", res.Rows[0]["email"].Str())

	run(t, ex, "INSERT INTO x VALUES (2,'a@b')")
	res = run(t, ex, "SELECT COUNT(*) AS c FROM x")
	require.Equal(t, int64(2), res.Rows[0]["c"].Int())
}

func TestExecutor_TruncateResetsAndRebuildsIndexes(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, "CREATE TABLE x(id INTEGER PRIMARY KEY, email VARCHAR(255) UNIQUE)")
	run(t, ex, "INSERT INTO x VALUES (1,'a@b')")
	run(t, ex, "TRUNCATE TABLE x")
	run(t, ex, "INSERT INTO x VALUES (1,'a@b')")

	res := run(t, ex, "SELECT COUNT(*) AS c FROM x")
	require.Equal(t, int64(1), res.Rows[0]["c"].Int())
}

func TestExecutor_DropTableRemovesIndexes(t *testing.T) {
	ex := newTestExecutor(t)
	run(t, ex, "CREATE TABLE x(id INTEGER PRIMARY KEY)")
	run(t, ex, "DROP TABLE x")
	require.Empty(t, ex.indexes.GetTableIndexes("x"))
}
