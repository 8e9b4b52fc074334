package database

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_LocksDataDirectoryAgainstSecondOpen(t *testing.T) {
	dir := t.TempDir()

	db1, err := Open(dir)
	require.NoError(t, err)
	defer db1.Close()

	_, err = Open(dir)
	require.ErrorIs(t, err, ErrDatabaseLocked)
	require.Contains(t, err.Error(), fmt.Sprintf("pid=%d", os.Getpid()))
}

func TestOpen_ReopenAfterCloseSucceeds(t *testing.T) {
	dir := t.TempDir()

	db1, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, db1.Close())

	db2, err := Open(dir)
	require.NoError(t, err)
	defer db2.Close()
}

func TestDatabase_ExecuteAndQuery(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Execute("CREATE TABLE u(id INTEGER PRIMARY KEY, name VARCHAR(50))")
	require.NoError(t, err)
	_, err = db.Execute("INSERT INTO u VALUES (1,'Alice'),(2,'Bob')")
	require.NoError(t, err)

	res, err := db.Execute("SELECT name FROM u ORDER BY id")
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)

	tables, err := db.Tables()
	require.NoError(t, err)
	require.Equal(t, []string{"u"}, tables)

	n, err := db.Count("u")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	desc, err := db.Describe("u")
	require.NoError(t, err)
	require.Len(t, desc.Rows, 2)
}

func TestDatabase_ExecuteMany(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	defer db.Close()

	results, err := db.ExecuteMany("CREATE TABLE t(id INTEGER); INSERT INTO t VALUES (1); INSERT INTO t VALUES (2)")
	require.NoError(t, err)
	require.Len(t, results, 3)

	n, err := db.Count("t")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestDatabase_OperationsAfterCloseFail(t *testing.T) {
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = db.Execute("SHOW TABLES")
	require.ErrorIs(t, err, ErrDatabaseClosed)

	require.ErrorIs(t, db.Close(), ErrDatabaseClosed)
}
