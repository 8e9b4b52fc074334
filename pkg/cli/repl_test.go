// pkg/cli/repl_test.go
package cli

import (
	"bytes"
	"strings"
	"testing"
)

func newTestREPL(t *testing.T, input string) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	repl, err := NewREPLWithInput(t.TempDir(), strings.NewReader(input), out, errOut)
	if err != nil {
		t.Fatalf("NewREPLWithInput: %v", err)
	}
	return repl, out, errOut
}

func TestREPL_ExecuteStatement_CreateAndSelect(t *testing.T) {
	repl, out, errOut := newTestREPL(t, "")
	defer repl.Close()

	if err := repl.ExecuteStatement("CREATE TABLE t(id INTEGER PRIMARY KEY, name VARCHAR(10))"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repl.ExecuteStatement("INSERT INTO t VALUES (1,'a')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	out.Reset()
	if err := repl.ExecuteStatement("SELECT * FROM t"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if !strings.Contains(out.String(), "name") {
		t.Errorf("expected column header in output, got %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("expected no errors, got %q", errOut.String())
	}
}

func TestREPL_HandleDotCommand_Tables(t *testing.T) {
	repl, out, _ := newTestREPL(t, "")
	defer repl.Close()

	if err := repl.ExecuteStatement("CREATE TABLE t(id INTEGER)"); err != nil {
		t.Fatalf("create: %v", err)
	}

	out.Reset()
	repl.handleDotCommand(".tables")
	if !strings.Contains(out.String(), "t") {
		t.Errorf("expected 't' in .tables output, got %q", out.String())
	}
}

func TestREPL_HandleDotCommand_Exit(t *testing.T) {
	repl, _, _ := newTestREPL(t, "")
	defer repl.Close()

	repl.handleDotCommand(".exit")
	if !repl.exitRequested {
		t.Error("expected .exit to request exit")
	}
}

func TestREPL_HandleDotCommand_Unknown(t *testing.T) {
	repl, _, errOut := newTestREPL(t, "")
	defer repl.Close()

	repl.handleDotCommand(".bogus")
	if !strings.Contains(errOut.String(), "Unknown command") {
		t.Errorf("expected unknown-command error, got %q", errOut.String())
	}
}
