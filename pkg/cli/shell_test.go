// pkg/cli/shell_test.go
package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewShell_Defaults(t *testing.T) {
	shell := NewShell(strings.NewReader(""), &bytes.Buffer{}, nil)

	if shell.prompt != "minisql> " {
		t.Errorf("expected default prompt 'minisql> ', got %q", shell.prompt)
	}
}

func TestShell_SetPrompt(t *testing.T) {
	shell := NewShell(nil, nil, nil)
	shell.SetPrompt("db> ")

	if shell.prompt != "db> " {
		t.Errorf("expected prompt 'db> ', got %q", shell.prompt)
	}
}

func TestShell_IsComplete(t *testing.T) {
	shell := NewShell(nil, nil, nil)

	cases := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1;", true},
		{"SELECT 1", false},
		{"SELECT ';' FROM t;", true},
		{"SELECT ';'", false},
		{"-- comment ;\nSELECT 1;", true},
		{"/* comment ; */ SELECT 1;", true},
		{"/* still open ;", false},
		{"", false},
	}
	for _, c := range cases {
		if got := shell.IsComplete(c.sql); got != c.want {
			t.Errorf("IsComplete(%q) = %v, want %v", c.sql, got, c.want)
		}
	}
}

func TestShell_ReadStatement_DotCommandCompletesWithoutSemicolon(t *testing.T) {
	input := strings.NewReader(".tables\nSELECT 1;\n")
	output := &bytes.Buffer{}
	shell := NewShell(input, output, nil)

	stmt, eof := shell.ReadStatement()
	if eof {
		t.Fatal("unexpected EOF")
	}
	if stmt != ".tables" {
		t.Errorf("got %q, want %q", stmt, ".tables")
	}

	stmt, eof = shell.ReadStatement()
	if eof {
		t.Fatal("unexpected EOF")
	}
	if stmt != "SELECT 1;" {
		t.Errorf("got %q", stmt)
	}
}

func TestShell_ReadStatement_MultiLine(t *testing.T) {
	input := strings.NewReader("SELECT *\nFROM t;\n")
	output := &bytes.Buffer{}
	shell := NewShell(input, output, nil)

	stmt, eof := shell.ReadStatement()
	if eof {
		t.Fatal("unexpected EOF")
	}
	if stmt != "SELECT *\nFROM t;" {
		t.Errorf("got %q", stmt)
	}
}

func TestShell_History(t *testing.T) {
	shell := NewShell(nil, nil, nil)
	shell.AddHistory("SELECT 1;")
	shell.AddHistory("SELECT 1;")
	shell.AddHistory("SELECT 2;")

	hist := shell.History()
	if len(hist) != 2 {
		t.Fatalf("expected 2 entries (duplicate suppressed), got %d", len(hist))
	}

	shell.ClearHistory()
	if len(shell.History()) != 0 {
		t.Error("expected history to be cleared")
	}
}
