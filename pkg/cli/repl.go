// pkg/cli/repl.go
package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"minisql/pkg/config"
	"minisql/pkg/database"
	"minisql/pkg/sql/executor"
	"minisql/pkg/types"
)

// REPL drives an interactive SQL session over one Database: it reads
// statements with Shell, executes them, and renders the result.
type REPL struct {
	db *database.Database

	shell *Shell

	output    io.Writer
	errOutput io.Writer

	running       bool
	exitRequested bool
}

// NewREPL opens dataDir and builds a REPL reading from stdin.
func NewREPL(dataDir string, output, errOutput io.Writer) (*REPL, error) {
	return NewREPLWithInput(dataDir, os.Stdin, output, errOutput)
}

// NewREPLWithInput opens dataDir and builds a REPL over the given input
// stream, useful for tests and scripted sessions.
func NewREPLWithInput(dataDir string, input io.Reader, output, errOutput io.Writer) (*REPL, error) {
	db, err := database.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	cfg, err := config.Load(dataDir)
	if err != nil {
		db.Close()
		return nil, err
	}

	shell := NewShell(input, output, errOutput)
	if cfg.REPL.Prompt != "" {
		shell.SetPrompt(cfg.REPL.Prompt)
	}

	return &REPL{
		db:        db,
		shell:     shell,
		output:    output,
		errOutput: errOutput,
	}, nil
}

// Close closes the underlying database.
func (r *REPL) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Run reads and executes statements until EOF or .exit/.quit.
func (r *REPL) Run() {
	r.running = true
	r.exitRequested = false

	fmt.Fprintln(r.output, "minisql version 0.1.0")
	fmt.Fprintln(r.output, `Enter ".help" for usage hints.`)

	for r.running && !r.exitRequested {
		stmt, eof := r.shell.ReadStatement()

		if eof && stmt == "" {
			fmt.Fprintln(r.output)
			break
		}

		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			if eof {
				break
			}
			continue
		}

		if strings.HasPrefix(stmt, ".") {
			r.handleDotCommand(stmt)
		} else if err := r.ExecuteStatement(stmt); err != nil {
			r.printError(err)
		}

		if eof {
			break
		}
	}

	r.running = false
}

// ExecuteStatement runs sql (trailing ';' included or not) and renders
// its result.
func (r *REPL) ExecuteStatement(sql string) error {
	result, err := r.db.Execute(strings.TrimSuffix(strings.TrimSpace(sql), ";"))
	if err != nil {
		return err
	}
	r.displayResult(result)
	return nil
}

func (r *REPL) displayResult(result *executor.Result) {
	if result == nil {
		return
	}

	if len(result.Columns) == 0 {
		if result.Message != "" {
			fmt.Fprintln(r.output, result.Message)
		}
		if result.AffectedRows > 0 {
			fmt.Fprintf(r.output, "Rows affected: %d\n", result.AffectedRows)
		}
		return
	}

	r.displayTable(result.Columns, result.Rows)
}

// displayTable formats columns/rows as an ASCII table.
func (r *REPL) displayTable(columns []string, rows []map[string]types.Value) {
	if len(columns) == 0 {
		return
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, len(columns))
		for j, col := range columns {
			s := row[col].String()
			cells[i][j] = s
			if len(s) > widths[j] {
				widths[j] = len(s)
			}
		}
	}

	r.printSeparator(widths)
	r.printRow(columns, widths)
	r.printSeparator(widths)
	for _, row := range cells {
		r.printRow(row, widths)
	}
	r.printSeparator(widths)
	fmt.Fprintf(r.output, "%d row(s)\n", len(rows))
}

func (r *REPL) printSeparator(widths []int) {
	fmt.Fprint(r.output, "+")
	for _, w := range widths {
		fmt.Fprint(r.output, strings.Repeat("-", w+2))
		fmt.Fprint(r.output, "+")
	}
	fmt.Fprintln(r.output)
}

func (r *REPL) printRow(values []string, widths []int) {
	fmt.Fprint(r.output, "|")
	for i, val := range values {
		fmt.Fprintf(r.output, " %-*s |", widths[i], val)
	}
	fmt.Fprintln(r.output)
}

// handleDotCommand dispatches a leading-'.' command.
func (r *REPL) handleDotCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case ".exit", ".quit":
		r.exitRequested = true
	case ".help":
		r.printHelp()
	case ".tables":
		r.showTables()
	case ".schema":
		if len(parts) > 1 {
			r.showSchema(parts[1])
		} else {
			r.showAllSchemas()
		}
	case ".count":
		if len(parts) > 1 {
			r.showCount(parts[1])
		} else {
			fmt.Fprintln(r.errOutput, "Usage: .count TABLE")
		}
	case ".indexes":
		if len(parts) > 1 {
			r.showIndexes(parts[1])
		} else {
			fmt.Fprintln(r.errOutput, "Usage: .indexes TABLE")
		}
	case ".clear":
		r.shell.ClearHistory()
	default:
		fmt.Fprintf(r.errOutput, "Unknown command: %s\n", parts[0])
		fmt.Fprintln(r.errOutput, `Use ".help" for usage hints.`)
	}
}

func (r *REPL) printHelp() {
	help := `
.exit              Exit this program
.quit              Exit this program
.help              Show this help message
.tables            List all tables
.schema [TABLE]    Show table schema (all tables if omitted)
.count TABLE       Show the row count for TABLE
.indexes TABLE     List indexes on TABLE
.clear             Clear statement history

Enter SQL statements terminated with a semicolon.
Multi-line statements are supported.
`
	fmt.Fprintln(r.output, help)
}

func (r *REPL) showTables() {
	tables, err := r.db.Tables()
	if err != nil {
		r.printError(err)
		return
	}
	if len(tables) == 0 {
		fmt.Fprintln(r.output, "(no tables)")
		return
	}
	for _, name := range tables {
		fmt.Fprintln(r.output, name)
	}
}

func (r *REPL) showSchema(table string) {
	res, err := r.db.Describe(table)
	if err != nil {
		r.printError(err)
		return
	}
	r.displayTable(res.Columns, res.Rows)
}

func (r *REPL) showAllSchemas() {
	tables, err := r.db.Tables()
	if err != nil {
		r.printError(err)
		return
	}
	for _, name := range tables {
		fmt.Fprintf(r.output, "-- %s\n", name)
		r.showSchema(name)
	}
}

func (r *REPL) showCount(table string) {
	n, err := r.db.Count(table)
	if err != nil {
		r.printError(err)
		return
	}
	fmt.Fprintf(r.output, "%d row(s)\n", n)
}

func (r *REPL) showIndexes(table string) {
	idxs := r.db.Indexes(table)
	if len(idxs) == 0 {
		fmt.Fprintln(r.output, "(no indexes)")
		return
	}
	names := make([]string, len(idxs))
	byName := make(map[string]string, len(idxs))
	for i, idx := range idxs {
		names[i] = idx.Name
		uniq := "no"
		if idx.Unique {
			uniq = "yes"
		}
		byName[idx.Name] = fmt.Sprintf("%s  column=%s  unique=%s", idx.Name, idx.Column, uniq)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintln(r.output, byName[name])
	}
}

func (r *REPL) printError(err error) {
	fmt.Fprintf(r.errOutput, "Error: %v\n", err)
}
