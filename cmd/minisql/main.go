// Command minisql is the interactive shell and one-shot runner for the
// minisql engine. It uses cobra for argument parsing.
//
// Usage:
//
//	minisql [data-dir]
//	minisql [data-dir] -e "SELECT 1"
//	minisql [data-dir] -f script.sql
//
// If no data directory is given, "." is used. With neither -e nor -f,
// minisql enters an interactive REPL; .help lists its dot commands.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"minisql/pkg/cli"
	"minisql/pkg/database"
)

type rootFlags struct {
	execute string
	file    string
}

func main() {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "minisql [data-dir]",
		Short: "A minimal, embeddable, file-backed SQL engine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dataDir := "."
			if len(args) > 0 {
				dataDir = args[0]
			}
			return run(dataDir, flags)
		},
	}

	rootCmd.Flags().StringVarP(&flags.execute, "execute", "e", "", "Execute the given SQL and exit")
	rootCmd.Flags().StringVarP(&flags.file, "file", "f", "", "Execute the SQL in the given file and exit")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dataDir string, flags *rootFlags) error {
	switch {
	case flags.execute != "" && flags.file != "":
		return fmt.Errorf("--execute and --file are mutually exclusive")
	case flags.execute != "":
		return runOnce(dataDir, flags.execute)
	case flags.file != "":
		content, err := os.ReadFile(flags.file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", flags.file, err)
		}
		return runOnce(dataDir, string(content))
	default:
		return runREPL(dataDir)
	}
}

func runOnce(dataDir, sql string) error {
	db, err := database.Open(dataDir)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	results, err := db.ExecuteMany(sql)
	if err != nil {
		return err
	}
	for _, res := range results {
		if res.Message != "" {
			fmt.Println(res.Message)
		}
		if len(res.Columns) > 0 {
			fmt.Println(strings.Join(res.Columns, "\t"))
		}
		for _, row := range res.Rows {
			cells := make([]string, len(res.Columns))
			for i, col := range res.Columns {
				cells[i] = row[col].String()
			}
			fmt.Println(strings.Join(cells, "\t"))
		}
	}
	return nil
}

func runREPL(dataDir string) error {
	repl, err := cli.NewREPL(dataDir, os.Stdout, os.Stderr)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer repl.Close()

	repl.Run()
	return nil
}
