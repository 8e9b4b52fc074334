// pkg/cli/shell.go
package cli

import (
	"bufio"
	"io"
	"strings"
	"unicode"
)

// Shell provides line-oriented input handling for the REPL: prompts,
// multi-line statement accumulation until the input ends with a bare
// semicolon outside of a string literal or comment, and command history.
type Shell struct {
	reader *bufio.Reader

	output    io.Writer
	errOutput io.Writer

	prompt         string
	continuePrompt string

	history      []string
	historyIndex int
	maxHistory   int
}

// NewShell creates a shell reading from input and writing to output. If
// errOutput is nil, errors are written to output instead.
func NewShell(input io.Reader, output, errOutput io.Writer) *Shell {
	var reader *bufio.Reader
	if input != nil {
		reader = bufio.NewReader(input)
	}
	if errOutput == nil {
		errOutput = output
	}

	return &Shell{
		reader:         reader,
		output:         output,
		errOutput:      errOutput,
		prompt:         "minisql> ",
		continuePrompt: "     ...> ",
		history:        make([]string, 0),
		maxHistory:     1000,
	}
}

// SetPrompt changes the primary prompt string.
func (s *Shell) SetPrompt(prompt string) { s.prompt = prompt }

// ReadLine reads a single line, stripping trailing whitespace. It
// reports whether EOF was reached.
func (s *Shell) ReadLine() (string, bool) {
	if s.reader == nil {
		return "", true
	}

	line, err := s.reader.ReadString('\n')
	if err != nil {
		return strings.TrimRight(line, " \t\r\n"), true
	}
	return strings.TrimRight(line, " \t\r\n"), false
}

// ReadStatement reads lines until a complete statement is accumulated,
// prompting with prompt then continuePrompt for continuation lines. A
// dot command (REPL.handleDotCommand's ".tables", ".schema", ...) is
// always a single line and completes as soon as it's read, since it
// carries no trailing ';'; anything else completes once it ends with a
// bare ';'. It
// reports whether EOF was reached.
func (s *Shell) ReadStatement() (string, bool) {
	var lines []string
	isFirst := true

	for {
		if s.output != nil {
			if isFirst {
				io.WriteString(s.output, s.prompt)
			} else {
				io.WriteString(s.output, s.continuePrompt)
			}
		}

		line, eof := s.ReadLine()

		if eof && line == "" && len(lines) == 0 {
			return "", true
		}

		if isFirst && strings.HasPrefix(strings.TrimSpace(line), ".") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				s.AddHistory(trimmed)
			}
			return line, eof
		}
		isFirst = false

		lines = append(lines, line)
		combined := strings.Join(lines, "\n")

		if s.IsComplete(combined) {
			if trimmed := strings.TrimSpace(combined); trimmed != "" {
				s.AddHistory(trimmed)
			}
			return combined, false
		}

		if eof {
			return combined, true
		}
	}
}

// IsComplete reports whether sql ends with a ';' that lies outside a
// single- or double-quoted string literal and outside a line (--) or
// block (/* */) comment, matching the comment syntax pkg/sql/lexer
// recognizes.
func (s *Shell) IsComplete(sql string) bool {
	if sql == "" {
		return false
	}

	inSingleQuote := false
	inDoubleQuote := false
	inLineComment := false
	inBlockComment := false
	endsWithSemicolon := false

	runes := []rune(sql)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inBlockComment {
			if r == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				inBlockComment = false
				i++
			}
			continue
		}
		if r == '\n' {
			inLineComment = false
			continue
		}
		if inLineComment {
			continue
		}
		if r == '-' && i+1 < len(runes) && runes[i+1] == '-' {
			inLineComment = true
			i++
			continue
		}
		if r == '/' && i+1 < len(runes) && runes[i+1] == '*' {
			inBlockComment = true
			i++
			continue
		}
		if r == '\'' && !inDoubleQuote {
			if inSingleQuote && i+1 < len(runes) && runes[i+1] == '\'' {
				i++
				continue
			}
			inSingleQuote = !inSingleQuote
			endsWithSemicolon = false
			continue
		}
		if r == '"' && !inSingleQuote {
			if inDoubleQuote && i+1 < len(runes) && runes[i+1] == '"' {
				i++
				continue
			}
			inDoubleQuote = !inDoubleQuote
			endsWithSemicolon = false
			continue
		}
		if r == ';' && !inSingleQuote && !inDoubleQuote {
			endsWithSemicolon = true
			continue
		}
		if !unicode.IsSpace(r) {
			endsWithSemicolon = false
		}
	}

	return !inSingleQuote && !inDoubleQuote && !inBlockComment && endsWithSemicolon
}

// AddHistory records stmt, skipping an immediate duplicate of the last
// entry and trimming to maxHistory.
func (s *Shell) AddHistory(stmt string) {
	if len(s.history) > 0 && s.history[len(s.history)-1] == stmt {
		return
	}
	s.history = append(s.history, stmt)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
	s.historyIndex = len(s.history)
}

// History returns a copy of the recorded statements.
func (s *Shell) History() []string {
	result := make([]string, len(s.history))
	copy(result, s.history)
	return result
}

// ClearHistory discards all recorded statements.
func (s *Shell) ClearHistory() {
	s.history = make([]string, 0)
	s.historyIndex = 0
}
