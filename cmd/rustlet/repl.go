package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/Kapsyloffer/Rust-Compiler/pkg/driver"
	"github.com/Kapsyloffer/Rust-Compiler/pkg/parser"
)

const (
	promptMain  = "rustlet> "
	promptCont  = "    ...> "
	historyFile = ".rustlet_history"
)

func runREPL(args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(args, " "))
		return 1
	}
	logger, closeLog, err := newLogger(driver.LogConfig{})
	if err != nil {
		fmt.Fprintf(stderr, "failed to configure logging: %v\n", err)
		return 1
	}
	defer closeLog()

	fmt.Fprintln(stdout, cliToolVersion+" (:help for commands)")

	var histPath string
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	session := driver.NewSession(stdout, logger)
	for {
		code, ok := readInput(ln)
		if !ok {
			fmt.Fprintln(stdout)
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			if done := handleReplCommand(session, code); done {
				break
			}
			continue
		}
		evalInput(session, code)
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return 0
}

// evalInput runs one REPL entry and prints its value and type.
func evalInput(session *driver.Session, code string) {
	result, err := session.Eval(code)
	if err != nil {
		reportError(err)
		return
	}
	fmt.Fprintf(stdout, "%s : %s\n", result.Display, result.Type)
}

// handleReplCommand runs a ':' command and reports whether the REPL should
// stop.
func handleReplCommand(session *driver.Session, line string) (exit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(stdout, ":help          show this message")
		fmt.Fprintln(stdout, ":vars          list bindings in scope")
		fmt.Fprintln(stdout, ":load <file>   evaluate a file's statements")
		fmt.Fprintln(stdout, ":quit          leave the REPL")
	case ":vars":
		fmt.Fprintln(stdout, strings.Join(session.Names(), " "))
	case ":load":
		if len(fields) != 2 {
			fmt.Fprintln(stderr, "usage: :load <file>")
			return false
		}
		src, err := driver.ReadSourceFile(fields[1])
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return false
		}
		evalInput(session, string(src.Text))
	default:
		fmt.Fprintf(stderr, "unknown command %s (try :help)\n", fields[0])
	}
	return false
}

// readInput collects lines until they parse or fail for a reason other
// than missing input. The bool is false at end of input.
func readInput(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return "", false
		}
		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if needsMoreInput(b.String()) {
			continue
		}
		return b.String(), true
	}
}

// needsMoreInput reports whether src is an unfinished entry. Commands and
// sources that parse are complete; so are sources with a syntax error
// that more text could not fix.
func needsMoreInput(src string) bool {
	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		return false
	}
	_, err := parser.ParseBlockSource([]byte(src))
	if err == nil || !errors.Is(err, parser.ErrSyntax) {
		return false
	}
	return openDelimiters(src) > 0
}

// openDelimiters counts unclosed braces and parentheses outside string
// literals.
func openDelimiters(src string) int {
	depth := 0
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		}
	}
	return depth
}
