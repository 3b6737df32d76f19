package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/pacer/gobasic/internal/basic"
	"github.com/pacer/gobasic/internal/basic/evaluator"
	"github.com/pacer/gobasic/internal/basic/parser"
)

const (
	promptCont = "... "
	helpText   = `REPL commands:
  :help          Show this help
  :quit          Exit the REPL
  :tokens <src>  Print the tokens of src
  :ast <src>     Print the canonical form of src
`
)

// prompter is the part of *liner.State the REPL loop relies on.
type prompter interface {
	Prompt(prompt string) (string, error)
}

// replSession evaluates submissions. Every submission is compiled on its
// own; nothing carries over from one to the next.
type replSession struct {
	out     io.Writer
	errOut  io.Writer
	options []parser.Option
}

func cmdRepl(args []string, stdout, stderr io.Writer) int {
	fs, configPath := commandFlags("repl", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := setup(*configPath, stderr)
	if err != nil {
		return exitCode(stderr, err)
	}

	fmt.Fprintf(stdout, "%s %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.\n", appName, version)

	histPath := cfg.HistoryPath()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	session := &replSession{out: stdout, errOut: stderr, options: parserOptions(cfg)}

	for {
		code, ok := readByParseProbe(ln, cfg.Repl.Prompt, promptCont)
		if !ok {
			fmt.Fprintln(stdout)
			break
		}

		if strings.TrimSpace(code) == "" {
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if session.handle(code) {
			break
		}
	}

	return 0
}

// readByParseProbe keeps reading lines while the input so far leaves an
// IF or SUB block open. The boolean is false once input is exhausted.
func readByParseProbe(ln prompter, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		current := prompt
		if b.Len() > 0 {
			current = cont
		}

		line, err := ln.Prompt(current)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}

		if !basic.NeedsMoreInput([]byte(src + "\n")) {
			return src, true
		}
	}
}

// handle runs one submission and reports whether the REPL should stop.
func (s *replSession) handle(code string) bool {
	trimmed := strings.TrimSpace(code)

	if strings.HasPrefix(trimmed, ":") {
		return s.command(trimmed)
	}

	file := basic.AnalyzeSingleFile("<repl>", []byte(code+"\n"), s.options...)
	if len(file.Errs) > 0 {
		for _, err := range file.Errs {
			fmt.Fprintln(s.errOut, formatDiagnostic(file.FileName, "", err))
		}
		return false
	}

	result, err := basic.Evaluate(file.Program)
	if err != nil {
		var runtimeErr *evaluator.RuntimeError
		if errors.As(err, &runtimeErr) {
			fmt.Fprintln(s.errOut, formatDiagnostic(file.FileName, "runtime error: ", runtimeErr))
		} else {
			fmt.Fprintln(s.errOut, err)
		}
		return false
	}

	if result != nil {
		fmt.Fprintln(s.out, result.Inspect())
	}

	return false
}

func (s *replSession) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprint(s.out, helpText)
	case ":tokens":
		writeTokens(s.out, []byte(arg+"\n"))
	case ":ast":
		file := basic.AnalyzeSingleFile("<repl>", []byte(arg+"\n"), s.options...)
		if rendered := file.Program.String(); rendered != "" {
			fmt.Fprintln(s.out, rendered)
		}
		for _, err := range file.Errs {
			fmt.Fprintln(s.errOut, formatDiagnostic(file.FileName, "", err))
		}
	default:
		fmt.Fprintf(s.errOut, "unknown command %s. Type :help for the list.\n", name)
	}

	return false
}
