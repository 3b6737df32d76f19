// Command basic runs, inspects and checks BASIC programs, and hosts a REPL.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pacer/gobasic/internal/basic/lexer"
	"github.com/pacer/gobasic/internal/basic/parser"
	"github.com/pacer/gobasic/internal/config"
)

// version is set at build time.
var version = "dev"

const appName = "basic"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	cmd, rest := args[0], args[1:]

	switch cmd {
	case "run":
		return cmdRun(rest, stdout, stderr)
	case "tokens":
		return cmdTokens(rest, stdout, stderr)
	case "parse":
		return cmdParse(rest, stdout, stderr)
	case "check":
		return cmdCheck(rest, stdout, stderr)
	case "repl":
		return cmdRepl(rest, stdout, stderr)
	case "version":
		fmt.Fprintf(stdout, "%s %s\n", appName, version)
		return 0
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "%s: unknown command %q\n", appName, cmd)
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `Usage:
  %[1]s run [-config f] <file>        Evaluate a program and print its value.
  %[1]s tokens <file>                 Print the token stream as JSON lines.
  %[1]s parse [-config f] <file>      Print the canonical form and diagnostics.
  %[1]s check [-config f] [path ...]  Report diagnostics for every source file (default ".").
  %[1]s repl [-config f]              Start the REPL.
  %[1]s version                       Print the version.
`, appName)
}

// commandFlags declares the flags shared by every subcommand.
func commandFlags(name string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to a "+config.FileName+" file")

	return fs, configPath
}

// setup resolves the configuration and installs the logger.
func setup(configPath string, stderr io.Writer) (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	cfg, err := config.Resolve(configPath, cwd)
	if err != nil {
		return nil, err
	}

	configureLogging(cfg, stderr)

	return cfg, nil
}

func parserOptions(cfg *config.Config) []parser.Option {
	return []parser.Option{parser.WithMaxDepth(cfg.Parser.MaxDepth)}
}

// formatDiagnostic renders a diagnostic as 'file:line:col: message', 1-based.
func formatDiagnostic(fileName, prefix string, err lexer.Error) string {
	reach := err.GetRange()

	return fmt.Sprintf("%s:%d:%d: %s%s",
		fileName, reach.Start.Line+1, reach.Start.Character+1, prefix, err.GetError())
}

func readSource(fileName string) ([]byte, error) {
	//nolint:gosec // the file is named by the user on the command line
	content, err := os.ReadFile(fileName)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", fileName, err)
	}

	return content, nil
}

// createLogFile creates or opens the log file under the user cache directory.
// A file past 5 MB is truncated.
func createLogFile(binary string) *os.File {
	userCachePath, err := os.UserCacheDir()
	if err != nil {
		return os.Stderr
	}

	appCachePath := filepath.Join(userCachePath, "gobasic")
	logFilePath := filepath.Join(appCachePath, binary+".log")

	_ = os.MkdirAll(appCachePath, 0750)

	return openLogFile(logFilePath)
}

func openLogFile(logFilePath string) *os.File {
	fileInfo, err := os.Stat(logFilePath)
	if err == nil && fileInfo.Size() >= 5_000_000 {
		//nolint:gosec // safe log file path
		file, err := os.OpenFile(logFilePath, os.O_TRUNC|os.O_WRONLY, 0600)
		if err != nil {
			return os.Stderr
		}
		return file
	}

	//nolint:gosec // safe log file path
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return os.Stderr
	}

	return file
}

// configureLogging sets up structured logging. Without a configuration
// file the CLI only reports warnings, on stderr.
func configureLogging(cfg *config.Config, stderr io.Writer) {
	var out io.Writer
	level := cfg.SlogLevel()

	switch {
	case cfg.Path == "":
		out = stderr
		level = slog.LevelWarn
	case cfg.Log.File == "-":
		out = stderr
	case cfg.Log.File == "":
		out = createLogFile(appName)
	default:
		out = openLogFile(cfg.Log.File)
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// exitCode maps a command error onto the process status.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}

	var validation *config.ValidationError
	if errors.As(err, &validation) {
		fmt.Fprintln(stderr, validation.Error())
		return 2
	}

	fmt.Fprintf(stderr, "%s: %v\n", appName, err)
	return 1
}
