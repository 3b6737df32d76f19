package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/pacer/gobasic/internal/basic"
	"github.com/pacer/gobasic/internal/basic/evaluator"
	"github.com/pacer/gobasic/internal/config"
)

// tokenRecord is the {type, literal} pair emitted by 'basic tokens'.
type tokenRecord struct {
	Type    string `json:"type"`
	Literal string `json:"literal"`
}

func singleFileArg(name string, args []string, stderr io.Writer) (string, *string, bool) {
	fs, configPath := commandFlags(name, stderr)
	if err := fs.Parse(args); err != nil {
		return "", nil, false
	}

	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "usage: %s %s [-config f] <file>\n", appName, name)
		return "", nil, false
	}

	return fs.Arg(0), configPath, true
}

func cmdRun(args []string, stdout, stderr io.Writer) int {
	fileName, configPath, ok := singleFileArg("run", args, stderr)
	if !ok {
		return 2
	}

	cfg, err := setup(*configPath, stderr)
	if err != nil {
		return exitCode(stderr, err)
	}

	source, err := readSource(fileName)
	if err != nil {
		return exitCode(stderr, err)
	}

	file := basic.AnalyzeSingleFile(fileName, source, parserOptions(cfg)...)
	if reportDiagnostics(stderr, file, cfg) {
		return 1
	}

	result, err := basic.Evaluate(file.Program)
	if err != nil {
		var runtimeErr *evaluator.RuntimeError
		if errors.As(err, &runtimeErr) {
			fmt.Fprintln(stderr, formatDiagnostic(fileName, "runtime error: ", runtimeErr))
			return 1
		}

		return exitCode(stderr, err)
	}

	if result != nil {
		fmt.Fprintln(stdout, result.Inspect())
	}

	return 0
}

func cmdTokens(args []string, stdout, stderr io.Writer) int {
	fileName, configPath, ok := singleFileArg("tokens", args, stderr)
	if !ok {
		return 2
	}

	if _, err := setup(*configPath, stderr); err != nil {
		return exitCode(stderr, err)
	}

	source, err := readSource(fileName)
	if err != nil {
		return exitCode(stderr, err)
	}

	return writeTokens(stdout, source)
}

func writeTokens(stdout io.Writer, source []byte) int {
	encoder := json.NewEncoder(stdout)

	for _, tok := range basic.Tokenize(source) {
		record := tokenRecord{Type: tok.ID.String(), Literal: tok.Literal}
		if err := encoder.Encode(record); err != nil {
			slog.Error("unable to encode token", slog.Any("error", err))
			return 1
		}
	}

	return 0
}

func cmdParse(args []string, stdout, stderr io.Writer) int {
	fileName, configPath, ok := singleFileArg("parse", args, stderr)
	if !ok {
		return 2
	}

	cfg, err := setup(*configPath, stderr)
	if err != nil {
		return exitCode(stderr, err)
	}

	source, err := readSource(fileName)
	if err != nil {
		return exitCode(stderr, err)
	}

	file := basic.AnalyzeSingleFile(fileName, source, parserOptions(cfg)...)

	if rendered := file.Program.String(); rendered != "" {
		fmt.Fprintln(stdout, rendered)
	}

	if reportDiagnostics(stderr, file, cfg) {
		return 1
	}

	return 0
}

// reportDiagnostics prints errors then warnings of file, and reports whether
// the file should be considered failed.
func reportDiagnostics(w io.Writer, file *basic.FileAnalysis, cfg *config.Config) bool {
	for _, err := range file.Errs {
		fmt.Fprintln(w, formatDiagnostic(file.FileName, "", err))
	}

	for _, warning := range file.Warnings {
		fmt.Fprintln(w, formatDiagnostic(file.FileName, "warning: ", warning))
	}

	if len(file.Errs) > 0 {
		return true
	}

	return cfg.Parser.WarningsAsErrors && len(file.Warnings) > 0
}

func cmdCheck(args []string, stdout, stderr io.Writer) int {
	fs, configPath := commandFlags("check", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg, err := setup(*configPath, stderr)
	if err != nil {
		return exitCode(stderr, err)
	}

	workspace, err := collectSources(paths, cfg.Lsp.FileExtensions)
	if err != nil {
		return exitCode(stderr, err)
	}

	analyses := basic.ParseFilesInWorkspace(workspace, parserOptions(cfg)...)

	fileNames := make([]string, 0, len(analyses))
	for fileName := range analyses {
		fileNames = append(fileNames, fileName)
	}
	slices.Sort(fileNames)

	failed := 0
	for _, fileName := range fileNames {
		if reportDiagnostics(stderr, analyses[fileName], cfg) {
			failed++
		}
	}

	fmt.Fprintf(stdout, "checked %d files, %d failed\n", len(analyses), failed)

	if failed > 0 {
		return 1
	}

	return 0
}

// collectSources gathers the files named on the command line. Directories
// are walked for the configured extensions; plain files are always taken.
func collectSources(paths, extensions []string) (map[string][]byte, error) {
	workspace := make(map[string][]byte)

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot check %s: %w", path, err)
		}

		if !info.IsDir() {
			content, err := readSource(path)
			if err != nil {
				return nil, err
			}

			workspace[path] = content
			continue
		}

		files, err := basic.OpenProjectFiles(path, extensions)
		if err != nil {
			return nil, err
		}

		for fileName, content := range files {
			workspace[fileName] = content
		}
	}

	return workspace, nil
}
