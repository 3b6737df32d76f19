// Package basic ties the tokenizer, parser and evaluator together for the
// command line tools and the language server.
package basic

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/pacer/gobasic/internal/basic/ast"
	"github.com/pacer/gobasic/internal/basic/evaluator"
	"github.com/pacer/gobasic/internal/basic/lexer"
	"github.com/pacer/gobasic/internal/basic/parser"
	"github.com/pacer/gobasic/internal/basic/value"
)

// MaxProjectFileDepth bounds the directory recursion of OpenProjectFiles().
const MaxProjectFileDepth = 5

type Error = lexer.Error

// FileAnalysis gathers everything known about a single source file.
type FileAnalysis struct {
	FileName string
	Source   []byte
	Tokens   []lexer.Token
	Index    *lexer.TokenIndex
	Program  *ast.Program
	Root     *parser.Scope
	Errs     []Error
	Warnings []Error
}

// Tokenize returns the whole token stream of source, 'EOF' included.
func Tokenize(source []byte) []lexer.Token {
	return lexer.Tokenize(source)
}

// ParseSingleFile parses file content (buffer) and returns an AST node and error list.
// Returned program is never 'nil', even when empty.
func ParseSingleFile(source []byte, opts ...parser.Option) (*ast.Program, []Error) {
	program, errs := parser.Parse(source, opts...)
	if program == nil {
		panic("program should never be <nil>, even when empty. source = " + string(source))
	}

	return program, errs
}

// AnalyzeSingleFile parses source and keeps the token stream around for
// position based requests (hover, definition).
func AnalyzeSingleFile(fileName string, source []byte, opts ...parser.Option) *FileAnalysis {
	tokens := lexer.Tokenize(source)

	p := parser.New(lexer.New(source), opts...)
	program := p.ParseProgram()

	file := &FileAnalysis{
		FileName: fileName,
		Source:   source,
		Tokens:   tokens,
		Index:    lexer.NewTokenIndex(tokens),
		Program:  program,
		Root:     p.Root(),
		Errs:     p.ParseErrors(),
		Warnings: p.Warnings(),
	}

	slog.Debug("parsed file",
		slog.String("file", fileName),
		slog.Int("statements", len(program.Statements)),
		slog.Int("errors", len(file.Errs)),
		slog.Int("warnings", len(file.Warnings)),
	)

	return file
}

// Evaluate computes the value of a diagnostic free program.
func Evaluate(program *ast.Program) (value.Value, error) {
	return evaluator.New().Eval(program)
}

// Run compiles and evaluates source in one go. Evaluation is skipped when
// the parser reported anything; those diagnostics are returned instead.
func Run(source []byte, opts ...parser.Option) (value.Value, []Error, error) {
	program, errs := ParseSingleFile(source, opts...)
	if len(errs) > 0 {
		return nil, errs, nil
	}

	result, err := Evaluate(program)
	if err != nil {
		return nil, nil, err
	}

	return result, nil, nil
}

// OpenProjectFiles recursively opens files from 'rootDir'.
// There is a depth limit for the recursion (MaxProjectFileDepth).
func OpenProjectFiles(rootDir string, withFileExtensions []string) (map[string][]byte, error) {
	return openProjectFilesSafely(rootDir, withFileExtensions, 0, MaxProjectFileDepth)
}

func openProjectFilesSafely(
	rootDir string,
	withFileExtensions []string,
	currentDepth, maxDepth int,
) (map[string][]byte, error) {
	if currentDepth > maxDepth {
		return nil, nil
	}

	list, err := os.ReadDir(rootDir)
	if err != nil {
		return nil, fmt.Errorf("error while reading directory content: %w", err)
	}

	fileNamesToContent := make(map[string][]byte)

	for _, entry := range list {
		fileName := filepath.Join(rootDir, entry.Name())

		if entry.IsDir() {
			subFiles, err := openProjectFilesSafely(
				fileName,
				withFileExtensions,
				currentDepth+1,
				maxDepth,
			)
			if err != nil {
				return nil, err
			}

			maps.Copy(fileNamesToContent, subFiles)
			continue
		}

		if !HasFileExtension(fileName, withFileExtensions) {
			continue
		}

		content, err := readFile(fileName)
		if err != nil {
			slog.Warn("unable to open file", slog.String("file", fileName), slog.Any("error", err))
			continue
		}

		fileNamesToContent[fileName] = content
	}

	return fileNamesToContent, nil
}

func readFile(fileName string) ([]byte, error) {
	//nolint:gosec // fileName comes from a directory listing of the workspace
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// ParseFilesInWorkspace analyzes all files within a workspace using parallel goroutines.
// Every file gets its own parser. Never returns nil, always an empty 'map' if nothing found.
func ParseFilesInWorkspace(
	workspaceFiles map[string][]byte,
	opts ...parser.Option,
) map[string]*FileAnalysis {
	if len(workspaceFiles) == 0 {
		return make(map[string]*FileAnalysis)
	}

	numWorkers := min(runtime.GOMAXPROCS(0), len(workspaceFiles))

	results := make(chan *FileAnalysis, len(workspaceFiles))

	// Use a semaphore to limit concurrency
	sem := make(chan struct{}, numWorkers)

	var wg sync.WaitGroup
	for fileName, content := range workspaceFiles {
		wg.Add(1)
		go func(fileName string, content []byte) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results <- AnalyzeSingleFile(fileName, content, opts...)
		}(fileName, content)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	parsedFilesInWorkspace := make(map[string]*FileAnalysis, len(workspaceFiles))

	for result := range results {
		parsedFilesInWorkspace[result.FileName] = result
	}

	if len(workspaceFiles) != len(parsedFilesInWorkspace) {
		log.Printf("workspace has %d files, parsed %d\n", len(workspaceFiles), len(parsedFilesInWorkspace))
		panic("number of parsed files do not match the amount present in the workspace")
	}

	slog.Debug("parsed workspace", slog.Int("files", len(parsedFilesInWorkspace)))

	return parsedFilesInWorkspace
}

// HasFileExtension reports whether fileName's extension is found within extensions.
func HasFileExtension(fileName string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(fileName, "."+ext) {
			return true
		}
	}

	return false
}

// NeedsMoreInput reports whether source stops inside an IF or SUB block
// that is still waiting for its END.
func NeedsMoreInput(source []byte) bool {
	p := parser.New(lexer.New(source))
	p.ParseProgram()

	for _, e := range p.Warnings() {
		err, ok := e.(error)
		if !ok {
			continue
		}

		if errors.Is(err, parser.ErrMissingEndIf) || errors.Is(err, parser.ErrMissingEndSub) {
			return true
		}
	}

	return false
}
