// Command basic-lsp provides a Language Server Protocol server for BASIC programs.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/pacer/gobasic/cmd/basic-lsp/lsp"
	"github.com/pacer/gobasic/internal/basic"
	"github.com/pacer/gobasic/internal/basic/parser"
	"github.com/pacer/gobasic/internal/config"
)

// version is set at build time.
var version = "dev"

const (
	serverName = "BASIC LSP"
	binaryName = "basic-lsp"
)

// workspaceStore holds the state for a workspace. Keys are file URIs.
type workspaceStore struct {
	RootPath string
	RawFiles map[string][]byte
	Files    map[string]*basic.FileAnalysis
}

// requestCounter tracks the number of each request type.
type requestCounter struct {
	Initialize   int
	Initialized  int
	Shutdown     int
	TextDocument struct {
		DidClose  int
		DidOpen   int
		DidChange int
	}
	FoldingRange int
	Definition   int
	Hover        int
	Other        int
}

type server struct {
	cfg        *config.Config
	configPath string
	out        io.Writer
	storage    *workspaceStore
	counter    requestCounter
}

func newServer(cfg *config.Config, configPath string, out io.Writer) *server {
	return &server{
		cfg:        cfg,
		configPath: configPath,
		out:        out,
		storage: &workspaceStore{
			RawFiles: make(map[string][]byte),
			Files:    make(map[string]*basic.FileAnalysis),
		},
	}
}

func main() {
	versionFlag := flag.Bool("version", false, "print the LSP version")
	configPath := flag.String("config", "", "path to a "+config.FileName+" file")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("%s -- version %s\n", serverName, version)
		os.Exit(0)
	}

	cwd, _ := os.Getwd()

	cfg, err := config.Resolve(*configPath, cwd)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	configureLogging(cfg)

	os.Exit(serve(os.Stdin, newServer(cfg, *configPath, os.Stdout)))
}

// serve answers requests read from in until 'exit'. The status is 0 only
// when 'exit' follows a 'shutdown'.
func serve(in io.Reader, s *server) int {
	scanner := lsp.ReceiveInput(in)
	isExiting := false

	slog.Info("starting lsp server",
		slog.String("server_name", serverName),
		slog.String("server_version", version),
	)
	defer slog.Info("shutting down lsp server", s.groupLogging())

	for scanner.Scan() {
		data := scanner.Bytes()

		var request lsp.RequestMessage[json.RawMessage]
		if err := json.Unmarshal(data, &request); err != nil {
			slog.Warn("malformed request", slog.String("error", err.Error()))
			continue
		}

		if isExiting {
			if request.Method == lsp.MethodExit {
				return 0
			}

			s.send(lsp.ProcessIllegalRequestAfterShutdown(request.Id))
			continue
		}

		slog.Debug("request "+request.Method, s.groupLogging())

		switch request.Method {
		case lsp.MethodInitialize:
			s.counter.Initialize++
			response, rootURI := lsp.ProcessInitializeRequest(data, serverName, version)
			s.send(response)
			s.openWorkspace(rootURI)

		case lsp.MethodInitialized:
			s.counter.Initialized++
			slog.Info("received 'initialized' notification")

		case lsp.MethodShutdown:
			s.counter.Shutdown++
			isExiting = true
			s.send(lsp.ProcessShutdownRequest(request.Id))

		case lsp.MethodExit:
			return 1

		case lsp.MethodDidOpen:
			s.counter.TextDocument.DidOpen++
			s.updateFile(lsp.ProcessDidOpenTextDocumentNotification(data))

		case lsp.MethodDidChange:
			s.counter.TextDocument.DidChange++
			s.updateFile(lsp.ProcessDidChangeTextDocumentNotification(data))

		case lsp.MethodDidClose:
			s.counter.TextDocument.DidClose++
			s.closeFile(lsp.ProcessDidCloseTextDocumentNotification(data))

		case lsp.MethodHover:
			s.counter.Hover++
			s.send(lsp.ProcessHoverRequest(data, s.storage.Files))

		case lsp.MethodDefinition:
			s.counter.Definition++
			s.send(lsp.ProcessGoToDefinition(data, s.storage.Files))

		case lsp.MethodFoldingRange:
			s.counter.FoldingRange++
			s.send(lsp.ProcessFoldingRangeRequest(data, s.storage.Files))

		default:
			s.counter.Other++
		}
	}

	if err := scanner.Err(); err != nil {
		slog.Error("error while reading lsp input: " + err.Error())
	}

	return 1
}

func (s *server) send(response []byte) {
	if response == nil {
		return
	}

	lsp.SendToLspClient(s.out, response)
}

func (s *server) parserOptions() []parser.Option {
	return []parser.Option{parser.WithMaxDepth(s.cfg.Parser.MaxDepth)}
}

// openWorkspace loads every source file below the root, parses them
// concurrently and publishes their diagnostics.
func (s *server) openWorkspace(rootURI string) {
	if rootURI == "" {
		slog.Warn("client did not announce a workspace root")
		return
	}

	rootPath, err := uriToFilePath(rootURI)
	if err != nil {
		slog.Warn("unusable workspace root", slog.String("error", err.Error()))
		return
	}

	s.storage.RootPath = rootPath

	if s.configPath == "" {
		if cfg, err := config.Resolve("", rootPath); err == nil {
			s.cfg = cfg
		} else {
			slog.Warn("ignoring workspace configuration", slog.String("error", err.Error()))
		}
	}

	rawFiles, err := basic.OpenProjectFiles(rootPath, s.cfg.Lsp.FileExtensions)
	if err != nil {
		slog.Warn("unable to open workspace files", slog.String("error", err.Error()))
		return
	}

	analyses := basic.ParseFilesInWorkspace(rawFiles, s.parserOptions()...)

	uris := make([]string, 0, len(analyses))
	for path, file := range analyses {
		uri := filePathToUri(path)
		s.storage.RawFiles[uri] = rawFiles[path]
		s.storage.Files[uri] = file
		uris = append(uris, uri)
	}

	slices.Sort(uris)
	for _, uri := range uris {
		s.publishDiagnostics(uri)
	}

	slog.Info("workspace opened",
		slog.String("root_path", rootPath),
		slog.Int("files", len(uris)),
	)
}

// updateFile re-parses a document with a fresh parser and publishes its diagnostics.
func (s *server) updateFile(uri string, content []byte) {
	if uri == "" {
		return
	}

	if !basic.HasFileExtension(uri, s.cfg.Lsp.FileExtensions) {
		slog.Warn("skipped file", slog.String("file_uri", uri))
		return
	}

	s.storage.RawFiles[uri] = content
	s.storage.Files[uri] = basic.AnalyzeSingleFile(uri, content, s.parserOptions()...)

	s.publishDiagnostics(uri)
}

// closeFile forgets documents living outside the workspace and clears their diagnostics.
func (s *server) closeFile(uri string) {
	if uri == "" || isFileInsideWorkspace(uri, s.storage.RootPath, s.cfg.Lsp.FileExtensions) {
		return
	}

	delete(s.storage.RawFiles, uri)
	delete(s.storage.Files, uri)

	s.publishDiagnostics(uri)
}

func (s *server) publishDiagnostics(uri string) {
	file := s.storage.Files[uri]
	if file == nil {
		file = &basic.FileAnalysis{FileName: uri}
	}

	s.send(lsp.BuildDiagnosticsNotification(uri, file, binaryName, s.cfg.Parser.WarningsAsErrors))
}

func (s *server) groupLogging() slog.Attr {
	return slog.Group("server",
		slog.String("root_path", s.storage.RootPath),
		slog.Any("open_files", mapToKeys(s.storage.Files)),
		slog.Any("request_counter", s.counter),
	)
}

// isFileInsideWorkspace checks if a file is inside the workspace and has allowed extension.
func isFileInsideWorkspace(uri, rootPath string, allowedFileExtensions []string) bool {
	if rootPath == "" {
		return false
	}

	if !strings.HasPrefix(uri, filePathToUri(rootPath)+"/") {
		return false
	}

	return basic.HasFileExtension(uri, allowedFileExtensions)
}

// uriToFilePath converts a file URI to an OS path.
func uriToFilePath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("unable to convert from URI to OS path: %w", err)
	}

	switch {
	case u.Scheme != "file":
		return "", fmt.Errorf("can only handle 'file' scheme: %s", uri)
	case u.RawQuery != "":
		return "", fmt.Errorf("'?' character is not permitted in file URI: %s", uri)
	case u.Fragment != "":
		return "", fmt.Errorf("'#' character is not permitted in file URI: %s", uri)
	case u.Path == "":
		return "", errors.New("path to a file cannot be empty")
	}

	path := u.Path
	if runtime.GOOS == "windows" {
		if path[0] == '/' && len(path) >= 3 && path[2] == ':' {
			path = path[1:]
		}
	}

	return filepath.FromSlash(path), nil
}

// filePathToUri converts an OS path to a file URI.
func filePathToUri(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	slashPath := filepath.ToSlash(absPath)

	if runtime.GOOS == "windows" && !strings.HasPrefix(slashPath, "/") {
		slashPath = "/" + slashPath
	}

	u := url.URL{
		Scheme: "file",
		Path:   slashPath,
	}

	return u.String()
}

// mapToKeys returns the sorted keys of a map.
func mapToKeys[V any](dict map[string]V) []string {
	list := make([]string, 0, len(dict))
	for key := range dict {
		list = append(list, key)
	}

	slices.Sort(list)
	return list
}

// createLogFile creates or opens the log file. A file past 5 MB is truncated.
func createLogFile(logFilePath string) *os.File {
	if logFilePath == "" {
		userCachePath, err := os.UserCacheDir()
		if err != nil {
			return os.Stderr
		}

		appCachePath := filepath.Join(userCachePath, "gobasic")
		logFilePath = filepath.Join(appCachePath, binaryName+".log")

		_ = os.MkdirAll(appCachePath, 0750)
	}

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

// configureLogging sets up structured logging. Stdout carries the protocol,
// so logs go to a file or stderr.
func configureLogging(cfg *config.Config) {
	var out io.Writer = os.Stderr
	if cfg.Log.File != "-" {
		out = createLogFile(cfg.Log.File)
	}

	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	var handler slog.Handler = slog.NewJSONHandler(out, opts)
	if cfg.Log.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}
