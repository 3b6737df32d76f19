package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pacer/gobasic/cmd/basic-lsp/lsp"
	"github.com/pacer/gobasic/internal/basic/testutil"
	"github.com/pacer/gobasic/internal/config"
)

// frame builds a framed JSON-RPC message. A zero id makes it a notification.
func frame(t *testing.T, method string, id int, params any) []byte {
	t.Helper()

	message := map[string]any{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
	}
	if id != 0 {
		message["id"] = id
	}

	data, err := json.Marshal(message)
	if err != nil {
		t.Fatalf("unable to marshal request: %v", err)
	}

	return lsp.Encode(data)
}

// readMessages splits the server output back into decoded JSON objects.
func readMessages(t *testing.T, output []byte) []map[string]any {
	t.Helper()

	var messages []map[string]any

	scanner := lsp.ReceiveInput(bytes.NewReader(output))
	for scanner.Scan() {
		var message map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &message); err != nil {
			t.Fatalf("server wrote invalid JSON: %v", err)
		}
		messages = append(messages, message)
	}

	if err := scanner.Err(); err != nil {
		t.Fatalf("server output is not properly framed: %v", err)
	}

	return messages
}

func position(uri string, line, character int) map[string]any {
	return map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"position":     map[string]any{"line": line, "character": character},
	}
}

func diagnosticsOf(t *testing.T, message map[string]any) (string, []any) {
	t.Helper()

	if message["method"] != lsp.MethodPublishDiagnostics {
		t.Fatalf("Expected a diagnostics notification, got %v", message)
	}

	params := message["params"].(map[string]any)
	return params["uri"].(string), params["diagnostics"].([]any)
}

func TestServe_Session(t *testing.T) {
	dir := testutil.TempDir(t, map[string]string{
		"main.bas":       testutil.SampleProgram,
		"lib/broken.bas": "LET = 1\n",
		"notes.txt":      "not a program",
	})

	rootURI := filePathToUri(dir)
	mainURI := filePathToUri(filepath.Join(dir, "main.bas"))
	brokenURI := filePathToUri(filepath.Join(dir, "lib", "broken.bas"))

	edited := "LET A = 1\nLET A = 2\n2 + 3\nIF A THEN\n  1\nEND IF\n"

	var input bytes.Buffer
	input.Write(frame(t, lsp.MethodInitialize, 1, map[string]any{"rootUri": rootURI}))
	input.Write(frame(t, lsp.MethodInitialized, 0, map[string]any{}))
	input.Write(frame(t, lsp.MethodDidOpen, 0, map[string]any{
		"textDocument": map[string]any{"uri": mainURI, "text": edited, "version": 1},
	}))
	input.Write(frame(t, lsp.MethodHover, 2, position(mainURI, 2, 0)))
	input.Write(frame(t, lsp.MethodDefinition, 3, position(mainURI, 1, 4)))
	input.Write(frame(t, lsp.MethodFoldingRange, 4, map[string]any{
		"textDocument": map[string]any{"uri": mainURI},
	}))
	input.Write(frame(t, lsp.MethodHover, 5, position("file:///elsewhere.bas", 0, 0)))
	input.Write(frame(t, lsp.MethodShutdown, 6, nil))
	input.Write(frame(t, lsp.MethodHover, 7, position(mainURI, 0, 0)))
	input.Write(frame(t, lsp.MethodExit, 0, nil))

	var output bytes.Buffer
	cfg := config.Default()
	cfg.Log.File = "-"

	if code := serve(&input, newServer(cfg, "", &output)); code != 0 {
		t.Errorf("Expected exit status 0 after shutdown, got %d", code)
	}

	messages := readMessages(t, output.Bytes())
	if len(messages) != 10 {
		t.Fatalf("Expected 10 messages, got %d: %v", len(messages), messages)
	}

	// initialize
	result := messages[0]["result"].(map[string]any)
	capabilities := result["capabilities"].(map[string]any)
	if capabilities["hoverProvider"] != true || capabilities["foldingRangeProvider"] != true {
		t.Errorf("Unexpected capabilities %v", capabilities)
	}

	// workspace diagnostics, sorted by URI
	uri, diagnostics := diagnosticsOf(t, messages[1])
	if uri != brokenURI || len(diagnostics) != 1 {
		t.Errorf("Expected 1 diagnostic for %s, got %s %v", brokenURI, uri, diagnostics)
	}

	uri, diagnostics = diagnosticsOf(t, messages[2])
	if uri != mainURI || len(diagnostics) != 0 {
		t.Errorf("Expected no diagnostic for %s, got %s %v", mainURI, uri, diagnostics)
	}

	// didOpen brings a warning
	_, diagnostics = diagnosticsOf(t, messages[3])
	if len(diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic after didOpen, got %v", diagnostics)
	}
	warning := diagnostics[0].(map[string]any)
	if warning["severity"] != float64(lsp.SeverityWarning) {
		t.Errorf("Expected warning severity, got %v", warning["severity"])
	}

	// hover
	hover := messages[4]["result"].(map[string]any)
	contents := hover["contents"].(map[string]any)
	if value := contents["value"].(string); !strings.Contains(value, "value: 5") {
		t.Errorf("Expected hover to show the evaluated value, got %q", value)
	}

	// definition points at the first binding
	location := messages[5]["result"].(map[string]any)
	start := location["range"].(map[string]any)["start"].(map[string]any)
	if location["uri"] != mainURI || start["line"] != float64(0) || start["character"] != float64(4) {
		t.Errorf("Unexpected definition %v", location)
	}

	// folding keeps the END IF line visible
	folds := messages[6]["result"].([]any)
	if len(folds) != 1 {
		t.Fatalf("Expected 1 folding range, got %v", folds)
	}
	fold := folds[0].(map[string]any)
	if fold["startLine"] != float64(3) || fold["endLine"] != float64(4) {
		t.Errorf("Unexpected folding range %v", fold)
	}

	// unknown document
	if messages[7]["result"] != nil {
		t.Errorf("Expected null hover for unknown file, got %v", messages[7]["result"])
	}

	// shutdown, then an illegal request
	if messages[8]["id"] != float64(6) {
		t.Errorf("Expected shutdown response, got %v", messages[8])
	}

	responseErr, ok := messages[9]["error"].(map[string]any)
	if !ok || responseErr["code"] != float64(lsp.ErrorInvalidRequest) {
		t.Errorf("Expected invalid request error after shutdown, got %v", messages[9])
	}
}

func TestServe_ExitWithoutShutdown(t *testing.T) {
	var input, output bytes.Buffer
	input.Write(frame(t, lsp.MethodDidOpen, 0, map[string]any{
		"textDocument": map[string]any{"uri": "file:///tmp/notes.txt", "text": "1 +"},
	}))
	input.Write(frame(t, lsp.MethodExit, 0, nil))

	if code := serve(&input, newServer(config.Default(), "", &output)); code != 1 {
		t.Errorf("Expected exit status 1, got %d", code)
	}

	if output.Len() != 0 {
		t.Errorf("Expected files with other extensions to be ignored, got %q", output.String())
	}
}

func TestServe_DidCloseOutsideWorkspace(t *testing.T) {
	uri := "file:///tmp/scratch.bas"

	var input, output bytes.Buffer
	input.Write(frame(t, lsp.MethodDidOpen, 0, map[string]any{
		"textDocument": map[string]any{"uri": uri, "text": "1 +\n"},
	}))
	input.Write(frame(t, lsp.MethodDidClose, 0, map[string]any{
		"textDocument": map[string]any{"uri": uri},
	}))

	s := newServer(config.Default(), "", &output)
	serve(&input, s)

	messages := readMessages(t, output.Bytes())
	if len(messages) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(messages))
	}

	if _, diagnostics := diagnosticsOf(t, messages[0]); len(diagnostics) != 1 {
		t.Errorf("Expected 1 diagnostic on open, got %v", diagnostics)
	}

	if _, diagnostics := diagnosticsOf(t, messages[1]); len(diagnostics) != 0 {
		t.Errorf("Expected diagnostics to be cleared on close, got %v", diagnostics)
	}

	if _, ok := s.storage.Files[uri]; ok {
		t.Error("Expected closed file to be forgotten")
	}
}

func TestUriConversion(t *testing.T) {
	dir := t.TempDir()

	path, err := uriToFilePath(filePathToUri(dir))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if path != dir {
		t.Errorf("Expected %s, got %s", dir, path)
	}

	for _, uri := range []string{"http://host/a.bas", "file:///a.bas?x=1", "file:///a.bas#top"} {
		if _, err := uriToFilePath(uri); err == nil {
			t.Errorf("Expected %s to be rejected", uri)
		}
	}
}

func TestIsFileInsideWorkspace(t *testing.T) {
	root := t.TempDir()
	extensions := []string{"bas"}

	tests := []struct {
		uri  string
		want bool
	}{
		{filePathToUri(filepath.Join(root, "a.bas")), true},
		{filePathToUri(filepath.Join(root, "dir", "b.bas")), true},
		{filePathToUri(filepath.Join(root, "a.txt")), false},
		{filePathToUri(root + "-sibling/a.bas"), false},
	}

	for _, tt := range tests {
		if got := isFileInsideWorkspace(tt.uri, root, extensions); got != tt.want {
			t.Errorf("isFileInsideWorkspace(%s) = %v, want %v", tt.uri, got, tt.want)
		}
	}

	if isFileInsideWorkspace(tests[0].uri, "", extensions) {
		t.Error("Expected no workspace to contain nothing")
	}
}
