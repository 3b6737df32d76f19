// Package lsp implements the LSP message types and request handlers of the
// BASIC language server.
package lsp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"

	"github.com/pacer/gobasic/internal/basic"
	"github.com/pacer/gobasic/internal/basic/lexer"
)

// ID is a JSON-RPC request id. Clients may send it as a number or a numeric string.
type ID int

func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = 0
		return nil
	}

	length := len(data)
	if length >= 2 && data[0] == '"' && data[length-1] == '"' {
		data = data[1 : length-1]
	}

	number, err := strconv.Atoi(string(data))
	if err != nil {
		return errors.New("request id must be an integer or a numeric string")
	}

	*id = ID(number)
	return nil
}

func (id ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(id))), nil
}

type RequestMessage[T any] struct {
	JsonRpc string `json:"jsonrpc"`
	Id      ID     `json:"id"`
	Method  string `json:"method"`
	Params  T      `json:"params"`
}

type ResponseMessage[T any] struct {
	JsonRpc string         `json:"jsonrpc"`
	Id      ID             `json:"id"`
	Result  T              `json:"result"`
	Error   *ResponseError `json:"error,omitempty"`
}

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NotificationMessage is sent without an id and never answered.
type NotificationMessage[T any] struct {
	JsonRpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  T      `json:"params"`
}

type InitializeParams struct {
	ProcessId  int `json:"processId"`
	ClientInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"clientInfo"`
	RootUri string `json:"rootUri"`
}

type ServerCapabilities struct {
	TextDocumentSync     int  `json:"textDocumentSync"`
	HoverProvider        bool `json:"hoverProvider"`
	DefinitionProvider   bool `json:"definitionProvider"`
	FoldingRangeProvider bool `json:"foldingRangeProvider"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"serverInfo"`
}

type PublishDiagnosticsParams struct {
	Uri         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type Diagnostic struct {
	Range    Range  `json:"range"`
	Message  string `json:"message"`
	Severity int    `json:"severity"`
	Source   string `json:"source,omitempty"`
}

type Position struct {
	Line      uint `json:"line"`
	Character uint `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type TextDocumentItem struct {
	Uri        string `json:"uri"`
	Version    int    `json:"version"`
	LanguageId string `json:"languageId"`
	Text       string `json:"text"`
}

type TextDocumentIdentifier struct {
	Uri string `json:"uri"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type Location struct {
	Uri   string `json:"uri"`
	Range Range  `json:"range"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// intToUint clamps negative values to 0.
func intToUint(v int) uint {
	if v < 0 {
		return 0
	}
	return uint(v) //nolint:gosec // bounds checked above
}

// uintToInt clamps values past the int range.
func uintToInt(v uint) int {
	const maxInt = int(^uint(0) >> 1)
	if v > uint(maxInt) {
		return maxInt
	}
	return int(v) //nolint:gosec // bounds checked above
}

// ConvertParserRangeToLspRange maps a lexer range onto the wire type. Both are 0-based.
func ConvertParserRangeToLspRange(parserRange lexer.Range) Range {
	return Range{
		Start: Position{
			Line:      intToUint(parserRange.Start.Line),
			Character: intToUint(parserRange.Start.Character),
		},
		End: Position{
			Line:      intToUint(parserRange.End.Line),
			Character: intToUint(parserRange.End.Character),
		},
	}
}

func convertLspPositionToParserPosition(position Position) lexer.Position {
	return lexer.Position{
		Line:      uintToInt(position.Line),
		Character: uintToInt(position.Character),
	}
}

func marshalResponse[T any](method string, response ResponseMessage[T]) []byte {
	responseText, err := json.Marshal(response)
	if err != nil {
		slog.Error("unable to marshal response",
			slog.String("method", method),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return responseText
}

// ProcessErrorResponse answers a request that could not be served.
func ProcessErrorResponse(requestId ID, code int, message string) []byte {
	response := ResponseMessage[any]{
		JsonRpc: JSONRPCVersion,
		Id:      requestId,
		Error:   &ResponseError{Code: code, Message: message},
	}

	return marshalResponse("error", response)
}

// ProcessInitializeRequest handles the initialize request and returns the
// workspace root announced by the client.
func ProcessInitializeRequest(
	data []byte,
	lspName, lspVersion string,
) (response []byte, root string) {
	req := RequestMessage[InitializeParams]{}

	if err := json.Unmarshal(data, &req); err != nil {
		slog.Warn("error while unmarshalling 'initialize' request",
			slog.String("error", err.Error()),
			slog.String("received_req", string(data)),
		)
		return ProcessErrorResponse(req.Id, ErrorParse, err.Error()), ""
	}

	res := ResponseMessage[InitializeResult]{
		JsonRpc: JSONRPCVersion,
		Id:      req.Id,
		Result: InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync:     TextDocumentSyncFull,
				HoverProvider:        true,
				DefinitionProvider:   true,
				FoldingRangeProvider: true,
			},
		},
	}

	res.Result.ServerInfo.Name = lspName
	res.Result.ServerInfo.Version = lspVersion

	return marshalResponse(MethodInitialize, res), req.Params.RootUri
}

func ProcessShutdownRequest(requestId ID) []byte {
	response := ResponseMessage[any]{
		JsonRpc: JSONRPCVersion,
		Id:      requestId,
	}

	return marshalResponse(MethodShutdown, response)
}

// ProcessIllegalRequestAfterShutdown rejects anything but 'exit' once 'shutdown' was answered.
func ProcessIllegalRequestAfterShutdown(requestId ID) []byte {
	return ProcessErrorResponse(
		requestId,
		ErrorInvalidRequest,
		"illegal request while server shutting down",
	)
}

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

func ProcessDidOpenTextDocumentNotification(data []byte) (fileURI string, fileContent []byte) {
	var request RequestMessage[DidOpenTextDocumentParams]

	if err := json.Unmarshal(data, &request); err != nil {
		slog.Warn("error while unmarshalling 'textDocument/didOpen'",
			slog.String("error", err.Error()),
		)
		return "", nil
	}

	document := request.Params.TextDocument

	return document.Uri, []byte(document.Text)
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   TextDocumentItem                 `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

// ProcessDidChangeTextDocumentNotification handles textDocument/didChange.
// The server syncs full documents, so the last change holds the whole text.
func ProcessDidChangeTextDocumentNotification(data []byte) (fileURI string, fileContent []byte) {
	var request RequestMessage[DidChangeTextDocumentParams]

	if err := json.Unmarshal(data, &request); err != nil {
		slog.Warn("error while unmarshalling 'textDocument/didChange'",
			slog.String("error", err.Error()),
		)
		return "", nil
	}

	changes := request.Params.ContentChanges
	if len(changes) == 0 {
		slog.Warn("'contentChanges' field is empty")
		return "", nil
	}

	return request.Params.TextDocument.Uri, []byte(changes[len(changes)-1].Text)
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

func ProcessDidCloseTextDocumentNotification(data []byte) (fileURI string) {
	var request RequestMessage[DidCloseTextDocumentParams]

	if err := json.Unmarshal(data, &request); err != nil {
		slog.Warn("error while unmarshalling 'textDocument/didClose'",
			slog.String("error", err.Error()),
		)
		return ""
	}

	return request.Params.TextDocument.Uri
}

type HoverResult struct {
	Contents MarkupContent `json:"contents"`
	Range    Range         `json:"range"`
}

// ProcessHoverRequest handles textDocument/hover. The result is null when
// the file is unknown or nothing sits under the cursor.
func ProcessHoverRequest(data []byte, files map[string]*basic.FileAnalysis) []byte {
	var request RequestMessage[TextDocumentPositionParams]

	if err := json.Unmarshal(data, &request); err != nil {
		slog.Warn("error unmarshalling hover request: " + err.Error())
		return ProcessErrorResponse(request.Id, ErrorParse, err.Error())
	}

	response := ResponseMessage[*HoverResult]{
		JsonRpc: JSONRPCVersion,
		Id:      request.Id,
	}

	file := files[request.Params.TextDocument.Uri]
	if file == nil {
		slog.Warn("file not found on server for hover request",
			slog.String("uri", request.Params.TextDocument.Uri),
		)
		return marshalResponse(MethodHover, response)
	}

	position := convertLspPositionToParserPosition(request.Params.Position)
	text, reach := basic.Hover(file, position)

	if text != "" {
		response.Result = &HoverResult{
			Contents: MarkupContent{Kind: "markdown", Value: text},
			Range:    ConvertParserRangeToLspRange(reach),
		}
	}

	return marshalResponse(MethodHover, response)
}

// ProcessGoToDefinition handles textDocument/definition. Bindings never
// leave their file, so the location always points into the requested document.
func ProcessGoToDefinition(data []byte, files map[string]*basic.FileAnalysis) []byte {
	var request RequestMessage[TextDocumentPositionParams]

	if err := json.Unmarshal(data, &request); err != nil {
		slog.Warn("error unmarshalling definition request: " + err.Error())
		return ProcessErrorResponse(request.Id, ErrorParse, err.Error())
	}

	response := ResponseMessage[*Location]{
		JsonRpc: JSONRPCVersion,
		Id:      request.Id,
	}

	uri := request.Params.TextDocument.Uri

	file := files[uri]
	if file == nil {
		slog.Warn("file not found on server for definition request", slog.String("uri", uri))
		return marshalResponse(MethodDefinition, response)
	}

	position := convertLspPositionToParserPosition(request.Params.Position)

	reach, err := basic.GoToDefinition(file, position)
	if err != nil {
		slog.Debug("no definition", slog.String("uri", uri), slog.String("reason", err.Error()))
		return marshalResponse(MethodDefinition, response)
	}

	response.Result = &Location{Uri: uri, Range: ConvertParserRangeToLspRange(reach)}

	return marshalResponse(MethodDefinition, response)
}

type FoldingRangeParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type FoldingRangeResult struct {
	StartLine      uint             `json:"startLine"`
	StartCharacter uint             `json:"startCharacter"`
	EndLine        uint             `json:"endLine"`
	EndCharacter   uint             `json:"endCharacter"`
	Kind           FoldingRangeKind `json:"kind"`
}

type FoldingRangeKind string

const (
	FoldingRangeRegion FoldingRangeKind = "region"
)

// ProcessFoldingRangeRequest handles textDocument/foldingRange. The closing
// line of a block stays visible.
func ProcessFoldingRangeRequest(data []byte, files map[string]*basic.FileAnalysis) []byte {
	var request RequestMessage[FoldingRangeParams]

	if err := json.Unmarshal(data, &request); err != nil {
		slog.Warn("error unmarshalling folding range request: " + err.Error())
		return ProcessErrorResponse(request.Id, ErrorParse, err.Error())
	}

	response := ResponseMessage[[]FoldingRangeResult]{
		JsonRpc: JSONRPCVersion,
		Id:      request.Id,
		Result:  []FoldingRangeResult{},
	}

	file := files[request.Params.TextDocument.Uri]
	if file == nil {
		slog.Warn("file not found on server for folding range request",
			slog.String("uri", request.Params.TextDocument.Uri),
		)
		return marshalResponse(MethodFoldingRange, response)
	}

	for _, node := range basic.FoldingRange(file.Program) {
		reach := ConvertParserRangeToLspRange(node.Range())

		if reach.Start.Line != reach.End.Line {
			reach.End.Line--
		}

		response.Result = append(response.Result, FoldingRangeResult{
			StartLine:      reach.Start.Line,
			StartCharacter: reach.Start.Character,
			EndLine:        reach.End.Line,
			EndCharacter:   reach.End.Character,
			Kind:           FoldingRangeRegion,
		})
	}

	return marshalResponse(MethodFoldingRange, response)
}

// BuildDiagnosticsNotification publishes parse errors, then scope warnings, of file.
func BuildDiagnosticsNotification(
	uri string,
	file *basic.FileAnalysis,
	source string,
	warningsAsErrors bool,
) []byte {
	notification := NotificationMessage[PublishDiagnosticsParams]{
		JsonRpc: JSONRPCVersion,
		Method:  MethodPublishDiagnostics,
		Params: PublishDiagnosticsParams{
			Uri:         uri,
			Diagnostics: []Diagnostic{},
		},
	}

	warningSeverity := SeverityWarning
	if warningsAsErrors {
		warningSeverity = SeverityError
	}

	appendAll := func(errs []basic.Error, severity int) {
		for _, err := range errs {
			if err == nil {
				slog.Error("nil should not be in the error list", slog.String("uri", uri))
				continue
			}

			notification.Params.Diagnostics = append(notification.Params.Diagnostics, Diagnostic{
				Range:    ConvertParserRangeToLspRange(err.GetRange()),
				Message:  err.GetError(),
				Severity: severity,
				Source:   source,
			})
		}
	}

	appendAll(file.Errs, SeverityError)
	appendAll(file.Warnings, warningSeverity)

	response, err := json.Marshal(notification)
	if err != nil {
		slog.Error("unable to marshal diagnostics notification",
			slog.String("uri", uri),
			slog.String("error", err.Error()),
		)
		return nil
	}

	return response
}
