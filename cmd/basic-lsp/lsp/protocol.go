package lsp

// LSP protocol constants.
const (
	JSONRPCVersion = "2.0"

	// diagnostic severities
	SeverityError   = 1
	SeverityWarning = 2
	SeverityInfo    = 3
	SeverityHint    = 4

	// TextDocumentSyncFull indicates full document sync mode.
	TextDocumentSyncFull = 1

	// JSON-RPC error codes
	ErrorParse          = -32700
	ErrorInvalidRequest = -32600
	ErrorMethodNotFound = -32601
)

// LSP method names.
const (
	MethodInitialize         = "initialize"
	MethodInitialized        = "initialized"
	MethodShutdown           = "shutdown"
	MethodExit               = "exit"
	MethodDidOpen            = "textDocument/didOpen"
	MethodDidChange          = "textDocument/didChange"
	MethodDidClose           = "textDocument/didClose"
	MethodHover              = "textDocument/hover"
	MethodDefinition         = "textDocument/definition"
	MethodFoldingRange       = "textDocument/foldingRange"
	MethodPublishDiagnostics = "textDocument/publishDiagnostics"
)

// LSP header constants.
const (
	ContentLengthHeader = "Content-Length"
	HeaderDelimiter     = "\r\n\r\n"
	LineDelimiter       = "\r\n"

	// MaxMessageSize bounds a single message body.
	MaxMessageSize = 16 << 20
)
