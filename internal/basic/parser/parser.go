package parser

import (
	"errors"

	"github.com/pacer/gobasic/internal/basic/ast"
	"github.com/pacer/gobasic/internal/basic/lexer"
)

// Warnings for blocks left open at the end of input. The block still ends
// there, so the program runs; a REPL uses them to ask for another line.
var (
	ErrMissingEndIf  = errors.New("missing matching 'END IF'")
	ErrMissingEndSub = errors.New("missing matching 'END SUB'")
)

type ParseError struct {
	Err   error
	Range lexer.Range
	Token *lexer.Token
}

func (p ParseError) GetError() string {
	return p.Err.Error()
}

func (p ParseError) GetRange() lexer.Range {
	return p.Range
}

type (
	prefixParseFn func(*Parser) ast.Node
	infixParseFn  func(*Parser, ast.Node) ast.Node
)

// Parser builds the AST of a single program. Diagnostics are accumulated,
// never raised: check Errors() once ParseProgram() returns.
// A Parser must not be reused for another program.
type Parser struct {
	lexer   *lexer.Lexer
	current lexer.Token
	peek    lexer.Token

	errors   []lexer.Error
	warnings []lexer.Error

	scope *Scope

	maxRecursionDepth     int
	currentRecursionDepth int
	depthReported         bool
}

type Option func(*Parser)

// WithMaxDepth bounds how deep expressions and blocks may nest.
// Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxRecursionDepth = depth
		}
	}
}

func New(l *lexer.Lexer, opts ...Option) *Parser {
	p := &Parser{
		lexer:             l,
		scope:             NewScope(nil),
		maxRecursionDepth: defaultMaxRecursionDepth,
	}

	for _, opt := range opts {
		opt(p)
	}

	// fill both 'current' and 'peek'
	p.nextToken()
	p.nextToken()

	return p
}

// ParseProgram consumes the whole token stream.
// The returned program is never <nil>, even when diagnostics were recorded.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for p.current.ID != lexer.Eof {
		// remarks carry no statement, the lexer already dropped their text
		if p.curTokenIs(lexer.Newline) || p.curTokenIs(lexer.Rem) {
			p.nextToken()
			continue
		}

		before := len(p.errors)

		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}

		p.finishStatement(before)
	}

	return program
}

// Errors returns the diagnostic messages in the order they were recorded.
func (p *Parser) Errors() []string {
	messages := make([]string, 0, len(p.errors))

	for _, err := range p.errors {
		messages = append(messages, err.GetError())
	}

	return messages
}

// ParseErrors returns the diagnostics along with their location.
func (p *Parser) ParseErrors() []lexer.Error {
	return p.errors
}

// Warnings returns non fatal findings, such as a name bound twice in the same block.
func (p *Parser) Warnings() []lexer.Error {
	return p.warnings
}

// Root returns the program wide scope.
func (p *Parser) Root() *Scope {
	root := p.scope
	for root.Parent() != nil {
		root = root.Parent()
	}

	return root
}

// Parse tokens into AST and return syntax errors found during the process.
// Returned parse tree is never <nil>.
func Parse(content []byte, opts ...Option) (*ast.Program, []lexer.Error) {
	p := New(lexer.New(content), opts...)
	program := p.ParseProgram()

	return program, p.ParseErrors()
}
