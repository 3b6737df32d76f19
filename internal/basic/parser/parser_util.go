package parser

import (
	"errors"
	"fmt"

	"github.com/pacer/gobasic/internal/basic/lexer"
)

func (p *Parser) nextToken() {
	p.current = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) curTokenIs(kind lexer.Kind) bool {
	return p.current.ID == kind
}

func (p *Parser) peekTokenIs(kind lexer.Kind) bool {
	return p.peek.ID == kind
}

// expectPeek is the single checkpoint for a mandatory next token.
// On success it advances; on failure it records a diagnostic and stays put.
func (p *Parser) expectPeek(kind lexer.Kind) bool {
	if p.peekTokenIs(kind) {
		p.nextToken()
		return true
	}

	p.peekError(kind)

	return false
}

func (p *Parser) peekError(kind lexer.Kind) {
	err := fmt.Errorf("expected next token to be %s, got %s", kind, p.peek.ID)
	p.recordError(p.peek, err)
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	err := fmt.Errorf("no prefix parse function for %s found", tok.ID)
	p.recordError(tok, err)
}

func (p *Parser) recordError(tok lexer.Token, err error) {
	p.errors = append(p.errors, NewParseError(&tok, err))
}

func (p *Parser) recordWarning(tok lexer.Token, err error) {
	p.warnings = append(p.warnings, NewParseError(&tok, err))
}

func (p *Parser) peekPrecedence() int {
	if precedence, ok := precedences[p.peek.ID]; ok {
		return precedence
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if precedence, ok := precedences[p.current.ID]; ok {
		return precedence
	}

	return LOWEST
}

// skipToEndOfLine moves 'current' onto the next NEWLINE (or EOF).
func (p *Parser) skipToEndOfLine() {
	for !p.curTokenIs(lexer.Newline) && !p.curTokenIs(lexer.Eof) {
		p.nextToken()
	}
}

// finishStatement leaves 'current' right after the statement just parsed.
// A statement that recorded a diagnostic discards the rest of its line,
// so that one mistake does not cascade into several.
func (p *Parser) finishStatement(errorsBefore int) {
	if len(p.errors) > errorsBefore {
		p.skipToEndOfLine()
		return
	}

	if !p.curTokenIs(lexer.Newline) && !p.curTokenIs(lexer.Eof) {
		p.nextToken()
	}
}

// enterNesting must be paired with leaveNesting, even when it returns false.
func (p *Parser) enterNesting() bool {
	p.currentRecursionDepth++

	if p.currentRecursionDepth <= p.maxRecursionDepth {
		return true
	}

	if !p.depthReported {
		p.depthReported = true
		p.recordError(p.current, errors.New("parser error, reached the max depth authorized"))
	}

	return false
}

func (p *Parser) leaveNesting() {
	p.currentRecursionDepth--

	// report at most once per top level statement
	if p.currentRecursionDepth == 0 {
		p.depthReported = false
	}
}

func NewParseError(token *lexer.Token, err error) *ParseError {
	if token == nil {
		panic("token cannot be nil while creating parse error")
	}

	e := &ParseError{
		Err:   err,
		Range: token.Range,
		Token: token,
	}

	return e
}
