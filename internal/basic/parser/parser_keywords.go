package parser

import (
	"github.com/pacer/gobasic/internal/basic/ast"
	"github.com/pacer/gobasic/internal/basic/lexer"
)

// Parse rules indexed by token kind.
// Initialized in init() to avoid initialization cycle.
var (
	prefixParseFns map[lexer.Kind]prefixParseFn
	infixParseFns  map[lexer.Kind]infixParseFn
)

func init() {
	prefixParseFns = map[lexer.Kind]prefixParseFn{
		lexer.Ident:     (*Parser).parseIdentifier,
		lexer.Int:       (*Parser).parseIntegerLiteral,
		lexer.StringLit: (*Parser).parseStringLiteral,
		lexer.True:      (*Parser).parseBoolean,
		lexer.False:     (*Parser).parseBoolean,
		lexer.Bang:      (*Parser).parsePrefixExpression,
		lexer.Minus:     (*Parser).parsePrefixExpression,
		lexer.LeftParen: (*Parser).parseGroupedExpression,
		lexer.If:        (*Parser).parseIfExpression,
		lexer.Else:      (*Parser).parseElseExpression,
		lexer.Sub:       (*Parser).parseSubExpression,
		lexer.Call:      (*Parser).parseCallExpression,
		lexer.Let:       (*Parser).parseLetStatement,
		lexer.Print:     (*Parser).parsePrintStatement,
		lexer.Input:     (*Parser).parseInputStatement,
		lexer.Goto:      (*Parser).parseGotoStatement,
	}

	infixParseFns = map[lexer.Kind]infixParseFn{
		lexer.Plus:         (*Parser).parseInfixExpression,
		lexer.Minus:        (*Parser).parseInfixExpression,
		lexer.Asterisk:     (*Parser).parseInfixExpression,
		lexer.Slash:        (*Parser).parseInfixExpression,
		lexer.Assign:       (*Parser).parseInfixExpression,
		lexer.NotEqual:     (*Parser).parseInfixExpression,
		lexer.LessThan:     (*Parser).parseInfixExpression,
		lexer.GreaterThan:  (*Parser).parseInfixExpression,
		lexer.LessEqual:    (*Parser).parseInfixExpression,
		lexer.GreaterEqual: (*Parser).parseInfixExpression,
	}
}

// parseIfExpression handles both "IF c THEN a ELSE b" on one line and the
// block form closed by 'END IF'.
func (p *Parser) parseIfExpression() ast.Node {
	expression := &ast.IfExpression{Token: p.current}

	p.nextToken() // skip keyword "IF"

	condition := p.parseExpression(LOWEST)
	if condition == nil {
		return nil
	}

	expression.Condition = condition

	if !p.expectPeek(lexer.Then) {
		return nil
	}

	// input stopping right after THEN or ELSE leaves a block open
	open := p.peekTokenIs(lexer.Eof)

	expression.Consequence = p.parseBlockStatement()
	last := expression.Consequence

	// an inline consequence accepts an ELSE opening the next line
	if last.Inline && p.curTokenIs(lexer.Newline) && p.peekTokenIs(lexer.Else) {
		p.nextToken()
	}

	if p.curTokenIs(lexer.Else) {
		open = p.peekTokenIs(lexer.Eof)
		expression.Alternative = p.parseBlockStatement()
		last = expression.Alternative
	}

	if last.Inline && !open {
		return expression
	}

	if !p.curTokenIs(lexer.EndIf) {
		p.recordWarning(expression.Token, ErrMissingEndIf)
		return expression
	}

	end := p.current
	expression.End = &end

	return expression
}

// parseElseExpression is reached only for an ELSE that no IF claimed.
func (p *Parser) parseElseExpression() ast.Node {
	expression := &ast.ElseExpression{Token: p.current}
	expression.Block = p.parseBlockStatement()

	return expression
}

func (p *Parser) parseSubExpression() ast.Node {
	expression := &ast.SubExpression{Token: p.current}

	if !p.expectPeek(lexer.Ident) {
		return nil
	}

	expression.Name = p.newIdentifier()
	p.define(expression.Name, expression)

	if !p.expectPeek(lexer.LeftParen) {
		return nil
	}

	// parameters live in their own frame, enclosing the body
	p.pushScope()
	defer p.popScope()

	parameters, ok := p.parseSubParameters()
	if !ok {
		return nil
	}

	expression.Parameters = parameters

	// a header ending the input opens a body that never started
	if p.peekTokenIs(lexer.Eof) {
		p.nextToken()
		expression.Body = &ast.BlockStatement{Token: p.current}
		p.recordWarning(expression.Token, ErrMissingEndSub)
		return expression
	}

	if !p.expectPeek(lexer.Newline) {
		return nil
	}

	expression.Body = p.parseBlockStatement()

	if !p.curTokenIs(lexer.EndSub) {
		p.recordWarning(expression.Token, ErrMissingEndSub)
		return expression
	}

	end := p.current
	expression.End = &end

	return expression
}

func (p *Parser) parseSubParameters() ([]*ast.Identifier, bool) {
	var parameters []*ast.Identifier

	if p.peekTokenIs(lexer.RightParen) {
		p.nextToken()
		return parameters, true
	}

	for {
		if !p.expectPeek(lexer.Ident) {
			return nil, false
		}

		param := p.newIdentifier()
		p.define(param, param)
		parameters = append(parameters, param)

		if !p.peekTokenIs(lexer.Comma) {
			break
		}

		p.nextToken()
	}

	if !p.expectPeek(lexer.RightParen) {
		return nil, false
	}

	return parameters, true
}

func (p *Parser) parseCallExpression() ast.Node {
	expression := &ast.CallExpression{Token: p.current}

	if !p.expectPeek(lexer.Ident) {
		return nil
	}

	expression.Function = p.newIdentifier()

	if !p.expectPeek(lexer.LeftParen) {
		return nil
	}

	arguments, ok := p.parseExpressionList(lexer.RightParen)
	if !ok {
		return nil
	}

	expression.Arguments = arguments

	return expression
}

func (p *Parser) parseLetStatement() ast.Node {
	statement := &ast.LetStatement{Token: p.current}

	if !p.expectPeek(lexer.Ident) {
		return nil
	}

	statement.Name = p.newIdentifier()

	if !p.expectPeek(lexer.Assign) {
		return nil
	}

	p.nextToken()

	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}

	statement.Value = value
	p.define(statement.Name, statement)

	return statement
}

// parsePrintStatement reads a possibly empty, comma separated list.
func (p *Parser) parsePrintStatement() ast.Node {
	statement := &ast.PrintStatement{Token: p.current}

	switch p.peek.ID {
	case lexer.Newline, lexer.Eof, lexer.Else:
		return statement
	}

	p.nextToken()

	item := p.parseExpression(LOWEST)
	if item == nil {
		return nil
	}

	statement.Arguments = append(statement.Arguments, item)

	for p.peekTokenIs(lexer.Comma) {
		p.nextToken()
		p.nextToken()

		item := p.parseExpression(LOWEST)
		if item == nil {
			return nil
		}

		statement.Arguments = append(statement.Arguments, item)
	}

	return statement
}

func (p *Parser) parseInputStatement() ast.Node {
	statement := &ast.InputStatement{Token: p.current}

	if !p.expectPeek(lexer.Ident) {
		return nil
	}

	statement.Name = p.newIdentifier()

	return statement
}

func (p *Parser) parseGotoStatement() ast.Node {
	statement := &ast.GotoStatement{Token: p.current}

	p.nextToken()

	target := p.parseExpression(LOWEST)
	if target == nil {
		return nil
	}

	statement.Target = target

	return statement
}
