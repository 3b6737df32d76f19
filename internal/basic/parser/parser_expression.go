package parser

import (
	"fmt"
	"strconv"

	"github.com/pacer/gobasic/internal/basic/ast"
	"github.com/pacer/gobasic/internal/basic/lexer"
)

// parseExpression is the Pratt loop. It returns <nil> when no node could be
// built; the diagnostic has been recorded by then.
func (p *Parser) parseExpression(precedence int) ast.Node {
	ok := p.enterNesting()
	defer p.leaveNesting()

	if !ok {
		return nil
	}

	prefix, found := prefixParseFns[p.current.ID]
	if !found {
		p.noPrefixParseFnError(p.current)
		return nil
	}

	left := prefix(p)
	if left == nil {
		return nil
	}

	// an inline IF may already stand on the line terminator
	for !p.curTokenIs(lexer.Newline) && !p.peekTokenIs(lexer.Newline) &&
		precedence < p.peekPrecedence() {
		infix, found := infixParseFns[p.peek.ID]
		if !found {
			return left
		}

		p.nextToken()

		left = infix(p, left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) newIdentifier() *ast.Identifier {
	return &ast.Identifier{Token: p.current, Value: p.current.Literal}
}

func (p *Parser) parseIdentifier() ast.Node {
	return p.newIdentifier()
}

// parseIntegerLiteral keeps the node even when the literal overflows,
// so that editors can still point at it.
func (p *Parser) parseIntegerLiteral() ast.Node {
	literal := &ast.IntegerLiteral{Token: p.current}

	value, err := strconv.ParseInt(p.current.Literal, 10, 64)
	if err != nil {
		p.recordError(p.current, fmt.Errorf("could not parse %s as integer", p.current.Literal))
		return literal
	}

	literal.Value = value
	literal.Valid = true

	return literal
}

func (p *Parser) parseStringLiteral() ast.Node {
	return &ast.StringLiteral{Token: p.current, Value: p.current.Literal}
}

func (p *Parser) parseBoolean() ast.Node {
	return &ast.BooleanLiteral{Token: p.current, Value: p.curTokenIs(lexer.True)}
}

func (p *Parser) parsePrefixExpression() ast.Node {
	expression := &ast.PrefixExpression{
		Token:    p.current,
		Operator: p.current.ID.String(),
	}

	p.nextToken()

	right := p.parseExpression(PREFIX)
	if right == nil {
		return nil
	}

	expression.Right = right

	return expression
}

// parseInfixExpression serves every binary operator. The right hand side
// binds at the operator's own precedence, which makes operators left associative.
func (p *Parser) parseInfixExpression(left ast.Node) ast.Node {
	expression := &ast.InfixExpression{
		Token:    p.current,
		Operator: p.current.ID.String(),
		Left:     left,
	}

	precedence := p.curPrecedence()
	p.nextToken()

	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}

	expression.Right = right

	return expression
}

func (p *Parser) parseGroupedExpression() ast.Node {
	p.nextToken()

	expression := p.parseExpression(LOWEST)
	if expression == nil {
		return nil
	}

	if !p.expectPeek(lexer.RightParen) {
		return nil
	}

	return expression
}

// parseExpressionList reads "a, b, c" up to the 'end' token, which becomes 'current'.
// 'current' must be the token opening the list.
func (p *Parser) parseExpressionList(end lexer.Kind) ([]ast.Node, bool) {
	var list []ast.Node

	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}

	p.nextToken()

	item := p.parseExpression(LOWEST)
	if item == nil {
		return nil, false
	}

	list = append(list, item)

	for p.peekTokenIs(lexer.Comma) {
		p.nextToken()
		p.nextToken()

		item := p.parseExpression(LOWEST)
		if item == nil {
			return nil, false
		}

		list = append(list, item)
	}

	if !p.expectPeek(end) {
		return nil, false
	}

	return list, true
}
