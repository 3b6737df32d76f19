package parser

import (
	"github.com/pacer/gobasic/internal/basic/ast"
	"github.com/pacer/gobasic/internal/basic/lexer"
)

// parseStatement wraps the expression starting at 'current'.
// LET, PRINT and friends are expression heads too, so every statement
// ends up as an 'ExpressionStatement'.
func (p *Parser) parseStatement() ast.Node {
	first := p.current

	expression := p.parseExpression(LOWEST)
	if expression == nil {
		return nil
	}

	return &ast.ExpressionStatement{Token: first, Expression: expression}
}

// parseBlockStatement is entered with 'current' on the token preceding the
// block (THEN, ELSE or the NEWLINE ending a SUB header).
//
// A multi-line block stops on 'END IF', 'END SUB' or 'EOF', leaving it as
// 'current'. An inline block stops at the end of its line. Both stop on
// 'ELSE' without consuming it.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{
		Token:  p.current,
		Inline: !p.curTokenIs(lexer.Newline) && !p.peekTokenIs(lexer.Newline),
	}

	p.pushScope()
	defer p.popScope()

	ok := p.enterNesting()
	defer p.leaveNesting()

	if !ok {
		return block
	}

	p.nextToken()

	for {
		switch p.current.ID {
		case lexer.EndIf, lexer.EndSub, lexer.Eof, lexer.Else:
			return block

		case lexer.Newline:
			if block.Inline {
				return block
			}

			p.nextToken()
			continue

		case lexer.Rem:
			p.nextToken()
			continue
		}

		before := len(p.errors)

		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}

		p.finishStatement(before)
	}
}
