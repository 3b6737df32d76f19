// Package evaluator walks a diagnostic free AST and computes its value.
package evaluator

import (
	"github.com/pacer/gobasic/internal/basic/ast"
	"github.com/pacer/gobasic/internal/basic/lexer"
	"github.com/pacer/gobasic/internal/basic/value"
)

// Evaluator holds no state between programs. Variables, subroutines,
// jumps and text I/O are parsed but have no meaning here; evaluating them
// fails with ErrUnsupportedNode.
type Evaluator struct{}

func New() *Evaluator {
	return &Evaluator{}
}

// Eval returns the value of node. A program or block without statements
// has no value, reported as (nil, nil).
func (e *Evaluator) Eval(node ast.Node) (value.Value, error) {
	switch n := node.(type) {
	case *ast.Program:
		return e.evalStatements(n.Statements)
	case *ast.BlockStatement:
		return e.evalStatements(n.Statements)
	case *ast.ExpressionStatement:
		return e.Eval(n.Expression)

	case *ast.IntegerLiteral:
		if !n.Valid {
			return nil, newRuntimeError(n, ErrMalformedLiteral, "%s", n.Token.Literal)
		}
		return &value.Integer{Value: n.Value}, nil
	case *ast.BooleanLiteral:
		return value.NativeBool(n.Value), nil

	case *ast.PrefixExpression:
		return e.evalPrefixExpression(n)
	case *ast.InfixExpression:
		return e.evalInfixExpression(n)
	case *ast.IfExpression:
		return e.evalIfExpression(n)

	case *ast.Identifier, *ast.StringLiteral, *ast.LetStatement, *ast.ElseExpression,
		*ast.SubExpression, *ast.CallExpression, *ast.PrintStatement,
		*ast.InputStatement, *ast.GotoStatement:
		return nil, newRuntimeError(node, ErrUnsupportedNode, "%s", node.Kind())

	case nil:
		return nil, newRuntimeError(nil, ErrUnsupportedNode, "empty node")
	default:
		return nil, newRuntimeError(node, ErrUnsupportedNode, "%T", node)
	}
}

func (e *Evaluator) evalStatements(statements []ast.Node) (value.Value, error) {
	var result value.Value

	for _, stmt := range statements {
		v, err := e.Eval(stmt)
		if err != nil {
			return nil, err
		}

		result = v
	}

	return result, nil
}

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression) (value.Value, error) {
	right, err := e.Eval(node.Right)
	if err != nil {
		return nil, err
	}

	switch node.Token.ID {
	case lexer.Bang:
		return value.NativeBool(!value.IsTruthy(right)), nil

	case lexer.Minus:
		integer, ok := right.(*value.Integer)
		if !ok {
			return nil, newRuntimeError(node, ErrInvalidNegation, "-%s", kindOf(right))
		}
		return &value.Integer{Value: -integer.Value}, nil

	default:
		return nil, newRuntimeError(node, ErrUnsupportedOperands, "%s%s", node.Operator, kindOf(right))
	}
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression) (value.Value, error) {
	left, err := e.Eval(node.Left)
	if err != nil {
		return nil, err
	}

	right, err := e.Eval(node.Right)
	if err != nil {
		return nil, err
	}

	l, leftOk := left.(*value.Integer)
	r, rightOk := right.(*value.Integer)

	if !leftOk || !rightOk {
		return nil, newRuntimeError(
			node,
			ErrUnsupportedOperands,
			"%s %s %s",
			kindOf(left),
			node.Operator,
			kindOf(right),
		)
	}

	switch node.Token.ID {
	case lexer.Plus:
		return &value.Integer{Value: l.Value + r.Value}, nil
	case lexer.Minus:
		return &value.Integer{Value: l.Value - r.Value}, nil
	case lexer.Asterisk:
		return &value.Integer{Value: l.Value * r.Value}, nil
	case lexer.Slash:
		if r.Value == 0 {
			return nil, newRuntimeError(node, ErrDivisionByZero, "%d / 0", l.Value)
		}
		return &value.Integer{Value: l.Value / r.Value}, nil

	case lexer.LessThan:
		return value.NativeBool(l.Value < r.Value), nil
	case lexer.GreaterThan:
		return value.NativeBool(l.Value > r.Value), nil
	case lexer.LessEqual:
		return value.NativeBool(l.Value <= r.Value), nil
	case lexer.GreaterEqual:
		return value.NativeBool(l.Value >= r.Value), nil
	case lexer.Assign:
		return value.NativeBool(l.Value == r.Value), nil
	case lexer.NotEqual:
		return value.NativeBool(l.Value != r.Value), nil
	}

	return nil, newRuntimeError(node, ErrUnsupportedOperands, "unknown operator %s", node.Operator)
}

// evalIfExpression yields NULL when no branch runs, or when the branch taken
// is empty.
func (e *Evaluator) evalIfExpression(node *ast.IfExpression) (value.Value, error) {
	condition, err := e.Eval(node.Condition)
	if err != nil {
		return nil, err
	}

	var branch *ast.BlockStatement

	switch {
	case value.IsTruthy(condition):
		branch = node.Consequence
	case node.Alternative != nil:
		branch = node.Alternative
	default:
		return value.NULL, nil
	}

	result, err := e.Eval(branch)
	if err != nil {
		return nil, err
	}

	if result == nil {
		return value.NULL, nil
	}

	return result, nil
}

func kindOf(v value.Value) string {
	if v == nil {
		return "NONE"
	}

	return v.Kind().String()
}
