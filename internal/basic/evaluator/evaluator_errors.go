package evaluator

import (
	"errors"
	"fmt"

	"github.com/pacer/gobasic/internal/basic/ast"
	"github.com/pacer/gobasic/internal/basic/lexer"
)

// Sentinel faults, to be matched with errors.Is.
var (
	ErrInvalidNegation     = errors.New("invalid negation")
	ErrUnsupportedOperands = errors.New("unsupported operand types")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrUnsupportedNode     = errors.New("no evaluation semantics")
	ErrMalformedLiteral    = errors.New("malformed integer literal")
)

// RuntimeError is the only error type returned by Eval.
type RuntimeError struct {
	Err    error
	Detail string
	Range  lexer.Range
	Node   ast.Node
}

func newRuntimeError(node ast.Node, err error, format string, args ...any) *RuntimeError {
	e := &RuntimeError{
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
		Node:   node,
	}

	if node != nil {
		e.Range = node.Range()
	}

	return e
}

func (e *RuntimeError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}

	return e.Err.Error() + ": " + e.Detail
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func (e *RuntimeError) GetError() string {
	return e.Error()
}

func (e *RuntimeError) GetRange() lexer.Range {
	return e.Range
}

func (e *RuntimeError) String() string {
	return fmt.Sprintf(`{"Err": %q, "Range": %s}`, e.Error(), e.Range)
}
