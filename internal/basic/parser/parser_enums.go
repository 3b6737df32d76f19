package parser

import "github.com/pacer/gobasic/internal/basic/lexer"

// ----------------
// Parser constants
// ----------------

const (
	// defaultMaxRecursionDepth bounds nested expressions and blocks.
	defaultMaxRecursionDepth = 256
)

// binding power, from loosest to tightest
const (
	_ int = iota
	LOWEST
	EQUALS      // = <>
	LESSGREATER // < > <= >=
	SUM         // + -
	PRODUCT     // * /
	PREFIX      // -X !X
	CALL
)

var precedences = map[lexer.Kind]int{
	lexer.Assign:       EQUALS,
	lexer.NotEqual:     EQUALS,
	lexer.LessThan:     LESSGREATER,
	lexer.GreaterThan:  LESSGREATER,
	lexer.LessEqual:    LESSGREATER,
	lexer.GreaterEqual: LESSGREATER,
	lexer.Plus:         SUM,
	lexer.Minus:        SUM,
	lexer.Slash:        PRODUCT,
	lexer.Asterisk:     PRODUCT,
}
