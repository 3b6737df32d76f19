// Package ast defines the closed set of nodes produced by the parser.
package ast

import (
	"github.com/pacer/gobasic/internal/basic/lexer"
)

type Kind int

const (
	KindProgram Kind = iota
	KindLet
	KindIdentifier
	KindBoolean
	KindInteger
	KindString
	KindExpressionStatement
	KindPrefix
	KindInfix
	KindBlock
	KindElse
	KindIf
	KindSub
	KindCall
	KindPrint
	KindInput
	KindGoto
)

var kindNames = [...]string{
	KindProgram:             "Program",
	KindLet:                 "LetStatement",
	KindIdentifier:          "Identifier",
	KindBoolean:             "BooleanLiteral",
	KindInteger:             "IntegerLiteral",
	KindString:              "StringLiteral",
	KindExpressionStatement: "ExpressionStatement",
	KindPrefix:              "PrefixExpression",
	KindInfix:               "InfixExpression",
	KindBlock:               "BlockStatement",
	KindElse:                "ElseExpression",
	KindIf:                  "IfExpression",
	KindSub:                 "SubExpression",
	KindCall:                "CallExpression",
	KindPrint:               "PrintStatement",
	KindInput:               "InputStatement",
	KindGoto:                "GotoStatement",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(?)"
	}

	return kindNames[k]
}

// Node is implemented only by the types of this package.
// Every node owns its children exclusively; the tree has no sharing and no cycles.
type Node interface {
	Kind() Kind
	TokenLiteral() string
	String() string
	Range() lexer.Range
	node()
}

type Program struct {
	Statements []Node
}

type LetStatement struct {
	Token lexer.Token
	Name  *Identifier
	Value Node
}

type Identifier struct {
	Token lexer.Token
	Value string
}

type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

// IntegerLiteral holds a decimal literal. Valid is false when the literal
// did not fit in an int64; Value is then meaningless.
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
	Valid bool
}

// StringLiteral keeps the raw text between the quotes, escapes included.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

type ExpressionStatement struct {
	Token      lexer.Token // first token of the expression
	Expression Node
}

type PrefixExpression struct {
	Token    lexer.Token
	Operator string
	Right    Node
}

type InfixExpression struct {
	Token    lexer.Token // the operator
	Left     Node
	Operator string
	Right    Node
}

// BlockStatement is the body of IF, ELSE and SUB.
// An inline block lives on the same line as its keyword.
type BlockStatement struct {
	Token      lexer.Token // token preceding the block: THEN, ELSE or NEWLINE
	Statements []Node
	Inline     bool
}

type ElseExpression struct {
	Token lexer.Token
	Block *BlockStatement
}

type IfExpression struct {
	Token       lexer.Token
	Condition   Node
	Consequence *BlockStatement
	Alternative *BlockStatement // nil when there is no ELSE
	End         *lexer.Token    // 'END IF', nil for inline forms
}

type SubExpression struct {
	Token      lexer.Token
	Name       *Identifier
	Parameters []*Identifier
	Body       *BlockStatement
	End        *lexer.Token
}

type CallExpression struct {
	Token     lexer.Token
	Function  *Identifier
	Arguments []Node
}

type PrintStatement struct {
	Token     lexer.Token
	Arguments []Node
}

type InputStatement struct {
	Token lexer.Token
	Name  *Identifier
}

type GotoStatement struct {
	Token  lexer.Token
	Target Node
}

func (*Program) node()             {}
func (*LetStatement) node()        {}
func (*Identifier) node()          {}
func (*BooleanLiteral) node()      {}
func (*IntegerLiteral) node()      {}
func (*StringLiteral) node()       {}
func (*ExpressionStatement) node() {}
func (*PrefixExpression) node()    {}
func (*InfixExpression) node()     {}
func (*BlockStatement) node()      {}
func (*ElseExpression) node()      {}
func (*IfExpression) node()        {}
func (*SubExpression) node()       {}
func (*CallExpression) node()      {}
func (*PrintStatement) node()      {}
func (*InputStatement) node()      {}
func (*GotoStatement) node()       {}

func (*Program) Kind() Kind             { return KindProgram }
func (*LetStatement) Kind() Kind        { return KindLet }
func (*Identifier) Kind() Kind          { return KindIdentifier }
func (*BooleanLiteral) Kind() Kind      { return KindBoolean }
func (*IntegerLiteral) Kind() Kind      { return KindInteger }
func (*StringLiteral) Kind() Kind       { return KindString }
func (*ExpressionStatement) Kind() Kind { return KindExpressionStatement }
func (*PrefixExpression) Kind() Kind    { return KindPrefix }
func (*InfixExpression) Kind() Kind     { return KindInfix }
func (*BlockStatement) Kind() Kind      { return KindBlock }
func (*ElseExpression) Kind() Kind      { return KindElse }
func (*IfExpression) Kind() Kind        { return KindIf }
func (*SubExpression) Kind() Kind       { return KindSub }
func (*CallExpression) Kind() Kind      { return KindCall }
func (*PrintStatement) Kind() Kind      { return KindPrint }
func (*InputStatement) Kind() Kind      { return KindInput }
func (*GotoStatement) Kind() Kind       { return KindGoto }

func (p *Program) TokenLiteral() string {
	if len(p.Statements) == 0 {
		return ""
	}

	return p.Statements[0].TokenLiteral()
}

func (s *LetStatement) TokenLiteral() string        { return s.Token.Literal }
func (i *Identifier) TokenLiteral() string          { return i.Token.Literal }
func (b *BooleanLiteral) TokenLiteral() string      { return b.Token.Literal }
func (i *IntegerLiteral) TokenLiteral() string      { return i.Token.Literal }
func (s *StringLiteral) TokenLiteral() string       { return s.Token.Literal }
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (e *PrefixExpression) TokenLiteral() string    { return e.Token.Literal }
func (e *InfixExpression) TokenLiteral() string     { return e.Token.Literal }
func (b *BlockStatement) TokenLiteral() string      { return b.Token.Literal }
func (e *ElseExpression) TokenLiteral() string      { return e.Token.Literal }
func (e *IfExpression) TokenLiteral() string        { return e.Token.Literal }
func (e *SubExpression) TokenLiteral() string       { return e.Token.Literal }
func (e *CallExpression) TokenLiteral() string      { return e.Token.Literal }
func (s *PrintStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *InputStatement) TokenLiteral() string      { return s.Token.Literal }
func (s *GotoStatement) TokenLiteral() string       { return s.Token.Literal }

// ----------
// Node range
// ----------

func spanNodes(reach lexer.Range, nodes ...Node) lexer.Range {
	for _, n := range nodes {
		if n == nil {
			continue
		}

		reach = reach.Span(n.Range())
	}

	return reach
}

func (p *Program) Range() lexer.Range {
	if len(p.Statements) == 0 {
		return lexer.EmptyRange()
	}

	first := p.Statements[0].Range()
	return spanNodes(first, p.Statements[len(p.Statements)-1])
}

func (s *LetStatement) Range() lexer.Range {
	if s.Value == nil {
		return s.Token.Range
	}

	return s.Token.Range.Span(s.Value.Range())
}

func (i *Identifier) Range() lexer.Range     { return i.Token.Range }
func (b *BooleanLiteral) Range() lexer.Range { return b.Token.Range }
func (i *IntegerLiteral) Range() lexer.Range { return i.Token.Range }
func (s *StringLiteral) Range() lexer.Range  { return s.Token.Range }

func (s *ExpressionStatement) Range() lexer.Range {
	if s.Expression == nil {
		return s.Token.Range
	}

	return s.Expression.Range()
}

func (e *PrefixExpression) Range() lexer.Range {
	if e.Right == nil {
		return e.Token.Range
	}

	return e.Token.Range.Span(e.Right.Range())
}

func (e *InfixExpression) Range() lexer.Range {
	return spanNodes(e.Token.Range, e.Left, e.Right)
}

// Range of a block covers its statements only; an empty block falls back to
// the token preceding it.
func (b *BlockStatement) Range() lexer.Range {
	if len(b.Statements) == 0 {
		return b.Token.Range
	}

	first := b.Statements[0].Range()
	return spanNodes(first, b.Statements[len(b.Statements)-1])
}

func (e *ElseExpression) Range() lexer.Range {
	if e.Block == nil {
		return e.Token.Range
	}

	return e.Token.Range.Span(e.Block.Range())
}

func (e *IfExpression) Range() lexer.Range {
	reach := spanNodes(e.Token.Range, e.Condition)

	if e.Consequence != nil {
		reach = reach.Span(e.Consequence.Range())
	}

	if e.Alternative != nil {
		reach = reach.Span(e.Alternative.Range())
	}

	if e.End != nil {
		reach = reach.Span(e.End.Range)
	}

	return reach
}

func (e *SubExpression) Range() lexer.Range {
	reach := e.Token.Range

	if e.Name != nil {
		reach = reach.Span(e.Name.Range())
	}

	for _, param := range e.Parameters {
		reach = reach.Span(param.Range())
	}

	if e.Body != nil {
		reach = reach.Span(e.Body.Range())
	}

	if e.End != nil {
		reach = reach.Span(e.End.Range)
	}

	return reach
}

func (e *CallExpression) Range() lexer.Range {
	reach := e.Token.Range

	if e.Function != nil {
		reach = reach.Span(e.Function.Range())
	}

	return spanNodes(reach, e.Arguments...)
}

func (s *PrintStatement) Range() lexer.Range {
	return spanNodes(s.Token.Range, s.Arguments...)
}

func (s *InputStatement) Range() lexer.Range {
	if s.Name == nil {
		return s.Token.Range
	}

	return s.Token.Range.Span(s.Name.Range())
}

func (s *GotoStatement) Range() lexer.Range {
	return spanNodes(s.Token.Range, s.Target)
}
