package ast

import (
	"strings"
)

func joinNodes(nodes []Node, sep string) string {
	parts := make([]string, 0, len(nodes))

	for _, n := range nodes {
		parts = append(parts, n.String())
	}

	return strings.Join(parts, sep)
}

func (p *Program) String() string {
	return joinNodes(p.Statements, "\n")
}

func (s *LetStatement) String() string {
	var sb strings.Builder

	sb.WriteString(s.TokenLiteral())
	sb.WriteString(" ")

	if s.Name != nil {
		sb.WriteString(s.Name.String())
	}

	sb.WriteString(" = ")

	if s.Value != nil {
		sb.WriteString(s.Value.String())
	}

	return sb.String()
}

func (i *Identifier) String() string     { return i.Value }
func (b *BooleanLiteral) String() string { return b.Token.Literal }
func (i *IntegerLiteral) String() string { return i.Token.Literal }

func (s *StringLiteral) String() string {
	return `"` + s.Value + `"`
}

func (s *ExpressionStatement) String() string {
	if s.Expression == nil {
		return ""
	}

	return s.Expression.String()
}

func (e *PrefixExpression) String() string {
	return "(" + e.Operator + e.Right.String() + ")"
}

func (e *InfixExpression) String() string {
	return "(" + e.Left.String() + " " + e.Operator + " " + e.Right.String() + ")"
}

func (b *BlockStatement) String() string {
	if b.Inline {
		return joinNodes(b.Statements, " ")
	}

	return joinNodes(b.Statements, "\n")
}

func (e *ElseExpression) String() string {
	if e.Block == nil {
		return e.TokenLiteral()
	}

	if e.Block.Inline {
		return e.TokenLiteral() + " " + e.Block.String()
	}

	return e.TokenLiteral() + "\n" + e.Block.String()
}

// String renders inline conditionals on one line and block conditionals
// over several lines, closed by 'END IF' whenever the source had one.
func (e *IfExpression) String() string {
	var sb strings.Builder

	sb.WriteString("IF ")
	sb.WriteString(e.Condition.String())
	sb.WriteString(" THEN")

	if e.Consequence != nil {
		writeBlock(&sb, e.Consequence)
	}

	if e.Alternative != nil {
		if e.Consequence != nil && !e.Consequence.Inline {
			sb.WriteString("\n")
		} else {
			sb.WriteString(" ")
		}

		sb.WriteString("ELSE")
		writeBlock(&sb, e.Alternative)
	}

	if e.End != nil {
		sb.WriteString("\n")
		sb.WriteString(e.End.Literal)
	}

	return sb.String()
}

func writeBlock(sb *strings.Builder, block *BlockStatement) {
	if block.Inline {
		sb.WriteString(" ")
	} else {
		sb.WriteString("\n")
	}

	sb.WriteString(block.String())
}

func (e *SubExpression) String() string {
	var sb strings.Builder

	sb.WriteString("SUB ")

	if e.Name != nil {
		sb.WriteString(e.Name.String())
	}

	sb.WriteString("(")
	for i, param := range e.Parameters {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(param.String())
	}
	sb.WriteString(")")

	if e.Body != nil && len(e.Body.Statements) > 0 {
		sb.WriteString("\n")
		sb.WriteString(e.Body.String())
	}

	sb.WriteString("\nEND SUB")

	return sb.String()
}

func (e *CallExpression) String() string {
	name := ""
	if e.Function != nil {
		name = e.Function.String()
	}

	return "CALL " + name + "(" + joinNodes(e.Arguments, ", ") + ")"
}

func (s *PrintStatement) String() string {
	if len(s.Arguments) == 0 {
		return s.TokenLiteral()
	}

	return s.TokenLiteral() + " " + joinNodes(s.Arguments, ", ")
}

func (s *InputStatement) String() string {
	if s.Name == nil {
		return s.TokenLiteral()
	}

	return s.TokenLiteral() + " " + s.Name.String()
}

func (s *GotoStatement) String() string {
	if s.Target == nil {
		return s.TokenLiteral()
	}

	return s.TokenLiteral() + " " + s.Target.String()
}
