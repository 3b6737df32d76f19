package ast

// Inspect traverses the tree rooted at node in depth-first order.
// It calls fn(node) first; children are visited only when fn returns true.
func Inspect(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	for _, child := range Children(node) {
		Inspect(child, fn)
	}
}

// Children returns the direct children of node in source order.
func Children(node Node) []Node {
	var children []Node

	add := func(nodes ...Node) {
		for _, n := range nodes {
			if n != nil {
				children = append(children, n)
			}
		}
	}

	switch n := node.(type) {
	case *Program:
		add(n.Statements...)
	case *LetStatement:
		if n.Name != nil {
			add(n.Name)
		}
		add(n.Value)
	case *ExpressionStatement:
		add(n.Expression)
	case *PrefixExpression:
		add(n.Right)
	case *InfixExpression:
		add(n.Left, n.Right)
	case *BlockStatement:
		add(n.Statements...)
	case *ElseExpression:
		if n.Block != nil {
			add(n.Block)
		}
	case *IfExpression:
		add(n.Condition)
		if n.Consequence != nil {
			add(n.Consequence)
		}
		if n.Alternative != nil {
			add(n.Alternative)
		}
	case *SubExpression:
		if n.Name != nil {
			add(n.Name)
		}
		for _, param := range n.Parameters {
			add(param)
		}
		if n.Body != nil {
			add(n.Body)
		}
	case *CallExpression:
		if n.Function != nil {
			add(n.Function)
		}
		add(n.Arguments...)
	case *PrintStatement:
		add(n.Arguments...)
	case *InputStatement:
		if n.Name != nil {
			add(n.Name)
		}
	case *GotoStatement:
		add(n.Target)
	case *Identifier, *BooleanLiteral, *IntegerLiteral, *StringLiteral:
	}

	return children
}
