package basic

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"

	"github.com/pacer/gobasic/internal/basic/ast"
	"github.com/pacer/gobasic/internal/basic/evaluator"
	"github.com/pacer/gobasic/internal/basic/lexer"
)

var (
	ErrNoIdentifier = errors.New("no identifier under cursor")
	ErrNoDefinition = errors.New("definition not found")
)

// Hover describes the token under position. When the statement on that line
// is a constant expression free of diagnostics, its value is shown as well.
func Hover(file *FileAnalysis, position lexer.Position) (string, lexer.Range) {
	tok, ok := file.Index.At(position)
	if !ok {
		slog.Debug("no token at position", slog.String("position", position.String()))
		return "", lexer.EmptyRange()
	}

	var sb strings.Builder

	switch {
	case tok.ID.IsKeyword():
		fmt.Fprintf(&sb, "keyword `%s`", tok.Literal)
	case tok.ID.IsOperator():
		fmt.Fprintf(&sb, "operator `%s`", tok.Literal)
	default:
		fmt.Fprintf(&sb, "%s `%s`", tok.ID, tok.Literal)
	}

	if tok.ID == lexer.Ident {
		if definition := findDefinition(file.Program, tok); definition != nil {
			start := definition.Token.Range.Start
			fmt.Fprintf(&sb, "\n\ndefined at line %d", start.Line+1)
		}
	}

	if result, ok := constantValueOnLine(file, position.Line); ok {
		fmt.Fprintf(&sb, "\n\nvalue: %s", result)
	}

	return sb.String(), tok.Range
}

// constantValueOnLine evaluates the single line statement found on line.
func constantValueOnLine(file *FileAnalysis, line int) (string, bool) {
	for _, err := range file.Errs {
		reach := err.GetRange()
		if reach.Start.Line <= line && line <= reach.End.Line {
			return "", false
		}
	}

	var statement ast.Node

	ast.Inspect(file.Program, func(node ast.Node) bool {
		if statement != nil {
			return false
		}

		stmt, ok := node.(*ast.ExpressionStatement)
		if !ok {
			return true
		}

		reach := stmt.Range()
		if reach.Start.Line == line && reach.End.Line == line {
			statement = stmt
			return false
		}

		return reach.Start.Line <= line && line <= reach.End.Line
	})

	if statement == nil {
		return "", false
	}

	result, err := evaluator.New().Eval(statement)
	if err != nil || result == nil {
		return "", false
	}

	return result.Inspect(), true
}

// GoToDefinition returns the range of the LET, SUB or parameter that binds
// the identifier under position.
func GoToDefinition(file *FileAnalysis, position lexer.Position) (lexer.Range, error) {
	tok, ok := file.Index.At(position)
	if !ok || tok.ID != lexer.Ident {
		return lexer.EmptyRange(), ErrNoIdentifier
	}

	definition := findDefinition(file.Program, tok)
	if definition == nil {
		return lexer.EmptyRange(), fmt.Errorf("%w for '%s'", ErrNoDefinition, tok.Literal)
	}

	return definition.Token.Range, nil
}

// findDefinition resolves the identifier token 'target' against the blocks
// enclosing it. A name never bound on the way falls back to the first SUB or
// LET with that name anywhere in the program, so a CALL may precede its SUB.
func findDefinition(program *ast.Program, target lexer.Token) *ast.Identifier {
	r := &resolver{target: target.Range}
	r.push()
	r.visit(program)

	if r.found != nil {
		return r.found
	}

	var fallback *ast.Identifier

	ast.Inspect(program, func(node ast.Node) bool {
		if fallback != nil {
			return false
		}

		switch n := node.(type) {
		case *ast.SubExpression:
			if n.Name != nil && n.Name.Value == target.Literal {
				fallback = n.Name
			}
		case *ast.LetStatement:
			if n.Name != nil && n.Name.Value == target.Literal {
				fallback = n.Name
			}
		}

		return true
	})

	return fallback
}

// resolver mirrors the block structure the parser uses for its scopes.
type resolver struct {
	target lexer.Range
	frames []map[string]*ast.Identifier
	found  *ast.Identifier
	done   bool
}

func (r *resolver) push() {
	r.frames = append(r.frames, make(map[string]*ast.Identifier))
}

func (r *resolver) pop() {
	r.frames = r.frames[:len(r.frames)-1]
}

// define keeps the first binding of a name within a frame.
func (r *resolver) define(name *ast.Identifier) {
	frame := r.frames[len(r.frames)-1]
	if _, exists := frame[name.Value]; !exists {
		frame[name.Value] = name
	}
}

func (r *resolver) lookup(name string) *ast.Identifier {
	for i := len(r.frames) - 1; i >= 0; i-- {
		if binding, ok := r.frames[i][name]; ok {
			return binding
		}
	}

	return nil
}

// resolveBinding handles a cursor sitting on a binding occurrence: an
// earlier binding wins, otherwise the name defines itself.
func (r *resolver) resolveBinding(name *ast.Identifier) {
	if name.Token.Range != r.target {
		return
	}

	r.found = r.lookup(name.Value)
	if r.found == nil {
		r.found = name
	}

	r.done = true
}

func (r *resolver) visit(node ast.Node) {
	if r.done || node == nil {
		return
	}

	switch n := node.(type) {
	case *ast.Identifier:
		if n.Token.Range == r.target {
			r.found = r.lookup(n.Value)
			r.done = true
		}
		return

	case *ast.LetStatement:
		r.visit(n.Value)
		if n.Name != nil && !r.done {
			r.resolveBinding(n.Name)
			r.define(n.Name)
		}
		return

	case *ast.SubExpression:
		if n.Name != nil {
			r.resolveBinding(n.Name)
			r.define(n.Name)
		}

		r.push()
		defer r.pop()

		for _, param := range n.Parameters {
			if r.done {
				return
			}
			r.resolveBinding(param)
			r.define(param)
		}

		if n.Body != nil {
			r.visit(n.Body)
		}
		return

	case *ast.BlockStatement:
		r.push()
		defer r.pop()

		for _, stmt := range n.Statements {
			r.visit(stmt)
		}
		return
	}

	for _, child := range ast.Children(node) {
		r.visit(child)
	}
}

// FoldingRange returns the IF and SUB constructs spanning more than one line,
// outer constructs first.
func FoldingRange(program *ast.Program) []ast.Node {
	foldings := make([]ast.Node, 0, 10)
	queue := make([]ast.Node, 0, 10)

	queue = append(queue, program)
	index := 0
	counter := 0

	for {
		if counter++; counter > 1_000_000 {
			log.Printf("folding queue grew past %d nodes\n", len(queue))
			panic("infinite loop while computing 'FoldingRange()'")
		}

		if index >= len(queue) { // index out of bound
			break
		}

		node := queue[index]
		index++

		switch node.(type) {
		case *ast.IfExpression, *ast.SubExpression:
			reach := node.Range()
			if reach.Start.Line < reach.End.Line {
				foldings = append(foldings, node)
			}

		default: // do nothing
		}

		queue = append(queue, ast.Children(node)...)
	}

	return foldings
}
