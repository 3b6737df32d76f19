package parser

import (
	"fmt"
	"sort"

	"github.com/pacer/gobasic/internal/basic/ast"
)

// Scope is a parse time frame mapping names to the node that bound them.
// It is only used to flag duplicate bindings; evaluation never reads it.
type Scope struct {
	bindings map[string]ast.Node
	parent   *Scope
}

func NewScope(parent *Scope) *Scope {
	return &Scope{
		bindings: make(map[string]ast.Node),
		parent:   parent,
	}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// Define binds name in this frame. When the name is already bound here,
// the earlier binding is kept and returned.
func (s *Scope) Define(name string, binding ast.Node) ast.Node {
	if previous, ok := s.bindings[name]; ok {
		return previous
	}

	s.bindings[name] = binding

	return nil
}

// Lookup searches this frame, then the enclosing ones.
func (s *Scope) Lookup(name string) (ast.Node, bool) {
	for scope := s; scope != nil; scope = scope.parent {
		if binding, ok := scope.bindings[name]; ok {
			return binding, true
		}
	}

	return nil, false
}

// Names lists the names bound in this frame, sorted.
func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.bindings))
	for name := range s.bindings {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (p *Parser) pushScope() {
	p.scope = NewScope(p.scope)
}

func (p *Parser) popScope() {
	if p.scope.parent == nil {
		panic("cannot pop the root scope")
	}

	p.scope = p.scope.parent
}

func (p *Parser) define(name *ast.Identifier, binding ast.Node) {
	if previous := p.scope.Define(name.Value, binding); previous == nil {
		return
	}

	err := fmt.Errorf("'%s' already defined in this block", name.Value)
	p.warnings = append(p.warnings, NewParseError(&name.Token, err))
}
