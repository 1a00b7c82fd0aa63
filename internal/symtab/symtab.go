// Package symtab maintains a stack of lexical scopes while the checker
// walks a Fortran syntax tree, so that AST rules can resolve identifiers
// without re-scanning enclosing scopes themselves.
package symtab

import (
	"strings"

	"github.com/fortitude-lint/fortitude/internal/ast"
)

// beginScopeKinds are node kinds that open a new lexical scope.
var beginScopeKinds = map[string]struct{}{
	"module":             {},
	"submodule":          {},
	"program":            {},
	"subroutine":         {},
	"function":           {},
	"interface":          {},
	"derived_type_definition": {},
	"block_construct":   {},
}

// endScopeKinds mirror beginScopeKinds; the checker pops on exit from any
// node whose Kind is a begin-scope kind, so this set exists only for
// readability at call sites that want to assert symmetry.
var endScopeKinds = beginScopeKinds

// IsScopeNode reports whether entering n should push a new scope.
func IsScopeNode(n ast.Node) bool {
	_, ok := beginScopeKinds[n.Kind()]
	return ok
}

// AttributeKind enumerates the declaration attributes symtab tracks.
// Unrecognized attributes are preserved in Variable.RawAttributes but
// don't get a typed flag.
type AttributeKind int

const (
	AttrNone AttributeKind = iota
	AttrDimension
	AttrIntentIn
	AttrIntentOut
	AttrIntentInOut
	AttrPointer
	AttrAllocatable
	AttrParameter
	AttrOptional
	AttrSave
	AttrTarget
)

// Variable is one declared entity from a variable_declaration statement.
type Variable struct {
	Name       string
	Type       string // the leading type spec text, e.g. "integer", "real(kind=8)"
	Attributes []AttributeKind
	RawAttributes []string
	Decl       ast.Node // the variable_declaration statement this came from
	NameNode   ast.Node // the specific declarator node for this name
}

// HasAttribute reports whether the variable carries the given attribute.
func (v Variable) HasAttribute(a AttributeKind) bool {
	for _, got := range v.Attributes {
		if got == a {
			return true
		}
	}
	return false
}

// SymbolTable holds the declarations introduced directly within one scope
// (not including enclosing scopes). Lookups are case-insensitive, per
// Fortran's case-insensitive identifier rules.
type SymbolTable struct {
	scope ast.Node
	vars  map[string]Variable
}

// NewSymbolTable scans scope's direct variable_declaration children (not
// descending into nested scopes) and builds a table of declared variables.
func NewSymbolTable(scope ast.Node) *SymbolTable {
	t := &SymbolTable{scope: scope, vars: make(map[string]Variable)}
	for i := range scope.NamedChildCount() {
		child := scope.NamedChild(i)
		if child.Kind() != "variable_declaration" {
			continue
		}
		for _, v := range parseVariableDeclaration(child) {
			t.vars[strings.ToLower(v.Name)] = v
		}
	}
	return t
}

// Get looks up name in this scope only (case-insensitive).
func (t *SymbolTable) Get(name string) (Variable, bool) {
	v, ok := t.vars[strings.ToLower(name)]
	return v, ok
}

// Variables returns all variables declared directly in this scope.
func (t *SymbolTable) Variables() []Variable {
	out := make([]Variable, 0, len(t.vars))
	for _, v := range t.vars {
		out = append(out, v)
	}
	return out
}

// Scope returns the AST node this table was built from.
func (t *SymbolTable) Scope() ast.Node { return t.scope }

// SymbolTables is a stack of scopes, innermost last. Lookups check the
// innermost scope first, so an inner declaration shadows an outer one with
// the same name.
type SymbolTables struct {
	stack []*SymbolTable
}

// NewSymbolTables returns an empty scope stack.
func NewSymbolTables() *SymbolTables {
	return &SymbolTables{}
}

// Push enters a new scope, building its symbol table from scope's direct
// declarations.
func (s *SymbolTables) Push(scope ast.Node) *SymbolTable {
	t := NewSymbolTable(scope)
	s.stack = append(s.stack, t)
	return t
}

// Pop exits the innermost scope.
func (s *SymbolTables) Pop() {
	if len(s.stack) == 0 {
		return
	}
	s.stack = s.stack[:len(s.stack)-1]
}

// Depth returns the number of scopes currently on the stack.
func (s *SymbolTables) Depth() int { return len(s.stack) }

// Lookup finds name starting from the innermost scope outward, so inner
// declarations shadow outer ones.
func (s *SymbolTables) Lookup(name string) (Variable, bool) {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if v, ok := s.stack[i].Get(name); ok {
			return v, true
		}
	}
	return Variable{}, false
}

// Current returns the innermost scope's table, or nil if the stack is empty.
func (s *SymbolTables) Current() *SymbolTable {
	if len(s.stack) == 0 {
		return nil
	}
	return s.stack[len(s.stack)-1]
}
