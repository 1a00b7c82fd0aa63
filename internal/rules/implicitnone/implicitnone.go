// Package implicitnone flags modules, submodules, programs, functions and
// subroutines that don't declare `implicit none`, and offers a safe fix
// that inserts it right after the construct's header.
package implicitnone

import (
	"github.com/fortitude-lint/fortitude/internal/ast"
	"github.com/fortitude-lint/fortitude/internal/rules"
)

// Rule implements the implicit-none check.
type Rule struct{}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.Metadata {
	return rules.Metadata{
		Category:    "style",
		Prefix:      "S",
		Suffix:      "201",
		Name:        "implicit-none",
		Description: "Checks that implicit none is set",
		Group:       rules.GroupStable,
		Fix:         rules.FixAlways,
		Entrypoint:  rules.EntrypointAST,
		ASTKinds:    []string{"module", "submodule", "program", "subroutine", "function"},
	}
}

// Check looks for a direct implicit_statement child with a "none" form.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	n := input.Node

	if hasImplicitNone(n) {
		return nil
	}

	loc := rules.NewLocationFromNode(input.File, n)
	insertOffset := insertionOffset(n)
	fixLoc := rules.NewRangeLocation(input.File, rules.Position{Offset: insertOffset}, rules.Position{Offset: insertOffset})

	v := rules.NewViolation(loc, r.Metadata().Code(), n.Kind()+" missing 'implicit none'", rules.SeverityWarning).
		WithSuggestedFix(&rules.SuggestedFix{
			Description: "insert 'implicit none'",
			Safety:      rules.FixSafe,
			Edits: []rules.TextEdit{{
				Location: fixLoc,
				NewText:  "\n  implicit none",
			}},
		})
	return []rules.Violation{v}
}

// hasImplicitNone reports whether n has a direct implicit_statement child
// whose form is "none" (as opposed to "implicit integer(a-z)" etc).
func hasImplicitNone(n ast.Node) bool {
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child.Kind() != "implicit_statement" {
			continue
		}
		if implicitStatementIsNone(child) {
			return true
		}
	}
	return false
}

func implicitStatementIsNone(stmt ast.Node) bool {
	if stmt.NamedChildCount() == 0 {
		return false
	}
	// The "none" keyword is the statement's form child, immediately
	// following the "implicit" keyword itself.
	for i := range stmt.NamedChildCount() {
		if stmt.NamedChild(i).Kind() == "none" {
			return true
		}
	}
	return false
}

// insertionOffset picks where "implicit none" should be inserted: right
// after the construct's header (its first named child), or at the start
// of the construct if it has no children at all.
func insertionOffset(n ast.Node) int {
	if n.NamedChildCount() > 0 {
		return int(n.NamedChild(0).EndByte())
	}
	return int(n.StartByte())
}

// New creates a new implicit-none rule instance.
func New() *Rule {
	return &Rule{}
}

func init() {
	rules.Register(New())
}
