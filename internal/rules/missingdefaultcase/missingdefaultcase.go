// Package missingdefaultcase flags select-case constructs with no
// `case default` arm, a common source of silently-unhandled values since
// Fortran has no enum type a compiler could check exhaustively.
package missingdefaultcase

import (
	"github.com/fortitude-lint/fortitude/internal/rules"
)

// Rule implements the missing-default-case check.
type Rule struct{}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.Metadata {
	return rules.Metadata{
		Category:    "correctness",
		Prefix:      "C",
		Suffix:      "001",
		Name:        "missing-default-case",
		Description: "Checks that select case statements have a case default",
		Group:       rules.GroupStable,
		Fix:         rules.FixNever,
		Entrypoint:  rules.EntrypointAST,
		ASTKinds:    []string{"select_case_statement"},
	}
}

// Check looks for a case_statement child containing a default arm.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	n := input.Node

	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child.Kind() != "case_statement" {
			continue
		}
		for j := range child.NamedChildCount() {
			if child.NamedChild(j).Kind() == "default" {
				return nil
			}
		}
	}

	loc := rules.NewLocationFromNode(input.File, n)
	return []rules.Violation{
		rules.NewViolation(loc, r.Metadata().Code(), "missing default case may not handle all values", rules.SeverityWarning),
	}
}

// New creates a new missing-default-case rule instance.
func New() *Rule {
	return &Rule{}
}

func init() {
	rules.Register(New())
}
