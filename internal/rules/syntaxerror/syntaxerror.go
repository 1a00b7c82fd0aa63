// Package syntaxerror reports parser-level syntax errors: ERROR nodes and
// synthesized "missing" nodes the parser inserted to recover from one.
package syntaxerror

import (
	"github.com/fortitude-lint/fortitude/internal/rules"
)

// Rule implements the syntax-error check.
type Rule struct{}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.Metadata {
	return rules.Metadata{
		Category:    "error",
		Prefix:      "E",
		Suffix:      "001",
		Name:        "syntax-error",
		Description: "Checks for syntax errors reported by the Fortran parser",
		Group:       rules.GroupStable,
		Fix:         rules.FixNever,
		Entrypoint:  rules.EntrypointAST,
		// Empty ASTKinds: every node is visited, since a "missing" node
		// carries the kind it was expected to have, not a dedicated one.
	}
}

// Check flags the node if the parser marked it as an ERROR or a
// recovery-synthesized "missing" node.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	n := input.Node
	if !n.IsError() && !n.IsMissing() {
		return nil
	}

	loc := rules.NewLocationFromNode(input.File, n)
	return []rules.Violation{
		rules.NewViolation(loc, r.Metadata().Code(), "syntax error", rules.SeverityError),
	}
}

// New creates a new syntax-error rule instance.
func New() *Rule {
	return &Rule{}
}

func init() {
	rules.Register(New())
}
