// Package trailingwhitespace flags lines ending in spaces or tabs.
package trailingwhitespace

import (
	"strings"

	"github.com/fortitude-lint/fortitude/internal/rules"
	"github.com/fortitude-lint/fortitude/internal/sourcemap"
)

// Rule implements the trailing-whitespace check.
type Rule struct{}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.Metadata {
	return rules.Metadata{
		Category:    "style",
		Prefix:      "S",
		Suffix:      "102",
		Name:        "trailing-whitespace",
		Description: "Checks for trailing whitespace at the end of a line",
		Group:       rules.GroupStable,
		Fix:         rules.FixAlways,
		Entrypoint:  rules.EntrypointText,
	}
}

// Check scans every line for trailing spaces or tabs.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	sm := sourcemap.New(input.Source)
	var violations []rules.Violation

	for i, line := range sm.Lines() {
		trimmed := strings.TrimRight(line, " \t")
		if len(trimmed) == len(line) {
			continue
		}

		lineOffset := sm.LineOffset(i)
		start := rules.Position{Line: i, Column: len(trimmed), Offset: lineOffset + len(trimmed)}
		end := rules.Position{Line: i, Column: len(line), Offset: lineOffset + len(line)}
		loc := rules.NewRangeLocation(input.File, start, end)

		v := rules.NewViolation(loc, r.Metadata().Code(), "trailing whitespace", rules.SeverityStyle).
			WithSuggestedFix(&rules.SuggestedFix{
				Description: "remove trailing whitespace",
				Safety:      rules.FixSafe,
				Edits: []rules.TextEdit{{
					Location: loc,
					NewText:  "",
				}},
			})
		violations = append(violations, v)
	}

	return violations
}

// New creates a new trailing-whitespace rule instance.
func New() *Rule {
	return &Rule{}
}

func init() {
	rules.Register(New())
}
