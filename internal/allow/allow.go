// Package allow implements `! allow(...)` inline suppression comments: the
// comment applies to the single statement that follows it (the next
// non-comment, non-blank sibling in the AST), not to a fixed number of
// source lines. First-match-wins when more than one allow-comment's scope
// covers a violation.
package allow

import (
	"strings"

	"github.com/fortitude-lint/fortitude/internal/ast"
	"github.com/fortitude-lint/fortitude/internal/catalog"
	"github.com/fortitude-lint/fortitude/internal/rules"
	"github.com/fortitude-lint/fortitude/internal/selector"
)

// Comment is one parsed `allow(...)` comment plus the statement it scopes
// over.
type Comment struct {
	// Node is the comment node itself.
	Node ast.Node

	// Selectors are the parsed rule selectors inside the parens.
	Selectors []selector.Selector

	// RawSelectors are the selector texts as written, for diagnostics.
	RawSelectors []string

	// Scope is the statement node this comment suppresses violations in.
	// Invalid if the comment is the last statement in its block (applies
	// to nothing).
	Scope ast.Node

	// Used is set once this comment suppresses at least one violation.
	Used bool
}

// parseAllowBody matches `allow( ... )` inside a Fortran comment body,
// case-insensitively, tolerating a space before the parenthesis.
func parseAllowBody(commentText string) (body string, ok bool) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(commentText), "!"))
	lower := strings.ToLower(trimmed)
	var prefixLen int
	switch {
	case strings.HasPrefix(lower, "allow("):
		prefixLen = len("allow(")
	case strings.HasPrefix(lower, "allow ("):
		prefixLen = len("allow (")
	default:
		return "", false
	}
	if !strings.HasSuffix(trimmed, ")") {
		return "", false
	}
	return trimmed[prefixLen : len(trimmed)-1], true
}

// Parse finds every `allow(...)` comment in the tree and resolves each
// one's scope to the next non-trivial statement sibling.
func Parse(root ast.Node) []Comment {
	var out []Comment
	for _, n := range ast.NamedDescendants(root) {
		if n.Kind() != "comment" {
			continue
		}
		body, ok := parseAllowBody(n.Text())
		if !ok {
			continue
		}
		rawSelectors := splitSelectors(body)
		c := Comment{Node: n, RawSelectors: rawSelectors}
		for _, raw := range rawSelectors {
			if sel, err := selector.ParseSelector(raw); err == nil {
				c.Selectors = append(c.Selectors, sel)
			}
		}
		if scope, ok := ast.NextNonTrivialSibling(n, "comment"); ok {
			c.Scope = scope
		}
		out = append(out, c)
	}
	return out
}

func splitSelectors(body string) []string {
	parts := strings.Split(body, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// within reports whether offset falls within [start, end) of scope.
func within(scope ast.Node, offset uint) bool {
	if !scope.Valid() {
		return false
	}
	return offset >= scope.StartByte() && offset < scope.EndByte()
}

// matches reports whether any of the comment's selectors cover code.
func (c Comment) matches(code string) bool {
	rule := rules.Get(code)
	if rule == nil {
		return false
	}
	for _, sel := range c.Selectors {
		if sel.Matches(rule.Metadata()) {
			return true
		}
	}
	return false
}

// FilterResult is the outcome of running Filter.
type FilterResult struct {
	Violations []rules.Violation // violations that were not suppressed, plus meta-diagnostics
	Suppressed []rules.Violation
}

// Filter applies allow-comments to violations and synthesizes the five
// meta-diagnostics: invalid-rule-code-or-name, redirected-allow-comment,
// unused-allow-comment, duplicated-allow-comment, and
// disabled-allow-comment. Meta-diagnostics are never themselves
// suppressible.
func Filter(file string, violations []rules.Violation, comments []Comment, table selector.RuleTable) FilterResult {
	result := FilterResult{
		Violations: make([]rules.Violation, 0, len(violations)),
		Suppressed: make([]rules.Violation, 0),
	}

	mutable := make([]Comment, len(comments))
	copy(mutable, comments)

	for _, v := range violations {
		if v.IsMeta {
			result.Violations = append(result.Violations, v)
			continue
		}
		suppressed := false
		for i := range mutable {
			c := &mutable[i]
			if !within(c.Scope, uint(v.Location.Start.Offset)) {
				continue
			}
			if c.matches(v.RuleCode) {
				suppressed = true
				c.Used = true
				break
			}
		}
		if suppressed {
			result.Suppressed = append(result.Suppressed, v)
		} else {
			result.Violations = append(result.Violations, v)
		}
	}

	result.Violations = append(result.Violations, metaDiagnostics(file, mutable, table)...)
	return result
}

func metaDiagnostics(file string, comments []Comment, table selector.RuleTable) []rules.Violation {
	var out []rules.Violation
	seenRawByScope := map[string]map[string]int{}

	for _, c := range comments {
		loc := rules.NewLocationFromNode(file, c.Node)

		for i, raw := range c.RawSelectors {
			scopeKey := ""
			if c.Scope.Valid() {
				scopeKey = c.Scope.String()
			}
			if seenRawByScope[scopeKey] == nil {
				seenRawByScope[scopeKey] = map[string]int{}
			}
			seenRawByScope[scopeKey][strings.ToLower(raw)]++
			if n := seenRawByScope[scopeKey][strings.ToLower(raw)]; n > 1 {
				out = append(out, rules.Violation{
					Location: loc,
					RuleCode: rules.FortitudeMetaPrefix + "002",
					Message:  "`" + raw + "` is duplicated in this allow comment",
					Severity: rules.SeverityWarning,
					IsMeta:   true,
				})
			}

			if i >= len(c.Selectors) {
				out = append(out, rules.Violation{
					Location: loc,
					RuleCode: rules.FortitudeMetaPrefix + "001",
					Message:  "`" + raw + "` is not a known rule code or name",
					Severity: rules.SeverityWarning,
					IsMeta:   true,
				})
				continue
			}

			sel := c.Selectors[i]
			if sel.Kind == selector.KindCode {
				if target, redirected := catalog.Redirects[sel.Value]; redirected {
					out = append(out, rules.Violation{
						Location: loc,
						RuleCode: rules.FortitudeMetaPrefix + "003",
						Message:  "`" + raw + "` is a redirect to " + target,
						Severity: rules.SeverityWarning,
						IsMeta:   true,
					})
				}
				if !table.Enabled(sel.Value) && rules.Get(sel.Value) != nil {
					out = append(out, rules.Violation{
						Location: loc,
						RuleCode: rules.FortitudeMetaPrefix + "004",
						Message:  "`" + raw + "` is disabled by your configuration and cannot be suppressed here",
						Severity: rules.SeverityWarning,
						IsMeta:   true,
					})
				}
			}
		}

		if !c.Used && c.Scope.Valid() {
			out = append(out, rules.Violation{
				Location: loc,
				RuleCode: rules.FortitudeMetaPrefix + "005",
				Message:  "this allow comment has no effect; the code it references did not raise a violation here",
				Severity: rules.SeverityWarning,
				IsMeta:   true,
			})
		}
	}
	return out
}
