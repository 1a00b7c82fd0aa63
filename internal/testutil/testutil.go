// Package testutil provides test helpers for the Fortran linter.
package testutil

import (
	"testing"

	"github.com/fortitude-lint/fortitude/internal/ast"
	"github.com/fortitude-lint/fortitude/internal/fortran"
	"github.com/fortitude-lint/fortitude/internal/rules"
	"github.com/fortitude-lint/fortitude/internal/symtab"
)

// ParseFortran parses Fortran source for a test, failing it on error. The
// caller is responsible for closing the returned tree.
func ParseFortran(tb testing.TB, content string) *fortran.Tree {
	tb.Helper()

	tree, err := fortran.Parse([]byte(content))
	if err != nil {
		tb.Fatalf("failed to parse Fortran source: %v", err)
	}
	return tree
}

// MakeLintInput builds a LintInput for a path or text rule: no AST
// dispatch fields are populated.
func MakeLintInput(file, content string, config any) rules.LintInput {
	return rules.LintInput{
		File:   file,
		Source: []byte(content),
		Config: config,
	}
}

// ASTRuleCase is one matched node, ready to dispatch an AST rule against,
// together with the symbol table in scope at that node -- mirroring
// exactly what internal/check's walk does for a real file.
type ASTRuleCase struct {
	Node    ast.Node
	Symbols *symtab.SymbolTables
}

// FindASTNodes parses content and returns every node of the given kind,
// in document order, each paired with the symbol-table stack that would
// be in scope at that point during a real walk.
func FindASTNodes(tb testing.TB, content, kind string) (*fortran.Tree, []ASTRuleCase) {
	tb.Helper()

	tree := ParseFortran(tb, content)
	st := symtab.NewSymbolTables()
	var cases []ASTRuleCase

	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		if !n.Valid() {
			return
		}
		pushed := false
		if symtab.IsScopeNode(n) {
			st.Push(n)
			pushed = true
		}
		if n.Kind() == kind {
			cases = append(cases, ASTRuleCase{Node: n, Symbols: st})
		}
		for i := range n.NamedChildCount() {
			visit(n.NamedChild(i))
		}
		if pushed {
			st.Pop()
		}
	}
	visit(tree.RootNode())

	return tree, cases
}

// CheckASTRule parses content, finds every node matching any of the
// rule's declared ASTKinds, and runs the rule against each match in
// document order, concatenating violations. Closes the tree before
// returning.
func CheckASTRule(tb testing.TB, rule rules.Rule, file, content string, config any) []rules.Violation {
	tb.Helper()

	meta := rule.Metadata()
	if len(meta.ASTKinds) == 0 {
		tb.Fatalf("CheckASTRule requires a rule with at least one ASTKind; %s has none", meta.Code())
	}

	tree := ParseFortran(tb, content)
	defer tree.Close()

	st := symtab.NewSymbolTables()
	kinds := make(map[string]struct{}, len(meta.ASTKinds))
	for _, k := range meta.ASTKinds {
		kinds[k] = struct{}{}
	}

	var violations []rules.Violation
	var visit func(n ast.Node)
	visit = func(n ast.Node) {
		if !n.Valid() {
			return
		}
		pushed := false
		if symtab.IsScopeNode(n) {
			st.Push(n)
			pushed = true
		}
		if _, ok := kinds[n.Kind()]; ok {
			violations = append(violations, rule.Check(rules.LintInput{
				File:    file,
				Source:  []byte(content),
				Tree:    tree,
				Node:    n,
				Symbols: st,
				Config:  config,
			})...)
		}
		for i := range n.NamedChildCount() {
			visit(n.NamedChild(i))
		}
		if pushed {
			st.Pop()
		}
	}
	visit(tree.RootNode())

	return violations
}

// AssertNoViolations fails the test if there are any violations.
func AssertNoViolations(tb testing.TB, violations []rules.Violation) {
	tb.Helper()
	if len(violations) > 0 {
		tb.Errorf("expected no violations, got %d:", len(violations))
		for _, v := range violations {
			tb.Logf("  - %s at line %d: %s", v.RuleCode, v.Line(), v.Message)
		}
	}
}

// AssertViolationCount fails if the violation count doesn't match.
func AssertViolationCount(tb testing.TB, violations []rules.Violation, want int) {
	tb.Helper()
	if len(violations) != want {
		tb.Errorf("got %d violations, want %d", len(violations), want)
		for _, v := range violations {
			tb.Logf("  - %s at line %d: %s", v.RuleCode, v.Line(), v.Message)
		}
	}
}
