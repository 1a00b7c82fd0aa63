package allow

import (
	"testing"

	"github.com/fortitude-lint/fortitude/internal/rules"
	_ "github.com/fortitude-lint/fortitude/internal/rules/all"
	"github.com/fortitude-lint/fortitude/internal/selector"
	"github.com/fortitude-lint/fortitude/internal/testutil"
)

func allRules(t *testing.T) selector.RuleTable {
	t.Helper()
	table, _ := selector.Resolve(selector.Options{Select: []string{"ALL"}})
	return table
}

func TestParseFindsCommentAndScope(t *testing.T) {
	content := "module m\n" +
		"  ! allow(S201)\n" +
		"  subroutine foo()\n" +
		"  end subroutine\n" +
		"end module\n"

	tree := testutil.ParseFortran(t, content)
	defer tree.Close()

	comments := Parse(tree.RootNode())
	if len(comments) != 1 {
		t.Fatalf("got %d comments, want 1", len(comments))
	}
	c := comments[0]
	if len(c.RawSelectors) != 1 || c.RawSelectors[0] != "S201" {
		t.Fatalf("RawSelectors = %v, want [S201]", c.RawSelectors)
	}
	if len(c.Selectors) != 1 || c.Selectors[0].Value != "S201" {
		t.Fatalf("Selectors = %v, want [S201]", c.Selectors)
	}
	if !c.Scope.Valid() || c.Scope.Kind() != "subroutine" {
		t.Fatalf("Scope = %v, want a subroutine node", c.Scope)
	}
}

func TestFilterSuppressesOnlyWithinScope(t *testing.T) {
	content := "module m\n" +
		"  ! allow(S201)\n" +
		"  subroutine foo()\n" +
		"  end subroutine\n" +
		"end module\n"

	tree := testutil.ParseFortran(t, content)
	defer tree.Close()

	comments := Parse(tree.RootNode())
	violations := testutil.CheckASTRule(t, mustRule(t, "S201"), "t.f90", content, nil)
	if len(violations) != 2 {
		t.Fatalf("got %d violations, want 2 (module + subroutine both missing implicit none)", len(violations))
	}

	result := Filter("t.f90", violations, comments, allRules(t))
	if len(result.Suppressed) != 1 {
		t.Fatalf("got %d suppressed, want 1", len(result.Suppressed))
	}
	if result.Suppressed[0].Location.Start.Offset < int(comments[0].Scope.StartByte()) {
		t.Fatalf("suppressed the wrong violation: %+v", result.Suppressed[0])
	}

	// The module-level violation, outside the comment's scope, survives,
	// and the comment was used so it raises no unused-allow-comment meta.
	for _, v := range result.Violations {
		if v.RuleCode == rules.FortitudeMetaPrefix+"005" {
			t.Errorf("unexpected unused-allow-comment meta diagnostic: %+v", v)
		}
	}
}

func TestFilterUnusedAllowComment(t *testing.T) {
	content := "module m\n" +
		"  ! allow(S201)\n" +
		"  subroutine foo()\n" +
		"    implicit none\n" +
		"  end subroutine\n" +
		"end module\n"

	tree := testutil.ParseFortran(t, content)
	defer tree.Close()

	comments := Parse(tree.RootNode())
	violations := testutil.CheckASTRule(t, mustRule(t, "S201"), "t.f90", content, nil)

	result := Filter("t.f90", violations, comments, allRules(t))
	found := false
	for _, v := range result.Violations {
		if v.RuleCode == rules.FortitudeMetaPrefix+"005" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an unused-allow-comment meta diagnostic")
	}
}

func TestFilterInvalidRuleCode(t *testing.T) {
	// A raw selector with no parsed counterpart in Selectors (the Comment is
	// built by hand here, so Selectors stays empty) leaves RawSelectors
	// longer than Selectors; metaDiagnostics flags the gap.
	content := "module m\n" +
		"  subroutine foo()\n" +
		"  end subroutine\n" +
		"end module\n"

	tree := testutil.ParseFortran(t, content)
	defer tree.Close()

	scope := tree.RootNode().NamedChild(0)
	comments := []Comment{{
		Node:         scope,
		RawSelectors: []string{"NOTACODE"},
		Scope:        scope,
	}}

	result := Filter("t.f90", nil, comments, allRules(t))
	found := false
	for _, v := range result.Violations {
		if v.RuleCode == rules.FortitudeMetaPrefix+"001" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected an invalid-rule-code-or-name meta diagnostic")
	}
}

func TestFilterDuplicatedSelector(t *testing.T) {
	content := "module m\n" +
		"  ! allow(S201, S201)\n" +
		"  subroutine foo()\n" +
		"  end subroutine\n" +
		"end module\n"

	tree := testutil.ParseFortran(t, content)
	defer tree.Close()

	comments := Parse(tree.RootNode())
	result := Filter("t.f90", nil, comments, allRules(t))
	found := false
	for _, v := range result.Violations {
		if v.RuleCode == rules.FortitudeMetaPrefix+"002" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a duplicated-allow-comment meta diagnostic")
	}
}

func TestFilterRedirectedSelector(t *testing.T) {
	content := "module m\n" +
		"  ! allow(T003)\n" +
		"  subroutine foo()\n" +
		"  end subroutine\n" +
		"end module\n"

	tree := testutil.ParseFortran(t, content)
	defer tree.Close()

	comments := Parse(tree.RootNode())
	result := Filter("t.f90", nil, comments, allRules(t))
	found := false
	for _, v := range result.Violations {
		if v.RuleCode == rules.FortitudeMetaPrefix+"003" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a redirected-allow-comment meta diagnostic for T003")
	}
}

func TestFilterDisabledSelector(t *testing.T) {
	content := "module m\n" +
		"  ! allow(S201)\n" +
		"  subroutine foo()\n" +
		"  end subroutine\n" +
		"end module\n"

	tree := testutil.ParseFortran(t, content)
	defer tree.Close()

	comments := Parse(tree.RootNode())
	table, _ := selector.Resolve(selector.Options{Select: []string{"C061"}})

	result := Filter("t.f90", nil, comments, table)
	found := false
	for _, v := range result.Violations {
		if v.RuleCode == rules.FortitudeMetaPrefix+"004" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a disabled-allow-comment meta diagnostic")
	}
}

func TestFilterMetaViolationsNeverSuppressed(t *testing.T) {
	content := "module m\n" +
		"  ! allow(ALL)\n" +
		"  subroutine foo()\n" +
		"  end subroutine\n" +
		"end module\n"

	tree := testutil.ParseFortran(t, content)
	defer tree.Close()

	comments := Parse(tree.RootNode())
	meta := rules.Violation{
		Location: rules.NewLocationFromNode("t.f90", comments[0].Scope),
		RuleCode: rules.FortitudeMetaPrefix + "001",
		IsMeta:   true,
	}

	result := Filter("t.f90", []rules.Violation{meta}, comments, allRules(t))
	if len(result.Suppressed) != 0 {
		t.Fatalf("meta violations must never be suppressed, got %d suppressed", len(result.Suppressed))
	}
	found := false
	for _, v := range result.Violations {
		if v.RuleCode == rules.FortitudeMetaPrefix+"001" {
			found = true
		}
	}
	if !found {
		t.Fatal("meta violation should pass through untouched")
	}
}

func mustRule(t *testing.T, code string) rules.Rule {
	t.Helper()
	r := rules.Get(code)
	if r == nil {
		t.Fatalf("rule %s not registered", code)
	}
	return r
}
