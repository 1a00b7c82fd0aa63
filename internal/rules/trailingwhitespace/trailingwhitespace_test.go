package trailingwhitespace

import (
	"testing"

	"github.com/fortitude-lint/fortitude/internal/testutil"
)

func TestRule_Metadata(t *testing.T) {
	meta := New().Metadata()
	if meta.Code() != "S102" {
		t.Errorf("Code() = %q, want %q", meta.Code(), "S102")
	}
}

func TestRule_Check(t *testing.T) {
	r := New()

	t.Run("no trailing whitespace", func(t *testing.T) {
		input := testutil.MakeLintInput("t.f90", "program p\nend program\n", nil)
		testutil.AssertNoViolations(t, r.Check(input))
	})

	t.Run("trailing spaces", func(t *testing.T) {
		input := testutil.MakeLintInput("t.f90", "program p   \nend program\n", nil)
		violations := r.Check(input)
		testutil.AssertViolationCount(t, violations, 1)
		if violations[0].SuggestedFix == nil {
			t.Fatal("expected a suggested fix")
		}
		if violations[0].SuggestedFix.Edits[0].NewText != "" {
			t.Errorf("fix should delete the trailing whitespace, got %q", violations[0].SuggestedFix.Edits[0].NewText)
		}
	})

	t.Run("trailing tabs", func(t *testing.T) {
		input := testutil.MakeLintInput("t.f90", "program p\t\t\nend program\n", nil)
		testutil.AssertViolationCount(t, r.Check(input), 1)
	})
}
