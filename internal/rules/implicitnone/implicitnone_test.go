package implicitnone

import (
	"testing"

	"github.com/fortitude-lint/fortitude/internal/testutil"
)

func TestRule_Metadata(t *testing.T) {
	meta := New().Metadata()
	if meta.Code() != "S201" {
		t.Errorf("Code() = %q, want %q", meta.Code(), "S201")
	}
}

func TestRule_Check(t *testing.T) {
	r := New()

	t.Run("has implicit none", func(t *testing.T) {
		content := `module m
  implicit none
end module
`
		violations := testutil.CheckASTRule(t, r, "t.f90", content, nil)
		testutil.AssertNoViolations(t, violations)
	})

	t.Run("missing implicit none", func(t *testing.T) {
		content := `program p
  integer :: x
end program
`
		violations := testutil.CheckASTRule(t, r, "t.f90", content, nil)
		testutil.AssertViolationCount(t, violations, 1)
		if violations[0].SuggestedFix == nil {
			t.Fatal("expected a suggested fix")
		}
	})
}
