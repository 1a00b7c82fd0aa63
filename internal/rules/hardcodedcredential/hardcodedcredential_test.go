package hardcodedcredential

import (
	"testing"

	"github.com/fortitude-lint/fortitude/internal/testutil"
)

func TestRule_Metadata(t *testing.T) {
	meta := New().Metadata()
	if meta.Code() != "B001" {
		t.Errorf("Code() = %q, want %q", meta.Code(), "B001")
	}
}

func TestRule_Check(t *testing.T) {
	r := New()

	t.Run("no secret", func(t *testing.T) {
		input := testutil.MakeLintInput("t.f90", "program p\n  integer :: x = 1\nend program\n", nil)
		testutil.AssertNoViolations(t, r.Check(input))
	})

	t.Run("empty source", func(t *testing.T) {
		input := testutil.MakeLintInput("t.f90", "", nil)
		testutil.AssertNoViolations(t, r.Check(input))
	})
}

func TestRedact(t *testing.T) {
	if redact("short") != "***" {
		t.Errorf("redact(short) = %q, want ***", redact("short"))
	}
	got := redact("abcdefghijklmnop")
	if got != "abcd...mnop" {
		t.Errorf("redact(long) = %q, want abcd...mnop", got)
	}
}
