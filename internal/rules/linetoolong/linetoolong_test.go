package linetoolong

import (
	"strings"
	"testing"

	"github.com/fortitude-lint/fortitude/internal/testutil"
)

func TestRule_Metadata(t *testing.T) {
	meta := New().Metadata()
	if meta.Code() != "S101" {
		t.Errorf("Code() = %q, want %q", meta.Code(), "S101")
	}
}

func TestRule_Check(t *testing.T) {
	r := New()

	t.Run("short line", func(t *testing.T) {
		input := testutil.MakeLintInput("t.f90", "program p\nend program\n", nil)
		testutil.AssertNoViolations(t, r.Check(input))
	})

	t.Run("over default max", func(t *testing.T) {
		long := strings.Repeat("x", 140)
		content := "a = " + long + "\n"
		input := testutil.MakeLintInput("t.f90", content, nil)
		testutil.AssertViolationCount(t, r.Check(input), 1)
	})

	t.Run("configured max length", func(t *testing.T) {
		content := strings.Repeat("x", 20) + "\n"
		input := testutil.MakeLintInput("t.f90", content, map[string]any{"max-length": 10})
		testutil.AssertViolationCount(t, r.Check(input), 1)
	})

	t.Run("long line ending in comment is allowed", func(t *testing.T) {
		content := strings.Repeat("x", 10) + " ! " + strings.Repeat("y", 140) + "\n"
		input := testutil.MakeLintInput("t.f90", content, map[string]any{"max-length": 10})
		testutil.AssertNoViolations(t, r.Check(input))
	})

	t.Run("disabled when max length is zero", func(t *testing.T) {
		content := strings.Repeat("x", 200) + "\n"
		input := testutil.MakeLintInput("t.f90", content, map[string]any{"max-length": 0})
		testutil.AssertNoViolations(t, r.Check(input))
	})
}
