package syntaxerror

import (
	"testing"

	"github.com/fortitude-lint/fortitude/internal/ast"
	"github.com/fortitude-lint/fortitude/internal/rules"
)

func TestRule_Metadata(t *testing.T) {
	meta := New().Metadata()
	if meta.Code() != "E001" {
		t.Errorf("Code() = %q, want %q", meta.Code(), "E001")
	}
	if len(meta.ASTKinds) != 0 {
		t.Errorf("ASTKinds should be empty (every node visited), got %v", meta.ASTKinds)
	}
}

func TestRule_Check(t *testing.T) {
	r := New()

	t.Run("valid node", func(t *testing.T) {
		var n ast.Node
		violations := r.Check(rules.LintInput{File: "t.f90", Node: n})
		if len(violations) != 0 {
			t.Errorf("got %d violations for a zero node, want 0", len(violations))
		}
	})
}
