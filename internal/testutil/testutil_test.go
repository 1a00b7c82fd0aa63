package testutil

import "testing"

func TestParseFortran(t *testing.T) {
	tree := ParseFortran(t, "program p\nend program\n")
	defer tree.Close()

	if !tree.RootNode().Valid() {
		t.Fatal("root node is invalid")
	}
}

func TestMakeLintInput(t *testing.T) {
	input := MakeLintInput("test.f90", "program p\nend program\n", nil)

	if input.File != "test.f90" {
		t.Errorf("File = %q, want %q", input.File, "test.f90")
	}
	if len(input.Source) == 0 {
		t.Error("Source is empty")
	}
}

func TestFindASTNodes(t *testing.T) {
	content := "program p\n  implicit none\nend program\n"
	tree, matches := FindASTNodes(t, content, "program")
	defer tree.Close()

	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Symbols == nil {
		t.Error("expected a symbol table stack at the matched node")
	}
}
