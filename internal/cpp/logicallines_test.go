package cpp

import "testing"

func TestLogicalLinesEscapedNewlines(t *testing.T) {
	code := "program\\\n\\\n\\  \n p\n  im\\   \nplicit none\nend program \\\np"
	lines := LogicalLines(code)
	if len(lines) != 3 {
		t.Fatalf("got %d logical lines, want 3", len(lines))
	}
	if lines[0].Text() != "program p\n" {
		t.Errorf("line 0 = %q, want %q", lines[0].Text(), "program p\n")
	}
	if lines[1].Text() != "  implicit none\n" {
		t.Errorf("line 1 = %q, want %q", lines[1].Text(), "  implicit none\n")
	}
	if lines[2].Text() != "end program p" {
		t.Errorf("line 2 = %q, want %q", lines[2].Text(), "end program p")
	}
}

func TestLogicalLinesOffsetMapping(t *testing.T) {
	code := "abc\\\ndef"
	lines := LogicalLines(code)
	if len(lines) != 1 {
		t.Fatalf("got %d logical lines, want 1", len(lines))
	}
	if lines[0].Text() != "abcdef" {
		t.Fatalf("merged text = %q, want %q", lines[0].Text(), "abcdef")
	}
	// "abc" comes from source offsets 0-3, "def" comes from source offset 5-8
	// (after "abc\\\n").
	if off := lines[0].Offset(0); off != 0 {
		t.Errorf("Offset(0) = %d, want 0", off)
	}
	if off := lines[0].Offset(3); off != 5 {
		t.Errorf("Offset(3) = %d, want 5", off)
	}
}

func TestLogicalLinesNoContinuation(t *testing.T) {
	lines := LogicalLines("a\nb\nc")
	if len(lines) != 3 {
		t.Fatalf("got %d logical lines, want 3", len(lines))
	}
	if lines[0].Text() != "a\n" || lines[1].Text() != "b\n" || lines[2].Text() != "c" {
		t.Errorf("lines = %q", []string{lines[0].Text(), lines[1].Text(), lines[2].Text()})
	}
}
