package cpp

import (
	"strings"
	"testing"
)

func expand(t *testing.T, code string) string {
	t.Helper()
	out, err := Expand([]byte(code), "test.f90", map[string]string{
		"__GNU__": "",
		"TEST":    "42",
	})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return out.Text()
}

func TestExpandObjectMacros(t *testing.T) {
	code := strings.Join([]string{
		"#define W 5",
		"#define X 10",
		"#define Y",
		"#define Z W,Y X",
		"#undef X",
		"program p",
		"  integer :: X",
		"  X = 12",
		"  print *, Z, __FILE__, __LINE__, TEST",
		"end program p",
		"",
	}, "\n")

	got := expand(t, code)
	want := strings.Join([]string{
		"program p",
		"  integer :: X",
		"  X = 12",
		`  print *, 5, X, "test.f90", 9, 42`,
		"end program p",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestExpandFunctionMacros(t *testing.T) {
	code := strings.Join([]string{
		"#define W 5",
		"#define foo( x ) (x + W)",
		`#define bar(x, y) x//y`,
		"#define baz() 10",
		"program p",
		"  implicit none",
		"  integer, parameter :: foo = 1",
		"  integer, parameter :: baz = 3",
		"  print *, foo, foo(5), foo(foo + 2), foo(foo(7) + W)",
		`  print *, bar("hello, ","world!")`,
		"  print *, baz, baz(), foo(baz())",
		"end program p",
		"",
	}, "\n")

	got := expand(t, code)
	want := strings.Join([]string{
		"program p",
		"  implicit none",
		"  integer, parameter :: foo = 1",
		"  integer, parameter :: baz = 3",
		"  print *, foo, (5 + 5), (foo + 2 + 5), ((7 + 5) + 5 + 5)",
		`  print *, "hello, "//"world!"`,
		"  print *, baz, 10, (10 + 5)",
		"end program p",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestExpandNestedFunctionMacros(t *testing.T) {
	code := "#define foo(x, y) (x + y)\n#define bar(x) foo(x, y)\nfoo(bar(2), 10)"
	got := expand(t, code)
	want := "((2 +  y) +  10)"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExpandConditionals(t *testing.T) {
	body := strings.Join([]string{
		"#ifdef X",
		"#  ifndef Y",
		"! X !Y",
		"#    define Z 10",
		"#  else",
		"! X Y",
		"#    define Z 20",
		"#  endif",
		"#else",
		"#  ifdef Y",
		"! !X Y",
		"#    define Z 30",
		"#  else",
		"! !X !Y",
		"#    define Z 40",
		"#  endif",
		"#endif",
		"program p",
		"  print *, Z",
		"end program p",
		"",
	}, "\n")

	cases := []struct {
		defines []string
		want    string
	}{
		{[]string{"X"}, "!  !Y\nprogram p\n  print *, 10\nend program p\n"},
		{[]string{"X", "Y"}, "!  \nprogram p\n  print *, 20\nend program p\n"},
		{[]string{"Y"}, "! !X \nprogram p\n  print *, 30\nend program p\n"},
		{nil, "! !X !Y\nprogram p\n  print *, 40\nend program p\n"},
	}

	for _, c := range cases {
		code := body
		for _, d := range c.defines {
			code = "#define " + d + "\n" + code
		}
		got := expand(t, code)
		if got != c.want {
			t.Errorf("defines=%v:\ngot:\n%s\nwant:\n%s", c.defines, got, c.want)
		}
	}
}

func TestExpandUnknownDirectiveIgnored(t *testing.T) {
	code := "#define X test\n#unknown_directive\nend"
	got := expand(t, code)
	if got != "end" {
		t.Fatalf("got %q, want %q", got, "end")
	}
}

func TestExpandLineContinuation(t *testing.T) {
	code := "#def\\\nine X \\\n(1 + \\\n2)\nprint\\\n *, X, __\\\nLI\\\nNE_\\\n_\n"
	got := expand(t, code)
	want := "print *, (1 + 2), 6\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestExpandCStyleCommentTokenPaste(t *testing.T) {
	code := "#define merge(x, y) x/**/y\nmerge(x, merge(y, z))\nmerge(x,merge(y,z))\n"
	got := expand(t, code)
	want := "x y z\nxyz\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestIfStackMasksNestedBranches(t *testing.T) {
	s := &IfStack{}
	s.Push(false) // outer branch inactive
	if s.IsClean() {
		t.Fatal("expected stack to be dirty after pushing false")
	}
	s.Push(true) // nested branch would be active on its own
	if s.IsClean() {
		t.Fatal("nested branch under an inactive ancestor must stay masked")
	}
	if state, _ := s.Pop(); state {
		t.Fatal("masked nested branch must pop false")
	}
	if state, ok := s.Toggle(); !ok || !state {
		t.Fatal("toggling the outermost inactive branch (no inactive ancestor) must report true")
	}
}

func TestSnippetsMergeAdjacentLocalText(t *testing.T) {
	var s Snippets
	s.Push("abc", LocalText{Start: 0, End: 3})
	s.Push("def", LocalText{Start: 3, End: 6})
	s.Push("X", SystemDefined{})
	all := s.All()
	if len(all) != 2 {
		t.Fatalf("got %d snippets, want 2 (adjacent LocalText should merge)", len(all))
	}
	if all[0].Text != "abcdef" {
		t.Errorf("merged text = %q, want %q", all[0].Text, "abcdef")
	}
	lt, ok := all[0].Provenance.(LocalText)
	if !ok || lt.Start != 0 || lt.End != 6 {
		t.Errorf("merged provenance = %+v, want LocalText{0,6}", all[0].Provenance)
	}
}
