package cpp

import "testing"

func tokenize(input string) []Token {
	t := NewTokenizer(input)
	var tokens []Token
	for {
		tok, ok := t.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func TestTokenizeWhitespaceAndNewlines(t *testing.T) {
	input := " \t \n\t  \r \r\n  "
	tokens := tokenize(input)
	if len(tokens) != 7 {
		t.Fatalf("got %d tokens, want 7", len(tokens))
	}
	for i, tok := range tokens {
		want := Whitespace
		if i%2 != 0 {
			want = Newline
		}
		if tok.Kind != want {
			t.Errorf("token %d: kind = %s, want %s", i, tok.Kind, want)
		}
	}
}

func TestTokenizeIdentifiers(t *testing.T) {
	input := "__IDENT__ _ident123 ident_456 $dollar_ident 23y"
	tokens := tokenize(input)
	want := []struct {
		kind TokenKind
		text string
	}{
		{Identifier, "__IDENT__"},
		{Whitespace, " "},
		{Identifier, "_ident123"},
		{Whitespace, " "},
		{Identifier, "ident_456"},
		{Whitespace, " "},
		{Punctuator, "$"},
		{Identifier, "dollar_ident"},
		{Whitespace, " "},
		{Number, "23"},
		{Identifier, "y"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok.Kind != want[i].kind || tok.Text != want[i].text {
			t.Errorf("token %d = %s %q, want %s %q", i, tok.Kind, tok.Text, want[i].kind, want[i].text)
		}
	}
}

func TestTokenizeStrings(t *testing.T) {
	// The preprocessor doesn't handle escaped quotes or multiline strings:
	// a doubled delimiter terminates one string and starts the next.
	input := "\"escaped \"\" quote\"\n'another escaped '' quote'"
	tokens := tokenize(input)
	want := []struct {
		kind TokenKind
		text string
	}{
		{String, `"escaped "`},
		{String, `" quote"`},
		{Newline, "\n"},
		{String, "'another escaped '"},
		{String, "' quote'"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok.Kind != want[i].kind || tok.Text != want[i].text {
			t.Errorf("token %d = %s %q, want %s %q", i, tok.Kind, tok.Text, want[i].kind, want[i].text)
		}
	}
}

func TestTokenizeComments(t *testing.T) {
	input := "X/**/Y\nX/* hello world! */Y"
	tokens := tokenize(input)
	want := []struct {
		kind TokenKind
		text string
	}{
		{Identifier, "X"},
		{Comment, "/**/"},
		{Identifier, "Y"},
		{Newline, "\n"},
		{Identifier, "X"},
		{Comment, "/* hello world! */"},
		{Identifier, "Y"},
	}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok.Kind != want[i].kind || tok.Text != want[i].text {
			t.Errorf("token %d = %s %q, want %s %q", i, tok.Kind, tok.Text, want[i].kind, want[i].text)
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	inputs := []string{
		"0", "123", "123.456", "1.23e10", "1.23E+10", "1.23e-10",
		"1.23d10", "1.23D+10", ".23", ".23e10", "12.", "12.e10",
	}
	for _, in := range inputs {
		tokens := tokenize(in)
		if len(tokens) != 1 {
			t.Fatalf("tokenize(%q) = %d tokens, want 1", in, len(tokens))
		}
		if tokens[0].Kind != Number {
			t.Errorf("tokenize(%q) kind = %s, want number", in, tokens[0].Kind)
		}
		if tokens[0].Text != in {
			t.Errorf("tokenize(%q) text = %q, want %q", in, tokens[0].Text, in)
		}
	}
}

func TestTokenizeNumberVsPeriod(t *testing.T) {
	tokens := tokenize(".5 5. .")
	want := []TokenKind{Number, Whitespace, Number, Whitespace, Punctuator}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(tokens), len(want))
	}
	for i, tok := range tokens {
		if tok.Kind != want[i] {
			t.Errorf("token %d kind = %s, want %s", i, tok.Kind, want[i])
		}
	}
}

func TestTokenizeKindSuffix(t *testing.T) {
	// Underscore kind suffixes like "1_8" tokenize as number + identifier,
	// not as part of the number itself.
	tokens := tokenize("1_8")
	if len(tokens) != 2 || tokens[0].Kind != Number || tokens[1].Kind != Identifier || tokens[1].Text != "_8" {
		t.Fatalf("tokenize(\"1_8\") = %v, want [Number(1) Identifier(_8)]", tokens)
	}
}

func TestConsumeArglistDefinition(t *testing.T) {
	tok := NewTokenizer("(x, y, z) rest")
	args, ok, err := tok.ConsumeArglistDefinition()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected an argument list")
	}
	want := []string{"x", "y", "z"}
	if len(args) != len(want) {
		t.Fatalf("args = %v, want %v", args, want)
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("args[%d] = %q, want %q", i, args[i], want[i])
		}
	}
}

func TestConsumeArglistInvocationNested(t *testing.T) {
	tok := NewTokenizer("(foo(1, 2), bar)")
	args, ok, err := tok.ConsumeArglistInvocation()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || len(args) != 2 {
		t.Fatalf("args = %v, want 2 arguments", args)
	}
	var first string
	for _, tok := range args[0] {
		first += tok.Text
	}
	if first != "foo(1, 2)" {
		t.Errorf("first argument = %q, want %q", first, "foo(1, 2)")
	}
}
