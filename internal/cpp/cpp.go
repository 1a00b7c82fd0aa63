package cpp

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Provenance records where a snippet of expanded output text came from.
type Provenance interface {
	isProvenance()
}

// SystemDefined marks text produced by a compiler-builtin macro such as
// __DATE__, __TIME__, __FILE__, or __LINE__.
type SystemDefined struct{}

// UserDefined marks text produced by a macro supplied on the command line.
type UserDefined struct{}

// FileDefined marks text produced by a macro defined in the source file
// itself, spanning the byte range of its #define line.
type FileDefined struct {
	Start, End int
	Path       string
}

// IncludeText marks plain text copied in from an included file.
type IncludeText struct {
	Path string
}

// LocalText marks plain text taken verbatim from the source file, not
// produced by macro expansion, spanning the given byte range.
type LocalText struct {
	Start, End int
}

func (SystemDefined) isProvenance() {}
func (UserDefined) isProvenance()   {}
func (FileDefined) isProvenance()   {}
func (IncludeText) isProvenance()   {}
func (LocalText) isProvenance()     {}

// Snippet is a run of expanded output text tagged with its Provenance.
type Snippet struct {
	Text       string
	Provenance Provenance
}

// extend attempts to merge other onto the end of s, succeeding only when
// both snippets are adjacent LocalText spans. Returns the merged snippet
// and true on success.
func (s Snippet) extend(other Snippet) (Snippet, bool) {
	left, ok := s.Provenance.(LocalText)
	if !ok {
		return Snippet{}, false
	}
	right, ok := other.Provenance.(LocalText)
	if !ok {
		return Snippet{}, false
	}
	if left.End != right.Start {
		return Snippet{}, false
	}
	return Snippet{
		Text:       s.Text + other.Text,
		Provenance: LocalText{Start: left.Start, End: right.End},
	}, true
}

// Snippets accumulates preprocessor output, automatically merging adjacent
// LocalText runs so that untouched source stays in as few pieces as
// possible.
type Snippets struct {
	inner []Snippet
}

// Push appends text with the given provenance, merging it into the last
// snippet when both are contiguous LocalText.
func (s *Snippets) Push(text string, provenance Provenance) {
	snippet := Snippet{Text: text, Provenance: provenance}
	if n := len(s.inner); n > 0 {
		if merged, ok := s.inner[n-1].extend(snippet); ok {
			s.inner[n-1] = merged
			return
		}
	}
	s.inner = append(s.inner, snippet)
}

// Collect joins every snippet's text into the final expanded output.
func (s *Snippets) Collect() string {
	var b strings.Builder
	for _, snip := range s.inner {
		b.WriteString(snip.Text)
	}
	return b.String()
}

// All returns every collected snippet, in order.
func (s *Snippets) All() []Snippet {
	return s.inner
}

// IfStack tracks nested #ifdef/#ifndef/#else/#endif conditional state.
// Once a branch is inactive, every nested branch beneath it stays
// inactive regardless of its own condition, until the enclosing #endif.
type IfStack struct {
	stack []bool
}

// Push records a new conditional branch's state. If the stack is
// currently clean (i.e. every enclosing branch is active), state is used
// as-is; otherwise an already-inactive ancestor forces this branch
// inactive too.
func (s *IfStack) Push(state bool) {
	if s.IsClean() {
		s.stack = append(s.stack, state)
	} else {
		s.stack = append(s.stack, false)
	}
}

// Pop removes the innermost conditional branch, reporting its state.
func (s *IfStack) Pop() (bool, bool) {
	if len(s.stack) == 0 {
		return false, false
	}
	n := len(s.stack) - 1
	state := s.stack[n]
	s.stack = s.stack[:n]
	return state, true
}

// Toggle flips the innermost branch's state (for #else), reporting the
// new state. If an enclosing branch is inactive, toggling still yields
// false: the branch remains masked by its ancestor.
func (s *IfStack) Toggle() (bool, bool) {
	state, ok := s.Pop()
	if !ok {
		return false, false
	}
	s.Push(!state)
	return s.stack[len(s.stack)-1], true
}

// IsClean reports whether every branch on the stack is currently active.
func (s *IfStack) IsClean() bool {
	if len(s.stack) == 0 {
		return true
	}
	return s.stack[len(s.stack)-1]
}

var directiveLine = regexp.MustCompile(`\s*#\s*([a-z]+)`)

// Output is the result of expanding one source file.
type Output struct {
	Snippets *Snippets
}

// Text returns the fully expanded source text.
func (o *Output) Text() string {
	return o.Snippets.Collect()
}

// Expand runs the preprocessor over src, honoring any #define/#undef/
// #ifdef/#ifndef/#else/#endif directives it contains, and substituting
// userMacros (as if supplied on the command line) ahead of any
// system macros so the file itself may still override them.
func Expand(src []byte, path string, userMacros map[string]string) (*Output, error) {
	defines := NewMacroStore()

	now := time.Now()
	defines.Insert("__DATE__", Definition{
		Replacement: []Token{{Text: `"` + now.Format("Jan _2 2006") + `"`, Kind: String}},
		Provenance:  SystemDefined{},
	})
	defines.Insert("__TIME__", Definition{
		Replacement: []Token{{Text: `"` + now.Format("15:04:05") + `"`, Kind: String}},
		Provenance:  SystemDefined{},
	})

	for key, value := range userMacros {
		t := NewTokenizer(value)
		var replacement []Token
		for {
			tok, ok := t.Next()
			if !ok {
				break
			}
			replacement = append(replacement, tok)
		}
		defines.Insert(key, Definition{Replacement: replacement, Provenance: UserDefined{}})
	}

	snippets := &Snippets{}
	ifStack := &IfStack{}
	lineStarts := computeLineStarts(string(src))

	for _, line := range LogicalLines(string(src)) {
		if m := directiveLine.FindStringSubmatch(line.Text()); m != nil {
			if err := handleDirective(m[1], line, path, defines, ifStack); err != nil {
				return nil, err
			}
			continue
		}

		if err := expandLine(line, path, defines, ifStack, snippets, lineStarts); err != nil {
			return nil, err
		}
	}

	return &Output{Snippets: snippets}, nil
}

func handleDirective(name string, line LogicalLine, path string, defines *MacroStore, ifStack *IfStack) error {
	switch name {
	case "define":
		if ifStack.IsClean() {
			return defines.HandleDefine(line, path)
		}
	case "undef":
		if ifStack.IsClean() {
			return defines.HandleUndef(line)
		}
	case "ifdef":
		state, err := defines.HandleIfdef(line)
		if err != nil {
			return err
		}
		ifStack.Push(state)
	case "ifndef":
		state, err := defines.HandleIfndef(line)
		if err != nil {
			return err
		}
		ifStack.Push(state)
	case "else":
		t := NewTokenizer(line.Text())
		t.ConsumeWhitespace()
		tok, err := t.ConsumeDirective()
		if err != nil {
			return fmt.Errorf("expected else directive: %w", err)
		}
		if tok.Dir != DirectiveElse {
			return fmt.Errorf("expected else directive")
		}
		t.ConsumeWhitespace()
		if _, ok := t.ConsumeNewline(); !ok {
			return fmt.Errorf("else directive should be on empty line")
		}
		if _, ok := ifStack.Toggle(); !ok {
			return fmt.Errorf("encountered unexpected else directive")
		}
	case "endif":
		t := NewTokenizer(line.Text())
		t.ConsumeWhitespace()
		tok, err := t.ConsumeDirective()
		if err != nil {
			return fmt.Errorf("expected endif directive: %w", err)
		}
		if tok.Dir != DirectiveEndif {
			return fmt.Errorf("expected endif directive")
		}
		t.ConsumeWhitespace()
		if _, ok := t.ConsumeNewline(); !ok {
			return fmt.Errorf("endif directive should be on empty line")
		}
		if _, ok := ifStack.Pop(); !ok {
			return fmt.Errorf("encountered unexpected endif directive")
		}
	default:
		// Unknown directive: ignore the line.
	}
	return nil
}

func expandLine(line LogicalLine, path string, defines *MacroStore, ifStack *IfStack, snippets *Snippets, lineStarts []int) error {
	t := NewTokenizer(line.Text())
	for {
		tok, ok := t.Next()
		if !ok {
			break
		}
		switch tok.Kind {
		case Identifier:
			if !ifStack.IsClean() {
				continue
			}
			switch defines.Kind(tok.Text) {
			case MacroFunction:
				args, hasArgs, err := t.ConsumeArglistInvocation()
				if err != nil {
					return err
				}
				if hasArgs {
					_, replacement, err := defines.ExpandFunctionMacro(tok.Text, args)
					if err != nil {
						return err
					}
					def, _ := defines.Get(tok.Text)
					snippets.Push(replacement, def.Provenance)
					continue
				}
				// No argument list: fall through as plain identifier.
			case MacroObject:
				def, replacement, err := defines.ExpandObjectMacro(tok.Text)
				if err != nil {
					return err
				}
				snippets.Push(replacement, def.Provenance)
				continue
			}
			switch tok.Text {
			case "__LINE__":
				realOffset := line.Offset(tok.Start)
				realLine := lineForOffset(lineStarts, realOffset)
				snippets.Push(fmt.Sprintf("%d", realLine), SystemDefined{})
			case "__FILE__":
				snippets.Push(`"`+path+`"`, SystemDefined{})
			default:
				start := line.Offset(tok.Start)
				end := line.Offset(tok.End)
				snippets.Push(tok.Text, LocalText{Start: start, End: end})
			}
		case Directive:
			return fmt.Errorf("unexpected directive token in non-directive line")
		case Comment:
			// C-style comments are skipped in replacement text.
		default:
			if !ifStack.IsClean() {
				continue
			}
			start := line.Offset(tok.Start)
			end := line.Offset(tok.End)
			snippets.Push(tok.Text, LocalText{Start: start, End: end})
		}
	}
	return nil
}

// computeLineStarts returns the byte offset of the start of each 1-indexed
// source line, so __LINE__ can report a line number for a given offset.
func computeLineStarts(src string) []int {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// lineForOffset returns the 1-indexed line number containing offset.
func lineForOffset(lineStarts []int, offset int) int {
	lo, hi := 0, len(lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}
