// Package sourcemap provides utilities for working with source code
// locations, snippet extraction, and line-based operations.
package sourcemap

import (
	"bytes"
	"slices"
	"strings"
)

// SourceMap provides efficient access to source code by line.
// It precomputes line boundaries for fast snippet extraction.
//
// All line numbers are 0-based (matching LSP conventions).
type SourceMap struct {
	source      []byte
	lines       []string
	lineOffsets []int
}

// New creates a SourceMap from source content.
// Lines are split on \n (handles both \n and \r\n).
func New(source []byte) *SourceMap {
	rawLines := bytes.Split(source, []byte{'\n'})
	lines := make([]string, len(rawLines))
	lineOffsets := make([]int, len(rawLines))

	offset := 0
	for i, line := range rawLines {
		lineOffsets[i] = offset
		lines[i] = strings.TrimSuffix(string(line), "\r")
		offset += len(line) + 1
	}

	return &SourceMap{
		source:      source,
		lines:       lines,
		lineOffsets: lineOffsets,
	}
}

// Lines returns all lines (without line endings).
func (sm *SourceMap) Lines() []string {
	return sm.lines
}

// LineCount returns the total number of lines.
func (sm *SourceMap) LineCount() int {
	return len(sm.lines)
}

// Line returns the text of a specific line (0-based).
func (sm *SourceMap) Line(line int) string {
	if line < 0 || line >= len(sm.lines) {
		return ""
	}
	return sm.lines[line]
}

// LineOffset returns the byte offset where a line starts (0-based).
func (sm *SourceMap) LineOffset(line int) int {
	if line < 0 || line >= len(sm.lineOffsets) {
		return -1
	}
	return sm.lineOffsets[line]
}

// OffsetToPosition converts a byte offset into a 0-based (line, column).
func (sm *SourceMap) OffsetToPosition(offset int) (line, column int) {
	idx, found := slices.BinarySearch(sm.lineOffsets, offset)
	if !found {
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	return idx, offset - sm.lineOffsets[idx]
}

// Snippet extracts a range of lines as a single string.
// Both startLine and endLine are 0-based and inclusive.
func (sm *SourceMap) Snippet(startLine, endLine int) string {
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sm.lines) {
		endLine = len(sm.lines) - 1
	}
	if startLine > endLine || startLine >= len(sm.lines) {
		return ""
	}
	return strings.Join(sm.lines[startLine:endLine+1], "\n")
}

// SnippetAround extracts context lines around a target line.
func (sm *SourceMap) SnippetAround(line, before, after int) string {
	return sm.Snippet(line-before, line+after)
}

// Source returns the raw source content.
func (sm *SourceMap) Source() []byte {
	return sm.source
}

// Comment represents a standalone `!`-comment line extracted from source.
type Comment struct {
	Line int
	Text string
	// IsDirective indicates this looks like an `allow(...)` suppression
	// comment rather than an ordinary remark.
	IsDirective bool
}

// Comments extracts all standalone comment lines from the source.
// Comments embedded after code on the same line are not returned here;
// those are found via the AST's own comment nodes during the tree walk.
func (sm *SourceMap) Comments() []Comment {
	var comments []Comment
	for i, line := range sm.lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "!") {
			comments = append(comments, Comment{
				Line:        i,
				Text:        trimmed,
				IsDirective: isDirectiveComment(trimmed),
			})
		}
	}
	return comments
}

// isDirectiveComment checks if a comment is an `allow(...)` directive.
func isDirectiveComment(text string) bool {
	content := strings.TrimSpace(strings.TrimPrefix(text, "!"))
	lower := strings.ToLower(content)
	return strings.HasPrefix(lower, "allow(") || strings.HasPrefix(lower, "allow (")
}

// CommentsForLine returns all comments that appear immediately before a
// line, stopping at the first blank or non-comment line walking backward.
func (sm *SourceMap) CommentsForLine(line int) []Comment {
	var comments []Comment
	for i := line - 1; i >= 0; i-- {
		trimmed := strings.TrimSpace(sm.lines[i])
		if trimmed == "" || !strings.HasPrefix(trimmed, "!") {
			break
		}
		comments = append(comments, Comment{
			Line:        i,
			Text:        trimmed,
			IsDirective: isDirectiveComment(trimmed),
		})
	}
	slices.Reverse(comments)
	return comments
}
