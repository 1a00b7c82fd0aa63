package rules

import "github.com/fortitude-lint/fortitude/internal/ast"

// Position represents a single point in a source file.
//
// Coordinates are 0-based (LSP semantics). Offset is the byte offset into
// the file, used by the fix engine for overlap detection and right-to-left
// edit application.
type Position struct {
	// Line is the 0-based line number.
	Line int `json:"line"`
	// Column is the 0-based column number.
	Column int `json:"column,omitempty"`
	// Offset is the 0-based byte offset into the file.
	Offset int `json:"offset"`
}

// Location represents a range in a source file.
//
// Following LSP conventions, Start is inclusive and End is exclusive: End
// points to the first position after the covered text.
type Location struct {
	// File is the path to the source file.
	File string `json:"file"`
	// Start is the starting position (inclusive, 0-based).
	Start Position `json:"start"`
	// End is the ending position (exclusive). If negative, it's a point location.
	End Position `json:"end"`
}

// NewFileLocation creates a location for file-level issues (no specific line).
// Uses -1 as sentinel since 0 is a valid line number in 0-based coordinates.
func NewFileLocation(file string) Location {
	return Location{
		File:  file,
		Start: Position{Line: -1, Column: -1, Offset: -1},
		End:   Position{Line: -1, Column: -1, Offset: -1},
	}
}

// NewPointLocation creates a point location at a single byte offset.
func NewPointLocation(file string, line, column, offset int) Location {
	return Location{
		File:  file,
		Start: Position{Line: line, Column: column, Offset: offset},
		End:   Position{Line: -1, Column: -1, Offset: -1},
	}
}

// NewRangeLocation creates a location spanning a byte range.
func NewRangeLocation(file string, start, end Position) Location {
	return Location{File: file, Start: start, End: end}
}

// NewLocationFromNode converts a parsed AST node's span to a Location.
// Both use 0-based coordinates with end-exclusive semantics.
func NewLocationFromNode(file string, n ast.Node) Location {
	start := n.StartPoint()
	end := n.EndPoint()
	return Location{
		File:  file,
		Start: Position{Line: int(start.Row), Column: int(start.Column), Offset: int(n.StartByte())},
		End:   Position{Line: int(end.Row), Column: int(end.Column), Offset: int(n.EndByte())},
	}
}

// IsFileLevel returns true if this is a file-level location (no specific line).
func (l Location) IsFileLevel() bool {
	return l.Start.Line < 0
}

// IsPointLocation returns true if this is a single-point location (no range).
// A point location has End.Line < 0 (unset) or End equals Start.
func (l Location) IsPointLocation() bool {
	return l.End.Line < 0 || (l.End.Line == l.Start.Line && l.End.Column == l.Start.Column)
}

// Len returns the byte length of the range, or 0 for point/file-level locations.
func (l Location) Len() int {
	if l.IsFileLevel() || l.IsPointLocation() {
		return 0
	}
	return l.End.Offset - l.Start.Offset
}
