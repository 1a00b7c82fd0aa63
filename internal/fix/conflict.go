package fix

import "github.com/fortitude-lint/fortitude/internal/rules"

// editsOverlap checks if two edits overlap in their byte ranges.
// Overlapping edits cannot both be applied safely.
func editsOverlap(a, b rules.TextEdit) bool {
	if a.Location.File != b.Location.File {
		return false
	}
	aStart, aEnd := a.Location.Start.Offset, a.Location.End.Offset
	bStart, bEnd := b.Location.Start.Offset, b.Location.End.Offset
	if aEnd <= bStart || bEnd <= aStart {
		return false
	}
	return true
}

// compareEdits orders two edits by (earliest start offset, rule code)
// ascending, the acceptance order spec.md requires for resolving
// conflicting fixes: on a tie the rule whose code sorts first wins.
func compareEdits(a, b rules.TextEdit, aCode, bCode string) bool {
	if a.Location.Start.Offset != b.Location.Start.Offset {
		return a.Location.Start.Offset < b.Location.Start.Offset
	}
	return aCode < bCode
}
