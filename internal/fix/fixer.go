package fix

import (
	"bytes"
	"path/filepath"
	"slices"
	"sort"

	"github.com/fortitude-lint/fortitude/internal/config"
	"github.com/fortitude-lint/fortitude/internal/rules"
)

// normalizePath ensures consistent path format for map lookups.
// This handles Windows vs Unix path separator differences.
func normalizePath(path string) string {
	return filepath.Clean(path)
}

// Fixer applies suggested fixes to source files.
type Fixer struct {
	// SafetyThreshold determines the minimum safety level for fixes.
	// Only fixes with Safety <= SafetyThreshold will be applied.
	SafetyThreshold FixSafety

	// RuleFilter limits fixes to specific rule codes.
	// If empty, all rules are eligible.
	RuleFilter []string

	// FixModes maps file paths to their per-rule fix modes.
	// Outer key is the normalized file path, inner key is the rule code.
	// Uses config.FixMode constants (FixModeAlways, FixModeNever, etc.).
	// If nil or a file/rule is not present, FixModeAlways is assumed.
	FixModes map[string]map[string]FixMode
}

// Result contains the outcome of applying fixes.
type Result struct {
	// Changes contains modifications for each file.
	Changes map[string]*FileChange
}

// TotalApplied returns the total number of fixes applied across all files.
func (r *Result) TotalApplied() int {
	count := 0
	for _, fc := range r.Changes {
		count += len(fc.FixesApplied)
	}
	return count
}

// TotalSkipped returns the total number of fixes skipped across all files.
func (r *Result) TotalSkipped() int {
	count := 0
	for _, fc := range r.Changes {
		count += len(fc.FixesSkipped)
	}
	return count
}

// FilesModified returns the number of files with actual changes.
func (r *Result) FilesModified() int {
	count := 0
	for _, fc := range r.Changes {
		if fc.HasChanges() {
			count++
		}
	}
	return count
}

// Apply processes violations and applies their suggested fixes. sources
// maps file paths to their original content.
//
// Edits are keyed to byte offsets in the original content, so a single
// file's fixes apply in one pass: sort by descending start offset and
// splice right-to-left, which means earlier edits never have to account
// for drift introduced by later ones.
func (f *Fixer) Apply(violations []rules.Violation, sources map[string][]byte) (*Result, error) {
	result := &Result{
		Changes: make(map[string]*FileChange),
	}

	for path, content := range sources {
		result.Changes[normalizePath(path)] = &FileChange{
			Path:            path,
			OriginalContent: content,
			ModifiedContent: bytes.Clone(content),
		}
	}

	candidates := f.classifyViolations(violations, result.Changes)

	byFile := make(map[string][]*fixCandidate)
	for _, fc := range candidates {
		if len(fc.fix.Edits) == 0 {
			recordSkipped(result.Changes, fc.violation, SkipNoEdits)
			continue
		}
		file := normalizePath(fc.violation.File())
		byFile[file] = append(byFile[file], fc)
	}

	for file, fileCandidates := range byFile {
		if fc := result.Changes[file]; fc != nil {
			f.applyFixesToFile(fc, fileCandidates)
		}
	}

	return result, nil
}

// classifyViolations filters out violations whose fix is not eligible to
// apply, recording a SkippedFix for each rejection.
func (f *Fixer) classifyViolations(violations []rules.Violation, changes map[string]*FileChange) []*fixCandidate {
	candidates := make([]*fixCandidate, 0, len(violations))

	for i := range violations {
		v := &violations[i]
		if v.SuggestedFix == nil {
			continue
		}
		if !f.ruleAllowed(v.RuleCode) {
			recordSkipped(changes, v, SkipRuleFilter)
			continue
		}
		if v.SuggestedFix.Safety > f.SafetyThreshold {
			recordSkipped(changes, v, SkipSafety)
			continue
		}
		if !f.fixModeAllowed(v.File(), v.RuleCode) {
			recordSkipped(changes, v, SkipFixMode)
			continue
		}
		candidates = append(candidates, &fixCandidate{violation: v, fix: v.SuggestedFix})
	}

	return candidates
}

// fixCandidate pairs a violation with its suggested fix for processing.
type fixCandidate struct {
	violation *rules.Violation
	fix       *rules.SuggestedFix
}

// recordSkipped adds a skipped fix entry for a file if the file exists in changes.
func recordSkipped(changes map[string]*FileChange, v *rules.Violation, reason SkipReason) {
	if fc := changes[normalizePath(v.File())]; fc != nil {
		fc.FixesSkipped = append(fc.FixesSkipped, SkippedFix{
			RuleCode: v.RuleCode,
			Reason:   reason,
			Location: v.Location,
		})
	}
}

// ruleAllowed checks if a rule passes the filter.
func (f *Fixer) ruleAllowed(ruleCode string) bool {
	if len(f.RuleFilter) == 0 {
		return true
	}
	return slices.Contains(f.RuleFilter, ruleCode)
}

// fixModeAllowed checks if a fix is allowed based on the file's per-rule fix mode config.
func (f *Fixer) fixModeAllowed(filePath, ruleCode string) bool {
	mode := config.FixModeAlways
	if f.FixModes != nil {
		if fileModes, ok := f.FixModes[normalizePath(filePath)]; ok {
			if m, ok := fileModes[ruleCode]; ok {
				mode = m
			}
		}
	}

	switch mode {
	case config.FixModeNever:
		return false
	case config.FixModeExplicit:
		return len(f.RuleFilter) > 0 && slices.Contains(f.RuleFilter, ruleCode)
	case config.FixModeUnsafeOnly:
		return f.SafetyThreshold >= rules.FixUnsafe
	case config.FixModeAlways:
		return true
	default:
		return true
	}
}

// applyFixesToFile applies non-conflicting fixes to a single file. Fixes
// are atomic: either all edits of a fix are applied, or none are.
//
// Acceptance and application are two separate orderings. Acceptance order
// decides who wins a conflict: candidates are considered by their earliest
// edit's start offset, then by rule code, ascending, so the earlier
// (rule-code-tiebroken) fix wins an overlap. Application order is purely
// mechanical: accepted edits are spliced into the content right-to-left so
// an edit's offsets, which reference the original content, never drift
// out from under an edit still waiting to apply.
func (f *Fixer) applyFixesToFile(fc *FileChange, candidates []*fixCandidate) {
	candidateStart := func(c *fixCandidate) int {
		start := -1
		for _, edit := range c.fix.Edits {
			if start == -1 || edit.Location.Start.Offset < start {
				start = edit.Location.Start.Offset
			}
		}
		return start
	}

	ordered := make([]*fixCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		si, sj := candidateStart(ordered[i]), candidateStart(ordered[j])
		if si != sj {
			return si < sj
		}
		return ordered[i].violation.RuleCode < ordered[j].violation.RuleCode
	})

	applied := make(map[*fixCandidate]bool)
	var reservedEdits []rules.TextEdit

	hasConflict := func(edits []rules.TextEdit) bool {
		for _, e := range edits {
			for _, re := range reservedEdits {
				if editsOverlap(e, re) {
					return true
				}
			}
		}
		return false
	}

	for _, c := range ordered {
		if hasConflict(c.fix.Edits) {
			fc.FixesSkipped = append(fc.FixesSkipped, SkippedFix{
				RuleCode: c.violation.RuleCode,
				Reason:   SkipConflict,
				Location: c.violation.Location,
			})
			continue
		}
		reservedEdits = append(reservedEdits, c.fix.Edits...)
		applied[c] = true
	}

	var toApply []rules.TextEdit
	for c := range applied {
		toApply = append(toApply, c.fix.Edits...)
	}
	sort.Slice(toApply, func(i, j int) bool {
		return toApply[i].Location.Start.Offset > toApply[j].Location.Start.Offset
	})

	content := fc.ModifiedContent
	for _, edit := range toApply {
		content = applyEdit(content, edit)
	}
	fc.ModifiedContent = content

	for c := range applied {
		fc.FixesApplied = append(fc.FixesApplied, AppliedFix{
			RuleCode:    c.violation.RuleCode,
			Description: c.fix.Description,
			Location:    c.violation.Location,
			Edits:       c.fix.Edits,
		})
	}
}

// applyEdit splices a single text edit into content. The edit replaces
// the byte range [Start, End) with NewText; positions reference the
// original (pre-fix) content, so callers must apply edits within one
// file in descending offset order.
func applyEdit(content []byte, edit rules.TextEdit) []byte {
	start, end := edit.Location.Start.Offset, edit.Location.End.Offset
	if start < 0 || end > len(content) || start > end {
		return content
	}

	var result bytes.Buffer
	result.Grow(len(content) - (end - start) + len(edit.NewText))
	result.Write(content[:start])
	result.WriteString(edit.NewText)
	result.Write(content[end:])
	return result.Bytes()
}
