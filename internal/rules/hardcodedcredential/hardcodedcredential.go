// Package hardcodedcredential flags literal secrets (API keys, private
// keys, tokens) appearing directly in Fortran source, using gitleaks'
// curated pattern database the same way the teacher's secretsincode rule
// scans Dockerfile content.
package hardcodedcredential

import (
	"github.com/zricethezav/gitleaks/v8/detect"

	"github.com/fortitude-lint/fortitude/internal/rules"
	"github.com/fortitude-lint/fortitude/internal/sourcemap"
)

// Rule implements hardcoded-credential detection.
type Rule struct {
	detector *detect.Detector
}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.Metadata {
	return rules.Metadata{
		Category:    "bugprone",
		Prefix:      "B",
		Suffix:      "001",
		Name:        "hardcoded-credential",
		Description: "Detects hardcoded secrets, API keys, and credentials in source text",
		Group:       rules.GroupStable,
		Fix:         rules.FixNever,
		Entrypoint:  rules.EntrypointText,
	}
}

// Check scans the whole file's text for secret-shaped literals.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	if r.detector == nil {
		d, err := detect.NewDetectorDefaultConfig()
		if err != nil {
			return nil
		}
		r.detector = d
	}

	if len(input.Source) == 0 {
		return nil
	}

	findings := r.detector.DetectString(string(input.Source))
	if len(findings) == 0 {
		return nil
	}

	sm := sourcemap.New(input.Source)
	var violations []rules.Violation
	for _, finding := range findings {
		loc := locationForFinding(input.File, sm, finding.StartLine, finding.StartColumn, finding.EndLine, finding.EndColumn)

		msg := finding.Description
		if msg == "" {
			msg = "potential secret detected"
		}

		v := rules.NewViolation(loc, r.Metadata().Code(), msg, rules.SeverityError).
			WithDetail("found: " + redact(finding.Secret) + " (rule: " + finding.RuleID + ")")
		violations = append(violations, v)
	}

	return violations
}

// locationForFinding converts gitleaks' 1-based line/column finding
// coordinates into a Location with byte offsets.
func locationForFinding(file string, sm *sourcemap.SourceMap, startLine, startCol, endLine, endCol int) rules.Location {
	startLineIdx := min(max(startLine-1, 0), sm.LineCount()-1)
	endLineIdx := min(max(endLine-1, 0), sm.LineCount()-1)

	startOffset := sm.LineOffset(startLineIdx) + byteColumn(sm.Line(startLineIdx), startCol-1)
	endOffset := sm.LineOffset(endLineIdx) + byteColumn(sm.Line(endLineIdx), endCol)

	start := rules.Position{Line: startLineIdx, Column: max(startCol-1, 0), Offset: startOffset}
	end := rules.Position{Line: endLineIdx, Column: max(endCol, 0), Offset: endOffset}
	return rules.NewRangeLocation(file, start, end)
}

func byteColumn(line string, col int) int {
	runes := []rune(line)
	if col < 0 {
		return 0
	}
	if col > len(runes) {
		col = len(runes)
	}
	return len(string(runes[:col]))
}

// redact hides all but the first and last few characters of a secret.
func redact(secret string) string {
	if len(secret) <= 8 {
		return "***"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}

// New creates a new hardcoded-credential rule instance.
func New() *Rule {
	return &Rule{}
}

func init() {
	rules.Register(New())
}
