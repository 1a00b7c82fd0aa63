package check

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fortitude-lint/fortitude/internal/config"
	"github.com/fortitude-lint/fortitude/internal/fix"
	"github.com/fortitude-lint/fortitude/internal/rules"
)

// MaxFixIterations bounds the convergent fix loop: fixing one violation
// can introduce or reveal another (e.g. adding `implicit none` can shift
// an adjacent line's width over the line-length limit), so fixes are
// applied, the file is re-linted, and the cycle repeats until nothing
// changes or this bound is hit.
const MaxFixIterations = 100

// FixInput configures CheckAndFix.
type FixInput struct {
	FilePath        string
	Content         []byte
	Config          *config.Config
	Channel         Channel
	SafetyThreshold fix.FixSafety
	RuleFilter      []string
}

// FixResult is the outcome of the convergent fix loop.
type FixResult struct {
	// FinalContent is the file content after all applicable fixes
	// converged, or the last known-good text if the loop aborted.
	FinalContent []byte

	// Iterations is the number of check-fix cycles actually run.
	Iterations int

	// RemainingViolations are violations left in FinalContent, including
	// any whose fix could not be applied.
	RemainingViolations []rules.Violation

	// Converged is false if the loop aborted instead of reaching a fixed
	// point; see the returned error for which of the two abort reasons
	// applies.
	Converged bool
}

// FixLoopError reports why the convergent fix loop in CheckAndFix did not
// reach a fixed point: either a fix introduced a syntax error the source
// didn't originally have, or the loop hit MaxFixIterations without
// stabilizing. RuleCodes names the rule(s) responsible.
type FixLoopError struct {
	Reason    string
	RuleCodes []string
}

func (e *FixLoopError) Error() string {
	if len(e.RuleCodes) == 0 {
		return e.Reason
	}
	return fmt.Sprintf("%s (rules: %s)", e.Reason, strings.Join(e.RuleCodes, ", "))
}

// reasonFixIntroducedSyntaxError and reasonFailedToConverge are the two
// distinguishable abort reasons required by spec.md §4.7.
const (
	reasonFixIntroducedSyntaxError = "fix introduced a syntax error"
	reasonFailedToConverge         = "failed to converge"
)

var (
	warnOnceMu   sync.Mutex
	warnOnceSeen = map[string]bool{}
)

// warnOnce deduplicates a warning by its exact message text, process-wide.
func warnOnce(ch Channel, msg string) {
	warnOnceMu.Lock()
	alreadyWarned := warnOnceSeen[msg]
	warnOnceSeen[msg] = true
	warnOnceMu.Unlock()

	if !alreadyWarned {
		ch.Warn(msg)
	}
}

// CheckAndFix repeatedly lints and applies fixes until a fixed point: no
// further fixable violations remain, or the content from one iteration to
// the next stops changing. If the source is already syntactically invalid,
// fixing is skipped entirely. If a fix introduces a syntax error the
// original source didn't have, or the loop exhausts MaxFixIterations
// without stabilizing, CheckAndFix returns a *FixLoopError alongside the
// last known-good FixResult.
func CheckAndFix(input FixInput) (*FixResult, error) {
	ch := input.Channel
	if ch == nil {
		ch = NullChannel
	}

	content := input.Content
	cfg := input.Config

	var (
		violations       []rules.Violation
		previousContent  []byte
		previousViolated []rules.Violation
		lastAppliedCodes []string
		initiallyValid   bool
	)

	iteration := 0
	for ; iteration < MaxFixIterations; iteration++ {
		result, err := CheckFile(Input{
			FilePath: input.FilePath,
			Content:  content,
			Config:   cfg,
			Channel:  ch,
		})
		if err != nil {
			if result != nil && result.Tree != nil {
				result.Tree.Close()
			}
			return nil, err
		}
		cfg = result.Config
		violations = result.Violations
		hasSyntaxError := result.Tree != nil && result.Tree.HasSyntaxError()
		if result.Tree != nil {
			result.Tree.Close()
		}

		if iteration == 0 {
			initiallyValid = !hasSyntaxError
			if !initiallyValid {
				warnOnce(ch, fmt.Sprintf("%s: already has a syntax error, skipping auto-fix", input.FilePath))
				return &FixResult{
					FinalContent:        content,
					Iterations:          1,
					RemainingViolations: violations,
					Converged:           true,
				}, nil
			}
		} else if hasSyntaxError {
			return &FixResult{
					FinalContent:        previousContent,
					Iterations:          iteration,
					RemainingViolations: previousViolated,
					Converged:           false,
				}, &FixLoopError{
					Reason:    reasonFixIntroducedSyntaxError,
					RuleCodes: lastAppliedCodes,
				}
		}

		if !anyFixable(violations) {
			return &FixResult{
				FinalContent:        content,
				Iterations:          iteration + 1,
				RemainingViolations: violations,
				Converged:           true,
			}, nil
		}

		fixer := &fix.Fixer{
			SafetyThreshold: input.SafetyThreshold,
			RuleFilter:      input.RuleFilter,
			FixModes:        map[string]map[string]fix.FixMode{filepath.Clean(input.FilePath): fix.BuildFixModes(cfg)},
		}
		fixRes, err := fixer.Apply(violations, map[string][]byte{input.FilePath: content})
		if err != nil {
			return nil, err
		}
		change := fixRes.Changes[filepath.Clean(input.FilePath)]
		if change == nil || !change.HasChanges() || bytes.Equal(change.ModifiedContent, content) {
			return &FixResult{
				FinalContent:        content,
				Iterations:          iteration + 1,
				RemainingViolations: violations,
				Converged:           true,
			}, nil
		}

		ch.Log(LevelInfo, fmt.Sprintf("%s: applied %d fix(es) in iteration %d", input.FilePath, len(change.FixesApplied), iteration+1))

		previousContent = content
		previousViolated = violations
		lastAppliedCodes = appliedRuleCodes(change.FixesApplied)
		content = change.ModifiedContent
	}

	return &FixResult{
			FinalContent:        content,
			Iterations:          iteration,
			RemainingViolations: violations,
			Converged:           false,
		}, &FixLoopError{
			Reason:    reasonFailedToConverge,
			RuleCodes: lastAppliedCodes,
		}
}

func anyFixable(violations []rules.Violation) bool {
	for _, v := range violations {
		if v.SuggestedFix != nil {
			return true
		}
	}
	return false
}

// appliedRuleCodes returns the sorted, deduplicated rule codes responsible
// for an iteration's applied fixes, for use in FixLoopError.
func appliedRuleCodes(applied []fix.AppliedFix) []string {
	seen := make(map[string]bool, len(applied))
	codes := make([]string, 0, len(applied))
	for _, a := range applied {
		if !seen[a.RuleCode] {
			seen[a.RuleCode] = true
			codes = append(codes, a.RuleCode)
		}
	}
	sort.Strings(codes)
	return codes
}
