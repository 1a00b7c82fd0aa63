package fix

import (
	"bytes"
	"testing"

	"github.com/fortitude-lint/fortitude/internal/config"
	"github.com/fortitude-lint/fortitude/internal/rules"
)

func violationAt(file string, editStart, editEnd int, ruleCode string, safety FixSafety) rules.Violation {
	return rules.Violation{
		Location: rules.NewPointLocation(file, 0, 0, editStart),
		RuleCode: ruleCode,
		Message:  "test violation",
		SuggestedFix: &rules.SuggestedFix{
			Description: "fix " + ruleCode,
			Safety:      safety,
			Edits: []rules.TextEdit{
				{Location: rangeEdit(file, editStart, editEnd).Location, NewText: "apt-get"},
			},
		},
	}
}

func TestApplyEdit_SingleLine(t *testing.T) {
	content := []byte("RUN apt install curl")

	edit := rules.TextEdit{
		Location: rangeEdit("Buildfile", 4, 7).Location,
		NewText:  "apt-get",
	}

	result := applyEdit(content, edit)
	expected := []byte("RUN apt-get install curl")

	if !bytes.Equal(result, expected) {
		t.Errorf("applyEdit() =\n%q\nwant:\n%q", result, expected)
	}
}

func TestApplyEdit_OutOfRangeIsNoop(t *testing.T) {
	content := []byte("short")
	edit := rules.TextEdit{Location: rangeEdit("f", 2, 100).Location, NewText: "x"}
	if got := applyEdit(content, edit); !bytes.Equal(got, content) {
		t.Errorf("applyEdit() with out-of-range edit = %q, want unchanged %q", got, content)
	}
}

func TestFixerApplySingleFix(t *testing.T) {
	sources := map[string][]byte{
		"Buildfile": []byte("RUN apt install curl"),
	}
	violations := []rules.Violation{
		violationAt("Buildfile", 4, 7, "C001", FixSafe),
	}

	fixer := &Fixer{SafetyThreshold: FixSafe}
	result, err := fixer.Apply(violations, sources)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.TotalApplied() != 1 {
		t.Errorf("TotalApplied() = %d, want 1", result.TotalApplied())
	}

	fc := result.Changes["Buildfile"]
	if fc == nil {
		t.Fatal("Changes[\"Buildfile\"] is nil")
	}
	expected := []byte("RUN apt-get install curl")
	if !bytes.Equal(fc.ModifiedContent, expected) {
		t.Errorf("ModifiedContent = %q, want %q", fc.ModifiedContent, expected)
	}
	if !fc.HasChanges() {
		t.Error("HasChanges() = false, want true")
	}
}

func TestFixerApplySafetyFilter(t *testing.T) {
	sources := map[string][]byte{"f": []byte("RUN apt search foo")}
	violations := []rules.Violation{
		violationAt("f", 4, 7, "C001", FixUnsafe),
	}

	fixer := &Fixer{SafetyThreshold: FixSafe}
	result, err := fixer.Apply(violations, sources)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.TotalApplied() != 0 {
		t.Errorf("TotalApplied() = %d, want 0", result.TotalApplied())
	}
	fc := result.Changes["f"]
	if len(fc.FixesSkipped) != 1 || fc.FixesSkipped[0].Reason != SkipSafety {
		t.Fatalf("FixesSkipped = %+v, want one entry with SkipSafety", fc.FixesSkipped)
	}
}

func TestFixerApplyRuleFilter(t *testing.T) {
	sources := map[string][]byte{"f": []byte("RUN apt install curl")}
	violations := []rules.Violation{
		violationAt("f", 4, 7, "C001", FixSafe),
	}

	fixer := &Fixer{SafetyThreshold: FixSafe, RuleFilter: []string{"C002"}}
	result, err := fixer.Apply(violations, sources)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.TotalApplied() != 0 {
		t.Errorf("TotalApplied() = %d, want 0", result.TotalApplied())
	}
	fc := result.Changes["f"]
	if len(fc.FixesSkipped) != 1 || fc.FixesSkipped[0].Reason != SkipRuleFilter {
		t.Fatalf("FixesSkipped = %+v, want one entry with SkipRuleFilter", fc.FixesSkipped)
	}
}

func TestFixerApplyConflictingFixes(t *testing.T) {
	sources := map[string][]byte{"f": []byte("RUN apt install curl")}
	violations := []rules.Violation{
		violationAt("f", 4, 15, "rule1", FixSafe), // "apt install"
		violationAt("f", 4, 7, "rule2", FixSafe),  // "apt", overlaps rule1
	}

	fixer := &Fixer{SafetyThreshold: FixSafe}
	result, err := fixer.Apply(violations, sources)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.TotalApplied() != 1 {
		t.Errorf("TotalApplied() = %d, want 1", result.TotalApplied())
	}
	if result.TotalSkipped() != 1 {
		t.Errorf("TotalSkipped() = %d, want 1", result.TotalSkipped())
	}

	fc := result.Changes["f"]
	foundConflict := false
	for _, skip := range fc.FixesSkipped {
		if skip.Reason == SkipConflict {
			foundConflict = true
			if skip.RuleCode != "rule2" {
				t.Errorf("expected rule2 to be skipped (rule1 starts at the same offset and sorts first), got %s", skip.RuleCode)
			}
		}
	}
	if !foundConflict {
		t.Error("expected a SkipConflict entry")
	}
	if len(fc.FixesApplied) != 1 || fc.FixesApplied[0].RuleCode != "rule1" {
		t.Errorf("expected rule1 (earliest start, tiebroken by rule code) to win the conflict, got %+v", fc.FixesApplied)
	}
}

func TestFixerApplyConflictResolvedByRuleCodeOnTie(t *testing.T) {
	// Both fixes start at the same offset; B001 must win over C001 since
	// it's the earlier-sorting rule code, regardless of violation order.
	sources := map[string][]byte{"f": []byte("RUN apt install curl")}
	violations := []rules.Violation{
		violationAt("f", 4, 15, "C001", FixSafe),
		violationAt("f", 4, 7, "B001", FixSafe),
	}

	fixer := &Fixer{SafetyThreshold: FixSafe}
	result, err := fixer.Apply(violations, sources)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	fc := result.Changes["f"]
	if len(fc.FixesApplied) != 1 || fc.FixesApplied[0].RuleCode != "B001" {
		t.Errorf("expected B001 to win the tie, got %+v", fc.FixesApplied)
	}
}

func TestFixerApplyMultipleNonOverlappingFixes(t *testing.T) {
	content := "RUN apt install curl\nRUN apt update"
	secondLineStart := len("RUN apt install curl\n")
	sources := map[string][]byte{"f": []byte(content)}

	violations := []rules.Violation{
		violationAt("f", 4, 7, "C001", FixSafe),
		violationAt("f", secondLineStart+4, secondLineStart+7, "C001", FixSafe),
	}

	fixer := &Fixer{SafetyThreshold: FixSafe}
	result, err := fixer.Apply(violations, sources)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.TotalApplied() != 2 {
		t.Errorf("TotalApplied() = %d, want 2", result.TotalApplied())
	}

	expected := "RUN apt-get install curl\nRUN apt-get update"
	fc := result.Changes["f"]
	if string(fc.ModifiedContent) != expected {
		t.Errorf("ModifiedContent = %q, want %q", fc.ModifiedContent, expected)
	}
}

func TestFixerApplySkipsViolationsWithoutFix(t *testing.T) {
	sources := map[string][]byte{"f": []byte("RUN apt install curl")}
	violations := []rules.Violation{
		{Location: rules.NewPointLocation("f", 0, 0, 0), RuleCode: "C001", Message: "no fix available"},
	}

	fixer := &Fixer{SafetyThreshold: FixUnsafe}
	result, err := fixer.Apply(violations, sources)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.TotalApplied() != 0 || result.TotalSkipped() != 0 {
		t.Errorf("violation with no SuggestedFix should be silently ignored, got applied=%d skipped=%d",
			result.TotalApplied(), result.TotalSkipped())
	}
}

func TestFixerApplyRespectsFixModeNever(t *testing.T) {
	sources := map[string][]byte{"f": []byte("RUN apt install curl")}
	violations := []rules.Violation{
		violationAt("f", 4, 7, "C001", FixSafe),
	}

	fixer := &Fixer{
		SafetyThreshold: FixSafe,
		FixModes: map[string]map[string]FixMode{
			"f": {"C001": config.FixModeNever},
		},
	}
	result, err := fixer.Apply(violations, sources)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if result.TotalApplied() != 0 {
		t.Errorf("TotalApplied() = %d, want 0", result.TotalApplied())
	}
	fc := result.Changes["f"]
	if len(fc.FixesSkipped) != 1 || fc.FixesSkipped[0].Reason != SkipFixMode {
		t.Fatalf("FixesSkipped = %+v, want one entry with SkipFixMode", fc.FixesSkipped)
	}
}

func TestFixerApplyExplicitFixModeRequiresRuleFilter(t *testing.T) {
	sources := map[string][]byte{"f": []byte("RUN apt install curl")}
	violations := []rules.Violation{violationAt("f", 4, 7, "C001", FixSafe)}

	fixModes := map[string]map[string]FixMode{"f": {"C001": config.FixModeExplicit}}

	withoutFilter := &Fixer{SafetyThreshold: FixSafe, FixModes: fixModes}
	result, _ := withoutFilter.Apply(violations, sources)
	if result.TotalApplied() != 0 {
		t.Errorf("explicit fix mode without RuleFilter: TotalApplied() = %d, want 0", result.TotalApplied())
	}

	withFilter := &Fixer{SafetyThreshold: FixSafe, FixModes: fixModes, RuleFilter: []string{"C001"}}
	result, _ = withFilter.Apply(violations, sources)
	if result.TotalApplied() != 1 {
		t.Errorf("explicit fix mode with matching RuleFilter: TotalApplied() = %d, want 1", result.TotalApplied())
	}
}

func TestResultMethods(t *testing.T) {
	result := &Result{
		Changes: map[string]*FileChange{
			"a": {
				Path:            "a",
				OriginalContent: []byte("old"),
				ModifiedContent: []byte("new"),
				FixesApplied:    []AppliedFix{{RuleCode: "C001"}},
				FixesSkipped:    []SkippedFix{{RuleCode: "C002", Reason: SkipSafety}},
			},
			"b": {
				Path:            "b",
				OriginalContent: []byte("same"),
				ModifiedContent: []byte("same"),
			},
		},
	}

	if result.TotalApplied() != 1 {
		t.Errorf("TotalApplied() = %d, want 1", result.TotalApplied())
	}
	if result.TotalSkipped() != 1 {
		t.Errorf("TotalSkipped() = %d, want 1", result.TotalSkipped())
	}
	if result.FilesModified() != 1 {
		t.Errorf("FilesModified() = %d, want 1", result.FilesModified())
	}
}
