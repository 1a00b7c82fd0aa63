// Package linetoolong flags source lines that exceed a configurable
// maximum width, the same way Fortran compilers enforce the standard's
// 132-character line limit.
package linetoolong

import (
	"fmt"
	"regexp"

	"github.com/fortitude-lint/fortitude/internal/rules"
	"github.com/fortitude-lint/fortitude/internal/rules/configutil"
	"github.com/fortitude-lint/fortitude/internal/sourcemap"
)

// Config is the rule-specific configuration.
type Config struct {
	// MaxLength is the maximum allowed line length, in characters.
	MaxLength int `koanf:"max-length"`
}

// DefaultConfig returns the default configuration: the Fortran standard's
// own line-length ceiling.
func DefaultConfig() Config {
	return Config{MaxLength: 132}
}

// allowedOverflow matches lines that are allowed to run long: a line
// ending inside a string or comment, or one broken by a continuation
// character, since these often carry a long URL or similar that can't be
// reasonably split.
var allowedOverflow = regexp.MustCompile(`(["']\w*&?$)|(!.*$)|(^\w*&)`)

// Rule implements the line-too-long check.
type Rule struct{}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.Metadata {
	return rules.Metadata{
		Category:    "style",
		Prefix:      "S",
		Suffix:      "101",
		Name:        "line-too-long",
		Description: "Checks that lines do not exceed the configured maximum length",
		Group:       rules.GroupStable,
		Fix:         rules.FixNever,
		Entrypoint:  rules.EntrypointText,
	}
}

// Check scans every line against the configured max length.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	cfg := r.resolveConfig(input.Config)
	if cfg.MaxLength <= 0 {
		return nil
	}

	sm := sourcemap.New(input.Source)
	var violations []rules.Violation

	for i, line := range sm.Lines() {
		runes := []rune(line)
		actual := len(runes)
		if actual <= cfg.MaxLength {
			continue
		}
		if allowedOverflow.MatchString(line) {
			continue
		}

		prefixBytes := len(string(runes[:cfg.MaxLength]))
		lineOffset := sm.LineOffset(i)
		start := rules.Position{Line: i, Column: cfg.MaxLength, Offset: lineOffset + prefixBytes}
		end := rules.Position{Line: i, Column: actual, Offset: lineOffset + len(line)}
		loc := rules.NewRangeLocation(input.File, start, end)

		msg := fmt.Sprintf("line length of %d, exceeds maximum %d", actual, cfg.MaxLength)
		violations = append(violations, rules.NewViolation(loc, r.Metadata().Code(), msg, rules.SeverityStyle))
	}

	return violations
}

// DefaultConfig returns the default configuration for this rule.
func (r *Rule) DefaultConfig() any {
	return DefaultConfig()
}

func (r *Rule) resolveConfig(config any) Config {
	opts, _ := config.(map[string]any)
	cfg := configutil.Resolve(opts, DefaultConfig())
	// Resolve fills zero-valued fields from the defaults; an explicit
	// max-length of 0 is kept so that it disables the rule.
	if v, ok := opts["max-length"]; ok && fmt.Sprint(v) == "0" {
		cfg.MaxLength = 0
	}
	return cfg
}

// New creates a new line-too-long rule instance.
func New() *Rule {
	return &Rule{}
}

func init() {
	rules.Register(New())
}
