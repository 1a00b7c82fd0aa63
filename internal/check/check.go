// Package check provides the shared lint pipeline used by both the CLI
// and the LSP server.
//
// The pipeline: config resolution -> rule-table resolution -> parse ->
// path/text rule dispatch -> AST walk with symbol-table tracking -> allow
// comment filtering -> sorted violations.
package check

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/fortitude-lint/fortitude/internal/allow"
	"github.com/fortitude-lint/fortitude/internal/config"
	"github.com/fortitude-lint/fortitude/internal/fortran"
	"github.com/fortitude-lint/fortitude/internal/rules"
	"github.com/fortitude-lint/fortitude/internal/selector"
)

// Level is a log level for the Channel interface.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Channel receives diagnostic output from the lint/fix pipeline.
// Implementations map to environment-specific UX (LSP notifications, CLI
// progress bars, plain stderr logging).
type Channel interface {
	Log(level Level, msg string)
	Progress(title string, pct int) // -1 = indeterminate
	Warn(msg string)
}

type nullChannel struct{}

func (nullChannel) Log(Level, string)    {}
func (nullChannel) Progress(string, int) {}
func (nullChannel) Warn(string)          {}

// NullChannel discards all output. Used when a caller doesn't care.
var NullChannel Channel = nullChannel{}

// Input configures a single invocation of CheckFile.
type Input struct {
	// FilePath is used for config discovery, extension checks, and
	// violation locations.
	FilePath string

	// Content is the file content to lint. If nil, CheckFile reads from
	// FilePath.
	Content []byte

	// Config is the resolved configuration. If nil, CheckFile loads from
	// FilePath.
	Config *config.Config

	// Channel receives progress and diagnostic output. Nil means silent.
	Channel Channel
}

// Result contains the output of CheckFile.
type Result struct {
	// Violations are the final, allow-comment-filtered, sorted violations.
	Violations []rules.Violation

	// Tree is the parsed syntax tree. Nil if the file failed to parse at
	// all (as opposed to merely containing ERROR nodes, which parses
	// fine and is reported via the syntax-error rule). Callers that keep
	// Result around are responsible for calling Tree.Close().
	Tree *fortran.Tree

	// Config is the resolved config (loaded or passed in via Input).
	Config *config.Config

	// Table is the resolved rule table for this file.
	Table selector.RuleTable
}

// CheckFile runs the full lint pipeline for one file.
func CheckFile(input Input) (*Result, error) {
	ch := input.Channel
	if ch == nil {
		ch = NullChannel
	}

	content := input.Content
	if content == nil {
		var err error
		content, err = os.ReadFile(input.FilePath)
		if err != nil {
			return nil, err
		}
	}

	cfg := input.Config
	if cfg == nil {
		var err error
		cfg, err = config.Load(input.FilePath)
		if err != nil {
			ch.Log(LevelWarn, "config load error for "+input.FilePath+": "+err.Error())
			cfg = config.Default()
		}
	}

	table, warnings := selector.Resolve(selector.Options{
		Select:       cfg.Rules.Select,
		Ignore:       cfg.Rules.Ignore,
		ExtendSelect: cfg.Rules.ExtendSelect,
		ExtendIgnore: cfg.Rules.ExtendIgnore,
		Preview:      cfg.Rules.Preview,
		PerFile:      toSelectorPerFile(cfg.Rules.PerFile),
		Path:         input.FilePath,
	})
	for _, w := range warnings {
		ch.Warn(w)
	}

	ch.Progress("parsing", -1)
	tree, parseErr := fortran.Parse(content)
	if parseErr != nil {
		ch.Log(LevelError, "parse error for "+input.FilePath+": "+parseErr.Error())
	}
	ch.Progress("parsing", 50)

	violations := make([]rules.Violation, 0, 16)

	for _, rule := range table.EnabledRules() {
		meta := rule.Metadata()
		if meta.Entrypoint != rules.EntrypointPath && meta.Entrypoint != rules.EntrypointText {
			continue
		}
		violations = append(violations, rule.Check(rules.LintInput{
			File:   input.FilePath,
			Source: content,
			Config: cfg.Rules.GetOptions(meta.Code()),
		})...)
	}

	if tree != nil {
		root := tree.RootNode()
		astViolations := walkAST(walkContext{
			file:   input.FilePath,
			source: content,
			tree:   tree,
			cfg:    cfg,
		}, root, table.EnabledRules())
		violations = append(violations, astViolations...)

		comments := allow.Parse(root)
		filtered := allow.Filter(input.FilePath, violations, comments, table)
		violations = filtered.Violations
	}

	violations = maskCascadingSyntaxErrors(violations)

	ch.Progress("parsing", 100)

	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Location.Start.Offset != violations[j].Location.Start.Offset {
			return violations[i].Location.Start.Offset < violations[j].Location.Start.Offset
		}
		return violations[i].RuleCode < violations[j].RuleCode
	})

	return &Result{Violations: violations, Tree: tree, Config: cfg, Table: table}, nil
}

// syntaxErrorCode is the syntax-error rule's code (internal/rules/syntaxerror).
const syntaxErrorCode = "E001"

// maskCascadingSyntaxErrors implements the syntax-error masking step: once
// the parser reports its first syntax error, AST-rule diagnostics after
// that offset are usually just cascading noise from the parser's recovery,
// not real findings, so they're dropped. Path/text-rule diagnostics and
// meta-diagnostics are never masked, and nothing at-or-before the first
// syntax error is touched.
func maskCascadingSyntaxErrors(violations []rules.Violation) []rules.Violation {
	firstOffset := -1
	for _, v := range violations {
		if v.RuleCode != syntaxErrorCode {
			continue
		}
		if firstOffset == -1 || v.Location.Start.Offset < firstOffset {
			firstOffset = v.Location.Start.Offset
		}
	}
	if firstOffset == -1 {
		return violations
	}

	out := make([]rules.Violation, 0, len(violations))
	for _, v := range violations {
		if v.IsMeta || v.Location.Start.Offset <= firstOffset {
			out = append(out, v)
			continue
		}
		if rule := rules.Get(v.RuleCode); rule == nil || rule.Metadata().Entrypoint != rules.EntrypointAST {
			out = append(out, v)
			continue
		}
	}
	return out
}

func toSelectorPerFile(in []config.PerFileIgnore) []selector.PerFileIgnore {
	out := make([]selector.PerFileIgnore, len(in))
	for i, pf := range in {
		out[i] = selector.PerFileIgnore{Pattern: pf.Pattern, Ignore: pf.Ignore, Negated: pf.Negated}
	}
	return out
}

// IsStandardExtension reports whether ext (as returned by filepath.Ext,
// including the leading dot) is a recognized Fortran source extension.
func IsStandardExtension(ext string) bool {
	switch ext {
	case ".f90", ".f95", ".f03", ".f08", ".f18", ".F90", ".F95", ".F03", ".F08", ".F18":
		return true
	default:
		return false
	}
}

// Ext is a small wrapper around filepath.Ext kept here so rule packages
// needing only the extension don't need to import path/filepath solely
// for this.
func Ext(path string) string {
	return filepath.Ext(path)
}
