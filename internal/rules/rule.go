package rules

import (
	"github.com/fortitude-lint/fortitude/internal/ast"
	"github.com/fortitude-lint/fortitude/internal/fortran"
	"github.com/fortitude-lint/fortitude/internal/sourcemap"
)

// Entrypoint classifies how a rule wants to be invoked by the dispatch
// pipeline: against a bare path (no file contents needed), against raw
// source text, or against specific AST node kinds during the single-pass
// tree walk.
type Entrypoint int

const (
	EntrypointPath Entrypoint = iota
	EntrypointText
	EntrypointAST
)

func (e Entrypoint) String() string {
	switch e {
	case EntrypointPath:
		return "path"
	case EntrypointText:
		return "text"
	case EntrypointAST:
		return "ast"
	default:
		return "unknown"
	}
}

// Group is the stability classification of a rule within its category.
type Group int

const (
	GroupStable Group = iota
	GroupPreview
	GroupDeprecated
	GroupRemoved
)

func (g Group) String() string {
	switch g {
	case GroupStable:
		return "stable"
	case GroupPreview:
		return "preview"
	case GroupDeprecated:
		return "deprecated"
	case GroupRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// FixAvailability describes whether a rule can ever offer a fix, and if so
// under what conditions, independent of any single violation's FixSafety.
type FixAvailability int

const (
	FixNever FixAvailability = iota
	FixSometimes
	FixAlways
)

// LintInput contains everything a rule needs to check one file. The linter
// guarantees Source is always non-nil; AST is non-nil only when parsing
// succeeded (path and text rules may run even when AST is nil, since they
// don't need it).
//
// LintInput is read-only. Rules must not mutate Source, AST, or Symbols;
// copy first if a derived value needs changing.
type LintInput struct {
	// File is the path being linted, used only for diagnostics/messages.
	File string

	// Source is the raw file content.
	Source []byte

	// Tree is the parsed syntax tree, nil if parsing failed or was skipped
	// (path-only rules run regardless).
	Tree *fortran.Tree

	// Node is the specific AST node this rule was dispatched at. Only
	// populated for EntrypointAST rules; zero Node otherwise.
	Node ast.Node

	// Symbols is the symbol table in scope at Node. Only populated for
	// EntrypointAST rules. Type is *symtab.SymbolTables but declared as any
	// to avoid an import cycle between internal/rules and internal/symtab.
	Symbols any

	// Config is the rule-specific configuration, decoded by the rule
	// itself via configutil.Resolve.
	Config any
}

// SourceMap creates a SourceMap for snippet extraction and line-based
// operations. Computed on demand; call once and reuse if needed repeatedly.
func (input LintInput) SourceMap() *sourcemap.SourceMap {
	return sourcemap.New(input.Source)
}

// Snippet extracts a range of lines from the source (0-based, inclusive).
func (input LintInput) Snippet(startLine, endLine int) string {
	return input.SourceMap().Snippet(startLine, endLine)
}

// SnippetForLocation extracts the source code at a location.
func (input LintInput) SnippetForLocation(loc Location) string {
	if loc.IsFileLevel() {
		return ""
	}
	sm := input.SourceMap()
	if loc.IsPointLocation() {
		return sm.Line(loc.Start.Line)
	}
	endLine := loc.End.Line
	if loc.End.Column == 0 && endLine > loc.Start.Line {
		endLine--
	}
	return sm.Snippet(loc.Start.Line, endLine)
}

// Metadata contains the static, build-time-known facts about a rule: its
// closed-enum identity, stability, and fix behavior.
type Metadata struct {
	// Category groups rules for selection (e.g. "correctness", "style").
	Category string

	// Suffix is the rule's zero-padded numeric code within its category,
	// e.g. "001". Code() joins Category's short prefix with Suffix.
	Suffix string

	// Prefix is the category's short code prefix, e.g. "C" for correctness.
	Prefix string

	// Name is the rule's kebab-case long name, e.g. "missing-default-case".
	Name string

	// Description explains what the rule checks.
	Description string

	// Group is the rule's stability classification.
	Group Group

	// Fix is what kind of fix this rule can ever offer.
	Fix FixAvailability

	// Entrypoint determines which Check method the dispatcher calls.
	Entrypoint Entrypoint

	// ASTKinds lists the node kinds this rule is dispatched at. Only
	// meaningful when Entrypoint == EntrypointAST.
	ASTKinds []string
}

// Code returns the rule's short identifier, e.g. "C001".
func (m Metadata) Code() string {
	return m.Prefix + m.Suffix
}

// Rule is the interface every lint rule implements.
type Rule interface {
	Metadata() Metadata

	// Check runs the rule against the given input and returns violations.
	// Called once per matching dispatch point: once per file for
	// EntrypointPath/EntrypointText rules, once per matching node for
	// EntrypointAST rules.
	Check(input LintInput) []Violation
}

// ConfigurableRule is an optional interface for rules that accept
// configuration beyond severity/fix-mode/exclude.
type ConfigurableRule interface {
	Rule
	DefaultConfig() any
}
