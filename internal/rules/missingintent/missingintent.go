// Package missingintent flags dummy arguments declared without an
// explicit intent attribute, which helps catch logic errors and can
// improve compiler optimization.
package missingintent

import (
	"strings"

	"github.com/fortitude-lint/fortitude/internal/rules"
	"github.com/fortitude-lint/fortitude/internal/symtab"
)

// Rule implements the missing-intent check.
type Rule struct{}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.Metadata {
	return rules.Metadata{
		Category:    "correctness",
		Prefix:      "C",
		Suffix:      "061",
		Name:        "missing-intent",
		Description: "Checks that dummy arguments have an explicit intent attribute",
		Group:       rules.GroupStable,
		Fix:         rules.FixNever,
		Entrypoint:  rules.EntrypointAST,
		ASTKinds:    []string{"function", "subroutine"},
	}
}

// Check cross-references the node's dummy-argument list against the
// symbol table built for this scope, flagging any dummy argument whose
// declaration carries no intent attribute.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	n := input.Node

	params := n.ChildByFieldName("parameters")
	if !params.Valid() {
		return nil
	}

	dummyArgs := make(map[string]struct{}, params.NamedChildCount())
	for i := range params.NamedChildCount() {
		name := strings.ToLower(strings.TrimSpace(params.NamedChild(i).Text()))
		if name != "" {
			dummyArgs[name] = struct{}{}
		}
	}
	if len(dummyArgs) == 0 {
		return nil
	}

	tables, _ := input.Symbols.(*symtab.SymbolTables)
	if tables == nil || tables.Current() == nil {
		return nil
	}

	procedureKind := n.Kind()
	var violations []rules.Violation
	for _, v := range tables.Current().Variables() {
		if _, isDummy := dummyArgs[strings.ToLower(v.Name)]; !isDummy {
			continue
		}
		if v.HasAttribute(symtab.AttrIntentIn) || v.HasAttribute(symtab.AttrIntentOut) || v.HasAttribute(symtab.AttrIntentInOut) {
			continue
		}

		loc := rules.NewLocationFromNode(input.File, v.NameNode)
		msg := procedureKind + " argument '" + v.Name + "' missing intent attribute"
		violations = append(violations, rules.NewViolation(loc, r.Metadata().Code(), msg, rules.SeverityWarning))
	}

	return violations
}

// New creates a new missing-intent rule instance.
func New() *Rule {
	return &Rule{}
}

func init() {
	rules.Register(New())
}
