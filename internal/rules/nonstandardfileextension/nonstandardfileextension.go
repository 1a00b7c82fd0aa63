// Package nonstandardfileextension flags source files whose extension
// isn't one of the standard free-form Fortran extensions.
package nonstandardfileextension

import (
	"github.com/fortitude-lint/fortitude/internal/check"
	"github.com/fortitude-lint/fortitude/internal/rules"
)

// Rule implements the non-standard-file-extension check.
type Rule struct{}

// Metadata returns the rule metadata.
func (r *Rule) Metadata() rules.Metadata {
	return rules.Metadata{
		Category:    "filesystem",
		Prefix:      "F",
		Suffix:      "001",
		Name:        "non-standard-file-extension",
		Description: "Checks that source files use a standard Fortran file extension",
		Group:       rules.GroupStable,
		Fix:         rules.FixNever,
		Entrypoint:  rules.EntrypointPath,
	}
}

// Check rejects any extension outside the standard free-form set.
func (r *Rule) Check(input rules.LintInput) []rules.Violation {
	ext := check.Ext(input.File)
	if check.IsStandardExtension(ext) {
		return nil
	}

	loc := rules.NewFileLocation(input.File)
	return []rules.Violation{
		rules.NewViolation(loc, r.Metadata().Code(), "file extension should be '.f90' or '.F90'", rules.SeverityStyle),
	}
}

// New creates a new non-standard-file-extension rule instance.
func New() *Rule {
	return &Rule{}
}

func init() {
	rules.Register(New())
}
