// Package cmd wires fortitude's subcommands into a urfave/cli/v3 app.
package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/fortitude-lint/fortitude/internal/version"
)

// NewApp creates the CLI application.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "fortitude",
		Usage:   "A linter for free-form Fortran source files",
		Version: version.Version(),
		Description: `fortitude is a static analysis tool for Fortran source code.

It checks .f90/.f95/.f03/.f08/.f18 files for correctness issues,
style violations, and obsolescent constructs.

Examples:
  fortitude check main.f90
  fortitude check --select C,S .
  fortitude explain C001`,
		Commands: []*cli.Command{
			checkCommand(),
			explainCommand(),
			lspCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application.
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
