// Command fortitude is a linter for free-form Fortran source files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/fortitude-lint/fortitude/cmd/fortitude/cmd"
)

func main() {
	err := cmd.Execute()
	if err == nil {
		return
	}

	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := ec.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(ec.ExitCode())
	}

	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
