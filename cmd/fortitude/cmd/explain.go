package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/fortitude-lint/fortitude/internal/catalog"
	"github.com/fortitude-lint/fortitude/internal/rules"

	_ "github.com/fortitude-lint/fortitude/internal/rules/all" // register the rule catalog
)

func explainCommand() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "Show documentation for one or all rules",
		ArgsUsage: "[CODE]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) > 0 {
				return explainOne(args[0])
			}
			explainAll()
			return nil
		},
	}
}

func explainOne(code string) error {
	rule, canonical, redirected := catalog.Resolve(code)
	if rule == nil {
		return cli.Exit(fmt.Sprintf("unknown rule: %s", code), ExitConfigError)
	}

	if redirected {
		fmt.Printf("%s was renamed to %s\n\n", strings.ToUpper(code), canonical)
	}

	m := rule.Metadata()
	fmt.Printf("%s: %s\n", m.Code(), m.Name)
	fmt.Printf("Category:   %s\n", m.Category)
	fmt.Printf("Group:      %s\n", m.Group)
	fmt.Printf("Fix:        %s\n", fixAvailabilityString(m.Fix))
	fmt.Println()
	fmt.Println(m.Description)
	return nil
}

func explainAll() {
	all := rules.All()
	sort.Slice(all, func(i, j int) bool {
		return all[i].Metadata().Code() < all[j].Metadata().Code()
	})

	for _, rule := range all {
		m := rule.Metadata()
		fmt.Printf("%-6s %-8s %s\n", m.Code(), "["+m.Group.String()+"]", m.Name)
	}
}

func fixAvailabilityString(f rules.FixAvailability) string {
	switch f {
	case rules.FixNever:
		return "never"
	case rules.FixSometimes:
		return "sometimes"
	case rules.FixAlways:
		return "always"
	default:
		return "unknown"
	}
}
