package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/fortitude-lint/fortitude/internal/check"
	"github.com/fortitude-lint/fortitude/internal/config"
	"github.com/fortitude-lint/fortitude/internal/discovery"
	"github.com/fortitude-lint/fortitude/internal/fix"
	"github.com/fortitude-lint/fortitude/internal/reporter"
	"github.com/fortitude-lint/fortitude/internal/rules"
	"github.com/fortitude-lint/fortitude/internal/version"

	_ "github.com/fortitude-lint/fortitude/internal/rules/all" // register the rule catalog
)

// Exit codes, mirrored across check and lsp for a consistent CLI contract.
const (
	ExitSuccess     = 0
	ExitViolations  = 1
	ExitConfigError = 2
	ExitNoFiles     = 3
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check Fortran source files for issues",
		ArgsUsage: "[FILE|DIR|GLOB...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringSliceFlag{
				Name:  "select",
				Usage: "Rule codes, names, or categories to select (replaces the default set)",
			},
			&cli.StringSliceFlag{
				Name:  "ignore",
				Usage: "Rule codes, names, or categories to ignore",
			},
			&cli.StringSliceFlag{
				Name:  "extend-select",
				Usage: "Rule codes, names, or categories to add on top of the default set",
			},
			&cli.StringSliceFlag{
				Name:  "extend-ignore",
				Usage: "Rule codes, names, or categories to additionally ignore",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob patterns of paths to exclude from discovery",
			},
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "Enable preview (not-yet-stable) rules",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, sarif, github-actions, markdown",
				Sources: cli.EnvVars("FORTITUDE_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output destination: stdout, stderr, or a file path",
				Sources: cli.EnvVars("FORTITUDE_OUTPUT_PATH"),
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "Disable colored output (text format only)",
				Sources: cli.EnvVars("NO_COLOR"),
			},
			&cli.BoolFlag{
				Name:  "show-source",
				Usage: "Show source code snippets (text format only)",
			},
			&cli.BoolFlag{
				Name:  "hide-source",
				Usage: "Hide source code snippets (text format only)",
			},
			&cli.StringFlag{
				Name:    "fail-level",
				Usage:   "Minimum severity that causes a non-zero exit code: error, warning, info, style",
				Sources: cli.EnvVars("FORTITUDE_OUTPUT_FAIL_LEVEL"),
			},
			&cli.BoolFlag{
				Name:  "fix",
				Usage: "Apply safe auto-fixes and rewrite files in place",
			},
			&cli.BoolFlag{
				Name:  "unsafe-fixes",
				Usage: "Allow unsafe-level fixes when --fix is given",
			},
		},
		Action: runCheck,
	}
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	inputs := cmd.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	files, err := discovery.Discover(inputs, discovery.Options{
		ExcludePatterns: cmd.StringSlice("exclude"),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "discovery failed: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no Fortran source files found")
		return cli.Exit("", ExitNoFiles)
	}

	var allViolations []rules.Violation
	sources := make(map[string][]byte, len(files))
	rulesEnabled := 0

	for _, file := range files {
		cfg, err := loadConfigForFile(cmd, file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config for %s: %v\n", file, err)
			return cli.Exit("", ExitConfigError)
		}
		applyCLIOverrides(cfg, cmd)

		content, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", file, err)
			return cli.Exit("", ExitConfigError)
		}

		if cmd.Bool("fix") {
			violations, err := fixFile(file, content, cfg, cfg.Check.UnsafeFixes)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to fix %s: %v\n", file, err)
				return cli.Exit("", ExitConfigError)
			}
			sources[file] = content // reporter shows source as last checked, pre-fix
			allViolations = append(allViolations, violations...)
			continue
		}

		sources[file] = content
		result, err := check.CheckFile(check.Input{
			FilePath: file,
			Content:  content,
			Config:   cfg,
			Channel:  check.NullChannel,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to check %s: %v\n", file, err)
			return cli.Exit("", ExitConfigError)
		}
		if result.Tree != nil {
			result.Tree.Close()
		}

		rulesEnabled = len(result.Table.EnabledRules())
		allViolations = append(allViolations, result.Violations...)
	}

	if err := reportViolations(cmd, allViolations, sources, len(files), rulesEnabled); err != nil {
		return err
	}

	if exceedsFailLevel(cmd, allViolations) {
		return cli.Exit("", ExitViolations)
	}
	return nil
}

// loadConfigForFile loads configuration for a target file, honoring an
// explicit --config override before falling back to discovery.
func loadConfigForFile(cmd *cli.Command, targetPath string) (*config.Config, error) {
	if configPath := cmd.String("config"); configPath != "" {
		return config.LoadFromFile(targetPath, configPath)
	}
	return config.Load(targetPath)
}

// applyCLIOverrides layers --select/--ignore/--preview/etc. flags on top of
// the file's resolved config, only where the flag was actually given.
func applyCLIOverrides(cfg *config.Config, cmd *cli.Command) {
	if v := cmd.StringSlice("select"); len(v) > 0 {
		cfg.Rules.Select = v
	}
	if v := cmd.StringSlice("ignore"); len(v) > 0 {
		cfg.Rules.Ignore = v
	}
	if v := cmd.StringSlice("extend-select"); len(v) > 0 {
		cfg.Rules.ExtendSelect = v
	}
	if v := cmd.StringSlice("extend-ignore"); len(v) > 0 {
		cfg.Rules.ExtendIgnore = v
	}
	if cmd.Bool("preview") {
		cfg.Rules.Preview = true
	}
	if cmd.Bool("unsafe-fixes") {
		cfg.Check.UnsafeFixes = true
	}
}

// fixFile runs the convergent check-fix loop for file, rewriting it in
// place if anything changed, and returns the violations remaining after
// fixing (including any a fix could not resolve).
func fixFile(file string, content []byte, cfg *config.Config, unsafe bool) ([]rules.Violation, error) {
	threshold := fix.FixSafe
	if unsafe {
		threshold = fix.FixUnsafe
	}

	result, err := check.CheckAndFix(check.FixInput{
		FilePath:        file,
		Content:         content,
		Config:          cfg,
		Channel:         check.NullChannel,
		SafetyThreshold: threshold,
	})
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(result.FinalContent, content) {
		if err := os.WriteFile(file, result.FinalContent, 0o644); err != nil {
			return nil, err
		}
	}

	return result.RemainingViolations, nil
}

func reportViolations(cmd *cli.Command, violations []rules.Violation, sources map[string][]byte, filesScanned, rulesEnabled int) error {
	format, err := reporter.ParseFormat(cmd.String("format"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.Exit("", ExitConfigError)
	}

	writer, closeWriter, err := reporter.GetWriter(cmd.String("output"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.Exit("", ExitConfigError)
	}
	defer closeWriter()

	opts := reporter.DefaultOptions()
	opts.Format = format
	opts.Writer = writer
	opts.ToolVersion = versionString()

	if cmd.Bool("no-color") {
		opts.Color = boolPtr(false)
	}
	if cmd.Bool("show-source") {
		opts.ShowSource = true
	}
	if cmd.Bool("hide-source") {
		opts.ShowSource = false
	}

	rep, err := reporter.New(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return cli.Exit("", ExitConfigError)
	}

	sorted := reporter.SortViolations(violations)
	return rep.Report(sorted, sources, reporter.ReportMetadata{
		FilesScanned: filesScanned,
		RulesEnabled: rulesEnabled,
	})
}

// exceedsFailLevel reports whether any violation meets or exceeds the
// configured --fail-level (default: style, i.e. any violation fails).
func exceedsFailLevel(cmd *cli.Command, violations []rules.Violation) bool {
	threshold := rules.SeverityStyle
	if level := cmd.String("fail-level"); level != "" {
		if parsed, err := rules.ParseSeverity(level); err == nil {
			threshold = parsed
		}
	}
	for _, v := range violations {
		if v.Severity.IsAtLeast(threshold) {
			return true
		}
	}
	return false
}

func boolPtr(v bool) *bool { return &v }

func versionString() string { return version.RawVersion() }
