// Package config provides configuration loading and discovery for
// fortitude.
//
// Configuration is loaded from multiple sources with the following
// priority (highest to lowest):
//  1. CLI flags
//  2. Environment variables (FORTITUDE_* prefix)
//  3. The nearest ancestor config file (fortitude.toml or .fortitude.toml)
//  4. .editorconfig (max_line_length only)
//  5. Built-in defaults
//
// Config file discovery walks up the filesystem from the target file's
// directory until a config file is found; the closest one wins, with no
// merging across ancestors. LoadWithOverrides (see overrides.go) adds one
// more source, used by the LSP server: client-supplied settings, whose
// precedence relative to the filesystem config is itself configurable.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/editorconfig/editorconfig-core-go/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigFileNames defines the config file names to search for, in priority order.
var ConfigFileNames = []string{".fortitude.toml", "fortitude.toml"}

// EnvPrefix is the prefix for environment variables.
const EnvPrefix = "FORTITUDE_"

// Config represents the complete fortitude configuration.
type Config struct {
	// Rules contains rule selection and per-rule configuration.
	Rules RulesConfig `koanf:"rules"`

	// Output configures output format and destination.
	Output OutputConfig `koanf:"output"`

	// Check configures the lint/fix pipeline itself.
	Check CheckConfig `koanf:"check"`

	// ConfigFile is the path to the config file that was loaded (if any).
	// This is metadata, not loaded from config.
	ConfigFile string `koanf:"-"`
}

// OutputConfig configures output formatting and behavior.
type OutputConfig struct {
	// Format specifies the output format: "text", "json", "sarif".
	Format string `koanf:"format"`
	// Path specifies where to write output: "stdout", "stderr", or a file path.
	Path string `koanf:"path"`
	// ShowSource enables source code snippets in text output.
	ShowSource bool `koanf:"show-source"`
	// FailLevel sets the minimum severity that causes a non-zero exit code.
	FailLevel string `koanf:"fail-level"`
	// ProgressBar enables the Bubble Tea progress display for multi-file runs.
	ProgressBar bool `koanf:"progress-bar"`
}

// CheckConfig configures the lint/fix pipeline.
type CheckConfig struct {
	// LineLength is the maximum source line length, also taken from
	// .editorconfig's max_line_length. The style/line-too-long rule does
	// not read it; that rule uses its own max-length option.
	LineLength int `koanf:"line-length"`
	// TargetStandard names the target Fortran standard (e.g. "f90",
	// "f2018"). It is loaded with the rest of the config; rule selection
	// does not consult it.
	TargetStandard string `koanf:"target-standard"`
	// UnsafeFixes allows FixUnsafe-level fixes to be applied with --fix.
	UnsafeFixes bool `koanf:"unsafe-fixes"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:     "text",
			Path:       "stdout",
			ShowSource: true,
			FailLevel:  "style",
		},
		Check: CheckConfig{
			LineLength:  132,
			UnsafeFixes: false,
		},
	}
}

// Load loads configuration for a target file path.
func Load(targetPath string) (*Config, error) {
	return loadWithConfigPath(targetPath, Discover(targetPath))
}

// LoadFromFile loads configuration from a specific config file path,
// skipping discovery.
func LoadFromFile(targetPath, configPath string) (*Config, error) {
	return loadWithConfigPath(targetPath, configPath)
}

func loadWithConfigPath(targetPath, configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, err
	}

	if lineLength, ok := loadEditorConfigLineLength(targetPath); ok {
		frag := &editorConfigFragment{}
		frag.Check.LineLength = lineLength
		if err := k.Load(structs.Provider(frag, "koanf"), nil); err != nil {
			return nil, err
		}
	}

	if err := loadConfigFile(k, configPath); err != nil {
		return nil, err
	}
	if err := loadEnv(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFile = configPath
	return cfg, nil
}

// editorConfigFragment carries only the Config fields .editorconfig can
// override, so loading it never clobbers unrelated settings with zero
// values.
type editorConfigFragment struct {
	Check struct {
		LineLength int `koanf:"line-length"`
	} `koanf:"check"`
}

// loadEditorConfigLineLength resolves .editorconfig's max_line_length for
// targetPath, if set to a positive integer.
func loadEditorConfigLineLength(targetPath string) (int, bool) {
	if targetPath == "" {
		return 0, false
	}
	def, err := editorconfig.GetDefinitionForFilename(targetPath)
	if err != nil || def == nil || def.MaxLineLength == "" || def.MaxLineLength == "off" {
		return 0, false
	}
	n, err := strconv.Atoi(def.MaxLineLength)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// knownHyphenatedKeys maps dot-separated env var segments to their
// hyphenated TOML-key equivalents.
var knownHyphenatedKeys = map[string]string{
	"line.length":       "line-length",
	"target.standard":   "target-standard",
	"unsafe.fixes":      "unsafe-fixes",
	"show.source":       "show-source",
	"fail.level":        "fail-level",
	"progress.bar":      "progress-bar",
	"per.file.ignores":  "per-file-ignores",
	"extend.select":     "extend-select",
	"extend.ignore":     "extend-ignore",
}

// envKeyTransform converts environment variable names to config keys.
// FORTITUDE_OUTPUT_FORMAT -> output.format
// FORTITUDE_CHECK_LINE_LENGTH -> check.line-length
func envKeyTransform(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", ".")
	for pattern, replacement := range knownHyphenatedKeys {
		s = strings.ReplaceAll(s, pattern, replacement)
	}
	return s
}

// Discover finds the closest config file for a target file path.
func Discover(targetPath string) string {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return ""
	}
	dir := filepath.Dir(absPath)
	for {
		for _, name := range ConfigFileNames {
			configPath := filepath.Join(dir, name)
			if fileExists(configPath) {
				return configPath
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
