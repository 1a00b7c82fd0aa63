package config

// FixMode controls when auto-fixes are applied for a rule.
type FixMode string

const (
	// FixModeNever disables fixes even with --fix.
	FixModeNever FixMode = "never"

	// FixModeExplicit applies only when the rule's code is in the fixer's
	// RuleFilter.
	FixModeExplicit FixMode = "explicit"

	// FixModeAlways applies with --fix when the safety threshold is met
	// (default).
	FixModeAlways FixMode = "always"

	// FixModeUnsafeOnly requires unsafe fixes to be enabled
	// (--unsafe-fixes) to apply.
	FixModeUnsafeOnly FixMode = "unsafe-only"
)

// RuleConfig represents per-rule configuration, keyed by rule code in
// RulesConfig.Rules. Can be specified in TOML as:
//
//	[rules.C001]
//	severity = "warning"
//	fix = "always"
//	# Rule-specific options are flattened at this level
//	max-branches = 8
type RuleConfig struct {
	// Severity overrides the rule's default severity. Use "off" to disable.
	Severity string `json:"severity,omitempty" jsonschema:"enum=off,enum=error,enum=warning,enum=info,enum=style" koanf:"severity"`

	// Fix controls when auto-fixes are applied for this rule.
	Fix FixMode `json:"fix,omitempty" jsonschema:"enum=never,enum=explicit,enum=always,enum=unsafe-only" koanf:"fix"`

	// Exclude contains path patterns where this rule should not run.
	Exclude ExcludeConfig `json:"exclude" koanf:"exclude"`

	// Options contains rule-specific configuration options.
	Options map[string]any `json:"-" koanf:",remain"`
}

// ExcludeConfig defines file exclusion patterns for a rule.
type ExcludeConfig struct {
	Paths []string `json:"paths,omitempty" jsonschema:"description=Glob patterns for files to exclude" koanf:"paths"`
}

// PerFileIgnore mirrors one `[[per-file-ignores]]` TOML array entry.
type PerFileIgnore struct {
	Pattern string   `koanf:"pattern"`
	Ignore  []string `koanf:"ignore"`
	// Negated, when true, means Ignore is instead the only set of
	// selectors *enabled* for files matching Pattern.
	Negated bool `koanf:"negate"`
}

// RulesConfig contains rule selection and per-rule configuration, in
// Ruff-style selector syntax.
//
//	[rules]
//	select = ["C", "S2"]
//	ignore = ["C001"]
//	extend-select = ["T"]
//	preview = false
//
//	[rules.C001]
//	severity = "warning"
//
//	[[rules.per-file-ignores]]
//	pattern = "vendor/**"
//	ignore = ["ALL"]
type RulesConfig struct {
	Select       []string        `json:"select,omitempty" koanf:"select"`
	Ignore       []string        `json:"ignore,omitempty" koanf:"ignore"`
	ExtendSelect []string        `json:"extend-select,omitempty" koanf:"extend-select"`
	ExtendIgnore []string        `json:"extend-ignore,omitempty" koanf:"extend-ignore"`
	Preview      bool            `json:"preview,omitempty" koanf:"preview"`
	PerFile      []PerFileIgnore `json:"per-file-ignores,omitempty" koanf:"per-file-ignores"`

	// Rules holds per-rule overrides, keyed by canonical code (e.g. "C001").
	Rules map[string]RuleConfig `json:"rules,omitempty" koanf:"rules"`
}

// Get returns the configuration for a specific rule code.
// Returns nil if no configuration exists for the rule.
func (rc *RulesConfig) Get(ruleCode string) *RuleConfig {
	if rc == nil || rc.Rules == nil {
		return nil
	}
	if cfg, ok := rc.Rules[ruleCode]; ok {
		return &cfg
	}
	return nil
}

// GetSeverity returns the severity override for a rule, or "" if none.
func (rc *RulesConfig) GetSeverity(ruleCode string) string {
	if cfg := rc.Get(ruleCode); cfg != nil {
		return cfg.Severity
	}
	return ""
}

// GetFixMode returns the fix mode for a rule, defaulting to FixModeAlways.
func (rc *RulesConfig) GetFixMode(ruleCode string) FixMode {
	if cfg := rc.Get(ruleCode); cfg != nil && cfg.Fix != "" {
		return cfg.Fix
	}
	return FixModeAlways
}

// GetOptions returns rule-specific options, or nil if none configured.
// Returns a shallow copy to prevent mutation of internal state.
func (rc *RulesConfig) GetOptions(ruleCode string) map[string]any {
	cfg := rc.Get(ruleCode)
	if cfg == nil || cfg.Options == nil {
		return nil
	}
	out := make(map[string]any, len(cfg.Options))
	for k, v := range cfg.Options {
		out[k] = v
	}
	return out
}
