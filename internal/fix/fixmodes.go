package fix

import "github.com/fortitude-lint/fortitude/internal/config"

// BuildFixModes extracts per-rule fix mode settings from a config,
// keyed by canonical rule code (e.g. "C001").
//
// Nil is returned when cfg is nil.
func BuildFixModes(cfg *config.Config) map[string]FixMode {
	if cfg == nil {
		return nil
	}

	modes := make(map[string]FixMode)
	for code, ruleCfg := range cfg.Rules.Rules {
		if ruleCfg.Fix == "" {
			continue
		}
		modes[code] = ruleCfg.Fix
	}
	return modes
}
