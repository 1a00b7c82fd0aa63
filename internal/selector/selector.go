// Package selector parses rule selectors (category names, rule codes,
// code prefixes, "ALL") and resolves a RuleTable: the final enabled/
// disabled state of every rule in the catalog for one lint run, per
// spec'd most-specific-wins semantics.
package selector

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fortitude-lint/fortitude/internal/catalog"
	"github.com/fortitude-lint/fortitude/internal/rules"
)

// Kind classifies what a Selector matches.
type Kind int

const (
	KindAll Kind = iota
	KindCategory
	KindPrefix
	KindCode
	KindName
)

// Selector is one parsed entry from a select/ignore/extend-select list.
type Selector struct {
	Kind  Kind
	Raw   string
	Value string // normalized category prefix, code prefix, exact code, or rule name
}

// ParseSelector recognizes "ALL", a category long/short name, a rule long
// name, an exact rule code, or a non-empty code prefix.
func ParseSelector(raw string) (Selector, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Selector{}, fmt.Errorf("selector: empty selector")
	}
	if strings.EqualFold(trimmed, "ALL") {
		return Selector{Kind: KindAll, Raw: raw, Value: "ALL"}, nil
	}
	if prefix, ok := catalog.PrefixForCategory(trimmed); ok {
		return Selector{Kind: KindCategory, Raw: raw, Value: prefix}, nil
	}
	if isExactCode(trimmed) {
		return Selector{Kind: KindCode, Raw: raw, Value: strings.ToUpper(trimmed)}, nil
	}
	if looksLikeRuleName(trimmed) {
		return Selector{Kind: KindName, Raw: raw, Value: strings.ToLower(trimmed)}, nil
	}
	// Anything else is treated as a code prefix, e.g. "C0" matching C001..C099.
	return Selector{Kind: KindPrefix, Raw: raw, Value: strings.ToUpper(trimmed)}, nil
}

// isExactCode reports whether s is a category-prefix-plus-digits code that
// names a live or redirected rule exactly.
func isExactCode(s string) bool {
	upper := strings.ToUpper(s)
	for _, prefix := range categoryPrefixesLongestFirst() {
		if strings.HasPrefix(upper, prefix) {
			suffix := upper[len(prefix):]
			if suffix != "" && isAllDigits(suffix) {
				return rules.Get(upper) != nil || catalog.IsRetired(upper)
			}
		}
	}
	return false
}

func looksLikeRuleName(s string) bool {
	lower := strings.ToLower(s)
	for _, r := range rules.All() {
		if r.Metadata().Name == lower {
			return true
		}
	}
	return false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func categoryPrefixesLongestFirst() []string {
	prefixes := make([]string, 0, len(catalog.CategoryPrefix))
	for _, p := range catalog.CategoryPrefix {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })
	return prefixes
}

// Specificity orders selectors for most-specific-wins resolution: exact
// code/name beats a prefix, which beats a category, which beats ALL. Ties
// (e.g. two prefixes) are broken by string length, longer wins.
func (s Selector) Specificity() int {
	switch s.Kind {
	case KindCode, KindName:
		return 300 + len(s.Value)
	case KindPrefix:
		return 200 + len(s.Value)
	case KindCategory:
		return 100 + len(s.Value)
	default:
		return 0
	}
}

// Matches reports whether the selector applies to a rule with the given
// metadata.
func (s Selector) Matches(m rules.Metadata) bool {
	switch s.Kind {
	case KindAll:
		return true
	case KindCategory:
		return m.Prefix == s.Value
	case KindPrefix:
		return strings.HasPrefix(m.Code(), s.Value)
	case KindCode:
		return m.Code() == s.Value
	case KindName:
		return m.Name == s.Value
	default:
		return false
	}
}

// PerFileIgnore is one `[[per-file-ignores]]` entry: a glob pattern paired
// with selectors to ignore there, optionally negated to mean "only enable
// here" instead.
type PerFileIgnore struct {
	Pattern  string
	Ignore   []string
	Negated  bool
}

// RuleTable is the fully-resolved enabled/disabled state for every rule in
// the catalog, for one lint run against one file.
type RuleTable struct {
	enabled map[string]bool
}

// Enabled reports whether code is enabled in this table.
func (t RuleTable) Enabled(code string) bool {
	return t.enabled[code]
}

// EnabledRules returns all enabled rules from the registry, sorted by code.
func (t RuleTable) EnabledRules() []rules.Rule {
	var out []rules.Rule
	for _, r := range rules.All() {
		if t.enabled[r.Metadata().Code()] {
			out = append(out, r)
		}
	}
	return out
}

// Options bundles the resolution inputs.
type Options struct {
	Select       []string
	Ignore       []string
	ExtendSelect []string
	ExtendIgnore []string
	PerFile      []PerFileIgnore
	Preview      bool
	Path         string
}

// taggedSelector is one parsed selector together with the effect it would
// have (want) and which list it came from, so that a tie in Specificity
// falls back to list order instead of being arbitrary.
type taggedSelector struct {
	sel      Selector
	want     bool
	priority int
}

// listPriority orders the four selector lists for tie-breaking only: when
// two selectors of equal specificity both match a rule, the one from the
// higher-priority list wins. This mirrors the lists' natural "more specific
// intent" ordering (an extend-ignore is a deliberate, narrow override) but
// never lets a lower-specificity selector beat a higher-specificity one
// from an earlier list.
const (
	prioritySelect = iota
	priorityIgnore
	priorityExtendSelect
	priorityExtendIgnore
)

// Resolve implements the selector resolution algorithm:
//  1. Start from the Stable-group default set (Preview/Deprecated/Removed
//     excluded unless Preview is requested, or explicitly selected).
//  2. If `select` is non-empty, the starting set is emptied first; a rule
//     only starts enabled if some selector says so.
//  3. Every selector across `select`, `ignore`, `extend-select`, and
//     `extend-ignore` is compared for each rule by Specificity() across
//     the whole set at once — an exact code or name beats a prefix, which
//     beats a category, which beats ALL, regardless of which list it came
//     from. Equal specificity falls back to list order (select < ignore <
//     extend-select < extend-ignore).
//  4. Apply matching per-file-ignores for Path, last-match-wins among
//     overlapping patterns, most-specific selector wins within a pattern.
//  5. A retired code anywhere in the above is resolved through
//     catalog.Redirects before being applied, and logged once as a warning
//     by the caller.
func Resolve(opts Options) (RuleTable, []string) {
	var warnings []string
	redirect := func(code string) string {
		if isCode(code) {
			if target, ok := catalog.Redirects[strings.ToUpper(code)]; ok {
				warnings = append(warnings, fmt.Sprintf("%s is a redirect to %s", code, target))
				return target
			}
		}
		return code
	}

	state := make(map[string]bool, len(rules.All()))
	for _, r := range rules.All() {
		m := r.Metadata()
		state[m.Code()] = (m.Group == rules.GroupStable) || (opts.Preview && m.Group == rules.GroupPreview)
	}
	if len(opts.Select) > 0 {
		for code := range state {
			state[code] = false
		}
	}

	parseTagged := func(list []string, want bool, priority int) []taggedSelector {
		out := make([]taggedSelector, 0, len(list))
		for _, raw := range list {
			sel, err := ParseSelector(redirect(raw))
			if err != nil {
				continue
			}
			out = append(out, taggedSelector{sel: sel, want: want, priority: priority})
		}
		return out
	}

	var all []taggedSelector
	all = append(all, parseTagged(opts.Select, true, prioritySelect)...)
	all = append(all, parseTagged(opts.Ignore, false, priorityIgnore)...)
	all = append(all, parseTagged(opts.ExtendSelect, true, priorityExtendSelect)...)
	all = append(all, parseTagged(opts.ExtendIgnore, false, priorityExtendIgnore)...)

	for _, r := range rules.All() {
		meta := r.Metadata()
		matched := false
		var best taggedSelector
		for _, ts := range all {
			if !ts.sel.Matches(meta) {
				continue
			}
			if !matched ||
				ts.sel.Specificity() > best.sel.Specificity() ||
				(ts.sel.Specificity() == best.sel.Specificity() && ts.priority >= best.priority) {
				best = ts
				matched = true
			}
		}
		if matched {
			state[meta.Code()] = best.want
		}
	}

	applyList := func(list []string, want bool) {
		parsed := make([]Selector, 0, len(list))
		for _, raw := range list {
			sel, err := ParseSelector(redirect(raw))
			if err != nil {
				continue
			}
			parsed = append(parsed, sel)
		}
		sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].Specificity() < parsed[j].Specificity() })
		for _, sel := range parsed {
			for _, r := range rules.All() {
				if sel.Matches(r.Metadata()) {
					state[r.Metadata().Code()] = want
				}
			}
		}
	}

	for _, pf := range opts.PerFile {
		ok, err := doublestar.Match(pf.Pattern, opts.Path)
		if err != nil || !ok {
			continue
		}
		applyList(pf.Ignore, pf.Negated)
	}

	return RuleTable{enabled: state}, warnings
}

func isCode(s string) bool {
	upper := strings.ToUpper(s)
	for _, prefix := range categoryPrefixesLongestFirst() {
		if strings.HasPrefix(upper, prefix) && isAllDigits(upper[len(prefix):]) {
			return true
		}
	}
	return false
}
