// Package catalog is the closed, build-time-known rule catalog: category
// prefixes, the redirect table for renamed/merged rule codes, and the
// deprecated-category short-name table. It wraps internal/rules's runtime
// Registry (populated by each rule package's init()) with the lookup rules
// spec'd for rule selection: most-specific-wins resolution reads through
// here before falling back to a literal registry lookup.
package catalog

import (
	"strings"

	"github.com/fortitude-lint/fortitude/internal/rules"
)

// CategoryPrefix maps a category's canonical long name to its short code
// prefix, e.g. "correctness" -> "C".
var CategoryPrefix = map[string]string{
	"error":          "E",
	"filesystem":     "F",
	"style":          "S",
	"typing":         "T",
	"precision":      "P",
	"modules":        "M",
	"correctness":    "C",
	"bugprone":       "B",
	"io":             "IO",
	"readability":    "R",
	"modernisation":  "MOD",
	"obsolescent":    "O",
	"fortitude-meta": "FORT",
}

// Redirects maps a retired rule code to the code it was renamed/merged
// into. Grounded on the original Rust implementation's redirect table
// (e.g. typing rule T031 became correctness rule C061 once fused with an
// overlapping check; T003 became style rule S201 when the "implicit none"
// check moved out of the typing category).
var Redirects = map[string]string{
	"T031": "C061",
	"T003": "S201",
}

// DeprecatedCategoryShortNames maps a retired category short name to its
// replacement category's prefix, for selectors written against an old
// category name (e.g. a config file predating a category rename).
var DeprecatedCategoryShortNames = map[string]string{
	"obs": "O",
}

// Resolve looks up a code, following exactly one redirect hop if the code
// is retired, and returns the live rule plus whether a redirect occurred.
func Resolve(code string) (rule rules.Rule, canonicalCode string, redirected bool) {
	if target, ok := Redirects[strings.ToUpper(code)]; ok {
		return rules.Get(target), target, true
	}
	return rules.Get(code), code, false
}

// IsRetired reports whether code names a rule no longer present under that
// name (it has a redirect entry).
func IsRetired(code string) bool {
	_, ok := Redirects[strings.ToUpper(code)]
	return ok
}

// PrefixForCategory returns a category's short code prefix, following the
// deprecated-category-short-name table if category is itself a retired
// short name.
func PrefixForCategory(category string) (string, bool) {
	lower := strings.ToLower(category)
	if prefix, ok := CategoryPrefix[lower]; ok {
		return prefix, true
	}
	if replacement, ok := DeprecatedCategoryShortNames[lower]; ok {
		return replacement, true
	}
	return "", false
}
