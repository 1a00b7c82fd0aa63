// Package discovery resolves CLI arguments (files, directories, globs) into
// a deduplicated, sorted list of Fortran source files to check.
package discovery

import (
	"cmp"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/fortitude-lint/fortitude/internal/check"
)

// DefaultPatterns returns the glob patterns matched when searching a
// directory, covering the standard free-form Fortran source extensions.
func DefaultPatterns() []string {
	return []string{
		"*.f90", "*.f95", "*.f03", "*.f08", "*.f18",
		"*.F90", "*.F95", "*.F03", "*.F08", "*.F18",
	}
}

// Options configures file discovery.
type Options struct {
	// Patterns are the glob patterns matched when searching a directory.
	// Defaults to DefaultPatterns() when empty.
	Patterns []string

	// ExcludePatterns are doublestar glob patterns to exclude from results.
	ExcludePatterns []string
}

// Discover resolves inputs (file paths, directories, or glob patterns) into
// a sorted list of files, deduplicated by absolute path. Each entry keeps the
// form it was given or matched in (directory searches yield absolute
// paths; explicit files and glob matches may be relative). Explicit file paths are
// included even if their extension isn't a recognized Fortran extension;
// directory and glob expansion only matches Options.Patterns.
func Discover(inputs []string, opts Options) ([]string, error) {
	if len(opts.Patterns) == 0 {
		opts.Patterns = DefaultPatterns()
	}

	seen := make(map[string]bool)
	var results []string

	for _, input := range inputs {
		found, err := discoverInput(input, opts, seen)
		if err != nil {
			return nil, err
		}
		results = append(results, found...)
	}

	slices.SortFunc(results, cmp.Compare)
	return results, nil
}

func discoverInput(input string, opts Options, seen map[string]bool) ([]string, error) {
	if containsGlobChars(input) {
		return globMatches(input, opts, seen)
	}

	info, err := os.Stat(input)
	if err == nil {
		if info.IsDir() {
			return discoverDirectory(input, opts, seen)
		}
		return discoverFile(input, seen)
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	return globMatches(input, opts, seen)
}

func containsGlobChars(path string) bool {
	for _, c := range path {
		switch c {
		case '*', '?', '[', ']':
			return true
		}
	}
	return false
}

func discoverFile(path string, seen map[string]bool) ([]string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if seen[absPath] {
		return nil, nil
	}
	seen[absPath] = true
	return []string{path}, nil
}

func discoverDirectory(dir string, opts Options, seen map[string]bool) ([]string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var results []string
	for _, pattern := range opts.Patterns {
		full := filepath.Join(absDir, "**", pattern)
		matches, err := globMatches(full, opts, seen)
		if err != nil {
			return nil, err
		}
		results = append(results, matches...)
	}
	return results, nil
}

func globMatches(pattern string, opts Options, seen map[string]bool) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	var results []string
	for _, match := range matches {
		absPath, err := filepath.Abs(match)
		if err != nil {
			return nil, err
		}
		if isExcluded(absPath, opts.ExcludePatterns) {
			continue
		}
		if seen[absPath] {
			continue
		}
		seen[absPath] = true
		results = append(results, match)
	}
	return results, nil
}

// isExcluded reports whether absPath matches any exclusion pattern.
// Relative patterns are matched at any directory depth.
func isExcluded(absPath string, excludePatterns []string) bool {
	pathSlash := filepath.ToSlash(absPath)

	for _, pattern := range excludePatterns {
		pattern = filepath.ToSlash(pattern)
		if !strings.HasPrefix(pattern, "/") && !strings.HasPrefix(pattern, "**/") {
			pattern = "**/" + pattern
		}
		if matched, err := doublestar.Match(pattern, pathSlash); err == nil && matched {
			return true
		}
		// A pattern naming a directory also excludes everything under it.
		if matched, err := doublestar.Match(pattern+"/**", pathSlash); err == nil && matched {
			return true
		}
	}
	return false
}

// IsStandardExtension re-exports check.IsStandardExtension so discovery
// callers don't need a second import of internal/check just for this.
var IsStandardExtension = check.IsStandardExtension
