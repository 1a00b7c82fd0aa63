// Package source models one file being linted: its path, raw bytes, and a
// derived line index. Parsing (internal/fortran) and the symbol table
// (internal/symtab) build on top of what this package loads.
package source

import (
	"fmt"
	"os"

	"github.com/fortitude-lint/fortitude/internal/sourcemap"
)

// MaxFileSize is the largest file Fortitude will read. Guards against
// pathological inputs (e.g. a generated file in a build directory)
// consuming unbounded memory in the byte-offset-based fix engine, whose
// Position.Offset fields are plain int and would silently wrap past this.
const MaxFileSize = 4 << 30 // 4 GiB

// File is one loaded source file plus its derived line index.
type File struct {
	Path   string
	Source []byte
	sm     *sourcemap.SourceMap
}

// Load reads path from disk, enforcing MaxFileSize.
func Load(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source: stat %s: %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("source: %s is %d bytes, exceeds the %d byte limit", path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	return New(path, data), nil
}

// New wraps already-loaded bytes as a File, without re-reading from disk.
// Used by the LSP bridge, which receives document contents over the wire.
func New(path string, data []byte) *File {
	return &File{Path: path, Source: data}
}

// Locator returns the file's line index, computed lazily on first use.
func (f *File) Locator() *sourcemap.SourceMap {
	if f.sm == nil {
		f.sm = sourcemap.New(f.Source)
	}
	return f.sm
}
