package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPatterns(t *testing.T) {
	t.Parallel()
	patterns := DefaultPatterns()
	require.NotEmpty(t, patterns)

	expected := []string{"*.f90", "*.F90", "*.f08", "*.F18"}
	for _, p := range expected {
		assert.Contains(t, patterns, p)
	}
}

func TestDiscoverFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "main.f90")
	require.NoError(t, os.WriteFile(path, []byte("program p\nend program\n"), 0o644))

	results, err := Discover([]string{path}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, path, results[0])
}

func TestDiscoverDirectory(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.f90"), []byte("program a\nend program\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "b.F08"), []byte("program b\nend program\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("not fortran"), 0o644))

	results, err := Discover([]string{tmpDir}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	absA, err := filepath.Abs(filepath.Join(tmpDir, "a.f90"))
	require.NoError(t, err)
	absB, err := filepath.Abs(filepath.Join(tmpDir, "b.F08"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{absA, absB}, results)
}

func TestDiscoverDeduplicatesAndSorts(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "z.f90")
	require.NoError(t, os.WriteFile(path, []byte("program z\nend program\n"), 0o644))
	other := filepath.Join(tmpDir, "a.f90")
	require.NoError(t, os.WriteFile(other, []byte("program a\nend program\n"), 0o644))

	results, err := Discover([]string{path, tmpDir, path}, Options{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0] < results[1], "results should be sorted")
}

func TestDiscoverExcludePatterns(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	vendorDir := filepath.Join(tmpDir, "vendor")
	require.NoError(t, os.MkdirAll(vendorDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vendorDir, "skip.f90"), []byte("program skip\nend program\n"), 0o644))
	keep := filepath.Join(tmpDir, "keep.f90")
	require.NoError(t, os.WriteFile(keep, []byte("program keep\nend program\n"), 0o644))

	results, err := Discover([]string{tmpDir}, Options{ExcludePatterns: []string{"vendor"}})
	require.NoError(t, err)
	require.Len(t, results, 1)

	absKeep, err := filepath.Abs(keep)
	require.NoError(t, err)
	assert.Equal(t, absKeep, results[0])
}
