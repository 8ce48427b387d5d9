// Copyright © 2024 The ELPS authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterExcludes_ByName(t *testing.T) {
	paths := []string{
		"src/main.blp",
		"src/generated.blp",
		"lib/dialog.blp",
	}
	result := filterExcludes(paths, []string{"generated.blp"})
	assert.Equal(t, []string{"src/main.blp", "lib/dialog.blp"}, result)
}

func TestFilterExcludes_ByDirectory(t *testing.T) {
	paths := []string{
		"src/main.blp",
		"build/output.blp",
		"build/sub/deep.blp",
		"lib/dialog.blp",
	}
	result := filterExcludes(paths, []string{"build"})
	assert.Equal(t, []string{"src/main.blp", "lib/dialog.blp"}, result)
}

func TestFilterExcludes_GlobPattern(t *testing.T) {
	paths := []string{
		"src/main.blp",
		"src/generated_foo.blp",
		"src/generated_bar.blp",
		"lib/dialog.blp",
	}
	result := filterExcludes(paths, []string{"generated_*"})
	assert.Equal(t, []string{"src/main.blp", "lib/dialog.blp"}, result)
}

func TestFilterExcludes_NoMatches(t *testing.T) {
	paths := []string{"src/main.blp", "lib/dialog.blp"}
	result := filterExcludes(paths, []string{"nonexistent"})
	assert.Equal(t, paths, result)
}

func TestFilterExcludes_EmptyExcludes(t *testing.T) {
	paths := []string{"src/main.blp"}
	assert.Equal(t, paths, filterExcludes(paths, nil))
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny("src/main.blp", []string{"src/*.blp"}))
	assert.False(t, matchesAny("lib/main.blp", []string{"src/*.blp"}))
	assert.True(t, matchesAny("deep/nested/window.blp", []string{"window.blp"}))
	assert.True(t, matchesAny("project/build/output.blp", []string{"build"}))
	assert.False(t, matchesAny("project/src/output.blp", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c.blp"}, splitPath("a/b/c.blp"))
	assert.Equal(t, []string{"a", "b"}, splitPath("/a//b/"))
}

func TestExpandArgs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.blp", "sub/b.blp", "sub/c.ui", "skip/d.blp"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}

	got, err := expandArgs([]string{dir + "/...", "other.blp"}, []string{"skip"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.blp"),
		filepath.Join(dir, "sub", "b.blp"),
		"other.blp",
	}, got)

	_, err = expandArgs([]string{filepath.Join(dir, "missing") + "/..."}, nil)
	assert.Error(t, err)
}
