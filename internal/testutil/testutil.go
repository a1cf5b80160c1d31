// Package testutil holds helpers shared by tests that touch the filesystem
// or the per-user configuration directory.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Home points the per-user configuration directory at a fresh temp dir and
// clears the environment variables that change logging and colour output.
func Home(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("ARGUTIL_HOME", home)
	t.Setenv("ARGUTIL_LOG", "")
	t.Setenv("NO_COLOR", "1")
	return home
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755), "failed to create %s", filepath.Dir(path))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644), "failed to write %s", path)
}

// ReadFile returns the contents of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read %s", path)
	return string(data)
}
