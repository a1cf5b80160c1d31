package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/log"
	"github.com/footprint-tools/argutil/internal/store"
	"github.com/footprint-tools/argutil/internal/ui/style"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	require.True(t, opts.StyleEnabled)
	require.Equal(t, log.LevelWarn, opts.LogLevel)
	require.Equal(t, ".", opts.Dir)
}

func TestNew_WithOptions(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARGUTIL_HOME", dir)
	t.Setenv("NO_COLOR", "1")

	var stdout, stderr bytes.Buffer
	app := New(Options{
		Dir:           dir,
		Stdout:        &stdout,
		Stderr:        &stderr,
		PagerDisabled: true,
		LogLevel:      log.LevelInfo,
		StyleEnabled:  true,
	})
	defer func() { _ = Close(app) }()

	require.Equal(t, dir, app.Store.(*store.Store).Dir())
	require.False(t, app.Styler.Enabled())

	app.Logger.Debug("hidden")
	app.Logger.Info("shown")
	require.Equal(t, "argutil: info: shown\n", stderr.String())
}

func TestNew_WithLogFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARGUTIL_HOME", dir)

	var stderr bytes.Buffer
	app := New(Options{Dir: dir, Stderr: &stderr, LogLevel: log.LevelError, LogFile: true})

	app.Logger.Debug("to the file only")
	require.NoError(t, Close(app))
	require.Empty(t, stderr.String())

	data, err := os.ReadFile(filepath.Join(dir, "argutil.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "DEBUG: to the file only")
}

func TestNew_ThemeAndPager(t *testing.T) {
	t.Setenv("ARGUTIL_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "")
	t.Setenv("ARGUTIL_NO_COLOR", "")
	t.Setenv("ARGUTIL_COLOR_THEME", "")
	t.Cleanup(func() { style.Init(false, "") })

	var stdout bytes.Buffer
	app := New(Options{
		Dir:           t.TempDir(),
		Stdout:        &stdout,
		PagerOverride: "cat",
		StyleEnabled:  true,
		Theme:         "mono-dark",
	})
	defer func() { _ = Close(app) }()

	require.True(t, app.Styler.Enabled())
	require.Equal(t, style.Themes["mono-dark"], style.GetColors())

	// not a terminal, so the override pager is bypassed
	app.Output.Pager("page")
	require.Equal(t, "page", stdout.String())
}

func TestNew_StoreReadsFromDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NO_COLOR", "1")
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.DefaultsFile), []byte(`{"tool": {"a": 1}}`), 0644))

	app := New(Options{Dir: dir, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	defer func() { _ = Close(app) }()

	doc, err := app.Store.LoadDefaults(store.DefaultsFile, domain.ModeAppend)
	require.NoError(t, err)
	require.Equal(t, map[string]any{"a": int64(1)}, doc.Module("tool"))
	require.Equal(t, filepath.Join(dir, store.DefaultsFile), app.Store.Path(store.DefaultsFile))
}
