package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/footprint-tools/argutil/internal/testutil"
	"github.com/footprint-tools/argutil/internal/tui"
	"github.com/footprint-tools/argutil/internal/ui/style"
)

func runCLI(t *testing.T, c *cli, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	if c == nil {
		c = newCLI(&stdout, &stderr)
	} else {
		c.stdout, c.stderr = &stdout, &stderr
	}
	code := c.run(args)
	return stdout.String(), stderr.String(), code
}

func TestVersion(t *testing.T) {
	testutil.Home(t)
	out, _, code := runCLI(t, nil, "version")
	require.Equal(t, 0, code)
	require.Equal(t, "argutil version 1.2.0\n", out)
}

func TestUsageErrors(t *testing.T) {
	testutil.Home(t)

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"no command", nil, 2, "argutil: error: a command is required"},
		{"unknown command", []string{"shwo"}, 2, "invalid choice: 'shwo'"},
		{"missing module", []string{"show"}, 2, "the following arguments are required: module"},
		{"bad log level", []string{"--log-level", "loud", "version"}, 2, "invalid choice: 'loud'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := runCLI(t, nil, tt.args...)
			require.Equal(t, tt.code, code)
			require.Contains(t, errOut, tt.want)
			require.Contains(t, errOut, "usage: ")
		})
	}
}

func TestHelp(t *testing.T) {
	home := testutil.Home(t)

	out, _, code := runCLI(t, nil, "--help")
	require.Equal(t, 0, code)
	require.Contains(t, out, "usage: argutil [-h] [-C DIR]")
	require.Contains(t, out, "{init,add-argument,add-example,config,show,parse,completions,version}")
	require.Contains(t, out, "examples:\n    init deploy --stub deploy/main.go")

	out, _, code = runCLI(t, nil, "config", "-h")
	require.Equal(t, 0, code)
	require.Contains(t, out, filepath.Join(home, "defaults.json"))
}

func TestModuleWorkflow(t *testing.T) {
	testutil.Home(t)
	dir := t.TempDir()
	definitions := filepath.Join(dir, "commandline.json")

	out, errOut, code := runCLI(t, nil, "-C", dir, "init", "tool")
	require.Equal(t, 0, code, errOut)
	require.Equal(t, "initialized tool in "+definitions+"\n", out)

	_, errOut, code = runCLI(t, nil, "-C", dir, "init", "tool")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, `module "tool" already defined`)

	_, _, code = runCLI(t, nil, "-C", dir, "init", "--force", "tool")
	require.Equal(t, 0, code)

	_, errOut, code = runCLI(t, nil, "-C", dir, "add-argument", "tool",
		"--short=-c", "--type", "int", "--default=1", "-m", "how many", "--", "--count")
	require.Equal(t, 0, code, errOut)

	_, errOut, code = runCLI(t, nil, "-C", dir, "arg", "tool", "--choices", "fast", "slow", "--", "--mode")
	require.Equal(t, 0, code, errOut)

	_, errOut, code = runCLI(t, nil, "-C", dir, "add-example", "tool", "tool -c 2", "count to two")
	require.Equal(t, 0, code, errOut)

	require.JSONEq(t, `{"modules": {"tool": {
		"examples": [{"usage": "tool -c 2", "description": "count to two"}],
		"args": [
			{"short": "-c", "long": "--count", "default": 1, "type": "int", "help": ["how many"]},
			{"long": "--mode", "choices": ["fast", "slow"], "help": []}
		]
	}}}`, testutil.ReadFile(t, definitions))

	_, errOut, code = runCLI(t, nil, "-C", dir, "config", "tool", "count=3", "mode=fast")
	require.Equal(t, 0, code, errOut)

	out, _, code = runCLI(t, nil, "-C", dir, "config", "tool")
	require.Equal(t, 0, code)
	require.Equal(t, "count=3\nmode=fast\n", out)

	out, _, code = runCLI(t, nil, "-C", dir, "config", "tool", "--yaml")
	require.Equal(t, 0, code)
	require.Equal(t, "count: 3\nmode: fast\n", out)

	out, errOut, code = runCLI(t, nil, "-C", dir, "parse", "tool")
	require.Equal(t, 0, code, errOut)
	require.JSONEq(t, `{"count": 3, "mode": "fast"}`, out)

	out, errOut, code = runCLI(t, nil, "-C", dir, "parse", "tool", "--", "-c", "5", "--mode", "slow")
	require.Equal(t, 0, code, errOut)
	require.JSONEq(t, `{"count": 5, "mode": "slow"}`, out)

	_, errOut, code = runCLI(t, nil, "-C", dir, "parse", "tool", "--", "-c", "x")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "usage: tool")
	require.Contains(t, errOut, "tool: error: argument -c/--count: invalid int value: 'x'")

	out, _, code = runCLI(t, nil, "-C", dir, "show", "tool")
	require.Equal(t, 0, code)
	require.Contains(t, out, "tool "+definitions)
	require.Contains(t, out, `"long": "--count"`)
	require.Contains(t, out, "  count=3\n")

	out, _, code = runCLI(t, nil, "-C", dir, "config", "tool", "--unset", "count")
	require.Equal(t, 0, code)
	require.Equal(t, "unset count\n", out)

	_, errOut, code = runCLI(t, nil, "-C", dir, "config", "tool", "--unset", "count")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "no such key: count")
}

func TestAddArgument_Invalid(t *testing.T) {
	testutil.Home(t)
	dir := t.TempDir()
	_, _, code := runCLI(t, nil, "-C", dir, "init", "tool")
	require.Equal(t, 0, code)

	_, errOut, code := runCLI(t, nil, "-C", dir, "add-argument", "tool", "--nargs", "many", "--", "--x")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "schema violation")

	_, errOut, code = runCLI(t, nil, "-C", dir, "add-argument", "other", "--", "--x")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "not found")
}

func TestParse_MissingDefinitions(t *testing.T) {
	testutil.Home(t)
	_, errOut, code := runCLI(t, nil, "-C", t.TempDir(), "parse", "tool")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "definitions file not found")
}

func TestInit_Stub(t *testing.T) {
	testutil.Home(t)
	dir := t.TempDir()

	_, errOut, code := runCLI(t, nil, "-C", dir, "init", "tool", "--stub", "tool/main.go")
	require.Equal(t, 1, code, "stub directory does not exist yet")
	require.Contains(t, errOut, "write stub")

	require.NoError(t, os.Mkdir(filepath.Join(dir, "tool"), 0755))
	_, errOut, code = runCLI(t, nil, "-C", dir, "init", "tool", "--stub", "tool/main.go")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, testutil.ReadFile(t, filepath.Join(dir, "tool", "main.go")), "argutil.New(file).MustParser(nil)")
	require.Contains(t, testutil.ReadFile(t, filepath.Join(dir, "commandline.json")), `"tool"`)
}

func TestGlobalConfig(t *testing.T) {
	home := testutil.Home(t)
	dir := t.TempDir()

	_, errOut, code := runCLI(t, nil, "config", "--global", "dir="+dir, "no_pager=true")
	require.Equal(t, 0, code, errOut)
	require.JSONEq(t, `{"argutil": {"dir": "`+dir+`", "no_pager": true}}`, testutil.ReadFile(t, filepath.Join(home, "defaults.json")))

	out, _, code := runCLI(t, nil, "config", "--global")
	require.Equal(t, 0, code)
	require.Equal(t, "dir="+dir+"\nno_pager=true\n", out)

	// the persisted --dir applies without -C
	out, errOut, code = runCLI(t, nil, "init", "tool")
	require.Equal(t, 0, code, errOut)
	require.Equal(t, "initialized tool in "+filepath.Join(dir, "commandline.json")+"\n", out)
}

func TestConfig_Interactive(t *testing.T) {
	testutil.Home(t)
	dir := t.TempDir()
	_, _, code := runCLI(t, nil, "-C", dir, "init", "tool")
	require.Equal(t, 0, code)
	_, _, code = runCLI(t, nil, "-C", dir, "add-argument", "tool", "--", "--count")
	require.Equal(t, 0, code)

	_, errOut, code := runCLI(t, nil, "-C", dir, "config", "tool", "-i")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "needs a terminal")

	var gotFields []tui.Field
	c := newCLI(nil, nil)
	c.isTerminal = func() bool { return true }
	c.editor = func(title string, fields []tui.Field, values map[string]any, save tui.SaveFunc) (tui.Result, error) {
		require.Equal(t, "tool defaults", title)
		gotFields = fields
		require.NoError(t, save(map[string]any{"count": int64(9)}))
		return tui.Result{Changed: true}, nil
	}

	out, errOut, code := runCLI(t, c, "-C", dir, "config", "tool", "-i")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "saved ")
	require.Equal(t, []tui.Field{{Key: "count"}}, gotFields)

	out, _, code = runCLI(t, nil, "-C", dir, "config", "tool")
	require.Equal(t, 0, code)
	require.Equal(t, "count=9\n", out)
}

func TestCompletions(t *testing.T) {
	testutil.Home(t)

	out, errOut, code := runCLI(t, nil, "completions")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "complete -o default -F _argutil_completions argutil")
	require.Contains(t, out, `"argutil add-argument"`)

	dir := t.TempDir()
	_, _, code = runCLI(t, nil, "-C", dir, "init", "tool")
	require.Equal(t, 0, code)
	_, _, code = runCLI(t, nil, "-C", dir, "add-argument", "tool", "-m", "how many", "--", "--count")
	require.Equal(t, 0, code)

	out, errOut, code = runCLI(t, nil, "-C", dir, "completions", "tool", "--shell", "fish")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "complete -c tool -l count -r -d 'how many'")

	_, errOut, code = runCLI(t, nil, "completions", "--shell", "tcsh")
	require.Equal(t, 2, code)
	require.Contains(t, errOut, "invalid choice: 'tcsh'")
}

func TestFlagHelpers(t *testing.T) {
	args := []string{"-C", "dir", "--no-pager", "--log-level=debug", "parse", "--", "--no-color"}

	flags := extractFlags(args)
	require.Equal(t, []string{"-C", "--no-pager", "--log-level=debug"}, flags)
	require.True(t, hasFlag(flags, "--no-pager"))
	require.False(t, hasFlag(flags, "--no-color"))

	require.Equal(t, "debug", flagValue(args, "--log-level", "warn"))
	require.Equal(t, "info", flagValue([]string{"--log-level", "info"}, "--log-level", "warn"))
	require.Equal(t, "warn", flagValue([]string{"--", "--log-level", "info"}, "--log-level", "warn"))

	require.Equal(t, "x", stringValue("x", "y"))
	require.Equal(t, "y", stringValue(3, "y"))
}

func TestDirValue(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", []string{"show", "tool"}, base},
		{"short separate", []string{"-C", other, "show"}, other},
		{"short joined", []string{"-C" + other, "show"}, other},
		{"long separate", []string{"--dir", other, "show"}, other},
		{"long equals", []string{"--dir=" + other}, other},
		{"abbreviation", []string{"--di", other}, other},
		{"last wins", []string{"-C", base, "--dir", other}, other},
		{"after separator", []string{"parse", "tool", "--", "-C", other}, base},
		{"ambiguous prefix", []string{"--d", other}, base},
		{"missing value", []string{"-C"}, base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, dirValue(tt.args, base))
		})
	}
}

func TestShow_ReadsThroughStore(t *testing.T) {
	home := testutil.Home(t)
	dir := t.TempDir()

	_, errOut, code := runCLI(t, nil, "--dir="+dir, "show", "tool")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "definitions file not found: "+filepath.Join(dir, "commandline.json"))

	_, _, code = runCLI(t, nil, "-C", dir, "init", "tool")
	require.Equal(t, 0, code)

	_, errOut, code = runCLI(t, nil, "-C", dir, "show", "other")
	require.Equal(t, 1, code)
	require.Contains(t, errOut, "no entry for other")

	testutil.WriteFile(t, filepath.Join(dir, "defaults.json"), `{"tool": {"a": {"b": 1}}}`)
	testutil.WriteFile(t, filepath.Join(home, "defaults.json"), `{"argutil": {"dir": "`+dir+`"}}`)

	out, errOut, code := runCLI(t, nil, "show", "tool")
	require.Equal(t, 0, code, errOut)
	require.Contains(t, out, "tool "+filepath.Join(dir, "commandline.json"))
	require.Contains(t, out, "defaults "+filepath.Join(dir, "defaults.json"))
	require.Contains(t, out, "  a.b=1\n")
}

func TestThemeAndPagerOptions(t *testing.T) {
	home := testutil.Home(t)
	t.Setenv("NO_COLOR", "")
	t.Setenv("ARGUTIL_NO_COLOR", "")
	t.Setenv("ARGUTIL_COLOR_THEME", "")
	t.Cleanup(func() { style.Init(false, "") })

	color := func() *cli {
		c := newCLI(nil, nil)
		c.colorTerminal = true
		return c
	}

	_, errOut, code := runCLI(t, color(), "--theme", "mono-dark", "--pager", "cat", "version")
	require.Equal(t, 0, code, errOut)
	require.True(t, style.Enabled())
	require.Equal(t, style.Themes["mono-dark"], style.GetColors())

	testutil.WriteFile(t, filepath.Join(home, "defaults.json"), `{"argutil": {"theme": "contrast-light"}}`)
	_, _, code = runCLI(t, color(), "version")
	require.Equal(t, 0, code)
	require.Equal(t, style.Themes["contrast-light"], style.GetColors())

	_, _, code = runCLI(t, color(), "--no-color", "--theme", "mono-dark", "version")
	require.Equal(t, 0, code)
	require.False(t, style.Enabled())
}
