package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/footprint-tools/argutil/argparse"
	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/types"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func mustModule(t *testing.T, js string) *domain.Module {
	t.Helper()
	var m domain.Module
	require.NoError(t, json.Unmarshal([]byte(js), &m))
	return &m
}

func build(t *testing.T, js string, defaults map[string]any, env Env) (*argparse.Parser, *bytes.Buffer, error) {
	t.Helper()
	var out bytes.Buffer
	p, err := Build("root", mustModule(t, js), defaults, Options{Env: env, Stdout: &out, Stderr: &out})
	return p, &out, err
}

func subparser(t *testing.T, p *argparse.Parser, name string) *argparse.Parser {
	t.Helper()
	require.NotNil(t, p.Subparsers())
	sub, ok := p.Subparsers().Lookup(name)
	require.True(t, ok, "subcommand %s", name)
	return sub
}

func TestBuild_RegistersEveryArgument(t *testing.T) {
	p, _, err := build(t, `{
		"args": [
			{"long": "--a", "help": ["first", "second"]},
			{"long": "--b", "help": null},
			{"long": "--c"},
			{"long": "pos", "help": ["positional"]}
		]
	}`, nil, nil)
	require.NoError(t, err)

	args := p.Arguments()
	require.Len(t, args, 4)

	want := []struct {
		hidden bool
		help   string
	}{
		{false, "first\nsecond"},
		{true, ""},
		{false, ""},
		{false, "positional"},
	}
	for i, w := range want {
		require.Equal(t, w.hidden, args[i].HideHelp, args[i].Dest)
		require.Equal(t, w.help, args[i].Help, args[i].Dest)
	}
}

func TestBuild_ShortAlias(t *testing.T) {
	p, _, err := build(t, `{"args": [{"short": "-f", "long": "--foo"}]}`, nil, nil)
	require.NoError(t, err)

	ns, err := p.Parse([]string{"-f", "x"})
	require.NoError(t, err)
	require.Equal(t, "x", ns.String("foo", ""))
	require.Equal(t, []string{"-f", "--foo"}, p.Arguments()[0].OptionStrings)
}

func TestBuild_EndToEndSubcommand(t *testing.T) {
	js := `{"modules": {"command": {"args": [{"long": "--foo"}]}}}`

	t.Run("default handler prints help", func(t *testing.T) {
		p, out, err := build(t, js, nil, nil)
		require.NoError(t, err)

		ns, err := p.Parse([]string{"command", "--foo", "bar"})
		require.NoError(t, err)
		require.Equal(t, "bar", ns.String("foo", ""))
		require.Equal(t, "command", ns.Command())

		_, ok := ns.Handler()
		require.True(t, ok)
		require.NoError(t, ns.Dispatch())
		require.Contains(t, out.String(), "usage: command [-h] [--foo FOO]")
	})

	t.Run("environment handler", func(t *testing.T) {
		var got string
		env := Env{"command": func(ns *argparse.Namespace) error {
			got = ns.String("foo", "")
			return nil
		}}
		p, _, err := build(t, js, nil, env)
		require.NoError(t, err)

		ns, err := p.Parse([]string{"command", "--foo", "bar"})
		require.NoError(t, err)
		require.NoError(t, ns.Dispatch())
		require.Equal(t, "bar", got)
	})
}

func TestBuild_Types(t *testing.T) {
	t.Run("builtin int", func(t *testing.T) {
		p, _, err := build(t, `{"args": [{"long": "--n", "type": "int"}]}`, nil, nil)
		require.NoError(t, err)

		ns, err := p.Parse([]string{"--n", "42"})
		require.NoError(t, err)
		n, _ := ns.Get("n")
		require.Equal(t, int64(42), n)
	})

	t.Run("unknown type fails the build", func(t *testing.T) {
		p, _, err := build(t, `{"args": [{"long": "--n", "type": "shoe"}]}`, nil, nil)
		require.Error(t, err)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, p)
	})

	t.Run("environment converter", func(t *testing.T) {
		env := Env{"upper": func(s string) string { return strings.ToUpper(s) }}
		p, _, err := build(t, `{"args": [{"long": "--name", "type": "upper"}]}`, nil, env)
		require.NoError(t, err)

		ns, err := p.Parse([]string{"--name", "bob"})
		require.NoError(t, err)
		require.Equal(t, "BOB", ns.String("name", ""))
	})

	t.Run("argparse converter in environment", func(t *testing.T) {
		env := Env{"twice": argparse.TypeFunc(func(s string) (any, error) { return s + s, nil })}
		p, _, err := build(t, `{"args": [{"long": "--v", "type": "twice"}]}`, nil, env)
		require.NoError(t, err)

		ns, err := p.Parse([]string{"--v", "ab"})
		require.NoError(t, err)
		require.Equal(t, "abab", ns.String("v", ""))
	})

	t.Run("fallback registry", func(t *testing.T) {
		fallback := types.Registry{}
		fallback.Register("shoe", func(s string) (any, error) { return "shoe " + s, nil })

		p, err := Build("root", mustModule(t, `{"args": [{"long": "--n", "type": "shoe"}]}`), nil,
			Options{Fallback: fallback})
		require.NoError(t, err)

		ns, err := p.Parse([]string{"--n", "9"})
		require.NoError(t, err)
		require.Equal(t, "shoe 9", ns.String("n", ""))
	})

	t.Run("conversion error names the type", func(t *testing.T) {
		p, _, err := build(t, `{"args": [{"long": "--n", "type": "int"}]}`, nil, nil)
		require.NoError(t, err)

		_, err = p.Parse([]string{"--n", "x"})
		require.EqualError(t, err, "root: error: argument --n: invalid int value: 'x'")
	})
}

func TestBuild_MissingLong(t *testing.T) {
	p, _, err := build(t, `{"args": [{"short": "-f"}]}`, nil, nil)
	require.True(t, errors.Is(err, domain.ErrSchema))
	require.Nil(t, p)
}

func TestBuild_InvalidRegistration(t *testing.T) {
	_, _, err := build(t, `{"args": [{"long": "--x", "action": "explode"}]}`, nil, nil)
	require.True(t, errors.Is(err, domain.ErrSchema))

	_, _, err = build(t, `{"args": [{"long": "--x"}, {"long": "--x"}]}`, nil, nil)
	require.True(t, errors.Is(err, argparse.ErrConflict))
}

func TestBuild_UnknownTemplate(t *testing.T) {
	p, _, err := build(t, `{"template": "missing", "args": [{"long": "--foo"}]}`, nil, nil)
	require.True(t, errors.Is(err, domain.ErrNotFound))
	require.Nil(t, p)
}

func TestBuild_OwnTemplatesAreForDescendants(t *testing.T) {
	_, _, err := build(t, `{
		"templates": {"t": {"args": [{"long": "--foo"}]}},
		"template": "t"
	}`, nil, nil)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBuild_TemplateScopeIsPerBranch(t *testing.T) {
	_, _, err := build(t, `{
		"modules": {
			"a": {"templates": {"t": {"args": [{"long": "--foo"}]}}},
			"b": {"template": "t"}
		}
	}`, nil, nil)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBuild_TemplateInheritance(t *testing.T) {
	p, _, err := build(t, `{
		"templates": {
			"parent": {
				"args": [{"long": "--foo", "help": ["parent foo"]}, {"long": "--baz"}],
				"examples": [{"usage": "parent usage", "description": "from parent"}]
			},
			"child": {
				"parent": "parent",
				"args": [{"long": "--bar"}, {"long": "--foo", "help": ["child foo"]}],
				"examples": [{"usage": "child usage", "description": "from child"}]
			}
		},
		"modules": {
			"cmd": {
				"template": "child",
				"args": [{"long": "--local"}],
				"examples": [{"usage": "cmd usage", "description": "own"}]
			}
		}
	}`, nil, nil)
	require.NoError(t, err)

	cmd := subparser(t, p, "cmd")

	var dests []string
	for _, a := range cmd.Arguments() {
		dests = append(dests, a.Dest)
	}
	require.Equal(t, []string{"local", "foo", "baz", "bar"}, dests)
	require.Equal(t, "child foo", cmd.Arguments()[1].Help)

	want := "examples:" +
		fmt.Sprintf("\n    %-44s%s", "parent usage", "from parent") +
		fmt.Sprintf("\n    %-44s%s", "child usage", "from child") +
		fmt.Sprintf("\n    %-44s%s", "cmd usage", "own")
	require.Equal(t, want, cmd.Epilog())
}

func TestBuild_ModuleArgumentShadowsTemplate(t *testing.T) {
	p, _, err := build(t, `{
		"templates": {"t": {"args": [{"short": "-f", "long": "--foo", "help": ["template"]}, {"long": "--other"}]}},
		"modules": {"cmd": {"template": "t", "args": [{"long": "--foo", "help": ["module"]}]}}
	}`, nil, nil)
	require.NoError(t, err)

	cmd := subparser(t, p, "cmd")
	args := cmd.Arguments()
	require.Len(t, args, 2)
	require.Equal(t, "module", args[0].Help)
	require.Equal(t, "other", args[1].Dest)
}

func TestBuild_Defaults(t *testing.T) {
	js := `{
		"args": [{"long": "--foo"}],
		"modules": {
			"command": {
				"args": [{"long": "--foo"}, {"long": "--n", "type": "int"}],
				"modules": {"deep": {"args": [{"long": "--level"}]}}
			}
		}
	}`
	defaults := map[string]any{
		"foo": "root-foo",
		"command": map[string]any{
			"foo":  "command-foo",
			"n":    "7",
			"deep": map[string]any{"level": int64(3)},
		},
	}

	p, _, err := build(t, js, defaults, nil)
	require.NoError(t, err)

	ns, err := p.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, "root-foo", ns.String("foo", ""))
	require.False(t, ns.Has("n"), "child defaults are not applied to the parent")
	require.Equal(t, "", ns.Command())

	ns, err = p.Parse([]string{"command"})
	require.NoError(t, err)
	require.Equal(t, "command", ns.Command())
	require.Equal(t, "command-foo", ns.String("foo", ""))
	n, _ := ns.Get("n")
	require.Equal(t, int64(7), n)
	require.False(t, ns.Has("deep"))

	ns, err = p.Parse([]string{"command", "deep"})
	require.NoError(t, err)
	require.Equal(t, "deep", ns.Command())
	level, _ := ns.Get("level")
	require.Equal(t, int64(3), level)
}

func TestBuild_DefaultsInterpolationLeavesCallerDataAlone(t *testing.T) {
	defaults := map[string]any{
		"greeting": "hello {name}",
		"braces":   "{{literal}}",
		"count":    int64(2),
		"command":  map[string]any{"target": "{name}!"},
	}
	before := map[string]any{
		"greeting": "hello {name}",
		"braces":   "{{literal}}",
		"count":    int64(2),
		"command":  map[string]any{"target": "{name}!"},
	}
	env := Env{"name": "bob"}

	p, _, err := build(t, `{
		"args": [{"long": "--greeting"}],
		"modules": {"command": {"args": [{"long": "--target"}]}}
	}`, defaults, env)
	require.NoError(t, err)

	ns, err := p.Parse(nil)
	require.NoError(t, err)
	require.Equal(t, "hello bob", ns.String("greeting", ""))
	require.Equal(t, "{literal}", ns.String("braces", ""))
	require.Equal(t, 2, ns.Int("count", 0))

	ns, err = p.Parse([]string{"command"})
	require.NoError(t, err)
	require.Equal(t, "bob!", ns.String("target", ""))

	if diff := cmp.Diff(before, defaults); diff != "" {
		t.Fatalf("defaults were modified (-want +got):\n%s", diff)
	}
}

func TestBuild_DefaultsUnknownInterpolation(t *testing.T) {
	_, _, err := build(t, `{"args": [{"long": "--g"}]}`, map[string]any{"g": "{missing}"}, nil)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBuild_HelpInterpolation(t *testing.T) {
	p, _, err := build(t, `{"args": [{"long": "--x", "help": ["limit is {limit}", "second"]}]}`, nil, Env{"limit": int64(5)})
	require.NoError(t, err)
	require.Equal(t, "limit is 5\nsecond", p.Arguments()[0].Help)

	_, _, err = build(t, `{"args": [{"long": "--x", "help": ["{nope}"]}]}`, nil, nil)
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBuild_SubcommandMetadata(t *testing.T) {
	p, _, err := build(t, `{
		"modules": {
			"build": {"help": "compile things", "aliases": ["b"]},
			"run": {}
		}
	}`, nil, nil)
	require.NoError(t, err)

	require.Equal(t, []string{"build", "run"}, p.Subparsers().Names())
	_, ok := p.Subparsers().Lookup("b")
	require.True(t, ok)

	help := p.FormatHelp()
	require.Contains(t, help, "{build,run}")
	require.Contains(t, help, "build (b)")
	require.Contains(t, help, "compile things")
}

func TestBuild_NilModule(t *testing.T) {
	_, err := Build("root", nil, nil, Options{})
	require.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestBuild_Logs(t *testing.T) {
	logger := &recordingLogger{}
	_, err := Build("root", mustModule(t, `{"args": [{"long": "--a"}]}`), nil, Options{Logger: logger})
	require.NoError(t, err)
	require.Equal(t, []string{"builder: root: 1 arguments, 0 defaults"}, logger.debug)
}

type recordingLogger struct {
	debug []string
}

func (l *recordingLogger) Debug(format string, args ...any) {
	l.debug = append(l.debug, fmt.Sprintf(format, args...))
}
func (l *recordingLogger) Info(string, ...any)  {}
func (l *recordingLogger) Warn(string, ...any)  {}
func (l *recordingLogger) Error(string, ...any) {}
func (l *recordingLogger) Close() error         { return nil }

func TestFormatExamples(t *testing.T) {
	require.Equal(t, "", FormatExamples(nil))
	got := FormatExamples([]domain.Example{{Usage: "prog --x", Description: "does x"}})
	require.Equal(t, "examples:\n    prog --x"+strings.Repeat(" ", 44-len("prog --x"))+"does x", got)
}

func TestInterpolate(t *testing.T) {
	env := Env{"a": "A", "n": int64(3), "f": 1.5, "b": true}

	tests := []struct {
		in      string
		want    string
		wantErr error
	}{
		{in: "plain", want: "plain"},
		{in: "{a}-{n}", want: "A-3"},
		{in: "{f} {b}", want: "1.5 true"},
		{in: "{{a}}", want: "{a}"},
		{in: "{missing}", wantErr: domain.ErrNotFound},
		{in: "[{a:>4}]", want: "[   A]"},
		{in: "[{a:*^5}]", want: "[**A**]"},
		{in: "[{n:3}] [{a:3}]", want: "[  3] [A  ]"},
		{in: "{n:<4d}|", want: "3   |"},
		{in: "{f:.2f} {n:.1f}", want: "1.50 3.0"},
		{in: "{a!r} {a!s}", want: "'A' A"},
		{in: "{a:.0}", want: ""},
		{in: "{a:d}", wantErr: domain.ErrSchema},
		{in: "{f:d}", wantErr: domain.ErrSchema},
		{in: "{a:x}", wantErr: domain.ErrSchema},
		{in: "{a!x}", wantErr: domain.ErrSchema},
		{in: "{0}", wantErr: domain.ErrNotFound},
		{in: "open {", wantErr: domain.ErrSchema},
		{in: "close }", wantErr: domain.ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Interpolate(tt.in, env)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
