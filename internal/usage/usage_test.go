package usage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		msg  string
		kind ErrorKind
	}{
		{
			name: "unrecognized",
			err:  Unrecognized([]string{"a", "--b"}),
			msg:  "unrecognized arguments: a --b",
			kind: ErrUnrecognized,
		},
		{
			name: "missing",
			err:  MissingArgument("bar", "--foo"),
			msg:  "the following arguments are required: bar, --foo",
			kind: ErrMissingArgument,
		},
		{
			name: "expected",
			err:  ExpectedValue("--foo", "one argument"),
			msg:  "argument --foo: expected one argument",
			kind: ErrExpectedValue,
		},
		{
			name: "invalid value",
			err:  InvalidValue("--n", "int", "x"),
			msg:  "argument --n: invalid int value: 'x'",
			kind: ErrInvalidValue,
		},
		{
			name: "invalid choice",
			err:  InvalidChoice("--c", "'x'", "'a', 'b'"),
			msg:  "argument --c: invalid choice: 'x' (choose from 'a', 'b')",
			kind: ErrInvalidChoice,
		},
		{
			name: "unknown command",
			err:  UnknownCommand("command", "buld", []string{"build", "run"}),
			msg:  "argument command: invalid choice: 'buld' (choose from 'build', 'run')",
			kind: ErrUnknownCommand,
		},
		{
			name: "unknown key",
			err:  UnknownKey("a.b", "c"),
			msg:  "no such key: a.b, c",
			kind: ErrUnknownKey,
		},
		{
			name: "ambiguous",
			err:  AmbiguousOption("--f", []string{"--foo", "--fee"}),
			msg:  "ambiguous option: --f could match --foo, --fee",
			kind: ErrAmbiguousOption,
		},
		{
			name: "explicit",
			err:  ExplicitValue("--flag", "x"),
			msg:  "argument --flag: ignored explicit argument 'x'",
			kind: ErrExplicitValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.msg, tt.err.Error())
			require.Equal(t, tt.kind, tt.err.Kind)
			require.Equal(t, 2, tt.err.GetExitCode())
		})
	}
}

func TestUnknownCommand_Suggestions(t *testing.T) {
	err := UnknownCommand("command", "buld", []string{"build"}, "build")
	require.Contains(t, err.Error(), "The most similar command is\n\tbuild")

	err = UnknownCommand("command", "rn", []string{"run", "rm"}, "rm", "run")
	require.Contains(t, err.Error(), "The most similar commands are\n\trm\n\trun")
}

func TestGetExitCode(t *testing.T) {
	require.Equal(t, 1, (&Error{Kind: ErrUnknown}).GetExitCode())
	require.Equal(t, 7, (&Error{Kind: ErrUnrecognized, ExitCode: 7}).GetExitCode())
	require.Equal(t, 1, (&Error{Kind: ErrorKind(99)}).GetExitCode())
}
