package ui

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type pagerCall struct {
	name    string
	args    []string
	content string
}

func terminalWriter(out io.Writer, env map[string]string, runErr error, opts ...WriterOption) (*Writer, *[]pagerCall) {
	var calls []pagerCall
	w := NewWriterTo(out, append([]WriterOption{
		WithEnvGetter(func(k string) string { return env[k] }),
	}, opts...)...)
	w.isTerminal = func(io.Writer) bool { return true }
	w.runPager = func(name string, args []string, content string) error {
		calls = append(calls, pagerCall{name, args, content})
		return runErr
	}
	return w, &calls
}

func TestWriter_Print(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTo(&buf)

	_, _ = w.Printf("%s=%d\n", "a", 1)
	_, _ = w.Println("b")
	_, _ = w.Write([]byte("c"))
	require.Equal(t, "a=1\nb\nc", buf.String())
}

func TestWriter_Pager(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		opts      []WriterOption
		runErr    error
		wantCalls []pagerCall
		wantOut   string
	}{
		{
			name:      "default less",
			wantCalls: []pagerCall{{"less", []string{"-FRSX"}, "text"}},
		},
		{
			name:      "PAGER from environment",
			env:       map[string]string{"PAGER": "most -s"},
			wantCalls: []pagerCall{{"most", []string{"-s"}, "text"}},
		},
		{
			name:      "override beats environment",
			env:       map[string]string{"PAGER": "most"},
			opts:      []WriterOption{WithPagerOverride("more")},
			wantCalls: []pagerCall{{"more", []string{}, "text"}},
		},
		{
			name:    "cat prints directly",
			env:     map[string]string{"PAGER": "cat"},
			wantOut: "text",
		},
		{
			name:    "disabled",
			opts:    []WriterOption{WithPagerDisabled()},
			wantOut: "text",
		},
		{
			name:      "failing pager falls back",
			runErr:    errors.New("not found"),
			wantCalls: []pagerCall{{"less", []string{"-FRSX"}, "text"}},
			wantOut:   "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w, calls := terminalWriter(&buf, tt.env, tt.runErr, tt.opts...)

			w.Pager("text")
			require.Equal(t, tt.wantOut, buf.String())
			require.Len(t, *calls, len(tt.wantCalls))
			for i, want := range tt.wantCalls {
				got := (*calls)[i]
				require.Equal(t, want.name, got.name)
				require.ElementsMatch(t, want.args, got.args)
				require.Equal(t, want.content, got.content)
			}
		})
	}
}

func TestWriter_PagerNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriterTo(&buf)
	w.runPager = func(string, []string, string) error {
		t.Fatal("pager must not run for non-terminal output")
		return nil
	}

	w.Pager("plain")
	require.Equal(t, "plain", buf.String())
}
