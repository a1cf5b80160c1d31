package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		m    map[string]any
		want []string
	}{
		{name: "empty", m: map[string]any{}, want: nil},
		{
			name: "flat",
			m:    map[string]any{"foo": "bar", "bar": "foo"},
			want: []string{"bar=foo", "foo=bar"},
		},
		{
			name: "nested",
			m: map[string]any{
				"foo": map[string]any{"bar": map[string]any{"fee": "bar"}},
			},
			want: []string{"foo.bar.fee=bar"},
		},
		{
			name: "scalars before nested levels",
			m: map[string]any{
				"a":   map[string]any{"x": int64(1)},
				"z":   true,
				"lst": []any{int64(1), "b"},
			},
			want: []string{"lst=[1,b]", "z=true", "a.x=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Lines(tt.m))
		})
	}
}

func TestLines_FeedBackIntoParse(t *testing.T) {
	original := map[string]any{
		"a": map[string]any{"b": int64(1), "c": []any{true, nil}},
		"d": "text",
	}

	settings, err := Parse(Lines(original))
	require.NoError(t, err)

	rebuilt := map[string]any{}
	require.NoError(t, Apply(rebuilt, settings))
	require.Equal(t, original, rebuilt)
}

func TestUnset(t *testing.T) {
	m := map[string]any{
		"foo": "bar",
		"a":   map[string]any{"b": map[string]any{"c": int64(1)}},
	}

	require.True(t, Unset(m, "a.b.c"))
	require.NotContains(t, m, "a")

	require.False(t, Unset(m, "missing.key"))
	require.True(t, Unset(m, "foo"))
	require.Empty(t, m)
}

func TestGet(t *testing.T) {
	m := map[string]any{
		"a":     map[string]any{"b": int64(1)},
		"x.y":   "literal",
		"plain": "v",
	}

	tests := []struct {
		key    string
		want   any
		wantOK bool
	}{
		{"a.b", int64(1), true},
		{"x.y", "literal", true},
		{"plain", "v", true},
		{"plain.sub", nil, false},
		{"a.c", nil, false},
		{"missing", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := Get(m, tt.key)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestKeys(t *testing.T) {
	m := map[string]any{
		"z": int64(1),
		"a": map[string]any{"b": "x", "c": map[string]any{"d": nil}},
	}
	require.Equal(t, []string{"z", "a.b", "a.c.d"}, Keys(m))
	require.Empty(t, Keys(map[string]any{}))
}
