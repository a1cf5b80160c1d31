// Package config implements the defaults-override grammar: "key=value" or
// "key:value" settings whose values are typed by ParseValue, plus helpers to
// apply settings to a defaults mapping and list them back.
package config

import (
	"strconv"
	"strings"
)

// ParseValue converts a raw token into an int64, float64, bool, nil or string.
//
// Tokens containing a '.' are tried as floats, others as integers. Failing
// that, true/false/none/null are matched case-insensitively, then a single
// layer of matching quotes is stripped. Anything else is returned trimmed.
func ParseValue(token string) any {
	v := strings.TrimSpace(token)

	if strings.Contains(v, ".") {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	} else if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}

	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	case "none", "null":
		return nil
	}

	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}

	return v
}

// ParseList parses a bracket-delimited list such as "[1, 'a', true]".
// Elements are split on commas and passed through ParseValue; commas and
// brackets inside elements cannot be escaped. "[]" yields an empty list.
func ParseList(token string) []any {
	inner := strings.TrimSpace(token)
	inner = inner[1 : len(inner)-1]
	if strings.TrimSpace(inner) == "" {
		return []any{}
	}

	parts := strings.Split(inner, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		out = append(out, ParseValue(p))
	}
	return out
}

// ParseText parses the value part of a setting: list syntax or a single value.
func ParseText(raw string) any {
	if isList(raw) {
		return ParseList(raw)
	}
	return ParseValue(raw)
}

// isList reports whether a raw value uses the list syntax.
func isList(raw string) bool {
	v := strings.TrimSpace(raw)
	return len(v) >= 2 && v[0] == '[' && v[len(v)-1] == ']'
}

// FormatValue renders a value in the same grammar ParseValue reads.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	case []any:
		parts := make([]string, len(t))
		for i, item := range t {
			parts[i] = FormatValue(item)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case []string:
		return "[" + strings.Join(t, ",") + "]"
	default:
		return fmtFallback(v)
	}
}
