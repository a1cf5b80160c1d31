package config

import (
	"fmt"
	"strings"
)

// Setting is one parsed "key=value" token.
type Setting struct {
	Key   string
	Value any
}

// ParseSetting splits text at the first '=' or ':' and parses the value.
func ParseSetting(text string) (Setting, error) {
	i := strings.IndexAny(text, "=:")
	if i <= 0 {
		return Setting{}, fmt.Errorf("config: invalid setting %q, expected key=value", text)
	}

	key := strings.TrimSpace(text[:i])
	raw := text[i+1:]
	if key == "" {
		return Setting{}, fmt.Errorf("config: invalid setting %q, empty key", text)
	}

	return Setting{Key: key, Value: ParseText(raw)}, nil
}

// Parse parses every token, preserving order.
func Parse(tokens []string) ([]Setting, error) {
	settings := make([]Setting, 0, len(tokens))
	for _, tok := range tokens {
		s, err := ParseSetting(tok)
		if err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, nil
}

func fmtFallback(v any) string {
	return fmt.Sprint(v)
}
