package domain

import (
	"encoding/json"
	"strings"
)

// Defaults is the persisted defaults document: module name to value mapping.
type Defaults map[string]any

// Module returns the value mapping stored for the named module, or an empty one.
func (d Defaults) Module(name string) map[string]any {
	if m, ok := d[name].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// Set assigns value under a dot-separated key inside the named module,
// creating the module entry when needed.
func (d Defaults) Set(module, key string, value any) error {
	m, ok := d[module].(map[string]any)
	if !ok {
		m = map[string]any{}
		d[module] = m
	}
	return SetPath(m, key, value)
}

// SetPath assigns value at a dot-separated key, materializing intermediate
// mappings. A key that already exists literally at the current level is
// assigned as is. An intermediate segment holding a non-mapping value is an
// ErrSchema failure.
func SetPath(m map[string]any, key string, value any) error {
	var walked []string
	for {
		if _, exists := m[key]; exists || !strings.Contains(key, ".") {
			break
		}
		i := strings.Index(key, ".")
		parent := key[:i]
		walked = append(walked, parent)

		next, exists := m[parent]
		if !exists {
			child := map[string]any{}
			m[parent] = child
			m = child
		} else {
			child, ok := next.(map[string]any)
			if !ok {
				return SchemaError("cannot set %q: %q holds a non-mapping value",
					strings.Join(append(walked, key[i+1:]), "."), strings.Join(walked, "."))
			}
			m = child
		}
		key = key[i+1:]
	}
	m[key] = value
	return nil
}

// NormalizeNumbers replaces json.Number values with int64 for integral
// literals and float64 otherwise, recursing into maps and lists.
func NormalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		s := t.String()
		if !strings.ContainsAny(s, ".eE") {
			if n, err := t.Int64(); err == nil {
				return n
			}
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return s
	case map[string]any:
		for k, item := range t {
			t[k] = NormalizeNumbers(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = NormalizeNumbers(item)
		}
		return t
	default:
		return v
	}
}
