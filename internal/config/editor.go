package config

import (
	"sort"
	"strings"

	"github.com/footprint-tools/argutil/internal/domain"
)

// Apply writes settings into m in order, materializing dot-separated keys.
func Apply(m map[string]any, settings []Setting) error {
	for _, s := range settings {
		if err := domain.SetPath(m, s.Key, s.Value); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored under a dot-separated key. A key present
// literally at a level is preferred over descending into a mapping.
func Get(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	i := strings.Index(key, ".")
	if i < 0 {
		return nil, false
	}
	child, ok := m[key[:i]].(map[string]any)
	if !ok {
		return nil, false
	}
	return Get(child, key[i+1:])
}

// Unset removes a dot-separated key. It reports whether anything was removed.
// Mappings left empty by the removal are pruned.
func Unset(m map[string]any, key string) bool {
	if _, ok := m[key]; ok {
		delete(m, key)
		return true
	}

	i := strings.Index(key, ".")
	if i < 0 {
		return false
	}

	child, ok := m[key[:i]].(map[string]any)
	if !ok {
		return false
	}

	removed := Unset(child, key[i+1:])
	if removed && len(child) == 0 {
		delete(m, key[:i])
	}
	return removed
}

// Lines lists m as "key=value" lines with nested keys joined by '.'.
// Top-level scalars come first, then each nesting level, keys sorted within a level.
func Lines(m map[string]any) []string {
	var lines []string
	for _, e := range flatten(m) {
		lines = append(lines, e.key+"="+FormatValue(e.value))
	}
	return lines
}

// Keys returns the dotted keys of every leaf value in the order Lines uses.
func Keys(m map[string]any) []string {
	var keys []string
	for _, e := range flatten(m) {
		keys = append(keys, e.key)
	}
	return keys
}

func flatten(m map[string]any) []entry {
	queue := sortedItems("", m)
	var leaves []entry
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		if nested, ok := next.value.(map[string]any); ok {
			queue = append(queue, sortedItems(next.key, nested)...)
			continue
		}
		leaves = append(leaves, next)
	}
	return leaves
}

type entry struct {
	key   string
	value any
}

func sortedItems(prefix string, m map[string]any) []entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]entry, 0, len(keys))
	for _, k := range keys {
		full := k
		if prefix != "" {
			full = prefix + "." + k
		}
		out = append(out, entry{key: full, value: m[k]})
	}
	return out
}
