package argparse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
)

// Handler is bound to a subcommand and invoked by Namespace.Dispatch.
type Handler func(*Namespace) error

// HandlerKey is the namespace key that holds a subcommand handler.
const HandlerKey = "func"

// Namespace holds parsed values in the order their keys were first set.
type Namespace struct {
	keys   []string
	values map[string]any
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

// Set assigns a value, keeping the original position of existing keys.
func (n *Namespace) Set(key string, value any) {
	if _, ok := n.values[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.values[key] = value
}

// Has reports whether the key is present, even with a nil value.
func (n *Namespace) Has(key string) bool {
	_, ok := n.values[key]
	return ok
}

// Get returns the raw value stored under key.
func (n *Namespace) Get(key string) (any, bool) {
	v, ok := n.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (n *Namespace) Keys() []string {
	return append([]string(nil), n.keys...)
}

// Map returns a copy of the values.
func (n *Namespace) Map() map[string]any {
	out := make(map[string]any, len(n.values))
	for k, v := range n.values {
		out[k] = v
	}
	return out
}

// merge copies every value of other into n.
func (n *Namespace) merge(other *Namespace) {
	for _, k := range other.keys {
		n.Set(k, other.values[k])
	}
}

// String returns the value of key as a string, or defaultVal if absent or nil.
func (n *Namespace) String(key, defaultVal string) string {
	v, ok := n.values[key]
	if !ok || v == nil {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the integer value of key, or defaultVal if absent or not numeric.
func (n *Namespace) Int(key string, defaultVal int) int {
	switch v := n.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// Bool returns the boolean value of key, or false if absent or not a bool.
func (n *Namespace) Bool(key string) bool {
	b, _ := n.values[key].(bool)
	return b
}

// Strings returns a list value as strings; a scalar becomes a one-element list.
func (n *Namespace) Strings(key string) []string {
	switch v := n.values[key].(type) {
	case nil:
		return nil
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, len(v))
		for i, item := range v {
			out[i] = fmt.Sprint(item)
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

// Command returns the selected subcommand name, or "" when none was given.
func (n *Namespace) Command() string {
	return n.String("command", "")
}

// Handler returns the handler bound by the selected subcommand.
func (n *Namespace) Handler() (Handler, bool) {
	switch h := n.values[HandlerKey].(type) {
	case Handler:
		return h, h != nil
	case func(*Namespace) error:
		return h, h != nil
	}
	return nil, false
}

// Dispatch invokes the selected subcommand's handler.
func (n *Namespace) Dispatch() error {
	h, ok := n.Handler()
	if !ok {
		return fmt.Errorf("no handler bound")
	}
	return h(n)
}

// MarshalJSON writes the values in key order, skipping function values.
func (n *Namespace) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, k := range n.keys {
		v := n.values[k]
		if v != nil && reflect.TypeOf(v).Kind() == reflect.Func {
			continue
		}
		if set, ok := v.(map[string]struct{}); ok {
			v = setKeys(set)
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		key, _ := json.Marshal(k)
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(encoded)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func setKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
