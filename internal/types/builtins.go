package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// builtins holds the primitive converters addressable by name in definitions.
var builtins = map[string]Func{
	"bool":      parseBool,
	"int":       parseInt,
	"long":      parseInt,
	"float":     parseFloat,
	"complex":   parseComplex,
	"str":       parseStr,
	"unicode":   parseStr,
	"bytes":     parseBytes,
	"bytearray": parseBytes,
	"list":      parseList,
	"tuple":     parseList,
	"set":       parseSet,
	"frozenset": parseSet,
	"dict":      parseDict,
}

// Builtin is the lookup over the primitive converter table.
func Builtin(name string) (Converter, bool) {
	fn, ok := builtins[name]
	if !ok {
		return Converter{}, false
	}
	return Converter{Name: name, Fn: fn}, true
}

// BuiltinNames lists the names served by Builtin.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

func parseBool(s string) (any, error) {
	return strconv.ParseBool(strings.TrimSpace(s))
}

func parseInt(s string) (any, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}

func parseFloat(s string) (any, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseComplex(s string) (any, error) {
	return strconv.ParseComplex(strings.TrimSpace(s), 128)
}

func parseStr(s string) (any, error) {
	return s, nil
}

func parseBytes(s string) (any, error) {
	return []byte(s), nil
}

// parseList splits the token into its characters.
func parseList(s string) (any, error) {
	out := make([]any, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out, nil
}

// parseSet returns the distinct characters of the token.
func parseSet(s string) (any, error) {
	out := make(map[string]struct{})
	for _, r := range s {
		out[string(r)] = struct{}{}
	}
	return out, nil
}

// parseDict decodes a JSON object.
func parseDict(s string) (any, error) {
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("not a JSON object: %w", err)
	}
	return out, nil
}
