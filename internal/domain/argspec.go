package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/footprint-tools/argutil/internal/deepcopy"
)

// ArgSpec describes one argument registration.
//
// Help is tri-state: a nil Help with HelpSuppressed false means the key was
// absent, HelpSuppressed means "help": null, and a non-nil Help holds the lines.
type ArgSpec struct {
	Long           string
	Short          string
	Help           []string
	HelpSuppressed bool
	Type           string
	Action         string
	Nargs          any
	Const          any
	HasConst       bool
	Default        any
	HasDefault     bool
	Choices        []any
	Required       bool
	Metavar        string
	Dest           string
}

// ArgKeys lists the keys accepted in an argument object.
var ArgKeys = []string{
	"short", "long", "action", "nargs", "const", "default", "type",
	"choices", "required", "metavar", "dest", "help",
}

// Clone returns a deep copy of the spec.
func (a ArgSpec) Clone() ArgSpec {
	out := a
	if a.Help != nil {
		out.Help = append([]string{}, a.Help...)
	}
	out.Nargs = deepcopy.Copy(a.Nargs)
	out.Const = deepcopy.Copy(a.Const)
	out.Default = deepcopy.Copy(a.Default)
	out.Choices = deepcopy.Copy(a.Choices)
	return out
}

// SetHelp accepts nil (suppressed), a string (split on newlines) or a list of strings.
func (a *ArgSpec) SetHelp(help any) error {
	switch h := help.(type) {
	case nil:
		a.Help = nil
		a.HelpSuppressed = true
	case string:
		a.Help = strings.Split(h, "\n")
		a.HelpSuppressed = false
	case []string:
		a.Help = append([]string{}, h...)
		a.HelpSuppressed = false
	case []any:
		lines := make([]string, 0, len(h))
		for _, line := range h {
			s, ok := line.(string)
			if !ok {
				return SchemaError("help must be null, a string, or a list of strings")
			}
			lines = append(lines, s)
		}
		a.Help = lines
		a.HelpSuppressed = false
	default:
		return SchemaError("help must be null, a string, or a list of strings")
	}
	return nil
}

// UnmarshalJSON decodes an argument object, rejecting unknown keys.
func (a *ArgSpec) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = ArgSpec{}
	for key, msg := range raw {
		var err error
		switch key {
		case "long":
			err = json.Unmarshal(msg, &a.Long)
		case "short":
			err = json.Unmarshal(msg, &a.Short)
		case "type":
			err = json.Unmarshal(msg, &a.Type)
		case "action":
			err = json.Unmarshal(msg, &a.Action)
		case "metavar":
			err = json.Unmarshal(msg, &a.Metavar)
		case "dest":
			err = json.Unmarshal(msg, &a.Dest)
		case "required":
			err = json.Unmarshal(msg, &a.Required)
		case "nargs":
			a.Nargs, err = decodeValue(msg)
		case "const":
			a.Const, err = decodeValue(msg)
			a.HasConst = true
		case "default":
			a.Default, err = decodeValue(msg)
			a.HasDefault = true
		case "choices":
			var v any
			v, err = decodeValue(msg)
			if err == nil && v != nil {
				list, ok := v.([]any)
				if !ok {
					return SchemaError("choices must be a list")
				}
				a.Choices = list
			}
		case "help":
			var v any
			if v, err = decodeValue(msg); err == nil {
				err = a.SetHelp(v)
			}
		default:
			return SchemaError("unrecognized key %q", key)
		}
		if err != nil {
			return SchemaError("key %q: %v", key, err)
		}
	}
	return nil
}

// MarshalJSON writes the keys in a stable order.
func (a ArgSpec) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(key string, value any) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, _ := json.Marshal(key)
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}

	fields := []struct {
		key   string
		value any
		keep  bool
	}{
		{"short", a.Short, a.Short != ""},
		{"long", a.Long, true},
		{"action", a.Action, a.Action != ""},
		{"nargs", a.Nargs, a.Nargs != nil},
		{"const", a.Const, a.HasConst || a.Const != nil},
		{"default", a.Default, a.HasDefault || a.Default != nil},
		{"type", a.Type, a.Type != ""},
		{"choices", a.Choices, a.Choices != nil},
		{"required", a.Required, a.Required},
		{"metavar", a.Metavar, a.Metavar != ""},
		{"dest", a.Dest, a.Dest != ""},
		{"help", a.Help, a.HelpSuppressed || a.Help != nil},
	}
	for _, f := range fields {
		if !f.keep {
			continue
		}
		value := f.value
		if f.key == "help" && a.HelpSuppressed {
			value = nil
		}
		if err := write(f.key, value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeValue(msg json.RawMessage) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(msg))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return NormalizeNumbers(v), nil
}
