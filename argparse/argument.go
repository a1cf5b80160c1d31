package argparse

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Action names accepted by AddArgument.
const (
	ActionStore       = "store"
	ActionStoreConst  = "store_const"
	ActionStoreTrue   = "store_true"
	ActionStoreFalse  = "store_false"
	ActionAppend      = "append"
	ActionAppendConst = "append_const"
	ActionExtend      = "extend"
	ActionCount       = "count"
	ActionHelp        = "help"
	ActionVersion     = "version"
)

// Special nargs values.
const (
	Optional   = "?"
	ZeroOrMore = "*"
	OneOrMore  = "+"
	Remainder  = "..."
)

// TypeFunc converts a raw token into a typed value.
type TypeFunc func(string) (any, error)

// Options configures one argument registration. Zero values mean "not set".
type Options struct {
	Action     string
	Nargs      any
	Const      any
	Default    any
	HasDefault bool
	Type       TypeFunc
	TypeName   string
	Choices    []any
	Required   bool
	Help       string
	HideHelp   bool
	Metavar    string
	Dest       string
	Version    string
}

// Argument is a registered positional or optional argument.
type Argument struct {
	OptionStrings []string
	Dest          string
	Action        string
	Nargs         any
	Const         any
	Default       any
	Type          TypeFunc
	TypeName      string
	Choices       []any
	Required      bool
	Help          string
	HideHelp      bool
	Metavar       string
	Version       string

	hasDefault bool
}

// IsPositional reports whether the argument has no option strings.
func (a *Argument) IsPositional() bool {
	return len(a.OptionStrings) == 0
}

// takesValues reports whether the action consumes command-line values.
func (a *Argument) takesValues() bool {
	switch a.Action {
	case ActionStore, ActionAppend, ActionExtend:
		return true
	}
	return false
}

// arity returns the minimum and maximum number of values; max -1 is unbounded.
func (a *Argument) arity() (int, int) {
	if !a.takesValues() {
		return 0, 0
	}
	switch n := a.Nargs.(type) {
	case nil:
		return 1, 1
	case int:
		return n, n
	case string:
		switch n {
		case Optional:
			return 0, 1
		case ZeroOrMore, Remainder:
			return 0, -1
		case OneOrMore:
			return 1, -1
		}
	}
	return 1, 1
}

// multiple reports whether the parsed value is a list.
func (a *Argument) multiple() bool {
	switch n := a.Nargs.(type) {
	case int:
		return true
	case string:
		return n != Optional
	}
	return false
}

// name is how the argument is referred to in error messages.
func (a *Argument) name() string {
	if a.IsPositional() {
		if a.Metavar != "" {
			return a.Metavar
		}
		return a.Dest
	}
	return strings.Join(a.OptionStrings, "/")
}

func newArgument(names []string, opts Options, prefixChars string) (*Argument, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("argument needs at least one name")
	}

	a := &Argument{
		Action:     opts.Action,
		Const:      opts.Const,
		Default:    opts.Default,
		hasDefault: opts.HasDefault,
		Type:       opts.Type,
		TypeName:   opts.TypeName,
		Choices:    opts.Choices,
		Required:   opts.Required,
		Help:       opts.Help,
		HideHelp:   opts.HideHelp,
		Metavar:    opts.Metavar,
		Dest:       opts.Dest,
		Version:    opts.Version,
	}
	if a.Action == "" {
		a.Action = ActionStore
	}

	if names[0] == "" {
		return nil, fmt.Errorf("argument name must not be empty")
	}
	if !strings.ContainsRune(prefixChars, rune(names[0][0])) {
		if len(names) > 1 {
			return nil, fmt.Errorf("invalid option string %q: must start with a character '-'", names[1])
		}
		if a.Dest != "" {
			return nil, fmt.Errorf("dest supplied twice for positional argument")
		}
		if opts.Required {
			return nil, fmt.Errorf("'required' is an invalid argument for positionals")
		}
		a.Dest = names[0]
	} else {
		for _, n := range names {
			if n == "" || !strings.ContainsRune(prefixChars, rune(n[0])) {
				return nil, fmt.Errorf("invalid option string %q: must start with a character '-'", n)
			}
		}
		a.OptionStrings = append([]string(nil), names...)
		if a.Dest == "" {
			a.Dest = deriveDest(names)
		}
	}

	nargs, err := normalizeNargs(opts.Nargs)
	if err != nil {
		return nil, err
	}
	a.Nargs = nargs

	switch a.Action {
	case ActionStore, ActionAppend, ActionExtend:
		if n, ok := nargs.(int); ok && n == 0 {
			return nil, fmt.Errorf("nargs for %s actions must be != 0", a.Action)
		}
	case ActionStoreConst, ActionAppendConst:
		if nargs != nil {
			return nil, fmt.Errorf("nargs is not allowed with action %q", a.Action)
		}
	case ActionStoreTrue, ActionStoreFalse, ActionCount, ActionHelp, ActionVersion:
		if nargs != nil {
			return nil, fmt.Errorf("nargs is not allowed with action %q", a.Action)
		}
		switch a.Action {
		case ActionStoreTrue:
			a.Const = true
			if !a.hasDefault {
				a.Default, a.hasDefault = false, true
			}
		case ActionStoreFalse:
			a.Const = false
			if !a.hasDefault {
				a.Default, a.hasDefault = true, true
			}
		}
	default:
		return nil, fmt.Errorf("unknown action %q", a.Action)
	}

	if a.IsPositional() {
		if !a.takesValues() {
			return nil, fmt.Errorf("action %q is not valid for positional %q", a.Action, a.Dest)
		}
		lo, _ := a.arity()
		a.Required = lo > 0
	}
	return a, nil
}

// deriveDest picks the first long option, falling back to the first short one.
func deriveDest(names []string) string {
	pick := names[0]
	for _, n := range names {
		if len(n) > 2 && n[0] == n[1] {
			pick = n
			break
		}
	}
	return strings.ReplaceAll(strings.TrimLeft(pick, pick[:1]), "-", "_")
}

// normalizeNargs accepts nil, integers, JSON numbers and the special strings.
func normalizeNargs(v any) (any, error) {
	switch n := v.(type) {
	case nil:
		return nil, nil
	case int:
		return checkCount(n)
	case int64:
		return checkCount(int(n))
	case float64:
		if n != math.Trunc(n) {
			return nil, fmt.Errorf("invalid nargs value %v", n)
		}
		return checkCount(int(n))
	case string:
		switch n {
		case Optional, ZeroOrMore, OneOrMore, Remainder:
			return n, nil
		}
		if i, err := strconv.Atoi(n); err == nil {
			return checkCount(i)
		}
	}
	return nil, fmt.Errorf("invalid nargs value %v", v)
}

func checkCount(n int) (any, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid nargs value %d", n)
	}
	return n, nil
}

// convert runs the type function over one token.
func (a *Argument) convert(token string) (any, error) {
	if a.Type == nil {
		return token, nil
	}
	v, err := a.Type(token)
	if err != nil {
		typeName := a.TypeName
		if typeName == "" {
			typeName = "type"
		}
		return nil, invalidValue(a.name(), typeName, token)
	}
	return v, nil
}

// checkChoice verifies v against the argument's choices.
func (a *Argument) checkChoice(v any) error {
	if len(a.Choices) == 0 {
		return nil
	}
	for _, c := range a.Choices {
		if sameValue(c, v) {
			return nil
		}
	}
	rendered := make([]string, len(a.Choices))
	for i, c := range a.Choices {
		rendered[i] = repr(c)
	}
	return invalidChoice(a.name(), repr(v), strings.Join(rendered, ", "))
}

// sameValue compares numbers by value regardless of their Go type.
func sameValue(a, b any) bool {
	fa, aNum := number(a)
	fb, bNum := number(b)
	if aNum && bNum {
		return fa == fb
	}
	if aNum != bNum {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b) && fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// repr renders a value the way error messages quote it.
func repr(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return display(v)
}
