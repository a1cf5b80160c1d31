package argparse

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/footprint-tools/argutil/internal/usage"
)

const defaultSuggestionsCount = 3

var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

// Parse parses args into a new namespace. Usage errors are returned as
// *Error; a help request returns ErrHelp after the help text was written.
func (p *Parser) Parse(args []string) (*Namespace, error) {
	ns := NewNamespace()
	if err := p.parseInto(args, ns); err != nil {
		return nil, err
	}
	return ns, nil
}

// ParseArgs parses args the way a command-line program does: usage errors
// are printed with the usage line and end the process with status 2, a help
// request ends it with status 0.
func (p *Parser) ParseArgs(args []string) *Namespace {
	ns, err := p.Parse(args)
	if err == nil {
		return ns
	}
	if errors.Is(err, ErrHelp) {
		p.exit(0)
		return nil
	}
	var perr *Error
	if errors.As(err, &perr) {
		fmt.Fprint(p.stderr, perr.Usage)
		fmt.Fprintln(p.stderr, perr.Error())
		p.exit(perr.ExitCode())
		return nil
	}
	fmt.Fprintf(p.stderr, "%s: error: %v\n", p.prog, err)
	p.exit(1)
	return nil
}

func (p *Parser) parseInto(args []string, ns *Namespace) error {
	p.applyDefaults(ns)
	if err := p.run(args, ns); err != nil {
		return p.wrap(err)
	}
	return nil
}

// wrap attaches this parser's identity to a bare usage error.
func (p *Parser) wrap(err error) error {
	var perr *Error
	if errors.Is(err, ErrHelp) || errors.As(err, &perr) {
		return err
	}
	var uerr *usage.Error
	if errors.As(err, &uerr) {
		return &Error{Prog: p.prog, Usage: p.FormatUsage(), Err: uerr}
	}
	return err
}

func (p *Parser) applyDefaults(ns *Namespace) {
	for _, a := range p.arguments {
		if a.Action == ActionHelp || a.Action == ActionVersion {
			continue
		}
		if !ns.Has(a.Dest) {
			ns.Set(a.Dest, a.Default)
		}
	}
	if p.subparsers != nil && !ns.Has(p.subparsers.dest) {
		ns.Set(p.subparsers.dest, nil)
	}
	for _, k := range p.defaultKeys {
		if !ns.Has(k) {
			ns.Set(k, p.defaults[k])
		}
	}
}

func (p *Parser) positionals() []*Argument {
	var out []*Argument
	for _, a := range p.arguments {
		if a.IsPositional() {
			out = append(out, a)
		}
	}
	return out
}

// minCount sums the minimum value counts of the given positionals.
func minCount(args []*Argument) int {
	total := 0
	for _, a := range args {
		lo, _ := a.arity()
		total += lo
	}
	return total
}

func (p *Parser) run(args []string, ns *Namespace) error {
	seen := make(map[*Argument]bool)
	positionals := p.positionals()

	remainderAt := -1
	for i, a := range positionals {
		if a.Nargs == Remainder {
			remainderAt = i
			break
		}
	}

	var tokens, extras []string
	command := -1
	dashdash := false

	for i := 0; i < len(args); {
		tok := args[i]
		if !dashdash && tok == "--" {
			dashdash = true
			i++
			continue
		}
		if dashdash || !p.isOption(tok) {
			if p.subparsers != nil && len(tokens) == minCount(positionals) {
				command = i
				break
			}
			if remainderAt >= 0 && len(tokens) >= minCount(positionals[:remainderAt]) {
				tokens = append(tokens, args[i:]...)
				break
			}
			tokens = append(tokens, tok)
			i++
			continue
		}

		next, unknown, err := p.consumeOptional(args, i, ns, seen)
		if err != nil {
			return err
		}
		if unknown {
			extras = append(extras, tok)
		}
		i = next
	}

	leftover, err := p.assignPositionals(tokens, ns, seen)
	if err != nil {
		return err
	}
	extras = append(extras, leftover...)
	if len(extras) > 0 {
		return usage.Unrecognized(extras)
	}
	if err := p.checkRequired(seen, command >= 0); err != nil {
		return err
	}
	if err := p.convertStringDefaults(ns, seen); err != nil {
		return err
	}

	if command >= 0 {
		return p.dispatch(args[command], args[command+1:], ns)
	}
	return nil
}

// dispatch hands the tokens after the command name to its parser; the
// subcommand's values override the parent's. A nested dispatcher sharing the
// dest keeps this command's name when none of its commands was selected.
func (p *Parser) dispatch(name string, rest []string, ns *Namespace) error {
	sub, ok := p.subparsers.Lookup(name)
	if !ok {
		names := p.subparsers.Names()
		candidates := append([]string(nil), names...)
		for _, c := range p.subparsers.choices {
			candidates = append(candidates, c.aliases...)
		}
		suggestions := FindSimilar(name, candidates, defaultSuggestionsCount)
		return usage.UnknownCommand(p.subparsers.dest, name, names, suggestions...)
	}
	ns.Set(p.subparsers.dest, name)

	subNS := NewNamespace()
	if err := sub.parseInto(rest, subNS); err != nil {
		return err
	}
	ns.merge(subNS)
	if v, _ := ns.Get(p.subparsers.dest); v == nil {
		ns.Set(p.subparsers.dest, name)
	}
	return nil
}

// isOption reports whether a token should be read as an option string.
func (p *Parser) isOption(tok string) bool {
	if len(tok) < 2 || !strings.ContainsRune(prefixChars, rune(tok[0])) {
		return false
	}
	if _, ok := p.options[tok]; ok {
		return true
	}
	if strings.HasPrefix(tok, "--") {
		if name, _, found := strings.Cut(tok, "="); found {
			if _, ok := p.options[name]; ok {
				return true
			}
		}
	}
	if negativeNumber.MatchString(tok) && !p.hasNegativeNumberOptions() {
		return false
	}
	if strings.Contains(tok, " ") {
		return false
	}
	return true
}

func (p *Parser) hasNegativeNumberOptions() bool {
	for name := range p.options {
		if negativeNumber.MatchString(name) {
			return true
		}
	}
	return false
}

// optionMatch is the result of looking up one option token.
type optionMatch struct {
	arg      *Argument
	option   string
	explicit *string
	cluster  bool
}

func (p *Parser) matchOption(tok string) (*optionMatch, error) {
	if a, ok := p.options[tok]; ok {
		return &optionMatch{arg: a, option: tok}, nil
	}

	if strings.HasPrefix(tok, "--") {
		name, value, found := strings.Cut(tok, "=")
		var explicit *string
		if found {
			explicit = &value
		}
		if a, ok := p.options[name]; ok {
			return &optionMatch{arg: a, option: name, explicit: explicit}, nil
		}

		var matches []string
		for opt := range p.options {
			if strings.HasPrefix(opt, "--") && strings.HasPrefix(opt, name) {
				matches = append(matches, opt)
			}
		}
		sort.Strings(matches)
		switch len(matches) {
		case 0:
			return nil, nil
		case 1:
			return &optionMatch{arg: p.options[matches[0]], option: matches[0], explicit: explicit}, nil
		default:
			return nil, usage.AmbiguousOption(name, matches)
		}
	}

	short := tok[:2]
	if a, ok := p.options[short]; ok {
		value := tok[2:]
		return &optionMatch{arg: a, option: short, explicit: &value, cluster: true}, nil
	}
	return nil, nil
}

// consumeOptional handles the option at args[i] and returns the index of the
// next unread token. unknown is set when the token names no option.
func (p *Parser) consumeOptional(args []string, i int, ns *Namespace, seen map[*Argument]bool) (int, bool, error) {
	m, err := p.matchOption(args[i])
	if err != nil {
		return 0, false, err
	}
	if m == nil {
		return i + 1, true, nil
	}

	for {
		lo, hi := m.arg.arity()
		if m.explicit == nil {
			values, next := p.collectValues(m.arg, args, i+1, hi)
			if len(values) < lo {
				return 0, false, usage.ExpectedValue(m.option, expectedText(m.arg))
			}
			if err := p.apply(m.arg, values, ns); err != nil {
				return 0, false, err
			}
			seen[m.arg] = true
			return next, false, nil
		}

		if hi != 0 {
			if lo > 1 {
				return 0, false, usage.ExpectedValue(m.option, expectedText(m.arg))
			}
			if err := p.apply(m.arg, []string{*m.explicit}, ns); err != nil {
				return 0, false, err
			}
			seen[m.arg] = true
			return i + 1, false, nil
		}

		// A flag with attached characters: -xyz is -x -y -z.
		if !m.cluster || *m.explicit == "" {
			return 0, false, usage.ExplicitValue(m.option, *m.explicit)
		}
		if err := p.apply(m.arg, nil, ns); err != nil {
			return 0, false, err
		}
		seen[m.arg] = true

		rest := *m.explicit
		next := m.option[:1] + rest[:1]
		a, ok := p.options[next]
		if !ok {
			return 0, false, usage.ExplicitValue(m.option, rest)
		}
		remaining := rest[1:]
		m = &optionMatch{arg: a, option: next, cluster: true}
		if remaining != "" {
			m.explicit = &remaining
		}
	}
}

// collectValues reads up to hi values (unbounded when negative) starting at j.
func (p *Parser) collectValues(a *Argument, args []string, j, hi int) ([]string, int) {
	if a.Nargs == Remainder {
		return append([]string(nil), args[j:]...), len(args)
	}
	var values []string
	for j < len(args) && (hi < 0 || len(values) < hi) {
		if args[j] == "--" || p.isOption(args[j]) {
			break
		}
		values = append(values, args[j])
		j++
	}
	return values, j
}

func expectedText(a *Argument) string {
	switch n := a.Nargs.(type) {
	case int:
		if n == 1 {
			return "1 argument"
		}
		return fmt.Sprintf("%d arguments", n)
	case string:
		if n == OneOrMore {
			return "at least one argument"
		}
	}
	return "one argument"
}

// assignPositionals distributes the collected positional tokens over the
// longest run of positionals whose minimum counts they can satisfy. Earlier
// positionals take as many tokens as the later ones leave them.
func (p *Parser) assignPositionals(tokens []string, ns *Namespace, seen map[*Argument]bool) ([]string, error) {
	positionals := p.positionals()
	count := len(positionals)
	for count > 0 && minCount(positionals[:count]) > len(tokens) {
		count--
	}
	positionals = positionals[:count]

	idx := 0
	for k, a := range positionals {
		lo, hi := a.arity()
		avail := len(tokens) - idx - minCount(positionals[k+1:])
		n := avail
		if hi >= 0 && n > hi {
			n = hi
		}
		if n < lo {
			n = lo
		}
		if err := p.apply(a, tokens[idx:idx+n], ns); err != nil {
			return nil, err
		}
		seen[a] = true
		idx += n
	}
	return tokens[idx:], nil
}

func (p *Parser) checkRequired(seen map[*Argument]bool, commandGiven bool) error {
	var missing []string
	for _, a := range p.arguments {
		if a.Required && !seen[a] {
			missing = append(missing, a.name())
		}
	}
	if p.subparsers != nil && p.subparsers.Required && !commandGiven {
		missing = append(missing, p.subparsers.dest)
	}
	if len(missing) > 0 {
		return usage.MissingArgument(missing...)
	}
	return nil
}

// convertStringDefaults runs the type converter over string defaults of
// arguments that did not appear on the command line.
func (p *Parser) convertStringDefaults(ns *Namespace, seen map[*Argument]bool) error {
	for _, a := range p.arguments {
		if seen[a] || a.Type == nil || !a.takesValues() {
			continue
		}
		def, ok := a.Default.(string)
		if !ok {
			continue
		}
		if cur, _ := ns.Get(a.Dest); cur != def {
			continue
		}
		v, err := a.convert(def)
		if err != nil {
			return err
		}
		ns.Set(a.Dest, v)
	}
	return nil
}

// apply performs the argument's action with the given raw values.
func (p *Parser) apply(a *Argument, values []string, ns *Namespace) error {
	switch a.Action {
	case ActionHelp:
		p.PrintHelp()
		return ErrHelp
	case ActionVersion:
		fmt.Fprintln(p.stdout, a.Version)
		return ErrHelp
	case ActionStoreConst, ActionStoreTrue, ActionStoreFalse:
		ns.Set(a.Dest, a.Const)
		return nil
	case ActionAppendConst:
		cur, _ := ns.Get(a.Dest)
		ns.Set(a.Dest, append(listCopy(cur), a.Const))
		return nil
	case ActionCount:
		cur, _ := ns.Get(a.Dest)
		n, _ := number(cur)
		ns.Set(a.Dest, int(n)+1)
		return nil
	}

	v, err := p.values(a, values)
	if err != nil {
		return err
	}
	switch a.Action {
	case ActionAppend:
		cur, _ := ns.Get(a.Dest)
		ns.Set(a.Dest, append(listCopy(cur), v))
	case ActionExtend:
		cur, _ := ns.Get(a.Dest)
		items, ok := v.([]any)
		if !ok {
			items = []any{v}
		}
		ns.Set(a.Dest, append(listCopy(cur), items...))
	default:
		ns.Set(a.Dest, v)
	}
	return nil
}

// values converts raw tokens into the value stored for the argument.
func (p *Parser) values(a *Argument, tokens []string) (any, error) {
	switch {
	case len(tokens) == 0 && a.Nargs == Optional:
		v := a.Const
		if a.IsPositional() {
			v = a.Default
		}
		if s, ok := v.(string); ok && a.IsPositional() {
			return a.convert(s)
		}
		return v, nil
	case len(tokens) == 0 && a.Nargs == ZeroOrMore && a.IsPositional():
		if a.Default != nil {
			return a.Default, nil
		}
		return []any{}, nil
	case a.Nargs == Remainder:
		out := make([]any, len(tokens))
		for i, t := range tokens {
			out[i] = t
		}
		return out, nil
	}

	if !a.multiple() {
		v, err := a.convert(tokens[0])
		if err != nil {
			return nil, err
		}
		return v, a.checkChoice(v)
	}

	out := make([]any, 0, len(tokens))
	for _, t := range tokens {
		v, err := a.convert(t)
		if err != nil {
			return nil, err
		}
		if err := a.checkChoice(v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func listCopy(v any) []any {
	switch l := v.(type) {
	case []any:
		return append([]any(nil), l...)
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out
	case nil:
		return nil
	default:
		return []any{v}
	}
}
