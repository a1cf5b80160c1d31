// Package argparse is a command-line parser for declaratively built command
// trees: optionals and positionals with nargs, actions, type converters,
// choices and defaults, nested subcommands with aliases, and help output that
// keeps raw text and shows each argument's default.
package argparse

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

const prefixChars = "-"

// Parser parses command-line tokens into a Namespace.
type Parser struct {
	prog        string
	usage       string
	description string
	epilog      string
	addHelp     bool

	stdout io.Writer
	stderr io.Writer
	exit   func(int)

	arguments   []*Argument
	options     map[string]*Argument
	defaults    map[string]any
	defaultKeys []string
	subparsers  *Subparsers
}

// Option configures a Parser.
type Option func(*Parser)

// WithUsage replaces the generated usage line.
func WithUsage(usage string) Option {
	return func(p *Parser) {
		p.usage = usage
	}
}

// WithDescription sets the text shown between usage and the argument sections.
func WithDescription(text string) Option {
	return func(p *Parser) {
		p.description = text
	}
}

// WithEpilog sets the text shown after the argument sections.
func WithEpilog(text string) Option {
	return func(p *Parser) {
		p.epilog = text
	}
}

// WithoutHelp disables the automatic -h/--help option.
func WithoutHelp() Option {
	return func(p *Parser) {
		p.addHelp = false
	}
}

// WithOutput sets where help and errors are written.
// A stdout that implements Pager(string) receives help through its pager.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(p *Parser) {
		p.stdout = stdout
		p.stderr = stderr
	}
}

// WithExit replaces os.Exit for ParseArgs.
func WithExit(fn func(int)) Option {
	return func(p *Parser) {
		p.exit = fn
	}
}

// New creates a parser with the given program name.
func New(prog string, opts ...Option) *Parser {
	p := &Parser{
		prog:     prog,
		addHelp:  true,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		exit:     os.Exit,
		options:  make(map[string]*Argument),
		defaults: make(map[string]any),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.addHelp {
		_, _ = p.AddArgument([]string{"-h", "--help"}, Options{
			Action: ActionHelp,
			Help:   "show this help message and exit",
		})
	}
	return p
}

// Prog returns the program name.
func (p *Parser) Prog() string {
	return p.prog
}

// Epilog returns the text shown after the argument sections.
func (p *Parser) Epilog() string {
	return p.epilog
}

// Arguments returns the registered arguments, excluding the help option.
func (p *Parser) Arguments() []*Argument {
	out := make([]*Argument, 0, len(p.arguments))
	for _, a := range p.arguments {
		if a.Action == ActionHelp {
			continue
		}
		out = append(out, a)
	}
	return out
}

// HasOption reports whether an option string is already registered.
func (p *Parser) HasOption(name string) bool {
	_, ok := p.options[name]
	return ok
}

// AddArgument registers a positional (one name without a leading dash) or
// an optional (one or more option strings).
func (p *Parser) AddArgument(names []string, opts Options) (*Argument, error) {
	a, err := newArgument(names, opts, prefixChars)
	if err != nil {
		return nil, err
	}
	for _, name := range a.OptionStrings {
		if _, exists := p.options[name]; exists {
			return nil, fmt.Errorf("argument %s: %w: %s", strings.Join(a.OptionStrings, "/"), ErrConflict, name)
		}
	}
	if v, ok := p.defaults[a.Dest]; ok {
		a.Default, a.hasDefault = v, true
	}
	for _, name := range a.OptionStrings {
		p.options[name] = a
	}
	p.arguments = append(p.arguments, a)
	return a, nil
}

// SetDefaults sets parser-level defaults. They take precedence over argument
// defaults with the same dest and also cover keys no argument declares.
func (p *Parser) SetDefaults(values map[string]any) {
	for _, k := range sortedKeys(values) {
		p.SetDefault(k, values[k])
	}
}

// SetDefault sets one parser-level default.
func (p *Parser) SetDefault(key string, value any) {
	if _, ok := p.defaults[key]; !ok {
		p.defaultKeys = append(p.defaultKeys, key)
	}
	p.defaults[key] = value
	for _, a := range p.arguments {
		if a.Dest == key {
			a.Default, a.hasDefault = value, true
		}
	}
}

// GetDefault returns the default for dest: an argument default first, then a
// parser-level one.
func (p *Parser) GetDefault(dest string) (any, bool) {
	for _, a := range p.arguments {
		if a.Dest == dest && a.hasDefault {
			return a.Default, true
		}
	}
	v, ok := p.defaults[dest]
	return v, ok
}

// AddSubparsers creates the subcommand dispatcher. The selected command name
// is stored under dest.
func (p *Parser) AddSubparsers(dest string) (*Subparsers, error) {
	if p.subparsers != nil {
		return nil, fmt.Errorf("%s: cannot have multiple subparser arguments", p.prog)
	}
	p.subparsers = &Subparsers{
		parent:  p,
		dest:    dest,
		parsers: make(map[string]*Parser),
	}
	return p.subparsers, nil
}

// Subparsers returns the subcommand dispatcher, if any.
func (p *Parser) Subparsers() *Subparsers {
	return p.subparsers
}

// Subparsers holds the subcommands of one parser.
type Subparsers struct {
	parent   *Parser
	dest     string
	choices  []*choice
	parsers  map[string]*Parser
	Required bool
}

type choice struct {
	name    string
	aliases []string
	help    string
	hasHelp bool
	parser  *Parser
}

// ParserOptions configures one subcommand.
type ParserOptions struct {
	Help    string
	HasHelp bool
	Aliases []string
}

// AddParser registers a subcommand. The new parser inherits the parent's
// output and exit settings.
func (s *Subparsers) AddParser(name string, po ParserOptions, opts ...Option) (*Parser, error) {
	for _, n := range append([]string{name}, po.Aliases...) {
		if _, exists := s.parsers[n]; exists {
			return nil, fmt.Errorf("conflicting subparser: %s", n)
		}
	}

	base := []Option{
		WithOutput(s.parent.stdout, s.parent.stderr),
		WithExit(s.parent.exit),
	}
	child := New(name, append(base, opts...)...)

	s.choices = append(s.choices, &choice{
		name:    name,
		aliases: po.Aliases,
		help:    po.Help,
		hasHelp: po.HasHelp || po.Help != "",
		parser:  child,
	})
	s.parsers[name] = child
	for _, alias := range po.Aliases {
		s.parsers[alias] = child
	}
	return child, nil
}

// Lookup returns the parser registered under a name or alias.
func (s *Subparsers) Lookup(name string) (*Parser, bool) {
	p, ok := s.parsers[name]
	return p, ok
}

// Names returns the subcommand names in registration order, without aliases.
func (s *Subparsers) Names() []string {
	out := make([]string, len(s.choices))
	for i, c := range s.choices {
		out[i] = c.name
	}
	return out
}

// Dest returns the namespace key holding the selected command.
func (s *Subparsers) Dest() string {
	return s.dest
}

// Help returns the help text registered for a subcommand name or alias.
func (s *Subparsers) Help(name string) string {
	for _, c := range s.choices {
		if c.name == name || slices.Contains(c.aliases, name) {
			return c.help
		}
	}
	return ""
}
