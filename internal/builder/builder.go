// Package builder turns a module definition tree into a configured argparse
// parser: templates are merged, type names resolved, layered defaults applied
// and subcommands wired for dispatch.
package builder

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/footprint-tools/argutil/argparse"
	"github.com/footprint-tools/argutil/internal/deepcopy"
	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/log"
	"github.com/footprint-tools/argutil/internal/templates"
	"github.com/footprint-tools/argutil/internal/types"
)

// CommandDest is the namespace key holding the selected subcommand.
const CommandDest = "command"

// exampleWidth is the width of the usage column in the examples epilog.
const exampleWidth = 44

// Env maps names to type converters, subcommand handlers or plain values
// used for {name} interpolation.
type Env map[string]any

// Options configures a build.
type Options struct {
	Env      Env
	Fallback types.Registry
	Logger   domain.Logger
	Stdout   io.Writer
	Stderr   io.Writer
	Exit     func(int)
}

// lookup resolves converters held in the environment.
func (e Env) lookup(name string) (types.Converter, bool) {
	if fn, ok := e[name].(argparse.TypeFunc); ok && fn != nil {
		return types.Converter{Name: name, Fn: types.Func(fn)}, true
	}
	return types.MapLookup(e)(name)
}

type builder struct {
	env      Env
	resolver *types.Resolver
	logger   domain.Logger
	parser   []argparse.Option
}

// Build constructs the parser for the named module. The defaults mapping is
// copied; the caller's data is never modified.
func Build(name string, module *domain.Module, defaults map[string]any, opts Options) (*argparse.Parser, error) {
	if module == nil {
		return nil, domain.NotFoundError("module %q has no definition", name)
	}

	b := &builder{
		env:      opts.Env,
		resolver: types.NewResolver(opts.Env.lookup, types.Builtin, opts.Fallback.Lookup),
		logger:   opts.Logger,
	}
	if b.env == nil {
		b.env = Env{}
	}
	if b.logger == nil {
		b.logger = log.NopLogger{}
	}
	if opts.Stdout != nil || opts.Stderr != nil {
		b.parser = append(b.parser, argparse.WithOutput(orDiscard(opts.Stdout), orDiscard(opts.Stderr)))
	}
	if opts.Exit != nil {
		b.parser = append(b.parser, argparse.WithExit(opts.Exit))
	}

	return b.node(name, module, deepcopy.Copy(defaults), nil, templates.NewScope(), nil)
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

func (b *builder) node(
	name string,
	def *domain.Module,
	defaults map[string]any,
	parent *argparse.Subparsers,
	scope templates.Scope,
	ancestors []string,
) (*argparse.Parser, error) {
	path := append(append([]string(nil), ancestors...), name)

	tmpl, err := templates.Resolve(def, scope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.Join(path, " "), err)
	}

	var examples []domain.Example
	if tmpl != nil {
		examples = append(examples, tmpl.Examples...)
	}
	examples = append(examples, def.Examples...)

	opts := append([]argparse.Option(nil), b.parser...)
	if epilog := FormatExamples(examples); epilog != "" {
		opts = append(opts, argparse.WithEpilog(epilog))
	}

	var p *argparse.Parser
	if parent == nil {
		p = argparse.New(name, opts...)
	} else {
		p, err = parent.AddParser(name, argparse.ParserOptions{
			Help:    def.Help,
			HasHelp: def.Help != "",
			Aliases: def.Aliases,
		}, opts...)
		if err != nil {
			return nil, err
		}
		p.SetDefault(argparse.HandlerKey, b.handler(name, p))
	}

	local := make(map[string]bool)
	for _, spec := range def.Args {
		if err := b.register(p, spec); err != nil {
			return nil, fmt.Errorf("%s: %w", strings.Join(path, " "), err)
		}
		local[spec.Long] = true
		if spec.Short != "" {
			local[spec.Short] = true
		}
	}
	if tmpl != nil {
		for _, spec := range tmpl.Args {
			if local[spec.Long] || (spec.Short != "" && local[spec.Short]) {
				b.logger.Debug("builder: %s: module argument %s shadows template %s", strings.Join(path, " "), spec.Long, def.Template)
				continue
			}
			if err := b.register(p, spec); err != nil {
				return nil, fmt.Errorf("%s: template %s: %w", strings.Join(path, " "), def.Template, err)
			}
		}
	}

	values, err := b.parseDefaults(def, defaults)
	if err != nil {
		return nil, fmt.Errorf("%s: defaults: %w", strings.Join(path, " "), err)
	}
	p.SetDefaults(values)

	childScope, err := scope.Extend(def.Templates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", strings.Join(path, " "), err)
	}

	b.logger.Debug("builder: %s: %d arguments, %d defaults", strings.Join(path, " "), len(p.Arguments()), len(values))

	if !def.HasModules() {
		return p, nil
	}

	sub, err := p.AddSubparsers(CommandDest)
	if err != nil {
		return nil, err
	}
	for pair := def.Modules.Oldest(); pair != nil; pair = pair.Next() {
		child := pair.Value
		if child == nil {
			child = domain.NewModule()
		}
		childDefaults, _ := defaults[pair.Key].(map[string]any)
		if childDefaults == nil {
			childDefaults = map[string]any{}
		}
		if _, err := b.node(pair.Key, child, childDefaults, sub, childScope, path); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// handler returns the environment's handler for a subcommand, or one that
// prints the subcommand's help.
func (b *builder) handler(name string, p *argparse.Parser) argparse.Handler {
	switch h := b.env[name].(type) {
	case argparse.Handler:
		if h != nil {
			return h
		}
	case func(*argparse.Namespace) error:
		if h != nil {
			return h
		}
	}
	return func(*argparse.Namespace) error {
		p.PrintHelp()
		return nil
	}
}

// parseDefaults interpolates string defaults against the environment. Keys
// naming a child module hold that child's defaults and are left out.
func (b *builder) parseDefaults(def *domain.Module, defaults map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(defaults))
	for k, v := range defaults {
		if def.Modules != nil {
			if _, isChild := def.Modules.Get(k); isChild {
				continue
			}
		}
		if s, ok := v.(string); ok {
			formatted, err := Interpolate(s, b.env)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			v = formatted
		}
		out[k] = v
	}
	return out, nil
}

// register adds one argument specification to the parser.
func (b *builder) register(p *argparse.Parser, spec domain.ArgSpec) error {
	if spec.Long == "" {
		return domain.SchemaError("args must contain \"long\" key")
	}
	spec = spec.Clone()

	opts := argparse.Options{
		Action:     spec.Action,
		Nargs:      spec.Nargs,
		Const:      spec.Const,
		Default:    spec.Default,
		HasDefault: spec.HasDefault,
		Choices:    spec.Choices,
		Required:   spec.Required,
		Metavar:    spec.Metavar,
		Dest:       spec.Dest,
	}

	switch {
	case spec.HelpSuppressed:
		opts.HideHelp = true
	case spec.Help != nil:
		lines := make([]string, len(spec.Help))
		for i, line := range spec.Help {
			formatted, err := Interpolate(line, b.env)
			if err != nil {
				return fmt.Errorf("%s: help: %w", spec.Long, err)
			}
			lines[i] = formatted
		}
		opts.Help = strings.Join(lines, "\n")
	}

	if spec.Type != "" {
		conv, err := b.resolver.Resolve(spec.Type)
		if err != nil {
			return fmt.Errorf("%s: %w", spec.Long, err)
		}
		opts.Type = argparse.TypeFunc(conv.Fn)
		opts.TypeName = conv.Name
	}

	names := []string{spec.Long}
	if spec.Short != "" {
		names = []string{spec.Short, spec.Long}
	}
	if _, err := p.AddArgument(names, opts); err != nil {
		if errors.Is(err, argparse.ErrConflict) {
			return err
		}
		return domain.SchemaError("%s: %v", spec.Long, err)
	}
	return nil
}

// FormatExamples renders the examples epilog, or "" when there are none.
func FormatExamples(examples []domain.Example) string {
	if len(examples) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("examples:")
	for _, e := range examples {
		fmt.Fprintf(&sb, "\n    %-*s%s", exampleWidth, e.Usage, e.Description)
	}
	return sb.String()
}
