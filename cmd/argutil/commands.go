package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/footprint-tools/argutil"
	"github.com/footprint-tools/argutil/argparse"
	"github.com/footprint-tools/argutil/internal/completions"
	"github.com/footprint-tools/argutil/internal/config"
	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/paths"
	"github.com/footprint-tools/argutil/internal/tui"
	"github.com/footprint-tools/argutil/internal/usage"
)

// editorFunc runs the interactive defaults editor.
type editorFunc func(title string, fields []tui.Field, values map[string]any, save tui.SaveFunc) (tui.Result, error)

type cli struct {
	stdout io.Writer
	stderr io.Writer

	app  *domain.Application
	root *argparse.Parser

	colorTerminal bool
	isTerminal    func() bool
	editor        editorFunc
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{
		stdout:     stdout,
		stderr:     stderr,
		isTerminal: func() bool { return false },
		editor: func(title string, fields []tui.Field, values map[string]any, save tui.SaveFunc) (tui.Result, error) {
			return tui.Run(title, fields, values, save)
		},
	}
}

// env binds each subcommand to its handler. defaults_path is interpolated
// into help text.
func (c *cli) env() argutil.Env {
	return argutil.Env{
		"init":          argparse.Handler(c.initModule),
		"add-argument":  argparse.Handler(c.addArgument),
		"add-example":   argparse.Handler(c.addExample),
		"config":        argparse.Handler(c.config),
		"show":          argparse.Handler(c.show),
		"parse":         argparse.Handler(c.parse),
		"completions":   argparse.Handler(c.completions),
		"version":       argparse.Handler(c.version),
		"defaults_path": paths.DefaultsFilePath(),
	}
}

func (c *cli) dir(ns *argparse.Namespace) string {
	dir := ns.String("dir", ".")
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func (c *cli) options(ns *argparse.Namespace) []argutil.Option {
	return []argutil.Option{
		argutil.WithDefinitionsFile(ns.String("definitions_file", argutil.DefinitionsFile)),
		argutil.WithDefaultsFile(ns.String("defaults_file", argutil.DefaultsFile)),
		argutil.WithLogger(c.app.Logger),
		argutil.WithOutput(c.app.Output, c.stderr),
	}
}

// definition returns the definition of the module named on the command line.
func (c *cli) definition(ns *argparse.Namespace) (*argutil.Definition, error) {
	module := ns.String("module", "")
	if module == "" {
		return nil, usage.MissingArgument("module")
	}
	dir := c.dir(ns)
	opts := append(c.options(ns), argutil.WithDir(dir), argutil.WithModule(module))
	return argutil.New(filepath.Join(dir, module), opts...), nil
}

func (c *cli) initModule(ns *argparse.Namespace) error {
	module := ns.String("module", "")
	dir := c.dir(ns)
	opts := append(c.options(ns), argutil.WithFailIfExists(!ns.Bool("force")))

	var (
		def *argutil.Definition
		err error
	)
	if stub := ns.String("stub", ""); stub != "" {
		if !filepath.IsAbs(stub) {
			stub = filepath.Join(dir, stub)
		}
		def, err = argutil.Create(stub, append(opts, argutil.WithDir(dir), argutil.WithModule(module))...)
	} else {
		def, err = argutil.Init(dir, module, opts...)
	}
	if err != nil {
		return err
	}

	_, _ = c.app.Output.Printf("%s %s in %s\n", c.app.Styler.Success("initialized"), module, def.DefinitionsPath())
	return nil
}

func (c *cli) addArgument(ns *argparse.Namespace) error {
	def, err := c.definition(ns)
	if err != nil {
		return err
	}

	opts := argutil.ArgOptions{
		Short:    ns.String("short", ""),
		Action:   ns.String("action", ""),
		Type:     ns.String("type", ""),
		Required: ns.Bool("required"),
		Help:     ns.Strings("help_text"),
		HideHelp: ns.Bool("hidden"),
		Metavar:  ns.String("metavar", ""),
		Dest:     ns.String("dest", ""),
	}
	if raw, ok := value(ns, "nargs"); ok {
		opts.Nargs = config.ParseValue(raw)
	}
	if raw, ok := value(ns, "const"); ok {
		opts.Const, opts.HasConst = config.ParseText(raw), true
	}
	if raw, ok := value(ns, "default"); ok {
		opts.Default, opts.HasDefault = config.ParseText(raw), true
	}
	for _, choice := range ns.Strings("choices") {
		opts.Choices = append(opts.Choices, config.ParseValue(choice))
	}

	name := ns.String("name", "")
	if err := def.AddArgument(name, opts); err != nil {
		return err
	}
	_, _ = c.app.Output.Printf("%s %s to %s\n", c.app.Styler.Success("added"), name, def.Module())
	return nil
}

func (c *cli) addExample(ns *argparse.Namespace) error {
	def, err := c.definition(ns)
	if err != nil {
		return err
	}
	return def.AddExample(ns.String("usage", ""), ns.String("description", ""))
}

func (c *cli) config(ns *argparse.Namespace) error {
	def, err := c.configDefinition(ns)
	if err != nil {
		return err
	}

	settings := ns.Strings("settings")
	if global := ns.Bool("global"); global && ns.String("module", "") != "" {
		// with --global the first positional is already a setting
		settings = append([]string{ns.String("module", "")}, settings...)
	}

	if keys := ns.Strings("unset"); len(keys) > 0 {
		missing, err := def.Unset(keys...)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if !contains(missing, k) {
				_, _ = c.app.Output.Printf("unset %s\n", k)
			}
		}
		if len(missing) > 0 {
			return usage.UnknownKey(missing...)
		}
	}

	if len(settings) > 0 {
		return def.Config(settings...)
	}

	switch {
	case ns.Bool("interactive"):
		return c.interactive(ns, def)
	case ns.Bool("yaml"):
		values, err := def.GetDefaults()
		if err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		out, err := yaml.Marshal(values)
		if err != nil {
			return err
		}
		_, _ = c.app.Output.Write(out)
		return nil
	case len(ns.Strings("unset")) > 0:
		return nil
	}

	lines, err := def.ConfigList()
	if err != nil {
		return err
	}
	for _, line := range lines {
		_, _ = c.app.Output.Println(line)
	}
	return nil
}

// configDefinition returns the module addressed by config: the named module,
// or this command's own defaults with --global.
func (c *cli) configDefinition(ns *argparse.Namespace) (*argutil.Definition, error) {
	if !ns.Bool("global") {
		return c.definition(ns)
	}
	dir := paths.AppDataDir()
	return argutil.New(filepath.Join(dir, program),
		argutil.WithDir(dir),
		argutil.WithDefaultsFile(filepath.Base(paths.DefaultsFilePath())),
		argutil.WithLogger(c.app.Logger),
	), nil
}

func (c *cli) interactive(ns *argparse.Namespace, def *argutil.Definition) error {
	if !c.isTerminal() {
		return errors.New("config: --interactive needs a terminal")
	}
	values, err := def.GetDefaults()
	if err != nil {
		return err
	}

	target := c.root
	if !ns.Bool("global") {
		if target, err = def.Parser(nil); err != nil {
			c.app.Logger.Warn("config: %v, listing stored keys only", err)
			target = nil
		}
	}

	result, err := c.editor(def.Module()+" defaults", tui.Fields(target, values), values, def.ReplaceDefaults)
	if err != nil {
		return err
	}
	if result.Changed {
		_, _ = c.app.Output.Printf("saved %s\n", def.DefaultsPath())
	}
	return nil
}

// show reads both documents through the application store, which is rooted
// at --dir.
func (c *cli) show(ns *argparse.Namespace) error {
	name := ns.String("module", "")
	definitionsFile := ns.String("definitions_file", argutil.DefinitionsFile)
	defaultsFile := ns.String("defaults_file", argutil.DefaultsFile)

	doc, err := c.app.Store.LoadDefinitions(definitionsFile, domain.ModeRead)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", argutil.ErrDefinitionsNotFound, c.app.Store.Path(definitionsFile))
	}
	if err != nil {
		return err
	}
	module, ok := doc.Module(name)
	if !ok {
		return fmt.Errorf("%w: no entry for %s in %s", argutil.ErrNotFound, name, c.app.Store.Path(definitionsFile))
	}
	data, err := json.MarshalIndent(module, "", "  ")
	if err != nil {
		return err
	}
	defaults, err := c.app.Store.LoadDefaults(defaultsFile, domain.ModeAppend)
	if err != nil {
		return err
	}
	lines := config.Lines(defaults.Module(name))

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n", c.app.Styler.Header(name), c.app.Styler.Muted(c.app.Store.Path(definitionsFile)))
	sb.Write(data)
	sb.WriteString("\n")
	if len(lines) > 0 {
		fmt.Fprintf(&sb, "\n%s %s\n", c.app.Styler.Header("defaults"), c.app.Styler.Muted(c.app.Store.Path(defaultsFile)))
		for _, line := range lines {
			sb.WriteString("  " + line + "\n")
		}
	}
	c.app.Output.Pager(sb.String())
	return nil
}

// parse runs the module's parser from the definitions directory, so that
// relative paths resolve the way they do for the module's program.
func (c *cli) parse(ns *argparse.Namespace) error {
	def, err := c.definition(ns)
	if err != nil {
		return err
	}
	tokens := ns.Strings("args")
	if len(tokens) > 0 && tokens[0] == "--" {
		tokens = tokens[1:]
	}

	return argutil.WorkingDirectory(c.dir(ns), func() error {
		p, err := def.Parser(nil)
		if err != nil {
			return err
		}
		result, err := p.Parse(tokens)
		if errors.Is(err, argparse.ErrHelp) {
			return nil
		}
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, _ = c.app.Output.Println(string(data))
		return nil
	})
}

func (c *cli) completions(ns *argparse.Namespace) error {
	shell, err := completions.ParseShell(ns.String("shell", string(completions.ShellBash)))
	if err != nil {
		return err
	}
	target := c.root
	if ns.String("module", "") != "" {
		def, err := c.definition(ns)
		if err != nil {
			return err
		}
		if target, err = def.Parser(nil); err != nil {
			return err
		}
	}
	return completions.PrintCompletions(c.app.Output, shell, target)
}

func (c *cli) version(*argparse.Namespace) error {
	_, _ = c.app.Output.Printf("%s version %s\n", program, argutil.Version)
	return nil
}

// value returns a string option that was given or defaulted to a non-nil value.
func value(ns *argparse.Namespace, key string) (string, bool) {
	v, ok := ns.Get(key)
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
