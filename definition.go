package argutil

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/footprint-tools/argutil/argparse"
	"github.com/footprint-tools/argutil/internal/builder"
	"github.com/footprint-tools/argutil/internal/config"
	"github.com/footprint-tools/argutil/internal/deepcopy"
	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/log"
	"github.com/footprint-tools/argutil/internal/store"
)

//go:embed stub.go.tmpl
var stub []byte

// Definition owns one module of a definitions document: it edits the
// module's arguments, examples and persisted defaults and builds its parser.
type Definition struct {
	module          string
	definitionsFile string
	defaultsFile    string
	failIfExists    bool

	global   *Registry
	registry *Registry

	store  *store.Store
	logger domain.Logger
	stdout io.Writer
	stderr io.Writer
	exit   func(int)
}

// Option configures a Definition.
type Option func(*Definition)

// WithModule overrides the module name derived from the script path.
func WithModule(name string) Option {
	return func(d *Definition) {
		d.module = name
	}
}

// WithDir sets the directory the document files are resolved against.
func WithDir(dir string) Option {
	return func(d *Definition) {
		d.store = store.New(dir)
	}
}

// WithDefinitionsFile sets the definitions document name.
func WithDefinitionsFile(file string) Option {
	return func(d *Definition) {
		d.definitionsFile = file
	}
}

// WithDefaultsFile sets the defaults document name.
func WithDefaultsFile(file string) Option {
	return func(d *Definition) {
		d.defaultsFile = file
	}
}

// WithGlobal adds a shared registry whose entries have the lowest precedence.
func WithGlobal(r *Registry) Option {
	return func(d *Definition) {
		d.global = r
	}
}

// WithLogger sets the logger.
func WithLogger(l domain.Logger) Option {
	return func(d *Definition) {
		d.logger = l
	}
}

// WithOutput sets where help and usage errors are written.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(d *Definition) {
		d.stdout = stdout
		d.stderr = stderr
	}
}

// WithExit replaces os.Exit for MustParser and the built parser.
func WithExit(fn func(int)) Option {
	return func(d *Definition) {
		d.exit = fn
	}
}

// WithFailIfExists controls whether Create and Init fail for a module that
// is already defined. The default is true.
func WithFailIfExists(fail bool) Option {
	return func(d *Definition) {
		d.failIfExists = fail
	}
}

// New returns the definition of the module named after scriptPath: the base
// name without its extension. Documents are resolved against the script's
// directory.
func New(scriptPath string, opts ...Option) *Definition {
	if abs, err := filepath.Abs(scriptPath); err == nil {
		scriptPath = abs
	}
	base := filepath.Base(scriptPath)
	d := &Definition{
		module:          strings.TrimSuffix(base, filepath.Ext(base)),
		definitionsFile: DefinitionsFile,
		defaultsFile:    DefaultsFile,
		failIfExists:    true,
		registry:        NewRegistry(),
		store:           store.New(filepath.Dir(scriptPath)),
		logger:          log.NopLogger{},
		stdout:          os.Stdout,
		stderr:          os.Stderr,
		exit:            os.Exit,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = log.NopLogger{}
	}
	d.store = store.New(d.store.Dir(), store.WithLogger(d.logger))
	return d
}

// Create writes a program stub at scriptPath when nothing exists there yet
// and registers the module in the definitions document.
func Create(scriptPath string, opts ...Option) (*Definition, error) {
	d := New(scriptPath, opts...)
	script, _ := filepath.Abs(scriptPath)
	if _, err := os.Stat(script); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(script, stub, 0644); err != nil {
			return nil, fmt.Errorf("argutil: write stub: %w", err)
		}
		d.logger.Info("argutil: wrote %s", script)
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// Init registers module in the definitions document under dir.
func Init(dir, module string, opts ...Option) (*Definition, error) {
	opts = append([]Option{WithDir(dir), WithModule(module)}, opts...)
	d := New(filepath.Join(dir, module), opts...)
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Definition) init() error {
	if !d.store.Exists(d.definitionsFile) {
		if err := d.store.SaveDefinitions(d.definitionsFile, domain.NewDefinitions()); err != nil {
			return err
		}
	}
	return d.updateDefinitions(func(doc *domain.Definitions) error {
		if _, ok := doc.Modules.Get(d.module); ok {
			if d.failIfExists {
				return fmt.Errorf("argutil: module %q already defined", d.module)
			}
			return nil
		}
		doc.Modules.Set(d.module, domain.NewModule())
		return nil
	})
}

// Module returns the module name.
func (d *Definition) Module() string {
	return d.module
}

// DefinitionsPath returns the resolved definitions file path.
func (d *Definition) DefinitionsPath() string {
	return d.store.Path(d.definitionsFile)
}

// DefaultsPath returns the resolved defaults file path.
func (d *Definition) DefaultsPath() string {
	return d.store.Path(d.defaultsFile)
}

// Definitions loads the whole definitions document.
func (d *Definition) Definitions() (*Definitions, error) {
	return d.loadDefinitions()
}

func (d *Definition) loadDefinitions() (*domain.Definitions, error) {
	doc, err := d.store.LoadDefinitions(d.definitionsFile, domain.ModeRead)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrDefinitionsNotFound, d.DefinitionsPath())
	}
	return doc, err
}

// updateDefinitions runs fn on the module's document and saves the result.
func (d *Definition) updateDefinitions(fn func(*domain.Definitions) error) error {
	doc, err := d.loadDefinitions()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return d.store.SaveDefinitions(d.definitionsFile, doc)
}

func (d *Definition) updateModule(fn func(*domain.Module) error) error {
	return d.updateDefinitions(func(doc *domain.Definitions) error {
		m, ok := doc.Module(d.module)
		if !ok {
			return domain.NotFoundError("module %q is not defined in %s", d.module, d.DefinitionsPath())
		}
		if m == nil {
			m = domain.NewModule()
			doc.Modules.Set(d.module, m)
		}
		return fn(m)
	})
}

// ArgOptions holds the optional attributes of AddArgument. A nil Help is
// saved as an empty list; HideHelp saves a suppressed help.
type ArgOptions struct {
	Short      string
	Action     string
	Nargs      any
	Const      any
	HasConst   bool
	Default    any
	HasDefault bool
	Type       string
	Choices    []any
	Required   bool
	Help       []string
	HideHelp   bool
	Metavar    string
	Dest       string
}

func (o ArgOptions) spec(name string) domain.ArgSpec {
	spec := domain.ArgSpec{
		Long:       name,
		Short:      o.Short,
		Type:       o.Type,
		Action:     o.Action,
		Nargs:      o.Nargs,
		Const:      o.Const,
		HasConst:   o.HasConst || o.Const != nil,
		Default:    o.Default,
		HasDefault: o.HasDefault || o.Default != nil,
		Choices:    o.Choices,
		Required:   o.Required,
		Metavar:    o.Metavar,
		Dest:       o.Dest,
	}
	switch {
	case o.HideHelp:
		spec.HelpSuppressed = true
	case o.Help == nil:
		spec.Help = []string{}
	default:
		var lines []string
		for _, line := range o.Help {
			lines = append(lines, strings.Split(line, "\n")...)
		}
		spec.Help = lines
	}
	return spec
}

// AddArgument appends an argument to the module. The registration is
// checked against a scratch parser first so that invalid combinations are
// rejected before anything is saved.
func (d *Definition) AddArgument(name string, opts ArgOptions) error {
	if name == "" {
		return domain.SchemaError("args must contain \"long\" key")
	}
	spec := opts.spec(name)
	if err := validate(spec); err != nil {
		return err
	}
	err := d.updateModule(func(m *domain.Module) error {
		m.Args = append(m.Args, spec)
		return nil
	})
	if err == nil {
		d.logger.Debug("argutil: %s: added argument %s", d.module, name)
	}
	return err
}

func validate(spec domain.ArgSpec) error {
	names := []string{spec.Long}
	if spec.Short != "" {
		names = []string{spec.Short, spec.Long}
	}
	_, err := argparse.New("check").AddArgument(names, argparse.Options{
		Action:     spec.Action,
		Nargs:      spec.Nargs,
		Const:      spec.Const,
		Default:    spec.Default,
		HasDefault: spec.HasDefault,
		Choices:    spec.Choices,
		Required:   spec.Required,
		Metavar:    spec.Metavar,
		Dest:       spec.Dest,
	})
	if err != nil {
		return domain.SchemaError("%s: %v", spec.Long, err)
	}
	return nil
}

// AddExample appends a usage example to the module.
func (d *Definition) AddExample(usage, description string) error {
	return d.updateModule(func(m *domain.Module) error {
		m.Examples = append(m.Examples, domain.Example{Usage: usage, Description: description})
		return nil
	})
}

// SetDefaults stores values under the module's defaults. Keys are
// dot-separated paths, applied in sorted order.
func (d *Definition) SetDefaults(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	settings := make([]config.Setting, 0, len(keys))
	for _, k := range keys {
		settings = append(settings, config.Setting{Key: k, Value: values[k]})
	}
	return d.apply(settings)
}

func (d *Definition) apply(settings []config.Setting) error {
	return d.store.UpdateDefaults(d.defaultsFile, func(doc domain.Defaults) error {
		m, ok := doc[d.module].(map[string]any)
		if !ok {
			m = map[string]any{}
			doc[d.module] = m
		}
		return config.Apply(m, settings)
	})
}

// ReplaceDefaults stores values as the module's whole defaults mapping. An
// empty mapping removes the module's entry.
func (d *Definition) ReplaceDefaults(values map[string]any) error {
	return d.store.UpdateDefaults(d.defaultsFile, func(doc domain.Defaults) error {
		if len(values) == 0 {
			delete(doc, d.module)
			return nil
		}
		doc[d.module] = deepcopy.Copy(values)
		return nil
	})
}

// GetDefaults returns the module's stored defaults, or an empty mapping.
func (d *Definition) GetDefaults() (map[string]any, error) {
	doc, err := d.store.LoadDefaults(d.defaultsFile, domain.ModeAppend)
	if err != nil {
		return nil, err
	}
	return doc.Module(d.module), nil
}

// Config parses "key=value" settings and stores them as defaults.
func (d *Definition) Config(settings ...string) error {
	parsed, err := config.Parse(settings)
	if err != nil {
		return err
	}
	return d.apply(parsed)
}

// ConfigList lists the module's defaults as "key=value" lines.
func (d *Definition) ConfigList() ([]string, error) {
	m, err := d.GetDefaults()
	if err != nil {
		return nil, err
	}
	return config.Lines(m), nil
}

// Unset removes dot-separated keys from the module's defaults and returns
// the keys that were not present.
func (d *Definition) Unset(keys ...string) ([]string, error) {
	var missing []string
	err := d.store.UpdateDefaults(d.defaultsFile, func(doc domain.Defaults) error {
		missing = nil
		m := doc.Module(d.module)
		for _, k := range keys {
			if !config.Unset(m, k) {
				missing = append(missing, k)
			}
		}
		if len(m) == 0 {
			delete(doc, d.module)
		}
		return nil
	})
	return missing, err
}

// Callable registers a handler or converter for this definition only.
func (d *Definition) Callable(name string, fn any) error {
	return d.registry.Callable(name, fn)
}

// RegisterType registers a fallback converter for this definition only.
func (d *Definition) RegisterType(name string, fn TypeFunc) {
	d.registry.RegisterType(name, fn)
}

// Parser builds the module's parser. env takes precedence over the
// definition's registry, which takes precedence over the global one.
func (d *Definition) Parser(env Env) (*argparse.Parser, error) {
	doc, err := d.loadDefinitions()
	if err != nil {
		return nil, err
	}
	module, ok := doc.Module(d.module)
	if !ok {
		return nil, domain.NotFoundError("no entry for %s in %s", d.module, d.DefinitionsPath())
	}

	defaults, err := d.GetDefaults()
	if err != nil {
		return nil, err
	}

	return builder.Build(d.module, module, defaults, builder.Options{
		Env:      mergeEnv(d.global.Env(), d.registry.Env(), env),
		Fallback: mergeTypes(d.global, d.registry),
		Logger:   d.logger,
		Stdout:   d.stdout,
		Stderr:   d.stderr,
		Exit:     d.exit,
	})
}

// MustParser is Parser for programs: a construction error is logged and
// ends the process with status 1.
func (d *Definition) MustParser(env Env) *argparse.Parser {
	p, err := d.Parser(env)
	if err != nil {
		d.logger.Error("build parser: %v", err)
		fmt.Fprintf(d.stderr, "%s: error: %v\n", d.module, err)
		d.exit(1)
		return nil
	}
	return p
}
