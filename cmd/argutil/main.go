package main

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/footprint-tools/argutil/argparse"
	"github.com/footprint-tools/argutil/internal/app"
	"github.com/footprint-tools/argutil/internal/builder"
	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/log"
	"github.com/footprint-tools/argutil/internal/paths"
	"github.com/footprint-tools/argutil/internal/store"
	"github.com/footprint-tools/argutil/internal/usage"
)

const program = "argutil"

//go:embed commandline.json
var commandline []byte

var osExit = os.Exit

func main() {
	c := newCLI(os.Stdout, os.Stderr)
	c.isTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	}
	c.colorTerminal = term.IsTerminal(int(os.Stdout.Fd()))
	osExit(c.run(os.Args[1:]))
}

// run parses args, dispatches the selected command and returns the exit status.
func (c *cli) run(args []string) int {
	persisted := c.persistedDefaults()

	rawFlags := extractFlags(args)
	opts := app.DefaultOptions()
	opts.Dir = dirValue(args, stringValue(persisted["dir"], "."))
	opts.Stdout, opts.Stderr = c.stdout, c.stderr
	opts.PagerDisabled = hasFlag(rawFlags, "--no-pager") || persisted["no_pager"] == true
	opts.PagerOverride = flagValue(args, "--pager", stringValue(persisted["pager"], ""))
	opts.LogLevel = log.ParseLevel(flagValue(args, "--log-level", stringValue(persisted["log_level"], "warn")))
	opts.StyleEnabled = c.colorTerminal && !hasFlag(rawFlags, "--no-color") && persisted["no_color"] != true
	opts.Theme = flagValue(args, "--theme", stringValue(persisted["theme"], ""))
	c.app = app.New(opts)
	defer func() { _ = app.Close(c.app) }()

	parser, err := c.parser(persisted)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s: error: %v\n", program, err)
		return 1
	}
	c.root = parser

	ns, err := parser.Parse(args)
	if errors.Is(err, argparse.ErrHelp) {
		return 0
	}
	if err != nil {
		return c.fail(err)
	}
	if ns.Command() == "" {
		fmt.Fprint(c.stderr, parser.FormatUsage())
		fmt.Fprintf(c.stderr, "%s: error: a command is required\n", program)
		return 2
	}

	c.app.Logger.Debug("dispatching %s", ns.Command())
	if err := ns.Dispatch(); err != nil {
		return c.fail(err)
	}
	return 0
}

// fail reports err and returns its exit status.
func (c *cli) fail(err error) int {
	var perr *argparse.Error
	if errors.As(err, &perr) {
		fmt.Fprint(c.stderr, perr.Usage)
		fmt.Fprintln(c.stderr, perr.Error())
		return perr.ExitCode()
	}
	fmt.Fprintf(c.stderr, "%s: error: %v\n", program, err)
	var ue *usage.Error
	if errors.As(err, &ue) {
		return ue.GetExitCode()
	}
	return 1
}

// parser builds the command's own parser from the embedded definitions.
func (c *cli) parser(persisted map[string]any) (*argparse.Parser, error) {
	doc := domain.NewDefinitions()
	if err := json.Unmarshal(commandline, doc); err != nil {
		return nil, fmt.Errorf("embedded definitions: %w", err)
	}
	module, _ := doc.Module(program)
	return builder.Build(program, module, persisted, builder.Options{
		Env:    c.env(),
		Logger: c.app.Logger,
		Stdout: c.app.Output,
		Stderr: c.stderr,
	})
}

// persistedDefaults loads the command's own defaults. A broken file is
// reported and ignored.
func (c *cli) persistedDefaults() map[string]any {
	doc, err := store.New("").LoadDefaults(paths.DefaultsFilePath(), domain.ModeAppend)
	if err != nil {
		fmt.Fprintf(c.stderr, "%s: warning: ignoring %s: %v\n", program, paths.DefaultsFilePath(), err)
		return map[string]any{}
	}
	return doc.Module(program)
}

func extractFlags(args []string) []string {
	var flags []string
	for _, a := range args {
		if a == "--" {
			break
		}
		if len(a) > 1 && a[0] == '-' {
			flags = append(flags, a)
		}
	}
	return flags
}

func hasFlag(flags []string, name string) bool {
	for _, f := range flags {
		if f == name {
			return true
		}
	}
	return false
}

// flagValue returns the value given to a long option as "--name=value" or
// "--name value".
func flagValue(args []string, name, defaultVal string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		if v, ok := strings.CutPrefix(a, name+"="); ok {
			return v
		}
		if a == name && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultVal
}

// dirValue returns the -C/--dir value the parser will see, accepting the
// "-CDIR", "-C DIR", "--dir=DIR" and "--dir DIR" forms and unique
// abbreviations of --dir. The last occurrence wins. The result is absolute.
func dirValue(args []string, defaultVal string) string {
	dir := defaultVal
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			break
		}
		name, value, hasValue := strings.Cut(a, "=")
		switch {
		case a == "-C":
		case strings.HasPrefix(a, "-C"):
			dir = a[2:]
			continue
		case len(name) >= len("--di") && strings.HasPrefix("--dir", name):
			if hasValue {
				dir = value
				continue
			}
		default:
			continue
		}
		if i+1 < len(args) {
			dir = args[i+1]
			i++
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func stringValue(v any, defaultVal string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return defaultVal
}
