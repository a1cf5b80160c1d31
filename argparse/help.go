package argparse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/footprint-tools/argutil/internal/config"
	"github.com/footprint-tools/argutil/internal/ui/style"
)

const (
	maxHelpPosition = 24
	indentIncrement = 2
)

// pager is implemented by output writers that can page long help text.
type pager interface {
	Pager(content string)
}

// display renders a value in help text.
func display(v any) string {
	return config.FormatValue(v)
}

// FormatUsage returns the usage line, terminated by a newline.
func (p *Parser) FormatUsage() string {
	if p.usage != "" {
		return style.Header("usage:") + " " + strings.ReplaceAll(p.usage, "%(prog)s", p.prog) + "\n"
	}

	parts := []string{p.prog}
	for _, a := range p.arguments {
		if a.IsPositional() || a.HideHelp {
			continue
		}
		part := a.OptionStrings[0]
		if args := formatArgs(a, defaultMetavar(a)); args != "" {
			part += " " + args
		}
		if !a.Required {
			part = "[" + part + "]"
		}
		parts = append(parts, part)
	}
	for _, a := range p.arguments {
		if !a.IsPositional() || a.HideHelp {
			continue
		}
		parts = append(parts, formatArgs(a, defaultMetavar(a)))
	}
	if p.subparsers != nil {
		parts = append(parts, p.subparsers.metavar()+" ...")
	}
	return style.Header("usage:") + " " + style.Muted(strings.Join(parts, " ")) + "\n"
}

// helpEntry is one row of an argument section.
type helpEntry struct {
	indent     int
	invocation string
	help       []string
}

// FormatHelp returns the full help text.
func (p *Parser) FormatHelp() string {
	var positional, optional []helpEntry
	for _, a := range p.arguments {
		if a.HideHelp {
			continue
		}
		e := helpEntry{indent: indentIncrement, invocation: invocation(a), help: p.helpLines(a)}
		if a.IsPositional() {
			positional = append(positional, e)
		} else {
			optional = append(optional, e)
		}
	}
	if p.subparsers != nil {
		positional = append(positional, helpEntry{indent: indentIncrement, invocation: p.subparsers.metavar()})
		for _, c := range p.subparsers.choices {
			if !c.hasHelp {
				continue
			}
			name := c.name
			if len(c.aliases) > 0 {
				name += " (" + strings.Join(c.aliases, ", ") + ")"
			}
			var lines []string
			if c.help != "" {
				lines = strings.Split(c.help, "\n")
			}
			positional = append(positional, helpEntry{indent: 2 * indentIncrement, invocation: name, help: lines})
		}
	}

	maxLen := 0
	for _, e := range append(append([]helpEntry(nil), positional...), optional...) {
		maxLen = max(maxLen, e.indent+len(e.invocation))
	}
	helpPosition := min(maxLen+2, maxHelpPosition)

	var out strings.Builder
	out.WriteString(p.FormatUsage())
	if p.description != "" {
		out.WriteString("\n")
		out.WriteString(strings.TrimRight(p.description, "\n"))
		out.WriteString("\n")
	}
	writeSection(&out, "positional arguments", positional, helpPosition)
	writeSection(&out, "options", optional, helpPosition)
	if p.epilog != "" {
		out.WriteString("\n")
		out.WriteString(strings.TrimRight(p.epilog, "\n"))
		out.WriteString("\n")
	}
	return out.String()
}

func writeSection(out *strings.Builder, title string, entries []helpEntry, helpPosition int) {
	if len(entries) == 0 {
		return
	}
	out.WriteString("\n")
	out.WriteString(style.Header(title + ":"))
	out.WriteString("\n")

	for _, e := range entries {
		width := helpPosition - e.indent - 2
		pad := strings.Repeat(" ", e.indent)
		switch {
		case len(e.help) == 0:
			fmt.Fprintf(out, "%s%s\n", pad, style.Info(e.invocation))
		case len(e.invocation) <= width:
			fmt.Fprintf(out, "%s%s  %s\n", pad, style.Info(fmt.Sprintf("%-*s", width, e.invocation)), e.help[0])
		default:
			fmt.Fprintf(out, "%s%s\n%s%s\n", pad, style.Info(e.invocation), strings.Repeat(" ", helpPosition), e.help[0])
		}
		if len(e.help) > 1 {
			for _, line := range e.help[1:] {
				fmt.Fprintf(out, "%s%s\n", strings.Repeat(" ", helpPosition), line)
			}
		}
	}
}

// PrintHelp writes the help text to the parser's output.
func (p *Parser) PrintHelp() {
	text := p.FormatHelp()
	if pg, ok := p.stdout.(pager); ok {
		pg.Pager(text)
		return
	}
	fmt.Fprint(p.stdout, text)
}

// PrintUsage writes the usage line to the parser's output.
func (p *Parser) PrintUsage() {
	fmt.Fprint(p.stdout, p.FormatUsage())
}

// helpLines expands the argument's help text and appends its default.
func (p *Parser) helpLines(a *Argument) []string {
	if strings.TrimSpace(a.Help) == "" {
		return nil
	}
	text := a.Help
	if showsDefault(a) && !strings.Contains(text, "%(default)") {
		text += " (default: %(default)s)"
	}
	return strings.Split(p.expandHelp(a, text), "\n")
}

func showsDefault(a *Argument) bool {
	if a.Action == ActionHelp || a.Action == ActionVersion {
		return false
	}
	return !a.IsPositional() || a.Nargs == Optional || a.Nargs == ZeroOrMore
}

// expandHelp substitutes %(name)s placeholders.
func (p *Parser) expandHelp(a *Argument, text string) string {
	choices := make([]string, len(a.Choices))
	for i, c := range a.Choices {
		choices[i] = display(c)
	}
	r := strings.NewReplacer(
		"%%", "%",
		"%(default)s", display(a.Default),
		"%(prog)s", p.prog,
		"%(dest)s", a.Dest,
		"%(metavar)s", defaultMetavar(a),
		"%(choices)s", strings.Join(choices, ", "),
		"%(type)s", a.TypeName,
	)
	return r.Replace(text)
}

func defaultMetavar(a *Argument) string {
	if a.Metavar != "" {
		return a.Metavar
	}
	if len(a.Choices) > 0 {
		items := make([]string, len(a.Choices))
		for i, c := range a.Choices {
			items[i] = display(c)
		}
		return "{" + strings.Join(items, ",") + "}"
	}
	if a.IsPositional() {
		return a.Dest
	}
	return strings.ToUpper(a.Dest)
}

// formatArgs renders the value placeholders for the argument's nargs.
func formatArgs(a *Argument, metavar string) string {
	if !a.takesValues() {
		return ""
	}
	switch n := a.Nargs.(type) {
	case int:
		parts := make([]string, n)
		for i := range parts {
			parts[i] = metavar
		}
		return strings.Join(parts, " ")
	case string:
		switch n {
		case Optional:
			return "[" + metavar + "]"
		case ZeroOrMore:
			return "[" + metavar + " ...]"
		case OneOrMore:
			return metavar + " [" + metavar + " ...]"
		case Remainder:
			return "..."
		}
	}
	return metavar
}

func invocation(a *Argument) string {
	if a.IsPositional() {
		return defaultMetavar(a)
	}
	names := strings.Join(a.OptionStrings, ", ")
	if args := formatArgs(a, defaultMetavar(a)); args != "" {
		return names + " " + args
	}
	return names
}

func (s *Subparsers) metavar() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
