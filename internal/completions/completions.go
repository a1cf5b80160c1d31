// Package completions generates shell completion scripts for a parser tree.
package completions

import (
	"fmt"
	"io"
	"strings"

	"github.com/footprint-tools/argutil/argparse"
)

// Shell names a supported shell.
type Shell string

const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// Shells lists the supported shells.
var Shells = []Shell{ShellBash, ShellZsh, ShellFish}

// CommandInfo represents one parser of the tree.
type CommandInfo struct {
	Name        string
	Path        []string // full path from the root, e.g. ["deploy", "config", "set"]
	Summary     string
	Subcommands []string
	Flags       []FlagInfo
}

// FlagInfo represents one optional argument of a command.
type FlagInfo struct {
	Names       []string
	Description string
	HasValue    bool
}

// ExtractCommands walks the parser tree depth first, subcommands in
// registration order.
func ExtractCommands(root *argparse.Parser) []CommandInfo {
	var commands []CommandInfo
	if root != nil {
		extract(root, []string{root.Prog()}, "", &commands)
	}
	return commands
}

func extract(p *argparse.Parser, path []string, summary string, commands *[]CommandInfo) {
	var flags []FlagInfo
	if p.HasOption("--help") {
		flags = append(flags, FlagInfo{Names: []string{"-h", "--help"}, Description: "show this help message and exit"})
	}
	for _, a := range p.Arguments() {
		if a.IsPositional() || a.HideHelp {
			continue
		}
		flags = append(flags, FlagInfo{
			Names:       a.OptionStrings,
			Description: firstLine(a.Help),
			HasValue:    takesValue(a.Action),
		})
	}

	cmd := CommandInfo{
		Name:    path[len(path)-1],
		Path:    path,
		Summary: summary,
		Flags:   flags,
	}
	sub := p.Subparsers()
	if sub != nil {
		cmd.Subcommands = sub.Names()
	}
	*commands = append(*commands, cmd)

	if sub == nil {
		return
	}
	for _, name := range sub.Names() {
		child, _ := sub.Lookup(name)
		childPath := append(append([]string(nil), path...), name)
		extract(child, childPath, firstLine(sub.Help(name)), commands)
	}
}

func takesValue(action string) bool {
	switch action {
	case "", argparse.ActionStore, argparse.ActionAppend, argparse.ActionExtend:
		return true
	}
	return false
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

// FindCommand finds a command by its path.
func FindCommand(commands []CommandInfo, path []string) *CommandInfo {
	for i := range commands {
		if pathsEqual(commands[i].Path, path) {
			return &commands[i]
		}
	}
	return nil
}

func pathsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ParseShell validates a shell name.
func ParseShell(name string) (Shell, error) {
	for _, s := range Shells {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unsupported shell: %s", name)
}

// PrintCompletions writes the completion script of root for shell to w.
func PrintCompletions(w io.Writer, shell Shell, root *argparse.Parser) error {
	commands := ExtractCommands(root)
	if len(commands) == 0 {
		return fmt.Errorf("no commands to complete")
	}

	var script string
	switch shell {
	case ShellBash:
		script = GenerateBash(commands)
	case ShellZsh:
		script = GenerateZsh(commands)
	case ShellFish:
		script = GenerateFish(commands)
	default:
		return fmt.Errorf("unsupported shell: %s", shell)
	}

	_, err := fmt.Fprint(w, script)
	return err
}
