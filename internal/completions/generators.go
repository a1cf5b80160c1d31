package completions

import (
	"fmt"
	"strings"
)

// funcName turns a program name into a shell identifier.
func funcName(prog string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, prog)
}

func words(cmd CommandInfo) []string {
	out := append([]string(nil), cmd.Subcommands...)
	for _, f := range cmd.Flags {
		out = append(out, f.Names...)
	}
	return out
}

// transitions lists every "parent child" path pair of the tree.
func transitions(commands []CommandInfo) []string {
	var out []string
	for _, cmd := range commands {
		for _, sub := range cmd.Subcommands {
			out = append(out, `"`+strings.Join(cmd.Path, " ")+" "+sub+`"`)
		}
	}
	return out
}

// GenerateBash returns a bash completion script.
func GenerateBash(commands []CommandInfo) string {
	prog := commands[0].Name
	fn := "_" + funcName(prog) + "_completions"

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s bash completion script\n\n", prog)
	fmt.Fprintf(&sb, "%s() {\n", fn)
	sb.WriteString("    local cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	fmt.Fprintf(&sb, "    local path=%q\n", prog)
	sb.WriteString("    local i word\n")
	sb.WriteString("    for ((i = 1; i < COMP_CWORD; i++)); do\n")
	sb.WriteString("        word=\"${COMP_WORDS[i]}\"\n")
	if pairs := transitions(commands); len(pairs) > 0 {
		sb.WriteString("        case \"$path $word\" in\n")
		fmt.Fprintf(&sb, "            %s) path=\"$path $word\" ;;\n", strings.Join(pairs, "|"))
		sb.WriteString("        esac\n")
	}
	sb.WriteString("    done\n\n")
	sb.WriteString("    case \"$path\" in\n")
	for _, cmd := range commands {
		fmt.Fprintf(&sb, "        %q)\n", strings.Join(cmd.Path, " "))
		fmt.Fprintf(&sb, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(words(cmd), " "))
		sb.WriteString("            ;;\n")
	}
	sb.WriteString("    esac\n")
	sb.WriteString("}\n\n")
	fmt.Fprintf(&sb, "complete -o default -F %s %s\n", fn, prog)
	return sb.String()
}

// GenerateZsh returns a zsh completion script.
func GenerateZsh(commands []CommandInfo) string {
	prog := commands[0].Name
	fn := "_" + funcName(prog)

	var sb strings.Builder
	fmt.Fprintf(&sb, "#compdef %s\n\n", prog)
	fmt.Fprintf(&sb, "%s() {\n", fn)
	fmt.Fprintf(&sb, "    local path=%q i\n", prog)
	sb.WriteString("    for ((i = 2; i < CURRENT; i++)); do\n")
	if pairs := transitions(commands); len(pairs) > 0 {
		sb.WriteString("        case \"$path ${words[i]}\" in\n")
		fmt.Fprintf(&sb, "            %s) path=\"$path ${words[i]}\" ;;\n", strings.Join(pairs, "|"))
		sb.WriteString("        esac\n")
	}
	sb.WriteString("    done\n\n")
	sb.WriteString("    case \"$path\" in\n")
	for _, cmd := range commands {
		fmt.Fprintf(&sb, "        %q)\n", strings.Join(cmd.Path, " "))
		if len(cmd.Subcommands) > 0 {
			sb.WriteString("            local -a commands\n")
			sb.WriteString("            commands=(\n")
			for _, name := range cmd.Subcommands {
				summary := ""
				if child := FindCommand(commands, append(append([]string(nil), cmd.Path...), name)); child != nil {
					summary = child.Summary
				}
				fmt.Fprintf(&sb, "                %s\n", zshQuote(strings.ReplaceAll(name, ":", "\\:")+":"+summary))
			}
			sb.WriteString("            )\n")
			sb.WriteString("            _describe 'command' commands\n")
		}
		var flags []string
		for _, f := range cmd.Flags {
			flags = append(flags, f.Names...)
		}
		if len(flags) > 0 {
			fmt.Fprintf(&sb, "            compadd -- %s\n", strings.Join(flags, " "))
		}
		sb.WriteString("            ;;\n")
	}
	sb.WriteString("    esac\n")
	sb.WriteString("}\n\n")
	fmt.Fprintf(&sb, "%s \"$@\"\n", fn)
	return sb.String()
}

// GenerateFish returns a fish completion script.
func GenerateFish(commands []CommandInfo) string {
	prog := commands[0].Name

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s fish completion script\n\n", prog)
	fmt.Fprintf(&sb, "complete -c %s -f\n", prog)
	for _, cmd := range commands {
		cond := "__fish_use_subcommand"
		if len(cmd.Path) > 1 {
			cond = "__fish_seen_subcommand_from " + cmd.Name
		}

		for _, name := range cmd.Subcommands {
			summary := ""
			if child := FindCommand(commands, append(append([]string(nil), cmd.Path...), name)); child != nil {
				summary = child.Summary
			}
			fmt.Fprintf(&sb, "complete -c %s -n '%s' -a '%s'", prog, cond, name)
			if summary != "" {
				fmt.Fprintf(&sb, " -d %s", fishQuote(summary))
			}
			sb.WriteString("\n")
		}

		for _, f := range cmd.Flags {
			fmt.Fprintf(&sb, "complete -c %s", prog)
			if len(cmd.Path) > 1 {
				fmt.Fprintf(&sb, " -n '%s'", cond)
			}
			for _, n := range f.Names {
				switch {
				case strings.HasPrefix(n, "--"):
					fmt.Fprintf(&sb, " -l %s", n[2:])
				case len(n) == 2:
					fmt.Fprintf(&sb, " -s %s", n[1:])
				default:
					fmt.Fprintf(&sb, " -o %s", n[1:])
				}
			}
			if f.HasValue {
				sb.WriteString(" -r")
			}
			if f.Description != "" {
				fmt.Fprintf(&sb, " -d %s", fishQuote(f.Description))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func zshQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}
