package tui

import (
	"github.com/footprint-tools/argutil/argparse"
	"github.com/footprint-tools/argutil/internal/config"
)

// Field is one editable defaults key.
type Field struct {
	Key  string
	Help string
}

// Fields lists the keys a defaults mapping for p can hold: the dest of every
// argument, subcommand arguments nested under the subcommand name, then any
// other key already present in values.
func Fields(p *argparse.Parser, values map[string]any) []Field {
	var fields []Field
	seen := make(map[string]bool)

	var walk func(p *argparse.Parser, prefix string)
	walk = func(p *argparse.Parser, prefix string) {
		for _, a := range p.Arguments() {
			if a.Action == argparse.ActionVersion {
				continue
			}
			key := prefix + a.Dest
			if seen[key] {
				continue
			}
			seen[key] = true
			fields = append(fields, Field{Key: key, Help: a.Help})
		}
		sub := p.Subparsers()
		if sub == nil {
			return
		}
		for _, name := range sub.Names() {
			child, _ := sub.Lookup(name)
			walk(child, prefix+name+".")
		}
	}
	if p != nil {
		walk(p, "")
	}

	for _, key := range config.Keys(values) {
		if !seen[key] {
			seen[key] = true
			fields = append(fields, Field{Key: key})
		}
	}
	return fields
}
