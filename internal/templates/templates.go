// Package templates resolves named argument templates and their single-parent
// inheritance chains.
package templates

import (
	"github.com/footprint-tools/argutil/internal/domain"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Scope is the set of templates visible at one level of the module tree.
// A Scope is never mutated after construction; Extend returns a new one.
type Scope struct {
	entries map[string]*domain.Template
}

// NewScope returns an empty scope.
func NewScope() Scope {
	return Scope{}
}

// Lookup returns the named template.
func (s Scope) Lookup(name string) (*domain.Template, bool) {
	t, ok := s.entries[name]
	return t, ok
}

// Len returns the number of visible templates.
func (s Scope) Len() int {
	return len(s.entries)
}

// Extend returns a scope holding s plus the given declarations, resolved in
// declared order. A declaration with a parent is merged against the scope
// accumulated so far, so it may name a template declared earlier in the same
// mapping.
func (s Scope) Extend(decls *orderedmap.OrderedMap[string, *domain.Template]) (Scope, error) {
	if decls == nil || decls.Len() == 0 {
		return s, nil
	}

	next := make(map[string]*domain.Template, len(s.entries)+decls.Len())
	for name, t := range s.entries {
		next[name] = t
	}
	out := Scope{entries: next}

	for pair := decls.Oldest(); pair != nil; pair = pair.Next() {
		decl := pair.Value
		if decl == nil {
			decl = &domain.Template{}
		}
		if decl.Parent == "" {
			next[pair.Key] = decl
			continue
		}
		parent, ok := out.Lookup(decl.Parent)
		if !ok {
			return Scope{}, domain.NotFoundError("unknown parent template %q of %q", decl.Parent, pair.Key)
		}
		merged, err := Merge(parent, decl)
		if err != nil {
			return Scope{}, err
		}
		next[pair.Key] = merged
	}
	return out, nil
}

// Merge returns child applied on top of a deep copy of parent. Arguments are
// keyed by long name: a child argument replaces the parent's at the parent's
// position, new ones are appended. Examples are concatenated parent first.
// Neither input is modified.
func Merge(parent, child *domain.Template) (*domain.Template, error) {
	out := parent.Clone()
	if out == nil {
		out = &domain.Template{}
	}
	out.Parent = child.Parent

	combined := make([]domain.ArgSpec, 0, len(out.Args)+len(child.Args))
	combined = append(combined, out.Args...)
	for _, a := range child.Args {
		combined = append(combined, a.Clone())
	}

	index := make(map[string]int, len(combined))
	args := make([]domain.ArgSpec, 0, len(combined))
	for _, a := range combined {
		if a.Long == "" {
			return nil, domain.SchemaError("template argument is missing \"long\"")
		}
		if i, seen := index[a.Long]; seen {
			args[i] = a
			continue
		}
		index[a.Long] = len(args)
		args = append(args, a)
	}
	out.Args = args

	for _, e := range child.Examples {
		out.Examples = append(out.Examples, e)
	}
	return out, nil
}

// Resolve returns the template named by a module, or nil when the module
// names none.
func Resolve(module *domain.Module, scope Scope) (*domain.Template, error) {
	if module == nil || module.Template == "" {
		return nil, nil
	}
	t, ok := scope.Lookup(module.Template)
	if !ok {
		return nil, domain.NotFoundError("unknown template %q", module.Template)
	}
	return t, nil
}
