// Package types resolves symbolic type names from argument definitions to
// converter functions.
//
// Resolution walks an ordered chain of lookups; the first hit wins. There is
// no implicit global namespace: every name outside the builtin table must be
// registered by the embedding application.
package types

import (
	"fmt"

	"github.com/footprint-tools/argutil/internal/domain"
)

// Func converts a raw command-line token into a typed value.
type Func func(string) (any, error)

// Converter is a named conversion function.
type Converter struct {
	Name string
	Fn   Func
}

// Lookup returns the converter registered under name, if any.
type Lookup func(name string) (Converter, bool)

// Resolver tries each lookup in order.
type Resolver struct {
	lookups []Lookup
}

// NewResolver returns a resolver over the given lookups, tried in order.
func NewResolver(lookups ...Lookup) *Resolver {
	return &Resolver{lookups: lookups}
}

// Resolve returns the first converter found for name.
func (r *Resolver) Resolve(name string) (Converter, error) {
	for _, lookup := range r.lookups {
		if c, ok := lookup(name); ok {
			return c, nil
		}
	}
	return Converter{}, domain.NotFoundError("unknown type %q", name)
}

// Adapt turns a supported function value into a Func.
// Accepted shapes: Func, func(string) (any, error), func(string) any,
// func(string) string and func(string) (string, error).
func Adapt(v any) (Func, bool) {
	switch fn := v.(type) {
	case Func:
		return fn, true
	case func(string) (any, error):
		return fn, true
	case func(string) any:
		return func(s string) (any, error) { return fn(s), nil }, true
	case func(string) string:
		return func(s string) (any, error) { return fn(s), nil }, true
	case func(string) (string, error):
		return func(s string) (any, error) { return fn(s) }, true
	default:
		return nil, false
	}
}

// MapLookup resolves names from a mapping whose values are converter
// functions. Entries of other kinds are skipped.
func MapLookup(m map[string]any) Lookup {
	return func(name string) (Converter, bool) {
		v, ok := m[name]
		if !ok {
			return Converter{}, false
		}
		fn, ok := Adapt(v)
		if !ok {
			return Converter{}, false
		}
		return Converter{Name: name, Fn: fn}, true
	}
}

// Registry is an explicitly populated set of named converters.
type Registry map[string]Func

// Register adds fn under name.
func (r Registry) Register(name string, fn Func) {
	r[name] = fn
}

// Lookup adapts the registry to the resolver chain.
func (r Registry) Lookup(name string) (Converter, bool) {
	fn, ok := r[name]
	if !ok {
		return Converter{}, false
	}
	return Converter{Name: name, Fn: fn}, true
}

// String implements fmt.Stringer for diagnostics.
func (c Converter) String() string {
	return fmt.Sprintf("type(%s)", c.Name)
}
