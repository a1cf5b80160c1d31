package argutil

import (
	"fmt"
	"maps"

	"github.com/footprint-tools/argutil/argparse"
	"github.com/footprint-tools/argutil/internal/types"
)

// Registry is an explicitly constructed set of named callables: handlers and
// converters looked up by name, and fallback types tried after the builtin
// type table.
type Registry struct {
	env   Env
	types types.Registry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{env: Env{}, types: types.Registry{}}
}

// Callable registers fn under name. fn is a subcommand handler
// (func(*Namespace) error) or a converter (func(string) (any, error),
// func(string) any, func(string) string).
func (r *Registry) Callable(name string, fn any) error {
	switch fn.(type) {
	case argparse.Handler, func(*argparse.Namespace) error, argparse.TypeFunc:
	default:
		if _, ok := types.Adapt(fn); !ok {
			return fmt.Errorf("argutil: %s: unsupported callable %T", name, fn)
		}
	}
	r.env[name] = fn
	return nil
}

// RegisterType registers a fallback converter for type name.
func (r *Registry) RegisterType(name string, fn TypeFunc) {
	r.types.Register(name, types.Func(fn))
}

// Env returns a copy of the registered callables.
func (r *Registry) Env() Env {
	if r == nil {
		return Env{}
	}
	return maps.Clone(r.env)
}

// mergeEnv layers the environments in increasing precedence.
func mergeEnv(layers ...Env) Env {
	out := Env{}
	for _, layer := range layers {
		maps.Copy(out, layer)
	}
	return out
}

func mergeTypes(layers ...*Registry) types.Registry {
	out := types.Registry{}
	for _, r := range layers {
		if r != nil {
			maps.Copy(out, r.types)
		}
	}
	return out
}
