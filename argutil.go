// Package argutil builds command-line parsers from JSON definitions.
//
// A definitions document (commandline.json) describes modules: their
// arguments, usage examples, reusable argument templates and nested
// subcommands. A defaults document (defaults.json) persists per-module
// default values that users change with "key=value" settings. A Definition
// ties a program to its module and produces a ready argparse.Parser.
//
//	def := argutil.New(scriptPath)
//	parser, err := def.Parser(argutil.Env{"run": runHandler})
package argutil

import (
	"github.com/footprint-tools/argutil/argparse"
	"github.com/footprint-tools/argutil/internal/builder"
	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/store"
	"github.com/footprint-tools/argutil/internal/workdir"
)

// Version is the library version.
const Version = "1.2.0"

const (
	// DefinitionsFile is the default definitions document name.
	DefinitionsFile = store.DefinitionsFile
	// DefaultsFile is the default defaults document name.
	DefaultsFile = store.DefaultsFile
)

var (
	// ErrSchema marks a document that violates the definitions schema.
	ErrSchema = domain.ErrSchema
	// ErrNotFound marks an unknown module, template, parent template or type.
	ErrNotFound = domain.ErrNotFound
	// ErrDefinitionsNotFound is returned when the definitions file is missing.
	ErrDefinitionsNotFound = domain.ErrDefinitionsNotFound
)

type (
	// Env maps names to type converters, subcommand handlers or
	// interpolation values.
	Env = builder.Env
	// Handler is bound to a subcommand.
	Handler = argparse.Handler
	// TypeFunc converts a raw token.
	TypeFunc = argparse.TypeFunc
	// Namespace holds parsed values.
	Namespace = argparse.Namespace

	Definitions = domain.Definitions
	Module      = domain.Module
	Template    = domain.Template
	ArgSpec     = domain.ArgSpec
	Example     = domain.Example
	Defaults    = domain.Defaults
	LoadMode    = domain.LoadMode
)

// Load modes.
const (
	ModeAppend = domain.ModeAppend
	ModeRead   = domain.ModeRead
	ModeWrite  = domain.ModeWrite
	ModeCreate = domain.ModeCreate
)

// Load reads a JSON object document. In ModeAppend a missing file yields an
// empty document, in ModeRead it is an error, ModeWrite and ModeCreate
// ignore existing contents.
func Load(path string, mode LoadMode) (map[string]any, error) {
	return store.New("").LoadDocument(path, mode)
}

// Save writes doc as JSON with 2-space indentation, replacing path atomically.
func Save(path string, doc any) error {
	return store.New("").SaveDocument(path, doc)
}

// WorkingDirectory runs fn with dir as the working directory and restores
// the previous one afterwards, whether fn returns or panics.
func WorkingDirectory(dir string, fn func() error) error {
	return workdir.Run(dir, fn)
}
