package domain

import (
	"io"
)

// LoadMode selects how a missing or existing document file is treated.
type LoadMode string

const (
	// ModeAppend reads the file when present and yields an empty document otherwise.
	ModeAppend LoadMode = "a"
	// ModeRead reads the file and fails when it is missing.
	ModeRead LoadMode = "r"
	// ModeWrite ignores any existing contents.
	ModeWrite LoadMode = "w"
	// ModeCreate is an alias of ModeWrite.
	ModeCreate LoadMode = "c"
)

// DocumentStore defines load/save operations for the definitions and defaults documents.
type DocumentStore interface {
	// Path resolves a document file name against the store's directory.
	Path(file string) string

	// Exists reports whether the named document file exists.
	Exists(file string) bool

	// LoadDefinitions reads a definitions document.
	LoadDefinitions(file string, mode LoadMode) (*Definitions, error)

	// SaveDefinitions writes a definitions document.
	SaveDefinitions(file string, doc *Definitions) error

	// LoadDefaults reads a defaults document.
	LoadDefaults(file string, mode LoadMode) (Defaults, error)

	// SaveDefaults writes a defaults document.
	SaveDefaults(file string, doc Defaults) error

	// UpdateDefaults runs fn on the current defaults document under a lock
	// and saves the result when fn succeeds.
	UpdateDefaults(file string, fn func(Defaults) error) error
}

// Logger defines logging operations.
type Logger interface {
	// Debug logs a debug message.
	Debug(format string, args ...any)

	// Info logs an info message.
	Info(format string, args ...any)

	// Warn logs a warning message.
	Warn(format string, args ...any)

	// Error logs an error message.
	Error(format string, args ...any)

	// Close closes the logger.
	Close() error
}

// OutputWriter defines output operations.
type OutputWriter interface {
	io.Writer

	// Printf formats and prints to the output.
	Printf(format string, args ...any) (int, error)

	// Println prints a line to the output.
	Println(args ...any) (int, error)

	// Pager displays content through a pager if appropriate.
	Pager(content string)
}

// Styler defines text styling operations.
type Styler interface {
	// Enabled returns true if styling is enabled.
	Enabled() bool

	// Success styles text as success.
	Success(text string) string

	// Warning styles text as warning.
	Warning(text string) string

	// Error styles text as error.
	Error(text string) string

	// Info styles text as info.
	Info(text string) string

	// Muted styles text as muted.
	Muted(text string) string

	// Header styles text as header.
	Header(text string) string
}

// Application represents the CLI context with all dependencies.
type Application struct {
	Store  DocumentStore
	Logger Logger
	Output OutputWriter
	Styler Styler
}
