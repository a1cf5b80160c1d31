package argparse

import (
	"errors"

	"github.com/footprint-tools/argutil/internal/usage"
)

var (
	// ErrHelp is returned by Parse after help or version output was written.
	ErrHelp = errors.New("argparse: help requested")

	// ErrConflict is returned when an option string is registered twice.
	ErrConflict = errors.New("conflicting option string")
)

// Error is a usage error raised by one parser of the tree. It carries that
// parser's program name and usage line so the caller can report it the way
// the failing parser would.
type Error struct {
	Prog  string
	Usage string
	Err   *usage.Error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Prog + ": error: " + e.Err.Message
}

// Unwrap exposes the underlying usage error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit status for the error.
func (e *Error) ExitCode() int {
	return e.Err.GetExitCode()
}

func invalidValue(arg, typeName, token string) error {
	return usage.InvalidValue(arg, typeName, token)
}

func invalidChoice(arg, value, choices string) error {
	return usage.InvalidChoice(arg, value, choices)
}
