package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrSchema marks a definitions or defaults document that violates the schema:
	// a missing "long" key, an unrecognized argument key, a bad help type.
	ErrSchema = errors.New("schema violation")

	// ErrNotFound marks a failed lookup: unknown template, parent template,
	// type name or module.
	ErrNotFound = errors.New("not found")

	// ErrDefinitionsNotFound is returned when the definitions file is missing
	// at parser construction time.
	ErrDefinitionsNotFound = errors.New("definitions file not found")
)

// SchemaError wraps ErrSchema with a formatted message.
func SchemaError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrSchema, fmt.Sprintf(format, args...))
}

// NotFoundError wraps ErrNotFound with a formatted message.
func NotFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
