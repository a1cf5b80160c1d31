package usage

import (
	"fmt"
	"strings"
)

// Unrecognized is returned when tokens are left over after parsing.
func Unrecognized(args []string) *Error {
	return &Error{
		Kind:    ErrUnrecognized,
		Message: fmt.Sprintf("unrecognized arguments: %s", strings.Join(args, " ")),
	}
}

// AmbiguousOption is returned when an abbreviated option matches several options.
func AmbiguousOption(option string, matches []string) *Error {
	return &Error{
		Kind:    ErrAmbiguousOption,
		Message: fmt.Sprintf("ambiguous option: %s could match %s", option, strings.Join(matches, ", ")),
	}
}

// ExplicitValue is returned when a value is attached to an option that takes none.
func ExplicitValue(arg, value string) *Error {
	return &Error{
		Kind:    ErrExplicitValue,
		Message: fmt.Sprintf("argument %s: ignored explicit argument '%s'", arg, value),
	}
}

// UnknownKey is returned when a defaults key to remove is not set.
func UnknownKey(keys ...string) *Error {
	return &Error{
		Kind:    ErrUnknownKey,
		Message: fmt.Sprintf("no such key: %s", strings.Join(keys, ", ")),
	}
}
