package usage

import (
	"fmt"
	"strings"
)

// MissingArgument is returned when required arguments are not provided.
func MissingArgument(names ...string) *Error {
	return &Error{
		Kind:    ErrMissingArgument,
		Message: fmt.Sprintf("the following arguments are required: %s", strings.Join(names, ", ")),
	}
}

// ExpectedValue is returned when an option is not followed by enough values.
// want describes the expected count, e.g. "one argument" or "at least one argument".
func ExpectedValue(arg, want string) *Error {
	return &Error{
		Kind:    ErrExpectedValue,
		Message: fmt.Sprintf("argument %s: expected %s", arg, want),
	}
}
