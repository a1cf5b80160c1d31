package usage

import "fmt"

// InvalidValue is returned when a type converter rejects a token.
func InvalidValue(arg, typeName, value string) *Error {
	return &Error{
		Kind:    ErrInvalidValue,
		Message: fmt.Sprintf("argument %s: invalid %s value: '%s'", arg, typeName, value),
	}
}

// InvalidChoice is returned when a converted value is not among the allowed choices.
// Value and choices are already rendered for display.
func InvalidChoice(arg, value, choices string) *Error {
	return &Error{
		Kind:    ErrInvalidChoice,
		Message: fmt.Sprintf("argument %s: invalid choice: %s (choose from %s)", arg, value, choices),
	}
}
