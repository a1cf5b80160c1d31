package usage

// ErrorKind represents the type of usage error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrUnrecognized
	ErrMissingArgument
	ErrExpectedValue
	ErrUnknownCommand
	ErrInvalidValue
	ErrInvalidChoice
	ErrAmbiguousOption
	ErrExplicitValue
	ErrUnknownKey
)

// Exit codes:
//
//	Exit 1: errors not caused by the command line
//	  - Unknown errors
//
//	Exit 2: User input errors
//	  - Unrecognized arguments
//	  - Missing argument
//	  - Expected value
//	  - Unknown command
//	  - Invalid value or choice
//	  - Ambiguous option
//	  - Ignored explicit value
//	  - Unknown defaults key
var exitCodes = map[ErrorKind]int{
	ErrUnknown:         1,
	ErrUnrecognized:    2,
	ErrMissingArgument: 2,
	ErrExpectedValue:   2,
	ErrUnknownCommand:  2,
	ErrInvalidValue:    2,
	ErrInvalidChoice:   2,
	ErrAmbiguousOption: 2,
	ErrExplicitValue:   2,
	ErrUnknownKey:      2,
}

// Error represents a user-facing usage error with semantic type information.
type Error struct {
	Kind     ErrorKind
	Message  string
	ExitCode int // computed from Kind if zero
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// GetExitCode returns the appropriate exit code for this error.
// If ExitCode is explicitly set, it is returned; otherwise, the code is derived from Kind.
func (e *Error) GetExitCode() int {
	if e.ExitCode != 0 {
		return e.ExitCode
	}
	if code, ok := exitCodes[e.Kind]; ok {
		return code
	}
	return 1
}

// Verify Error implements the error interface.
var _ error = (*Error)(nil)
