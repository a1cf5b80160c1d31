package usage

import (
	"fmt"
	"strings"
)

// UnknownCommand is returned when a subcommand name is not registered.
// Suggestions, when present, are appended as a hint.
func UnknownCommand(arg, command string, choices []string, suggestions ...string) *Error {
	msg := fmt.Sprintf("argument %s: invalid choice: '%s' (choose from %s)", arg, command, quoteAll(choices))
	if len(suggestions) > 0 {
		msg += fmt.Sprintf("\n\nThe most similar command is\n\t%s", strings.Join(suggestions, "\n\t"))
		if len(suggestions) > 1 {
			msg = strings.Replace(msg, "command is", "commands are", 1)
		}
	}
	return &Error{
		Kind:    ErrUnknownCommand,
		Message: msg,
	}
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, ", ")
}
