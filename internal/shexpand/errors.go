package shexpand

import "fmt"

// BadSubstitutionError is raised by malformed "${" variable references.
type BadSubstitutionError struct {
	Detail string
}

func (e *BadSubstitutionError) Error() string {
	return fmt.Sprintf("bad substitution: %s", e.Detail)
}

// AmbiguousRedirectError is raised when a redirect's filename word expands
// to zero or more than one field.
type AmbiguousRedirectError struct {
	Detail string
}

func (e *AmbiguousRedirectError) Error() string {
	return fmt.Sprintf("ambiguous redirect: %s", e.Detail)
}

// EventNotFoundError is raised when a "!" history reference can't be
// resolved (spec §4.4/§4.6 search rules).
type EventNotFoundError struct {
	Token string
}

func (e *EventNotFoundError) Error() string {
	return fmt.Sprintf("%s: event not found", e.Token)
}
