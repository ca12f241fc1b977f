package form

import "errors"

var (
	// ErrSubmitted is returned by mutations after a successful submit. Call
	// Restart to begin a new response.
	ErrSubmitted = errors.New("form: already submitted")
	// ErrNotTerminalStep is returned by Submit away from the last step.
	ErrNotTerminalStep = errors.New("form: submit is only allowed from the last step")
	// ErrUnknownField is returned when a path is not declared by the schema.
	ErrUnknownField = errors.New("form: field is not declared by the schema")
)
