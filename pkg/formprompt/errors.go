package formprompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("formprompt: aborted")
	// ErrNoDriver is returned when a Prompter has no driver to ask with.
	ErrNoDriver = errors.New("formprompt: prompt driver is nil")
)
