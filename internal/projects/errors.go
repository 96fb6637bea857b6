package projects

import "errors"

var (
	// ErrNotFound is returned both for absent records and for records
	// owned by a different tenant; the two cases must stay
	// indistinguishable to the caller.
	ErrNotFound = errors.New("projects: not found")

	ErrInvalidInput      = errors.New("projects: invalid input")
	ErrInvalidTransition = errors.New("projects: invalid status transition")
)
