package display

import "errors"

var (
	// ErrNotFound is returned when a display does not exist.
	ErrNotFound = errors.New("display: not found")

	// ErrExists is returned when creating a display with an ID that is
	// already registered.
	ErrExists = errors.New("display: already exists")

	// ErrInvalid is returned when a display or command fails validation.
	ErrInvalid = errors.New("display: invalid")
)
