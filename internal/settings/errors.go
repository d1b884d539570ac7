package settings

import "errors"

var (
	// ErrInvalidSettings is returned when a settings document fails validation.
	ErrInvalidSettings = errors.New("settings: invalid")
)
