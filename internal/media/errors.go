package media

import "errors"

var (
	// ErrNotFound is returned when a media asset or slideshow does not exist.
	ErrNotFound = errors.New("media: not found")

	// ErrExists is returned when creating a record with an ID that is
	// already registered.
	ErrExists = errors.New("media: already exists")

	// ErrInvalid is returned when a media asset or slideshow fails validation.
	ErrInvalid = errors.New("media: invalid")
)
