package display

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	maxNameLength     = 100
	maxLocationLength = 200
)

// Validate checks a display record before create or update.
func Validate(d *Display) error {
	if _, err := uuid.Parse(d.ID); err != nil {
		return fmt.Errorf("%w: id must be a UUID", ErrInvalid)
	}

	name := strings.TrimSpace(d.Name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalid)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalid, maxNameLength)
	}

	if len(d.Location) > maxLocationLength {
		return fmt.Errorf("%w: location exceeds %d characters", ErrInvalid, maxLocationLength)
	}

	switch d.Orientation {
	case OrientationLandscape, OrientationPortrait:
	default:
		return fmt.Errorf("%w: orientation must be %q or %q",
			ErrInvalid, OrientationLandscape, OrientationPortrait)
	}

	if d.SlideshowID != nil {
		if _, err := uuid.Parse(*d.SlideshowID); err != nil {
			return fmt.Errorf("%w: slideshow_id must be a UUID", ErrInvalid)
		}
	}

	return nil
}

// ValidateCommand checks a command before it is pushed to a display.
func ValidateCommand(c *Command) error {
	switch c.Action {
	case ActionReload, ActionScreenOn, ActionScreenOff, ActionIdentify:
		return nil
	default:
		return fmt.Errorf("%w: unknown command action %q", ErrInvalid, c.Action)
	}
}
