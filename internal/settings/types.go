package settings

import "time"

// Settings is the single authoritative settings document for the signage
// fleet. There is exactly one row per deployment; every write replaces it
// whole and is broadcast to connected clients.
type Settings struct {
	// Theme selects the display colour scheme.
	Theme string `json:"theme"`

	// TransitionSeconds is how long each slideshow slide stays on screen
	// when the slide carries no duration of its own.
	TransitionSeconds int `json:"transition_seconds"`

	// StandbyStart and StandbyEnd bound the nightly screen-off window as
	// HH:MM times. Both empty disables standby.
	StandbyStart string `json:"standby_start,omitempty"`
	StandbyEnd   string `json:"standby_end,omitempty"`

	// DefaultSlideshowID is shown by displays with no explicit assignment.
	DefaultSlideshowID *string `json:"default_slideshow_id,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// Themes accepted by Validate.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Defaults returns the settings a fresh deployment starts with.
func Defaults() Settings {
	return Settings{
		Theme:             ThemeDark,
		TransitionSeconds: 10,
	}
}
