package display

import "time"

// onlineWindow is how recently a display must have sent a heartbeat to
// count as online.
const onlineWindow = 90 * time.Second

// Display represents one physical signage screen registered with the server.
type Display struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`

	// Orientation of the mounted panel.
	Orientation Orientation `json:"orientation"`

	// SlideshowID overrides the deployment default slideshow when set.
	SlideshowID *string `json:"slideshow_id,omitempty"`

	// LastSeenAt is the time of the most recent heartbeat; nil until the
	// display first phones home.
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Orientation is the physical mounting of a display panel.
type Orientation string

const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
)

// Online reports whether the display has heartbeated within the online
// window, relative to now.
func (d *Display) Online(now time.Time) bool {
	return d.LastSeenAt != nil && now.Sub(*d.LastSeenAt) <= onlineWindow
}

// Command is a one-shot instruction pushed to a single display over its
// websocket channel.
type Command struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// Actions accepted by ValidateCommand.
const (
	ActionReload    = "reload"
	ActionScreenOn  = "screen_on"
	ActionScreenOff = "screen_off"
	ActionIdentify  = "identify"
)

// Heartbeat is the periodic health report a display posts. Content fields
// are optional and identify what the display is currently showing.
type Heartbeat struct {
	UptimeSeconds int64  `json:"uptime_seconds"`
	ScreenOn      bool   `json:"screen_on"`
	ContentType   string `json:"content_type,omitempty"`
	ContentID     string `json:"content_id,omitempty"`
}
