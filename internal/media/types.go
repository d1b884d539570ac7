package media

import "time"

// Media is one registered media asset. The server tracks metadata only;
// the bytes live on disk (or a CDN) under Path and are served by a plain
// static file layer.
type Media struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Mime      string    `json:"mime"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

// Slideshow is an ordered sequence of media slides a display cycles
// through.
type Slideshow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slides    []Slide   `json:"slides"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Slide is one step of a slideshow. DurationSeconds zero means the
// deployment-wide transition default applies.
type Slide struct {
	MediaID         string `json:"media_id"`
	Position        int    `json:"position"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}
