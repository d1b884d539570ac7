package media

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	maxNameLength       = 100
	maxPathLength       = 500
	maxSlidesPerShow    = 200
	maxSlideDurationSec = 3600
)

// allowedMimePrefixes are the media types displays can render.
var allowedMimePrefixes = []string{"image/", "video/"}

// ValidateMedia checks a media record before it is persisted.
func ValidateMedia(m *Media) error {
	if _, err := uuid.Parse(m.ID); err != nil {
		return fmt.Errorf("%w: id must be a UUID", ErrInvalid)
	}

	name := strings.TrimSpace(m.Name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalid)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalid, maxNameLength)
	}

	if m.Path == "" {
		return fmt.Errorf("%w: path cannot be empty", ErrInvalid)
	}
	if len(m.Path) > maxPathLength {
		return fmt.Errorf("%w: path exceeds %d characters", ErrInvalid, maxPathLength)
	}

	ok := false
	for _, prefix := range allowedMimePrefixes {
		if strings.HasPrefix(m.Mime, prefix) {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: mime %q is not a renderable type", ErrInvalid, m.Mime)
	}

	if m.SizeBytes < 0 {
		return fmt.Errorf("%w: size_bytes cannot be negative", ErrInvalid)
	}

	return nil
}

// ValidateSlideshow checks a slideshow and its slides before persistence.
// Slide positions must be the contiguous sequence 0..n-1.
func ValidateSlideshow(s *Slideshow) error {
	if _, err := uuid.Parse(s.ID); err != nil {
		return fmt.Errorf("%w: id must be a UUID", ErrInvalid)
	}

	name := strings.TrimSpace(s.Name)
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalid)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalid, maxNameLength)
	}

	if len(s.Slides) > maxSlidesPerShow {
		return fmt.Errorf("%w: slideshow exceeds %d slides", ErrInvalid, maxSlidesPerShow)
	}

	for i, slide := range s.Slides {
		if _, err := uuid.Parse(slide.MediaID); err != nil {
			return fmt.Errorf("%w: slides[%d].media_id must be a UUID", ErrInvalid, i)
		}
		if slide.Position != i {
			return fmt.Errorf("%w: slides[%d].position = %d, positions must run 0..%d",
				ErrInvalid, i, slide.Position, len(s.Slides)-1)
		}
		if slide.DurationSeconds < 0 || slide.DurationSeconds > maxSlideDurationSec {
			return fmt.Errorf("%w: slides[%d].duration_seconds out of range", ErrInvalid, i)
		}
	}

	return nil
}
