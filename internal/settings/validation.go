package settings

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	minTransitionSeconds = 1
	maxTransitionSeconds = 600
)

var standbyTimeRegex = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Validate checks a settings document before it is persisted.
func Validate(s *Settings) error {
	switch s.Theme {
	case ThemeLight, ThemeDark:
	default:
		return fmt.Errorf("%w: theme must be %q or %q", ErrInvalidSettings, ThemeLight, ThemeDark)
	}

	if s.TransitionSeconds < minTransitionSeconds || s.TransitionSeconds > maxTransitionSeconds {
		return fmt.Errorf("%w: transition_seconds must be between %d and %d",
			ErrInvalidSettings, minTransitionSeconds, maxTransitionSeconds)
	}

	// Standby is all-or-nothing: either both bounds or neither.
	if (s.StandbyStart == "") != (s.StandbyEnd == "") {
		return fmt.Errorf("%w: standby window needs both start and end", ErrInvalidSettings)
	}
	for _, t := range []string{s.StandbyStart, s.StandbyEnd} {
		if t == "" {
			continue
		}
		if !validStandbyTime(t) {
			return fmt.Errorf("%w: %q is not a valid HH:MM time", ErrInvalidSettings, t)
		}
	}

	return nil
}

func validStandbyTime(t string) bool {
	if !standbyTimeRegex.MatchString(t) {
		return false
	}
	parts := strings.SplitN(t, ":", 2)
	hour, _ := strconv.Atoi(parts[0])   //nolint:errcheck // digits guaranteed by regex
	minute, _ := strconv.Atoi(parts[1]) //nolint:errcheck // digits guaranteed by regex
	return hour <= 23 && minute <= 59
}
