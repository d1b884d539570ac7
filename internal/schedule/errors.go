package schedule

import "errors"

// Domain errors for the schedule package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, schedule.ErrNotFound) {
//	    // handle missing version
//	}
var (
	// ErrNotFound is returned when a requested schedule version does not exist.
	ErrNotFound = errors.New("schedule: not found")

	// ErrVersionExists is returned when inserting a schedule version that
	// is already present. Versions are append-only and unique.
	ErrVersionExists = errors.New("schedule: version already exists")
)
