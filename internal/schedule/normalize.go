package schedule

import (
	"encoding/json"
	"math"
)

// DefaultSaunas returns the stock three-sauna column list used for empty
// schedules. Callers may mutate the returned slice freely.
func DefaultSaunas() []string {
	return []string{"Sauna 1", "Sauna 2", "Sauna 3"}
}

// EmptyDaySchedule builds a DaySchedule with the given sauna columns and
// no program rows. The sauna list is copied so the caller keeps ownership.
func EmptyDaySchedule(saunas []string) DaySchedule {
	cols := make([]string, len(saunas))
	copy(cols, saunas)
	return DaySchedule{
		Saunas: cols,
		Rows:   []TimeRow{},
	}
}

// DefaultSchedule builds an empty schedule at the given version: all ten
// presets with the default sauna columns and no rows, autoPlay off.
// The version is clamped to at least 1; fractional recovered versions are
// floored before they reach this function.
func DefaultSchedule(version int) Schedule {
	if version < 1 {
		version = 1
	}

	presets := make(map[PresetKey]DaySchedule, len(AllPresetKeys()))
	saunas := DefaultSaunas()
	for _, key := range AllPresetKeys() {
		presets[key] = EmptyDaySchedule(saunas)
	}

	return Schedule{
		Version:  version,
		Presets:  presets,
		AutoPlay: false,
	}
}

// Normalize turns arbitrary decoded JSON into a guaranteed-valid Schedule.
//
// Valid input passes through unchanged. Anything else degrades to
// DefaultSchedule at a best-effort version recovered from the input.
// This is deliberately fail-safe rather than fail-loud: a corrupted
// persisted schedule must never take down the serving path, so data loss
// (an empty schedule at the recovered version) is preferred over an error.
func Normalize(raw any) Schedule {
	if s, invalid := Validate(raw); invalid == nil {
		return *s
	}
	return DefaultSchedule(extractVersion(raw))
}

// NormalizeJSON is Normalize for raw persisted bytes. Unparseable JSON
// yields the default schedule at version 1.
func NormalizeJSON(data []byte) Schedule {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return DefaultSchedule(1)
	}
	return Normalize(raw)
}

// extractVersion pulls a best-effort version out of malformed input:
// the floor of a finite numeric "version" field, else 1.
func extractVersion(raw any) int {
	obj, ok := raw.(map[string]any)
	if !ok {
		return 1
	}
	num, ok := obj["version"].(float64)
	if !ok || math.IsNaN(num) || math.IsInf(num, 0) {
		return 1
	}
	version := int(math.Floor(num))
	if version < 1 {
		return 1
	}
	return version
}
