package schedule

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// timePattern matches timetable times: 1-2 digit hour, 2 digit minute.
// Range checks (hour 0-23, minute 0-59) are done separately so the
// violation message can say which part is out of range.
var timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Invalid is the rejection result of Validate. It carries every violated
// constraint found in the input, not just the first one, so the admin UI
// can show the full list.
type Invalid struct {
	Violations []string
}

// Error implements the error interface.
func (e *Invalid) Error() string {
	return "schedule: invalid: " + strings.Join(e.Violations, "; ")
}

// Validate structurally checks a decoded JSON value against the canonical
// Schedule shape. On success it returns the typed schedule with the input
// values unchanged — valid data is never coerced. On failure it returns a
// nil schedule and an Invalid listing the violated constraints.
//
// Validate is a pure function of its input and never panics on malformed
// data; the caller decides what to do with a rejection (the Normalizer
// falls back to a default schedule, the REST layer returns 400).
func Validate(raw any) (*Schedule, *Invalid) {
	v := &validator{}
	s := v.schedule(raw)
	if len(v.violations) > 0 {
		return nil, &Invalid{Violations: v.violations}
	}
	return s, nil
}

// validator accumulates violations while building the typed value.
type validator struct {
	violations []string
}

func (v *validator) addf(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

func (v *validator) schedule(raw any) *Schedule {
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf("schedule must be an object, got %T", raw)
		return nil
	}

	s := &Schedule{Presets: make(map[PresetKey]DaySchedule, len(AllPresetKeys()))}

	s.Version = v.version(obj["version"])

	autoPlay, ok := obj["autoPlay"].(bool)
	if !ok {
		v.addf("autoPlay must be a boolean")
	}
	s.AutoPlay = autoPlay

	rawPresets, ok := obj["presets"].(map[string]any)
	if !ok {
		v.addf("presets must be an object")
		return s
	}

	known := make(map[string]bool, len(AllPresetKeys()))
	for _, key := range AllPresetKeys() {
		known[string(key)] = true
		rawDay, ok := rawPresets[string(key)]
		if !ok {
			v.addf("presets.%s is missing", key)
			continue
		}
		s.Presets[key] = v.daySchedule(string(key), rawDay)
	}
	for name := range rawPresets {
		if !known[name] {
			v.addf("presets.%s is not a valid preset key", name)
		}
	}

	return s
}

// version accepts a positive integral JSON number.
func (v *validator) version(raw any) int {
	num, ok := raw.(float64)
	if !ok {
		v.addf("version must be a number")
		return 0
	}
	if math.IsNaN(num) || math.IsInf(num, 0) || num != math.Trunc(num) || num < 1 {
		v.addf("version must be a positive integer, got %v", num)
		return 0
	}
	return int(num)
}

func (v *validator) daySchedule(preset string, raw any) DaySchedule {
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf("presets.%s must be an object", preset)
		return DaySchedule{}
	}

	day := DaySchedule{}

	rawSaunas, ok := obj["saunas"].([]any)
	if !ok {
		v.addf("presets.%s.saunas must be an array", preset)
	} else {
		day.Saunas = make([]string, 0, len(rawSaunas))
		seen := make(map[string]bool, len(rawSaunas))
		for i, rawName := range rawSaunas {
			name, ok := rawName.(string)
			if !ok {
				v.addf("presets.%s.saunas[%d] must be a string", preset, i)
				continue
			}
			if seen[name] {
				v.addf("presets.%s.saunas[%d] duplicates column %q", preset, i, name)
			}
			seen[name] = true
			day.Saunas = append(day.Saunas, name)
		}
	}

	rawRows, ok := obj["rows"].([]any)
	if !ok {
		v.addf("presets.%s.rows must be an array", preset)
		return day
	}

	day.Rows = make([]TimeRow, 0, len(rawRows))
	prevMinutes := -1
	for i, rawRow := range rawRows {
		row := v.timeRow(preset, i, rawRow, len(day.Saunas))
		if minutes, ok := ParseMinutes(row.Time); ok {
			if minutes < prevMinutes {
				v.addf("presets.%s.rows[%d] is out of time order", preset, i)
			}
			prevMinutes = minutes
		}
		day.Rows = append(day.Rows, row)
	}

	return day
}

func (v *validator) timeRow(preset string, idx int, raw any, saunaCount int) TimeRow {
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf("presets.%s.rows[%d] must be an object", preset, idx)
		return TimeRow{}
	}

	row := TimeRow{}

	timeStr, ok := obj["time"].(string)
	if !ok {
		v.addf("presets.%s.rows[%d].time must be a string", preset, idx)
	} else if !validTime(timeStr) {
		v.addf("presets.%s.rows[%d].time %q is not a valid HH:MM time", preset, idx, timeStr)
	}
	row.Time = timeStr

	rawEntries, ok := obj["entries"].([]any)
	if !ok {
		v.addf("presets.%s.rows[%d].entries must be an array", preset, idx)
		return row
	}
	if len(rawEntries) != saunaCount {
		v.addf("presets.%s.rows[%d].entries has %d entries for %d saunas",
			preset, idx, len(rawEntries), saunaCount)
	}

	row.Entries = make([]*CellEntry, 0, len(rawEntries))
	for i, rawEntry := range rawEntries {
		if rawEntry == nil {
			row.Entries = append(row.Entries, nil)
			continue
		}
		row.Entries = append(row.Entries, v.cellEntry(preset, idx, i, rawEntry))
	}

	return row
}

func (v *validator) cellEntry(preset string, rowIdx, entryIdx int, raw any) *CellEntry {
	obj, ok := raw.(map[string]any)
	if !ok {
		v.addf("presets.%s.rows[%d].entries[%d] must be an object or null", preset, rowIdx, entryIdx)
		return nil
	}

	where := fmt.Sprintf("presets.%s.rows[%d].entries[%d]", preset, rowIdx, entryIdx)
	entry := &CellEntry{}

	title, ok := obj["title"].(string)
	if !ok {
		v.addf("%s.title must be a string", where)
	}
	entry.Title = title

	entry.Subtitle = v.optionalString(where, "subtitle", obj)
	entry.Notes = v.optionalString(where, "notes", obj)

	if rawDuration, present := obj["duration"]; present {
		num, ok := rawDuration.(float64)
		if !ok || math.IsNaN(num) || math.IsInf(num, 0) {
			v.addf("%s.duration must be a number", where)
		} else {
			entry.Duration = int(num)
		}
	}

	if rawBadges, present := obj["badges"]; present {
		list, ok := rawBadges.([]any)
		if !ok {
			v.addf("%s.badges must be an array", where)
		} else {
			entry.Badges = make([]string, 0, len(list))
			for i, rawBadge := range list {
				badge, ok := rawBadge.(string)
				if !ok {
					v.addf("%s.badges[%d] must be a string", where, i)
					continue
				}
				entry.Badges = append(entry.Badges, badge)
			}
		}
	}

	return entry
}

// optionalString reads a field that may be absent, but must be a string
// when present.
func (v *validator) optionalString(where, field string, obj map[string]any) string {
	raw, present := obj[field]
	if !present {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		v.addf("%s.%s must be a string", where, field)
		return ""
	}
	return s
}

// validTime reports whether t is a well-formed HH:MM time of day.
func validTime(t string) bool {
	if !timePattern.MatchString(t) {
		return false
	}
	parts := strings.SplitN(t, ":", 2)
	hour, minute := atoi(parts[0]), atoi(parts[1])
	return hour <= 23 && minute <= 59
}

// atoi converts a digits-only string (guaranteed by timePattern) to int.
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}
