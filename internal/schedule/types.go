package schedule

import (
	"strconv"
	"strings"
)

// PresetKey identifies one of the ten fixed schedule slots: the seven
// weekdays plus an optional day and two event days.
type PresetKey string

// The closed set of preset keys.
const (
	PresetMon  PresetKey = "Mon"
	PresetTue  PresetKey = "Tue"
	PresetWed  PresetKey = "Wed"
	PresetThu  PresetKey = "Thu"
	PresetFri  PresetKey = "Fri"
	PresetSat  PresetKey = "Sat"
	PresetSun  PresetKey = "Sun"
	PresetOpt  PresetKey = "Opt"
	PresetEvt1 PresetKey = "Evt1"
	PresetEvt2 PresetKey = "Evt2"
)

// AllPresetKeys returns the preset keys in stable display order.
// The order itself carries no meaning, but the admin UI relies on it
// being the same on every call.
func AllPresetKeys() []PresetKey {
	return []PresetKey{
		PresetMon, PresetTue, PresetWed, PresetThu, PresetFri,
		PresetSat, PresetSun, PresetOpt, PresetEvt1, PresetEvt2,
	}
}

// CellEntry describes the program shown for one sauna at one time slot.
type CellEntry struct {
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Badges   []string `json:"badges,omitempty"`
	Duration int      `json:"duration,omitempty"` // minutes
	Notes    string   `json:"notes,omitempty"`
}

// TimeRow is one row of the timetable: a wall-clock time plus one entry
// per sauna column. Entries are positionally aligned to DaySchedule.Saunas;
// a nil entry means no program for that sauna at this time.
type TimeRow struct {
	Time    string       `json:"time"`
	Entries []*CellEntry `json:"entries"`
}

// DaySchedule holds the sauna column list and the time-ordered program
// rows for one preset. Every row has exactly len(Saunas) entries.
type DaySchedule struct {
	Saunas []string  `json:"saunas"`
	Rows   []TimeRow `json:"rows"`
}

// Schedule is the canonical, versioned weekly schedule. All ten preset
// keys are always present. Exactly one schedule is active in storage at
// a time; versions only ever increase.
type Schedule struct {
	Version  int                       `json:"version"`
	Presets  map[PresetKey]DaySchedule `json:"presets"`
	AutoPlay bool                      `json:"autoPlay"`
}

// LegacyCell is one program cell in the pre-preset schedule format.
type LegacyCell struct {
	Time     string   `json:"time"`
	Title    string   `json:"title"`
	Subtitle string   `json:"subtitle,omitempty"`
	Badges   []string `json:"badges,omitempty"`
	Duration int      `json:"duration,omitempty"`
	Notes    string   `json:"notes,omitempty"`
}

// LegacyRow is one sauna's cells for one day in the pre-preset format.
// DayOffset counts from Sunday (0=Sun .. 6=Sat); absent means 0.
type LegacyRow struct {
	DayOffset *int         `json:"dayOffset,omitempty"`
	Sauna     string       `json:"sauna"`
	Cells     []LegacyCell `json:"cells"`
}

// LegacySchedule is the flat pre-preset weekly timetable. Input-only:
// it exists so the migrator can read old records, never written back.
type LegacySchedule struct {
	Version int         `json:"version,omitempty"`
	Rows    []LegacyRow `json:"rows"`
}

// ParseMinutes converts an "HH:MM" string to minutes since midnight.
// The second return is false when the string does not split into two
// numeric parts.
func ParseMinutes(t string) (int, bool) {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hours*60 + minutes, true
}
