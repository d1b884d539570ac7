package schedule

import (
	"encoding/json"
	"strings"
	"testing"
)

// validRaw builds a decoded-JSON schedule that passes validation:
// the default empty schedule plus one populated Monday row.
func validRaw(t *testing.T) map[string]any {
	t.Helper()

	s := DefaultSchedule(3)
	day := s.Presets[PresetMon]
	day.Rows = append(day.Rows,
		TimeRow{Time: "09:00", Entries: []*CellEntry{{Title: "Aufguss", Duration: 15}, nil, nil}},
		TimeRow{Time: "10:30", Entries: []*CellEntry{nil, {Title: "Salt Scrub", Badges: []string{"hot"}}, nil}},
	)
	s.Presets[PresetMon] = day

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return raw
}

func TestValidate_AcceptsValidSchedule(t *testing.T) {
	raw := validRaw(t)

	s, invalid := Validate(raw)
	if invalid != nil {
		t.Fatalf("Validate() rejected valid schedule: %v", invalid.Violations)
	}

	if s.Version != 3 {
		t.Errorf("Version = %d, want 3", s.Version)
	}
	if len(s.Presets) != 10 {
		t.Errorf("len(Presets) = %d, want 10", len(s.Presets))
	}
	if got := len(s.Presets[PresetMon].Rows); got != 2 {
		t.Errorf("Mon rows = %d, want 2", got)
	}
	if got := s.Presets[PresetMon].Rows[0].Entries[0].Title; got != "Aufguss" {
		t.Errorf("first entry title = %q, want %q", got, "Aufguss")
	}
	// Valid data passes through unchanged: absent entries stay nil.
	if s.Presets[PresetMon].Rows[0].Entries[1] != nil {
		t.Error("expected nil entry for sauna with no program")
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(raw map[string]any)
		wantMsg string
	}{
		{
			name:    "missing version",
			mutate:  func(raw map[string]any) { delete(raw, "version") },
			wantMsg: "version must be a number",
		},
		{
			name:    "fractional version",
			mutate:  func(raw map[string]any) { raw["version"] = 2.5 },
			wantMsg: "version must be a positive integer",
		},
		{
			name:    "zero version",
			mutate:  func(raw map[string]any) { raw["version"] = float64(0) },
			wantMsg: "version must be a positive integer",
		},
		{
			name:    "autoPlay wrong type",
			mutate:  func(raw map[string]any) { raw["autoPlay"] = "yes" },
			wantMsg: "autoPlay must be a boolean",
		},
		{
			name: "missing preset key",
			mutate: func(raw map[string]any) {
				delete(raw["presets"].(map[string]any), "Evt2")
			},
			wantMsg: "presets.Evt2 is missing",
		},
		{
			name: "unknown preset key",
			mutate: func(raw map[string]any) {
				raw["presets"].(map[string]any)["Holiday"] = map[string]any{
					"saunas": []any{}, "rows": []any{},
				}
			},
			wantMsg: "presets.Holiday is not a valid preset key",
		},
		{
			name: "entries misaligned with saunas",
			mutate: func(raw map[string]any) {
				mon := raw["presets"].(map[string]any)["Mon"].(map[string]any)
				row := mon["rows"].([]any)[0].(map[string]any)
				row["entries"] = []any{nil}
			},
			wantMsg: "entries has 1 entries for 3 saunas",
		},
		{
			name: "malformed time",
			mutate: func(raw map[string]any) {
				mon := raw["presets"].(map[string]any)["Mon"].(map[string]any)
				mon["rows"].([]any)[0].(map[string]any)["time"] = "9am"
			},
			wantMsg: "not a valid HH:MM time",
		},
		{
			name: "hour out of range",
			mutate: func(raw map[string]any) {
				mon := raw["presets"].(map[string]any)["Mon"].(map[string]any)
				mon["rows"].([]any)[0].(map[string]any)["time"] = "24:00"
			},
			wantMsg: "not a valid HH:MM time",
		},
		{
			name: "minute out of range",
			mutate: func(raw map[string]any) {
				mon := raw["presets"].(map[string]any)["Mon"].(map[string]any)
				mon["rows"].([]any)[0].(map[string]any)["time"] = "9:75"
			},
			wantMsg: "not a valid HH:MM time",
		},
		{
			name: "rows out of time order",
			mutate: func(raw map[string]any) {
				mon := raw["presets"].(map[string]any)["Mon"].(map[string]any)
				rows := mon["rows"].([]any)
				rows[0], rows[1] = rows[1], rows[0]
			},
			wantMsg: "out of time order",
		},
		{
			name: "duplicate sauna column",
			mutate: func(raw map[string]any) {
				mon := raw["presets"].(map[string]any)["Mon"].(map[string]any)
				mon["saunas"] = []any{"Vulkan", "Vulkan", "Nordisch"}
			},
			wantMsg: "duplicates column",
		},
		{
			name: "entry title wrong type",
			mutate: func(raw map[string]any) {
				mon := raw["presets"].(map[string]any)["Mon"].(map[string]any)
				entry := mon["rows"].([]any)[0].(map[string]any)["entries"].([]any)[0].(map[string]any)
				entry["title"] = 42
			},
			wantMsg: "title must be a string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw(t)
			tt.mutate(raw)

			s, invalid := Validate(raw)
			if invalid == nil {
				t.Fatal("Validate() accepted malformed schedule")
			}
			if s != nil {
				t.Error("Validate() returned a schedule alongside a rejection")
			}
			if !containsViolation(invalid.Violations, tt.wantMsg) {
				t.Errorf("violations %v do not mention %q", invalid.Violations, tt.wantMsg)
			}
		})
	}
}

func TestValidate_NonObjectInput(t *testing.T) {
	for _, raw := range []any{nil, "schedule", float64(7), []any{1, 2}} {
		if _, invalid := Validate(raw); invalid == nil {
			t.Errorf("Validate(%v) accepted non-object input", raw)
		}
	}
}

func TestValidate_CollectsAllViolations(t *testing.T) {
	raw := validRaw(t)
	raw["version"] = "first"
	raw["autoPlay"] = "second"
	delete(raw["presets"].(map[string]any), "Opt")

	_, invalid := Validate(raw)
	if invalid == nil {
		t.Fatal("Validate() accepted malformed schedule")
	}
	if len(invalid.Violations) < 3 {
		t.Errorf("expected all 3 violations collected, got %v", invalid.Violations)
	}
}

func containsViolation(violations []string, fragment string) bool {
	for _, v := range violations {
		if strings.Contains(v, fragment) {
			return true
		}
	}
	return false
}
