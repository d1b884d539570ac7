package schedule

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDefaultSchedule(t *testing.T) {
	s := DefaultSchedule(5)

	if s.Version != 5 {
		t.Errorf("Version = %d, want 5", s.Version)
	}
	if s.AutoPlay {
		t.Error("AutoPlay should default to false")
	}
	if len(s.Presets) != 10 {
		t.Fatalf("len(Presets) = %d, want 10", len(s.Presets))
	}
	for _, key := range AllPresetKeys() {
		day, ok := s.Presets[key]
		if !ok {
			t.Errorf("preset %s missing", key)
			continue
		}
		if !reflect.DeepEqual(day.Saunas, DefaultSaunas()) {
			t.Errorf("preset %s saunas = %v, want defaults", key, day.Saunas)
		}
		if day.Rows == nil || len(day.Rows) != 0 {
			t.Errorf("preset %s rows = %v, want empty non-nil slice", key, day.Rows)
		}
	}
}

func TestDefaultSchedule_ClampsVersion(t *testing.T) {
	for _, version := range []int{0, -3} {
		if got := DefaultSchedule(version).Version; got != 1 {
			t.Errorf("DefaultSchedule(%d).Version = %d, want 1", version, got)
		}
	}
}

func TestNormalize_ValidInputPassesThrough(t *testing.T) {
	raw := validRaw(t)

	got := Normalize(raw)

	want, invalid := Validate(raw)
	if invalid != nil {
		t.Fatalf("fixture schedule is invalid: %v", invalid.Violations)
	}
	if !reflect.DeepEqual(got, *want) {
		t.Errorf("Normalize() altered a valid schedule:\ngot  %+v\nwant %+v", got, *want)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	once := Normalize(validRaw(t))

	data, err := json.Marshal(once)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	twice := Normalize(raw)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize() is not idempotent:\nonce  %+v\ntwice %+v", once, twice)
	}
}

func TestNormalize_MalformedFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name        string
		raw         any
		wantVersion int
	}{
		{
			name:        "nil input",
			raw:         nil,
			wantVersion: 1,
		},
		{
			name:        "wrong top-level type",
			raw:         "not a schedule",
			wantVersion: 1,
		},
		{
			name:        "version survives broken presets",
			raw:         map[string]any{"version": float64(7), "presets": "broken"},
			wantVersion: 7,
		},
		{
			name:        "fractional version floors",
			raw:         map[string]any{"version": 4.9},
			wantVersion: 4,
		},
		{
			name:        "negative version clamps",
			raw:         map[string]any{"version": float64(-2)},
			wantVersion: 1,
		},
		{
			name:        "non-numeric version resets",
			raw:         map[string]any{"version": "three"},
			wantVersion: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			want := DefaultSchedule(tt.wantVersion)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Normalize() = %+v, want default schedule v%d", got, tt.wantVersion)
			}
		})
	}
}

func TestNormalizeJSON(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		data, err := json.Marshal(validRaw(t))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		got := NormalizeJSON(data)
		if got.Version != 3 {
			t.Errorf("Version = %d, want 3", got.Version)
		}
	})

	t.Run("unparseable bytes", func(t *testing.T) {
		got := NormalizeJSON([]byte("{not json"))
		if !reflect.DeepEqual(got, DefaultSchedule(1)) {
			t.Errorf("NormalizeJSON() = %+v, want default schedule v1", got)
		}
	})
}

func TestEmptyDaySchedule_CopiesSaunas(t *testing.T) {
	saunas := []string{"Vulkan", "Nordisch"}
	day := EmptyDaySchedule(saunas)

	saunas[0] = "mutated"
	if day.Saunas[0] != "Vulkan" {
		t.Error("EmptyDaySchedule() shares the caller's slice")
	}
}
