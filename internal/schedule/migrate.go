package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nordbad/signage-core/internal/infrastructure/logging"
)

// presetByOffset maps legacy day offsets (0=Sunday) to preset keys.
var presetByOffset = map[int]PresetKey{
	0: PresetSun,
	1: PresetMon,
	2: PresetTue,
	3: PresetWed,
	4: PresetThu,
	5: PresetFri,
	6: PresetSat,
}

// Migrator upgrades a stored legacy schedule into the preset-keyed
// canonical format. It is an operator-invoked, one-shot procedure — not
// part of any request path — and is safe to re-run: an already-migrated
// record is detected and left alone.
type Migrator struct {
	store  Store
	logger *logging.Logger
}

// NewMigrator creates a Migrator over the given store.
func NewMigrator(store Store, logger *logging.Logger) *Migrator {
	return &Migrator{store: store, logger: logger}
}

// Run executes the migration:
//
//   - no active record: persist a fresh default schedule at version 1
//   - active record already preset-keyed: no-op
//   - active legacy record: convert, bump the version, and atomically
//     replace the active record
//
// Any conversion or storage error aborts the run without partial writes;
// the error is returned to the invoking operator.
func (m *Migrator) Run(ctx context.Context) error {
	rec, err := m.store.GetActive(ctx)
	if err != nil {
		return fmt.Errorf("loading active schedule: %w", err)
	}

	if rec == nil {
		return m.bootstrap(ctx)
	}

	// Idempotence guard: a presets field means the record is already in
	// the canonical format. Presence check only — repairing a malformed
	// canonical schedule is the Normalizer's job, not the migrator's.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(rec.Data, &probe); err != nil {
		return fmt.Errorf("decoding active schedule: %w", err)
	}
	if _, migrated := probe["presets"]; migrated {
		m.logger.Info("schedule already migrated, nothing to do", "version", rec.Version)
		return nil
	}

	var legacy LegacySchedule
	if err := json.Unmarshal(rec.Data, &legacy); err != nil {
		return fmt.Errorf("decoding legacy schedule: %w", err)
	}

	converted := ConvertLegacy(legacy, rec.Version+1)

	data, err := json.Marshal(converted)
	if err != nil {
		return fmt.Errorf("encoding converted schedule: %w", err)
	}

	if err := m.store.ReplaceActive(ctx, converted.Version, data); err != nil {
		return fmt.Errorf("persisting converted schedule: %w", err)
	}

	m.logger.Info("legacy schedule migrated",
		"old_version", rec.Version,
		"new_version", converted.Version,
		"saunas", len(collectSaunas(legacy.Rows)),
		"legacy_rows", len(legacy.Rows),
	)
	return nil
}

// bootstrap handles the empty-storage case: persist a default schedule at
// version 1 and mark it active.
func (m *Migrator) bootstrap(ctx context.Context) error {
	def := DefaultSchedule(1)
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("encoding default schedule: %w", err)
	}

	if err := m.store.ReplaceActive(ctx, def.Version, data); err != nil {
		return fmt.Errorf("persisting default schedule: %w", err)
	}

	m.logger.Info("no schedule found, created default", "version", def.Version)
	return nil
}

// ConvertLegacy transforms a flat day-offset legacy schedule into the
// canonical preset-keyed schedule at the given version.
//
// The sauna column list is the union of every sauna name across all
// legacy rows, in first-seen order, shared by every preset — legacy data
// had one global sauna set, not a per-day one. Day offsets outside 0-6
// fall back to Mon. If two offsets map to the same preset the
// later-processed one wins; assignment is a plain overwrite.
func ConvertLegacy(legacy LegacySchedule, version int) Schedule {
	saunas := collectSaunas(legacy.Rows)

	rowsByOffset := make(map[int][]LegacyRow)
	var offsets []int // processing order = first-seen order
	for _, row := range legacy.Rows {
		offset := 0
		if row.DayOffset != nil {
			offset = *row.DayOffset
		}
		if _, seen := rowsByOffset[offset]; !seen {
			offsets = append(offsets, offset)
		}
		rowsByOffset[offset] = append(rowsByOffset[offset], row)
	}

	presets := make(map[PresetKey]DaySchedule, len(AllPresetKeys()))
	for _, key := range AllPresetKeys() {
		presets[key] = EmptyDaySchedule(saunas)
	}

	for _, offset := range offsets {
		key, ok := presetByOffset[offset]
		if !ok {
			key = PresetMon
		}
		day := presets[key]
		day.Rows = pivotRows(rowsByOffset[offset], saunas)
		presets[key] = day
	}

	return Schedule{
		Version:  version,
		Presets:  presets,
		AutoPlay: false,
	}
}

// collectSaunas returns every distinct sauna name across the legacy rows,
// deduplicated, in first-seen order.
func collectSaunas(rows []LegacyRow) []string {
	var saunas []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if !seen[row.Sauna] {
			seen[row.Sauna] = true
			saunas = append(saunas, row.Sauna)
		}
	}
	return saunas
}

// pivotRows turns one day's rows-by-sauna into rows-by-time: one TimeRow
// per distinct time value, entries aligned to the sauna column list with
// nil for saunas that have no program at that time. Rows come out sorted
// ascending by minutes since midnight; the sort is stable, so rows with
// identical times keep their pivot-insertion order.
func pivotRows(rows []LegacyRow, saunas []string) []TimeRow {
	entryByTimeSauna := make(map[string]map[string]*CellEntry)
	var times []string // pivot-insertion order
	for _, row := range rows {
		for _, cell := range row.Cells {
			bySauna, ok := entryByTimeSauna[cell.Time]
			if !ok {
				bySauna = make(map[string]*CellEntry)
				entryByTimeSauna[cell.Time] = bySauna
				times = append(times, cell.Time)
			}
			bySauna[row.Sauna] = &CellEntry{
				Title:    cell.Title,
				Subtitle: cell.Subtitle,
				Badges:   cell.Badges,
				Duration: cell.Duration,
				Notes:    cell.Notes,
			}
		}
	}

	sort.SliceStable(times, func(i, j int) bool {
		return legacyMinutes(times[i]) < legacyMinutes(times[j])
	})

	out := make([]TimeRow, 0, len(times))
	for _, t := range times {
		row := TimeRow{
			Time:    t,
			Entries: make([]*CellEntry, len(saunas)),
		}
		for i, sauna := range saunas {
			row.Entries[i] = entryByTimeSauna[t][sauna]
		}
		out = append(out, row)
	}
	return out
}

// legacyMinutes sorts legacy times; malformed times sort first and keep
// their relative order via the stable sort.
func legacyMinutes(t string) int {
	minutes, ok := ParseMinutes(t)
	if !ok {
		return -1
	}
	return minutes
}
