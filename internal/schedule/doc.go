// Package schedule holds the canonical weekly schedule model for Signage Core.
//
// The schedule is a versioned, preset-keyed structure: ten fixed presets
// (weekdays, an optional day, two event days), each a grid of sauna
// columns and time-ordered program rows.
//
// Three pieces live here:
//
//   - Validate / Normalize: structural validation over decoded JSON and
//     the fail-safe repair path the serving layer uses. Malformed
//     persisted data never produces an error on the serving path; it
//     degrades to an empty schedule at a best-effort version.
//   - Migrator: one-shot conversion of the flat legacy day-offset format
//     into the preset-keyed format. Operator-invoked, idempotent, and
//     transactional — it either fully replaces the active record or
//     writes nothing.
//   - Store: append-only versioned persistence. Exactly one active
//     schedule exists at any time; history is retained.
package schedule
