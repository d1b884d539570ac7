// Package tsdb records display fleet telemetry in InfluxDB.
//
// Heartbeats and playback reports from display clients are written as
// time-series points so operators can chart screen uptime and see what
// content each display was showing. Writes are batched, non-blocking,
// and entirely optional — when telemetry is disabled in config the rest
// of the system runs unchanged.
package tsdb
