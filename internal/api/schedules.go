package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nordbad/signage-core/internal/schedule"
)

// handleGetSchedule returns the active schedule.
//
// Stored data always passes through the normalizer, so a corrupted record
// degrades to an empty schedule instead of failing the request. Displays
// must never go dark because of bad data.
func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	rec, err := s.schedules.GetActive(r.Context())
	if err != nil {
		s.logger.Error("loading active schedule failed", "error", err)
		writeInternalError(w, "failed to load schedule")
		return
	}

	if rec == nil {
		writeJSON(w, http.StatusOK, schedule.DefaultSchedule(1))
		return
	}
	writeJSON(w, http.StatusOK, schedule.NormalizeJSON(rec.Data))
}

// handlePutSchedule validates and stores a new active schedule version.
//
// Admin submissions are validated strictly: a malformed document returns
// 400 with the full violation list rather than being silently repaired.
// The server assigns the version (active + 1); the submitted version field
// is ignored so concurrent editors cannot collide on it.
func (s *Server) handlePutSchedule(w http.ResponseWriter, r *http.Request) {
	var raw any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	// Pre-assign the next version so validation sees the final document.
	nextVersion := 1
	active, err := s.schedules.GetActive(r.Context())
	if err != nil {
		s.logger.Error("loading active schedule failed", "error", err)
		writeInternalError(w, "failed to load schedule")
		return
	}
	if active != nil {
		nextVersion = active.Version + 1
	}
	if obj, ok := raw.(map[string]any); ok {
		obj["version"] = float64(nextVersion)
	}

	sched, invalid := schedule.Validate(raw)
	if invalid != nil {
		writeValidationError(w, "schedule failed validation", invalid.Violations)
		return
	}

	data, err := json.Marshal(sched)
	if err != nil {
		s.logger.Error("encoding schedule failed", "error", err)
		writeInternalError(w, "failed to encode schedule")
		return
	}

	if err := s.schedules.ReplaceActive(r.Context(), sched.Version, data); err != nil {
		if errors.Is(err, schedule.ErrVersionExists) {
			writeConflict(w, "schedule version already exists, retry")
			return
		}
		s.logger.Error("storing schedule failed", "error", err)
		writeInternalError(w, "failed to store schedule")
		return
	}

	s.logger.Info("schedule updated", "version", sched.Version)
	s.hub.Publish(ChannelScheduleUpdates, EventScheduleUpdated, sched)
	writeJSON(w, http.StatusOK, sched)
}

// handleListScheduleVersions returns the stored version history, oldest first.
func (s *Server) handleListScheduleVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := s.schedules.ListVersions(r.Context())
	if err != nil {
		s.logger.Error("listing schedule versions failed", "error", err)
		writeInternalError(w, "failed to list versions")
		return
	}
	if versions == nil {
		versions = []schedule.VersionInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"versions": versions})
}

// handleGetScheduleVersion returns one historical schedule, normalized.
func (s *Server) handleGetScheduleVersion(w http.ResponseWriter, r *http.Request) {
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil || version < 1 {
		writeBadRequest(w, "version must be a positive integer")
		return
	}

	rec, err := s.schedules.GetByVersion(r.Context(), version)
	if err != nil {
		if errors.Is(err, schedule.ErrNotFound) {
			writeNotFound(w, "schedule version not found")
			return
		}
		s.logger.Error("loading schedule version failed", "version", version, "error", err)
		writeInternalError(w, "failed to load schedule version")
		return
	}

	writeJSON(w, http.StatusOK, schedule.NormalizeJSON(rec.Data))
}
