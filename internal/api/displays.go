package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nordbad/signage-core/internal/display"
)

// displayResponse wraps a Display with its derived online state.
type displayResponse struct {
	display.Display
	Online bool `json:"online"`
}

func toDisplayResponse(d display.Display, now time.Time) displayResponse {
	return displayResponse{Display: d, Online: d.Online(now)}
}

// handleListDisplays returns all registered displays.
func (s *Server) handleListDisplays(w http.ResponseWriter, r *http.Request) {
	displays, err := s.displays.List(r.Context())
	if err != nil {
		s.logger.Error("listing displays failed", "error", err)
		writeInternalError(w, "failed to list displays")
		return
	}

	now := time.Now()
	out := make([]displayResponse, 0, len(displays))
	for _, d := range displays {
		out = append(out, toDisplayResponse(d, now))
	}
	writeJSON(w, http.StatusOK, map[string]any{"displays": out})
}

// createDisplayRequest is the request body for POST /displays.
type createDisplayRequest struct {
	Name        string  `json:"name"`
	Location    string  `json:"location"`
	Orientation string  `json:"orientation"`
	SlideshowID *string `json:"slideshow_id"`
}

// handleCreateDisplay registers a new display and broadcasts the roster change.
func (s *Server) handleCreateDisplay(w http.ResponseWriter, r *http.Request) {
	var req createDisplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	orientation := display.Orientation(req.Orientation)
	if req.Orientation == "" {
		orientation = display.OrientationLandscape
	}

	d := &display.Display{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Location:    req.Location,
		Orientation: orientation,
		SlideshowID: req.SlideshowID,
	}

	if err := s.displays.Create(r.Context(), d); err != nil {
		if errors.Is(err, display.ErrInvalid) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("creating display failed", "error", err)
		writeInternalError(w, "failed to create display")
		return
	}

	s.logger.Info("display registered", "id", d.ID, "name", d.Name)
	resp := toDisplayResponse(*d, time.Now())
	s.hub.PublishDeviceUpdate(resp)
	writeJSON(w, http.StatusCreated, resp)
}

// handleGetDisplay returns one display.
func (s *Server) handleGetDisplay(w http.ResponseWriter, r *http.Request) {
	d, ok := s.loadDisplay(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toDisplayResponse(*d, time.Now()))
}

// updateDisplayRequest is the request body for PATCH /displays/{id}.
// Nil fields are left unchanged; slideshow_clear detaches the assignment.
type updateDisplayRequest struct {
	Name           *string `json:"name"`
	Location       *string `json:"location"`
	Orientation    *string `json:"orientation"`
	SlideshowID    *string `json:"slideshow_id"`
	SlideshowClear bool    `json:"slideshow_clear"`
}

// handleUpdateDisplay applies a partial update and broadcasts the roster change.
func (s *Server) handleUpdateDisplay(w http.ResponseWriter, r *http.Request) {
	d, ok := s.loadDisplay(w, r)
	if !ok {
		return
	}

	var req updateDisplayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if req.Name != nil {
		d.Name = *req.Name
	}
	if req.Location != nil {
		d.Location = *req.Location
	}
	if req.Orientation != nil {
		d.Orientation = display.Orientation(*req.Orientation)
	}
	if req.SlideshowClear {
		d.SlideshowID = nil
	} else if req.SlideshowID != nil {
		d.SlideshowID = req.SlideshowID
	}

	if err := s.displays.Update(r.Context(), d); err != nil {
		if errors.Is(err, display.ErrInvalid) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("updating display failed", "id", d.ID, "error", err)
		writeInternalError(w, "failed to update display")
		return
	}

	resp := toDisplayResponse(*d, time.Now())
	s.hub.PublishDeviceUpdate(resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleDeleteDisplay removes a display and broadcasts the roster change.
func (s *Server) handleDeleteDisplay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.displays.Delete(r.Context(), id); err != nil {
		if errors.Is(err, display.ErrNotFound) {
			writeNotFound(w, "display not found")
			return
		}
		s.logger.Error("deleting display failed", "id", id, "error", err)
		writeInternalError(w, "failed to delete display")
		return
	}

	s.logger.Info("display removed", "id", id)
	s.hub.PublishDeviceUpdate(map[string]any{"id": id, "deleted": true})
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}

// handleDisplayCommand pushes a one-shot command to a single display over
// its device channel.
func (s *Server) handleDisplayCommand(w http.ResponseWriter, r *http.Request) {
	d, ok := s.loadDisplay(w, r)
	if !ok {
		return
	}

	var cmd display.Command
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := display.ValidateCommand(&cmd); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	s.logger.Info("display command", "id", d.ID, "action", cmd.Action)
	s.hub.Publish(DeviceChannel(d.ID), EventDeviceCommand, cmd)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"display_id": d.ID,
		"action":     cmd.Action,
	})
}

// handleDisplayHeartbeat records a display health report: last-seen in
// SQLite, uptime and screen state in the telemetry store when configured.
func (s *Server) handleDisplayHeartbeat(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var hb display.Heartbeat
	if err := json.NewDecoder(r.Body).Decode(&hb); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	now := time.Now()
	if err := s.displays.Touch(r.Context(), id, now); err != nil {
		if errors.Is(err, display.ErrNotFound) {
			writeNotFound(w, "display not found")
			return
		}
		s.logger.Error("recording heartbeat failed", "id", id, "error", err)
		writeInternalError(w, "failed to record heartbeat")
		return
	}

	if s.tsdb != nil && s.tsdb.IsConnected() {
		s.tsdb.WriteHeartbeat(id, float64(hb.UptimeSeconds), hb.ScreenOn)
		if hb.ContentType != "" && hb.ContentID != "" {
			s.tsdb.WritePlayback(id, hb.ContentType, hb.ContentID)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"seen_at": now.UTC().Format(time.RFC3339),
	})
}

// loadDisplay fetches the display named in the URL, writing the error
// response itself when the lookup fails.
func (s *Server) loadDisplay(w http.ResponseWriter, r *http.Request) (*display.Display, bool) {
	id := chi.URLParam(r, "id")
	d, err := s.displays.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, display.ErrNotFound) {
			writeNotFound(w, "display not found")
			return nil, false
		}
		s.logger.Error("loading display failed", "id", id, "error", err)
		writeInternalError(w, "failed to load display")
		return nil, false
	}
	return d, true
}
