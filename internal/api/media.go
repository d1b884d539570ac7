package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nordbad/signage-core/internal/media"
)

// handleListMedia returns all registered media assets.
func (s *Server) handleListMedia(w http.ResponseWriter, r *http.Request) {
	assets, err := s.media.List(r.Context())
	if err != nil {
		s.logger.Error("listing media failed", "error", err)
		writeInternalError(w, "failed to list media")
		return
	}
	if assets == nil {
		assets = []media.Media{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"media": assets})
}

// createMediaRequest is the request body for POST /media. The bytes are
// placed by an out-of-band upload; this registers the metadata.
type createMediaRequest struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Mime      string `json:"mime"`
	SizeBytes int64  `json:"size_bytes"`
}

// handleCreateMedia registers a media asset.
func (s *Server) handleCreateMedia(w http.ResponseWriter, r *http.Request) {
	var req createMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	m := &media.Media{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Path:      req.Path,
		Mime:      req.Mime,
		SizeBytes: req.SizeBytes,
	}

	if err := s.media.Create(r.Context(), m); err != nil {
		if errors.Is(err, media.ErrInvalid) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("creating media failed", "error", err)
		writeInternalError(w, "failed to create media")
		return
	}

	s.logger.Info("media registered", "id", m.ID, "name", m.Name)
	writeJSON(w, http.StatusCreated, m)
}

// handleGetMedia returns one media asset.
func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, err := s.media.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeNotFound(w, "media not found")
			return
		}
		s.logger.Error("loading media failed", "id", id, "error", err)
		writeInternalError(w, "failed to load media")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleDeleteMedia removes a media asset and the slides referencing it.
func (s *Server) handleDeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.media.Delete(r.Context(), id); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeNotFound(w, "media not found")
			return
		}
		s.logger.Error("deleting media failed", "id", id, "error", err)
		writeInternalError(w, "failed to delete media")
		return
	}

	s.logger.Info("media removed", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}
