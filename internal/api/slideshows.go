package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nordbad/signage-core/internal/media"
)

// slideshowRequest is the request body for slideshow create and update.
type slideshowRequest struct {
	Name   string        `json:"name"`
	Slides []media.Slide `json:"slides"`
}

// handleListSlideshows returns all slideshows with their slides.
func (s *Server) handleListSlideshows(w http.ResponseWriter, r *http.Request) {
	shows, err := s.slideshows.List(r.Context())
	if err != nil {
		s.logger.Error("listing slideshows failed", "error", err)
		writeInternalError(w, "failed to list slideshows")
		return
	}
	if shows == nil {
		shows = []media.Slideshow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"slideshows": shows})
}

// handleCreateSlideshow creates a slideshow with its slide list.
func (s *Server) handleCreateSlideshow(w http.ResponseWriter, r *http.Request) {
	var req slideshowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	show := &media.Slideshow{
		ID:     uuid.NewString(),
		Name:   req.Name,
		Slides: req.Slides,
	}

	if err := s.slideshows.Create(r.Context(), show); err != nil {
		if errors.Is(err, media.ErrInvalid) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("creating slideshow failed", "error", err)
		writeInternalError(w, "failed to create slideshow")
		return
	}

	s.logger.Info("slideshow created", "id", show.ID, "name", show.Name, "slides", len(show.Slides))
	writeJSON(w, http.StatusCreated, show)
}

// handleGetSlideshow returns one slideshow with its slides.
func (s *Server) handleGetSlideshow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	show, err := s.slideshows.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeNotFound(w, "slideshow not found")
			return
		}
		s.logger.Error("loading slideshow failed", "id", id, "error", err)
		writeInternalError(w, "failed to load slideshow")
		return
	}
	writeJSON(w, http.StatusOK, show)
}

// handleUpdateSlideshow replaces a slideshow's name and slide list.
func (s *Server) handleUpdateSlideshow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeBadRequest(w, "id must be a UUID")
		return
	}

	var req slideshowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	show := &media.Slideshow{
		ID:     id,
		Name:   req.Name,
		Slides: req.Slides,
	}

	if err := s.slideshows.Update(r.Context(), show); err != nil {
		switch {
		case errors.Is(err, media.ErrInvalid):
			writeBadRequest(w, err.Error())
		case errors.Is(err, media.ErrNotFound):
			writeNotFound(w, "slideshow not found")
		default:
			s.logger.Error("updating slideshow failed", "id", id, "error", err)
			writeInternalError(w, "failed to update slideshow")
		}
		return
	}

	writeJSON(w, http.StatusOK, show)
}

// handleDeleteSlideshow removes a slideshow and its slides.
func (s *Server) handleDeleteSlideshow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.slideshows.Delete(r.Context(), id); err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeNotFound(w, "slideshow not found")
			return
		}
		s.logger.Error("deleting slideshow failed", "id", id, "error", err)
		writeInternalError(w, "failed to delete slideshow")
		return
	}

	s.logger.Info("slideshow removed", "id", id)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "deleted": true})
}
