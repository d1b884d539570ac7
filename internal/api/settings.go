package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nordbad/signage-core/internal/settings"
)

// handleGetSettings returns the current settings document.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	doc, err := s.settings.Get(r.Context())
	if err != nil {
		s.logger.Error("loading settings failed", "error", err)
		writeInternalError(w, "failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handlePutSettings validates and replaces the settings document, then
// broadcasts the stored document to subscribed clients.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var doc settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if err := s.settings.Put(r.Context(), &doc); err != nil {
		if errors.Is(err, settings.ErrInvalidSettings) {
			writeBadRequest(w, err.Error())
			return
		}
		s.logger.Error("storing settings failed", "error", err)
		writeInternalError(w, "failed to store settings")
		return
	}

	s.logger.Info("settings updated", "theme", doc.Theme)
	s.hub.Publish(ChannelSettingsUpdates, EventSettingsUpdated, doc)
	writeJSON(w, http.StatusOK, doc)
}
