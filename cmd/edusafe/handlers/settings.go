package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ummeeayz/edusafe-app/internal/services"
)

// SettingsHandler exposes the key/value settings store.
type SettingsHandler struct {
	settings *services.SettingsService
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// List handles GET /api/settings.
func (h *SettingsHandler) List(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.GetAllSettings()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// Get handles GET /api/settings/{key}. An unknown key returns an empty
// value rather than 404 so the client can treat it as unset.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	value, err := h.settings.GetSetting(key, "")
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": value})
}

// Set handles PUT /api/settings/{key}.
func (h *SettingsHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.settings.SetSetting(r.PathValue("key"), req.Value); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}
