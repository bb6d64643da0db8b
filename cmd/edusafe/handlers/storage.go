package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ummeeayz/edusafe-app/internal/notify"
	"github.com/ummeeayz/edusafe-app/internal/storage"
)

// StorageHandler exposes storage analytics and optimization.
type StorageHandler struct {
	manager  *storage.Manager
	notifier notify.Notifier
}

// NewStorageHandler creates a StorageHandler. A nil notifier disables
// change notifications.
func NewStorageHandler(manager *storage.Manager, notifier notify.Notifier) *StorageHandler {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &StorageHandler{manager: manager, notifier: notifier}
}

// Analytics handles GET /api/storage/analytics.
func (h *StorageHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.manager.Analyze()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

// Optimize handles POST /api/storage/optimize.
func (h *StorageHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var opts storage.OptimizeOptions
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	result, err := h.manager.Optimize(opts)
	if err != nil {
		writeError(w, err)
		return
	}

	h.notifier.StorageChanged()
	if opts.ArchiveOld || opts.ReduceVersions {
		h.notifier.DocumentsChanged()
	}

	writeJSON(w, http.StatusOK, result)
}
