package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	syncpkg "github.com/ummeeayz/edusafe-app/internal/sync"
	"github.com/ummeeayz/edusafe-app/internal/sync/scheduler"
)

// SyncHandler exposes the sync queue and connectivity controls.
type SyncHandler struct {
	engine    *syncpkg.Engine
	scheduler *scheduler.Scheduler
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(engine *syncpkg.Engine, sched *scheduler.Scheduler) *SyncHandler {
	return &SyncHandler{engine: engine, scheduler: sched}
}

// Status handles GET /api/sync/status.
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	pending, err := h.engine.PendingCount()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"online":  h.engine.IsOnline(),
		"pending": pending,
	})
}

// Trigger handles POST /api/sync. The drain result is returned as is;
// a refused drain is not an HTTP error.
func (h *SyncHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	result, err := h.scheduler.TriggerSync(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SetConnectivity handles POST /api/sync/connectivity. Going online
// kicks off an immediate drain.
func (h *SyncHandler) SetConnectivity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Online *bool `json:"online"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Online == nil {
		writeBadRequest(w, "online is required")
		return
	}

	// The drain triggered by coming back online outlives the request.
	h.scheduler.SetOnlineStatus(context.Background(), *req.Online)

	writeJSON(w, http.StatusOK, map[string]bool{"online": *req.Online})
}
