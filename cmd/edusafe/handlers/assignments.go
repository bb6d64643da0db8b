package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ummeeayz/edusafe-app/internal/services"
)

// AssignmentsHandler handles assignment CRUD endpoints.
type AssignmentsHandler struct {
	assignments *services.AssignmentService
}

// NewAssignmentsHandler creates an AssignmentsHandler.
func NewAssignmentsHandler(assignments *services.AssignmentService) *AssignmentsHandler {
	return &AssignmentsHandler{assignments: assignments}
}

// List handles GET /api/assignments.
func (h *AssignmentsHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.assignments.GetAllAssignments()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// Create handles POST /api/assignments. The due date is a unix
// timestamp in seconds.
func (h *AssignmentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		DueDate  int64  `json:"due_date"`
		Priority string `json:"priority"`
		Subject  string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Title == "" {
		writeBadRequest(w, "title is required")
		return
	}

	id, err := h.assignments.CreateAssignment(services.CreateAssignmentInput{
		Title:    req.Title,
		DueDate:  time.Unix(req.DueDate, 0),
		Priority: req.Priority,
		Subject:  req.Subject,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update handles PATCH /api/assignments/{id}.
func (h *AssignmentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    *string `json:"title"`
		DueDate  *int64  `json:"due_date"`
		Priority *string `json:"priority"`
		Status   *string `json:"status"`
		Subject  *string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	input := services.UpdateAssignmentInput{
		Title:    req.Title,
		Priority: req.Priority,
		Status:   req.Status,
		Subject:  req.Subject,
	}
	if req.DueDate != nil {
		due := time.Unix(*req.DueDate, 0)
		input.DueDate = &due
	}

	if err := h.assignments.UpdateAssignment(r.PathValue("id"), input); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Delete handles DELETE /api/assignments/{id}. Assignments are removed
// permanently.
func (h *AssignmentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.assignments.DeleteAssignment(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
