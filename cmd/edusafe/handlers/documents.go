package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ummeeayz/edusafe-app/internal/services"
)

// DocumentsHandler handles document CRUD and version history endpoints.
type DocumentsHandler struct {
	documents *services.DocumentService
}

// NewDocumentsHandler creates a DocumentsHandler.
func NewDocumentsHandler(documents *services.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documents: documents}
}

// List handles GET /api/documents.
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.documents.GetAllDocuments()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Get handles GET /api/documents/{id}.
func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.GetDocument(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Create handles POST /api/documents.
func (h *DocumentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		Category string `json:"category"`
		Content  string `json:"content"`
		Size     int64  `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Title == "" {
		writeBadRequest(w, "title is required")
		return
	}

	id, err := h.documents.CreateDocument(services.CreateDocumentInput{
		Title:    req.Title,
		Category: req.Category,
		Content:  req.Content,
		Size:     req.Size,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Update handles PATCH /api/documents/{id}. Absent fields are left
// unchanged; a content change records a new version.
func (h *DocumentsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title              *string `json:"title"`
		Category           *string `json:"category"`
		Content            *string `json:"content"`
		Size               *int64  `json:"size"`
		IsOfflineAvailable *bool   `json:"is_offline_available"`
		Status             *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	err := h.documents.UpdateDocument(r.PathValue("id"), services.UpdateDocumentInput{
		Title:              req.Title,
		Category:           req.Category,
		Content:            req.Content,
		Size:               req.Size,
		IsOfflineAvailable: req.IsOfflineAvailable,
		Status:             req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Delete handles DELETE /api/documents/{id}. Documents are soft
// deleted so the removal can still reach the remote side.
func (h *DocumentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.DeleteDocument(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Versions handles GET /api/documents/{id}/versions.
func (h *DocumentsHandler) Versions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.documents.GetDocumentVersions(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}
