package handlers

import (
	"io"
	"net/http"

	"github.com/ummeeayz/edusafe-app/internal/services"
)

// importMaxBytes caps uploaded file size at 10 MiB.
const importMaxBytes = 10 << 20

// ImportHandler turns uploaded files into documents.
type ImportHandler struct {
	importer *services.ImportService
}

// NewImportHandler creates an ImportHandler.
func NewImportHandler(importer *services.ImportService) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// Import handles POST /api/import as a multipart form with a "file"
// part and an optional "category" field.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, importMaxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeBadRequest(w, "failed to read file")
		return
	}

	id, err := h.importer.ImportDocument(header.Filename, data, r.FormValue("category"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}
