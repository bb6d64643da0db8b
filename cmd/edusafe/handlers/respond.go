// Package handlers provides the REST API for the local document server.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ummeeayz/edusafe-app/internal/apperrors"
	"github.com/ummeeayz/edusafe-app/internal/logging"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeJSON writes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode response", err)
	}
}

// writeError writes a coded JSON error. The HTTP status is derived from
// the application error code.
func writeError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = err.Error()

	writeJSON(w, statusForCode(code), body)
}

// writeBadRequest writes an invalid-input error with a plain message.
func writeBadRequest(w http.ResponseWriter, message string) {
	var body errorBody
	body.Error.Code = string(apperrors.ErrInvalid)
	body.Error.Message = message
	writeJSON(w, http.StatusBadRequest, body)
}

func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.ErrInvalid:
		return http.StatusBadRequest
	case apperrors.ErrNotFound,
		apperrors.ErrDocumentNotFound,
		apperrors.ErrAssignmentNotFound,
		apperrors.ErrSettingNotFound:
		return http.StatusNotFound
	case apperrors.ErrImportUnsupported:
		return http.StatusUnsupportedMediaType
	case apperrors.ErrSyncInProgress:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
