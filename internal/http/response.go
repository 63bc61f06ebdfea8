package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"village-records-backend-go/internal/services"
	"village-records-backend-go/internal/store"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// writeStoreError translates store/service failures into the error
// taxonomy: 404 for missing rows, 409 for constraint-backstopped
// duplicates, the ServiceError's own status when one is wrapped, and
// 500 for everything else.
func writeStoreError(w http.ResponseWriter, err error, notFoundMsg, conflictMsg string) {
	var svcErr services.ServiceError
	switch {
	case errors.Is(err, store.ErrNotFound):
		WriteError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, store.ErrDuplicate):
		WriteError(w, http.StatusConflict, conflictMsg)
	case errors.As(err, &svcErr):
		WriteError(w, svcErr.Status, svcErr.Message)
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
