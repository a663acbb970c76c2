package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/studytrack/api/internal/domain"
	"github.com/studytrack/api/internal/repository"
)

// writeJSON writes JSON response with status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError sends an error message.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps a service error onto the HTTP taxonomy.
// Validation problems keep their message; anything unexpected is logged
// and reduced to a generic 500 so store internals never reach a client.
func (r *Router) respondServiceError(w http.ResponseWriter, req *http.Request, err error, notFoundMsg string) {
	var verr domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusBadRequest, "user already exists")
	default:
		r.logger.Error("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
