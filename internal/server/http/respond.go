package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/and161185/blogd/internal/errs"
)

// envelope is the uniform response body. Data is present on success, Error
// on failure; both never at once.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Success: false, Error: msg})
}

// writeError translates sentinel errors into HTTP statuses. Unknown errors
// become an opaque 500; the detail goes to the log, never to the client.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		fail(w, http.StatusNotFound, "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		// The wrap carries the offending constraint name.
		fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrForeignKey):
		fail(w, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidColumn), errors.Is(err, errs.ErrInvalidPage):
		fail(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		fail(w, http.StatusUnauthorized, errs.ErrUnauthorized.Error())
	case errors.Is(err, errs.ErrRateLimited):
		fail(w, http.StatusTooManyRequests, "too many attempts, try again later")
	default:
		log.Error("request failed", zap.Error(err))
		fail(w, http.StatusInternalServerError, "internal error")
	}
}
