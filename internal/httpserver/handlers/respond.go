package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/linkmemo/internal/capture"
	"github.com/MrSnakeDoc/linkmemo/internal/domain"
	"github.com/MrSnakeDoc/linkmemo/internal/logger"
	"github.com/MrSnakeDoc/linkmemo/internal/memo"
	redisstore "github.com/MrSnakeDoc/linkmemo/internal/store/redis"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, memo.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, memo.ErrInvalidIndex), errors.Is(err, redisstore.ErrCaptureNotFound):
		return http.StatusNotFound
	case errors.Is(err, memo.ErrNotLoaded):
		return http.StatusConflict
	case errors.Is(err, domain.ErrEmptyURL), errors.Is(err, domain.ErrEmptyMemo),
		errors.Is(err, domain.ErrInvalidTag), errors.Is(err, capture.ErrUnknownKind),
		errors.Is(err, capture.ErrNoURL):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		badRequest(w, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// isWriteFailure reports whether err came from persisting to the memo file.
func isWriteFailure(err error) bool {
	return errors.Is(err, memo.ErrIOFailure) || errors.Is(err, memo.ErrPermissionDenied)
}
