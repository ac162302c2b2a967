package handler

// RESPONSE HELPERS:
// Every handler writes through writeJSON and writeError so all responses,
// successful or not, share one shape.
//
// ERROR FORMAT:
//   {"error": "not_found", "message": "User not found", "fields": {"handle": "User not found"}}
//
// Store failures additionally carry the backend's error code and whether a
// retry may help:
//   {"error": "store_failure", "message": "...", "code": "unavailable", "retryable": true}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-social/internal/apperror"
	"github.com/sakif/snippet-social/internal/auth"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error     string            `json:"error"`             // Machine-readable kind
	Message   string            `json:"message"`           // Human-readable description
	Fields    map[string]string `json:"fields,omitempty"`  // Per-input messages for form feedback
	Code      string            `json:"code,omitempty"`    // Store error code (store_failure only)
	Retryable bool              `json:"retryable,omitempty"`
}

// MessageResponse acknowledges a mutation.
type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent; all we can do is log.
			logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps an error kind to its HTTP status.
//
//	ErrBadRequest   → 400
//	ErrUnauthorized → 403
//	ErrNotFound     → 404
//	ErrStoreFailure → 500 (+ code, retryable)
//	ErrInternal     → 500
//
// Errors that aren't *apperror.AppError become a generic 500. Their text is
// logged, not exposed.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		logger.Error("unclassified handler error", slog.String("error", err.Error()))
		writeJSON(w, logger, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Something went wrong, please try again",
		})
		return
	}

	status := http.StatusInternalServerError
	kind := "internal_error"
	resp := ErrorResponse{Message: appErr.Message, Fields: appErr.Fields()}

	switch {
	case errors.Is(err, apperror.ErrBadRequest):
		status = http.StatusBadRequest
		kind = "bad_request"
	case errors.Is(err, apperror.ErrUnauthorized):
		status = http.StatusForbidden
		kind = "unauthorized"
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		kind = "not_found"
	case errors.Is(err, apperror.ErrStoreFailure):
		kind = "store_failure"
		resp.Code = appErr.Code
		resp.Retryable = appErr.Retryable
	}

	resp.Error = kind
	writeJSON(w, logger, status, resp)
}

// Deny returns the auth.DenyFunc wired into auth.RequireAuth. It logs why the
// token was rejected and answers 403 without repeating the reason.
func Deny(logger *slog.Logger) auth.DenyFunc {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("request denied",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeError(w, logger, apperror.Unauthorized("Unauthorized"))
	}
}
