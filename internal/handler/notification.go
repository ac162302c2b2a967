package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-social/internal/apperror"
)

// maxMarkReadBody caps the POST /notifications/read body.
const maxMarkReadBody = 1 << 20

// NotificationMarker is the slice of service.NotificationService the handler needs.
type NotificationMarker interface {
	MarkRead(ctx context.Context, ids []string) error
}

// NotificationHandler serves notification mutations.
type NotificationHandler struct {
	notifications NotificationMarker
	logger        *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notifications NotificationMarker, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, logger: logger}
}

// markReadRequest is the object form of the request body.
type markReadRequest struct {
	NotificationIDs []string `json:"notificationIds"`
}

// HandleMarkRead marks the listed notifications read in one atomic batch.
//
// HTTP: POST /notifications/read (behind auth.RequireAuth)
// REQUEST BODY, either form:
//
//	["id1", "id2"]
//	{"notificationIds": ["id1", "id2"]}
//
// A missing, null or malformed body is a 400. An empty list is a successful
// no-op.
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	ids, err := decodeNotificationIDs(http.MaxBytesReader(w, r.Body, maxMarkReadBody))
	if err != nil {
		h.logger.Warn("invalid mark-read body", slog.String("error", err.Error()))
		writeError(w, h.logger, err)
		return
	}

	if err := h.notifications.MarkRead(r.Context(), ids); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, MessageResponse{Message: "Notifications marked read"})
}

func decodeNotificationIDs(body io.Reader) ([]string, error) {
	invalid := apperror.BadRequest("notificationIds", "Must be a list of notification ids")

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, invalid
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, invalid
	}

	var ids []string
	switch raw[0] {
	case '[':
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, invalid
		}
	case '{':
		var req markReadRequest
		if err := json.Unmarshal(raw, &req); err != nil || req.NotificationIDs == nil {
			return nil, invalid
		}
		ids = req.NotificationIDs
	default:
		return nil, invalid
	}

	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
