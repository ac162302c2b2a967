package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-social/internal/apperror"
	"github.com/sakif/snippet-social/internal/store"
)

// NotificationService mutates notification state.
type NotificationService struct {
	store  store.Client
	logger *slog.Logger
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(client store.Client, logger *slog.Logger) *NotificationService {
	return &NotificationService{store: client, logger: logger}
}

// MarkRead sets read=true on every listed notification in one atomic batch.
//
// Either every id flips to read or none does: an id that doesn't exist makes
// the store reject the whole commit. Marking an already-read notification
// changes nothing, and an empty list succeeds without touching the store.
// Duplicate ids are collapsed.
func (s *NotificationService) MarkRead(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(ids))
	batch := s.store.Batch()
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || strings.Contains(id, "/") {
			return apperror.BadRequest("notificationIds", "Must be a list of notification ids")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		batch.Update(store.Path(NotificationsCollection, id), map[string]any{"read": true})
	}

	if err := batch.Commit(ctx); err != nil {
		return storeFailure(s.logger, "failed to mark notifications read", err, slog.Int("count", len(seen)))
	}

	s.logger.Info("notifications marked read", slog.Int("count", len(seen)))
	return nil
}
