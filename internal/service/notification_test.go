package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snippet-social/internal/apperror"
	"github.com/sakif/snippet-social/internal/model"
	"github.com/sakif/snippet-social/internal/store"
	"github.com/sakif/snippet-social/internal/store/sqlite"
)

func seedNotifications(t *testing.T, db *sqlite.DB, ids ...string) {
	t.Helper()
	for i, id := range ids {
		err := db.Set(context.Background(), store.Path(NotificationsCollection, id), model.Notification{
			Recipient: "alice",
			Sender:    "bob",
			SnippetID: "s1",
			Type:      "like",
			CreatedAt: at(i),
		})
		require.NoError(t, err)
	}
}

func isRead(t *testing.T, db *sqlite.DB, id string) bool {
	t.Helper()
	doc, err := db.Get(context.Background(), store.Path(NotificationsCollection, id))
	require.NoError(t, err)
	n, err := model.NotificationFromDocument(doc)
	require.NoError(t, err)
	return n.Read
}

func TestMarkRead(t *testing.T) {
	db := newTestStore(t)
	seedNotifications(t, db, "n1", "n2", "n3")
	svc := NewNotificationService(db, testLogger())

	require.NoError(t, svc.MarkRead(context.Background(), []string{"n1", "n2"}))

	assert.True(t, isRead(t, db, "n1"))
	assert.True(t, isRead(t, db, "n2"))
	assert.False(t, isRead(t, db, "n3"), "unlisted notification must stay unread")
}

func TestMarkRead_Idempotent(t *testing.T) {
	db := newTestStore(t)
	seedNotifications(t, db, "n1")
	svc := NewNotificationService(db, testLogger())

	require.NoError(t, svc.MarkRead(context.Background(), []string{"n1"}))
	require.NoError(t, svc.MarkRead(context.Background(), []string{"n1", "n1"}))
	assert.True(t, isRead(t, db, "n1"))
}

func TestMarkRead_EmptyIsNoop(t *testing.T) {
	db := newTestStore(t)
	seedNotifications(t, db, "n1")

	// A failing store proves the empty call never reaches the backend.
	fs := newFailingStore(db)
	fs.failCommit = true

	svc := NewNotificationService(fs, testLogger())
	require.NoError(t, svc.MarkRead(context.Background(), nil))
	require.NoError(t, svc.MarkRead(context.Background(), []string{}))
	assert.False(t, isRead(t, db, "n1"))
}

func TestMarkRead_MissingIDFailsWholeBatch(t *testing.T) {
	db := newTestStore(t)
	seedNotifications(t, db, "n1")
	svc := NewNotificationService(db, testLogger())

	err := svc.MarkRead(context.Background(), []string{"n1", "n2"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrStoreFailure), "error = %v, want ErrStoreFailure", err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, string(store.CodeNotFound), appErr.Code)
	assert.False(t, appErr.Retryable)

	assert.False(t, isRead(t, db, "n1"), "n1 must not change when the batch fails")
}

func TestMarkRead_CommitFailureLeavesStateUnchanged(t *testing.T) {
	db := newTestStore(t)
	seedNotifications(t, db, "n1", "n2")

	fs := newFailingStore(db)
	fs.failCommit = true
	svc := NewNotificationService(fs, testLogger())

	err := svc.MarkRead(context.Background(), []string{"n1", "n2"})
	assert.True(t, errors.Is(err, apperror.ErrStoreFailure), "error = %v, want ErrStoreFailure", err)
	assert.False(t, isRead(t, db, "n1"))
	assert.False(t, isRead(t, db, "n2"))
}

func TestMarkRead_InvalidIDs(t *testing.T) {
	db := newTestStore(t)
	seedNotifications(t, db, "n1")
	svc := NewNotificationService(db, testLogger())

	for _, ids := range [][]string{{""}, {"n1", "  "}, {"n1", "a/b"}} {
		t.Run(fmt.Sprintf("%q", ids), func(t *testing.T) {
			err := svc.MarkRead(context.Background(), ids)
			assert.True(t, errors.Is(err, apperror.ErrBadRequest), "error = %v, want ErrBadRequest", err)
			assert.False(t, isRead(t, db, "n1"))
		})
	}
}
