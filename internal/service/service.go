// Package service contains the query and mutation logic of the API.
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (this package)   → composes store reads, enforces input rules
//	store.Client (data layer) → documents, queries, batches
//
// Services accept plain values and return model DTOs or *apperror.AppError.
// They never see HTTP types, and they never see SQL: every read goes through
// the store.Client interface, so tests can hand them an in-memory SQLite
// store or a wrapper that fails on demand.
//
// FAN-OUT:
// When a response needs several independent reads, the service issues them
// concurrently with errgroup and waits for all of them. The first failure
// cancels the rest and fails the whole request; a partially filled response
// is never returned.
package service

import (
	"log/slog"

	"github.com/sakif/snippet-social/internal/apperror"
	"github.com/sakif/snippet-social/internal/store"
)

// Collection names.
const (
	UsersCollection         = "users"
	SnippetsCollection      = "snippets"
	LikesCollection         = "likes"
	PlaysCollection         = "plays"
	NotificationsCollection = "notifications"
)

// Paging limits.
const (
	DefaultPageSize          = 3
	MaxPageSize              = 50
	DefaultNotificationLimit = 10
)

// pageSizeOr returns n clamped to [1, MaxPageSize], or def when n <= 0.
func pageSizeOr(n, def int) int {
	if n <= 0 {
		n = def
	}
	if n <= 0 {
		n = DefaultPageSize
	}
	if n > MaxPageSize {
		n = MaxPageSize
	}
	return n
}

// snippetFeedQuery is the query behind every view of a user's feed.
func snippetFeedQuery(handle string, dir store.Direction, limit int, after *store.Position) store.Query {
	return store.Query{
		Collection: SnippetsCollection,
		Where:      []store.Filter{{Field: "userHandle", Value: handle}},
		OrderBy:    "createdAt",
		Direction:  dir,
		Limit:      limit,
		StartAfter: after,
	}
}

// storeFailure converts a store (or decode) error into an AppError and logs it.
func storeFailure(logger *slog.Logger, msg string, err error, attrs ...any) error {
	code := store.CodeOf(err)
	logger.Error(msg, append(attrs,
		slog.String("code", string(code)),
		slog.String("error", err.Error()),
	)...)
	return apperror.StoreFailure(string(code), code.Retryable(), err)
}
