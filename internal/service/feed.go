package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-social/internal/model"
	"github.com/sakif/snippet-social/internal/store"
)

// FeedService pages through a user's snippets, newest first.
type FeedService struct {
	store    store.Client
	logger   *slog.Logger
	pageSize int
}

// NewFeedService creates a FeedService. pageSize <= 0 uses DefaultPageSize.
func NewFeedService(client store.Client, pageSize int, logger *slog.Logger) *FeedService {
	return &FeedService{
		store:    client,
		logger:   logger,
		pageSize: pageSizeOr(pageSize, DefaultPageSize),
	}
}

// NextPage returns the page that follows cursor in handle's feed.
//
// cursor must be a NextCursor returned by this service or by
// ProfileService.GetUserProfile; anything else is a BadRequest. Pages never
// overlap, and the page that comes back short carries no NextCursor.
//
// The user record is not re-read: an unknown handle is just an empty feed.
func (s *FeedService) NextPage(ctx context.Context, handle, cursor string, pageSize int) (*model.FeedPage, error) {
	pageSize = pageSizeOr(pageSize, s.pageSize)
	handle = strings.TrimSpace(handle)

	after, err := DecodeCursor(cursor)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, snippetFeedQuery(handle, store.Desc, pageSize, after))
	if err != nil {
		return nil, storeFailure(s.logger, "failed to load feed page", err, slog.String("handle", handle))
	}

	items, next, err := buildPage(docs, pageSize)
	if err != nil {
		return nil, storeFailure(s.logger, "failed to decode feed page", err, slog.String("handle", handle))
	}

	return &model.FeedPage{Items: items, NextCursor: next}, nil
}
