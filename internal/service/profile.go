package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/snippet-social/internal/apperror"
	"github.com/sakif/snippet-social/internal/model"
	"github.com/sakif/snippet-social/internal/store"
)

// ProfileConfig tunes ProfileService. Zero values fall back to the defaults.
type ProfileConfig struct {
	PageSize          int
	NotificationLimit int
}

// ProfileService builds public and authenticated profile views.
type ProfileService struct {
	store             store.Client
	logger            *slog.Logger
	pageSize          int
	notificationLimit int
}

// NewProfileService creates a ProfileService reading from client.
func NewProfileService(client store.Client, cfg ProfileConfig, logger *slog.Logger) *ProfileService {
	limit := cfg.NotificationLimit
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &ProfileService{
		store:             client,
		logger:            logger,
		pageSize:          pageSizeOr(cfg.PageSize, DefaultPageSize),
		notificationLimit: limit,
	}
}

// GetUserProfile returns the user, the newest page of their feed, and their
// oldest snippet. pageSize <= 0 uses the configured page size.
//
// The two feed queries run concurrently once the user is known to exist.
func (s *ProfileService) GetUserProfile(ctx context.Context, handle string, pageSize int) (*model.UserProfile, error) {
	pageSize = pageSizeOr(pageSize, s.pageSize)

	user, err := s.loadUser(ctx, handle)
	if err != nil {
		return nil, err
	}

	var feed struct {
		earliest []store.Document
		recent   []store.Document
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.store.Query(gctx, snippetFeedQuery(user.Handle, store.Asc, 1, nil))
		if err != nil {
			return fmt.Errorf("earliest snippet: %w", err)
		}
		feed.earliest = docs
		return nil
	})
	g.Go(func() error {
		docs, err := s.store.Query(gctx, snippetFeedQuery(user.Handle, store.Desc, pageSize, nil))
		if err != nil {
			return fmt.Errorf("recent snippets: %w", err)
		}
		feed.recent = docs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, storeFailure(s.logger, "failed to load user feed", err, slog.String("handle", user.Handle))
	}

	recent, next, err := buildPage(feed.recent, pageSize)
	if err != nil {
		return nil, storeFailure(s.logger, "failed to decode user feed", err, slog.String("handle", user.Handle))
	}

	earliest, err := firstSnippet(feed.earliest)
	if err != nil {
		return nil, storeFailure(s.logger, "failed to decode earliest snippet", err, slog.String("handle", user.Handle))
	}

	return &model.UserProfile{
		User:            user,
		RecentSnippets:  recent,
		EarliestSnippet: earliest,
		NextCursor:      next,
	}, nil
}

// GetProfileSummary returns the user and only their newest snippet.
func (s *ProfileService) GetProfileSummary(ctx context.Context, handle string) (*model.ProfileSummary, error) {
	user, err := s.loadUser(ctx, handle)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Query(ctx, snippetFeedQuery(user.Handle, store.Desc, 1, nil))
	if err != nil {
		return nil, storeFailure(s.logger, "failed to load latest snippet", err, slog.String("handle", user.Handle))
	}

	latest, err := firstSnippet(docs)
	if err != nil {
		return nil, storeFailure(s.logger, "failed to decode latest snippet", err, slog.String("handle", user.Handle))
	}

	return &model.ProfileSummary{User: user, LatestSnippet: latest}, nil
}

// GetAuthenticatedProfile returns the caller's own record with their likes,
// plays, and most recent notifications.
//
// The caller was already authenticated upstream, so a missing user record
// means identity and store disagree. That is reported as Internal, not
// NotFound.
//
// The three activity reads are independent and run concurrently. They are
// not a consistent snapshot of one another.
func (s *ProfileService) GetAuthenticatedProfile(ctx context.Context, callerHandle string) (*model.AuthenticatedProfile, error) {
	callerHandle = strings.TrimSpace(callerHandle)
	if callerHandle == "" || strings.Contains(callerHandle, "/") {
		return nil, apperror.Internal("credentials", "Authenticated user has no handle")
	}

	doc, err := s.store.Get(ctx, store.Path(UsersCollection, callerHandle))
	if err != nil {
		if store.IsNotFound(err) {
			s.logger.Error("authenticated user has no profile", slog.String("handle", callerHandle))
			return nil, apperror.Internal("credentials", "Authenticated user has no profile")
		}
		return nil, storeFailure(s.logger, "failed to load caller", err, slog.String("handle", callerHandle))
	}
	credentials, err := model.UserFromDocument(doc)
	if err != nil {
		return nil, storeFailure(s.logger, "failed to decode caller", err, slog.String("handle", callerHandle))
	}

	var activity struct {
		likes         []store.Document
		plays         []store.Document
		notifications []store.Document
	}

	byCaller := []store.Filter{{Field: "userHandle", Value: callerHandle}}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		docs, err := s.store.Query(gctx, store.Query{Collection: LikesCollection, Where: byCaller})
		if err != nil {
			return fmt.Errorf("likes: %w", err)
		}
		activity.likes = docs
		return nil
	})
	g.Go(func() error {
		docs, err := s.store.Query(gctx, store.Query{Collection: PlaysCollection, Where: byCaller})
		if err != nil {
			return fmt.Errorf("plays: %w", err)
		}
		activity.plays = docs
		return nil
	})
	g.Go(func() error {
		docs, err := s.store.Query(gctx, store.Query{
			Collection: NotificationsCollection,
			Where:      []store.Filter{{Field: "recipient", Value: callerHandle}},
			OrderBy:    "createdAt",
			Direction:  store.Desc,
			Limit:      s.notificationLimit,
		})
		if err != nil {
			return fmt.Errorf("notifications: %w", err)
		}
		activity.notifications = docs
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, storeFailure(s.logger, "failed to load caller activity", err, slog.String("handle", callerHandle))
	}

	profile := &model.AuthenticatedProfile{Credentials: credentials}
	if profile.Likes, err = model.Project(activity.likes, model.LikeFromDocument); err != nil {
		return nil, storeFailure(s.logger, "failed to decode likes", err, slog.String("handle", callerHandle))
	}
	if profile.Plays, err = model.Project(activity.plays, model.PlayFromDocument); err != nil {
		return nil, storeFailure(s.logger, "failed to decode plays", err, slog.String("handle", callerHandle))
	}
	if profile.Notifications, err = model.Project(activity.notifications, model.NotificationFromDocument); err != nil {
		return nil, storeFailure(s.logger, "failed to decode notifications", err, slog.String("handle", callerHandle))
	}

	return profile, nil
}

// loadUser fetches users/<handle>, mapping absence to NotFound.
func (s *ProfileService) loadUser(ctx context.Context, handle string) (model.User, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" || strings.Contains(handle, "/") {
		return model.User{}, apperror.NotFound("handle", "User not found")
	}

	doc, err := s.store.Get(ctx, store.Path(UsersCollection, handle))
	if err != nil {
		if store.IsNotFound(err) {
			return model.User{}, apperror.NotFound("handle", "User not found")
		}
		return model.User{}, storeFailure(s.logger, "failed to load user", err, slog.String("handle", handle))
	}

	user, err := model.UserFromDocument(doc)
	if err != nil {
		return model.User{}, storeFailure(s.logger, "failed to decode user", err, slog.String("handle", handle))
	}
	return user, nil
}

// firstSnippet returns the first document as a snippet, or nil for none.
func firstSnippet(docs []store.Document) (*model.Snippet, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	s, err := model.SnippetFromDocument(docs[0])
	if err != nil {
		return nil, err
	}
	return &s, nil
}
