package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippet-social/internal/apperror"
	"github.com/sakif/snippet-social/internal/auth"
	"github.com/sakif/snippet-social/internal/model"
)

// ProfileReader is the slice of service.ProfileService the handler needs.
type ProfileReader interface {
	GetUserProfile(ctx context.Context, handle string, pageSize int) (*model.UserProfile, error)
	GetProfileSummary(ctx context.Context, handle string) (*model.ProfileSummary, error)
	GetAuthenticatedProfile(ctx context.Context, callerHandle string) (*model.AuthenticatedProfile, error)
}

// FeedReader is the slice of service.FeedService the handler needs.
type FeedReader interface {
	NextPage(ctx context.Context, handle, cursor string, pageSize int) (*model.FeedPage, error)
}

// ProfileHandler serves the public profile, feed and /me routes.
type ProfileHandler struct {
	profiles ProfileReader
	feed     FeedReader
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles ProfileReader, feed FeedReader, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, feed: feed, logger: logger}
}

// HandleGetUser returns a user's profile with the first page of their feed.
//
// HTTP: GET /users/{handle}
func (h *ProfileHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetUserProfile(r.Context(), chi.URLParam(r, "handle"), 0)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}

// HandleNextSnippets returns the page after ?cursor=.
//
// HTTP: GET /users/{handle}/snippets?cursor=<nextCursor>
func (h *ProfileHandler) HandleNextSnippets(w http.ResponseWriter, r *http.Request) {
	page, err := h.feed.NextPage(r.Context(), chi.URLParam(r, "handle"), r.URL.Query().Get("cursor"), 0)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, page)
}

// HandleSummary returns a user's profile with only their newest snippet.
//
// HTTP: GET /users/{handle}/summary
func (h *ProfileHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.profiles.GetProfileSummary(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, summary)
}

// HandleMe returns the caller's credentials, likes, plays and notifications.
//
// HTTP: GET /me (behind auth.RequireAuth)
func (h *ProfileHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	handle, ok := auth.HandleFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, apperror.Unauthorized("Unauthorized"))
		return
	}

	profile, err := h.profiles.GetAuthenticatedProfile(r.Context(), handle)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, profile)
}
