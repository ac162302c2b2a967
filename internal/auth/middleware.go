package auth

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is unexported so no other package can read or overwrite the
// caller handle stored in a request context.
type contextKey string

const handleKey contextKey = "handle"

// DenyFunc writes the response for a request without a valid token.
type DenyFunc func(w http.ResponseWriter, r *http.Request, err error)

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's handle in the context of those that have one.
//
// The token is read from "Authorization: Bearer <jwt>". deny writes the
// rejection; the handler package passes one that renders a 403.
func RequireAuth(tokens *TokenService, deny DenyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handle, err := extractHandle(r, tokens)
			if err != nil {
				deny(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithHandle(r.Context(), handle)))
		})
	}
}

// WithHandle returns a copy of ctx carrying the caller handle.
func WithHandle(ctx context.Context, handle string) context.Context {
	return context.WithValue(ctx, handleKey, handle)
}

// HandleFromContext returns the authenticated caller's handle.
// Returns ("", false) for anonymous requests.
func HandleFromContext(ctx context.Context) (string, bool) {
	handle, ok := ctx.Value(handleKey).(string)
	return handle, ok && handle != ""
}

// errNoToken is returned when the request carries no bearer token.
type errNoToken struct{}

func (errNoToken) Error() string { return "auth: no bearer token" }

func extractHandle(r *http.Request, tokens *TokenService) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errNoToken{}
	}
	return tokens.Validate(strings.TrimSpace(token))
}
