package service

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/sakif/snippet-social/internal/apperror"
	"github.com/sakif/snippet-social/internal/model"
	"github.com/sakif/snippet-social/internal/store"
)

// cursorToken is the decoded form of a feed continuation cursor.
//
// createdAt alone is not enough to resume: two snippets posted in the same
// millisecond would be skipped or repeated. The snippet id rides along and
// the store orders by (createdAt, id), so every position is unique.
type cursorToken struct {
	CreatedAt string `json:"createdAt"`
	SnippetID string `json:"snippetId"`
}

// EncodeCursor returns the opaque cursor that resumes a feed after s.
func EncodeCursor(s model.Snippet) string {
	b, _ := json.Marshal(cursorToken{CreatedAt: s.CreatedAt, SnippetID: s.SnippetID})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor parses a cursor produced by EncodeCursor. Anything else is a
// BadRequest.
func DecodeCursor(raw string) (*store.Position, error) {
	invalid := apperror.BadRequest("cursor", "Invalid cursor")

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperror.BadRequest("cursor", "Must not be empty")
	}

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, invalid
	}

	var tok cursorToken
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, invalid
	}
	if tok.SnippetID == "" {
		return nil, invalid
	}
	// The store compares createdAt as text, so only the exact stored layout
	// orders correctly. Equivalent instants in other RFC3339 forms are rejected.
	parsed, err := time.Parse(model.TimeLayout, tok.CreatedAt)
	if err != nil || model.FormatTime(parsed) != tok.CreatedAt {
		return nil, invalid
	}

	return &store.Position{Value: tok.CreatedAt, ID: tok.SnippetID}, nil
}

// buildPage projects docs into snippets and derives the next cursor. The
// cursor is empty when the page came back short, i.e. the feed is exhausted.
func buildPage(docs []store.Document, pageSize int) ([]model.Snippet, string, error) {
	items, err := model.Project(docs, model.SnippetFromDocument)
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(items) == pageSize && pageSize > 0 {
		next = EncodeCursor(items[len(items)-1])
	}
	return items, next, nil
}
