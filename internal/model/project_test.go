package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sakif/snippet-social/internal/store"
)

func TestSnippetFromDocument_AllowList(t *testing.T) {
	doc := store.Document{
		Collection: "snippets",
		ID:         "s1",
		Data: json.RawMessage(`{
			"userHandle": "alice",
			"body": "night loop",
			"audio": "https://cdn.example.com/a.mp3",
			"genre": "ambient",
			"createdAt": "2024-01-01T12:00:00.000Z",
			"playCount": 7,
			"likeCount": 2,
			"commentCount": 1,
			"userImage": "https://cdn.example.com/alice.png",
			"snippetId": "stale",
			"internalScore": 99
		}`),
	}

	s, err := SnippetFromDocument(doc)
	if err != nil {
		t.Fatalf("SnippetFromDocument() error = %v", err)
	}
	if s.SnippetID != "s1" {
		t.Errorf("SnippetID = %q, want id from path %q", s.SnippetID, "s1")
	}
	if s.PlayCount != 7 || s.LikeCount != 2 || s.CommentCount != 1 {
		t.Errorf("counters = %d/%d/%d, want 7/2/1", s.PlayCount, s.LikeCount, s.CommentCount)
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(out, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if _, ok := fields["internalScore"]; ok {
		t.Error("projected snippet leaked a field outside the allow-list")
	}
}

func TestNotificationFromDocument(t *testing.T) {
	doc := store.Document{
		Collection: "notifications",
		ID:         "n1",
		Data:       json.RawMessage(`{"recipient":"alice","sender":"bob","type":"like","read":false}`),
	}

	n, err := NotificationFromDocument(doc)
	if err != nil {
		t.Fatalf("NotificationFromDocument() error = %v", err)
	}
	if n.NotificationID != "n1" || n.Sender != "bob" {
		t.Errorf("got %+v", n)
	}
}

func TestUserFromDocument_HandleFallsBackToID(t *testing.T) {
	doc := store.Document{Collection: "users", ID: "alice", Data: json.RawMessage(`{"email":"a@example.com"}`)}

	u, err := UserFromDocument(doc)
	if err != nil {
		t.Fatalf("UserFromDocument() error = %v", err)
	}
	if u.Handle != "alice" {
		t.Errorf("Handle = %q, want %q", u.Handle, "alice")
	}
}

func TestProject_EmptyIsNotNil(t *testing.T) {
	got, err := Project(nil, LikeFromDocument)
	if err != nil {
		t.Fatalf("Project() error = %v", err)
	}
	if got == nil {
		t.Error("Project(nil) = nil, want empty slice")
	}
}

func TestProject_DecodeError(t *testing.T) {
	docs := []store.Document{{Collection: "likes", ID: "l1", Data: json.RawMessage(`{not json`)}}

	if _, err := Project(docs, LikeFromDocument); err == nil {
		t.Error("Project() should fail on undecodable document")
	}
}

func TestFormatTime_FixedWidth(t *testing.T) {
	whole := FormatTime(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	frac := FormatTime(time.Date(2024, 1, 1, 12, 0, 0, 500_000_000, time.FixedZone("X", 3600)))

	if whole != "2024-01-01T12:00:00.000Z" {
		t.Errorf("FormatTime(whole) = %q", whole)
	}
	if frac != "2024-01-01T11:00:00.500Z" {
		t.Errorf("FormatTime(frac) = %q", frac)
	}
	if len(whole) != len(frac) {
		t.Error("FormatTime output is not fixed width")
	}
}
