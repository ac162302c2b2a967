package model

import (
	"github.com/sakif/snippet-social/internal/store"
)

// UserFromDocument decodes a users/<handle> document.
func UserFromDocument(doc store.Document) (User, error) {
	var u User
	if err := doc.DataTo(&u); err != nil {
		return User{}, err
	}
	if u.Handle == "" {
		u.Handle = doc.ID
	}
	return u, nil
}

// SnippetFromDocument decodes a snippets/<id> document. The id comes from
// the document path, never from the body.
func SnippetFromDocument(doc store.Document) (Snippet, error) {
	var s Snippet
	if err := doc.DataTo(&s); err != nil {
		return Snippet{}, err
	}
	s.SnippetID = doc.ID
	return s, nil
}

func LikeFromDocument(doc store.Document) (Like, error) {
	var l Like
	err := doc.DataTo(&l)
	return l, err
}

func PlayFromDocument(doc store.Document) (Play, error) {
	var p Play
	err := doc.DataTo(&p)
	return p, err
}

// NotificationFromDocument decodes a notifications/<id> document.
func NotificationFromDocument(doc store.Document) (Notification, error) {
	var n Notification
	if err := doc.DataTo(&n); err != nil {
		return Notification{}, err
	}
	n.NotificationID = doc.ID
	return n, nil
}

// Project decodes every document with fn. The result is never nil, so an
// empty list encodes as [] rather than null.
func Project[T any](docs []store.Document, fn func(store.Document) (T, error)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := fn(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
