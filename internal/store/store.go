// Package store defines the document-store contract the core issues its
// reads and writes against.
//
// The contract is deliberately small: fetch one document by path, run a
// filtered/ordered/limited query that can resume after a known position, and
// commit several updates as one indivisible batch. Nothing above this package
// knows which database sits behind it; internal/store/sqlite is the
// implementation wired in production and in tests.
//
// PATHS:
// A path is "<collection>/<id>", e.g. "users/alice" or "notifications/cv37rs3pp9olc6atsptg".
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Direction is the sort order of a query.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Document is a single stored record.
//
// Data holds the raw JSON body. Use DataTo to decode it into a typed struct.
// Position is only set on documents returned by Query; it identifies where
// the document sits in that query's ordering and can be passed back as
// Query.StartAfter to resume.
type Document struct {
	Collection string
	ID         string
	Data       json.RawMessage
	Position   *Position
}

// Path returns the document's "<collection>/<id>" path.
func (d Document) Path() string {
	return Path(d.Collection, d.ID)
}

// DataTo decodes the document body into v.
func (d Document) DataTo(v any) error {
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("store: decoding %s: %w", d.Path(), err)
	}
	return nil
}

// Position is a point in a query's ordering: the value of the ordering field
// plus the document id, which breaks ties between equal values.
type Position struct {
	Value any
	ID    string
}

// Filter is an equality predicate on a top-level field.
type Filter struct {
	Field string
	Value any
}

// Query describes a filtered, ordered, limited read of one collection.
//
// Results are ordered by OrderBy and then by document id, both in Direction.
// A zero Limit means no limit. StartAfter, when set, excludes every document
// at or before that position.
type Query struct {
	Collection string
	Where      []Filter
	OrderBy    string
	Direction  Direction
	Limit      int
	StartAfter *Position
}

// Client is the read/query/batch contract consumed by the services.
type Client interface {
	// Get returns the document at path, or an *Error with CodeNotFound.
	Get(ctx context.Context, path string) (Document, error)

	// Query returns an ordered page of documents, each carrying its Position.
	Query(ctx context.Context, q Query) ([]Document, error)

	// Batch starts an atomic multi-document write.
	Batch() Batch
}

// Batch accumulates updates and applies them all or none.
type Batch interface {
	// Update merges fields into the document at path. The document must
	// already exist when the batch commits.
	Update(path string, fields map[string]any)

	// Commit applies every queued update in one transaction.
	Commit(ctx context.Context) error
}

// Writer creates documents. The core services never call it; it serves
// seeding and the external write paths.
type Writer interface {
	// Set creates or replaces the document at path.
	Set(ctx context.Context, path string, data any) error

	// Create stores data under a store-assigned id and returns that id.
	Create(ctx context.Context, collection string, data any) (string, error)
}

// Path joins a collection and id.
func Path(collection, id string) string {
	return collection + "/" + id
}

// SplitPath splits "<collection>/<id>".
func SplitPath(path string) (collection, id string, err error) {
	collection, id, ok := strings.Cut(path, "/")
	if !ok || collection == "" || id == "" || strings.Contains(id, "/") {
		return "", "", &Error{Code: CodeInvalidArgument, Op: "path", Path: path,
			Err: fmt.Errorf("malformed document path %q", path)}
	}
	return collection, id, nil
}
