package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/xid"

	"github.com/sakif/snippet-social/internal/store"
)

// fieldName restricts filter and ordering fields to plain top-level keys.
// Field names become JSON paths ("$.<field>"), bound as parameters, but the
// check keeps odd paths like "$.a[0]" or "$.." out of queries entirely.
var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Get returns the document at path.
func (db *DB) Get(ctx context.Context, path string) (store.Document, error) {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return store.Document{}, err
	}

	ctx, cancel := db.bound(ctx)
	defer cancel()

	var data string
	err = db.conn.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return store.Document{}, &store.Error{Code: store.CodeNotFound, Op: "get", Path: path, Err: err}
		}
		return store.Document{}, classify("get", path, err)
	}

	return store.Document{
		Collection: collection,
		ID:         id,
		Data:       json.RawMessage(data),
	}, nil
}

// Query runs a filtered, ordered, limited read.
//
// The generated SQL for a descending feed query resuming after a position
// looks like:
//
//	SELECT id, data, json_extract(data, '$.createdAt') FROM documents
//	WHERE collection = 'snippets'
//	  AND json_extract(data, '$.userHandle') = 'alice'
//	  AND (json_extract(data, '$.createdAt') < :v OR (json_extract(data, '$.createdAt') = :v AND id < :id))
//	ORDER BY json_extract(data, '$.createdAt') DESC, id DESC
//	LIMIT 3
//
// Every value, including the JSON paths, is a bound parameter. Only the
// direction keyword is spliced in, and it comes from a two-value enum.
func (db *DB) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	stmt, args, err := buildQuery(q)
	if err != nil {
		return nil, err
	}

	ctx, cancel := db.bound(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, classify("query", q.Collection, err)
	}
	defer rows.Close()

	capacity := q.Limit
	if capacity <= 0 {
		capacity = 16
	}
	docs := make([]store.Document, 0, capacity)

	for rows.Next() {
		var (
			id    string
			data  string
			value any
		)
		if err := rows.Scan(&id, &data, &value); err != nil {
			return nil, classify("query", q.Collection, fmt.Errorf("scanning document row: %w", err))
		}
		docs = append(docs, store.Document{
			Collection: q.Collection,
			ID:         id,
			Data:       json.RawMessage(data),
			Position:   &store.Position{Value: value, ID: id},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, classify("query", q.Collection, err)
	}

	return docs, nil
}

// buildQuery validates q and renders it to SQL plus arguments.
func buildQuery(q store.Query) (string, []any, error) {
	invalid := func(format string, a ...any) error {
		return &store.Error{Code: store.CodeInvalidArgument, Op: "query", Path: q.Collection,
			Err: fmt.Errorf(format, a...)}
	}

	if q.Collection == "" || strings.Contains(q.Collection, "/") {
		return "", nil, invalid("malformed collection %q", q.Collection)
	}
	if q.Limit < 0 {
		return "", nil, invalid("negative limit %d", q.Limit)
	}

	orderBy := q.OrderBy
	if orderBy == "" {
		orderBy = "createdAt"
	}
	if !fieldName.MatchString(orderBy) {
		return "", nil, invalid("invalid order field %q", orderBy)
	}

	dir, cmp := "ASC", ">"
	switch q.Direction {
	case store.Asc, "":
	case store.Desc:
		dir, cmp = "DESC", "<"
	default:
		return "", nil, invalid("invalid direction %q", q.Direction)
	}

	orderPath := "$." + orderBy

	var sb strings.Builder
	args := []any{orderPath, q.Collection}
	sb.WriteString(`SELECT id, data, json_extract(data, ?) FROM documents WHERE collection = ?`)

	for _, f := range q.Where {
		if !fieldName.MatchString(f.Field) {
			return "", nil, invalid("invalid filter field %q", f.Field)
		}
		sb.WriteString(` AND json_extract(data, ?) = ?`)
		args = append(args, "$."+f.Field, f.Value)
	}

	if p := q.StartAfter; p != nil {
		fmt.Fprintf(&sb, ` AND (json_extract(data, ?) %s ? OR (json_extract(data, ?) = ? AND id %s ?))`, cmp, cmp)
		args = append(args, orderPath, p.Value, orderPath, p.Value, p.ID)
	}

	fmt.Fprintf(&sb, ` ORDER BY json_extract(data, ?) %s, id %s`, dir, dir)
	args = append(args, orderPath)

	if q.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	return sb.String(), args, nil
}

// Set creates or replaces the document at path.
func (db *DB) Set(ctx context.Context, path string, data any) error {
	collection, id, err := store.SplitPath(path)
	if err != nil {
		return err
	}

	body, err := json.Marshal(data)
	if err != nil {
		return &store.Error{Code: store.CodeInvalidArgument, Op: "set", Path: path, Err: err}
	}

	ctx, cancel := db.bound(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
		collection, id, string(body),
	)
	if err != nil {
		return classify("set", path, err)
	}
	return nil
}

// Create stores data under a new xid and returns the id.
//
// xid ids start with a timestamp, so they sort roughly by creation time,
// which keeps the (createdAt, id) tie-break close to insertion order.
func (db *DB) Create(ctx context.Context, collection string, data any) (string, error) {
	id := xid.New().String()
	if err := db.Set(ctx, store.Path(collection, id), data); err != nil {
		return "", err
	}
	return id, nil
}
