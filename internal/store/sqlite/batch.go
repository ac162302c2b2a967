package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sakif/snippet-social/internal/store"
)

// update is one queued batch write.
type update struct {
	path   string
	fields map[string]any
}

// Batch queues updates and applies them in a single transaction.
//
// ALL OR NOTHING:
// Commit runs every UPDATE inside one sql.Tx. If any statement fails, or any
// target document doesn't exist (zero rows affected), the transaction is
// rolled back and none of the queued changes become visible.
type Batch struct {
	db      *DB
	updates []update
}

var _ store.Batch = (*Batch)(nil)

// Batch starts a new atomic write.
func (db *DB) Batch() store.Batch {
	return &Batch{db: db}
}

// Update queues a merge of fields into the document at path.
func (b *Batch) Update(path string, fields map[string]any) {
	b.updates = append(b.updates, update{path: path, fields: fields})
}

// Commit applies the queued updates. An empty batch is a successful no-op.
func (b *Batch) Commit(ctx context.Context) (err error) {
	if len(b.updates) == 0 {
		return nil
	}

	// Validate everything before opening the transaction.
	type prepared struct {
		path, collection, id, patch string
	}
	stmts := make([]prepared, 0, len(b.updates))
	for _, u := range b.updates {
		collection, id, err := store.SplitPath(u.path)
		if err != nil {
			return err
		}
		patch, err := json.Marshal(u.fields)
		if err != nil {
			return &store.Error{Code: store.CodeInvalidArgument, Op: "commit", Path: u.path, Err: err}
		}
		stmts = append(stmts, prepared{path: u.path, collection: collection, id: id, patch: string(patch)})
	}

	ctx, cancel := b.db.bound(ctx)
	defer cancel()

	tx, err := b.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return classify("commit", "", err)
	}
	// Rollback after a successful Commit returns sql.ErrTxDone, which we ignore.
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, s := range stmts {
		result, execErr := tx.ExecContext(ctx,
			`UPDATE documents SET data = json_patch(data, ?) WHERE collection = ? AND id = ?`,
			s.patch, s.collection, s.id,
		)
		if execErr != nil {
			return classify("commit", s.path, execErr)
		}

		n, raErr := result.RowsAffected()
		if raErr != nil {
			return classify("commit", s.path, fmt.Errorf("checking rows affected: %w", raErr))
		}
		if n == 0 {
			return &store.Error{Code: store.CodeNotFound, Op: "commit", Path: s.path, Err: sql.ErrNoRows}
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("commit", "", err)
	}
	return nil
}
