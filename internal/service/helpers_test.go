package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/sakif/snippet-social/internal/model"
	"github.com/sakif/snippet-social/internal/store"
	"github.com/sakif/snippet-social/internal/store/sqlite"
)

// =========================================================================
// TEST STORE
// =========================================================================
//
// Services are tested against a real in-memory SQLite store. failingStore
// wraps it to inject backend errors into chosen calls.

func newTestStore(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.New(sqlite.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// at returns the createdAt string i minutes after baseTime.
func at(i int) string {
	return model.FormatTime(baseTime.Add(time.Duration(i) * time.Minute))
}

func seedUser(t *testing.T, db *sqlite.DB, handle string) {
	t.Helper()
	err := db.Set(context.Background(), store.Path(UsersCollection, handle), model.User{
		Handle:    handle,
		Email:     handle + "@example.com",
		CreatedAt: at(0),
		ImageURL:  "https://storage.example.com/o/no-img.png?alt=media",
	})
	if err != nil {
		t.Fatalf("seeding user %s: %v", handle, err)
	}
}

// seedSnippets stores n snippets for handle at times at(1)..at(n) and
// returns their ids oldest first. The id encodes the minute, e.g. alice-t03.
func seedSnippets(t *testing.T, db *sqlite.DB, handle string, n int) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("%s-t%02d", handle, i)
		err := db.Set(context.Background(), store.Path(SnippetsCollection, id), model.Snippet{
			UserHandle: handle,
			Body:       fmt.Sprintf("take %d", i),
			Audio:      fmt.Sprintf("https://storage.example.com/o/%s.mp3", id),
			Genre:      "lofi",
			CreatedAt:  at(i),
			PlayCount:  int64(i * 10),
			LikeCount:  int64(i),
		})
		if err != nil {
			t.Fatalf("seeding snippet %s: %v", id, err)
		}
		ids = append(ids, id)
	}
	return ids
}

func snippetIDs(items []model.Snippet) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = s.SnippetID
	}
	return out
}

// failingStore delegates to a real store but fails selected operations.
type failingStore struct {
	store.Client

	mu          sync.Mutex
	failGet     bool
	failQueryOn map[string]bool // collection → fail
	failCommit  bool
	err         error
	queries     []string
}

var errBackend = &store.Error{Code: store.CodeUnavailable, Op: "test", Err: errors.New("backend down")}

func newFailingStore(inner store.Client) *failingStore {
	return &failingStore{Client: inner, failQueryOn: map[string]bool{}, err: errBackend}
}

func (f *failingStore) Get(ctx context.Context, path string) (store.Document, error) {
	if f.failGet {
		return store.Document{}, f.err
	}
	return f.Client.Get(ctx, path)
}

func (f *failingStore) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q.Collection)
	fail := f.failQueryOn[q.Collection]
	f.mu.Unlock()

	if fail {
		return nil, f.err
	}
	return f.Client.Query(ctx, q)
}

func (f *failingStore) Batch() store.Batch {
	return &failingBatch{Batch: f.Client.Batch(), fail: f.failCommit, err: f.err}
}

type failingBatch struct {
	store.Batch
	fail bool
	err  error
}

func (b *failingBatch) Commit(ctx context.Context) error {
	if b.fail {
		return b.err
	}
	return b.Batch.Commit(ctx)
}
