package metrics

import (
	"context"
	"time"

	"github.com/sakif/snippet-social/internal/store"
)

// InstrumentStore wraps client so every Get, Query and batch Commit is
// counted and timed. A nil m returns client unchanged.
func InstrumentStore(client store.Client, m *Metrics) store.Client {
	if m == nil {
		return client
	}
	return &instrumentedStore{next: client, metrics: m}
}

type instrumentedStore struct {
	next    store.Client
	metrics *Metrics
}

func (s *instrumentedStore) Get(ctx context.Context, path string) (store.Document, error) {
	start := time.Now()
	doc, err := s.next.Get(ctx, path)
	s.metrics.ObserveStore("get", err, time.Since(start))
	return doc, err
}

func (s *instrumentedStore) Query(ctx context.Context, q store.Query) ([]store.Document, error) {
	start := time.Now()
	docs, err := s.next.Query(ctx, q)
	s.metrics.ObserveStore("query", err, time.Since(start))
	return docs, err
}

func (s *instrumentedStore) Batch() store.Batch {
	return &instrumentedBatch{next: s.next.Batch(), metrics: s.metrics}
}

type instrumentedBatch struct {
	next    store.Batch
	metrics *Metrics
}

func (b *instrumentedBatch) Update(path string, fields map[string]any) {
	b.next.Update(path, fields)
}

func (b *instrumentedBatch) Commit(ctx context.Context) error {
	start := time.Now()
	err := b.next.Commit(ctx)
	b.metrics.ObserveStore("commit", err, time.Since(start))
	return err
}
