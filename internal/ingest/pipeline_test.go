// ABOUTME: Tests for the ingestion pipeline stage ordering and failure handling
// ABOUTME: Forces failures at each stage and asserts the store is released once
package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/harper/askdoc/internal/chunker"
	"github.com/harper/askdoc/internal/models"
	"github.com/harper/askdoc/internal/vectorstore/memory"
)

type fakeFetcher struct {
	doc models.Document
	err error
}

func (f *fakeFetcher) Fetch(ctx context.Context, uri string) (models.Document, error) {
	if f.err != nil {
		return models.Document{}, f.err
	}
	doc := f.doc
	doc.URI = uri
	return doc, nil
}

type fakeEmbedder struct {
	err   error
	calls int
}

// Embed returns a unit vector keyed on text length so rankings stay
// deterministic without a live API.
func (e *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	v := []float32{float32(len(text)), 1, 0}
	return v, nil
}

// countingStore wraps the in-memory store to observe Close calls and force
// stage failures.
type countingStore struct {
	*memory.Store
	closeCalls int
	pingErr    error
	schemaErr  error
	addErr     error
}

func (c *countingStore) Ping(ctx context.Context) error {
	if c.pingErr != nil {
		return c.pingErr
	}
	return c.Store.Ping(ctx)
}

func (c *countingStore) EnsureSchema(ctx context.Context) error {
	if c.schemaErr != nil {
		return c.schemaErr
	}
	return c.Store.EnsureSchema(ctx)
}

func (c *countingStore) AddRecords(ctx context.Context, records []models.Record) (int, error) {
	if c.addErr != nil {
		return 0, c.addErr
	}
	return c.Store.AddRecords(ctx, records)
}

func (c *countingStore) Close() error {
	c.closeCalls++
	return c.Store.Close()
}

func newPipeline(t *testing.T, fetcher *fakeFetcher, embedder *fakeEmbedder, store *countingStore) *Pipeline {
	t.Helper()
	splitter, err := chunker.New(40, 8)
	if err != nil {
		t.Fatalf("chunker.New: %v", err)
	}
	return New(fetcher, splitter, embedder, store, "http://example.test/corpus.txt", true)
}

func TestRun_StoresEveryFragment(t *testing.T) {
	fetcher := &fakeFetcher{doc: models.Document{
		Text: "First paragraph of the corpus.\n\nSecond paragraph with more words in it.",
	}}
	embedder := &fakeEmbedder{}
	store := &countingStore{Store: memory.New(3)}

	if err := newPipeline(t, fetcher, embedder, store).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if store.Len() == 0 {
		t.Error("expected records in the store after a successful run")
	}
	if store.Len() != embedder.calls {
		t.Errorf("stored %d records but embedded %d fragments", store.Len(), embedder.calls)
	}
	if store.closeCalls != 1 {
		t.Errorf("store closed %d times, want exactly 1", store.closeCalls)
	}
}

func TestRun_ReleasesStoreOnEachStageFailure(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name  string
		setup func(f *fakeFetcher, e *fakeEmbedder, s *countingStore)
		stage string
	}{
		{"ping failure", func(f *fakeFetcher, e *fakeEmbedder, s *countingStore) { s.pingErr = boom }, "storage not reachable"},
		{"fetch failure", func(f *fakeFetcher, e *fakeEmbedder, s *countingStore) { f.err = boom }, "fetch stage"},
		{"empty document", func(f *fakeFetcher, e *fakeEmbedder, s *countingStore) { f.doc.Text = "" }, "chunk stage"},
		{"embed failure", func(f *fakeFetcher, e *fakeEmbedder, s *countingStore) { e.err = boom }, "embed stage"},
		{"schema failure", func(f *fakeFetcher, e *fakeEmbedder, s *countingStore) { s.schemaErr = boom }, "store stage"},
		{"write failure", func(f *fakeFetcher, e *fakeEmbedder, s *countingStore) { s.addErr = boom }, "store stage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{doc: models.Document{Text: "Some corpus text. More corpus text here."}}
			embedder := &fakeEmbedder{}
			store := &countingStore{Store: memory.New(3)}
			tt.setup(fetcher, embedder, store)

			err := newPipeline(t, fetcher, embedder, store).Run(context.Background())
			if err == nil {
				t.Fatal("expected the run to fail")
			}
			if !strings.Contains(err.Error(), tt.stage) {
				t.Errorf("error %q should identify stage %q", err, tt.stage)
			}
			if store.closeCalls != 1 {
				t.Errorf("store closed %d times, want exactly 1", store.closeCalls)
			}
		})
	}
}

func TestRun_RecordsCarrySourceMetadata(t *testing.T) {
	fetcher := &fakeFetcher{doc: models.Document{Text: "Short corpus."}}
	embedder := &fakeEmbedder{}
	store := &countingStore{Store: memory.New(3)}

	if err := newPipeline(t, fetcher, embedder, store).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	results, err := store.SimilaritySearch(context.Background(), []float32{1, 0, 0}, 10,
		map[string]any{"source": "http://example.test/corpus.txt"})
	if err != nil {
		t.Fatalf("SimilaritySearch: %v", err)
	}
	if len(results) == 0 {
		t.Error("expected records tagged with the source URI")
	}
}
