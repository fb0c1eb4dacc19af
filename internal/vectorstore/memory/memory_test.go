// ABOUTME: Tests for the in-memory vector store
// ABOUTME: Verifies ranking order, self-similarity at rank 1, and metadata filtering
package memory

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/harper/askdoc/internal/models"
	"github.com/harper/askdoc/internal/vectorstore"
)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New(3)
	ctx := context.Background()
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	n, err := s.AddRecords(ctx, []models.Record{
		{ID: "a", Content: "X is a thing", Metadata: map[string]any{"source": "corpus"}, Embedding: []float32{1, 0, 0}},
		{ID: "b", Content: "Y is another", Metadata: map[string]any{"source": "corpus"}, Embedding: []float32{0, 1, 0}},
		{ID: "c", Content: "Z is elsewhere", Metadata: map[string]any{"source": "other"}, Embedding: []float32{0, 0, 1}},
	})
	if err != nil {
		t.Fatalf("AddRecords: %v", err)
	}
	if n != 3 {
		t.Fatalf("AddRecords wrote %d, want 3", n)
	}
	return s
}

func TestAddRecords_RequiresSchema(t *testing.T) {
	s := New(3)
	_, err := s.AddRecords(context.Background(), []models.Record{
		{ID: "a", Content: "x", Embedding: []float32{1, 0, 0}},
	})
	if !errors.Is(err, vectorstore.ErrStorage) {
		t.Errorf("expected ErrStorage before EnsureSchema, got %v", err)
	}
}

func TestSimilaritySearch_OwnEmbeddingRanksFirst(t *testing.T) {
	s := seeded(t)

	results, err := s.SimilaritySearch(context.Background(), []float32{1, 0, 0}, 3, nil)
	if err != nil {
		t.Fatalf("SimilaritySearch: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Content != "X is a thing" {
		t.Errorf("rank 1 = %q, want the record embedded with the query vector", results[0].Content)
	}
	if math.Abs(results[0].Similarity-1.0) > 1e-6 {
		t.Errorf("self similarity = %f, want ~1.0", results[0].Similarity)
	}
}

func TestSimilaritySearch_NonIncreasingOrder(t *testing.T) {
	s := seeded(t)

	results, err := s.SimilaritySearch(context.Background(), []float32{0.7, 0.7, 0.1}, 3, nil)
	if err != nil {
		t.Fatalf("SimilaritySearch: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Similarity > results[i-1].Similarity {
			t.Errorf("results out of order at %d: %f > %f", i, results[i].Similarity, results[i-1].Similarity)
		}
	}
}

func TestSimilaritySearch_RespectsK(t *testing.T) {
	s := seeded(t)

	results, err := s.SimilaritySearch(context.Background(), []float32{1, 0, 0}, 2, nil)
	if err != nil {
		t.Fatalf("SimilaritySearch: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2", len(results))
	}
}

func TestSimilaritySearch_MetadataFilter(t *testing.T) {
	s := seeded(t)

	results, err := s.SimilaritySearch(context.Background(), []float32{0, 0, 1}, 10,
		map[string]any{"source": "corpus"})
	if err != nil {
		t.Fatalf("SimilaritySearch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want only the 2 corpus records", len(results))
	}
	for _, r := range results {
		if r.Content == "Z is elsewhere" {
			t.Error("filter leaked a record from another source")
		}
	}
}

func TestSimilaritySearch_DimensionMismatch(t *testing.T) {
	s := seeded(t)

	_, err := s.SimilaritySearch(context.Background(), []float32{1, 0}, 3, nil)
	if !errors.Is(err, vectorstore.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}
