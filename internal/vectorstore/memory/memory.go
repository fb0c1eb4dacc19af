// ABOUTME: In-memory vector store with cosine similarity ranking
// ABOUTME: Backs tests and local experiments; same contract as the Postgres store
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/harper/askdoc/internal/models"
	"github.com/harper/askdoc/internal/vectorstore"
)

// Store keeps records in a slice guarded by a mutex. Ranking is exact
// cosine similarity, ties kept in insertion order.
type Store struct {
	dimension int

	mu      sync.RWMutex
	ready   bool
	records []models.Record
}

// New creates an empty in-memory store for vectors of the given dimension.
func New(dimension int) *Store {
	return &Store{dimension: dimension}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	return nil
}

func (s *Store) AddRecords(ctx context.Context, records []models.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return 0, fmt.Errorf("%w: schema not initialized", vectorstore.ErrStorage)
	}
	written := 0
	for _, rec := range records {
		if len(rec.Embedding) != s.dimension {
			return written, fmt.Errorf("%w: record %s has embedding dimension %d, expected %d",
				vectorstore.ErrStorage, rec.ID, len(rec.Embedding), s.dimension)
		}
		s.records = append(s.records, rec)
		written++
	}
	return written, nil
}

func (s *Store) SimilaritySearch(ctx context.Context, vector []float32, k int, filter map[string]any) ([]models.Scored, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector dimension %d, expected %d",
			vectorstore.ErrStorage, len(vector), s.dimension)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []models.Scored
	for _, rec := range s.records {
		if !metadataContains(rec.Metadata, filter) {
			continue
		}
		results = append(results, models.Scored{
			Content:    rec.Content,
			Similarity: cosineSimilarity(vector, rec.Embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Len reports how many records the store holds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func metadataContains(metadata, filter map[string]any) bool {
	for key, want := range filter {
		got, ok := metadata[key]
		if !ok || got != want {
			return false
		}
	}
	return true
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
