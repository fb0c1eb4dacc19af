// ABOUTME: Retriever embeds a question and asks the store for similar fragments
// ABOUTME: Results come back in non-increasing similarity order
package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/harper/askdoc/internal/models"
	"github.com/harper/askdoc/internal/vectorstore"
)

// ErrRetrieval wraps failures while searching the vector store.
var ErrRetrieval = errors.New("retrieval failed")

// DefaultTopK is how many fragments ground an answer when not configured.
const DefaultTopK = 4

// Embedder maps text to its embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Retriever finds the stored fragments most similar to a question.
type Retriever struct {
	embedder Embedder
	store    vectorstore.Store
	topK     int
}

// NewRetriever creates a Retriever returning up to topK fragments per query.
func NewRetriever(embedder Embedder, store vectorstore.Store, topK int) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve embeds the question and returns the closest fragments. An empty
// result is not an error; callers decide how to handle it.
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]models.Scored, error) {
	vec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding question: %v", ErrRetrieval, err)
	}
	results, err := r.store.SimilaritySearch(ctx, vec, r.topK, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	return results, nil
}
