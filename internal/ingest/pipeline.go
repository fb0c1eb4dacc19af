// ABOUTME: One-shot ingestion pipeline: fetch, chunk, embed, store
// ABOUTME: Every stage failure is fatal for the run; the store is always released
package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/harper/askdoc/internal/chunker"
	"github.com/harper/askdoc/internal/models"
	"github.com/harper/askdoc/internal/vectorstore"
)

// Fetcher retrieves the raw source document.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) (models.Document, error)
}

// Embedder maps text to its embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Pipeline loads one source document into the vector store. A Pipeline is
// good for a single Run; it is not resumable and does not retry.
type Pipeline struct {
	fetcher  Fetcher
	splitter *chunker.Splitter
	embedder Embedder
	store    vectorstore.Store
	source   string
	quiet    bool
}

// New assembles a pipeline. The store is owned by the pipeline from here on:
// Run releases it on every exit path.
func New(fetcher Fetcher, splitter *chunker.Splitter, embedder Embedder, store vectorstore.Store, source string, quiet bool) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		splitter: splitter,
		embedder: embedder,
		store:    store,
		source:   source,
		quiet:    quiet,
	}
}

// Run executes fetch → chunk → embed → store. The first stage error aborts
// the run and is returned to the caller as fatal.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	defer func() {
		if cerr := p.store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing store: %w", cerr)
		}
	}()

	// Verify the connection before doing any expensive work.
	if err := p.store.Ping(ctx); err != nil {
		return fmt.Errorf("storage not reachable: %w", err)
	}

	p.logf("fetching %s", p.source)
	doc, err := p.fetcher.Fetch(ctx, p.source)
	if err != nil {
		return fmt.Errorf("fetch stage: %w", err)
	}

	fragments, err := p.splitter.Split(doc.Text)
	if err != nil {
		return fmt.Errorf("chunk stage: %w", err)
	}
	if len(fragments) == 0 {
		return fmt.Errorf("chunk stage: document at %s produced no fragments", p.source)
	}
	p.logf("split %d characters into %d fragments", len(doc.Text), len(fragments))

	records := make([]models.Record, 0, len(fragments))
	for _, frag := range fragments {
		vec, err := p.embedder.Embed(ctx, frag.Content)
		if err != nil {
			return fmt.Errorf("embed stage: fragment %d: %w", frag.Index, err)
		}
		records = append(records, models.Record{
			ID:      uuid.New().String(),
			Content: frag.Content,
			Metadata: map[string]any{
				"source": doc.URI,
				"index":  frag.Index,
			},
			Embedding: vec,
		})
	}

	if err := p.store.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("store stage: %w", err)
	}
	written, err := p.store.AddRecords(ctx, records)
	if err != nil {
		return fmt.Errorf("store stage: wrote %d of %d records: %w", written, len(records), err)
	}

	p.logf("ingestion complete: %d records stored", written)
	return nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if !p.quiet {
		log.Printf(format, args...)
	}
}
