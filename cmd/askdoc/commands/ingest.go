// ABOUTME: Ingest command runs the one-shot corpus load
// ABOUTME: Watchdog-bounded; any stage failure exits non-zero
package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/askdoc/internal/chunker"
	"github.com/harper/askdoc/internal/config"
	"github.com/harper/askdoc/internal/fetch"
	"github.com/harper/askdoc/internal/ingest"
	"github.com/harper/askdoc/internal/llm"
	"github.com/harper/askdoc/internal/vectorstore/postgres"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest",
		Short: "Fetch, chunk, embed, and store the source document",
		Long: `Fetch the configured source document, split it into overlapping
fragments, embed each fragment, and store the batch in Postgres.

The run is single-pass: any stage failure aborts it and the process exits
non-zero. Re-running ingests the document again and produces duplicate
records; drop the table first if that is not what you want.`,
		RunE: runIngest,
		Example: `  # Load the corpus configured in ASKDOC_SOURCE_URL
  askdoc ingest

  # With an env file
  askdoc ingest --quiet`,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys and DB credentials)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("ingest configuration: source=%s table=%s model=%s dimension=%d chunk=%d overlap=%d",
			cfg.SourceURL, cfg.TableName, cfg.EmbeddingModel, cfg.Dimension, cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if err := cfg.RequireIngest(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Safety net against a hung external call, not normal control flow.
	watchdog := newWatchdog(cfg.IngestTimeout)
	defer watchdog.Stop()

	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}
	client, err := llm.NewClient(cfg)
	if err != nil {
		return err
	}
	store, err := postgres.Open(ctx, cfg.DSN(), cfg.TableName, cfg.Dimension)
	if err != nil {
		return err
	}
	fetcher := fetch.NewHTTPFetcher(cfg.Timeout)

	pipeline := ingest.New(fetcher, splitter, client, store, cfg.SourceURL, quiet)
	return pipeline.Run(ctx)
}
