// ABOUTME: Serve command runs the long-lived Telegram query service
// ABOUTME: Starts the bot loop and shuts down on SIGINT/SIGTERM
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/askdoc/internal/bot"
	"github.com/harper/askdoc/internal/config"
	"github.com/harper/askdoc/internal/llm"
	"github.com/harper/askdoc/internal/rag"
	"github.com/harper/askdoc/internal/vectorstore/postgres"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Telegram bot answering questions over the corpus",
		Long: `Start the long-running query service. Each inbound Telegram message
is answered independently: the question is embedded, the most similar stored
fragments are retrieved, and the model answers strictly from them.

Runs until interrupted. Per-message failures are logged and answered with a
generic apology; they never stop the service.`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys and DB credentials)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("serve configuration: table=%s chat_model=%s top_k=%d", cfg.TableName, cfg.ChatModel, cfg.TopK)
	}
	if err := cfg.RequireServe(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Unreachable storage is a fatal startup failure, checked before the
	// transport connects.
	store, err := postgres.Open(ctx, cfg.DSN(), cfg.TableName, cfg.Dimension)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("closing store: %v", err)
		}
	}()
	if err := store.Ping(ctx); err != nil {
		return err
	}

	client, err := llm.NewClient(cfg)
	if err != nil {
		return err
	}
	service := rag.NewService(rag.NewRetriever(client, store, cfg.TopK), client)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("connecting to Telegram: %w", err)
	}

	bot.New(api, service).Run(ctx)
	log.Println("shutdown complete")
	return nil
}
