// ABOUTME: MCP command exposes the query service as a stdio tool server
// ABOUTME: Enables LLM agents to ask questions about the ingested corpus
package commands

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/harper/askdoc/internal/config"
	"github.com/harper/askdoc/internal/llm"
	askmcp "github.com/harper/askdoc/internal/mcp"
	"github.com/harper/askdoc/internal/rag"
	"github.com/harper/askdoc/internal/vectorstore/postgres"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start an MCP (Model Context Protocol) server over stdio exposing a
single "ask" tool. Agents get the same grounded answers the Telegram bot
gives, from the same ingested corpus.`,
		RunE: runMCP,
		Example: `  # Typically launched by an MCP client, e.g. from its config:
  # { "mcpServers": { "askdoc": { "command": "askdoc", "args": ["mcp"] } } }
  askdoc mcp`,
	}
}

func runMCP(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (for API keys and DB credentials)
	if err := godotenv.Load(); err != nil && !quiet {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if verbose {
		log.Printf("mcp configuration: table=%s chat_model=%s top_k=%d", cfg.TableName, cfg.ChatModel, cfg.TopK)
	}
	if err := cfg.RequireMCP(); err != nil {
		return err
	}

	ctx := context.Background()
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

	server := mcpserver.NewMCPServer("askdoc", versionInfo.Version)
	askmcp.RegisterTools(server, service)

	log.Println("askdoc MCP server starting on stdio...")
	return mcpserver.ServeStdio(server)
}
