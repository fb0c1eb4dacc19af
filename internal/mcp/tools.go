// ABOUTME: MCP tool definition and registration for the askdoc server
// ABOUTME: Exposes the query service as a single "ask" tool over stdio
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// answerer is the query-service entry point the tool wraps.
type answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// RegisterTools registers the ask tool with the server.
func RegisterTools(server *mcpserver.MCPServer, svc answerer) {
	handlers := &Handlers{svc: svc}

	server.AddTool(mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the ingested document corpus. Returns a grounded answer or a notice that the corpus holds no relevant information.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "The question to answer from the corpus",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.Ask)
}
