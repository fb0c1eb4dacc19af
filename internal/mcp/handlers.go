// ABOUTME: MCP tool handler for the ask tool
// ABOUTME: Converts every core failure into a tool error result, never a crash
package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for the MCP tools.
type Handlers struct {
	svc answerer
}

// Ask handles the ask tool: one question in, one grounded answer out.
func (h *Handlers) Ask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	answer, err := h.svc.Answer(ctx, question)
	if err != nil {
		log.Printf("mcp ask failed: %v", err)
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %v", err)), nil
	}
	return mcp.NewToolResultText(answer), nil
}
