package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerJournalTools() {
	s.mcp.AddTool(mcp.NewTool("list_edit_journal",
		mcp.WithDescription("List applied editor changes for a collection, newest first"),
		mcp.WithString("collection", mcp.Description("Collection name"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of entries (default 50, 0 for all)")),
	), s.handleListEditJournal)
}

func (s *Server) handleListEditJournal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collection := req.GetString("collection", "")
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}
	if s.journal == nil {
		return nil, fmt.Errorf("edit journal is not enabled")
	}
	entries, err := s.journal.List(collection, req.GetInt("limit", 50))
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"collection": collection, "entries": entries})
}
