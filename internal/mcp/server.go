package mcpserver

import (
	"fmt"
	"log"

	"gridedit/internal/service"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server is the MCP server for gridedit.
// It exposes the grid editor, grid reads, declared field types and the edit
// journal so agents can page through rows, then preview and apply changes.
type Server struct {
	mcp *server.MCPServer

	// Services (injected from app layer)
	editor  *service.EditorService
	schemas *service.SchemaService
	journal *service.JournalService
	query   *service.QueryService
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Editor  *service.EditorService
	Schemas *service.SchemaService
	Journal *service.JournalService
	Query   *service.QueryService
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		editor:  deps.Editor,
		schemas: deps.Schemas,
		journal: deps.Journal,
		query:   deps.Query,
	}

	s.mcp = server.NewMCPServer(
		"gridedit-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerEditorTools()
	s.registerSchemaTools()
	s.registerJournalTools()
	s.registerQueryTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	log.Println("[MCP] Starting stdio server...")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func boolPtr(v bool) *bool { return &v }
