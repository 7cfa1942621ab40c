package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gridedit/internal/config"
	mcpserver "gridedit/internal/mcp"
	"gridedit/internal/service"
)

// ServeMCP runs the editor as a standalone MCP server on stdin/stdout.
// It loads configuration, opens the stores, and serves until interrupted.
func ServeMCP(envFiles ...string) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(envFiles...)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	a, err := New(ctx, cfg, service.LogEmitter{})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()

	mcpSrv := mcpserver.New(mcpserver.Deps{
		Editor:  a.Editor,
		Schemas: a.Schemas,
		Journal: a.Journal,
		Query:   a.Query,
	})

	log.Println("[MCP] Starting standalone stdio server...")
	if err := mcpSrv.ServeStdio(); err != nil {
		log.Printf("MCP server error: %v", err)
	}
}
