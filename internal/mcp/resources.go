package mcpserver

import (
	"context"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
)

const schemaURIPrefix = "gridedit://schema/"

func (s *Server) registerResources() {
	// ── gridedit://collections ─────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		"gridedit://collections",
		"Collections with declared fields",
		mcp.WithMIMEType("application/json"),
	), s.handleCollectionsResource)

	// ── gridedit://schema/{collection} ─────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			schemaURIPrefix+"{collection}",
			"Declared field types of a collection",
		),
		s.handleSchemaResource,
	)
}

func (s *Server) handleCollectionsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	names, err := s.schemas.Collections()
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return jsonResource(req.Params.URI, names)
}

func (s *Server) handleSchemaResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	collection := collectionFromURI(uri)
	if collection == "" {
		return nil, fmt.Errorf("could not extract collection from URI: %s", uri)
	}
	fields, err := s.schemas.Fields(collection)
	if err != nil {
		return nil, err
	}
	return jsonResource(uri, fields)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// collectionFromURI extracts the collection from "gridedit://schema/{name}".
func collectionFromURI(uri string) string {
	name, ok := strings.CutPrefix(uri, schemaURIPrefix)
	if !ok || strings.Contains(name, "/") {
		return ""
	}
	return name
}
