package mcpserver

import (
	"context"
	"fmt"

	"gridedit/internal/schemafile"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSchemaTools() {
	s.mcp.AddTool(mcp.NewTool("set_field_schema",
		mcp.WithDescription("Replace the declared field types of a collection. Types: string, number, boolean, array, date, object."),
		mcp.WithString("collection", mcp.Description("Collection name"), mcp.Required()),
		mcp.WithString("fields", mcp.Description("Fields as {path: type} or [{path, type}]; an empty list clears the declarations"), mcp.Required()),
	), s.handleSetFieldSchema)

	s.mcp.AddTool(mcp.NewTool("get_field_schema",
		mcp.WithDescription("Get the declared field types of a collection, or list collections with declarations when none is given"),
		mcp.WithString("collection", mcp.Description("Collection name (optional)")),
	), s.handleGetFieldSchema)
}

func (s *Server) handleSetFieldSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	collection, _ := args["collection"].(string)
	fieldsJSON, _ := args["fields"].(string)

	if collection == "" || fieldsJSON == "" {
		return nil, fmt.Errorf("collection and fields are required")
	}
	fields, err := schemafile.ParseFields([]byte(fieldsJSON))
	if err != nil {
		return nil, err
	}
	schema, err := s.schemas.SetFields(ctx, collection, fields)
	if err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Declared %d field(s) on %s", schema.Len(), collection)), nil
}

func (s *Server) handleGetFieldSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	collection := req.GetString("collection", "")
	if collection == "" {
		names, err := s.schemas.Collections()
		if err != nil {
			return nil, err
		}
		return jsonResult(map[string]any{"collections": names})
	}
	fields, err := s.schemas.Fields(collection)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{"collection": collection, "fields": fields})
}
