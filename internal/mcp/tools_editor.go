package mcpserver

import (
	"context"
	"fmt"

	"gridedit/internal/domain"
	"gridedit/internal/normalize"
	"gridedit/internal/schemafile"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerEditorTools() {
	s.mcp.AddTool(mcp.NewTool("normalize_row",
		mcp.WithDescription("Preview how a submitted grid row is typed and shaped, without writing anything. Returns the nested create document, its dotted fields, and the flat edit update map."),
		mcp.WithString("row", mcp.Description("Row as a JSON object {field: value, ...}; field names may be dotted paths"), mcp.Required()),
		mcp.WithString("collection", mcp.Description("Collection whose declared field types apply (optional)")),
		mcp.WithString("fields", mcp.Description("Declared field types overriding the collection's, as {path: type} or [{path, type}] (optional)")),
	), s.handleNormalizeRow)

	s.mcp.AddTool(mcp.NewTool("editor_submit",
		mcp.WithDescription("⚠️ Apply a grid editor request (create, edit or remove rows) to a collection. Failures are reported per row."),
		mcp.WithString("collection", mcp.Description("Target collection"), mcp.Required()),
		mcp.WithString("action", mcp.Description("Editor action"), mcp.Required(), mcp.Enum("create", "edit", "remove")),
		mcp.WithString("data", mcp.Description("Rows as JSON {rowKey: {field: value, ...}}; rowKey is the row id for edit/remove"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleEditorSubmit)
}

func (s *Server) handleNormalizeRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	rowJSON, _ := args["row"].(string)
	collection, _ := args["collection"].(string)
	fieldsJSON, _ := args["fields"].(string)

	row, err := parseObject("row", rowJSON)
	if err != nil {
		return nil, err
	}

	var n *normalize.Normalizer
	switch {
	case fieldsJSON != "":
		fields, err := schemafile.ParseFields([]byte(fieldsJSON))
		if err != nil {
			return nil, err
		}
		schema, err := normalize.NewSchema(fields...)
		if err != nil {
			return nil, err
		}
		n = normalize.New(schema)
	case collection != "":
		n, err = s.editor.Normalizer(collection)
		if err != nil {
			return nil, err
		}
	default:
		n = normalize.New(nil)
	}

	doc, dots := n.PreprocessForCreate(normalize.Row(row))
	updates := n.ProcessUpdatesForEdit(normalize.Row(row))
	return jsonResult(map[string]any{
		"document":  doc,
		"dotFields": dots,
		"updates":   updates,
	})
}

func (s *Server) handleEditorSubmit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	collection, _ := args["collection"].(string)
	action, _ := args["action"].(string)
	dataJSON, _ := args["data"].(string)

	if collection == "" || action == "" || dataJSON == "" {
		return nil, fmt.Errorf("collection, action and data are required")
	}
	rows, err := parseRows(dataJSON)
	if err != nil {
		return nil, err
	}

	resp, err := s.editor.Process(ctx, collection, domain.EditorRequest{
		Action: domain.EditorAction(action),
		Data:   rows,
	})
	if err != nil {
		return nil, err
	}
	return jsonResult(resp)
}
