package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("declare_fields",
		mcp.WithPromptDescription("Guide through declaring field types for a collection from sample rows"),
		mcp.WithArgument("collection",
			mcp.ArgumentDescription("Collection to declare fields for"),
			mcp.RequiredArgument(),
		),
	), s.handleDeclareFieldsPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("bulk_edit",
		mcp.WithPromptDescription("Apply a described change to several rows with a preview first"),
		mcp.WithArgument("collection",
			mcp.ArgumentDescription("Collection to edit"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("change",
			mcp.ArgumentDescription("The change to make, in plain words"),
			mcp.RequiredArgument(),
		),
	), s.handleBulkEditPrompt)
}

func (s *Server) handleDeclareFieldsPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	collection := req.Params.Arguments["collection"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Declare field types for %s", collection),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Declare field types for the "%s" collection. Follow these steps:

1. Use get_field_schema to see what is already declared
2. Run normalize_row on a few representative rows to see how undeclared values are typed
3. For every field whose value should be a number, boolean, array or date, add a declaration.
   Nested fields use dotted paths such as "profile.joined_date"
4. Save the declarations with set_field_schema and re-run normalize_row to confirm

Without a declaration, only JSON arrays/objects and dates are converted; everything else stays as text.`, collection),
				},
			},
		},
	}, nil
}

func (s *Server) handleBulkEditPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	collection := req.Params.Arguments["collection"]
	change := req.Params.Arguments["change"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Bulk edit %s", collection),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Apply this change to rows of "%s": %s

1. Build the edit data as {rowId: {field: value}} using dotted paths for nested fields
2. Preview one row with normalize_row and check the "updates" output
3. Submit with editor_submit (action "edit") and report any per-row errors
4. Use list_edit_journal to confirm what was applied`, collection, change),
				},
			},
		},
	}, nil
}
