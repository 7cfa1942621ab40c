package mcpserver

import (
	"context"
	"fmt"

	"gridedit/internal/domain"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerQueryTools() {
	s.mcp.AddTool(mcp.NewTool("datatables_query",
		mcp.WithDescription("Read one page of grid rows: global search (free terms and field:value), per-column search, ordering and paging. Returns draw, recordsTotal, recordsFiltered and data."),
		mcp.WithString("collection", mcp.Description("Collection name"), mcp.Required()),
		mcp.WithString("request", mcp.Description(`Grid read request as JSON, e.g. {"draw":1,"start":0,"length":10,"search":{"value":"john"},"order":[{"column":0,"dir":"asc"}],"columns":[{"data":"name","searchable":true,"orderable":true}]}`), mcp.Required()),
		mcp.WithString("filter", mcp.Description("Optional JSON object ANDed with the search, e.g. {\"status\":\"active\"}")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleDatatablesQuery)
}

func (s *Server) handleDatatablesQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.query == nil {
		return nil, fmt.Errorf("grid reads are not enabled")
	}
	collection := req.GetString("collection", "")
	if collection == "" {
		return nil, fmt.Errorf("collection is required")
	}

	var tableReq domain.TableRequest
	if err := json.Unmarshal([]byte(req.GetString("request", "")), &tableReq); err != nil {
		return nil, fmt.Errorf("invalid request JSON: %w", err)
	}

	var filter map[string]any
	if raw := req.GetString("filter", ""); raw != "" {
		parsed, err := parseObject("filter", raw)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}

	resp, err := s.query.Rows(ctx, collection, tableReq, filter)
	if err != nil {
		return nil, err
	}
	return jsonResult(resp)
}
