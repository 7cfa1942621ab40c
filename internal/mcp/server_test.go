package mcpserver

import (
	"context"
	"testing"

	"gridedit/internal/dbclient"
	"gridedit/internal/domain"
	"gridedit/internal/service"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *dbclient.MemoryStore) {
	t.Helper()
	store := dbclient.NewMemoryStore()
	schemas := service.NewSchemaService(nil, nil)
	return New(Deps{
		Editor:  service.NewEditorService(store, schemas, nil, nil),
		Schemas: schemas,
		Query:   service.NewQueryService(store),
	}), store
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, error) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		return "", err
	}
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, nil
}

func decode(t *testing.T, text string) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	return out
}

func TestNormalizeRow_WithInlineFields(t *testing.T) {
	s, _ := newTestServer(t)
	text, err := callTool(t, s.handleNormalizeRow, map[string]any{
		"row":    `{"age": "30", "profile.name": "Ada", "meta": "{\"a\":1}"}`,
		"fields": `{"age": "number"}`,
	})
	require.NoError(t, err)
	out := decode(t, text)

	doc := out["document"].(map[string]any)
	assert.EqualValues(t, 30, doc["age"])
	assert.Equal(t, map[string]any{"name": "Ada"}, doc["profile"])
	assert.Equal(t, map[string]any{"a": float64(1)}, doc["meta"])
	assert.NotContains(t, doc, "profile.name")

	assert.Equal(t, map[string]any{"profile.name": "Ada"}, out["dotFields"])
	updates := out["updates"].(map[string]any)
	assert.Contains(t, updates, "profile.name")
}

func TestNormalizeRow_UsesCollectionSchema(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := callTool(t, s.handleSetFieldSchema, map[string]any{
		"collection": "users",
		"fields":     `[{"path": "active", "type": "boolean"}]`,
	})
	require.NoError(t, err)

	text, err := callTool(t, s.handleNormalizeRow, map[string]any{
		"row":        `{"active": "yes"}`,
		"collection": "users",
	})
	require.NoError(t, err)
	assert.Equal(t, true, decode(t, text)["updates"].(map[string]any)["active"])
}

func TestNormalizeRow_RejectsNonObject(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := callTool(t, s.handleNormalizeRow, map[string]any{"row": `[1,2]`})
	assert.Error(t, err)
}

func TestEditorSubmit_CreateAndEdit(t *testing.T) {
	s, store := newTestServer(t)
	text, err := callTool(t, s.handleEditorSubmit, map[string]any{
		"collection": "items",
		"action":     "create",
		"data":       `{"0": {"name": "bolt", "size.mm": 4}}`,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len("items"))

	var resp domain.EditorResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.Len(t, resp.Data, 1)
	rowID := resp.Data[0][domain.RowIDField].(string)

	text, err = callTool(t, s.handleEditorSubmit, map[string]any{
		"collection": "items",
		"action":     "edit",
		"data":       `{"` + rowID + `": {"name": "nut"}}`,
	})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.Empty(t, resp.Error)
	assert.Equal(t, "nut", resp.Data[0]["name"])
}

func TestEditorSubmit_Errors(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := callTool(t, s.handleEditorSubmit, map[string]any{"collection": "items"})
	assert.Error(t, err)

	_, err = callTool(t, s.handleEditorSubmit, map[string]any{
		"collection": "items", "action": "upsert", "data": `{}`,
	})
	assert.ErrorIs(t, err, service.ErrUnknownAction)

	_, err = callTool(t, s.handleEditorSubmit, map[string]any{
		"collection": "items", "action": "create", "data": `{"0": "flat"}`,
	})
	assert.Error(t, err)
}

func TestGetFieldSchema(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := callTool(t, s.handleSetFieldSchema, map[string]any{
		"collection": "users",
		"fields":     `{"age": "number"}`,
	})
	require.NoError(t, err)

	text, err := callTool(t, s.handleGetFieldSchema, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, []any{"users"}, decode(t, text)["collections"])

	text, err = callTool(t, s.handleGetFieldSchema, map[string]any{"collection": "users"})
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"path": "age", "type": "number"}}, decode(t, text)["fields"])
}

func TestListEditJournal_Disabled(t *testing.T) {
	s, _ := newTestServer(t)
	_, err := callTool(t, s.handleListEditJournal, map[string]any{"collection": "users"})
	assert.Error(t, err)
}

func TestCollectionFromURI(t *testing.T) {
	assert.Equal(t, "users", collectionFromURI("gridedit://schema/users"))
	assert.Equal(t, "", collectionFromURI("gridedit://schema/users/extra"))
	assert.Equal(t, "", collectionFromURI("notes://page/x"))
}

func TestDatatablesQuery(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()
	for _, u := range []map[string]any{
		{"_id": "u1", "name": "John Doe", "status": "active", "team": "core"},
		{"_id": "u2", "name": "Jane Smith", "status": "inactive", "team": "core"},
		{"_id": "u3", "name": "Bob Johnson", "status": "active", "team": "edge"},
	} {
		_, err := store.InsertOne(ctx, "users", u)
		require.NoError(t, err)
	}

	text, err := callTool(t, s.handleDatatablesQuery, map[string]any{
		"collection": "users",
		"request": `{"draw": 4, "start": 0, "length": 10,
			"search": {"value": "john"},
			"order": [{"column": 0, "dir": "desc"}],
			"columns": [
				{"data": "name", "searchable": true, "orderable": true},
				{"data": "status", "searchable": true, "orderable": true}
			]}`,
		"filter": `{"team": "core"}`,
	})
	require.NoError(t, err)
	out := decode(t, text)

	assert.EqualValues(t, 4, out["draw"])
	assert.EqualValues(t, 3, out["recordsTotal"])
	assert.EqualValues(t, 1, out["recordsFiltered"])
	rows := out["data"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "u1", row[domain.RowIDField])
	assert.NotContains(t, row, "team")
}

func TestDatatablesQuery_RejectsBadArguments(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := callTool(t, s.handleDatatablesQuery, map[string]any{"request": `{}`})
	assert.Error(t, err)

	_, err = callTool(t, s.handleDatatablesQuery, map[string]any{"collection": "users", "request": `{not json`})
	assert.Error(t, err)

	_, err = callTool(t, s.handleDatatablesQuery, map[string]any{
		"collection": "users", "request": `{}`, "filter": `[1]`,
	})
	assert.Error(t, err)
}
