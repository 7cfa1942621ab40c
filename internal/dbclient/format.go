package dbclient

import (
	"fmt"
	"time"

	"gridedit/internal/domain"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// FormatRow prepares a stored document for the grid: ObjectIDs become hex
// strings, times become RFC3339 strings, and DT_RowId carries the _id.
func FormatRow(doc map[string]any) map[string]any {
	out := formatValue(doc).(map[string]any)
	if id, ok := doc["_id"]; ok {
		out[domain.RowIDField] = RowIDString(id)
	}
	return out
}

// RowIDString renders a document _id as the grid row identifier.
func RowIDString(id any) string {
	switch v := id.(type) {
	case bson.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func formatValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = formatValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = formatValue(e)
		}
		return out
	case bson.ObjectID:
		return t.Hex()
	case bson.DateTime:
		return t.Time().UTC().Format(time.RFC3339)
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
