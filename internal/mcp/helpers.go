package mcpserver

import (
	"fmt"

	"gridedit/internal/normalize"
)

// parseObject decodes a JSON object argument. Numbers keep integer precision.
func parseObject(name, data string) (map[string]any, error) {
	out := normalize.TryParseJSON(data)
	obj, ok := out.Value.(map[string]any)
	if !out.Converted || !ok {
		return nil, fmt.Errorf("%s must be a JSON object", name)
	}
	return obj, nil
}

// parseRows decodes editor data of the form {rowKey: {field: value}}.
func parseRows(data string) (map[string]map[string]any, error) {
	obj, err := parseObject("data", data)
	if err != nil {
		return nil, err
	}
	rows := make(map[string]map[string]any, len(obj))
	for key, v := range obj {
		row, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("data[%q] must be a JSON object", key)
		}
		rows[key] = row
	}
	return rows, nil
}
