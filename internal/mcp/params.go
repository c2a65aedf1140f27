package mcp

import (
	"encoding/json"

	"repogenome/internal/genome"
)

// jsonString marshals v for the "text" field of a tool/resource response,
// falling back to fmt-style rendering if v is somehow not encodable.
func jsonString(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return `{"error":"failed to encode result"}`
	}
	return string(data)
}

func stringParam(params map[string]interface{}, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

func intParam(params map[string]interface{}, key string, def int) int {
	switch v := params[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func boolParam(params map[string]interface{}, key string) bool {
	v, _ := params[key].(bool)
	return v
}

func stringSliceParam(params map[string]interface{}, key string) []string {
	raw, ok := params[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func nodeIDSliceParam(params map[string]interface{}, key string) []genome.NodeId {
	strs := stringSliceParam(params, key)
	out := make([]genome.NodeId, 0, len(strs))
	for _, s := range strs {
		out = append(out, genome.NodeId(s))
	}
	return out
}

func edgeTypeSliceParam(params map[string]interface{}, key string) []genome.EdgeType {
	strs := stringSliceParam(params, key)
	out := make([]genome.EdgeType, 0, len(strs))
	for _, s := range strs {
		out = append(out, genome.EdgeType(s))
	}
	return out
}
