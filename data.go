package vhall

import (
	"encoding/json"
	"strconv"
)

// field returns the first non-empty scalar found under keys when data is
// an object.
func field(data any, keys ...string) string {
	m, ok := data.(map[string]any)
	if !ok {
		return ""
	}

	for _, k := range keys {
		if s := scalar(m[k]); s != "" {
			return s
		}
	}

	return ""
}

// scalar renders a decoded JSON string or number, and "" for anything else.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
