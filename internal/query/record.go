package query

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a single row as returned by the backend. Only the fields that
// were requested are present.
type Record map[string]any

// ID returns the record identity. ok is false when the field is missing or
// not an integer.
func (r Record) ID() (int64, bool) {
	switch v := r["id"].(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	case int:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// Name returns display_name, falling back to name.
func (r Record) Name() string {
	if s := r.String("display_name"); s != "" {
		return s
	}
	return r.String("name")
}

// String renders a field for display. Relational pairs ([id, "label"])
// render as their label, lists are comma separated and false (the
// backend's "unset") renders empty.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok {
		return ""
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		if !val {
			return ""
		}
		return "true"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		if len(val) == 2 {
			if _, isID := val[0].(float64); isID {
				if label, isLabel := val[1].(string); isLabel {
					return label
				}
			}
		}
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
