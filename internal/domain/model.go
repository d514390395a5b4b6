package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one row of a resource collection as it travels over the wire:
// field name -> scalar (string, json.Number, bool or nil).
type Record map[string]any

// ID renders the identifier field of the record. Empty when absent.
func (r Record) ID(idField string) string {
	return FormatValue(r[idField])
}

// String renders any field the same way IDs are rendered.
func (r Record) String(field string) string {
	return FormatValue(r[field])
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FormatValue turns a decoded JSON scalar into display text. Numbers keep
// the exact digits they had on the wire.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return strings.Trim(string(b), `"`)
	}
}

// IsBlank reports whether a draft value counts as "not filled in".
func IsBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case json.Number:
		return x.String() == ""
	default:
		return false
	}
}
