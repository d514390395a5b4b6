package repository

import (
	"encoding/json"
	"strconv"
	"strings"

	"restaurant-admin/internal/domain"
)

// fromColumn maps a scanned value back to its wire form.
func fromColumn(kind domain.Kind, raw any) any {
	if b, ok := raw.([]byte); ok {
		raw = string(b)
	}
	switch kind {
	case domain.KindNumber, domain.KindRef:
		return number(raw)
	case domain.KindBool:
		switch x := raw.(type) {
		case bool:
			return x
		case int64:
			return x != 0
		case float64:
			return x != 0
		case string:
			v, _ := strconv.ParseBool(x)
			return v || x == "1"
		}
		return false
	default:
		if raw == nil {
			return ""
		}
		return domain.FormatValue(raw)
	}
}

func number(raw any) any {
	switch x := raw.(type) {
	case nil:
		return nil
	case int64:
		return json.Number(strconv.FormatInt(x, 10))
	case int:
		return json.Number(strconv.Itoa(x))
	case float64:
		return json.Number(strconv.FormatFloat(x, 'f', -1, 64))
	case json.Number:
		return x
	case string:
		t := strings.TrimSpace(x)
		if t == "" {
			return nil
		}
		if _, err := strconv.ParseFloat(t, 64); err == nil {
			return json.Number(t)
		}
	}
	return nil
}

func parseID(id string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	return n, err == nil && n > 0
}

func quote(ident string) string { return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"` }
