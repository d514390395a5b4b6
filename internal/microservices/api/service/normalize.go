package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"restaurant-admin/internal/domain"
)

// normalize turns a decoded request body into column values for the
// repository. Fields outside the schema are dropped; absent fields become
// blank (PUT replaces the whole record). Password fields keep the plain text.
func normalize(s domain.Schema, body domain.Record) (domain.Record, error) {
	out := make(domain.Record, len(s.Fields))
	for _, f := range s.Fields {
		v, err := coerce(f, body[f.Name])
		if err != nil {
			return nil, err
		}
		out[f.Name] = v
	}
	return out, nil
}

func coerce(f domain.Field, v any) (any, error) {
	switch f.Kind {
	case domain.KindNumber:
		if domain.IsBlank(v) {
			return nil, nil
		}
		n, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s deve ser numérico", domain.ErrBadRequest, f.Label)
		}
		return n, nil
	case domain.KindRef:
		if domain.IsBlank(v) {
			return nil, nil
		}
		n, err := toFloat(v)
		if err != nil || n != math.Trunc(n) {
			return nil, fmt.Errorf("%w: %s deve ser um identificador", domain.ErrBadRequest, f.Label)
		}
		return int64(n), nil
	case domain.KindBool:
		switch x := v.(type) {
		case nil:
			return false, nil
		case bool:
			return x, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(x)) {
			case "", "false", "0", "off", "no":
				return false, nil
			case "true", "1", "on", "yes":
				return true, nil
			}
		case json.Number:
			n, err := x.Float64()
			if err == nil {
				return n != 0, nil
			}
		}
		return nil, fmt.Errorf("%w: %s deve ser verdadeiro ou falso", domain.ErrBadRequest, f.Label)
	default:
		return domain.FormatValue(v), nil
	}
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case json.Number:
		return x.Float64()
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	}
	return 0, fmt.Errorf("not a number: %T", v)
}

// public drops password fields.
func public(s domain.Schema, rec domain.Record) domain.Record {
	for _, name := range s.Secrets() {
		delete(rec, name)
	}
	return rec
}
