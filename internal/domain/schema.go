package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Kind is the input kind of a form field; it drives coercion of raw form
// values and how the console renders the input.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindDateTime Kind = "datetime"
	KindBool     Kind = "boolean"
	KindPassword Kind = "password"
	KindRef      Kind = "reference"
)

type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	// Ref names the related collection of a KindRef field.
	Ref string
	// FromSession fields are filled with the signed-in user id.
	FromSession bool
}

// Schema describes one resource collection. Resource types differ only in
// their schema; lifecycle is the same for all of them.
type Schema struct {
	Name       string // collection path segment, e.g. "clientes"
	Title      string // menu / heading text
	Singular   string // noun used in banners
	IDField    string
	LabelField string // used when other resources resolve a reference to this one
	Fields     []Field
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Template returns the blank draft for this schema.
func (s Schema) Template(userID string) Record {
	draft := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		if f.FromSession {
			draft[f.Name] = userID
			continue
		}
		draft[f.Name] = f.blank()
	}
	return draft
}

func (f Field) blank() any {
	if f.Kind == KindBool {
		return false
	}
	return ""
}

// Missing lists the labels of required fields that are blank in draft.
func (s Schema) Missing(draft Record) []string {
	var out []string
	for _, f := range s.Fields {
		if !f.Required || f.Kind == KindBool {
			continue
		}
		if IsBlank(draft[f.Name]) {
			out = append(out, f.Label)
		}
	}
	return out
}

// Coerce converts a raw form value into the value stored in a draft.
// Numbers that do not parse are kept as typed so the server can reject them.
func (f Field) Coerce(raw string) any {
	switch f.Kind {
	case KindBool:
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "true", "on", "1", "yes":
			return true
		}
		return false
	case KindNumber, KindRef:
		t := strings.TrimSpace(raw)
		if t == "" {
			return ""
		}
		if _, err := strconv.ParseFloat(t, 64); err == nil {
			return json.Number(t)
		}
		return raw
	default:
		return raw
	}
}

// Body builds the request body for create/update from the schema fields of
// draft. The identifier is owned by the server and blank passwords are left
// out so an update does not overwrite a stored secret with nothing.
func (s Schema) Body(draft Record) Record {
	body := make(Record, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := draft[f.Name]
		if f.Kind == KindPassword && IsBlank(v) {
			continue
		}
		if !ok {
			v = f.blank()
		}
		body[f.Name] = v
	}
	return body
}

// Secrets returns the names of password fields.
func (s Schema) Secrets() []string {
	var out []string
	for _, f := range s.Fields {
		if f.Kind == KindPassword {
			out = append(out, f.Name)
		}
	}
	return out
}
