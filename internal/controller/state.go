package controller

import (
	"fmt"
	"strings"
	"time"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/lookup"
)

type Phase string

const (
	Idle       Phase = "idle"
	Loading    Phase = "loading"
	Ready      Phase = "ready"
	Editing    Phase = "editing"
	Submitting Phase = "submitting"
	Error      Phase = "error"
	Success    Phase = "success"
)

// EmptyText is rendered instead of an empty table.
const EmptyText = "Nenhum registro encontrado."

type NoticeKind string

const (
	NoticeError   NoticeKind = "error"
	NoticeSuccess NoticeKind = "success"
)

// Notice is the transient banner shown after an operation.
type Notice struct {
	Kind NoticeKind
	Text string
	// Detail carries the server message when there was one.
	Detail string
	At     time.Time
}

// ValidationError lists the labels of required fields left blank.
// It is returned by Submit before any request is made.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "campos obrigatórios: " + strings.Join(e.Fields, ", ")
}

// Option is one entry of a reference picker.
type Option struct {
	Value string
	Label string
}

// View is a snapshot of the controller, safe to hold after the call returns.
type View struct {
	Schema        domain.Schema
	Phase         Phase
	Records       []domain.Record
	Draft         domain.Record
	IsUpdate      bool
	EditID        string
	Notice        *Notice
	PendingDelete string
	Empty         bool

	refs map[string][]domain.Record
}

// RefLabel renders a reference field of rec using the sibling list loaded on
// mount. When the sibling list could not be loaded the raw id is shown.
func (v View) RefLabel(field string, rec domain.Record) string {
	f, ok := v.Schema.Field(field)
	id := rec.String(field)
	if !ok || f.Kind != domain.KindRef {
		return id
	}
	target, ok := domain.LookupSchema(f.Ref)
	if !ok {
		return id
	}
	list, loaded := v.refs[f.Ref]
	if !loaded {
		return id
	}
	if id == "" {
		return ""
	}
	return lookup.Label(list, target.IDField, target.LabelField, id)
}

// Cell renders one table cell.
func (v View) Cell(f domain.Field, rec domain.Record) string {
	switch f.Kind {
	case domain.KindRef:
		return v.RefLabel(f.Name, rec)
	case domain.KindPassword:
		return ""
	case domain.KindBool:
		if b, _ := rec[f.Name].(bool); b {
			return "Sim"
		}
		return "Não"
	}
	return rec.String(f.Name)
}

func msgLoad(s domain.Schema) string   { return "Erro ao carregar " + strings.ToLower(s.Title) }
func msgFetch(s domain.Schema) string  { return "Erro ao buscar " + s.Singular }
func msgSave(s domain.Schema) string   { return "Erro ao salvar " + s.Singular }
func msgDelete(s domain.Schema) string { return "Erro ao excluir " + s.Singular }

func msgSaved(s domain.Schema, update bool) string {
	if update {
		return fmt.Sprintf("Sucesso ao atualizar %s", s.Singular)
	}
	return fmt.Sprintf("Sucesso ao cadastrar %s", s.Singular)
}

func msgDeleted(s domain.Schema) string { return "Sucesso ao excluir " + s.Singular }

func msgMissing(fields []string) string {
	return "Preencha os campos obrigatórios: " + strings.Join(fields, ", ")
}
