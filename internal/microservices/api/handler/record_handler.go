package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/api/service"
)

type RecordHandler struct {
	service service.RecordServiceInterface
}

func NewRecordHandler(s service.RecordServiceInterface) *RecordHandler {
	return &RecordHandler{service: s}
}

func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), chi.URLParam(r, "resource"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, list)
}

func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.service.Get(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec)
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Create(r.Context(), chi.URLParam(r, "resource"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, rec)
}

func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	rec, err := h.service.Update(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id"), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec)
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "resource"), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (domain.Record, bool) {
	var body domain.Record
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil || body == nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "corpo JSON inválido")
		return nil, false
	}
	return body, true
}

// writeError is the single place domain errors become status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		httpx.WriteMessage(w, http.StatusNotFound, "registro não encontrado")
	case errors.Is(err, domain.ErrUnknownResource):
		httpx.WriteMessage(w, http.StatusNotFound, "recurso desconhecido")
	case errors.Is(err, domain.ErrBadRequest):
		httpx.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrConflict):
		httpx.WriteMessage(w, http.StatusConflict, "registro duplicado")
	case errors.Is(err, domain.ErrUnauthorized):
		httpx.WriteMessage(w, http.StatusUnauthorized, "Senha ou email invalido!")
	default:
		logger.FromContext(r.Context(), logger.Nop()).Error("request_failed", err, map[string]any{"path": r.URL.Path})
		httpx.WriteMessage(w, http.StatusInternalServerError, "erro interno")
	}
}
