package handler

import (
	"encoding/json"
	"net/http"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/api/service"
)

type AuthHandler struct {
	service service.AuthServiceInterface
}

func NewAuthHandler(s service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "corpo JSON inválido")
		return
	}
	user, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}
