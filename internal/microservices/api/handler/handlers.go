package handler

import "restaurant-admin/internal/microservices/api/service"

type Handler struct {
	RecordHandler *RecordHandler
	AuthHandler   *AuthHandler
}

func New(svc *service.Service) *Handler {
	return &Handler{
		RecordHandler: NewRecordHandler(svc.RecordService),
		AuthHandler:   NewAuthHandler(svc.AuthService),
	}
}
