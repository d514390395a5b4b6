package service

import (
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/api/repository"
)

type Service struct {
	RecordService RecordServiceInterface
	AuthService   AuthServiceInterface
}

func New(repo *repository.Repository, pub Publisher, lg *logger.Logger) *Service {
	return &Service{
		RecordService: NewRecordService(repo.Records, pub, lg),
		AuthService:   NewAuthService(repo.Records, lg),
	}
}
