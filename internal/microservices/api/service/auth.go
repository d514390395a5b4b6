package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/api/repository"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, req domain.LoginRequest) (domain.Record, error)
	SeedAdmin(ctx context.Context, login, password string) error
}

type AuthService struct {
	repo repository.RecordRepository
	lg   *logger.Logger
}

func NewAuthService(repo repository.RecordRepository, lg *logger.Logger) *AuthService {
	return &AuthService{repo: repo, lg: lg}
}

// Login checks the e-mail/password pair against usuarios. The answer is the
// public user record plus autorizado=true; no token is issued.
func (as *AuthService) Login(ctx context.Context, req domain.LoginRequest) (domain.Record, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Senha == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := as.repo.FindBy(ctx, domain.Usuarios, "email", login)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	hash := user.String("senha")
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Senha)) != nil {
		logger.FromContext(ctx, as.lg).Info("login_rejected", map[string]any{"login": login})
		return nil, domain.ErrUnauthorized
	}
	user = public(domain.Usuarios, user)
	user["autorizado"] = true
	return user, nil
}

// SeedAdmin creates the given user with every permission unless the e-mail is
// already taken.
func (as *AuthService) SeedAdmin(ctx context.Context, login, password string) error {
	if login == "" || password == "" {
		return nil
	}
	_, err := as.repo.FindBy(ctx, domain.Usuarios, "email", login)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	hash, err := hashSecret(password)
	if err != nil {
		return err
	}
	_, err = as.repo.Insert(ctx, domain.Usuarios, domain.Record{
		"nome":                 "Administrador",
		"email":                login,
		"senha":                hash,
		"acesso_criar_usuario": true,
		"acesso_dashboard":     true,
		"acesso_criar_pedido":  true,
		"acesso_estoque":       true,
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	as.lg.Info("admin_seeded", map[string]any{"login": login})
	return nil
}
