package api

import (
	"context"
	"fmt"
	"time"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/config"
	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/connections/rabbitmq"
	"restaurant-admin/internal/microservices/api/handler"
	"restaurant-admin/internal/microservices/api/repository"
	"restaurant-admin/internal/microservices/api/service"
)

// Run serves the REST API until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	repo, closeRepo, dbCheck, err := openRepository(ctx, cfg.Database, lg)
	if err != nil {
		return err
	}
	defer closeRepo()

	checks := []handler.ReadyCheck{{Name: "database", Check: dbCheck}}
	var pub service.Publisher = service.NopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		rmq, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer rmq.Close()
		if err := rmq.DeclareTopology(); err != nil {
			return fmt.Errorf("rabbitmq topology: %w", err)
		}
		pub = NewEventPublisher(rmq)
		checks = append(checks, handler.ReadyCheck{Name: "rabbitmq", Check: rmq.Ping})
		lg.Info("rabbitmq_connected", map[string]any{"exchange": rabbitmq.EventsExchange})
	}

	svc := service.New(repo, pub, lg)
	if err := svc.AuthService.SeedAdmin(ctx, cfg.API.AdminLogin, cfg.API.AdminPassword); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.API.Port)
	srv := httpx.New(addr, handler.Router(handler.New(svc), lg, cfg.API.AllowedOrigins, checks...), httpx.WithServerLogger(lg))
	lg.Info("service_started", map[string]any{"addr": addr, "driver": cfg.Database.Driver})
	return srv.Run(ctx)
}

// openRepository also returns the readiness check of the store.
func openRepository(ctx context.Context, cfg config.DatabaseConfig, lg *logger.Logger) (*repository.Repository, func(), func() error, error) {
	if cfg.Driver == "memory" {
		return repository.NewInMemory(), func() {}, func() error { return nil }, nil
	}
	db, err := database.Open(ctx, cfg, lg)
	if err != nil {
		return nil, nil, nil, err
	}
	ping := func() error {
		pctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return db.Conn.PingContext(pctx)
	}
	return repository.New(db), func() { _ = db.Close() }, ping, nil
}
