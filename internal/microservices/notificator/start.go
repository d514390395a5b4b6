package notificator

import (
	"context"
	"errors"
	"fmt"
	"io"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/config"
	"restaurant-admin/internal/connections/rabbitmq"
	"restaurant-admin/internal/microservices/notificator/service"
)

// Start prints resource events matching pattern (e.g. "resource.pedidos.*")
// to out until ctx ends.
func Start(ctx context.Context, cfg *config.Config, lg *logger.Logger, out io.Writer, pattern string, style func(a ...any) string) error {
	if !cfg.RabbitMQ.Enabled() {
		return errors.New("rabbitmq.host is not configured")
	}
	rmq, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		return fmt.Errorf("rabbitmq topology: %w", err)
	}
	msgs, err := rmq.Subscribe(pattern, "notificator")
	if err != nil {
		return err
	}
	lg.Info("service_started", map[string]any{"pattern": pattern})
	return service.NewNotificatorService(out, lg, style).Notify(ctx, msgs)
}
