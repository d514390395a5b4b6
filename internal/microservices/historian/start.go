package historian

import (
	"context"
	"errors"
	"fmt"

	"restaurant-admin/internal/client"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/config"
	"restaurant-admin/internal/connections/rabbitmq"
	"restaurant-admin/internal/microservices/historian/service"
)

const prefetch = 10

// Start consumes resource events and writes them to historico through the
// REST API until ctx ends.
func Start(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	if !cfg.RabbitMQ.Enabled() {
		return errors.New("history-recorder needs rabbitmq.host")
	}
	api, err := client.New(cfg.Console.APIBaseURL, client.WithLogger(lg))
	if err != nil {
		return err
	}

	rmq, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}
	defer rmq.Close()
	if err := rmq.DeclareTopology(); err != nil {
		return fmt.Errorf("rabbitmq topology: %w", err)
	}
	msgs, err := rmq.Consume(rabbitmq.HistoryQueue, "history-recorder", prefetch)
	if err != nil {
		return fmt.Errorf("consume %s: %w", rabbitmq.HistoryQueue, err)
	}

	lg.Info("service_started", map[string]any{"queue": rabbitmq.HistoryQueue, "api": api.BaseURL()})
	return service.NewRecorderService(api, lg).Run(ctx, msgs)
}
