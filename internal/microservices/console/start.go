package console

import (
	"context"
	"fmt"

	"restaurant-admin/internal/client"
	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/config"
	"restaurant-admin/internal/controller"
	"restaurant-admin/internal/microservices/console/handler"
	"restaurant-admin/internal/session"
	"restaurant-admin/internal/shell"
)

// Run serves the admin console until ctx is cancelled. The console keeps one
// session for the whole process.
func Run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	api, err := client.New(cfg.Console.APIBaseURL, client.WithLogger(lg))
	if err != nil {
		return fmt.Errorf("api client: %w", err)
	}

	sh := shell.New(api, session.New(),
		controller.WithLogger(lg),
		controller.WithNoticeTTL(cfg.Console.NoticeTTL),
	)
	h, err := handler.New(sh, api, lg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Console.Port)
	lg.Info("service_started", map[string]any{"addr": addr, "api": api.BaseURL()})
	return httpx.New(addr, h.Routes(), httpx.WithServerLogger(lg)).Run(ctx)
}
