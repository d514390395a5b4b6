package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
)

// ReadyCheck is one dependency checked by /readyz.
type ReadyCheck struct {
	Name  string
	Check func() error
}

// Router serves POST /login and the five CRUD routes of every resource.
func Router(h *Handler, lg *logger.Logger, allowedOrigins []string, checks ...ReadyCheck) http.Handler {
	r := chi.NewRouter()
	r.Use(httpx.RequestLogger(lg))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readyz(checks))
	r.Post("/login", h.AuthHandler.Login)

	r.Route("/{resource}", func(r chi.Router) {
		r.Get("/", h.RecordHandler.List)
		r.Post("/", h.RecordHandler.Create)
		r.Get("/{id}", h.RecordHandler.Get)
		r.Put("/{id}", h.RecordHandler.Update)
		r.Delete("/{id}", h.RecordHandler.Delete)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteMessage(w, http.StatusNotFound, "rota não encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteMessage(w, http.StatusMethodNotAllowed, "método não permitido")
	})

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", httpx.RequestIDHeader},
		ExposedHeaders: []string{httpx.RequestIDHeader},
	})
	return c.Handler(r)
}

// readyz answers 503 with the failing dependency names when any check fails.
func readyz(checks []ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		failed := map[string]string{}
		for _, c := range checks {
			if err := c.Check(); err != nil {
				failed[c.Name] = err.Error()
			}
		}
		if len(failed) > 0 {
			logger.FromContext(r.Context(), logger.Nop()).Warn("not_ready", map[string]any{"failed": failed})
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
