package api

import (
	"context"
	"log"
	"net/http"

	"github.com/dom/kick-danila/internal/api/flash"
	"github.com/dom/kick-danila/internal/api/handlers"
	"github.com/dom/kick-danila/internal/api/middleware"
	"github.com/dom/kick-danila/internal/config"
	"github.com/dom/kick-danila/internal/service"
	"github.com/dom/kick-danila/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

func NewRouter(services *service.Services, hub *websocket.Hub, flashes *flash.Store, cfg *config.Config, healthCheck HealthCheck) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if healthCheck != nil {
			if err := healthCheck(r.Context()); err != nil {
				log.Printf("ERROR [health] database unreachable: %v", err)
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	pageHandler := handlers.NewPageHandler(services.Query, cfg.Location)
	kickHandler := handlers.NewKickHandler(services.Kick, flashes, cfg.DefaultHealAmount)
	statusHandler := handlers.NewStatusHandler(services.Query)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Query, cfg.IsDevelopment())

	// HTML page and form endpoints
	r.With(middleware.Flash(flashes)).Get("/", pageHandler.Index)
	r.Post("/kick", kickHandler.Kick)
	r.Post("/heal", kickHandler.Heal)
	r.Post("/reset", kickHandler.Reset)
	r.Route("/kick-types", func(r chi.Router) {
		r.Post("/", kickHandler.AddKickType)
		r.Post("/{id:[0-9]+}/delete", kickHandler.DeleteKickType)
	})
	r.Post("/kicks/{id:[0-9]+}/delete", kickHandler.DeleteKick)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", statusHandler.Status)
		r.Get("/kicks", statusHandler.ListKicks)
		r.Get("/kick-types", statusHandler.ListKickTypes)

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
