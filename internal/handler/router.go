package handler

import (
	"net/http"
	"time"

	"eventhub/internal/metric"
	"eventhub/internal/token"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// RouterConfig carries everything the router needs beyond the handlers.
// Cache and Limiter are optional; nil disables the feature.
type RouterConfig struct {
	Events    *EventHandler
	Users     *UserHandler
	Locations *LocationHandler
	Tokens    *token.Manager
	Cache     *redis.Client
	CacheTTL  time.Duration
	Limiter   *RateLimiter
}

// NewRouter assembles the full middleware stack and route table.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(metric.Middleware)
	r.Use(Logger)
	r.Use(CORS)

	r.Get("/health", HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		if cfg.Limiter != nil {
			r.Use(cfg.Limiter.Middleware(ByClientIP))
		}

		r.Route("/user", func(r chi.Router) {
			r.Post("/register", cfg.Users.Register)
			r.Post("/login", cfg.Users.Login)
		})

		r.Route("/event", func(r chi.Router) {
			if cfg.Cache != nil {
				r.Use(ResponseCache(cfg.Cache, cfg.CacheTTL))
			}

			r.Get("/", cfg.Events.ListEvents)
			r.Get("/{id}", cfg.Events.GetEvent)

			r.Group(func(r chi.Router) {
				r.Use(RequireAuth(cfg.Tokens))
				r.Post("/", cfg.Events.CreateEvent)
				r.Put("/", cfg.Events.UpdateEvent)
				r.Delete("/{id}", cfg.Events.DeleteEvent)
				r.Post("/{id}/enrollment", cfg.Events.Enroll)
				r.Delete("/{id}/enrollment", cfg.Events.Unenroll)
			})
		})

		r.Route("/event-location", func(r chi.Router) {
			r.Use(RequireAuth(cfg.Tokens))
			r.Get("/", cfg.Locations.List)
			r.Get("/{id}", cfg.Locations.Get)
		})
	})

	return r
}
