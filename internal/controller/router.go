package controller

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/orderpulse/gateways/internal/infrastructure/config"
	"github.com/orderpulse/gateways/internal/infrastructure/observability"
	customMW "github.com/orderpulse/gateways/internal/middleware"
	"github.com/orderpulse/gateways/internal/service"
)

type RouterDeps struct {
	Pool           *pgxpool.Pool
	RedisClient    *redis.Client
	WebhookService *service.WebhookService
	GatewayService *service.GatewayService
	Metrics        *observability.Metrics
	CORSConfig     config.CORSConfig
	JWTSecret      string
	MaxBodyBytes   int64
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	webhookH := NewWebhookController(deps.WebhookService, deps.MaxBodyBytes)
	gatewayH := NewGatewayController(deps.GatewayService)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	// Provider-facing webhook intake. Authenticated per delivery by each
	// provider's own signature scheme, not by JWT.
	r.Route("/webhooks", func(r chi.Router) {
		r.Use(customMW.RateLimit(600))
		r.Post("/{type}/{gatewayID}", webhookH.Receive)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/gateways/types", gatewayH.ListTypes)

		r.Group(func(r chi.Router) {
			r.Use(customMW.RequireAuth(deps.JWTSecret))
			r.Post("/gateways", gatewayH.Onboard)
			r.Get("/gateways", gatewayH.List)
			r.Patch("/gateways/{gatewayID}", gatewayH.SetActive)
		})
	})

	return r
}
