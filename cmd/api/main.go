package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/orderpulse/gateways/internal/bootstrap"
	"github.com/orderpulse/gateways/internal/controller"
	"github.com/orderpulse/gateways/internal/gateway/builtin"
	infraRedis "github.com/orderpulse/gateways/internal/infrastructure/redis"
	"github.com/orderpulse/gateways/internal/repository/postgres"
	"github.com/orderpulse/gateways/internal/service"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "gateways-api", "gateways")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	configRepo := postgres.NewGatewayConfigRepository(app.Pool)

	// --- Gateway registry ---
	registry := builtin.Registry(app.Logger)
	validator := builtin.Validator()

	// --- Infrastructure ---
	producer := infraRedis.NewStreamProducer(app.Redis)
	dedup := infraRedis.NewDeduplicator(app.Redis, app.Config.Webhook.DedupTTL)

	// --- Services ---
	webhookSvc := service.NewWebhookService(registry, configRepo, producer, dedup, app.Metrics, app.Logger)
	gatewaySvc := service.NewGatewayService(registry, validator, configRepo, app.Logger)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:           app.Pool,
		RedisClient:    app.Redis,
		WebhookService: webhookSvc,
		GatewayService: gatewaySvc,
		Metrics:        app.Metrics,
		CORSConfig:     app.Config.Server.CORS,
		JWTSecret:      app.Config.Auth.JWTSecret,
		MaxBodyBytes:   app.Config.Webhook.MaxBodyBytes,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
