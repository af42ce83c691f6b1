// Command main is the entry point for the blog GraphQL server.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blogql/internal/config"
	"blogql/internal/middleware"
	"blogql/internal/observability"
	"blogql/internal/server"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.Logger = middleware.NewLogger(cfg.Env, slog.LevelInfo)
	logger := middleware.Logger

	shutdownTracing, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:  observability.ServiceName,
		Environment:  cfg.Env,
		Enabled:      cfg.TracingEnabled,
		Exporter:     cfg.TracingExporter,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SamplerRatio: cfg.TracingSampleRatio,
	})
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               observability.ServiceName,
		DisableStartupMessage: true,
	})
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)

	liveness := fiber.New(fiber.Config{
		AppName:               observability.ServiceName + "-liveness",
		DisableStartupMessage: true,
	})
	srv.SetupLivenessRoutes(liveness)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Warmup(gctx)
	})
	g.Go(func() error {
		logger.Info("GraphQL server listening",
			slog.String("port", cfg.GraphQLPort),
			slog.String("path", cfg.GraphQLPath))
		return app.Listen(":" + cfg.GraphQLPort)
	})
	g.Go(func() error {
		logger.Info("Liveness server listening", slog.String("port", cfg.LivenessPort))
		return liveness.Listen(":" + cfg.LivenessPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		errs := []error{
			app.ShutdownWithContext(sctx),
			liveness.ShutdownWithContext(sctx),
			srv.Shutdown(sctx),
			shutdownTracing(sctx),
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
