// Package server wires the GraphQL endpoint and the liveness listener.
package server

import (
	"context"
	"fmt"
	"log/slog"

	"blogql/internal/config"
	"blogql/internal/database"
	"blogql/internal/graph"
	"blogql/internal/middleware"
	"blogql/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/graph-gophers/graphql-go"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	store          database.Store
	engine         *graph.Engine
	schema         *graphql.Schema
	promMiddleware *fiberprometheus.FiberPrometheus
	httpRegistry   *prometheus.Registry
}

// NewServer connects to the configured store and builds the server around it.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	srv, err := NewServerWithDeps(cfg, db)
	if err != nil {
		database.Close(db)
		return nil, err
	}
	return srv, nil
}

// NewServerWithDeps creates a Server using an already-opened database.
// Tests use it with an in-memory store.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB) (*Server, error) {
	store := database.NewStore(db)
	engine := graph.NewEngine(store)

	schema, err := graph.NewSchema(engine, graph.SchemaOptions{
		MaxDepth:       cfg.GraphQLMaxDepth,
		MaxParallelism: cfg.GraphQLMaxParallelism,
	})
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	prom, registry := middleware.InitMetrics(observability.ServiceName)

	return &Server{
		config:         cfg,
		db:             db,
		store:          store,
		engine:         engine,
		schema:         schema,
		promMiddleware: prom,
		httpRegistry:   registry,
	}, nil
}

// Engine exposes the resolver engine, mainly for readiness checks.
func (s *Server) Engine() *graph.Engine {
	return s.engine
}

// SetupMiddleware configures middleware for the GraphQL app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Correlation-ID",
		AllowMethods: "POST, OPTIONS",
		MaxAge:       86400,
	}))
}

// SetupRoutes mounts the GraphQL endpoint.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Post(s.config.GraphQLPath, s.GraphQL)
}

// SetupLivenessRoutes mounts the liveness, readiness and metrics routes on
// the secondary app.
func (s *Server) SetupLivenessRoutes(app *fiber.App) {
	app.Use(recover.New())
	app.Get("/", s.LivenessCheck)
	app.Get("/ready", s.ReadinessCheck)
	app.Get("/metrics", middleware.MetricsHandler(s.httpRegistry))
}

// Warmup loads the snapshot. Requests arriving earlier block until it finishes.
func (s *Server) Warmup(ctx context.Context) error {
	if err := s.engine.Load(ctx); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}
	return nil
}

// Shutdown releases the database handle.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	if err := database.Close(s.db); err != nil {
		middleware.Logger.ErrorContext(ctx, "error closing database", slog.String("error", err.Error()))
		return err
	}
	return nil
}
