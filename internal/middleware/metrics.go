package middleware

import (
	"blogql/internal/observability"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// InitMetrics creates the HTTP metrics collector on its own registry, so several
// servers can live in one process (tests) without duplicate registration.
func InitMetrics(serviceName string) (*fiberprometheus.FiberPrometheus, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	return fiberprometheus.NewWithRegistry(registry, serviceName, "http", "", nil), registry
}

// MetricsMiddleware records request counts and latency for every route.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}

// MetricsHandler serves the HTTP registry together with the application registry.
func MetricsHandler(httpRegistry *prometheus.Registry) fiber.Handler {
	gatherers := prometheus.Gatherers{observability.Registry}
	if httpRegistry != nil {
		gatherers = append(gatherers, httpRegistry)
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{}))
}
