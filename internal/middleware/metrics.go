package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogx_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// MediaOperations counts media store operations by type and outcome.
	MediaOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blogx_media_operations_total",
		Help: "Total number of media store operations by operation and outcome",
	}, []string{"operation", "outcome"})
)

// InitMetrics creates the Prometheus HTTP metrics collector for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler that records request metrics.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
