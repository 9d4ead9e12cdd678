package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/trace"

	"intake/internal/logger"
)

// Logger is a middleware that writes one structured log line per HTTP request.
// Fields: request_id (set by RequestID), method, path, status, latency_ms, and trace_id
// when the request is being traced.
func Logger(log *logger.Logger) fiber.Handler {
	log = log.With("component", "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		kv := []interface{}{
			"request_id", rid,
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", float64(time.Since(start).Microseconds()) / 1000,
		}
		if sc := trace.SpanContextFromContext(c.UserContext()); sc.IsValid() {
			kv = append(kv, "trace_id", sc.TraceID().String())
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request", kv...)
		} else {
			log.Info("request", kv...)
		}

		return err
	}
}
