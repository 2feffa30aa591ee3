package middleware

import (
	"time"

	"esiksha/backend/metrics"

	"github.com/gofiber/fiber/v2"
)

// MetricsMiddleware records request counts and latency per route pattern.
func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		endpoint := c.Route().Path
		if endpoint == "" || endpoint == "/" {
			endpoint = "unmatched"
		}
		metrics.RecordAPIRequest(c.Method(), endpoint, status, time.Since(start))
		return err
	}
}
