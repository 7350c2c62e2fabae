package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/config"
)

// RequestLogger creates a middleware handler for structured request logging
// with Logrus. Every request gets a uuid request id, stored in locals so
// handlers can tag their own log lines with it.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()
		c.Locals("requestid", requestID)

		err := c.Next()

		statusCode := c.Response().StatusCode()
		logEntry := config.Log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"http_method": c.Method(),
			"uri":         c.OriginalURL(),
			"status_code": statusCode,
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_ip":   c.IP(),
		})

		switch {
		case err != nil:
			// The global error handler produces the response; log it here
			// with request context as well.
			logEntry.WithField("error", err.Error()).Error("Request processing failed")
		case statusCode >= 500:
			logEntry.Error("Request completed with server error")
		case statusCode >= 400:
			logEntry.Warn("Request completed with client error")
		default:
			logEntry.Info("Request completed successfully")
		}

		return err
	}
}
