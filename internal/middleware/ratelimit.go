package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/benchwise/coaching-backend/internal/dto"
	"github.com/benchwise/coaching-backend/internal/ratelimit"
)

// RateLimit applies a per-IP sliding window to API traffic. Health probes
// are exempt so orchestrators can poll freely.
func RateLimit(limiter *ratelimit.SlidingWindow, perMinute int) fiber.Handler {
	message := fmt.Sprintf("Rate limit exceeded. Maximum %d requests per minute.", perMinute)

	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}
		if !limiter.Allow(c.IP()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error:   true,
				Message: message,
			})
		}
		return c.Next()
	}
}
