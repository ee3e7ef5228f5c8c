package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/benchwise/coaching-backend/internal/config"
	"github.com/benchwise/coaching-backend/internal/dto"
)

// AdminRequired gates operational endpoints behind the shared admin key,
// presented in the X-Admin-Key header. An unset key disables the endpoints
// entirely rather than leaving them open.
func AdminRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminKey != "" && c.Get("X-Admin-Key") == cfg.AdminKey {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error:   true,
			Message: "Admin access required",
		})
	}
}
