package tenant

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GetAppID returns the app resolved by the tenant middleware, or "" on
// routes the middleware skips.
func GetAppID(c *fiber.Ctx) string {
	appID, _ := c.Locals("app_id").(string)
	return appID
}

// GetUserID returns the authenticated user's id from the verified JWT. It
// only works behind the JWT middleware, which stores the parsed token in
// context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, errors.New("no verified token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("unexpected claims type")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("token has no sub claim")
	}
	return uuid.Parse(sub)
}
