package middleware

import (
	"strings"

	"data-validation/internal/config"
	"data-validation/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const devTokenPrefix = "dev-token-"

// AuthMiddleware requires a bearer JWT signed with cfg.JWTSecret. In
// development, tokens starting with "dev-token-" are accepted as admin.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization header is required", nil)
		}

		// Check Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid authorization header format", nil)
		}

		token := parts[1]

		if cfg.IsDevelopment() && strings.HasPrefix(token, devTokenPrefix) {
			c.Locals("client", strings.TrimPrefix(token, devTokenPrefix))
			c.Locals("role", "admin")
			return c.Next()
		}

		claims, err := utils.ValidateToken(token, cfg.JWTSecret)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", nil)
		}

		c.Locals("client", claims.Client)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RequireRole rejects callers whose role is not in roles.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Insufficient role for this operation", nil)
	}
}
