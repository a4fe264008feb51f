package middleware

import (
	"errors"
	"strings"

	"authapi/internal/logging"
	"authapi/internal/repositories"
	"authapi/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired gates protected routes on a valid bearer token. A missing or
// malformed Authorization header is 401; a token that fails verification, is
// expired, or predates the user's last password change is 403. On success the
// identity claims are stored in the request locals for downstream handlers.
func AuthRequired(tokens *services.TokenManager, userRepo repositories.UserRepository, log logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return respondError(c, fiber.StatusUnauthorized, "Access token required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return respondError(c, fiber.StatusUnauthorized, "Access token required")
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			log.Warn("token rejected", "method", c.Method(), "path", c.Path(), "error", err)
			return respondError(c, fiber.StatusForbidden, "Invalid or expired token")
		}

		// A password change after issuance invalidates the token even though
		// it is otherwise well-formed and unexpired.
		user, err := userRepo.GetByID(claims.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return respondError(c, fiber.StatusForbidden, "Invalid or expired token")
			}
			log.Error("failed to load token subject", "method", c.Method(), "path", c.Path(), "error", err)
			return respondError(c, fiber.StatusInternalServerError, "Internal server error")
		}
		if user.PasswordChangedAt != nil && user.PasswordChangedAt.Unix() > claims.IssuedAt {
			return respondError(c, fiber.StatusForbidden, "Invalid or expired token")
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
}

func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{"message": message},
	})
}
