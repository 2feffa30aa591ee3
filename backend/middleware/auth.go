package middleware

import (
	"esiksha/backend/authz"
	"esiksha/backend/config"
	"esiksha/backend/models"
	"esiksha/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// AuthMiddleware requires a valid bearer token: 401 when missing, 403 when invalid.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := utils.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return utils.Unauthorized(c, "Access token required")
		}
		principal, err := utils.ParseJWTToken(token, cfg)
		if err != nil {
			return utils.Forbidden(c, "Invalid or expired token")
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and ignores it otherwise.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, err := utils.BearerToken(c.Get(fiber.HeaderAuthorization)); err == nil {
			if principal, err := utils.ParseJWTToken(token, cfg); err == nil {
				c.Locals(principalKey, principal)
			}
		}
		return c.Next()
	}
}

// RequireCapability must run after AuthMiddleware.
func RequireCapability(enforcer *authz.Enforcer, capability authz.Capability, message string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := CurrentPrincipal(c)
		if principal == nil {
			return utils.Unauthorized(c, "Access token required")
		}
		if !enforcer.Can(principal.Role, capability) {
			return utils.Forbidden(c, message)
		}
		return c.Next()
	}
}

// AdminMiddleware guards the admin routes.
func AdminMiddleware(enforcer *authz.Enforcer, capability authz.Capability) fiber.Handler {
	return RequireCapability(enforcer, capability, "Admin access required")
}

// CurrentPrincipal returns the authenticated caller or nil.
func CurrentPrincipal(c *fiber.Ctx) *models.Principal {
	principal, _ := c.Locals(principalKey).(*models.Principal)
	return principal
}
