package middleware

import (
	"strings"

	"carelink-backend/internal/config"
	"carelink-backend/internal/pkg/jwt"
	"carelink-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware. Principal identity
// and kind are always read from verified claims, never from request
// bodies.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		// 1. Authorization header
		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// 2. Fallback to cookie
		if accessToken == "" {
			accessToken = c.Cookies("access_token")
		}

		// 3. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 4. Validate token
		claims, err := jwt.ValidateToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired, please log in again")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 5. Set principal info in context
		c.Locals("principalID", claims.Subject)
		c.Locals("kind", claims.Kind)
		c.Locals("name", claims.Name)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)
		c.Locals("mrn", claims.MRN)

		return c.Next()
	}
}

// KindMiddleware restricts a route to one principal kind
func KindMiddleware(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actual, ok := c.Locals("kind").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if actual != kind {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// PatientOnly middleware allows only patient tokens
func PatientOnly() fiber.Handler {
	return KindMiddleware(jwt.KindPatient)
}

// StaffOnly middleware allows only staff tokens
func StaffOnly() fiber.Handler {
	return KindMiddleware(jwt.KindStaff)
}

// RoleMiddleware creates role-based authorization middleware for staff
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only Admin staff
func AdminOnly() fiber.Handler {
	return RoleMiddleware("Admin")
}
