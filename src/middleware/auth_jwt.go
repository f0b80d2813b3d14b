package middleware

import (
	"strings"

	"Backend-InspectPortal/src/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthJWT is the upstream capability gate: every portal route runs behind it.
// The renderer and schema services never check authorization themselves.
func AuthJWT(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing or invalid Authorization header"})
	}

	tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := utils.ParseJWT(tokenStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token", "detail": err.Error()})
	}

	c.Locals("userId", claims.UserID)
	c.Locals("username", claims.Username)
	c.Locals("role", claims.Role)
	c.Locals("claims", claims)

	return c.Next()
}

// RequirePermission ตรวจสิทธิ์จาก claims ที่ AuthJWT วางไว้
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*utils.JWTClaims)
		if !ok || !claims.HasPermission(perm) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
		}
		return c.Next()
	}
}

// IsManager reports whether the current caller may act on every record.
func IsManager(c *fiber.Ctx) bool {
	claims, ok := c.Locals("claims").(*utils.JWTClaims)
	if !ok {
		return false
	}
	return claims.Role == "admin" || claims.HasPermission("inspect_files_access")
}
