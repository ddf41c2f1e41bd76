package middleware

import (
	"coachhub/utils"

	"github.com/gofiber/fiber/v2"
)

// RequireRole returns a middleware that lets through only the given coach roles.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return utils.ErrUnauthorized("認証が必要です")
		}
		if !allowed[role] {
			return utils.ErrForbidden("この操作を行う権限がありません")
		}
		return c.Next()
	}
}
