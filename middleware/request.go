package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
)

// RequestID propagates or assigns X-Request-ID.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Locals("requestId", id)
		return c.Next()
	}
}

// Recovery turns panics into errors handled by ErrorHandler.
func Recovery() fiber.Handler {
	return recover.New(recover.Config{EnableStackTrace: true})
}

// RateLimiter limits requests per client IP.
func RateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return ErrorResponse(c, fiber.StatusTooManyRequests, "リクエストが多すぎます。しばらくしてから再度お試しください")
		},
	})
}
