package authRoutes

import (
	authController "coachhub/controllers/auth"
	"coachhub/middleware"
	authValidator "coachhub/validators/auth"
	"time"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/login", middleware.RateLimiter(10, time.Minute), authValidator.Login(), authController.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authController.Me)
	authGroup.Patch("/password", middleware.JWTMiddleware, authValidator.ChangePassword(), authController.ChangePassword)
}
