package systemRoutes

import (
	systemController "coachhub/controllers/system"
	"coachhub/middleware"
	"coachhub/models"

	"github.com/gofiber/fiber/v2"
)

func SetupSystemRoutes(app *fiber.App) {
	app.Get("/api/system/metrics", middleware.JWTMiddleware, middleware.RequireRole(models.CoachRoleAdmin), systemController.Metrics)
}
