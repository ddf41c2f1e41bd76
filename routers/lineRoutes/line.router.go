package lineRoutes

import (
	lineController "coachhub/controllers/line"

	"github.com/gofiber/fiber/v2"
)

// SetupLineRoutes registers the LINE webhook. It is authenticated by the channel
// signature, not by JWT.
func SetupLineRoutes(app *fiber.App) {
	app.Post("/api/line/webhook", lineController.Webhook)
}
