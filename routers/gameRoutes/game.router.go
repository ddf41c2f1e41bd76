package gameRoutes

import (
	gameController "coachhub/controllers/game"
	gameValidator "coachhub/validators/game"

	"github.com/gofiber/fiber/v2"
)

func SetupGameRoutes(app *fiber.App) {
	gameGroup := app.Group("/api/game")

	gameGroup.Post("/checkout", gameValidator.Checkout(), gameController.Checkout)
	gameGroup.Post("/payment/notify", gameValidator.PaymentNotify(), gameController.PaymentNotify)
	gameGroup.Get("/purchases/:order_id", gameController.GetPurchase)
}
