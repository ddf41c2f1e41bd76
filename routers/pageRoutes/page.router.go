package pageRoutes

import (
	pagesController "coachhub/controllers/pages"
	"coachhub/middleware"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SetupPageRoutes registers the server-rendered pages below /:locale. It must be
// registered last so /api routes win.
func SetupPageRoutes(app *fiber.App) {
	pageGroup := app.Group("/:locale")
	guard := pagesController.RequireLocale

	pageGroup.Get("/login", guard, pagesController.LoginPage)
	pageGroup.Post("/login", guard, middleware.RateLimiter(10, time.Minute), pagesController.Login)
	pageGroup.Post("/logout", guard, pagesController.Logout)

	pageGroup.Get("/", guard, middleware.PageSession, pagesController.Dashboard)
	pageGroup.Get("/students", guard, middleware.PageSession, pagesController.Students)
	pageGroup.Get("/coaches", guard, middleware.PageSession, pagesController.Coaches)
}
