package reportRoutes

import (
	reportController "coachhub/controllers/report"
	"coachhub/middleware"
	"coachhub/validators"
	reportValidator "coachhub/validators/report"

	"github.com/gofiber/fiber/v2"
)

func SetupReportRoutes(app *fiber.App) {
	reportGroup := app.Group("/api/reports", middleware.JWTMiddleware)
	reportGroup.Get("/", reportController.ListReports)
	reportGroup.Get("/monthly", reportValidator.MonthlyReportQuery(), reportController.MonthlyReport)
	reportGroup.Post("/monthly/generate", reportValidator.GenerateReport(), reportController.GenerateReport)
	reportGroup.Get("/:id", validators.ID("id"), reportController.GetReport)
	reportGroup.Patch("/:id", validators.ID("id"), reportValidator.UpdateReport(), reportController.UpdateReport)
	reportGroup.Post("/:id/finalize", validators.ID("id"), reportController.FinalizeReport)
	reportGroup.Delete("/:id", validators.ID("id"), reportController.DeleteReport)
}
