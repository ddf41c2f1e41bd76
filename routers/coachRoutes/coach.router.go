package coachRoutes

import (
	coachController "coachhub/controllers/coach"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/validators"
	coachValidator "coachhub/validators/coach"

	"github.com/gofiber/fiber/v2"
)

func SetupCoachRoutes(app *fiber.App) {
	adminOnly := middleware.RequireRole(models.CoachRoleAdmin)

	coachGroup := app.Group("/api/coaches", middleware.JWTMiddleware)
	coachGroup.Get("/", coachController.ListCoaches)
	coachGroup.Get("/:id", validators.ID("id"), coachController.GetCoach)
	coachGroup.Post("/", adminOnly, coachValidator.CreateCoach(), coachController.CreateCoach)
	coachGroup.Patch("/:id", validators.ID("id"), coachValidator.UpdateCoach(), coachController.UpdateCoach)
	coachGroup.Delete("/:id", adminOnly, validators.ID("id"), coachController.DeleteCoach)
}

func SetupCertificationRoutes(app *fiber.App) {
	certGroup := app.Group("/api/certifications", middleware.JWTMiddleware)
	certGroup.Get("/", coachController.ListCertifications)
	certGroup.Get("/:id", validators.ID("id"), coachController.GetCertification)
	certGroup.Post("/", coachValidator.CreateCertification(), coachController.CreateCertification)
	certGroup.Patch("/:id", validators.ID("id"), coachValidator.UpdateCertification(), coachController.UpdateCertification)
	certGroup.Delete("/:id", validators.ID("id"), coachController.DeleteCertification)
}
