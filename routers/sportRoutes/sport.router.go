package sportRoutes

import (
	sportController "coachhub/controllers/sport"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/validators"
	sportValidator "coachhub/validators/sport"

	"github.com/gofiber/fiber/v2"
)

func SetupSportRoutes(app *fiber.App) {
	adminOnly := middleware.RequireRole(models.CoachRoleAdmin)

	sportGroup := app.Group("/api/sports", middleware.JWTMiddleware)
	sportGroup.Get("/", sportController.ListSports)
	sportGroup.Get("/:id", validators.ID("id"), sportController.GetSport)
	sportGroup.Post("/", adminOnly, sportValidator.CreateSport(), sportController.CreateSport)
	sportGroup.Patch("/:id", adminOnly, validators.ID("id"), sportValidator.UpdateSport(), sportController.UpdateSport)
	sportGroup.Delete("/:id", adminOnly, validators.ID("id"), sportController.DeleteSport)

	skillGroup := app.Group("/api/skill-items", middleware.JWTMiddleware)
	skillGroup.Get("/", sportController.ListSkillItems)
	skillGroup.Get("/:id", validators.ID("id"), sportController.GetSkillItem)
	skillGroup.Post("/", sportValidator.CreateSkillItem(), sportController.CreateSkillItem)
	skillGroup.Patch("/:id", validators.ID("id"), sportValidator.UpdateSkillItem(), sportController.UpdateSkillItem)
	skillGroup.Delete("/:id", validators.ID("id"), sportController.DeleteSkillItem)
}
