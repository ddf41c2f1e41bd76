package missionRoutes

import (
	missionController "coachhub/controllers/mission"
	"coachhub/middleware"
	"coachhub/validators"
	missionValidator "coachhub/validators/mission"

	"github.com/gofiber/fiber/v2"
)

func SetupMissionRoutes(app *fiber.App) {
	sheetGroup := app.Group("/api/mission-sheets", middleware.JWTMiddleware)
	sheetGroup.Get("/", missionController.ListMissionSheets)
	sheetGroup.Get("/:id", validators.ID("id"), missionController.GetMissionSheet)
	sheetGroup.Post("/", missionValidator.CreateMissionSheet(), missionController.CreateMissionSheet)
	sheetGroup.Patch("/:id", validators.ID("id"), missionValidator.UpdateMissionSheet(), missionController.UpdateMissionSheet)
	sheetGroup.Delete("/:id", validators.ID("id"), missionController.DeleteMissionSheet)
	sheetGroup.Post("/:id/items", validators.ID("id"), missionValidator.AddMissionItem(), missionController.AddMissionItem)

	itemGroup := app.Group("/api/mission-items", middleware.JWTMiddleware)
	itemGroup.Patch("/:id", validators.ID("id"), missionValidator.UpdateMissionItem(), missionController.UpdateMissionItem)
	itemGroup.Delete("/:id", validators.ID("id"), missionController.DeleteMissionItem)
}
