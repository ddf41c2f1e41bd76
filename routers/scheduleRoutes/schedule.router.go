package scheduleRoutes

import (
	scheduleController "coachhub/controllers/schedule"
	"coachhub/middleware"
	"coachhub/validators"
	scheduleValidator "coachhub/validators/schedule"

	"github.com/gofiber/fiber/v2"
)

func SetupScheduleRoutes(app *fiber.App) {
	shiftGroup := app.Group("/api/shifts", middleware.JWTMiddleware)
	shiftGroup.Get("/", scheduleController.ListShifts)
	shiftGroup.Get("/:id", validators.ID("id"), scheduleController.GetShift)
	shiftGroup.Post("/", scheduleValidator.CreateShift(), scheduleController.CreateShift)
	shiftGroup.Patch("/:id", validators.ID("id"), scheduleValidator.UpdateShift(), scheduleController.UpdateShift)
	shiftGroup.Delete("/:id", validators.ID("id"), scheduleController.DeleteShift)

	lessonGroup := app.Group("/api/lessons", middleware.JWTMiddleware)
	lessonGroup.Get("/", scheduleController.ListLessons)
	lessonGroup.Get("/:id", validators.ID("id"), scheduleController.GetLesson)
	lessonGroup.Post("/", scheduleValidator.CreateLesson(), scheduleController.CreateLesson)
	lessonGroup.Patch("/:id", validators.ID("id"), scheduleValidator.UpdateLesson(), scheduleController.UpdateLesson)
	lessonGroup.Delete("/:id", validators.ID("id"), scheduleController.DeleteLesson)
}
