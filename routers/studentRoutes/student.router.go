package studentRoutes

import (
	studentController "coachhub/controllers/student"
	"coachhub/middleware"
	"coachhub/validators"
	studentValidator "coachhub/validators/student"

	"github.com/gofiber/fiber/v2"
)

func SetupStudentRoutes(app *fiber.App) {
	studentGroup := app.Group("/api/students", middleware.JWTMiddleware)
	studentGroup.Get("/", studentController.ListStudents)
	studentGroup.Get("/:id", validators.ID("id"), studentController.GetStudent)
	studentGroup.Post("/", studentValidator.CreateStudent(), studentController.CreateStudent)
	studentGroup.Patch("/:id", validators.ID("id"), studentValidator.UpdateStudent(), studentController.UpdateStudent)
	studentGroup.Delete("/:id", validators.ID("id"), studentController.DeleteStudent)
}

func SetupEvaluationRoutes(app *fiber.App) {
	evalGroup := app.Group("/api/evaluations", middleware.JWTMiddleware)
	evalGroup.Get("/", studentController.ListEvaluations)
	evalGroup.Post("/bulk", studentValidator.BulkEvaluation(), studentController.BulkCreateEvaluations)
	evalGroup.Get("/:id", validators.ID("id"), studentController.GetEvaluation)
	evalGroup.Post("/", studentValidator.CreateEvaluation(), studentController.CreateEvaluation)
	evalGroup.Patch("/:id", validators.ID("id"), studentValidator.UpdateEvaluation(), studentController.UpdateEvaluation)
	evalGroup.Delete("/:id", validators.ID("id"), studentController.DeleteEvaluation)
}

func SetupBadgeRoutes(app *fiber.App) {
	badgeGroup := app.Group("/api/badges", middleware.JWTMiddleware)
	badgeGroup.Get("/", studentController.ListBadges)
	badgeGroup.Get("/progress/:student_id", validators.ID("student_id"), studentController.BadgeProgress)
	badgeGroup.Get("/:id", validators.ID("id"), studentController.GetBadge)
	badgeGroup.Post("/", studentValidator.CreateBadge(), studentController.CreateBadge)
	badgeGroup.Patch("/:id", validators.ID("id"), studentValidator.UpdateBadge(), studentController.UpdateBadge)
	badgeGroup.Delete("/:id", validators.ID("id"), studentController.DeleteBadge)
}

func SetupAttendanceRoutes(app *fiber.App) {
	attendanceGroup := app.Group("/api/attendance", middleware.JWTMiddleware)
	attendanceGroup.Get("/", studentController.ListAttendance)
	attendanceGroup.Post("/bulk", studentValidator.BulkAttendance(), studentController.BulkMarkAttendance)
	attendanceGroup.Get("/:id", validators.ID("id"), studentController.GetAttendance)
	attendanceGroup.Post("/", studentValidator.CreateAttendance(), studentController.CreateAttendance)
	attendanceGroup.Patch("/:id", validators.ID("id"), studentValidator.UpdateAttendance(), studentController.UpdateAttendance)
	attendanceGroup.Delete("/:id", validators.ID("id"), studentController.DeleteAttendance)
}
