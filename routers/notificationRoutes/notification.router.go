package notificationRoutes

import (
	notificationController "coachhub/controllers/notification"
	"coachhub/middleware"
	"coachhub/validators"
	notificationValidator "coachhub/validators/notification"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App) {
	notificationGroup := app.Group("/api/notifications", middleware.JWTMiddleware)
	notificationGroup.Get("/", notificationController.ListNotifications)
	notificationGroup.Post("/", notificationValidator.CreateNotification(), notificationController.CreateNotification)
	notificationGroup.Post("/batch", notificationValidator.BatchNotification(), notificationController.SendBatchNotifications)
	notificationGroup.Patch("/read-all", notificationController.MarkAllAsRead)
	notificationGroup.Get("/unread-count", notificationController.UnreadCount)
	notificationGroup.Get("/:id", validators.ID("id"), notificationController.GetNotification)
	notificationGroup.Patch("/:id/read", validators.ID("id"), notificationController.MarkAsRead)
	notificationGroup.Get("/:id/deliveries", validators.ID("id"), notificationController.ListDeliveries)
	notificationGroup.Delete("/:id", validators.ID("id"), notificationController.DeleteNotification)

	settingGroup := app.Group("/api/notification-settings", middleware.JWTMiddleware)
	settingGroup.Get("/:recipient_type/:recipient_id", validators.ID("recipient_id"), notificationController.GetSetting)
	settingGroup.Put("/:recipient_type/:recipient_id", validators.ID("recipient_id"), notificationValidator.UpdateSetting(), notificationController.UpdateSetting)

	app.Get("/api/notification-templates", middleware.JWTMiddleware, notificationController.ListTemplates)
}
