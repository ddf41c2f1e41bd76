package systemController

import (
	"coachhub/config"
	"coachhub/middleware"
	"coachhub/utils"

	"github.com/gofiber/fiber/v2"
)

func Metrics(c *fiber.Ctx) error {
	diskPath := "/"
	if config.AppConfig != nil && config.AppConfig.UploadDir != "" {
		diskPath = config.AppConfig.UploadDir
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", utils.CaptureSystemMetrics(diskPath))
}
