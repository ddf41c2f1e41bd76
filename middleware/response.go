package middleware

import (
	"coachhub/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// ErrorResponse writes the {"error": "..."} body used by every failing endpoint.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"error": message,
	})
}

// ErrorHandler is the outer boundary: AppErrors and fiber errors keep their status,
// anything else becomes a generic 500 without internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := utils.AsAppError(err); ok {
		return ErrorResponse(c, appErr.Status, appErr.Message)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ErrorResponse(c, fiberErr.Code, fiberErr.Message)
	}

	utils.Log.Errorw("unhandled error",
		"method", c.Method(),
		"path", c.Path(),
		"request_id", c.Locals("requestId"),
		"error", err,
	)
	return ErrorResponse(c, fiber.StatusInternalServerError, "サーバーエラーが発生しました")
}
