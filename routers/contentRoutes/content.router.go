package contentRoutes

import (
	contentController "coachhub/controllers/content"
	"coachhub/middleware"
	"coachhub/validators"
	contentValidator "coachhub/validators/content"

	"github.com/gofiber/fiber/v2"
)

func SetupContentRoutes(app *fiber.App) {
	videoGroup := app.Group("/api/videos", middleware.JWTMiddleware)
	videoGroup.Get("/", contentController.ListVideos)
	videoGroup.Get("/:id", validators.ID("id"), contentController.GetVideo)
	videoGroup.Post("/", contentValidator.CreateVideo(), contentController.CreateVideo)
	videoGroup.Patch("/:id", validators.ID("id"), contentValidator.UpdateVideo(), contentController.UpdateVideo)
	videoGroup.Delete("/:id", validators.ID("id"), contentController.DeleteVideo)
	videoGroup.Post("/:id/view", validators.ID("id"), contentController.RecordVideoView)
	videoGroup.Post("/:id/thumbnail", validators.ID("id"), contentController.UploadVideoThumbnail)

	pdfGroup := app.Group("/api/pdfs", middleware.JWTMiddleware)
	pdfGroup.Get("/", contentController.ListPDFs)
	pdfGroup.Get("/:id", validators.ID("id"), contentController.GetPDF)
	pdfGroup.Post("/", contentValidator.CreatePDF(), contentController.CreatePDF)
	pdfGroup.Patch("/:id", validators.ID("id"), contentValidator.UpdatePDF(), contentController.UpdatePDF)
	pdfGroup.Delete("/:id", validators.ID("id"), contentController.DeletePDF)
	pdfGroup.Post("/:id/view", validators.ID("id"), contentController.RecordPDFView)
	pdfGroup.Post("/:id/download", validators.ID("id"), contentController.RecordPDFDownload)
}
