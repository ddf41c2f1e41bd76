package reportValidator

import (
	"coachhub/validators"

	"github.com/gofiber/fiber/v2"
)

type MonthlyReportRequest struct {
	StudentID uint `json:"student_id" query:"student_id" validate:"required"`
	Year      int  `json:"year" query:"year" validate:"required,min=2000,max=2100"`
	Month     int  `json:"month" query:"month" validate:"required,min=1,max=12"`
}

type UpdateReportRequest struct {
	CoachComment *string `json:"coach_comment" validate:"required"`
}

func MonthlyReportQuery() fiber.Handler {
	return validators.Query[MonthlyReportRequest]("validatedReportQuery")
}

func GenerateReport() fiber.Handler {
	return validators.Body[MonthlyReportRequest]("validatedReportGenerate")
}

func UpdateReport() fiber.Handler {
	return validators.Body[UpdateReportRequest]("validatedReportUpdate")
}
