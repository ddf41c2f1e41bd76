package studentValidator

import (
	"coachhub/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateAttendanceRequest struct {
	StudentID  uint   `json:"student_id" validate:"required"`
	LessonID   *uint  `json:"lesson_id"`
	LessonDate string `json:"lesson_date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" validate:"required,oneof=present absent late excused"`
	Note       string `json:"note"`
}

type AttendanceRecord struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent late excused"`
	Note      string `json:"note"`
}

type BulkAttendanceRequest struct {
	LessonID   *uint              `json:"lesson_id"`
	LessonDate string             `json:"lesson_date" validate:"required,datetime=2006-01-02"`
	Records    []AttendanceRecord `json:"records" validate:"required,min=1,dive"`
}

type UpdateAttendanceRequest struct {
	LessonID *uint   `json:"lesson_id"`
	Status   *string `json:"status" validate:"omitempty,oneof=present absent late excused"`
	Note     *string `json:"note"`
}

func CreateAttendance() fiber.Handler {
	return validators.Body[CreateAttendanceRequest]("validatedAttendance")
}

func BulkAttendance() fiber.Handler {
	return validators.Body[BulkAttendanceRequest]("validatedAttendanceBulk")
}

func UpdateAttendance() fiber.Handler {
	return validators.Body[UpdateAttendanceRequest]("validatedAttendanceUpdate")
}
