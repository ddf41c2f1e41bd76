package scheduleValidator

import (
	"coachhub/models"
	"coachhub/utils"
	"coachhub/validators"

	"github.com/gofiber/fiber/v2"
)

// ErrTimeRange is returned whenever start_time is not before end_time.
const ErrTimeRange = "start_time は end_time より前の時刻を指定してください"

type CreateShiftRequest struct {
	CoachID   uint   `json:"coach_id" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
	School    string `json:"school" validate:"required,oneof=ageo okegawa"`
	Notes     string `json:"notes"`
}

func (r *CreateShiftRequest) Check() error {
	if !models.TimeRangeValid(r.StartTime, r.EndTime) {
		return utils.ErrBadRequest(ErrTimeRange)
	}
	return nil
}

type UpdateShiftRequest struct {
	CoachID   *uint   `json:"coach_id"`
	Date      *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	School    *string `json:"school" validate:"omitempty,oneof=ageo okegawa"`
	Notes     *string `json:"notes"`
}

type CreateLessonRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	School      string `json:"school" validate:"required,oneof=ageo okegawa"`
	SportID     *uint  `json:"sport_id"`
	ClassType   string `json:"class_type" validate:"omitempty,oneof=regular advanced private trial"`
	Title       string `json:"title"`
	MaxStudents int    `json:"max_students" validate:"min=0"`
	Notes       string `json:"notes"`
	CoachIDs    []uint `json:"coach_ids" validate:"omitempty,dive,required"`
}

func (r *CreateLessonRequest) Check() error {
	if !models.TimeRangeValid(r.StartTime, r.EndTime) {
		return utils.ErrBadRequest(ErrTimeRange)
	}
	return nil
}

type UpdateLessonRequest struct {
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"start_time" validate:"omitempty,datetime=15:04"`
	EndTime     *string `json:"end_time" validate:"omitempty,datetime=15:04"`
	School      *string `json:"school" validate:"omitempty,oneof=ageo okegawa"`
	SportID     *uint   `json:"sport_id"`
	ClassType   *string `json:"class_type" validate:"omitempty,oneof=regular advanced private trial"`
	Title       *string `json:"title"`
	MaxStudents *int    `json:"max_students" validate:"omitempty,min=0"`
	Notes       *string `json:"notes"`
	// replaces the assigned coaches when present
	CoachIDs *[]uint `json:"coach_ids" validate:"omitempty,dive,required"`
}

func CreateShift() fiber.Handler {
	return validators.Body[CreateShiftRequest]("validatedShift")
}

func UpdateShift() fiber.Handler {
	return validators.Body[UpdateShiftRequest]("validatedShiftUpdate")
}

func CreateLesson() fiber.Handler {
	return validators.Body[CreateLessonRequest]("validatedLesson")
}

func UpdateLesson() fiber.Handler {
	return validators.Body[UpdateLessonRequest]("validatedLessonUpdate")
}
