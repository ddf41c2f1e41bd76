package studentValidator

import (
	"coachhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateStudentRequest struct {
	Name               string `json:"name" validate:"required"`
	NameKana           string `json:"name_kana"`
	BirthDate          string `json:"birth_date" validate:"required,datetime=2006-01-02"`
	Level              int    `json:"level" validate:"required,min=1,max=6"`
	School             string `json:"school" validate:"required,oneof=ageo okegawa"`
	ClassType          string `json:"class_type" validate:"required,oneof=regular advanced private trial"`
	Status             string `json:"status" validate:"omitempty,oneof=active inactive graduated"`
	SportID            *uint  `json:"sport_id"`
	EnrollmentDate     string `json:"enrollment_date" validate:"omitempty,datetime=2006-01-02"`
	GuardianName       string `json:"guardian_name"`
	GuardianEmail      string `json:"guardian_email" validate:"omitempty,email"`
	GuardianLineUserID string `json:"guardian_line_user_id"`
	Notes              string `json:"notes"`
}

func (r *CreateStudentRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.GuardianEmail = strings.ToLower(strings.TrimSpace(r.GuardianEmail))
	if r.Status == "" {
		r.Status = "active"
	}
}

type UpdateStudentRequest struct {
	Name               *string `json:"name" validate:"omitempty,min=1"`
	NameKana           *string `json:"name_kana"`
	BirthDate          *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Level              *int    `json:"level" validate:"omitempty,min=1,max=6"`
	School             *string `json:"school" validate:"omitempty,oneof=ageo okegawa"`
	ClassType          *string `json:"class_type" validate:"omitempty,oneof=regular advanced private trial"`
	Status             *string `json:"status" validate:"omitempty,oneof=active inactive graduated"`
	SportID            *uint   `json:"sport_id"`
	EnrollmentDate     *string `json:"enrollment_date" validate:"omitempty,datetime=2006-01-02"`
	GuardianName       *string `json:"guardian_name"`
	GuardianEmail      *string `json:"guardian_email" validate:"omitempty,email"`
	GuardianLineUserID *string `json:"guardian_line_user_id"`
	Notes              *string `json:"notes"`
}

func CreateStudent() fiber.Handler {
	return validators.Body[CreateStudentRequest]("validatedStudent")
}

func UpdateStudent() fiber.Handler {
	return validators.Body[UpdateStudentRequest]("validatedStudentUpdate")
}
