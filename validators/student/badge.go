package studentValidator

import (
	"coachhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateBadgeRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Sport     string `json:"sport" validate:"required"`
	Category  string `json:"category" validate:"required,oneof=vision rhythm coordination"`
	// derived from the student's level when empty
	BadgeType  string `json:"badge_type" validate:"omitempty,oneof=star shield crown"`
	EarnedDate string `json:"earned_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateBadgeRequest) Normalize() {
	r.Sport = strings.TrimSpace(r.Sport)
}

type UpdateBadgeRequest struct {
	Sport      *string `json:"sport" validate:"omitempty,min=1"`
	Category   *string `json:"category" validate:"omitempty,oneof=vision rhythm coordination"`
	BadgeType  *string `json:"badge_type" validate:"omitempty,oneof=star shield crown"`
	EarnedDate *string `json:"earned_date" validate:"omitempty,datetime=2006-01-02"`
}

func CreateBadge() fiber.Handler {
	return validators.Body[CreateBadgeRequest]("validatedBadge")
}

func UpdateBadge() fiber.Handler {
	return validators.Body[UpdateBadgeRequest]("validatedBadgeUpdate")
}
