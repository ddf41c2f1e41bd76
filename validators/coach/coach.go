package coachValidator

import (
	"coachhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateCoachRequest struct {
	Name       string   `json:"name" validate:"required"`
	NameEn     string   `json:"name_en"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"omitempty,min=8"`
	Role       string   `json:"role" validate:"required,oneof=admin coach"`
	Schools    []string `json:"schools" validate:"omitempty,dive,oneof=ageo okegawa"`
	Status     string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Phone      string   `json:"phone"`
	LineUserID string   `json:"line_user_id"`
	HireDate   string   `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateCoachRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.Status == "" {
		r.Status = "active"
	}
}

type UpdateCoachRequest struct {
	Name       *string   `json:"name" validate:"omitempty,min=1"`
	NameEn     *string   `json:"name_en"`
	Email      *string   `json:"email" validate:"omitempty,email"`
	Password   *string   `json:"password" validate:"omitempty,min=8"`
	Role       *string   `json:"role" validate:"omitempty,oneof=admin coach"`
	Schools    *[]string `json:"schools" validate:"omitempty,dive,oneof=ageo okegawa"`
	Status     *string   `json:"status" validate:"omitempty,oneof=active inactive"`
	Phone      *string   `json:"phone"`
	LineUserID *string   `json:"line_user_id"`
	HireDate   *string   `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *UpdateCoachRequest) Normalize() {
	if r.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &email
	}
}

func CreateCoach() fiber.Handler {
	return validators.Body[CreateCoachRequest]("validatedCoach")
}

func UpdateCoach() fiber.Handler {
	return validators.Body[UpdateCoachRequest]("validatedCoachUpdate")
}
