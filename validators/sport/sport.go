package sportValidator

import (
	"coachhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateSportRequest struct {
	Name        string `json:"name" validate:"required"`
	NameEn      string `json:"name_en"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

func (r *CreateSportRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type UpdateSportRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1"`
	NameEn      *string `json:"name_en"`
	Icon        *string `json:"icon"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type CreateSkillItemRequest struct {
	SportID      uint   `json:"sport_id" validate:"required"`
	Name         string `json:"name" validate:"required"`
	NameEn       string `json:"name_en"`
	TrainingType string `json:"training_type" validate:"required,oneof=vision rhythm coordination"`
	Level        int    `json:"level" validate:"required,min=1,max=6"`
	Description  string `json:"description"`
	OrderIndex   int    `json:"order_index"`
}

func (r *CreateSkillItemRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type UpdateSkillItemRequest struct {
	SportID      *uint   `json:"sport_id"`
	Name         *string `json:"name" validate:"omitempty,min=1"`
	NameEn       *string `json:"name_en"`
	TrainingType *string `json:"training_type" validate:"omitempty,oneof=vision rhythm coordination"`
	Level        *int    `json:"level" validate:"omitempty,min=1,max=6"`
	Description  *string `json:"description"`
	OrderIndex   *int    `json:"order_index"`
}

func CreateSport() fiber.Handler {
	return validators.Body[CreateSportRequest]("validatedSport")
}

func UpdateSport() fiber.Handler {
	return validators.Body[UpdateSportRequest]("validatedSportUpdate")
}

func CreateSkillItem() fiber.Handler {
	return validators.Body[CreateSkillItemRequest]("validatedSkillItem")
}

func UpdateSkillItem() fiber.Handler {
	return validators.Body[UpdateSkillItemRequest]("validatedSkillItemUpdate")
}
