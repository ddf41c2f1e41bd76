package studentValidator

import (
	"coachhub/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateEvaluationRequest struct {
	StudentID      uint   `json:"student_id" validate:"required"`
	CoachID        uint   `json:"coach_id" validate:"required"`
	SkillItemID    uint   `json:"skill_item_id" validate:"required"`
	Rating         int    `json:"rating" validate:"required,min=1,max=3"`
	EvaluationDate string `json:"evaluation_date" validate:"omitempty,datetime=2006-01-02"`
	Comment        string `json:"comment"`
}

type BulkEvaluationItem struct {
	SkillItemID uint   `json:"skill_item_id" validate:"required"`
	Rating      int    `json:"rating" validate:"required,min=1,max=3"`
	Comment     string `json:"comment"`
}

type BulkEvaluationRequest struct {
	StudentID      uint                 `json:"student_id" validate:"required"`
	CoachID        uint                 `json:"coach_id" validate:"required"`
	EvaluationDate string               `json:"evaluation_date" validate:"omitempty,datetime=2006-01-02"`
	Evaluations    []BulkEvaluationItem `json:"evaluations" validate:"required,min=1,dive"`
}

type UpdateEvaluationRequest struct {
	Rating         *int    `json:"rating" validate:"omitempty,min=1,max=3"`
	EvaluationDate *string `json:"evaluation_date" validate:"omitempty,datetime=2006-01-02"`
	Comment        *string `json:"comment"`
}

func CreateEvaluation() fiber.Handler {
	return validators.Body[CreateEvaluationRequest]("validatedEvaluation")
}

func BulkEvaluation() fiber.Handler {
	return validators.Body[BulkEvaluationRequest]("validatedEvaluationBulk")
}

func UpdateEvaluation() fiber.Handler {
	return validators.Body[UpdateEvaluationRequest]("validatedEvaluationUpdate")
}
