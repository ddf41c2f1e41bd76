package missionValidator

import (
	"coachhub/utils"
	"coachhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type MissionItemInput struct {
	SkillItemID       *uint  `json:"skill_item_id"`
	TargetDescription string `json:"target_description" validate:"required"`
	SuccessCriteria   string `json:"success_criteria"`
	OrderIndex        *int   `json:"order_index"`
}

func (r *MissionItemInput) Normalize() {
	r.TargetDescription = strings.TrimSpace(r.TargetDescription)
}

type CreateMissionSheetRequest struct {
	StudentID    uint               `json:"student_id" validate:"required"`
	CoachID      uint               `json:"coach_id" validate:"required"`
	LessonDate   string             `json:"lesson_date" validate:"required,datetime=2006-01-02"`
	Notes        string             `json:"notes"`
	MissionItems []MissionItemInput `json:"mission_items" validate:"dive"`
}

func (r *CreateMissionSheetRequest) Normalize() {
	for i := range r.MissionItems {
		r.MissionItems[i].Normalize()
	}
}

func (r *CreateMissionSheetRequest) Check() error {
	if len(r.MissionItems) == 0 {
		return utils.ErrBadRequest("ミッション項目が設定されていません")
	}
	return nil
}

type UpdateMissionSheetRequest struct {
	CoachID    *uint   `json:"coach_id"`
	LessonDate *string `json:"lesson_date" validate:"omitempty,datetime=2006-01-02"`
	Notes      *string `json:"notes"`
}

type UpdateMissionItemRequest struct {
	Completed         *bool   `json:"completed"`
	SkillItemID       *uint   `json:"skill_item_id"`
	TargetDescription *string `json:"target_description" validate:"omitempty,min=1"`
	SuccessCriteria   *string `json:"success_criteria"`
	OrderIndex        *int    `json:"order_index"`
}

func (r *UpdateMissionItemRequest) Normalize() {
	if r.TargetDescription != nil {
		trimmed := strings.TrimSpace(*r.TargetDescription)
		r.TargetDescription = &trimmed
	}
}

func CreateMissionSheet() fiber.Handler {
	return validators.Body[CreateMissionSheetRequest]("validatedMissionSheet")
}

func UpdateMissionSheet() fiber.Handler {
	return validators.Body[UpdateMissionSheetRequest]("validatedMissionSheetUpdate")
}

func AddMissionItem() fiber.Handler {
	return validators.Body[MissionItemInput]("validatedMissionItem")
}

func UpdateMissionItem() fiber.Handler {
	return validators.Body[UpdateMissionItemRequest]("validatedMissionItemUpdate")
}
