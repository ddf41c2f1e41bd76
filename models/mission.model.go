package models

import "time"

const (
	MissionDraft      = "draft"
	MissionInProgress = "in_progress"
	MissionCompleted  = "completed"
)

type MissionSheet struct {
	Base
	StudentID   uint          `json:"student_id" gorm:"index;not null"`
	CoachID     uint          `json:"coach_id" gorm:"index;not null"`
	LessonDate  string        `json:"lesson_date" gorm:"index;not null"`
	Status      string        `json:"status" gorm:"default:'draft'"`
	Notes       string        `json:"notes"`
	CompletedAt *time.Time    `json:"completed_at"`
	Items       []MissionItem `json:"mission_items,omitempty" gorm:"foreignKey:MissionSheetID"`
}

type MissionItem struct {
	Base
	MissionSheetID    uint       `json:"mission_sheet_id" gorm:"index;not null"`
	SkillItemID       *uint      `json:"skill_item_id"`
	TargetDescription string     `json:"target_description" gorm:"not null"`
	SuccessCriteria   string     `json:"success_criteria"`
	OrderIndex        int        `json:"order_index" gorm:"default:0"`
	CompletedAt       *time.Time `json:"completed_at"`
}

// MissionSheetStatus rolls item completion up into the sheet status.
func MissionSheetStatus(items []MissionItem) string {
	done := 0
	for _, item := range items {
		if item.CompletedAt != nil {
			done++
		}
	}
	switch {
	case len(items) > 0 && done == len(items):
		return MissionCompleted
	case done > 0:
		return MissionInProgress
	default:
		return MissionDraft
	}
}
