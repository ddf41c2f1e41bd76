package models

import (
	"time"

	"gorm.io/datatypes"
)

// MonthsPerLevel is how many months of enrollment are expected per level step.
const MonthsPerLevel = 6

type MonthlyReport struct {
	Base
	StudentID       uint           `json:"student_id" gorm:"uniqueIndex:idx_report_period;not null"`
	Year            int            `json:"year" gorm:"uniqueIndex:idx_report_period;not null"`
	Month           int            `json:"month" gorm:"uniqueIndex:idx_report_period;not null"`
	AttendanceRate  float64        `json:"attendance_rate"`
	PresentCount    int            `json:"present_count"`
	TotalLessons    int            `json:"total_lessons"`
	VisionAvg       float64        `json:"vision_avg"`
	RhythmAvg       float64        `json:"rhythm_avg"`
	CoordinationAvg float64        `json:"coordination_avg"`
	BadgeProgress   datatypes.JSON `json:"badge_progress"`
	CurrentLevel    int            `json:"current_level"`
	ExpectedLevel   int            `json:"expected_level"`
	OnTrack         bool           `json:"on_track"`
	CoachComment    string         `json:"coach_comment" gorm:"type:text"`
	GeneratedAt     *time.Time     `json:"generated_at"`
	IsFinalized     bool           `json:"is_finalized" gorm:"default:false"`
	FinalizedAt     *time.Time     `json:"finalized_at"`
}

// ExpectedLevel is the level a student should reach after monthsEnrolled months.
func ExpectedLevel(monthsEnrolled int) int {
	if monthsEnrolled < 0 {
		monthsEnrolled = 0
	}
	level := MinLevel + monthsEnrolled/MonthsPerLevel
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// MonthsBetween counts whole calendar months from start to end.
func MonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
