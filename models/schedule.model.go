package models

type CoachShift struct {
	Base
	CoachID   uint   `json:"coach_id" gorm:"index;not null"`
	Date      string `json:"date" gorm:"index;not null"`
	StartTime string `json:"start_time" gorm:"not null"`
	EndTime   string `json:"end_time" gorm:"not null"`
	School    string `json:"school" gorm:"not null"`
	Notes     string `json:"notes"`
}

type LessonSchedule struct {
	Base
	Date        string        `json:"date" gorm:"index;not null"`
	StartTime   string        `json:"start_time" gorm:"not null"`
	EndTime     string        `json:"end_time" gorm:"not null"`
	School      string        `json:"school" gorm:"not null"`
	SportID     *uint         `json:"sport_id" gorm:"index"`
	ClassType   string        `json:"class_type"`
	Title       string        `json:"title"`
	MaxStudents int           `json:"max_students" gorm:"default:0"`
	Notes       string        `json:"notes"`
	Coaches     []LessonCoach `json:"-" gorm:"foreignKey:LessonScheduleID"`
}

type LessonCoach struct {
	Base
	LessonScheduleID uint `json:"lesson_schedule_id" gorm:"uniqueIndex:idx_lesson_coach;not null"`
	CoachID          uint `json:"coach_id" gorm:"uniqueIndex:idx_lesson_coach;not null"`
}

// TimeRangeValid reports whether start precedes end; both are HH:MM.
func TimeRangeValid(start, end string) bool {
	s, err := ParseClock(start)
	if err != nil {
		return false
	}
	e, err := ParseClock(end)
	if err != nil {
		return false
	}
	return s < e
}
