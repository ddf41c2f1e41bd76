package models

const (
	StudentStatusActive    = "active"
	StudentStatusInactive  = "inactive"
	StudentStatusGraduated = "graduated"

	MinLevel = 1
	MaxLevel = 6
)

type Student struct {
	Base
	Name               string `json:"name" gorm:"not null"`
	NameKana           string `json:"name_kana"`
	BirthDate          string `json:"birth_date" gorm:"not null"`
	Level              int    `json:"level" gorm:"not null;default:1"`
	School             string `json:"school" gorm:"index;not null"`
	ClassType          string `json:"class_type" gorm:"not null"`
	Status             string `json:"status" gorm:"index;default:'active'"`
	SportID            *uint  `json:"sport_id" gorm:"index"`
	EnrollmentDate     string `json:"enrollment_date"`
	GuardianName       string `json:"guardian_name"`
	GuardianEmail      string `json:"guardian_email"`
	GuardianLineUserID string `json:"guardian_line_user_id"`
	Notes              string `json:"notes"`
}

type levelTitle struct {
	Ja string
	En string
}

var levelTitles = map[int]levelTitle{
	1: {Ja: "ルーキー", En: "Rookie"},
	2: {Ja: "チャレンジャー", En: "Challenger"},
	3: {Ja: "ファイター", En: "Fighter"},
	4: {Ja: "エース", En: "Ace"},
	5: {Ja: "マスター", En: "Master"},
	6: {Ja: "レジェンド", En: "Legend"},
}

// LevelTitle returns the title shown for a student level in the given locale.
func LevelTitle(level int, locale string) string {
	t, ok := levelTitles[level]
	if !ok {
		return ""
	}
	if locale == "en" {
		return t.En
	}
	return t.Ja
}

type Evaluation struct {
	Base
	StudentID      uint   `json:"student_id" gorm:"index;not null"`
	CoachID        uint   `json:"coach_id" gorm:"index;not null"`
	SkillItemID    uint   `json:"skill_item_id" gorm:"index;not null"`
	Rating         int    `json:"rating" gorm:"not null"`
	EvaluationDate string `json:"evaluation_date" gorm:"index"`
	Comment        string `json:"comment"`
}

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceLate    = "late"
	AttendanceExcused = "excused"
)

type Attendance struct {
	Base
	StudentID  uint   `json:"student_id" gorm:"uniqueIndex:idx_attendance_student_date;not null"`
	LessonID   *uint  `json:"lesson_id" gorm:"index"`
	LessonDate string `json:"lesson_date" gorm:"uniqueIndex:idx_attendance_student_date;not null"`
	Status     string `json:"status" gorm:"not null"`
	Note       string `json:"note"`
}

// CountsAsPresent reports whether the attendance status counts toward the attendance rate.
func (a Attendance) CountsAsPresent() bool {
	return a.Status == AttendancePresent || a.Status == AttendanceLate
}
