package models

import "time"

// Base replaces gorm.Model so the JSON keys stay snake_case. Rows are hard-deleted
// so unique keys (coach email, sport name) can be reused.
type Base struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

const (
	SchoolAgeo    = "ageo"
	SchoolOkegawa = "okegawa"
)

const (
	TrainingVision       = "vision"
	TrainingRhythm       = "rhythm"
	TrainingCoordination = "coordination"
)

// TrainingTypes lists the pedagogical categories in display order.
var TrainingTypes = []string{TrainingVision, TrainingRhythm, TrainingCoordination}

// ParseDate parses a YYYY-MM-DD calendar date in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, value, loc)
}

// ParseClock parses an HH:MM clock time into minutes after midnight.
func ParseClock(value string) (int, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
