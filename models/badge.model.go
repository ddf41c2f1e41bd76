package models

const (
	BadgeStar   = "star"
	BadgeShield = "shield"
	BadgeCrown  = "crown"
)

type Badge struct {
	Base
	StudentID  uint   `json:"student_id" gorm:"index;not null"`
	Sport      string `json:"sport" gorm:"not null"`
	Category   string `json:"category" gorm:"not null"`
	BadgeType  string `json:"badge_type" gorm:"not null"`
	EarnedDate string `json:"earned_date"`
}

// badgeRequired is how many badges of a tier complete one category.
var badgeRequired = map[string]int{
	BadgeStar:   3,
	BadgeShield: 5,
	BadgeCrown:  8,
}

// BadgeTypeForLevel maps level bands 1-2, 3-4, 5-6 to star, shield, crown.
func BadgeTypeForLevel(level int) string {
	switch {
	case level >= 5:
		return BadgeCrown
	case level >= 3:
		return BadgeShield
	default:
		return BadgeStar
	}
}

// BadgeRequiredCount returns the fixed threshold for a badge tier.
func BadgeRequiredCount(badgeType string) int {
	return badgeRequired[badgeType]
}
