package models

import "github.com/lib/pq"

const (
	CoachRoleAdmin = "admin"
	CoachRoleCoach = "coach"

	CoachStatusActive   = "active"
	CoachStatusInactive = "inactive"
)

type Coach struct {
	Base
	Name           string          `json:"name" gorm:"not null"`
	NameEn         string          `json:"name_en"`
	Email          string          `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string          `json:"-"`
	Role           string          `json:"role" gorm:"default:'coach'"`
	Schools        pq.StringArray  `json:"schools" gorm:"type:text"`
	Status         string          `json:"status" gorm:"default:'active'"`
	Phone          string          `json:"phone"`
	LineUserID     string          `json:"line_user_id"`
	HireDate       string          `json:"hire_date"`
	Certifications []Certification `json:"certifications,omitempty" gorm:"foreignKey:CoachID"`
}
