package models

type Sport struct {
	Base
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	NameEn      string `json:"name_en"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type SkillItem struct {
	Base
	SportID      uint   `json:"sport_id" gorm:"index;not null"`
	Name         string `json:"name" gorm:"not null"`
	NameEn       string `json:"name_en"`
	TrainingType string `json:"training_type" gorm:"index;not null"`
	Level        int    `json:"level" gorm:"not null"`
	Description  string `json:"description"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
}
