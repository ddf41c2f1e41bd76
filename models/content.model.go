package models

type Video struct {
	Base
	Title           string      `json:"title" gorm:"not null"`
	URL             string      `json:"url" gorm:"not null"`
	ThumbnailURL    string      `json:"thumbnail_url"`
	Description     string      `json:"description"`
	Category        string      `json:"category" gorm:"index;not null"`
	Level           *int        `json:"level"`
	Sport           string      `json:"sport"`
	TrainingType    string      `json:"training_type"`
	DurationSeconds int         `json:"duration_seconds"`
	IsPublished     bool        `json:"is_published"`
	Stats           *VideoStats `json:"stats,omitempty" gorm:"foreignKey:VideoID"`
}

type VideoStats struct {
	Base
	VideoID   uint  `json:"video_id" gorm:"uniqueIndex;not null"`
	ViewCount int64 `json:"view_count" gorm:"default:0"`
}

type PDFMaterial struct {
	Base
	Title          string    `json:"title" gorm:"not null"`
	FileURL        string    `json:"file_url" gorm:"not null"`
	Description    string    `json:"description"`
	Category       string    `json:"category" gorm:"index;not null"`
	Level          *int      `json:"level"`
	Sport          string    `json:"sport"`
	IsDownloadable bool      `json:"is_downloadable"`
	PageCount      int       `json:"page_count"`
	Stats          *PDFStats `json:"stats,omitempty" gorm:"foreignKey:PDFMaterialID"`
}

// TableName keeps the table name readable; gorm would otherwise produce p_d_f_materials.
func (PDFMaterial) TableName() string { return "pdf_materials" }

type PDFStats struct {
	Base
	PDFMaterialID uint  `json:"pdf_material_id" gorm:"column:pdf_material_id;uniqueIndex;not null"`
	ViewCount     int64 `json:"view_count" gorm:"default:0"`
	DownloadCount int64 `json:"download_count" gorm:"default:0"`
}

func (PDFStats) TableName() string { return "pdf_stats" }
