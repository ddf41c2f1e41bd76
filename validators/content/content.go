package contentValidator

import (
	"coachhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateVideoRequest struct {
	Title           string `json:"title" validate:"required"`
	URL             string `json:"url" validate:"required"`
	ThumbnailURL    string `json:"thumbnail_url"`
	Description     string `json:"description"`
	Category        string `json:"category" validate:"required"`
	Level           *int   `json:"level" validate:"omitempty,min=1,max=6"`
	Sport           string `json:"sport"`
	TrainingType    string `json:"training_type" validate:"omitempty,oneof=vision rhythm coordination"`
	DurationSeconds int    `json:"duration_seconds" validate:"min=0"`
	IsPublished     *bool  `json:"is_published"`
}

func (r *CreateVideoRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
}

type UpdateVideoRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1"`
	URL             *string `json:"url" validate:"omitempty,min=1"`
	ThumbnailURL    *string `json:"thumbnail_url"`
	Description     *string `json:"description"`
	Category        *string `json:"category" validate:"omitempty,min=1"`
	Level           *int    `json:"level" validate:"omitempty,min=1,max=6"`
	Sport           *string `json:"sport"`
	TrainingType    *string `json:"training_type" validate:"omitempty,oneof=vision rhythm coordination"`
	DurationSeconds *int    `json:"duration_seconds" validate:"omitempty,min=0"`
	IsPublished     *bool   `json:"is_published"`
}

type CreatePDFRequest struct {
	Title          string `json:"title" validate:"required"`
	FileURL        string `json:"file_url" validate:"required"`
	Description    string `json:"description"`
	Category       string `json:"category" validate:"required"`
	Level          *int   `json:"level" validate:"omitempty,min=1,max=6"`
	Sport          string `json:"sport"`
	IsDownloadable *bool  `json:"is_downloadable"`
	PageCount      int    `json:"page_count" validate:"min=0"`
}

func (r *CreatePDFRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.FileURL = strings.TrimSpace(r.FileURL)
}

type UpdatePDFRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1"`
	FileURL        *string `json:"file_url" validate:"omitempty,min=1"`
	Description    *string `json:"description"`
	Category       *string `json:"category" validate:"omitempty,min=1"`
	Level          *int    `json:"level" validate:"omitempty,min=1,max=6"`
	Sport          *string `json:"sport"`
	IsDownloadable *bool   `json:"is_downloadable"`
	PageCount      *int    `json:"page_count" validate:"omitempty,min=0"`
}

func CreateVideo() fiber.Handler {
	return validators.Body[CreateVideoRequest]("validatedVideo")
}

func UpdateVideo() fiber.Handler {
	return validators.Body[UpdateVideoRequest]("validatedVideoUpdate")
}

func CreatePDF() fiber.Handler {
	return validators.Body[CreatePDFRequest]("validatedPDF")
}

func UpdatePDF() fiber.Handler {
	return validators.Body[UpdatePDFRequest]("validatedPDFUpdate")
}
