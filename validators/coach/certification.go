package coachValidator

import (
	"coachhub/validators"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type CreateCertificationRequest struct {
	CoachID           uint    `json:"coach_id" validate:"required"`
	Name              string  `json:"name" validate:"required"`
	Issuer            string  `json:"issuer"`
	CertificateNumber string  `json:"certificate_number"`
	IssuedDate        string  `json:"issued_date" validate:"required,datetime=2006-01-02"`
	ExpiryDate        *string `json:"expiry_date" validate:"omitempty,date_or_empty"`
	Notes             string  `json:"notes"`
}

func (r *CreateCertificationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type UpdateCertificationRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1"`
	Issuer            *string `json:"issuer"`
	CertificateNumber *string `json:"certificate_number"`
	IssuedDate        *string `json:"issued_date" validate:"omitempty,datetime=2006-01-02"`
	// an empty string clears the expiry
	ExpiryDate *string `json:"expiry_date" validate:"omitempty,date_or_empty"`
	Notes      *string `json:"notes"`
}

func CreateCertification() fiber.Handler {
	return validators.Body[CreateCertificationRequest]("validatedCertification")
}

func UpdateCertification() fiber.Handler {
	return validators.Body[UpdateCertificationRequest]("validatedCertificationUpdate")
}
