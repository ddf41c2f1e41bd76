package models

import (
	"math"
	"time"
)

const (
	CertStatusValid        = "valid"
	CertStatusExpiringSoon = "expiring_soon"
	CertStatusExpired      = "expired"

	// ExpiringSoonDays is the inclusive window in which a certification is flagged.
	ExpiringSoonDays = 30
)

type Certification struct {
	Base
	CoachID           uint    `json:"coach_id" gorm:"index;not null"`
	Name              string  `json:"name" gorm:"not null"`
	Issuer            string  `json:"issuer"`
	CertificateNumber string  `json:"certificate_number"`
	IssuedDate        string  `json:"issued_date" gorm:"not null"`
	ExpiryDate        *string `json:"expiry_date"`
	Status            string  `json:"status" gorm:"default:'valid'"`
	Notes             string  `json:"notes"`
}

// DaysUntil returns ceil((expiry - now) / 24h).
func DaysUntil(expiry, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}

// CertificationStatus derives the status from an optional YYYY-MM-DD expiry date.
// An unparsable expiry is treated like a missing one.
func CertificationStatus(expiryDate *string, now time.Time) string {
	if expiryDate == nil || *expiryDate == "" {
		return CertStatusValid
	}
	expiry, err := ParseDate(*expiryDate, now.Location())
	if err != nil {
		return CertStatusValid
	}
	days := DaysUntil(expiry, now)
	switch {
	case days <= 0:
		return CertStatusExpired
	case days <= ExpiringSoonDays:
		return CertStatusExpiringSoon
	default:
		return CertStatusValid
	}
}
