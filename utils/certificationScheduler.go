package utils

import (
	"coachhub/database"
	"coachhub/models"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeCertificationScheduler starts the daily certification status sweep.
func InitializeCertificationScheduler(spec string) (*cron.Cron, error) {
	Log.Info("[CERT-SCHEDULER] Initializing certification scheduler...")

	c := cron.New(cron.WithLocation(Location()))
	if _, err := c.AddFunc(spec, func() {
		Log.Info("[CERT-SCHEDULER] Running certification status check...")
		changed, err := RefreshCertificationStatuses(Now())
		if err != nil {
			Log.Errorf("[CERT-SCHEDULER] Error refreshing certifications: %v", err)
			return
		}
		Log.Infof("[CERT-SCHEDULER] %d certification statuses changed", changed)
	}); err != nil {
		return nil, err
	}

	c.Start()
	Log.Infof("[CERT-SCHEDULER] Certification scheduler started (%s)", spec)
	return c, nil
}

// RefreshCertificationStatuses recomputes every certification with an expiry date and
// notifies the coach when one moves to expiring_soon or expired.
func RefreshCertificationStatuses(now time.Time) (int, error) {
	db := database.Database.Db

	var certs []models.Certification
	if err := db.Where("expiry_date IS NOT NULL AND expiry_date <> ''").Find(&certs).Error; err != nil {
		return 0, err
	}

	changed := 0
	for _, cert := range certs {
		status := models.CertificationStatus(cert.ExpiryDate, now)
		if status == cert.Status {
			continue
		}

		if err := db.Model(&models.Certification{}).Where("id = ?", cert.ID).
			Updates(map[string]interface{}{"status": status, "updated_at": now}).Error; err != nil {
			Log.Errorf("[CERT-SCHEDULER] Error updating certification %d: %v", cert.ID, err)
			continue
		}
		changed++

		if status == models.CertStatusValid {
			continue
		}

		var coach models.Coach
		if err := db.First(&coach, cert.CoachID).Error; err != nil {
			Log.Warnf("[CERT-SCHEDULER] Coach %d for certification %d not found", cert.CoachID, cert.ID)
			continue
		}

		expiry, _ := models.ParseDate(*cert.ExpiryDate, now.Location())
		notificationType := "certification_expiring"
		if status == models.CertStatusExpired {
			notificationType = "certification_expired"
		}
		Notify(NotificationRequest{
			Type:          notificationType,
			RecipientType: models.RecipientCoach,
			RecipientID:   coach.ID,
			Data: map[string]interface{}{
				"coach_name":         coach.Name,
				"certification_name": cert.Name,
				"expiry_date":        *cert.ExpiryDate,
				"days_left":          models.DaysUntil(expiry, now),
			},
		})
	}

	return changed, nil
}
