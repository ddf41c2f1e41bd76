package notificationValidator

import (
	"coachhub/utils"
	"coachhub/validators"

	"github.com/gofiber/fiber/v2"
)

type Recipient struct {
	RecipientType string `json:"recipient_type" validate:"required,oneof=coach student"`
	RecipientID   uint   `json:"recipient_id" validate:"required"`
}

type BatchNotificationRequest struct {
	Type       string                 `json:"type" validate:"required"`
	Recipients []Recipient            `json:"recipients" validate:"required,min=1,max=500,dive"`
	Channels   []string               `json:"channels" validate:"omitempty,dive,oneof=app email line sms"`
	Priority   string                 `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Locale     string                 `json:"locale" validate:"omitempty,oneof=ja en"`
	Data       map[string]interface{} `json:"data"`
}

// Requests expands the batch into one request per recipient.
func (r *BatchNotificationRequest) Requests() []utils.NotificationRequest {
	reqs := make([]utils.NotificationRequest, 0, len(r.Recipients))
	for _, rcpt := range r.Recipients {
		reqs = append(reqs, utils.NotificationRequest{
			Type:          r.Type,
			RecipientType: rcpt.RecipientType,
			RecipientID:   rcpt.RecipientID,
			Channels:      r.Channels,
			Priority:      r.Priority,
			Locale:        r.Locale,
			Data:          r.Data,
		})
	}
	return reqs
}

type UpdateSettingRequest struct {
	AppEnabled   *bool   `json:"app_enabled"`
	EmailEnabled *bool   `json:"email_enabled"`
	LineEnabled  *bool   `json:"line_enabled"`
	SMSEnabled   *bool   `json:"sms_enabled"`
	Email        *string `json:"email" validate:"omitempty,email"`
	LineUserID   *string `json:"line_user_id"`
}

func CreateNotification() fiber.Handler {
	return validators.Body[utils.NotificationRequest]("validatedNotification")
}

func BatchNotification() fiber.Handler {
	return validators.Body[BatchNotificationRequest]("validatedNotificationBatch")
}

func UpdateSetting() fiber.Handler {
	return validators.Body[UpdateSettingRequest]("validatedNotificationSetting")
}
