package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	ChannelApp   = "app"
	ChannelEmail = "email"
	ChannelLine  = "line"
	ChannelSMS   = "sms"

	RecipientCoach   = "coach"
	RecipientStudent = "student"

	DeliverySent    = "sent"
	DeliveryFailed  = "failed"
	DeliverySkipped = "skipped"
)

type Notification struct {
	Base
	Type          string         `json:"type" gorm:"index;not null"`
	Title         string         `json:"title"`
	Message       string         `json:"message" gorm:"type:text"`
	Channels      pq.StringArray `json:"channels" gorm:"type:text"`
	Priority      string         `json:"priority" gorm:"default:'normal'"`
	Category      string         `json:"category" gorm:"index"`
	RecipientType string         `json:"recipient_type" gorm:"index:idx_notification_recipient;not null"`
	RecipientID   uint           `json:"recipient_id" gorm:"index:idx_notification_recipient;not null"`
	Data          datatypes.JSON `json:"data"`
	IsRead        bool           `json:"is_read" gorm:"default:false"`
	ReadAt        *time.Time     `json:"read_at"`
	SentAt        *time.Time     `json:"sent_at"`
}

type NotificationSetting struct {
	Base
	RecipientType string `json:"recipient_type" gorm:"uniqueIndex:idx_setting_recipient;not null"`
	RecipientID   uint   `json:"recipient_id" gorm:"uniqueIndex:idx_setting_recipient;not null"`
	AppEnabled    bool   `json:"app_enabled"`
	EmailEnabled  bool   `json:"email_enabled"`
	LineEnabled   bool   `json:"line_enabled"`
	SMSEnabled    bool   `json:"sms_enabled" gorm:"default:false"`
	Email         string `json:"email"`
	LineUserID    string `json:"line_user_id"`
}

// Allows reports whether the recipient accepts deliveries on channel.
func (s NotificationSetting) Allows(channel string) bool {
	switch channel {
	case ChannelApp:
		return s.AppEnabled
	case ChannelEmail:
		return s.EmailEnabled
	case ChannelLine:
		return s.LineEnabled
	case ChannelSMS:
		return s.SMSEnabled
	default:
		return false
	}
}

type DeliveryLog struct {
	Base
	NotificationID    uint   `json:"notification_id" gorm:"index;not null"`
	Channel           string `json:"channel" gorm:"not null"`
	Status            string `json:"status" gorm:"not null"`
	RecipientAddress  string `json:"recipient_address"`
	ErrorMessage      string `json:"error_message"`
	ProviderMessageID string `json:"provider_message_id"`
}

const (
	LineFollowing  = "following"
	LineUnfollowed = "unfollowed"
)

type LineFriend struct {
	Base
	LineUserID    string     `json:"line_user_id" gorm:"uniqueIndex;not null"`
	DisplayName   string     `json:"display_name"`
	PictureURL    string     `json:"picture_url"`
	Status        string     `json:"status" gorm:"default:'following'"`
	FollowedAt    *time.Time `json:"followed_at"`
	LastMessageAt *time.Time `json:"last_message_at"`
}
