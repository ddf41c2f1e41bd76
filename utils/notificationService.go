package utils

import (
	"coachhub/database"
	"coachhub/models"
	"context"
	"encoding/json"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// NotificationRequest asks for one notification to one recipient.
type NotificationRequest struct {
	Type          string                 `json:"type" validate:"required"`
	RecipientType string                 `json:"recipient_type" validate:"required,oneof=coach student"`
	RecipientID   uint                   `json:"recipient_id" validate:"required"`
	Channels      []string               `json:"channels" validate:"omitempty,dive,oneof=app email line sms"`
	Priority      string                 `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Locale        string                 `json:"locale" validate:"omitempty,oneof=ja en"`
	Data          map[string]interface{} `json:"data"`
}

// DeliveryResult is the outcome of one channel attempt.
type DeliveryResult struct {
	Channel string `json:"channel"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// NotificationResult is the stored notification plus its channel outcomes.
type NotificationResult struct {
	Notification models.Notification `json:"notification"`
	Deliveries   []DeliveryResult    `json:"deliveries"`
}

// BatchOutcome reports one recipient of a batch send.
type BatchOutcome struct {
	RecipientType  string           `json:"recipient_type"`
	RecipientID    uint             `json:"recipient_id"`
	Success        bool             `json:"success"`
	NotificationID uint             `json:"notification_id,omitempty"`
	Deliveries     []DeliveryResult `json:"deliveries,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// BatchConcurrency bounds concurrent recipients in SendBatch.
const BatchConcurrency = 8

type recipientAddress struct {
	Email      string
	LineUserID string
}

func resolveRecipient(db *gorm.DB, recipientType string, recipientID uint) (recipientAddress, error) {
	switch recipientType {
	case models.RecipientCoach:
		var coach models.Coach
		if err := db.First(&coach, recipientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recipientAddress{}, ErrNotFound("通知先のコーチが見つかりません")
			}
			return recipientAddress{}, err
		}
		return recipientAddress{Email: coach.Email, LineUserID: coach.LineUserID}, nil
	case models.RecipientStudent:
		var student models.Student
		if err := db.First(&student, recipientID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return recipientAddress{}, ErrNotFound("通知先の生徒が見つかりません")
			}
			return recipientAddress{}, err
		}
		return recipientAddress{Email: student.GuardianEmail, LineUserID: student.GuardianLineUserID}, nil
	default:
		return recipientAddress{}, ErrBadRequest("recipient_type の値が不正です")
	}
}

// selectChannels applies the recipient's settings to the requested or default channels.
func selectChannels(requested []string, tmpl NotificationTemplate, setting *models.NotificationSetting) []string {
	channels := requested
	if len(channels) == 0 {
		channels = tmpl.Channels
	}
	seen := make(map[string]bool, len(channels))
	out := make([]string, 0, len(channels))
	for _, ch := range channels {
		if seen[ch] {
			continue
		}
		seen[ch] = true
		if setting != nil && !setting.Allows(ch) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

// CreateNotification expands the template, stores the notification and attempts
// every selected channel. Channel failures are logged per channel and never undo
// the notification row.
func CreateNotification(ctx context.Context, req NotificationRequest) (*NotificationResult, error) {
	db := database.Database.Db

	tmpl, ok := NotificationTemplates[req.Type]
	if !ok {
		return nil, ErrBadRequest("不明な通知タイプです: " + req.Type)
	}

	addr, err := resolveRecipient(db, req.RecipientType, req.RecipientID)
	if err != nil {
		return nil, err
	}

	var setting *models.NotificationSetting
	var s models.NotificationSetting
	err = db.Where("recipient_type = ? AND recipient_id = ?", req.RecipientType, req.RecipientID).First(&s).Error
	switch {
	case err == nil:
		setting = &s
		if s.Email != "" {
			addr.Email = s.Email
		}
		if s.LineUserID != "" {
			addr.LineUserID = s.LineUserID
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	data := req.Data
	if data == nil {
		data = map[string]interface{}{}
	}
	title, message := tmpl.Render(req.Locale, data)
	rawData, _ := json.Marshal(data)

	priority := tmpl.Priority
	if req.Priority != "" {
		priority = req.Priority
	}

	n := models.Notification{
		Type:          req.Type,
		Title:         title,
		Message:       message,
		Channels:      selectChannels(req.Channels, tmpl, setting),
		Priority:      priority,
		Category:      tmpl.Category,
		RecipientType: req.RecipientType,
		RecipientID:   req.RecipientID,
		Data:          rawData,
	}
	if err := db.Create(&n).Error; err != nil {
		return nil, Wrap(err, "failed to store notification")
	}

	result := &NotificationResult{}
	sent := false
	for _, ch := range n.Channels {
		d := deliver(ctx, db, &n, ch, addr, tmpl.Rich)
		if d.Status == models.DeliverySent {
			sent = true
		}
		result.Deliveries = append(result.Deliveries, d)
	}

	if sent {
		now := Now()
		n.SentAt = &now
		if err := db.Model(&n).Update("sent_at", now).Error; err != nil {
			Log.Warnf("[NOTIFY] failed to stamp sent_at for %d: %v", n.ID, err)
		}
	}

	result.Notification = n
	return result, nil
}

func deliver(ctx context.Context, db *gorm.DB, n *models.Notification, channel string, addr recipientAddress, rich bool) DeliveryResult {
	entry := models.DeliveryLog{NotificationID: n.ID, Channel: channel}

	var providerID string
	var err error
	switch channel {
	case models.ChannelApp:
		// the stored row is the in-app message
		entry.Status = models.DeliverySent
	case models.ChannelEmail:
		entry.RecipientAddress = addr.Email
		if addr.Email == "" {
			entry.Status = models.DeliverySkipped
			entry.ErrorMessage = "no email address"
			break
		}
		providerID, err = Mail.Send(ctx, EmailMessage{
			To:      []string{addr.Email},
			Subject: n.Title,
			HTML:    RenderEmail(n.Title, n.Message),
			Text:    n.Message,
		})
	case models.ChannelLine:
		entry.RecipientAddress = addr.LineUserID
		if addr.LineUserID == "" {
			entry.Status = models.DeliverySkipped
			entry.ErrorMessage = "no LINE user id"
			break
		}
		if rich {
			providerID, err = Line.PushFlex(ctx, addr.LineUserID, n.Title, NotificationFlex(n.Title, n.Message))
		} else {
			providerID, err = Line.PushText(ctx, addr.LineUserID, n.Title+"\n"+n.Message)
		}
	case models.ChannelSMS:
		entry.Status = models.DeliverySkipped
		entry.ErrorMessage = "no SMS provider configured"
	default:
		entry.Status = models.DeliverySkipped
		entry.ErrorMessage = "unknown channel"
	}

	if entry.Status == "" {
		if err != nil {
			entry.Status = models.DeliveryFailed
			entry.ErrorMessage = err.Error()
			Log.Warnf("[NOTIFY] %s delivery for notification %d failed: %v", channel, n.ID, err)
		} else {
			entry.Status = models.DeliverySent
			entry.ProviderMessageID = providerID
		}
	}

	if dbErr := db.Create(&entry).Error; dbErr != nil {
		Log.Errorf("[NOTIFY] failed to write delivery log for notification %d: %v", n.ID, dbErr)
	}

	return DeliveryResult{Channel: channel, Status: entry.Status, Error: entry.ErrorMessage}
}

// SendBatch creates one notification per request concurrently. Each outcome is
// independent; a failing recipient never cancels the others.
func SendBatch(ctx context.Context, reqs []NotificationRequest) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(reqs))

	var g errgroup.Group
	g.SetLimit(BatchConcurrency)
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			outcome := BatchOutcome{RecipientType: req.RecipientType, RecipientID: req.RecipientID}
			res, err := CreateNotification(ctx, req)
			if err != nil {
				outcome.Error = err.Error()
			} else {
				outcome.Success = true
				outcome.NotificationID = res.Notification.ID
				outcome.Deliveries = res.Deliveries
			}
			outcomes[i] = outcome
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// AsyncNotifications controls whether Notify runs in the background.
var AsyncNotifications = true

// Notify fires a notification on behalf of a request handler. Failures are only logged.
func Notify(req NotificationRequest) {
	send := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := CreateNotification(ctx, req); err != nil {
			Log.Warnf("[NOTIFY] %s to %s %d failed: %v", req.Type, req.RecipientType, req.RecipientID, err)
		}
	}
	if AsyncNotifications {
		go send()
		return
	}
	send()
}
