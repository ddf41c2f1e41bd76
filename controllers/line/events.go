package lineController

import (
	"coachhub/database"
	"coachhub/models"
	"coachhub/utils"
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

type WebhookPayload struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

type EventSource struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

type Event struct {
	Type       string        `json:"type"`
	Timestamp  int64         `json:"timestamp"`
	ReplyToken string        `json:"replyToken"`
	Source     EventSource   `json:"source"`
	Message    *EventMessage `json:"message,omitempty"`
}

// EventHandler reacts to one webhook event.
type EventHandler interface {
	HandleEvent(ctx context.Context, ev Event) error
}

const (
	welcomeMessage = "友だち追加ありがとうございます！\n通知を受け取るには「連携 登録メールアドレス」と送信してください。"
	linkUsage      = "「連携 メールアドレス」の形式で送信してください。"
)

// DefaultHandler keeps LineFriend rows current and links accounts on request.
type DefaultHandler struct{}

func (h *DefaultHandler) HandleEvent(ctx context.Context, ev Event) error {
	if ev.Source.UserID == "" {
		return nil
	}
	switch ev.Type {
	case "follow":
		return h.follow(ctx, ev)
	case "unfollow":
		return h.unfollow(ctx, ev)
	case "message":
		return h.message(ctx, ev)
	default:
		return nil
	}
}

func (h *DefaultHandler) follow(ctx context.Context, ev Event) error {
	db := database.Database.Db.WithContext(ctx)
	now := utils.Now()

	var friend models.LineFriend
	err := db.Where("line_user_id = ?", ev.Source.UserID).First(&friend).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	friend.LineUserID = ev.Source.UserID
	friend.Status = models.LineFollowing
	friend.FollowedAt = &now

	if profile, err := utils.Line.GetProfile(ctx, ev.Source.UserID); err != nil {
		utils.Log.Warnf("[LINE] profile lookup for %s failed: %v", ev.Source.UserID, err)
	} else {
		friend.DisplayName = profile.DisplayName
		friend.PictureURL = profile.PictureURL
	}

	if err := db.Save(&friend).Error; err != nil {
		return err
	}
	utils.Log.Infof("[LINE] %s followed", ev.Source.UserID)

	h.reply(ctx, ev, welcomeMessage)
	return nil
}

func (h *DefaultHandler) unfollow(ctx context.Context, ev Event) error {
	res := database.Database.Db.WithContext(ctx).Model(&models.LineFriend{}).
		Where("line_user_id = ?", ev.Source.UserID).
		Updates(map[string]interface{}{"status": models.LineUnfollowed, "updated_at": utils.Now()})
	if res.Error != nil {
		return res.Error
	}
	utils.Log.Infof("[LINE] %s unfollowed", ev.Source.UserID)
	return nil
}

func (h *DefaultHandler) message(ctx context.Context, ev Event) error {
	db := database.Database.Db.WithContext(ctx)
	now := utils.Now()

	res := db.Model(&models.LineFriend{}).Where("line_user_id = ?", ev.Source.UserID).
		Updates(map[string]interface{}{"last_message_at": now, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		friend := models.LineFriend{LineUserID: ev.Source.UserID, Status: models.LineFollowing, LastMessageAt: &now}
		if err := db.Create(&friend).Error; err != nil {
			return err
		}
	}

	if ev.Message == nil || ev.Message.Type != "text" {
		return nil
	}
	email, ok := ParseLinkCommand(ev.Message.Text)
	if !ok {
		return nil
	}
	if email == "" {
		h.reply(ctx, ev, linkUsage)
		return nil
	}

	reply, err := LinkAccount(ctx, ev.Source.UserID, email)
	if err != nil {
		return err
	}
	h.reply(ctx, ev, reply)
	return nil
}

func (h *DefaultHandler) reply(ctx context.Context, ev Event, text string) {
	if ev.ReplyToken == "" {
		return
	}
	if err := utils.Line.Reply(ctx, ev.ReplyToken, text); err != nil {
		utils.Log.Warnf("[LINE] reply to %s failed: %v", ev.Source.UserID, err)
	}
}

// ParseLinkCommand recognises "連携 <email>" and "link <email>". ok is true for the
// command word even when the email is missing.
func ParseLinkCommand(text string) (string, bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 {
		return "", false
	}
	cmd := strings.ToLower(fields[0])
	if cmd != "連携" && cmd != "link" {
		return "", false
	}
	if len(fields) < 2 {
		return "", true
	}
	return strings.ToLower(fields[1]), true
}

// LinkAccount attaches the LINE user to the coach with email, or else to every
// student whose guardian uses that email. It returns the reply text.
func LinkAccount(ctx context.Context, lineUserID, email string) (string, error) {
	db := database.Database.Db.WithContext(ctx)
	now := utils.Now()

	res := db.Model(&models.Coach{}).Where("LOWER(email) = ?", email).
		Updates(map[string]interface{}{"line_user_id": lineUserID, "updated_at": now})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected > 0 {
		utils.Log.Infof("[LINE] linked %s to coach %s", lineUserID, email)
		return "コーチアカウントと連携しました。", nil
	}

	res = db.Model(&models.Student{}).Where("LOWER(guardian_email) = ?", email).
		Updates(map[string]interface{}{"guardian_line_user_id": lineUserID, "updated_at": now})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected > 0 {
		utils.Log.Infof("[LINE] linked %s to %d students of %s", lineUserID, res.RowsAffected, email)
		return fmt.Sprintf("保護者アカウントと連携しました（生徒%d名）。", res.RowsAffected), nil
	}

	return "このメールアドレスは登録されていません。", nil
}
