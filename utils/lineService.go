package utils

import (
	"coachhub/config"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// LineProfile is the subset of the LINE profile API used here.
type LineProfile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

// LineMessenger is the outbound side of the LINE Messaging API.
type LineMessenger interface {
	PushText(ctx context.Context, to, text string) (string, error)
	PushFlex(ctx context.Context, to, altText string, contents map[string]interface{}) (string, error)
	Reply(ctx context.Context, replyToken, text string) error
	GetProfile(ctx context.Context, userID string) (*LineProfile, error)
}

// Line is the process-wide LINE client, set by InitLine.
var Line LineMessenger = disabledLine{}

var ErrLineDisabled = errors.New("LINE channel access token is not configured")

// InitLine builds the LINE client when an access token is configured.
func InitLine(cfg *config.Config) {
	if cfg.LineChannelAccessToken == "" {
		Line = disabledLine{}
		Log.Warn("[LINE] no channel access token, LINE deliveries will fail")
		return
	}
	Line = NewLineClient(cfg.LineApiBaseURL, cfg.LineChannelAccessToken)
}

// LineClient talks to the Messaging API with a bearer channel token.
type LineClient struct {
	http *resty.Client
}

func NewLineClient(baseURL, accessToken string) *LineClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(accessToken).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	return &LineClient{http: client}
}

type linePushResponse struct {
	SentMessages []struct {
		ID string `json:"id"`
	} `json:"sentMessages"`
}

type lineErrorResponse struct {
	Message string `json:"message"`
}

func (l *LineClient) push(ctx context.Context, to string, messages []map[string]interface{}) (string, error) {
	var out linePushResponse
	var apiErr lineErrorResponse
	resp, err := l.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"to": to, "messages": messages}).
		SetResult(&out).
		SetError(&apiErr).
		Post("/v2/bot/message/push")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("LINE push failed (%d): %s", resp.StatusCode(), apiErr.Message)
	}
	if len(out.SentMessages) > 0 {
		return out.SentMessages[0].ID, nil
	}
	return "", nil
}

func (l *LineClient) PushText(ctx context.Context, to, text string) (string, error) {
	return l.push(ctx, to, []map[string]interface{}{
		{"type": "text", "text": text},
	})
}

// PushFlex sends the rich (flex) variant; altText is shown in chat lists.
func (l *LineClient) PushFlex(ctx context.Context, to, altText string, contents map[string]interface{}) (string, error) {
	return l.push(ctx, to, []map[string]interface{}{
		{"type": "flex", "altText": altText, "contents": contents},
	})
}

func (l *LineClient) Reply(ctx context.Context, replyToken, text string) error {
	var apiErr lineErrorResponse
	resp, err := l.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"replyToken": replyToken,
			"messages":   []map[string]interface{}{{"type": "text", "text": text}},
		}).
		SetError(&apiErr).
		Post("/v2/bot/message/reply")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("LINE reply failed (%d): %s", resp.StatusCode(), apiErr.Message)
	}
	return nil
}

func (l *LineClient) GetProfile(ctx context.Context, userID string) (*LineProfile, error) {
	var profile LineProfile
	resp, err := l.http.R().
		SetContext(ctx).
		SetResult(&profile).
		SetPathParam("userId", userID).
		Get("/v2/bot/profile/{userId}")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("LINE profile lookup failed (%d)", resp.StatusCode())
	}
	return &profile, nil
}

type disabledLine struct{}

func (disabledLine) PushText(context.Context, string, string) (string, error) {
	return "", ErrLineDisabled
}

func (disabledLine) PushFlex(context.Context, string, string, map[string]interface{}) (string, error) {
	return "", ErrLineDisabled
}

func (disabledLine) Reply(context.Context, string, string) error {
	return ErrLineDisabled
}

func (disabledLine) GetProfile(context.Context, string) (*LineProfile, error) {
	return nil, ErrLineDisabled
}

// LineSignature computes base64(HMAC-SHA256(secret, body)).
func LineSignature(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifyLineSignature compares the X-Line-Signature header in constant time.
func VerifyLineSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	expected := LineSignature(secret, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// NotificationFlex builds the rich message bubble for a notification.
func NotificationFlex(title, message string) map[string]interface{} {
	return map[string]interface{}{
		"type": "bubble",
		"body": map[string]interface{}{
			"type":   "box",
			"layout": "vertical",
			"contents": []map[string]interface{}{
				{"type": "text", "text": title, "weight": "bold", "size": "lg", "wrap": true},
				{"type": "text", "text": message, "size": "sm", "wrap": true, "margin": "md"},
			},
		},
	}
}
