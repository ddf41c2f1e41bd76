package lineController

import (
	"coachhub/config"
	"coachhub/middleware"
	"coachhub/utils"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// Handler processes verified webhook events. Tests may replace it.
var Handler EventHandler = &DefaultHandler{}

// Webhook verifies X-Line-Signature against the raw body before anything is parsed,
// then hands every event to Handler. Any handler failure is answered with a generic 500.
func Webhook(c *fiber.Ctx) error {
	body := c.Body()
	signature := c.Get("X-Line-Signature")
	if !utils.VerifyLineSignature(config.AppConfig.LineChannelSecret, body, signature) {
		utils.Log.Warnf("[LINE] rejected webhook with invalid signature from %s", c.IP())
		return utils.ErrUnauthorized("署名が不正です")
	}

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return utils.ErrBadRequest("リクエストボディが不正です")
	}

	for _, ev := range payload.Events {
		if err := Handler.HandleEvent(c.UserContext(), ev); err != nil {
			utils.Log.Errorf("[LINE] %s event from %s failed: %v", ev.Type, ev.Source.UserID, err)
			return utils.ErrUpstream("イベント処理に失敗しました")
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", nil)
}
