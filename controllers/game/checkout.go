package gameController

import (
	"coachhub/config"
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models/game"
	"coachhub/utils"
	gameValidator "coachhub/validators/game"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func Checkout(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCheckout").(*gameValidator.CheckoutRequest)
	db := database.Database.Db

	purchase := game.GamePurchase{
		OrderID:    "GAME-" + uuid.NewString(),
		Plan:       reqData.Plan,
		Amount:     game.PlanPrices[reqData.Plan],
		Email:      reqData.Email,
		PlayerName: reqData.PlayerName,
		Status:     game.PurchasePending,
	}
	if err := db.Create(&purchase).Error; err != nil {
		return err
	}

	session, err := utils.Checkout.CreateCheckout(utils.CheckoutRequest{
		OrderID:    purchase.OrderID,
		Amount:     purchase.Amount,
		Plan:       purchase.Plan,
		Email:      purchase.Email,
		PlayerName: purchase.PlayerName,
	})
	if err != nil {
		utils.Log.Errorf("[PAYMENT] checkout for %s failed: %v", purchase.OrderID, err)
		if dbErr := db.Model(&purchase).Update("status", game.PurchaseFailed).Error; dbErr != nil {
			utils.Log.Errorf("[PAYMENT] marking %s failed: %v", purchase.OrderID, dbErr)
		}
		return utils.ErrBadGateway("決済セッションの作成に失敗しました")
	}

	if err := db.Model(&purchase).Updates(map[string]interface{}{
		"snap_token":   session.Token,
		"redirect_url": session.RedirectURL,
	}).Error; err != nil {
		return err
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "決済セッションを作成しました", fiber.Map{
		"order_id":     purchase.OrderID,
		"plan":         purchase.Plan,
		"amount":       purchase.Amount,
		"token":        session.Token,
		"redirect_url": session.RedirectURL,
	})
}

// PurchaseStatus maps a provider transaction status onto the purchase status.
// An empty result means the notification does not change the purchase.
func PurchaseStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return ""
		}
		return game.PurchasePaid
	case "settlement":
		return game.PurchasePaid
	case "expire":
		return game.PurchaseExpired
	case "cancel", "deny":
		return game.PurchaseCanceled
	case "failure":
		return game.PurchaseFailed
	default:
		return ""
	}
}

// NotificationSignature is sha512(order_id + status_code + gross_amount + server_key) in hex.
func NotificationSignature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// PaymentNotify applies an HTTP notification from the payment provider.
func PaymentNotify(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPaymentNotification").(*gameValidator.PaymentNotification)
	db := database.Database.Db

	key := config.AppConfig.MidtransServerKey
	if key == "" {
		utils.Log.Warnf("[PAYMENT] rejected notification for %s: server key not configured", reqData.OrderID)
		return utils.ErrUnauthorized("署名を検証できません")
	}
	expected := NotificationSignature(reqData.OrderID, reqData.StatusCode, reqData.GrossAmount, key)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(reqData.SignatureKey)) != 1 {
		utils.Log.Warnf("[PAYMENT] rejected notification for %s: bad signature", reqData.OrderID)
		return utils.ErrUnauthorized("署名が不正です")
	}

	var purchase game.GamePurchase
	if err := db.Where("order_id = ?", reqData.OrderID).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("注文が見つかりません")
		}
		return err
	}

	status := PurchaseStatus(reqData.TransactionStatus, reqData.FraudStatus)
	if status == "" || status == purchase.Status || purchase.Status == game.PurchasePaid {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{"order_id": purchase.OrderID, "status": purchase.Status})
	}

	updates := map[string]interface{}{"status": status}
	if status == game.PurchasePaid {
		now := utils.Now()
		updates["paid_at"] = now
	}
	if err := db.Model(&purchase).Updates(updates).Error; err != nil {
		return err
	}
	utils.Log.Infof("[PAYMENT] %s -> %s", purchase.OrderID, status)

	if status == game.PurchasePaid {
		if utils.AsyncNotifications {
			go sendReceipt(purchase)
		} else {
			sendReceipt(purchase)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{"order_id": purchase.OrderID, "status": status})
}

// sendReceipt emails the payment_completed message; purchasers are not coaches or
// students, so it goes straight to the mailer.
func sendReceipt(purchase game.GamePurchase) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tmpl := utils.NotificationTemplates["payment_completed"]
	title, message := tmpl.Render("ja", map[string]interface{}{
		"player_name": purchase.PlayerName,
		"plan":        purchase.Plan,
		"order_id":    purchase.OrderID,
	})
	if _, err := utils.Mail.Send(ctx, utils.EmailMessage{
		To:      []string{purchase.Email},
		Subject: title,
		HTML:    utils.RenderEmail(title, message),
		Text:    message,
	}); err != nil {
		utils.Log.Warnf("[PAYMENT] receipt for %s not sent: %v", purchase.OrderID, err)
	}
}

func GetPurchase(c *fiber.Ctx) error {
	orderID := c.Params("order_id")
	var purchase game.GamePurchase
	if err := database.Database.Db.Where("order_id = ?", orderID).First(&purchase).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotFound("注文が見つかりません")
		}
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", fiber.Map{
		"order_id":     purchase.OrderID,
		"plan":         purchase.Plan,
		"amount":       purchase.Amount,
		"status":       purchase.Status,
		"player_name":  purchase.PlayerName,
		"redirect_url": purchase.RedirectURL,
		"paid_at":      purchase.PaidAt,
	})
}
