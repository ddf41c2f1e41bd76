package notificationController

import (
	"coachhub/database"
	"coachhub/middleware"
	"coachhub/models"
	"coachhub/utils"
	notificationValidator "coachhub/validators/notification"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func settingRecipient(c *fiber.Ctx) (string, uint, error) {
	recipientType := c.Params("recipient_type")
	if recipientType != models.RecipientCoach && recipientType != models.RecipientStudent {
		return "", 0, utils.ErrBadRequest("recipient_type の値が不正です")
	}
	recipientID, err := utils.ParamID(c, "recipient_id")
	if err != nil {
		return "", 0, err
	}
	var model interface{} = &models.Coach{}
	msg := "コーチが見つかりません"
	if recipientType == models.RecipientStudent {
		model, msg = &models.Student{}, "生徒が見つかりません"
	}
	if err := utils.MustExist(database.Database.Db, model, recipientID, msg); err != nil {
		return "", 0, err
	}
	return recipientType, recipientID, nil
}

func defaultSetting(recipientType string, recipientID uint) models.NotificationSetting {
	return models.NotificationSetting{
		RecipientType: recipientType,
		RecipientID:   recipientID,
		AppEnabled:    true,
		EmailEnabled:  true,
		LineEnabled:   true,
		SMSEnabled:    true,
	}
}

// GetSetting returns the stored preferences; a recipient without a row has every channel enabled.
func GetSetting(c *fiber.Ctx) error {
	recipientType, recipientID, err := settingRecipient(c)
	if err != nil {
		return err
	}

	setting := defaultSetting(recipientType, recipientID)
	err = database.Database.Db.
		Where("recipient_type = ? AND recipient_id = ?", recipientType, recipientID).
		First(&setting).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "", setting)
}

func UpdateSetting(c *fiber.Ctx) error {
	recipientType, recipientID, err := settingRecipient(c)
	if err != nil {
		return err
	}
	reqData := c.Locals("validatedNotificationSetting").(*notificationValidator.UpdateSettingRequest)
	db := database.Database.Db

	setting := defaultSetting(recipientType, recipientID)
	err = db.Where("recipient_type = ? AND recipient_id = ?", recipientType, recipientID).First(&setting).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if reqData.AppEnabled != nil {
		setting.AppEnabled = *reqData.AppEnabled
	}
	if reqData.EmailEnabled != nil {
		setting.EmailEnabled = *reqData.EmailEnabled
	}
	if reqData.LineEnabled != nil {
		setting.LineEnabled = *reqData.LineEnabled
	}
	if reqData.SMSEnabled != nil {
		setting.SMSEnabled = *reqData.SMSEnabled
	}
	if reqData.Email != nil {
		setting.Email = strings.ToLower(strings.TrimSpace(*reqData.Email))
	}
	if reqData.LineUserID != nil {
		setting.LineUserID = strings.TrimSpace(*reqData.LineUserID)
	}
	setting.UpdatedAt = utils.Now()

	// Save inserts when ID is zero and updates every column otherwise
	if err := db.Save(&setting).Error; err != nil {
		return err
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "通知設定を更新しました", setting)
}
